package core

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/crypto"
)

// RequestEmailVerificationHandler enqueues a (re-)send of the verification
// mail.
// Endpoint: POST /api/auth/verify-email/request
// Authenticated: No
// Allowed Mimetype: application/json
//
// Uniform accepted response: unknown and already-verified addresses look the
// same as a dispatched mail.
func (a *App) RequestEmailVerificationHandler(w http.ResponseWriter, r *http.Request) {
	if resp, err := a.Validator().ContentType(r, MimeTypeJSON); err != nil {
		WriteJsonError(w, resp)
		return
	}

	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJsonError(w, errorInvalidRequest)
		return
	}

	email := normalizeEmail(req.Email)
	if email == "" {
		WriteJsonError(w, errorInvalidRequest)
		return
	}
	if err := ValidateEmail(email); err != nil {
		WriteJsonError(w, errorInvalidRequest)
		return
	}

	// The job handler re-checks existence and the verified flag; unknown
	// addresses simply produce a no-op job within the cooldown bucket.
	a.enqueueVerificationEmail(email)

	WriteJsonOk(w, okVerificationRequested)
}

// ConfirmEmailVerificationHandler redeems a verification token.
// Endpoint: POST /api/auth/verify-email
// Authenticated: No (the token is the credential)
// Allowed Mimetype: application/json
func (a *App) ConfirmEmailVerificationHandler(w http.ResponseWriter, r *http.Request) {
	if resp, err := a.Validator().ContentType(r, MimeTypeJSON); err != nil {
		WriteJsonError(w, resp)
		return
	}

	var req struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJsonError(w, errorInvalidRequest)
		return
	}
	if req.Token == "" {
		WriteJsonError(w, errorInvalidRequest)
		return
	}

	// The verification key depends on whose token this claims to be, so the
	// claims are read unverified first and the signature checked against the
	// credential-derived key afterwards.
	claims, err := crypto.ParseJwtUnverified(req.Token)
	if err != nil {
		WriteJsonError(w, errorJwtInvalidVerificationToken)
		return
	}
	userID, email, err := crypto.ValidateEmailVerificationClaims(claims)
	if err != nil {
		WriteJsonError(w, errorJwtInvalidVerificationToken)
		return
	}

	user, err := a.DbAuth().GetUserById(userID)
	if err != nil || user == nil {
		WriteJsonError(w, errorJwtInvalidVerificationToken)
		return
	}

	cfg := a.Config()
	signingKey, err := crypto.NewJwtSigningKeyWithCredentials(user.Email, user.Password, []byte(cfg.Jwt.VerificationEmailSecret))
	if err != nil {
		WriteJsonError(w, errorJwtInvalidVerificationToken)
		return
	}
	if _, err := crypto.ParseJwt(req.Token, signingKey); err != nil {
		if errors.Is(err, crypto.ErrJwtTokenExpired) {
			WriteJsonError(w, errorJwtTokenExpired)
			return
		}
		WriteJsonError(w, errorJwtInvalidVerificationToken)
		return
	}

	// The token was minted for a specific address; if the account's address
	// changed since, the token no longer proves anything.
	if email != user.Email {
		WriteJsonError(w, errorJwtInvalidVerificationToken)
		return
	}

	if user.Verified {
		WriteJsonOk(w, okAlreadyVerified)
		return
	}

	if err := a.DbAuth().VerifyEmail(user.ID); err != nil {
		a.Logger().Error("failed to mark email verified", "user_id", user.ID, "err", err)
		WriteJsonError(w, errorEmailVerificationFailed)
		return
	}

	WriteJsonOk(w, okEmailVerified)
}
