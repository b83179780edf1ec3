package core

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/crypto"
	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/db"
	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/queue"
)

// RequestPasswordResetHandler accepts a reset request and enqueues the email.
// Endpoint: POST /api/password/forgot
// Authenticated: No
// Allowed Mimetype: application/json
//
// Security notes:
//   - Sending emails is expensive and a spam vector; the cooldown bucket in
//     the job payload plus the queue's unique constraint cap it at one mail
//     per user per cooldown period.
//   - The accepted response is identical for existing, unknown, unverified
//     and password-less accounts. Every non-dispatching branch still ends in
//     the same response shape.
func (a *App) RequestPasswordResetHandler(w http.ResponseWriter, r *http.Request) {
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

	user, err := a.DbAuth().GetUserByEmail(email)
	if err != nil {
		a.Logger().Error("user lookup failed during reset request", "err", err)
		WriteJsonError(w, errorServiceUnavailable)
		return
	}

	switch {
	case user == nil:
		// Unknown address: same accepted response, nothing enqueued.
	case !user.Verified:
		// Reset links only go to addresses whose ownership was proven.
		a.Logger().Info("reset requested for unverified address", "user_id", user.ID)
	case user.Password == "":
		a.Logger().Info("reset requested for password-less account", "user_id", user.ID)
	default:
		cfg := a.Config()
		cooldownBucket := queue.CoolDownBucket(cfg.RateLimits.PasswordResetCooldown.Duration, time.Now())

		payload, _ := json.Marshal(queue.PayloadPasswordReset{
			UserID:         user.ID,
			CooldownBucket: cooldownBucket,
		})
		payloadExtra, _ := json.Marshal(queue.PayloadPasswordResetExtra{
			Email: email,
		})

		err = a.DbQueue().InsertJob(db.Job{
			JobType:      queue.JobTypePasswordReset,
			Payload:      payload,
			PayloadExtra: payloadExtra,
		})
		if err != nil && !errors.Is(err, db.ErrConstraintUnique) {
			WriteJsonError(w, errorServiceUnavailable)
			return
		}
		// A duplicate within the cooldown bucket is already on its way;
		// responding accepted keeps the shape uniform.
	}

	WriteJsonOk(w, okPasswordResetRequested)
}

// ValidatePasswordResetTokenHandler is a pure validity read for the client's
// reset form.
// Endpoint: GET /api/password/reset?token=
// Authenticated: No
func (a *App) ValidatePasswordResetTokenHandler(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		WriteJsonError(w, errorInvalidRequest)
		return
	}

	valid := false
	_, err := a.DbTokens().GetPasswordResetToken(token)
	switch {
	case err == nil:
		valid = true
	case errors.Is(err, db.ErrTokenNotFound):
		// invalid, consumed or expired: all the same to the caller
	default:
		a.Logger().Error("reset token lookup failed", "err", err)
		WriteJsonError(w, errorServiceUnavailable)
		return
	}

	WriteJsonWithData(w, JsonWithData{
		JsonBasic: JsonBasic{
			Status:  http.StatusOK,
			Code:    CodeOkResetTokenChecked,
			Message: "Password reset token checked",
		},
		Data: struct {
			Valid bool `json:"valid"`
		}{Valid: valid},
	})
}

// ConfirmPasswordResetHandler redeems a reset token and sets the new
// password.
// Endpoint: POST /api/password/reset
// Authenticated: No
// Allowed Mimetype: application/json
//
// The policy check runs before redemption, so a weak-password attempt does
// not burn the token; the user can resubmit with a compliant password. The
// consume is the atomic gate: a concurrent duplicate request finds the token
// already consumed and fails.
func (a *App) ConfirmPasswordResetHandler(w http.ResponseWriter, r *http.Request) {
	if resp, err := a.Validator().ContentType(r, MimeTypeJSON); err != nil {
		WriteJsonError(w, resp)
		return
	}

	var req struct {
		Token       string `json:"token"`
		NewPassword string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJsonError(w, errorInvalidRequest)
		return
	}
	if req.Token == "" || req.NewPassword == "" {
		WriteJsonError(w, errorInvalidRequest)
		return
	}

	cfg := a.Config()
	if len(req.NewPassword) < cfg.Auth.MinPasswordLength {
		WriteJsonError(w, errorPasswordComplexity)
		return
	}

	hash, err := crypto.GenerateHash(req.NewPassword)
	if err != nil {
		a.Logger().Error("password hashing failed", "err", err)
		WriteJsonError(w, errorServiceUnavailable)
		return
	}

	resetToken, err := a.DbTokens().ConsumePasswordResetToken(req.Token)
	if err != nil {
		if errors.Is(err, db.ErrTokenNotFound) {
			WriteJsonError(w, errorInvalidOrExpiredToken)
			return
		}
		a.Logger().Error("reset token redemption failed", "err", err)
		WriteJsonError(w, errorServiceUnavailable)
		return
	}

	if err := a.DbAuth().UpdatePassword(resetToken.UserID, hash); err != nil {
		// The token is burned but the password unchanged; the user has to
		// request a fresh link. Rare enough to accept over leaving a
		// redeemable token behind a completed reset.
		a.Logger().Error("password update failed after token consume", "user_id", resetToken.UserID, "err", err)
		WriteJsonError(w, errorServiceUnavailable)
		return
	}

	WriteJsonOk(w, okPasswordReset)
}
