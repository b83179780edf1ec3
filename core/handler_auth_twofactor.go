package core

import (
	"encoding/json"
	"errors"
	"net/http"
)

// SendTwoFactorCodeHandler issues (or re-issues) a verification code.
// Endpoint: POST /api/auth/2fa/send-code
// Authenticated: No
// Allowed Mimetype: application/json
//
// Anti-enumeration: the accepted response is identical whether or not the
// address belongs to an account. Only malformed input gets a 400.
func (a *App) SendTwoFactorCodeHandler(w http.ResponseWriter, r *http.Request) {
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
		a.Logger().Error("user lookup failed during code send", "err", err)
		WriteJsonError(w, errorServiceUnavailable)
		return
	}
	if user == nil || !user.TwoFactorEnabled || user.Banned {
		// Uniform accepted shape; nothing is dispatched.
		WriteJsonOk(w, okTwoFactorCodeSent)
		return
	}

	if _, err := a.TwoFactor().ResendCode(r.Context(), user); err != nil {
		if errors.Is(err, ErrDeliveryFailed) {
			WriteJsonError(w, errorDeliveryFailed)
			return
		}
		a.Logger().Error("failed to issue two-factor code", "user_id", user.ID, "err", err)
		WriteJsonError(w, errorServiceUnavailable)
		return
	}

	WriteJsonOk(w, okTwoFactorCodeSent)
}

// VerifyTwoFactorCodeHandler validates a submitted code and advances the
// login to the post-2FA state.
// Endpoint: POST /api/auth/2fa/verify
// Authenticated: No
// Allowed Mimetype: application/json
//
// On success the response carries the single-use post-2FA session token to
// present at /api/auth/session. An optional sessionToken field lets the
// client hand back its pre-2FA token for explicit cleanup.
func (a *App) VerifyTwoFactorCodeHandler(w http.ResponseWriter, r *http.Request) {
	if resp, err := a.Validator().ContentType(r, MimeTypeJSON); err != nil {
		WriteJsonError(w, resp)
		return
	}

	var req struct {
		Email        string `json:"email"`
		Code         string `json:"code"`
		SessionToken string `json:"sessionToken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJsonError(w, errorInvalidRequest)
		return
	}

	email := normalizeEmail(req.Email)
	if email == "" || req.Code == "" {
		WriteJsonError(w, errorInvalidRequest)
		return
	}

	user, err := a.DbAuth().GetUserByEmail(email)
	if err != nil {
		a.Logger().Error("user lookup failed during code verify", "err", err)
		WriteJsonError(w, errorServiceUnavailable)
		return
	}
	if user == nil || user.Banned {
		// Indistinguishable from a wrong code.
		WriteJsonError(w, errorInvalidOrExpiredCode)
		return
	}

	verifiedToken, err := a.TwoFactor().VerifyCode(user.ID, user.Email, req.Code)
	if err != nil {
		if errors.Is(err, ErrInvalidOrExpiredCode) {
			WriteJsonError(w, errorInvalidOrExpiredCode)
			return
		}
		a.Logger().Error("code verification failed", "user_id", user.ID, "err", err)
		WriteJsonError(w, errorServiceUnavailable)
		return
	}

	// The pre-2FA session did its job; best-effort cleanup, expiry covers
	// the rest.
	if req.SessionToken != "" {
		if err := a.Bridge().DeleteTempSession(req.SessionToken); err != nil {
			a.Logger().Debug("temp session cleanup failed", "err", err)
		}
	}

	WriteJsonWithData(w, JsonWithData{
		JsonBasic: JsonBasic{
			Status:  http.StatusOK,
			Code:    CodeOkTwoFactorVerified,
			Message: "Verification code accepted",
		},
		Data: struct {
			SessionToken string `json:"sessionToken"`
		}{SessionToken: verifiedToken},
	})
}
