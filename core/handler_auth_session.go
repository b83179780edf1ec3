package core

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/crypto"
	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/db"
)

// SessionHandler exchanges a post-2FA session token for the durable JWT
// session.
// Endpoint: POST /api/auth/session
// Authenticated: No (the session token is the credential)
// Allowed Mimetype: application/json
//
// The redemption is destructive: a second presentation of the same token
// fails as though the token never existed.
func (a *App) SessionHandler(w http.ResponseWriter, r *http.Request) {
	if resp, err := a.Validator().ContentType(r, MimeTypeJSON); err != nil {
		WriteJsonError(w, resp)
		return
	}

	var req struct {
		SessionToken string `json:"sessionToken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJsonError(w, errorInvalidRequest)
		return
	}
	if req.SessionToken == "" {
		WriteJsonError(w, errorInvalidRequest)
		return
	}

	session, err := a.Bridge().ConsumeVerifiedSession(req.SessionToken)
	if err != nil {
		if errors.Is(err, db.ErrTokenNotFound) {
			WriteJsonError(w, errorInvalidOrExpiredSession)
			return
		}
		a.Logger().Error("verified session redemption failed", "err", err)
		WriteJsonError(w, errorServiceUnavailable)
		return
	}

	user, err := a.DbAuth().GetUserById(session.UserID)
	if err != nil {
		WriteJsonError(w, errorServiceUnavailable)
		return
	}
	if user == nil || user.Banned {
		// The token was already burned above; a banned or vanished account
		// gets the same generic failure as an invalid token.
		if user != nil {
			a.Logger().Info("rejected session mint for banned account", "user_id", user.ID)
		}
		WriteJsonError(w, errorInvalidOrExpiredSession)
		return
	}

	cfg := a.Config()
	token, _, err := crypto.NewJwtSessionToken(user.ID, user.Email, user.Password, cfg.Jwt.AuthSecret, cfg.Jwt.AuthTokenDuration.Duration)
	if err != nil {
		WriteJsonError(w, errorTokenGeneration)
		return
	}

	writeAuthResponse(w, token, int(cfg.Jwt.AuthTokenDuration.Duration.Seconds()), user)
}
