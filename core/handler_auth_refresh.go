package core

import (
	"net/http"

	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/crypto"
)

// RefreshAuthHandler re-issues the durable JWT session with a fresh expiry.
// Endpoint: POST /api/auth/refresh
// Authenticated: Yes
// Allowed Mimetype: application/json
func (a *App) RefreshAuthHandler(w http.ResponseWriter, r *http.Request) {
	if resp, err := a.Validator().ContentType(r, MimeTypeJSON); err != nil {
		WriteJsonError(w, resp)
		return
	}

	// Banned accounts are rejected inside Authenticate with the same generic
	// invalid-token response as any bad token.
	user, authResp, err := a.Auth().Authenticate(r)
	if err != nil {
		WriteJsonError(w, authResp)
		return
	}

	cfg := a.Config()
	newToken, _, err := crypto.NewJwtSessionToken(user.ID, user.Email, user.Password, cfg.Jwt.AuthSecret, cfg.Jwt.AuthTokenDuration.Duration)
	if err != nil {
		a.Logger().Error("failed to generate refreshed token", "err", err)
		WriteJsonError(w, errorTokenGeneration)
		return
	}

	writeAuthResponse(w, newToken, int(cfg.Jwt.AuthTokenDuration.Duration.Seconds()), user)
}
