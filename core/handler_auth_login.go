package core

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/crypto"
	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/db"
	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/notify"
)

// LoginHandler handles password-based authentication.
// Endpoint: POST /api/auth/login
// Authenticated: No
// Allowed Mimetype: application/json
//
// Accounts with 2FA enabled get a pre-2FA session token and a dispatched
// code instead of a durable session; the state machine advances through
// /api/auth/2fa/verify and /api/auth/session.
func (a *App) LoginHandler(w http.ResponseWriter, r *http.Request) {
	if resp, err := a.Validator().ContentType(r, MimeTypeJSON); err != nil {
		WriteJsonError(w, resp)
		return
	}

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJsonError(w, errorInvalidRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		WriteJsonError(w, errorInvalidRequest)
		return
	}

	user, err := a.Verifier().Verify(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrAccountBanned):
			// Same external response as a wrong password; the distinct cause
			// goes to the ops channel.
			a.Notifier().Send(r.Context(), notify.Notification{
				Timestamp: time.Now().UTC(),
				Type:      notify.AlarmNotification,
				Level:     slog.LevelWarn,
				Source:    "auth.login",
				Message:   "login attempt on banned account",
				Fields:    map[string]any{"user_id": user.ID, "ip": getClientIP(r, a.Config())},
			})
			WriteJsonError(w, errorInvalidCredentials)
		case errors.Is(err, ErrInvalidCredentials):
			WriteJsonError(w, errorInvalidCredentials)
		default:
			a.Logger().Error("credential verification failed", "err", err)
			WriteJsonError(w, errorServiceUnavailable)
		}
		return
	}

	if user.TwoFactorEnabled {
		a.loginWithTwoFactor(w, r, user)
		return
	}

	// 2FA disabled: straight to the durable session, no bridge tokens.
	cfg := a.Config()
	token, _, err := crypto.NewJwtSessionToken(user.ID, user.Email, user.Password, cfg.Jwt.AuthSecret, cfg.Jwt.AuthTokenDuration.Duration)
	if err != nil {
		WriteJsonError(w, errorTokenGeneration)
		return
	}
	writeAuthResponse(w, token, int(cfg.Jwt.AuthTokenDuration.Duration.Seconds()), user)
}

// loginWithTwoFactor mints the pre-2FA session and dispatches a code.
func (a *App) loginWithTwoFactor(w http.ResponseWriter, r *http.Request, user *db.User) {
	sessionToken, err := a.Bridge().MintTempSession(user)
	if err != nil {
		a.Logger().Error("failed to mint temp login session", "user_id", user.ID, "err", err)
		WriteJsonError(w, errorServiceUnavailable)
		return
	}

	// Resend semantics: any code from an earlier login attempt dies here.
	if _, err := a.TwoFactor().ResendCode(r.Context(), user); err != nil {
		if errors.Is(err, ErrDeliveryFailed) {
			WriteJsonError(w, errorDeliveryFailed)
			return
		}
		a.Logger().Error("failed to issue two-factor code", "user_id", user.ID, "err", err)
		WriteJsonError(w, errorServiceUnavailable)
		return
	}

	WriteJsonWithData(w, JsonWithData{
		JsonBasic: JsonBasic{
			Status:  http.StatusOK,
			Code:    CodeOkTwoFactorRequired,
			Message: "Two-factor verification required",
		},
		Data: TwoFactorRequiredData{
			RequiresTwoFactor: true,
			SessionToken:      sessionToken,
			TwoFactorMethod:   user.TwoFactorMethod,
		},
	})
}

// LoginCheckHandler resolves a pending pre-2FA session without consuming it.
// Endpoint: GET /api/auth/login?sessionToken=
// Authenticated: No (the session token is the credential)
func (a *App) LoginCheckHandler(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("sessionToken")
	if token == "" {
		WriteJsonError(w, errorInvalidRequest)
		return
	}

	session, err := a.Bridge().GetTempSession(token)
	if err != nil {
		if errors.Is(err, db.ErrTokenNotFound) {
			WriteJsonError(w, errorInvalidOrExpiredSession)
			return
		}
		a.Logger().Error("temp session lookup failed", "err", err)
		WriteJsonError(w, errorServiceUnavailable)
		return
	}

	WriteJsonWithData(w, JsonWithData{
		JsonBasic: JsonBasic{
			Status:  http.StatusOK,
			Code:    CodeOkPendingLogin,
			Message: "Pending login session is valid",
		},
		Data: PendingLoginData{
			UserID: session.UserID,
			Email:  session.Email,
		},
	})
}
