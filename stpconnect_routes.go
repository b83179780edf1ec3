package stpconnect

import (
	"net/http"

	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/core"
	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/router"
)

// route registers the authentication API. The credential endpoints sit behind
// per-client rate limiting; everything that hands out or consumes verification
// artifacts already defends itself with uniform responses.
func route(ap *core.App) {
	r := ap.Router()

	// Login and second factor
	r.Register(http.MethodPost, "/api/auth/login",
		router.NewChain(http.HandlerFunc(ap.LoginHandler)).
			WithMiddleware(ap.LoginRateLimit).
			Handler())
	r.Register(http.MethodGet, "/api/auth/login", http.HandlerFunc(ap.LoginCheckHandler))
	r.Register(http.MethodPost, "/api/auth/2fa/send-code",
		router.NewChain(http.HandlerFunc(ap.SendTwoFactorCodeHandler)).
			WithMiddleware(ap.TwoFactorSendRateLimit).
			Handler())
	r.Register(http.MethodPost, "/api/auth/2fa/verify",
		router.NewChain(http.HandlerFunc(ap.VerifyTwoFactorCodeHandler)).
			WithMiddleware(ap.LoginRateLimit).
			Handler())
	r.Register(http.MethodPost, "/api/auth/session", http.HandlerFunc(ap.SessionHandler))

	// Established sessions
	r.Register(http.MethodPost, "/api/auth/refresh", http.HandlerFunc(ap.RefreshAuthHandler))
	r.Register(http.MethodGet, "/api/auth/me",
		router.NewChain(http.HandlerFunc(ap.MeHandler)).
			WithMiddleware(ap.JwtValidate).
			Handler())

	// Registration and email verification
	r.Register(http.MethodPost, "/api/auth/register", http.HandlerFunc(ap.RegisterWithPasswordHandler))
	r.Register(http.MethodPost, "/api/auth/verify-email", http.HandlerFunc(ap.ConfirmEmailVerificationHandler))
	r.Register(http.MethodPost, "/api/auth/verify-email/request", http.HandlerFunc(ap.RequestEmailVerificationHandler))

	// OAuth2
	r.Register(http.MethodPost, "/api/auth/oauth2", http.HandlerFunc(ap.AuthWithOAuth2Handler))
	r.Register(http.MethodGet, "/api/auth/oauth2/providers", http.HandlerFunc(ap.ListOAuth2ProvidersHandler))

	// Password reset
	r.Register(http.MethodPost, "/api/password/forgot", http.HandlerFunc(ap.RequestPasswordResetHandler))
	r.Register(http.MethodGet, "/api/password/reset", http.HandlerFunc(ap.ValidatePasswordResetTokenHandler))
	r.Register(http.MethodPost, "/api/password/reset", http.HandlerFunc(ap.ConfirmPasswordResetHandler))
}
