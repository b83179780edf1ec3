package core

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/config"
	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/crypto"
	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/db"
)

// Authenticator defines the interface for request authentication.
type Authenticator interface {
	Authenticate(r *http.Request) (*db.User, jsonResponse, error)
}

// DefaultAuthenticator implements Authenticator using the bearer JWT flow:
// the token's signing key is derived from the user's current credentials, so
// a password or email change invalidates every outstanding session.
type DefaultAuthenticator struct {
	dbAuth         db.DbAuth
	logger         *slog.Logger
	configProvider *config.Provider
}

func NewDefaultAuthenticator(dbAuth db.DbAuth, logger *slog.Logger, configProvider *config.Provider) *DefaultAuthenticator {
	return &DefaultAuthenticator{
		dbAuth:         dbAuth,
		logger:         logger,
		configProvider: configProvider,
	}
}

// Authenticate implements the Authenticator interface.
func (a *DefaultAuthenticator) Authenticate(r *http.Request) (*db.User, jsonResponse, error) {
	errAuth := errors.New("auth error")

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, errorNoAuthHeader, errAuth
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader {
		return nil, errorInvalidTokenFormat, errAuth
	}

	// Parse unverified first: the verification key depends on which user the
	// token claims to belong to.
	claims, err := crypto.ParseJwtUnverified(tokenString)
	if err != nil {
		return nil, errorJwtInvalidToken, errAuth
	}

	userID, err := crypto.ValidateSessionClaims(claims)
	if err != nil {
		if errors.Is(err, crypto.ErrJwtTokenExpired) {
			return nil, errorJwtTokenExpired, errAuth
		}
		return nil, errorJwtInvalidToken, errAuth
	}

	user, err := a.dbAuth.GetUserById(userID)
	if err != nil || user == nil {
		return nil, errorJwtInvalidToken, errAuth
	}

	// A ban invalidates outstanding sessions. Externally indistinguishable
	// from any other bad token; the log carries the real cause.
	if user.Banned {
		a.logger.Info("rejected session of banned account", "user_id", user.ID)
		return nil, errorJwtInvalidToken, errAuth
	}

	cfg := a.configProvider.Get()
	signingKey, err := crypto.NewJwtSessionSigningKey(user.Email, user.Password, cfg.Jwt.AuthSecret)
	if err != nil {
		return nil, errorTokenGeneration, errAuth
	}

	if _, err = crypto.ParseJwt(tokenString, signingKey); err != nil {
		if errors.Is(err, crypto.ErrJwtTokenExpired) {
			return nil, errorJwtTokenExpired, errAuth
		}
		if errors.Is(err, crypto.ErrJwtInvalidSigningMethod) {
			return nil, errorJwtInvalidSignMethod, errAuth
		}
		return nil, errorJwtInvalidToken, errAuth
	}

	return user, jsonResponse{}, nil
}
