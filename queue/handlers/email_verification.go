package handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/config"
	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/crypto"
	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/db"
	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/mail"
	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/queue"
)

// EmailVerificationHandler emails the address-ownership confirmation link.
// The link carries a JWT signed with a key derived from the user's current
// credentials, so it dies with any email or password change.
type EmailVerificationHandler struct {
	dbAuth         db.DbAuth
	configProvider *config.Provider
	mailer         mail.MailerInterface
}

func NewEmailVerificationHandler(dbAuth db.DbAuth, provider *config.Provider, mailer mail.MailerInterface) *EmailVerificationHandler {
	return &EmailVerificationHandler{
		dbAuth:         dbAuth,
		configProvider: provider,
		mailer:         mailer,
	}
}

// Handle implements the JobHandler interface for email verification requests.
func (h *EmailVerificationHandler) Handle(ctx context.Context, job db.Job) error {
	cfg := h.configProvider.Get()

	var payload queue.PayloadEmailVerification
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("failed to parse email verification payload: %w", err)
	}

	user, err := h.dbAuth.GetUserByEmail(payload.Email)
	if err != nil {
		return fmt.Errorf("failed to get user by email: %w", err)
	}
	if user == nil {
		return nil
	}
	if user.Verified {
		// A stale job for an already verified address is a no-op.
		return nil
	}
	if user.Password == "" {
		// OAuth2-origin accounts have no credential hash to bind a token
		// to; address ownership was already established by the provider.
		return nil
	}

	signingKey, err := crypto.NewJwtSigningKeyWithCredentials(user.Email, user.Password, []byte(cfg.Jwt.VerificationEmailSecret))
	if err != nil {
		return fmt.Errorf("failed to derive verification signing key: %w", err)
	}

	token, _, err := crypto.NewJwt(jwt.MapClaims{
		crypto.ClaimUserID: user.ID,
		crypto.ClaimEmail:  user.Email,
		crypto.ClaimType:   crypto.ClaimEmailVerificationValue,
	}, signingKey, cfg.Jwt.VerificationEmailTokenDuration.Duration)
	if err != nil {
		return fmt.Errorf("failed to create verification token: %w", err)
	}

	if err := h.mailer.SendVerificationEmail(ctx, user.Email, token); err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}

	return nil
}
