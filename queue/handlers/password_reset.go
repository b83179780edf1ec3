package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/config"
	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/crypto"
	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/db"
	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/mail"
	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/queue"
)

// PasswordResetHandler mints a single-use reset token in the ledger and
// emails the link for it.
type PasswordResetHandler struct {
	dbAuth         db.DbAuth
	dbTokens       db.DbTokens
	configProvider *config.Provider
	mailer         mail.MailerInterface
}

func NewPasswordResetHandler(dbAuth db.DbAuth, dbTokens db.DbTokens, provider *config.Provider, mailer mail.MailerInterface) *PasswordResetHandler {
	return &PasswordResetHandler{
		dbAuth:         dbAuth,
		dbTokens:       dbTokens,
		configProvider: provider,
		mailer:         mailer,
	}
}

// Handle implements the JobHandler interface for password reset requests.
func (h *PasswordResetHandler) Handle(ctx context.Context, job db.Job) error {
	cfg := h.configProvider.Get()

	var payload queue.PayloadPasswordReset
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("failed to parse password reset payload: %w", err)
	}

	var payloadExtra queue.PayloadPasswordResetExtra
	if err := json.Unmarshal(job.PayloadExtra, &payloadExtra); err != nil {
		return fmt.Errorf("failed to parse password reset extra payload: %w", err)
	}

	user, err := h.dbAuth.GetUserById(payload.UserID)
	if err != nil {
		return fmt.Errorf("failed to get user by ID: %w", err)
	}
	if user == nil {
		// The request endpoint never reveals whether an account exists,
		// so a vanished user is not an error here either.
		return nil
	}

	// The token is opaque: the emailed string is the ledger key itself, no
	// claims to decode. Redemption consumes the row atomically.
	token := crypto.NewSecureToken()
	expiresAt := time.Now().UTC().Add(cfg.Auth.PasswordResetTokenDuration.Duration)
	if err := h.dbTokens.InsertPasswordResetToken(user.ID, token, expiresAt); err != nil {
		return fmt.Errorf("failed to store password reset token: %w", err)
	}

	if err := h.mailer.SendPasswordResetEmail(ctx, payloadExtra.Email, token); err != nil {
		return fmt.Errorf("failed to send password reset email: %w", err)
	}

	return nil
}
