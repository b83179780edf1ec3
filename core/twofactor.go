package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/config"
	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/crypto"
	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/db"
	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/mail"
)

var (
	// ErrDeliveryFailed means no channel managed to deliver the code. The
	// caller should offer a resend; provider diagnostics stay in the logs.
	ErrDeliveryFailed = errors.New("code delivery failed")
	// ErrInvalidOrExpiredCode covers unknown, consumed and expired codes
	// uniformly.
	ErrInvalidOrExpiredCode = errors.New("invalid or expired code")
)

// SmsSender delivers a verification code over SMS.
type SmsSender interface {
	SendCode(ctx context.Context, phone, code string) error
}

// CodeSource produces one-time codes. The production source draws from
// crypto/rand; tests install a deterministic one.
type CodeSource func() string

// TwoFactorManager generates, dispatches and validates one-time codes.
type TwoFactorManager struct {
	dbTokens       db.DbTokens
	configProvider *config.Provider
	bridge         *SessionBridge
	mailer         mail.MailerInterface
	sms            SmsSender
	codeSource     CodeSource
	logger         *slog.Logger
}

func NewTwoFactorManager(dbTokens db.DbTokens, configProvider *config.Provider, bridge *SessionBridge, mailer mail.MailerInterface, sms SmsSender, logger *slog.Logger) *TwoFactorManager {
	return &TwoFactorManager{
		dbTokens:       dbTokens,
		configProvider: configProvider,
		bridge:         bridge,
		mailer:         mailer,
		sms:            sms,
		codeSource:     crypto.NewTwoFactorCode,
		logger:         logger,
	}
}

// SetCodeSource replaces the code generator. Test seam only.
func (m *TwoFactorManager) SetCodeSource(src CodeSource) {
	m.codeSource = src
}

// IssueCode generates and persists a fresh code for the user, then attempts
// delivery: SMS first when a phone number is on record, email otherwise or
// as fallback. Both channels failing yields ErrDeliveryFailed.
//
// The code is returned for test visibility only; no production response or
// log line may contain it.
func (m *TwoFactorManager) IssueCode(ctx context.Context, user *db.User) (string, error) {
	cfg := m.configProvider.Get()
	code := m.codeSource()
	expiresAt := time.Now().UTC().Add(cfg.Auth.TwoFactorCodeDuration.Duration)

	if err := m.dbTokens.InsertTwoFactorCode(user.ID, code, expiresAt); err != nil {
		return "", fmt.Errorf("failed to persist two-factor code: %w", err)
	}

	if err := m.deliver(ctx, user, code); err != nil {
		return "", err
	}
	return code, nil
}

// ResendCode invalidates every unconsumed code of the user before issuing a
// new one, so a captured old code is dead the moment a resend happens.
func (m *TwoFactorManager) ResendCode(ctx context.Context, user *db.User) (string, error) {
	invalidated, err := m.dbTokens.InvalidateTwoFactorCodes(user.ID)
	if err != nil {
		return "", fmt.Errorf("failed to invalidate prior codes: %w", err)
	}
	if invalidated > 0 {
		m.logger.Debug("invalidated prior two-factor codes", "user_id", user.ID, "count", invalidated)
	}
	return m.IssueCode(ctx, user)
}

// VerifyCode normalizes the submitted code to uppercase and consumes the
// matching ledger row atomically. On success it mints and returns the
// post-2FA session token.
func (m *TwoFactorManager) VerifyCode(userID, email, code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return "", ErrInvalidOrExpiredCode
	}

	if _, err := m.dbTokens.ConsumeTwoFactorCode(userID, code); err != nil {
		if errors.Is(err, db.ErrTokenNotFound) {
			return "", ErrInvalidOrExpiredCode
		}
		return "", fmt.Errorf("failed to consume two-factor code: %w", err)
	}

	return m.bridge.MintVerifiedSession(userID, email)
}

// deliver tries SMS first, then email. Channel errors are logged without
// provider detail reaching the caller.
func (m *TwoFactorManager) deliver(ctx context.Context, user *db.User, code string) error {
	cfg := m.configProvider.Get()

	if m.sms != nil && cfg.SmsGateway.Enabled && user.Phone != "" {
		if err := m.sms.SendCode(ctx, user.Phone, code); err == nil {
			return nil
		} else {
			m.logger.Warn("sms code delivery failed, falling back to email", "user_id", user.ID, "err", err)
		}
	}

	if m.mailer != nil {
		if err := m.mailer.SendTwoFactorCode(ctx, user.Email, user.Name, code); err == nil {
			return nil
		} else {
			m.logger.Error("email code delivery failed", "user_id", user.ID, "err", err)
		}
	}

	return ErrDeliveryFailed
}
