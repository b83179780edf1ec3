package core

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/config"
	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/crypto"
	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/db"
)

// SessionBridge issues and redeems the opaque tokens that hand off state
// between login steps.
//
// Two token families with the same shape but different trust levels:
//
//   - TempLoginSession ("we know who is trying to log in"): minted after the
//     password check, read non-destructively while the 2FA challenge is
//     pending, explicitly deletable.
//   - VerifiedTwoFactorSession ("this identity is fully proven"): minted
//     after code verification, redeemable exactly once by the final session
//     mint.
//
// Keeping them distinct means a client can never present the weaker pre-2FA
// token at the stronger post-2FA checkpoint.
type SessionBridge struct {
	dbTokens       db.DbTokens
	configProvider *config.Provider
	logger         *slog.Logger
}

func NewSessionBridge(dbTokens db.DbTokens, configProvider *config.Provider, logger *slog.Logger) *SessionBridge {
	return &SessionBridge{
		dbTokens:       dbTokens,
		configProvider: configProvider,
		logger:         logger,
	}
}

// MintTempSession persists a new pre-2FA session for the user and returns
// its opaque token.
func (b *SessionBridge) MintTempSession(user *db.User) (string, error) {
	cfg := b.configProvider.Get()
	token := crypto.NewSecureToken()
	expiresAt := time.Now().UTC().Add(cfg.Auth.TempSessionDuration.Duration)

	if err := b.dbTokens.InsertTempLoginSession(token, user.ID, user.Email, expiresAt); err != nil {
		return "", fmt.Errorf("failed to persist temp login session: %w", err)
	}
	return token, nil
}

// GetTempSession returns the pending login context behind a valid pre-2FA
// token without consuming it. Returns db.ErrTokenNotFound for unknown,
// consumed or expired tokens.
func (b *SessionBridge) GetTempSession(token string) (*db.TempLoginSession, error) {
	return b.dbTokens.GetTempLoginSession(token)
}

// DeleteTempSession invalidates a pre-2FA session. Used for explicit cleanup
// once the 2FA challenge succeeded; expiry handles the rest.
func (b *SessionBridge) DeleteTempSession(token string) error {
	return b.dbTokens.DeleteTempLoginSession(token)
}

// MintVerifiedSession persists a new post-2FA session and returns its opaque
// token. Deliberately very short-lived: it is the last hop before trust is
// granted.
func (b *SessionBridge) MintVerifiedSession(userID, email string) (string, error) {
	cfg := b.configProvider.Get()
	token := crypto.NewSecureToken()
	expiresAt := time.Now().UTC().Add(cfg.Auth.VerifiedSessionDuration.Duration)

	if err := b.dbTokens.InsertVerifiedSession(token, userID, email, expiresAt); err != nil {
		return "", fmt.Errorf("failed to persist verified session: %w", err)
	}
	return token, nil
}

// ConsumeVerifiedSession redeems a post-2FA token. The redemption is
// destructive and atomic: the first caller gets the payload, every later
// caller gets db.ErrTokenNotFound as though the token never existed.
func (b *SessionBridge) ConsumeVerifiedSession(token string) (*db.VerifiedTwoFactorSession, error) {
	return b.dbTokens.ConsumeVerifiedSession(token)
}
