package core

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/crypto"
	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/db"
)

// Internal credential failure taxonomy. Richer than what is surfaced: the
// HTTP boundary collapses all of it into one generic invalid-credentials
// response so callers cannot probe which check failed.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountBanned      = errors.New("account banned")
)

// CredentialVerifier checks email+password pairs against the credential
// store.
type CredentialVerifier struct {
	dbAuth db.DbAuth
	logger *slog.Logger
}

func NewCredentialVerifier(dbAuth db.DbAuth, logger *slog.Logger) *CredentialVerifier {
	return &CredentialVerifier{dbAuth: dbAuth, logger: logger}
}

// Verify looks up the user by normalized email and compares the password
// against the stored bcrypt hash. Unknown accounts, password-less (oauth2
// origin) accounts and wrong passwords all fail with ErrInvalidCredentials;
// banned accounts fail with ErrAccountBanned and additionally return the
// record so callers can audit the attempt. On success the user record is
// returned.
func (v *CredentialVerifier) Verify(email, password string) (*db.User, error) {
	email = normalizeEmail(email)
	if err := ValidateEmail(email); err != nil {
		return nil, ErrInvalidCredentials
	}

	user, err := v.dbAuth.GetUserByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("credential store lookup failed: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if user.Password == "" {
		// oauth2-origin account without a password. Same external failure as
		// a wrong password so the sign-in method is not probeable.
		v.logger.Debug("password login attempt on password-less account", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}

	if user.Banned {
		v.logger.Info("login attempt on banned account", "user_id", user.ID)
		return user, ErrAccountBanned
	}

	if !crypto.CheckPassword(password, user.Password) {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}
