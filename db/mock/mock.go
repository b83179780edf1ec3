package mock

import (
	"time"

	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/db"
)

// Compile-time check to ensure Db implements the DbApp interface
var _ db.DbApp = (*Db)(nil)

// Db implements db.DbApp for testing purposes.
// Use function fields to allow overriding behavior in specific tests.
type Db struct {
	// --- DbAuth ---
	GetUserByEmailFunc         func(email string) (*db.User, error)
	GetUserByIdFunc            func(id string) (*db.User, error)
	CreateUserWithPasswordFunc func(user db.User) (*db.User, error)
	CreateUserWithOauth2Func   func(user db.User) (*db.User, error)
	VerifyEmailFunc            func(userID string) error
	UpdatePasswordFunc         func(userID string, newPasswordHash string) error

	// --- DbTokens ---
	InsertPasswordResetTokenFunc  func(userID, token string, expiresAt time.Time) error
	GetPasswordResetTokenFunc     func(token string) (*db.PasswordResetToken, error)
	ConsumePasswordResetTokenFunc func(token string) (*db.PasswordResetToken, error)
	InsertTwoFactorCodeFunc       func(userID, code string, expiresAt time.Time) error
	InvalidateTwoFactorCodesFunc  func(userID string) (int64, error)
	ConsumeTwoFactorCodeFunc      func(userID, code string) (*db.TwoFactorCode, error)
	InsertTempLoginSessionFunc    func(token, userID, email string, expiresAt time.Time) error
	GetTempLoginSessionFunc       func(token string) (*db.TempLoginSession, error)
	DeleteTempLoginSessionFunc    func(token string) error
	InsertVerifiedSessionFunc     func(token, userID, email string, expiresAt time.Time) error
	ConsumeVerifiedSessionFunc    func(token string) (*db.VerifiedTwoFactorSession, error)
	SweepExpiredTokensFunc        func() (int64, error)

	// --- DbQueue ---
	InsertJobFunc              func(job db.Job) error
	ClaimFunc                  func(limit int) ([]*db.Job, error)
	MarkCompletedFunc          func(jobID int64) error
	MarkFailedFunc             func(jobID int64, errMsg string) error
	MarkRecurrentCompletedFunc func(completedJobID int64, newJob db.Job) error
}

// --- DbAuth ---

func (m *Db) GetUserByEmail(email string) (*db.User, error) {
	if m.GetUserByEmailFunc != nil {
		return m.GetUserByEmailFunc(email)
	}
	return nil, nil // Default: not found
}

func (m *Db) GetUserById(id string) (*db.User, error) {
	if m.GetUserByIdFunc != nil {
		return m.GetUserByIdFunc(id)
	}
	return nil, nil // Default: not found
}

func (m *Db) CreateUserWithPassword(user db.User) (*db.User, error) {
	if m.CreateUserWithPasswordFunc != nil {
		return m.CreateUserWithPasswordFunc(user)
	}
	user.ID = "mock-pw-user-id"
	return &user, nil
}

func (m *Db) CreateUserWithOauth2(user db.User) (*db.User, error) {
	if m.CreateUserWithOauth2Func != nil {
		return m.CreateUserWithOauth2Func(user)
	}
	user.ID = "mock-oauth-user-id"
	return &user, nil
}

func (m *Db) VerifyEmail(userID string) error {
	if m.VerifyEmailFunc != nil {
		return m.VerifyEmailFunc(userID)
	}
	return nil
}

func (m *Db) UpdatePassword(userID string, newPasswordHash string) error {
	if m.UpdatePasswordFunc != nil {
		return m.UpdatePasswordFunc(userID, newPasswordHash)
	}
	return nil
}

// --- DbTokens ---

func (m *Db) InsertPasswordResetToken(userID, token string, expiresAt time.Time) error {
	if m.InsertPasswordResetTokenFunc != nil {
		return m.InsertPasswordResetTokenFunc(userID, token, expiresAt)
	}
	return nil
}

func (m *Db) GetPasswordResetToken(token string) (*db.PasswordResetToken, error) {
	if m.GetPasswordResetTokenFunc != nil {
		return m.GetPasswordResetTokenFunc(token)
	}
	return nil, db.ErrTokenNotFound
}

func (m *Db) ConsumePasswordResetToken(token string) (*db.PasswordResetToken, error) {
	if m.ConsumePasswordResetTokenFunc != nil {
		return m.ConsumePasswordResetTokenFunc(token)
	}
	return nil, db.ErrTokenNotFound
}

func (m *Db) InsertTwoFactorCode(userID, code string, expiresAt time.Time) error {
	if m.InsertTwoFactorCodeFunc != nil {
		return m.InsertTwoFactorCodeFunc(userID, code, expiresAt)
	}
	return nil
}

func (m *Db) InvalidateTwoFactorCodes(userID string) (int64, error) {
	if m.InvalidateTwoFactorCodesFunc != nil {
		return m.InvalidateTwoFactorCodesFunc(userID)
	}
	return 0, nil
}

func (m *Db) ConsumeTwoFactorCode(userID, code string) (*db.TwoFactorCode, error) {
	if m.ConsumeTwoFactorCodeFunc != nil {
		return m.ConsumeTwoFactorCodeFunc(userID, code)
	}
	return nil, db.ErrTokenNotFound
}

func (m *Db) InsertTempLoginSession(token, userID, email string, expiresAt time.Time) error {
	if m.InsertTempLoginSessionFunc != nil {
		return m.InsertTempLoginSessionFunc(token, userID, email, expiresAt)
	}
	return nil
}

func (m *Db) GetTempLoginSession(token string) (*db.TempLoginSession, error) {
	if m.GetTempLoginSessionFunc != nil {
		return m.GetTempLoginSessionFunc(token)
	}
	return nil, db.ErrTokenNotFound
}

func (m *Db) DeleteTempLoginSession(token string) error {
	if m.DeleteTempLoginSessionFunc != nil {
		return m.DeleteTempLoginSessionFunc(token)
	}
	return nil
}

func (m *Db) InsertVerifiedSession(token, userID, email string, expiresAt time.Time) error {
	if m.InsertVerifiedSessionFunc != nil {
		return m.InsertVerifiedSessionFunc(token, userID, email, expiresAt)
	}
	return nil
}

func (m *Db) ConsumeVerifiedSession(token string) (*db.VerifiedTwoFactorSession, error) {
	if m.ConsumeVerifiedSessionFunc != nil {
		return m.ConsumeVerifiedSessionFunc(token)
	}
	return nil, db.ErrTokenNotFound
}

func (m *Db) SweepExpiredTokens() (int64, error) {
	if m.SweepExpiredTokensFunc != nil {
		return m.SweepExpiredTokensFunc()
	}
	return 0, nil
}

// --- DbQueue ---

func (m *Db) InsertJob(job db.Job) error {
	if m.InsertJobFunc != nil {
		return m.InsertJobFunc(job)
	}
	return nil
}

func (m *Db) Claim(limit int) ([]*db.Job, error) {
	if m.ClaimFunc != nil {
		return m.ClaimFunc(limit)
	}
	return []*db.Job{}, nil
}

func (m *Db) MarkCompleted(jobID int64) error {
	if m.MarkCompletedFunc != nil {
		return m.MarkCompletedFunc(jobID)
	}
	return nil
}

func (m *Db) MarkFailed(jobID int64, errMsg string) error {
	if m.MarkFailedFunc != nil {
		return m.MarkFailedFunc(jobID, errMsg)
	}
	return nil
}

func (m *Db) MarkRecurrentCompleted(completedJobID int64, newJob db.Job) error {
	if m.MarkRecurrentCompletedFunc != nil {
		return m.MarkRecurrentCompletedFunc(completedJobID, newJob)
	}
	return nil
}
