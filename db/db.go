package db

import "time"

// TimeFormat is the canonical timestamp layout for every persisted time value:
// RFC3339 in UTC with second precision, e.g. "2024-03-07T15:04:05Z".
// It matches what sqlite's strftime('%Y-%m-%dT%H:%M:%SZ','now') produces, so
// lexicographic comparison of stored timestamps equals chronological order.
const TimeFormat = "2006-01-02T15:04:05Z"

// TimeFormatString formats a time in the canonical UTC layout.
func TimeFormatString(t time.Time) string {
	return t.UTC().Format(TimeFormat)
}

// TimeParse parses a timestamp stored in the canonical layout.
func TimeParse(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

// DbAuth groups the user-record operations the auth core needs.
type DbAuth interface {
	// GetUserByEmail returns (nil, nil) when no user matches; an error only
	// signals a store failure.
	GetUserByEmail(email string) (*User, error)
	GetUserById(id string) (*User, error)
	CreateUserWithPassword(user User) (*User, error)
	CreateUserWithOauth2(user User) (*User, error)
	VerifyEmail(userID string) error
	UpdatePassword(userID string, newPasswordHash string) error
}

// DbTokens is the token ledger: four families of short-lived, single-use
// records. Every Consume* method performs the validity check and the consume
// as one conditional statement against the store's clock; two concurrent
// consumers of the same token get exactly one success.
type DbTokens interface {
	InsertPasswordResetToken(userID, token string, expiresAt time.Time) error
	// GetPasswordResetToken is a pure validity read; it never consumes.
	// Returns ErrTokenNotFound for unknown, consumed or expired tokens.
	GetPasswordResetToken(token string) (*PasswordResetToken, error)
	ConsumePasswordResetToken(token string) (*PasswordResetToken, error)

	InsertTwoFactorCode(userID, code string, expiresAt time.Time) error
	// InvalidateTwoFactorCodes marks every unconsumed code of the user
	// consumed. Returns the number of codes invalidated.
	InvalidateTwoFactorCodes(userID string) (int64, error)
	// ConsumeTwoFactorCode matches (userID, code) case-sensitively; callers
	// normalize the code to uppercase first.
	ConsumeTwoFactorCode(userID, code string) (*TwoFactorCode, error)

	InsertTempLoginSession(token, userID, email string, expiresAt time.Time) error
	// GetTempLoginSession is a non-consuming read of a valid session.
	GetTempLoginSession(token string) (*TempLoginSession, error)
	DeleteTempLoginSession(token string) error

	InsertVerifiedSession(token, userID, email string, expiresAt time.Time) error
	// ConsumeVerifiedSession is destructive: the first caller gets the
	// payload, every later caller gets ErrTokenNotFound.
	ConsumeVerifiedSession(token string) (*VerifiedTwoFactorSession, error)

	// SweepExpiredTokens marks every expired, unconsumed row in all four
	// token tables as consumed and returns the number of rows transitioned.
	// Safe to run concurrently with live consumes: it only ever moves rows
	// toward consumed=1.
	SweepExpiredTokens() (int64, error)
}

// DbQueue groups the job queue operations.
type DbQueue interface {
	InsertJob(job Job) error
	Claim(limit int) ([]*Job, error)
	MarkCompleted(jobID int64) error
	MarkFailed(jobID int64, errMsg string) error
	// MarkRecurrentCompleted completes one run of a recurrent job and inserts
	// the follow-up run in the same transaction.
	MarkRecurrentCompleted(completedJobID int64, newJob Job) error
}

// DbApp combines the store roles a full application instance needs.
// The concrete implementation (*zombiezen.Db) must satisfy this interface.
type DbApp interface {
	DbAuth
	DbTokens
	DbQueue
}
