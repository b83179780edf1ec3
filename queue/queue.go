package queue

import (
	"time"
)

// Job types
const (
	JobTypePasswordReset     = "job_type_password_reset"
	JobTypeEmailVerification = "job_type_email_verification"
	JobTypeTokenSweep        = "job_type_token_sweep"
	JobTypeLedgerBackup      = "job_type_ledger_backup"
)

// Job statuses
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// PayloadPasswordReset is the unique part of a password reset job.
type PayloadPasswordReset struct {
	UserID string `json:"user_id"`
	// CooldownBucket is the time bucket number calculated from the current
	// time divided by the cooldown duration. Together with the queue's
	// unique constraint on (job_type, payload) it allows only one reset
	// email per user per bucket.
	CooldownBucket int `json:"cooldown_bucket"`
}

// PayloadPasswordResetExtra carries the non-unique part of the payload.
type PayloadPasswordResetExtra struct {
	Email string `json:"email"`
}

// PayloadEmailVerification is the unique part of an email verification job.
type PayloadEmailVerification struct {
	Email          string `json:"email"`
	CooldownBucket int    `json:"cooldown_bucket"`
}

// CoolDownBucket returns the number of complete duration periods since the
// Unix epoch for time t. All requests within the same period get the same
// bucket number, so the queue's unique index turns the bucket into a rate
// limit: one job per bucket.
//
// Panics if duration is not positive.
func CoolDownBucket(duration time.Duration, t time.Time) int {
	if duration <= 0 {
		panic("duration must be positive")
	}
	return int(t.Unix() / int64(duration.Seconds()))
}
