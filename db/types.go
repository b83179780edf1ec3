package db

import (
	"encoding/json"
	"time"
)

// Two-factor delivery methods stored on the user record.
const (
	TwoFactorMethodEmail         = "email"
	TwoFactorMethodAuthenticator = "authenticator"
)

// User account statuses.
const (
	StatusPending = "pending"
	StatusActive  = "active"
)

// User represents a platform account.
// Timestamps (Created and Updated) use RFC3339 format in UTC timezone.
type User struct {
	ID    string
	Email string
	Name  string
	// Password holds the bcrypt hash. Empty means password authentication is
	// not available for this account (oauth2-origin sign-in).
	Password         string
	Phone            string
	Avatar           string
	TwoFactorEnabled bool
	// TwoFactorMethod is one of the TwoFactorMethod* constants; only
	// meaningful when TwoFactorEnabled is true.
	TwoFactorMethod string
	Banned          bool
	Status          string
	Verified        bool
	Oauth2          bool
	Created         time.Time
	Updated         time.Time
}

// PasswordResetToken is a one-time capability to set a new password.
type PasswordResetToken struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	Consumed  bool
	Created   time.Time
}

// TwoFactorCode is a short one-time code delivered out-of-band. Codes are
// persisted uppercase; matching is done on the normalized form.
type TwoFactorCode struct {
	ID        string
	UserID    string
	Code      string
	ExpiresAt time.Time
	Consumed  bool
	Created   time.Time
}

// TempLoginSession bridges "password verified" to "2FA challenge accepted".
// It carries the pending login context but grants no access by itself.
type TempLoginSession struct {
	ID        string
	UserID    string
	Email     string
	Token     string
	ExpiresAt time.Time
	Consumed  bool
	Created   time.Time
}

// VerifiedTwoFactorSession bridges "2FA verified" to the final session mint.
// Deliberately very short-lived; redeemable exactly once.
type VerifiedTwoFactorSession struct {
	ID        string
	UserID    string
	Email     string
	Token     string
	ExpiresAt time.Time
	Consumed  bool
	Created   time.Time
}

// Job represents a job in the processing queue.
type Job struct {
	ID           int64           `json:"id"`
	JobType      string          `json:"job_type"`
	Payload      json.RawMessage `json:"payload"`       // unique payload part
	PayloadExtra json.RawMessage `json:"payload_extra"` // non-unique payload part
	Status       string          `json:"status"`
	Attempts     int             `json:"attempts"`
	MaxAttempts  int             `json:"max_attempts"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	ScheduledFor time.Time       `json:"scheduled_for"`
	LockedAt     time.Time       `json:"locked_at,omitempty"`
	CompletedAt  time.Time       `json:"completed_at,omitempty"`
	LastError    string          `json:"last_error,omitempty"`
	Recurrent    bool            `json:"recurrent"`
	Interval     time.Duration   `json:"interval"`
}
