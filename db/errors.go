package db

import "errors"

var (
	// ErrUserNotFound is returned by mock defaults; the sqlite implementation
	// signals absence with (nil, nil) and handlers check both.
	ErrUserNotFound = errors.New("user not found")

	// ErrTokenNotFound covers unknown, already-consumed and expired ledger
	// rows alike. Callers must not be able to distinguish the three cases.
	ErrTokenNotFound = errors.New("token not found or no longer valid")

	// ErrConstraintUnique is returned when an insert violates a uniqueness
	// constraint (duplicate email, duplicate queued job in cooldown bucket).
	ErrConstraintUnique = errors.New("unique constraint violation")

	// ErrMissingFields is returned when a record lacks required fields.
	ErrMissingFields = errors.New("missing required fields")
)
