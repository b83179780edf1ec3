package zombiezen

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/db"
)

// The ledger's validity predicate. Comparing the stored RFC3339 UTC strings
// lexicographically against strftime('now') is equivalent to a chronological
// comparison, so expiry is always evaluated against the store's clock.
const validPredicate = `consumed = 0 AND expires_at > strftime('%Y-%m-%dT%H:%M:%SZ', 'now')`

func tokenTimesFromStmt(stmt *sqlite.Stmt) (expiresAt, created string) {
	return stmt.GetText("expires_at"), stmt.GetText("created")
}

// --- password reset tokens ---

func newResetTokenFromStmt(stmt *sqlite.Stmt) (*db.PasswordResetToken, error) {
	expiresStr, createdStr := tokenTimesFromStmt(stmt)
	expiresAt, err := db.TimeParse(expiresStr)
	if err != nil {
		return nil, fmt.Errorf("error parsing expires_at time: %w", err)
	}
	created, err := db.TimeParse(createdStr)
	if err != nil {
		return nil, fmt.Errorf("error parsing created time: %w", err)
	}
	return &db.PasswordResetToken{
		ID:        stmt.GetText("id"),
		UserID:    stmt.GetText("user_id"),
		Token:     stmt.GetText("token"),
		ExpiresAt: expiresAt,
		Consumed:  stmt.GetInt64("consumed") != 0,
		Created:   created,
	}, nil
}

func (d *Db) InsertPasswordResetToken(userID, token string, expiresAt time.Time) error {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}
	defer d.pool.Put(conn)

	err = sqlitex.Execute(conn,
		`INSERT INTO password_reset_tokens (id, user_id, token, expires_at)
		VALUES (?, ?, ?, ?)`,
		&sqlitex.ExecOptions{
			Args: []interface{}{uuid.NewString(), userID, token, db.TimeFormatString(expiresAt)},
		})
	if err != nil {
		if sqlite.ErrCode(err) == sqlite.ResultConstraintUnique {
			return db.ErrConstraintUnique
		}
		return fmt.Errorf("failed to insert password reset token: %w", err)
	}
	return nil
}

func (d *Db) GetPasswordResetToken(token string) (*db.PasswordResetToken, error) {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return nil, fmt.Errorf("failed to get database connection: %w", err)
	}
	defer d.pool.Put(conn)

	var row *db.PasswordResetToken
	err = sqlitex.Execute(conn,
		`SELECT id, user_id, token, expires_at, consumed, created
		FROM password_reset_tokens
		WHERE token = ? AND `+validPredicate+` LIMIT 1`,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				var err error
				row, err = newResetTokenFromStmt(stmt)
				return err
			},
			Args: []interface{}{token},
		})
	if err != nil {
		return nil, fmt.Errorf("failed to read password reset token: %w", err)
	}
	if row == nil {
		return nil, db.ErrTokenNotFound
	}
	return row, nil
}

// ConsumePasswordResetToken atomically validates and consumes the token.
// Zero rows updated means unknown, already consumed, or expired; the caller
// cannot tell which, by design.
func (d *Db) ConsumePasswordResetToken(token string) (*db.PasswordResetToken, error) {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return nil, fmt.Errorf("failed to get database connection: %w", err)
	}
	defer d.pool.Put(conn)

	var row *db.PasswordResetToken
	err = sqlitex.Execute(conn,
		`UPDATE password_reset_tokens
		SET consumed = 1
		WHERE token = ? AND `+validPredicate+`
		RETURNING id, user_id, token, expires_at, consumed, created`,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				var err error
				row, err = newResetTokenFromStmt(stmt)
				return err
			},
			Args: []interface{}{token},
		})
	if err != nil {
		return nil, fmt.Errorf("failed to consume password reset token: %w", err)
	}
	if row == nil {
		return nil, db.ErrTokenNotFound
	}
	return row, nil
}

// --- two-factor codes ---

func newTwoFactorCodeFromStmt(stmt *sqlite.Stmt) (*db.TwoFactorCode, error) {
	expiresStr, createdStr := tokenTimesFromStmt(stmt)
	expiresAt, err := db.TimeParse(expiresStr)
	if err != nil {
		return nil, fmt.Errorf("error parsing expires_at time: %w", err)
	}
	created, err := db.TimeParse(createdStr)
	if err != nil {
		return nil, fmt.Errorf("error parsing created time: %w", err)
	}
	return &db.TwoFactorCode{
		ID:        stmt.GetText("id"),
		UserID:    stmt.GetText("user_id"),
		Code:      stmt.GetText("code"),
		ExpiresAt: expiresAt,
		Consumed:  stmt.GetInt64("consumed") != 0,
		Created:   created,
	}, nil
}

func (d *Db) InsertTwoFactorCode(userID, code string, expiresAt time.Time) error {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}
	defer d.pool.Put(conn)

	err = sqlitex.Execute(conn,
		`INSERT INTO two_factor_codes (id, user_id, code, expires_at)
		VALUES (?, ?, ?, ?)`,
		&sqlitex.ExecOptions{
			Args: []interface{}{uuid.NewString(), userID, code, db.TimeFormatString(expiresAt)},
		})
	if err != nil {
		return fmt.Errorf("failed to insert two-factor code: %w", err)
	}
	return nil
}

// InvalidateTwoFactorCodes marks every unconsumed code of the user consumed,
// preventing replay of stale codes after a resend.
func (d *Db) InvalidateTwoFactorCodes(userID string) (int64, error) {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return 0, fmt.Errorf("failed to get database connection: %w", err)
	}
	defer d.pool.Put(conn)

	err = sqlitex.Execute(conn,
		`UPDATE two_factor_codes SET consumed = 1 WHERE user_id = ? AND consumed = 0`,
		&sqlitex.ExecOptions{
			Args: []interface{}{userID},
		})
	if err != nil {
		return 0, fmt.Errorf("failed to invalidate two-factor codes: %w", err)
	}
	return int64(conn.Changes()), nil
}

func (d *Db) ConsumeTwoFactorCode(userID, code string) (*db.TwoFactorCode, error) {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return nil, fmt.Errorf("failed to get database connection: %w", err)
	}
	defer d.pool.Put(conn)

	var row *db.TwoFactorCode
	err = sqlitex.Execute(conn,
		`UPDATE two_factor_codes
		SET consumed = 1
		WHERE user_id = ? AND code = ? AND `+validPredicate+`
		RETURNING id, user_id, code, expires_at, consumed, created`,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				var err error
				row, err = newTwoFactorCodeFromStmt(stmt)
				return err
			},
			Args: []interface{}{userID, code},
		})
	if err != nil {
		return nil, fmt.Errorf("failed to consume two-factor code: %w", err)
	}
	if row == nil {
		return nil, db.ErrTokenNotFound
	}
	return row, nil
}

// --- temp login sessions (pre-2FA bridge) ---

func newTempSessionFromStmt(stmt *sqlite.Stmt) (*db.TempLoginSession, error) {
	expiresStr, createdStr := tokenTimesFromStmt(stmt)
	expiresAt, err := db.TimeParse(expiresStr)
	if err != nil {
		return nil, fmt.Errorf("error parsing expires_at time: %w", err)
	}
	created, err := db.TimeParse(createdStr)
	if err != nil {
		return nil, fmt.Errorf("error parsing created time: %w", err)
	}
	return &db.TempLoginSession{
		ID:        stmt.GetText("id"),
		Token:     stmt.GetText("token"),
		UserID:    stmt.GetText("user_id"),
		Email:     stmt.GetText("email"),
		ExpiresAt: expiresAt,
		Consumed:  stmt.GetInt64("consumed") != 0,
		Created:   created,
	}, nil
}

func (d *Db) InsertTempLoginSession(token, userID, email string, expiresAt time.Time) error {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}
	defer d.pool.Put(conn)

	err = sqlitex.Execute(conn,
		`INSERT INTO temp_login_sessions (id, token, user_id, email, expires_at)
		VALUES (?, ?, ?, ?, ?)`,
		&sqlitex.ExecOptions{
			Args: []interface{}{uuid.NewString(), token, userID, email, db.TimeFormatString(expiresAt)},
		})
	if err != nil {
		if sqlite.ErrCode(err) == sqlite.ResultConstraintUnique {
			return db.ErrConstraintUnique
		}
		return fmt.Errorf("failed to insert temp login session: %w", err)
	}
	return nil
}

// GetTempLoginSession returns the pending login context without consuming it.
// The 2FA verification step is what advances state, not this read.
func (d *Db) GetTempLoginSession(token string) (*db.TempLoginSession, error) {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return nil, fmt.Errorf("failed to get database connection: %w", err)
	}
	defer d.pool.Put(conn)

	var row *db.TempLoginSession
	err = sqlitex.Execute(conn,
		`SELECT id, token, user_id, email, expires_at, consumed, created
		FROM temp_login_sessions
		WHERE token = ? AND `+validPredicate+` LIMIT 1`,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				var err error
				row, err = newTempSessionFromStmt(stmt)
				return err
			},
			Args: []interface{}{token},
		})
	if err != nil {
		return nil, fmt.Errorf("failed to read temp login session: %w", err)
	}
	if row == nil {
		return nil, db.ErrTokenNotFound
	}
	return row, nil
}

func (d *Db) DeleteTempLoginSession(token string) error {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}
	defer d.pool.Put(conn)

	err = sqlitex.Execute(conn,
		`UPDATE temp_login_sessions SET consumed = 1 WHERE token = ?`,
		&sqlitex.ExecOptions{
			Args: []interface{}{token},
		})
	if err != nil {
		return fmt.Errorf("failed to delete temp login session: %w", err)
	}
	return nil
}

// --- verified 2FA sessions (post-2FA bridge) ---

func newVerifiedSessionFromStmt(stmt *sqlite.Stmt) (*db.VerifiedTwoFactorSession, error) {
	expiresStr, createdStr := tokenTimesFromStmt(stmt)
	expiresAt, err := db.TimeParse(expiresStr)
	if err != nil {
		return nil, fmt.Errorf("error parsing expires_at time: %w", err)
	}
	created, err := db.TimeParse(createdStr)
	if err != nil {
		return nil, fmt.Errorf("error parsing created time: %w", err)
	}
	return &db.VerifiedTwoFactorSession{
		ID:        stmt.GetText("id"),
		Token:     stmt.GetText("token"),
		UserID:    stmt.GetText("user_id"),
		Email:     stmt.GetText("email"),
		ExpiresAt: expiresAt,
		Consumed:  stmt.GetInt64("consumed") != 0,
		Created:   created,
	}, nil
}

func (d *Db) InsertVerifiedSession(token, userID, email string, expiresAt time.Time) error {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}
	defer d.pool.Put(conn)

	err = sqlitex.Execute(conn,
		`INSERT INTO verified_2fa_sessions (id, token, user_id, email, expires_at)
		VALUES (?, ?, ?, ?, ?)`,
		&sqlitex.ExecOptions{
			Args: []interface{}{uuid.NewString(), token, userID, email, db.TimeFormatString(expiresAt)},
		})
	if err != nil {
		if sqlite.ErrCode(err) == sqlite.ResultConstraintUnique {
			return db.ErrConstraintUnique
		}
		return fmt.Errorf("failed to insert verified session: %w", err)
	}
	return nil
}

// ConsumeVerifiedSession performs the destructive read-and-match: the first
// caller receives the payload, any later call finds no valid row.
func (d *Db) ConsumeVerifiedSession(token string) (*db.VerifiedTwoFactorSession, error) {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return nil, fmt.Errorf("failed to get database connection: %w", err)
	}
	defer d.pool.Put(conn)

	var row *db.VerifiedTwoFactorSession
	err = sqlitex.Execute(conn,
		`UPDATE verified_2fa_sessions
		SET consumed = 1
		WHERE token = ? AND `+validPredicate+`
		RETURNING id, token, user_id, email, expires_at, consumed, created`,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				var err error
				row, err = newVerifiedSessionFromStmt(stmt)
				return err
			},
			Args: []interface{}{token},
		})
	if err != nil {
		return nil, fmt.Errorf("failed to consume verified session: %w", err)
	}
	if row == nil {
		return nil, db.ErrTokenNotFound
	}
	return row, nil
}

// --- sweep ---

// SweepExpiredTokens marks every expired, unconsumed row in all four token
// tables as consumed. Defense in depth only: every read path checks expiry
// independently.
func (d *Db) SweepExpiredTokens() (int64, error) {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return 0, fmt.Errorf("failed to get database connection: %w", err)
	}
	defer d.pool.Put(conn)

	var swept int64
	for _, table := range []string{
		"password_reset_tokens",
		"two_factor_codes",
		"temp_login_sessions",
		"verified_2fa_sessions",
	} {
		err = sqlitex.Execute(conn,
			`UPDATE `+table+`
			SET consumed = 1
			WHERE consumed = 0 AND expires_at <= strftime('%Y-%m-%dT%H:%M:%SZ', 'now')`,
			nil)
		if err != nil {
			return swept, fmt.Errorf("failed to sweep %s: %w", table, err)
		}
		swept += int64(conn.Changes())
	}
	return swept, nil
}
