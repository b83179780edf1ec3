package zombiezen

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/db"
)

const userColumns = `id, email, name, password, phone, avatar, two_factor_enabled,
	two_factor_method, banned, status, verified, oauth2, created, updated`

// newUserFromStmt creates a User struct from a SQLite statement row.
func newUserFromStmt(stmt *sqlite.Stmt) (*db.User, error) {
	created, err := db.TimeParse(stmt.GetText("created"))
	if err != nil {
		return nil, fmt.Errorf("error parsing created time: %w", err)
	}

	updated, err := db.TimeParse(stmt.GetText("updated"))
	if err != nil {
		return nil, fmt.Errorf("error parsing updated time: %w", err)
	}

	return &db.User{
		ID:               stmt.GetText("id"),
		Email:            stmt.GetText("email"),
		Name:             stmt.GetText("name"),
		Password:         stmt.GetText("password"),
		Phone:            stmt.GetText("phone"),
		Avatar:           stmt.GetText("avatar"),
		TwoFactorEnabled: stmt.GetInt64("two_factor_enabled") != 0,
		TwoFactorMethod:  stmt.GetText("two_factor_method"),
		Banned:           stmt.GetInt64("banned") != 0,
		Status:           stmt.GetText("status"),
		Verified:         stmt.GetInt64("verified") != 0,
		Oauth2:           stmt.GetInt64("oauth2") != 0,
		Created:          created,
		Updated:          updated,
	}, nil
}

// GetUserByEmail retrieves a user by email address.
// Returns:
// - *db.User: user record if found, nil if no matching record exists
// - error: only returned for database errors, nil on successful query
// Note: a nil user with nil error indicates no matching record was found.
func (d *Db) GetUserByEmail(email string) (*db.User, error) {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer d.pool.Put(conn)

	var user *db.User // remains nil if no rows found
	err = sqlitex.Execute(conn,
		`SELECT `+userColumns+` FROM users WHERE email = ? LIMIT 1`,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				var err error
				user, err = newUserFromStmt(stmt)
				return err
			},
			Args: []interface{}{email},
		})

	if err != nil {
		return nil, err
	}

	return user, nil
}

func (d *Db) GetUserById(id string) (*db.User, error) {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer d.pool.Put(conn)

	var user *db.User
	err = sqlitex.Execute(conn,
		`SELECT `+userColumns+` FROM users WHERE id = ? LIMIT 1`,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				var err error
				user, err = newUserFromStmt(stmt)
				return err
			},
			Args: []interface{}{id},
		})

	if err != nil {
		return nil, err
	}

	return user, nil
}

func (d *Db) CreateUserWithPassword(user db.User) (*db.User, error) {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer d.pool.Put(conn)

	if user.TwoFactorMethod == "" {
		user.TwoFactorMethod = db.TwoFactorMethodEmail
	}
	if user.Status == "" {
		user.Status = db.StatusPending
	}

	var createdUser *db.User
	err = sqlitex.Execute(conn,
		`INSERT INTO users (id, email, name, password, phone, two_factor_enabled, two_factor_method, status, verified, oauth2)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 0)
		RETURNING `+userColumns,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				var err error
				createdUser, err = newUserFromStmt(stmt)
				return err
			},
			Args: []interface{}{
				uuid.NewString(),
				user.Email,
				user.Name,
				user.Password,
				user.Phone,
				user.TwoFactorEnabled,
				user.TwoFactorMethod,
				user.Status,
				user.Verified,
			},
		})

	if err != nil {
		if sqlite.ErrCode(err) == sqlite.ResultConstraintUnique {
			return nil, db.ErrConstraintUnique
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return createdUser, nil
}

// CreateUserWithOauth2 creates an account for an oauth2-origin sign-in or
// links oauth2 to an existing password account with the same email.
func (d *Db) CreateUserWithOauth2(user db.User) (*db.User, error) {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer d.pool.Put(conn)

	var createdUser *db.User
	err = sqlitex.Execute(conn,
		`INSERT INTO users (id, email, name, password, avatar, status, verified, oauth2)
		VALUES (?, ?, ?, '', ?, 'active', ?, 1)
		ON CONFLICT(email) DO UPDATE SET
			oauth2 = 1,
			updated = (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		RETURNING `+userColumns,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				var err error
				createdUser, err = newUserFromStmt(stmt)
				return err
			},
			Args: []interface{}{
				uuid.NewString(),
				user.Email,
				user.Name,
				user.Avatar,
				user.Verified,
			},
		})

	if err != nil {
		return nil, fmt.Errorf("failed to create oauth2 user: %w", err)
	}
	return createdUser, nil
}

func (d *Db) VerifyEmail(userID string) error {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return err
	}
	defer d.pool.Put(conn)

	err = sqlitex.Execute(conn,
		`UPDATE users
		SET verified = 1,
			status = 'active',
			updated = (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		WHERE id = ?`,
		&sqlitex.ExecOptions{
			Args: []interface{}{userID},
		})
	if err != nil {
		return fmt.Errorf("failed to verify email: %w", err)
	}
	return nil
}

func (d *Db) UpdatePassword(userID string, newPasswordHash string) error {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}
	defer d.pool.Put(conn)

	err = sqlitex.Execute(conn,
		`UPDATE users
		SET password = ?,
			updated = (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		WHERE id = ?`,
		&sqlitex.ExecOptions{
			Args: []interface{}{newPasswordHash, userID},
		})
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}
