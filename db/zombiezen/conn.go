package zombiezen

import (
	"fmt"

	"zombiezen.com/go/sqlite"
)

// NewConn opens a standalone connection outside the pool. Maintenance jobs
// such as the ledger backup need their own connection so they never hold a
// pooled one for the duration of a VACUUM.
func NewConn(dbPath string) (*sqlite.Conn, error) {
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000&_foreign_keys=off", dbPath)

	conn, err := sqlite.OpenConn(dsn, sqlite.OpenReadWrite|sqlite.OpenCreate|sqlite.OpenURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open standalone connection: %w", err)
	}

	return conn, nil
}
