package stpconnect

// Helpers to create SQLite connection pools for the auth store. If your
// application accesses the database alongside this module, share one pool to
// avoid SQLITE_BUSY errors: create it here, then pass it both to
// WithZombiezenPool and to your own data layer.

import (
	"fmt"
	"runtime"
	"time"

	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/core"
	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/db/zombiezen"
)

// WithZombiezenPool configures the App to use the zombiezen SQLite store on an
// existing pool. The caller owns the pool's lifecycle.
func WithZombiezenPool(pool *sqlitex.Pool) core.Option {
	return func(a *core.App) {
		store, err := zombiezen.New(pool)
		if err != nil {
			panic(fmt.Sprintf("failed to initialize zombiezen store: %v", err))
		}
		a.SetDb(store)
	}
}

// NewZombiezenPool creates a SQLite connection pool with reasonable defaults.
// The default zombiezen open flags already include WAL mode and URI parsing.
func NewZombiezenPool(dbPath string) (*sqlitex.Pool, error) {
	pool, err := sqlitex.NewPool(fmt.Sprintf("file:%s", dbPath), sqlitex.PoolOptions{
		PoolSize: runtime.NumCPU(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create zombiezen pool at %s: %w", dbPath, err)
	}
	return pool, nil
}

var explicitBusyTimeout = 5 * time.Second

// NewZombiezenPerformancePool creates a SQLite connection pool tuned through
// explicit DSN PRAGMAs. busy_timeout in the DSN is in milliseconds.
func NewZombiezenPerformancePool(dbPath string) (*sqlitex.Pool, error) {
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=%d&_foreign_keys=off",
		dbPath,
		explicitBusyTimeout.Milliseconds(),
	)

	pool, err := sqlitex.NewPool(dsn, sqlitex.PoolOptions{
		PoolSize: runtime.NumCPU(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create performance zombiezen pool at %s: %w", dbPath, err)
	}
	return pool, nil
}
