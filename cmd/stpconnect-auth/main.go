package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	stpconnect "github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000"
	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/db"
	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/db/zombiezen"
	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/migrations"
	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/queue"
)

const (
	tokenSweepInterval   = 5 * time.Minute
	ledgerBackupInterval = 24 * time.Hour
)

func main() {
	dbfile := flag.String("dbfile", "stpconnect.db", "path to the SQLite database file")
	configFile := flag.String("config", "", "path to the TOML config file (defaults when empty)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags]\n\nAuthentication service for ELIDZ STP Connect.\n\nFlags:\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if err := run(*dbfile, *configFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(dbfile, configFile string) error {
	if err := migrate(dbfile); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	pool, err := stpconnect.NewZombiezenPool(dbfile)
	if err != nil {
		return fmt.Errorf("open database pool: %w", err)
	}
	defer pool.Close()

	app, srv, err := stpconnect.New(
		configFile,
		stpconnect.WithZombiezenPool(pool),
	)
	if err != nil {
		return err
	}

	if err := seedRecurrentJobs(app.DbQueue(), app.Config().Backup.Enabled); err != nil {
		return fmt.Errorf("seed recurrent jobs: %w", err)
	}

	return srv.Run()
}

// migrate applies the schema on a dedicated connection before the pool opens.
func migrate(dbfile string) error {
	conn, err := zombiezen.NewConn(dbfile)
	if err != nil {
		return err
	}
	defer conn.Close()

	return zombiezen.ApplyMigrations(conn, migrations.Schema())
}

// seedRecurrentJobs makes sure the periodic maintenance jobs exist. The queue's
// unique constraint keeps reboots from stacking duplicates.
func seedRecurrentJobs(dbQueue db.DbQueue, backupEnabled bool) error {
	jobs := []db.Job{
		{
			JobType:   queue.JobTypeTokenSweep,
			Payload:   json.RawMessage(`{}`),
			Recurrent: true,
			Interval:  tokenSweepInterval,
		},
	}
	if backupEnabled {
		jobs = append(jobs, db.Job{
			JobType:   queue.JobTypeLedgerBackup,
			Payload:   json.RawMessage(`{}`),
			Recurrent: true,
			Interval:  ledgerBackupInterval,
		})
	}

	for _, job := range jobs {
		if err := dbQueue.InsertJob(job); err != nil && !errors.Is(err, db.ErrConstraintUnique) {
			return err
		}
	}
	return nil
}
