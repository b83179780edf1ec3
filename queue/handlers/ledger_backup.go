package handlers

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/config"
	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/db"
	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/db/zombiezen"
)

// LedgerBackupHandler produces a gzipped VACUUM INTO copy of the database.
// VACUUM INTO writes a clean, defragmented snapshot and runs on its own
// standalone connection so pooled connections stay available.
type LedgerBackupHandler struct {
	configProvider *config.Provider
	logger         *slog.Logger
}

func NewLedgerBackupHandler(provider *config.Provider, logger *slog.Logger) *LedgerBackupHandler {
	if provider == nil || logger == nil {
		panic("NewLedgerBackupHandler: received nil provider or logger")
	}
	return &LedgerBackupHandler{
		configProvider: provider,
		logger:         logger.With("job_handler", "ledger_backup"),
	}
}

// Handle implements the JobHandler interface for database backups.
func (h *LedgerBackupHandler) Handle(ctx context.Context, job db.Job) error {
	cfg := h.configProvider.Get()
	if !cfg.Backup.Enabled {
		h.logger.Debug("backups disabled, skipping")
		return nil
	}

	sourcePath := cfg.DBFile
	tempPath := filepath.Join(os.TempDir(), fmt.Sprintf("backup-%d.db", time.Now().UnixNano()))

	baseName := filepath.Base(sourcePath)
	fileNameOnly := strings.TrimSuffix(baseName, filepath.Ext(baseName))
	timestamp := time.Now().UTC().Format("2006-01-02T15-04-05Z")
	finalPath := filepath.Join(cfg.Backup.Dir, fmt.Sprintf("%s-%s.bck.gz", fileNameOnly, timestamp))

	h.logger.Info("starting database backup", "source", sourcePath, "destination", finalPath)

	if err := os.MkdirAll(cfg.Backup.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create backup directory: %w", err)
	}

	if err := h.vacuumInto(sourcePath, tempPath); err != nil {
		return fmt.Errorf("backup creation failed: %w", err)
	}
	defer func() {
		if err := os.Remove(tempPath); err != nil {
			h.logger.Error("error removing temporary backup file", "error", err)
		}
	}()

	if err := h.compressFile(tempPath, finalPath); err != nil {
		return fmt.Errorf("failed to gzip backup file: %w", err)
	}

	h.logger.Info("database backup completed", "path", finalPath)
	return nil
}

// vacuumInto creates a clean copy of the database at destPath.
func (h *LedgerBackupHandler) vacuumInto(sourcePath, destPath string) error {
	conn, err := zombiezen.NewConn(sourcePath)
	if err != nil {
		return fmt.Errorf("failed to open source db for vacuum: %w", err)
	}
	defer func() {
		if err := conn.Close(); err != nil {
			h.logger.Error("error closing source database connection", "error", err)
		}
	}()

	stmt, err := conn.Prepare(fmt.Sprintf("VACUUM INTO '%s';", destPath))
	if err != nil {
		return fmt.Errorf("failed to prepare vacuum statement: %w", err)
	}
	defer stmt.Finalize()

	if _, err := stmt.Step(); err != nil {
		return fmt.Errorf("failed to execute vacuum statement: %w", err)
	}
	return nil
}

// compressFile gzips sourcePath into destPath.
func (h *LedgerBackupHandler) compressFile(sourcePath, destPath string) error {
	sourceFile, err := os.Open(sourcePath)
	if err != nil {
		return fmt.Errorf("failed to open source file for compression: %w", err)
	}
	defer func() {
		if err := sourceFile.Close(); err != nil {
			h.logger.Error("error closing source file", "error", err)
		}
	}()

	destFile, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create destination file for compression: %w", err)
	}
	defer func() {
		if err := destFile.Close(); err != nil {
			h.logger.Error("error closing destination file", "error", err)
		}
	}()

	gzipWriter := gzip.NewWriter(destFile)
	defer func() {
		if err := gzipWriter.Close(); err != nil {
			h.logger.Error("error closing gzip writer", "error", err)
		}
	}()

	if _, err := io.Copy(gzipWriter, sourceFile); err != nil {
		return fmt.Errorf("failed to copy and compress data: %w", err)
	}

	return nil
}
