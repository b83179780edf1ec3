package handlers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/db"
)

// TokenSweepHandler retires expired rows in all four token ledger tables.
// Expiry is already enforced at read time; the sweep only keeps the tables
// from accumulating dead rows, so it is safe to run at any cadence.
type TokenSweepHandler struct {
	dbTokens db.DbTokens
	logger   *slog.Logger
}

func NewTokenSweepHandler(dbTokens db.DbTokens, logger *slog.Logger) *TokenSweepHandler {
	if dbTokens == nil || logger == nil {
		panic("NewTokenSweepHandler: received nil dbTokens or logger")
	}
	return &TokenSweepHandler{
		dbTokens: dbTokens,
		logger:   logger.With("job_handler", "token_sweep"),
	}
}

// Handle implements the JobHandler interface for the recurring sweep.
func (h *TokenSweepHandler) Handle(ctx context.Context, job db.Job) error {
	swept, err := h.dbTokens.SweepExpiredTokens()
	if err != nil {
		return fmt.Errorf("failed to sweep expired tokens: %w", err)
	}

	if swept > 0 {
		h.logger.Info("swept expired tokens", "count", swept)
	} else {
		h.logger.Debug("no expired tokens to sweep")
	}
	return nil
}
