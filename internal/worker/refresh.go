package worker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/mtlprog/suiledger/internal/journal"
	"github.com/mtlprog/suiledger/internal/ledger"
)

// CycleRunner runs one reconciliation cycle for an address.
type CycleRunner interface {
	Run(ctx context.Context, address string) (journal.Run, error)
}

// RefreshWorker periodically reconciles the ledgers of watched addresses.
type RefreshWorker struct {
	runner    CycleRunner
	addresses []string
	interval  time.Duration
}

// NewRefreshWorker creates a new RefreshWorker.
func NewRefreshWorker(runner CycleRunner, addresses []string, interval time.Duration) *RefreshWorker {
	return &RefreshWorker{
		runner:    runner,
		addresses: addresses,
		interval:  interval,
	}
}

// refreshAll runs one cycle per address in order. A failure for one address
// does not stop the others.
func (w *RefreshWorker) refreshAll(ctx context.Context) {
	for _, addr := range w.addresses {
		if ctx.Err() != nil {
			return
		}
		run, err := w.runner.Run(ctx, addr)
		switch {
		case err == nil:
			slog.Info("RefreshWorker: ledger refreshed", "address", addr, "entries", run.Entries)
		case errors.Is(err, ledger.ErrSuperseded):
			slog.Debug("RefreshWorker: refresh superseded", "address", addr)
		default:
			slog.Error("RefreshWorker: refresh failed", "address", addr, "error", err)
		}
	}
}

// Run starts the refresh loop. It blocks until the context is cancelled.
func (w *RefreshWorker) Run(ctx context.Context) {
	if len(w.addresses) == 0 {
		slog.Info("RefreshWorker: no watched addresses, not starting")
		return
	}
	slog.Info("RefreshWorker: starting", "addresses", len(w.addresses), "interval", w.interval)

	// Refresh immediately on startup
	w.refreshAll(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("RefreshWorker: shutting down")
			return
		case <-ticker.C:
			w.refreshAll(ctx)
		}
	}
}
