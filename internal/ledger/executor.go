package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mtlprog/suiledger/internal/domain"
	"github.com/mtlprog/suiledger/internal/enrich"
	"github.com/mtlprog/suiledger/internal/history"
	"github.com/mtlprog/suiledger/internal/journal"
	"github.com/mtlprog/suiledger/internal/metrics"
)

// HistoryLoader produces the reconciled entries of an account.
type HistoryLoader interface {
	Load(ctx context.Context, address string) ([]domain.LedgerEntry, history.Stats, error)
}

// Enricher cross-references entries with current object state.
type Enricher interface {
	Enrich(ctx context.Context, entries []domain.LedgerEntry) ([]domain.LedgerEntry, enrich.Stats, error)
}

// RunRecorder stores finished cycle outcomes.
type RunRecorder interface {
	Save(ctx context.Context, run journal.Run) error
}

// Metrics receives cycle observations.
type Metrics interface {
	ObserveCycle(outcome string, d time.Duration)
	EffectsDropped(reason string, n int)
	EnrichmentMisses(n int)
}

const journalTimeout = 5 * time.Second

// Executor runs reconciliation cycles and applies their results to a Cache.
type Executor struct {
	cache    *Cache
	history  HistoryLoader
	enricher Enricher
	recorder RunRecorder
	metrics  Metrics
}

// NewExecutor creates an executor. recorder and m may be nil.
func NewExecutor(cache *Cache, h HistoryLoader, e Enricher, recorder RunRecorder, m Metrics) *Executor {
	return &Executor{cache: cache, history: h, enricher: e, recorder: recorder, metrics: m}
}

// Cache returns the cache the executor commits to.
func (e *Executor) Cache() *Cache { return e.cache }

// Run executes one cycle for address and returns the run record. A newer
// cycle for the same address cancels this one; its result is then discarded
// and the run reports OutcomeSuperseded with ErrSuperseded.
func (e *Executor) Run(ctx context.Context, address string) (journal.Run, error) {
	run := journal.Run{ID: uuid.New(), Address: address, StartedAt: time.Now().UTC()}

	cycleCtx, gen := e.cache.Begin(ctx, address)
	run.Generation = gen
	log := slog.With("run_id", run.ID, "address", address, "generation", gen)
	log.Info("ledger cycle started")

	entries, err := e.load(cycleCtx, address, &run)

	switch {
	case err != nil && e.cache.Generation(address) != gen:
		run.Outcome = journal.OutcomeSuperseded
		err = fmt.Errorf("%w: %w", ErrSuperseded, err)
	case err != nil:
		info := DescribeError(err)
		run.Outcome = journal.OutcomeFailed
		run.Error = &info
		if ferr := e.cache.Fail(address, gen, info); ferr != nil {
			run.Outcome = journal.OutcomeSuperseded
			err = ferr
		}
	default:
		if cerr := e.cache.Commit(address, gen, entries); cerr != nil {
			run.Outcome = journal.OutcomeSuperseded
			err = cerr
		} else {
			run.Outcome = journal.OutcomeLoaded
			run.Entries = len(entries)
		}
	}
	run.FinishedAt = time.Now().UTC()

	switch run.Outcome {
	case journal.OutcomeLoaded:
		log.Info("ledger cycle loaded", "entries", run.Entries, "duration", run.Duration())
	case journal.OutcomeSuperseded:
		log.Info("ledger cycle superseded, result discarded", "latest_generation", e.cache.Generation(address))
	default:
		log.Error("ledger cycle failed", "error", err)
	}

	e.observe(run)
	e.record(ctx, run)
	return run, err
}

// Dispatch starts a cycle in the background, detached from ctx's cancellation.
func (e *Executor) Dispatch(ctx context.Context, address string) {
	go func() {
		if _, err := e.Run(context.WithoutCancel(ctx), address); err != nil && !errors.Is(err, ErrSuperseded) {
			slog.Debug("dispatched cycle ended with error", "address", address, "error", err)
		}
	}()
}

func (e *Executor) load(ctx context.Context, address string, run *journal.Run) ([]domain.LedgerEntry, error) {
	entries, hstats, err := e.history.Load(ctx, address)
	run.DroppedMultiOperation = hstats.DroppedMultiOperation
	run.DroppedUnclassifiable = hstats.DroppedUnclassifiable
	if err != nil {
		return nil, err
	}

	enriched, estats, err := e.enricher.Enrich(ctx, entries)
	run.EnrichmentMisses = estats.Misses
	if err != nil {
		return nil, fmt.Errorf("enriching entries: %w", err)
	}
	return enriched, nil
}

func (e *Executor) observe(run journal.Run) {
	if e.metrics == nil {
		return
	}
	e.metrics.ObserveCycle(string(run.Outcome), run.Duration())
	e.metrics.EffectsDropped(metrics.ReasonMultiOperation, run.DroppedMultiOperation)
	e.metrics.EffectsDropped(metrics.ReasonUnclassifiable, run.DroppedUnclassifiable)
	e.metrics.EnrichmentMisses(run.EnrichmentMisses)
}

func (e *Executor) record(ctx context.Context, run journal.Run) {
	if e.recorder == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), journalTimeout)
	defer cancel()
	if err := e.recorder.Save(ctx, run); err != nil {
		slog.Warn("failed to record ledger cycle", "run_id", run.ID, "error", err)
	}
}
