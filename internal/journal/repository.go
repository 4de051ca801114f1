// Package journal records the outcome of every reconciliation cycle.
// Only cycle metadata is stored; ledger entries stay in memory.
package journal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mtlprog/suiledger/internal/domain"
)

// ErrNotFound indicates that no run was recorded for the address.
var ErrNotFound = errors.New("run not found")

// Outcome is how a cycle ended.
type Outcome string

const (
	OutcomeLoaded     Outcome = "loaded"
	OutcomeFailed     Outcome = "failed"
	OutcomeSuperseded Outcome = "superseded"
)

// Run is one finished reconciliation cycle.
type Run struct {
	ID                    uuid.UUID         `json:"id"`
	Address               string            `json:"address"`
	Generation            uint64            `json:"generation"`
	Outcome               Outcome           `json:"outcome"`
	Entries               int               `json:"entries"`
	DroppedMultiOperation int               `json:"droppedMultiOperation"`
	DroppedUnclassifiable int               `json:"droppedUnclassifiable"`
	EnrichmentMisses      int               `json:"enrichmentMisses"`
	Error                 *domain.ErrorInfo `json:"error,omitempty"`
	StartedAt             time.Time         `json:"startedAt"`
	FinishedAt            time.Time         `json:"finishedAt"`
}

// Duration returns how long the cycle ran.
func (r Run) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// PgRepository stores runs in PostgreSQL.
type PgRepository struct {
	pool *pgxpool.Pool
}

// NewPgRepository creates a new PostgreSQL run repository.
func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const runColumns = `id, address, generation, outcome, entries, dropped_multi_operation,
	dropped_unclassifiable, enrichment_misses, error_code, error_name, error_message,
	started_at, finished_at`

func (r *PgRepository) Save(ctx context.Context, run Run) error {
	var code *int
	var name, message *string
	if run.Error != nil {
		code, name, message = &run.Error.Code, &run.Error.Name, &run.Error.Message
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO reconcile_runs (`+runColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		run.ID, run.Address, int64(run.Generation), string(run.Outcome), run.Entries,
		run.DroppedMultiOperation, run.DroppedUnclassifiable, run.EnrichmentMisses,
		code, name, message, run.StartedAt, run.FinishedAt)
	if err != nil {
		return fmt.Errorf("saving run: %w", err)
	}
	return nil
}

func (r *PgRepository) Latest(ctx context.Context, address string) (*Run, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+runColumns+`
		 FROM reconcile_runs
		 WHERE address = $1
		 ORDER BY finished_at DESC
		 LIMIT 1`, address)
	run, err := scanRun(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting latest run: %w", err)
	}
	return &run, nil
}

func (r *PgRepository) ListByAddress(ctx context.Context, address string, limit int) ([]Run, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+runColumns+`
		 FROM reconcile_runs
		 WHERE address = $1
		 ORDER BY finished_at DESC
		 LIMIT $2`, address, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return runs, nil
}

func scanRun(row pgx.Row) (Run, error) {
	var (
		run        Run
		generation int64
		outcome    string
		code       *int
		name       *string
		message    *string
	)
	err := row.Scan(&run.ID, &run.Address, &generation, &outcome, &run.Entries,
		&run.DroppedMultiOperation, &run.DroppedUnclassifiable, &run.EnrichmentMisses,
		&code, &name, &message, &run.StartedAt, &run.FinishedAt)
	if err != nil {
		return Run{}, err
	}
	run.Generation = uint64(generation)
	run.Outcome = Outcome(outcome)
	if code != nil {
		run.Error = &domain.ErrorInfo{Code: *code}
		if name != nil {
			run.Error.Name = *name
		}
		if message != nil {
			run.Error.Message = *message
		}
	}
	return run, nil
}
