package history

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mtlprog/suiledger/internal/domain"
)

// ReferenceLister lists the transaction references of an account.
type ReferenceLister interface {
	ListReferences(ctx context.Context, address string) ([]domain.SequenceRef, error)
}

// EffectsFetcher fetches transaction effects by digest.
type EffectsFetcher interface {
	FetchEffectsBatch(ctx context.Context, digests []string) ([]domain.TransactionEffect, error)
}

// Service runs the reference and effects stages against the ledger node.
type Service struct {
	refs    ReferenceLister
	effects EffectsFetcher
}

// NewService creates a new history service.
func NewService(refs ReferenceLister, effects EffectsFetcher) *Service {
	return &Service{refs: refs, effects: effects}
}

// Load returns the reconciled, unenriched entries for address. An empty
// address yields no entries without contacting the node.
func (s *Service) Load(ctx context.Context, address string) ([]domain.LedgerEntry, Stats, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return []domain.LedgerEntry{}, Stats{}, nil
	}

	refs, err := s.refs.ListReferences(ctx, address)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("fetching references: %w", err)
	}

	digests := Dedupe(refs)
	if len(digests) == 0 {
		return []domain.LedgerEntry{}, Stats{References: len(refs)}, nil
	}

	effects, err := s.effects.FetchEffectsBatch(ctx, digests)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("fetching effects: %w", err)
	}

	entries, stats, err := Reconcile(address, refs, effects)
	if err != nil {
		return nil, stats, fmt.Errorf("reconciling %s: %w", address, err)
	}

	slog.Debug("history reconciled",
		"address", address,
		"references", stats.References,
		"unique", stats.UniqueDigests,
		"entries", stats.Entries,
		"dropped", stats.Dropped(),
	)
	return entries, stats, nil
}
