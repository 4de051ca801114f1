package history

import (
	"cmp"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/mtlprog/suiledger/internal/domain"
)

// ErrOrphanedEffect is returned when an effect's digest was never listed for the account.
var ErrOrphanedEffect = errors.New("orphaned effect")

// Stats counts what happened to the inputs of one reconciliation.
type Stats struct {
	References            int `json:"references"`
	UniqueDigests         int `json:"uniqueDigests"`
	Effects               int `json:"effects"`
	Entries               int `json:"entries"`
	DroppedMultiOperation int `json:"droppedMultiOperation"`
	DroppedUnclassifiable int `json:"droppedUnclassifiable"`
}

// Dropped returns the total number of effects excluded from the entries.
func (s Stats) Dropped() int {
	return s.DroppedMultiOperation + s.DroppedUnclassifiable
}

// Reconcile correlates effects back to their sequence numbers, classifies
// them and returns the entries sorted by sequence number, most recent first.
// Per-effect classification failures drop the effect; an effect whose digest
// is not in refs fails the whole reconciliation.
func Reconcile(address string, refs []domain.SequenceRef, effects []domain.TransactionEffect) ([]domain.LedgerEntry, Stats, error) {
	stats := Stats{References: len(refs), Effects: len(effects)}

	// first listed sequence number wins for duplicated digests
	seqByDigest := make(map[string]uint64, len(refs))
	for _, r := range refs {
		if _, ok := seqByDigest[r.Digest]; !ok {
			seqByDigest[r.Digest] = r.SequenceNumber
		}
	}
	stats.UniqueDigests = len(seqByDigest)

	entries := make([]domain.LedgerEntry, 0, len(effects))
	seen := make(map[string]bool, len(effects))
	for _, effect := range effects {
		seq, ok := seqByDigest[effect.Digest]
		if !ok {
			return nil, stats, fmt.Errorf("%w: %s", ErrOrphanedEffect, effect.Digest)
		}
		if seen[effect.Digest] {
			continue
		}
		seen[effect.Digest] = true

		entry, err := Classify(address, seq, effect)
		if err != nil {
			switch {
			case errors.Is(err, ErrMultiOperationUnsupported):
				stats.DroppedMultiOperation++
				slog.Warn("dropping multi-operation transaction",
					"digest", effect.Digest, "operations", len(effect.Operations))
			default:
				stats.DroppedUnclassifiable++
				slog.Warn("dropping unclassifiable transaction", "digest", effect.Digest, "error", err)
			}
			continue
		}
		entries = append(entries, entry)
	}

	slices.SortStableFunc(entries, func(a, b domain.LedgerEntry) int {
		return cmp.Compare(b.SequenceNumber, a.SequenceNumber)
	})

	stats.Entries = len(entries)
	return entries, stats, nil
}
