// Package enrich merges current on-chain object metadata into ledger entries.
package enrich

import (
	"errors"
	"log/slog"

	"github.com/samber/lo"

	"github.com/mtlprog/suiledger/internal/coin"
	"github.com/mtlprog/suiledger/internal/domain"
)

// ErrObjectEnrichmentMiss marks an entry whose referenced object was not returned.
var ErrObjectEnrichmentMiss = errors.New("object enrichment miss")

// ObjectIDs returns the distinct non-empty object ids referenced by entries.
func ObjectIDs(entries []domain.LedgerEntry) []string {
	return lo.Uniq(lo.Compact(lo.Map(entries, func(e domain.LedgerEntry, _ int) string {
		return e.ObjectID()
	})))
}

// Enrich returns a copy of entries with metadata from matching objects merged
// in, plus the ids of referenced objects that had no match. Entries are never
// removed, reordered or mutated in place.
func Enrich(entries []domain.LedgerEntry, objects []domain.ObjectSnapshot, registry *coin.Registry) ([]domain.LedgerEntry, []string) {
	byID := lo.KeyBy(objects, func(o domain.ObjectSnapshot) string { return o.ObjectID })

	out := make([]domain.LedgerEntry, len(entries))
	var misses []string
	for i, e := range entries {
		out[i] = e
		id := e.ObjectID()
		if id == "" {
			continue
		}
		obj, ok := byID[id]
		if !ok {
			misses = append(misses, id)
			continue
		}
		out[i].Enrichment = enrichment(obj, registry)
	}
	return out, lo.Uniq(misses)
}

func enrichment(obj domain.ObjectSnapshot, registry *coin.Registry) domain.Enrichment {
	en := domain.Enrichment{
		Name:        obj.Fields.Name,
		Description: obj.Fields.Description,
		URL:         obj.Fields.URL,
	}

	if tag, err := coin.SymbolForObject(obj.Type); err == nil {
		en.CoinType = &tag
		en.CoinSymbol = registry.Symbol(tag)
	}

	balance, err := coin.ExtractBalance(obj)
	switch {
	case err == nil:
		en.Balance = &balance
	case errors.Is(err, coin.ErrNotACoinObject):
	default:
		slog.Warn("ignoring coin balance", "object_id", obj.ObjectID, "error", err)
	}
	return en
}
