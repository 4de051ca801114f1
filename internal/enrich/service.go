package enrich

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mtlprog/suiledger/internal/coin"
	"github.com/mtlprog/suiledger/internal/domain"
)

// ObjectFetcher fetches current object snapshots by id.
type ObjectFetcher interface {
	FetchObjectsBatch(ctx context.Context, ids []string) ([]domain.ObjectSnapshot, error)
}

// Stats counts the objects involved in one enrichment.
type Stats struct {
	Referenced int `json:"referenced"`
	CacheHits  int `json:"cacheHits"`
	Fetched    int `json:"fetched"`
	Misses     int `json:"misses"`
}

// Service cross-references entries against current object state.
type Service struct {
	fetcher  ObjectFetcher
	registry *coin.Registry
	cache    *objectCache
}

// NewService creates an enrichment service. A non-positive ttl disables caching.
func NewService(fetcher ObjectFetcher, registry *coin.Registry, ttl time.Duration) *Service {
	s := &Service{fetcher: fetcher, registry: registry}
	if ttl > 0 {
		s.cache = newObjectCache(ttl)
	}
	return s
}

// Enrich fetches every object referenced by entries in one batch and merges
// the results. A fetch failure fails the stage; missing objects do not.
func (s *Service) Enrich(ctx context.Context, entries []domain.LedgerEntry) ([]domain.LedgerEntry, Stats, error) {
	ids := ObjectIDs(entries)
	stats := Stats{Referenced: len(ids)}
	if len(ids) == 0 {
		return entries, stats, nil
	}

	objects := make([]domain.ObjectSnapshot, 0, len(ids))
	toFetch := make([]string, 0, len(ids))
	for _, id := range ids {
		if s.cache != nil {
			if obj, ok := s.cache.get(id); ok {
				objects = append(objects, obj)
				stats.CacheHits++
				continue
			}
		}
		toFetch = append(toFetch, id)
	}

	if len(toFetch) > 0 {
		fetched, err := s.fetcher.FetchObjectsBatch(ctx, toFetch)
		if err != nil {
			return nil, stats, fmt.Errorf("fetching %d objects: %w", len(toFetch), err)
		}
		stats.Fetched = len(fetched)
		for _, obj := range fetched {
			if s.cache != nil {
				s.cache.set(obj)
			}
			objects = append(objects, obj)
		}
	}

	enriched, misses := Enrich(entries, objects, s.registry)
	stats.Misses = len(misses)
	for _, id := range misses {
		slog.Debug("entry left unenriched", "error", fmt.Errorf("%w: %s", ErrObjectEnrichmentMiss, id))
	}
	return enriched, stats, nil
}
