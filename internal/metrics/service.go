// Package metrics exposes reconciliation counters to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "suiledger"

// Drop reasons for EffectsDropped.
const (
	ReasonMultiOperation = "multi_operation"
	ReasonUnclassifiable = "unclassifiable"
)

// Service holds the collectors for cycle outcomes and per-item degradations.
type Service struct {
	registry         *prometheus.Registry
	cycles           *prometheus.CounterVec
	cycleDuration    prometheus.Histogram
	effectsDropped   *prometheus.CounterVec
	enrichmentMisses prometheus.Counter
	superseded       prometheus.Counter
}

// NewService creates the collectors on a fresh registry that also carries
// the Go runtime and process collectors.
func NewService() *Service {
	s := &Service{
		registry: prometheus.NewRegistry(),
		cycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cycles_total",
			Help:      "Reconciliation cycles by outcome.",
		}, []string{"outcome"}),
		cycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cycle_duration_seconds",
			Help:      "Wall time of reconciliation cycles.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}),
		effectsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "effects_dropped_total",
			Help:      "Transaction effects excluded from a ledger, by reason.",
		}, []string{"reason"}),
		enrichmentMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "enrichment_misses_total",
			Help:      "Referenced objects not returned by the node.",
		}),
		superseded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "superseded_total",
			Help:      "Cycle results discarded because a newer cycle started.",
		}),
	}
	s.registry.MustRegister(
		s.cycles,
		s.cycleDuration,
		s.effectsDropped,
		s.enrichmentMisses,
		s.superseded,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return s
}

// ObserveCycle records a finished cycle.
func (s *Service) ObserveCycle(outcome string, d time.Duration) {
	s.cycles.WithLabelValues(outcome).Inc()
	s.cycleDuration.Observe(d.Seconds())
	if outcome == "superseded" {
		s.superseded.Inc()
	}
}

// EffectsDropped counts n effects dropped for reason.
func (s *Service) EffectsDropped(reason string, n int) {
	if n > 0 {
		s.effectsDropped.WithLabelValues(reason).Add(float64(n))
	}
}

// EnrichmentMisses counts n objects that could not be cross-referenced.
func (s *Service) EnrichmentMisses(n int) {
	if n > 0 {
		s.enrichmentMisses.Add(float64(n))
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (s *Service) Handler() http.Handler {
	return promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})
}
