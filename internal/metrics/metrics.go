// Package metrics exposes Prometheus instrumentation for the enrichment pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for RequestsTotal.
const (
	OutcomeCacheHit  = "cache_hit"
	OutcomeAI        = "ai"
	OutcomeHeuristic = "heuristic"
	OutcomeInvalid   = "invalid"
	OutcomeFetchErr  = "fetch_error"
	OutcomeAIErr     = "ai_error"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal *prometheus.CounterVec
	FetchDuration prometheus.Histogram
	CacheEntries  prometheus.GaugeFunc
}

// New registers the service metrics on a fresh registry. cacheSize, if non-nil,
// is sampled on every scrape.
func New(cacheSize func() int) *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	m := &Metrics{
		registry: reg,
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "enricher_requests_total",
			Help: "Enrichment requests by outcome",
		}, []string{"outcome"}),
		FetchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "enricher_fetch_duration_seconds",
			Help:    "Time spent fetching website content",
			Buckets: prometheus.DefBuckets,
		}),
	}
	if cacheSize != nil {
		m.CacheEntries = factory.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "enricher_cache_entries",
			Help: "Records currently held in the enrichment cache",
		}, func() float64 { return float64(cacheSize()) })
	}
	return m
}

// IncOutcome counts one enrichment request finishing with outcome.
func (m *Metrics) IncOutcome(outcome string) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(outcome).Inc()
}

// ObserveFetch records the duration of one website fetch.
func (m *Metrics) ObserveFetch(d time.Duration) {
	if m == nil {
		return
	}
	m.FetchDuration.Observe(d.Seconds())
}

// Registry returns the registry the metrics are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
