// Package metrics exposes Prometheus instrumentation for the analysis
// pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ProviderLatencyBuckets cover LLM round trips, which run seconds not
// milliseconds
var ProviderLatencyBuckets = []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 40, 60, 120}

// Metrics holds all Prometheus metrics for the analysis pipeline
type Metrics struct {
	// AnalysesTotal counts finished analyses by operation and source
	AnalysesTotal *prometheus.CounterVec

	// ProviderCalls counts provider round trips by provider and outcome
	ProviderCalls *prometheus.CounterVec

	// ProviderLatency tracks provider round trip latency
	ProviderLatency *prometheus.HistogramVec

	// ProviderRetries counts transient-error retries
	ProviderRetries *prometheus.CounterVec

	// ExtractionStrategy counts which cascade strategy produced the payload
	ExtractionStrategy *prometheus.CounterVec

	// QualityScore tracks gate scores for accepted and rejected payloads
	QualityScore *prometheus.HistogramVec

	// CacheEvents counts hits, misses and stores
	CacheEvents *prometheus.CounterVec

	// RateLimited counts requests rejected by the per-user limiter
	RateLimited prometheus.Counter

	registry *prometheus.Registry
}

// New creates and registers the pipeline metrics on a private registry
func New() *Metrics {
	m := &Metrics{
		AnalysesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "redflag_analyses_total",
				Help: "Finished analyses by operation and result source",
			},
			[]string{"operation", "source"},
		),
		ProviderCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "redflag_provider_calls_total",
				Help: "Provider round trips by outcome",
			},
			[]string{"provider", "outcome"},
		),
		ProviderLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "redflag_provider_latency_seconds",
				Help:    "Provider round trip latency in seconds",
				Buckets: ProviderLatencyBuckets,
			},
			[]string{"provider"},
		),
		ProviderRetries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "redflag_provider_retries_total",
				Help: "Transient-error retries per provider",
			},
			[]string{"provider"},
		),
		ExtractionStrategy: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "redflag_extraction_strategy_total",
				Help: "Payload extractions by cascade strategy index",
			},
			[]string{"strategy"},
		),
		QualityScore: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "redflag_quality_score",
				Help:    "Quality gate scores",
				Buckets: prometheus.LinearBuckets(0, 10, 11),
			},
			[]string{"verdict"},
		),
		CacheEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "redflag_cache_events_total",
				Help: "Result cache hits, misses and stores",
			},
			[]string{"event"},
		),
		RateLimited: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "redflag_rate_limited_total",
				Help: "Requests rejected by the per-user rate limiter",
			},
		),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		m.AnalysesTotal,
		m.ProviderCalls,
		m.ProviderLatency,
		m.ProviderRetries,
		m.ExtractionStrategy,
		m.QualityScore,
		m.CacheEvents,
		m.RateLimited,
	)
	return m
}

// Handler serves the registry in Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
