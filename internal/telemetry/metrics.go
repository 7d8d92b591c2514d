// ABOUTME: Prometheus metrics for the insight engine and HTTP API.
// ABOUTME: All recording methods are safe to call on a nil *Metrics.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the engine's Prometheus collectors.
type Metrics struct {
	CacheHits       prometheus.Counter
	CacheMisses     prometheus.Counter
	ReportDuration  prometheus.Histogram
	ReadinessSource *prometheus.CounterVec
	ModelFailures   prometheus.Counter
	HTTPRequests    *prometheus.CounterVec
	HTTPDuration    *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wellsync_insight_cache_hits_total",
			Help: "Insight reports served from cache",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wellsync_insight_cache_misses_total",
			Help: "Insight reports recomputed after a cache miss",
		}),
		ReportDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "wellsync_insight_report_duration_seconds",
			Help:    "Time spent building an insight report",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
		}),
		ReadinessSource: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wellsync_readiness_results_total",
			Help: "Readiness results by source",
		}, []string{"source"}),
		ModelFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wellsync_model_failures_total",
			Help: "Scoring model calls that failed and fell back to the rule scorer",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wellsync_http_requests_total",
			Help: "HTTP requests by route and status",
		}, []string{"route", "method", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "wellsync_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}

	if reg != nil {
		reg.MustRegister(
			m.CacheHits, m.CacheMisses, m.ReportDuration,
			m.ReadinessSource, m.ModelFailures,
			m.HTTPRequests, m.HTTPDuration,
		)
	}
	return m
}

// CacheHit records a report served from cache.
func (m *Metrics) CacheHit() {
	if m != nil {
		m.CacheHits.Inc()
	}
}

// CacheMiss records a report that had to be recomputed.
func (m *Metrics) CacheMiss() {
	if m != nil {
		m.CacheMisses.Inc()
	}
}

// ObserveReport records how long a report took to build.
func (m *Metrics) ObserveReport(d time.Duration) {
	if m != nil {
		m.ReportDuration.Observe(d.Seconds())
	}
}

// Readiness records the source of a readiness result.
func (m *Metrics) Readiness(source string) {
	if m != nil {
		m.ReadinessSource.WithLabelValues(source).Inc()
	}
}

// ModelFailure records a model fallback.
func (m *Metrics) ModelFailure() {
	if m != nil {
		m.ModelFailures.Inc()
	}
}

// HTTPRequest records one served request.
func (m *Metrics) HTTPRequest(route, method, status string, d time.Duration) {
	if m != nil {
		m.HTTPRequests.WithLabelValues(route, method, status).Inc()
		m.HTTPDuration.WithLabelValues(route, method).Observe(d.Seconds())
	}
}
