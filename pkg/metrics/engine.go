package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// EngineMetrics records report generation and query handling metadata.
type EngineMetrics struct {
	reportDuration *prometheus.HistogramVec
	queries        *prometheus.CounterVec
	cacheLookups   *prometheus.CounterVec
}

// NewEngineMetrics registers the engine metrics on the provided registerer.
func NewEngineMetrics(reg prometheus.Registerer) *EngineMetrics {
	if reg == nil {
		return &EngineMetrics{}
	}
	reportDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "report_duration_seconds",
		Help:    "Duration of sales report generation in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"range"})
	queries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "assistant_queries_total",
		Help: "Assistant queries by classified intent and outcome.",
	}, []string{"intent", "outcome"})
	cacheLookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "report_cache_lookups_total",
		Help: "Report cache lookups by result.",
	}, []string{"result"})
	reg.MustRegister(reportDuration, queries, cacheLookups)
	return &EngineMetrics{
		reportDuration: reportDuration,
		queries:        queries,
		cacheLookups:   cacheLookups,
	}
}

// ObserveReportDuration records how long one report took for a range label.
func (e *EngineMetrics) ObserveReportDuration(rangeLabel string, duration time.Duration) {
	if e == nil || e.reportDuration == nil {
		return
	}
	e.reportDuration.WithLabelValues(normalizeLabel(rangeLabel)).Observe(duration.Seconds())
}

// IncQuery counts one classified query and its outcome.
func (e *EngineMetrics) IncQuery(intent, outcome string) {
	if e == nil || e.queries == nil {
		return
	}
	e.queries.WithLabelValues(normalizeLabel(intent), normalizeLabel(outcome)).Inc()
}

// IncCacheHit counts a report cache hit.
func (e *EngineMetrics) IncCacheHit() {
	if e == nil || e.cacheLookups == nil {
		return
	}
	e.cacheLookups.WithLabelValues("hit").Inc()
}

// IncCacheMiss counts a report cache miss.
func (e *EngineMetrics) IncCacheMiss() {
	if e == nil || e.cacheLookups == nil {
		return
	}
	e.cacheLookups.WithLabelValues("miss").Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
