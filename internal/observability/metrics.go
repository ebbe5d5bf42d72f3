// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Upstream metrics
	UpstreamLatency *prometheus.HistogramVec
	UpstreamErrors  *prometheus.CounterVec

	// Cache metrics
	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter
	CacheShared prometheus.Counter

	// Graph metrics
	GraphBuildDuration prometheus.Histogram
	GraphNodes         prometheus.Gauge
	GraphEdges         prometheus.Gauge
	GenealogyTraces    *prometheus.CounterVec

	// Fan-out metrics
	FanoutFailures *prometheus.CounterVec

	// Orchestrator metrics
	RunsTotal   *prometheus.CounterVec
	RunDuration *prometheus.HistogramVec

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec

	// Health metrics
	LastSuccessfulIngest prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "sleeper_trade_lab"
	}

	return &Metrics{
		UpstreamLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "request_latency_seconds",
			Help:      "Upstream API request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
		UpstreamErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "errors_total",
			Help:      "Total number of upstream errors by endpoint and class",
		}, []string{"endpoint", "class"}),

		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Total number of fresh cache hits",
		}),
		CacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "misses_total",
			Help:      "Total number of cache misses and stale entries",
		}),
		CacheShared: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "shared_total",
			Help:      "Total number of callers served by an in-flight fetch",
		}),

		GraphBuildDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "graph",
			Name:      "build_duration_seconds",
			Help:      "Trade graph build duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		}),
		GraphNodes: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "graph",
			Name:      "nodes",
			Help:      "Asset nodes in the most recently built graph",
		}),
		GraphEdges: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "graph",
			Name:      "edges",
			Help:      "Trade edges in the most recently built graph",
		}),
		GenealogyTraces: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "graph",
			Name:      "genealogy_paths_total",
			Help:      "Total number of traced lineage paths by outcome",
		}, []string{"outcome"}),

		FanoutFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fanout",
			Name:      "branch_failures_total",
			Help:      "Total number of failed fan-out branches by operation",
		}, []string{"operation"}),

		RunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orchestrator",
			Name:      "runs_total",
			Help:      "Total number of orchestrator phases by status",
		}, []string{"phase", "status"}),
		RunDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "orchestrator",
			Name:      "duration_seconds",
			Help:      "Orchestrator phase duration in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
		}, []string{"phase"}),

		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),

		LastSuccessfulIngest: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_ingest_timestamp",
			Help:      "Unix timestamp of last successful orchestrated ingest",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordUpstream records an upstream request. class is empty on success.
func RecordUpstream(endpoint string, seconds float64, class string) {
	DefaultMetrics.UpstreamLatency.WithLabelValues(endpoint).Observe(seconds)
	if class != "" {
		DefaultMetrics.UpstreamErrors.WithLabelValues(endpoint, class).Inc()
	}
}

// RecordCacheHit increments the cache hit counter.
func RecordCacheHit() {
	DefaultMetrics.CacheHits.Inc()
}

// RecordCacheMiss increments the cache miss counter.
func RecordCacheMiss() {
	DefaultMetrics.CacheMisses.Inc()
}

// RecordCacheShared increments the shared in-flight counter.
func RecordCacheShared() {
	DefaultMetrics.CacheShared.Inc()
}

// RecordGraphBuild records a graph build.
func RecordGraphBuild(seconds float64, nodes, edges int) {
	DefaultMetrics.GraphBuildDuration.Observe(seconds)
	DefaultMetrics.GraphNodes.Set(float64(nodes))
	DefaultMetrics.GraphEdges.Set(float64(edges))
}

// RecordGenealogyPath records one traced path by outcome.
func RecordGenealogyPath(outcome string) {
	DefaultMetrics.GenealogyTraces.WithLabelValues(outcome).Inc()
}

// RecordFanoutFailure records a failed fan-out branch.
func RecordFanoutFailure(operation string) {
	DefaultMetrics.FanoutFailures.WithLabelValues(operation).Inc()
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}

// RecordRun records an orchestrator phase.
func RecordRun(phase, status string, durationSeconds float64) {
	DefaultMetrics.RunsTotal.WithLabelValues(phase, status).Inc()
	DefaultMetrics.RunDuration.WithLabelValues(phase).Observe(durationSeconds)
}
