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
	// Enumeration metrics
	RunsTotal         *prometheus.CounterVec
	RunDuration       prometheus.Histogram
	TriplesTotal      *prometheus.CounterVec
	PathsEmitted      prometheus.Counter
	EdgesMaterialized prometheus.Counter
	WorkerFailures    prometheus.Counter

	// Input metrics
	PoolsLoaded  *prometheus.GaugeVec
	TokensLoaded prometheus.Gauge

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec

	// Health metrics
	LastSuccessfulRun prometheus.Gauge
	StreamClients     prometheus.Gauge
}

// NewMetrics creates a Metrics instance registered with reg.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "defi_path_finder"
	}
	factory := promauto.With(reg)

	return &Metrics{
		RunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "enumeration",
			Name:      "runs_total",
			Help:      "Total number of enumeration runs by status",
		}, []string{"status"}),
		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "enumeration",
			Name:      "duration_seconds",
			Help:      "Enumeration run duration in seconds",
			Buckets:   []float64{0.01, 0.1, 0.5, 1, 5, 10, 30, 60, 300},
		}),
		TriplesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "enumeration",
			Name:      "triples_total",
			Help:      "Token triples processed by outcome",
		}, []string{"outcome"}),
		PathsEmitted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "enumeration",
			Name:      "paths_emitted_total",
			Help:      "Total number of triangular paths emitted",
		}),
		EdgesMaterialized: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "enumeration",
			Name:      "edges_materialized_total",
			Help:      "Total number of directed edges placed in edge tables",
		}),
		WorkerFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "enumeration",
			Name:      "worker_failures_total",
			Help:      "Total number of enumeration runs aborted by a worker fault",
		}),

		PoolsLoaded: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "input",
			Name:      "pools",
			Help:      "Number of pools in the last loaded snapshot by exchange",
		}, []string{"exchange"}),
		TokensLoaded: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "input",
			Name:      "tokens",
			Help:      "Number of distinct tokens in the last enumeration input",
		}),

		DBQueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),

		LastSuccessfulRun: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_run_timestamp",
			Help:      "Unix timestamp of last successful enumeration run",
		}),
		StreamClients: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "clients",
			Help:      "Number of connected websocket subscribers",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("", prometheus.DefaultRegisterer)

// RunStats is the subset of an enumeration result recorded as metrics.
type RunStats struct {
	Tokens     int
	Considered int
	Excluded   int
	Degenerate int
	Retained   int
	Edges      int
	Paths      int
	Seconds    float64
}

// RecordRun records a completed enumeration run.
func (m *Metrics) RecordRun(s RunStats, unixTime int64) {
	m.RunsTotal.WithLabelValues("success").Inc()
	m.RunDuration.Observe(s.Seconds)
	m.TriplesTotal.WithLabelValues("excluded").Add(float64(s.Excluded))
	m.TriplesTotal.WithLabelValues("degenerate").Add(float64(s.Degenerate))
	m.TriplesTotal.WithLabelValues("retained").Add(float64(s.Retained))
	m.EdgesMaterialized.Add(float64(s.Edges))
	m.PathsEmitted.Add(float64(s.Paths))
	m.TokensLoaded.Set(float64(s.Tokens))
	m.LastSuccessfulRun.Set(float64(unixTime))
}

// RecordFailure records an aborted enumeration run.
func (m *Metrics) RecordFailure(workerFault bool) {
	m.RunsTotal.WithLabelValues("failure").Inc()
	if workerFault {
		m.WorkerFailures.Inc()
	}
}

// RecordPools sets the per-exchange pool gauge.
func (m *Metrics) RecordPools(byExchange map[string]int) {
	for ex, n := range byExchange {
		m.PoolsLoaded.WithLabelValues(ex).Set(float64(n))
	}
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}
