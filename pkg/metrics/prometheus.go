// Package metrics provides Prometheus metrics for the rating engine and its
// HTTP surface.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager manages all Prometheus metrics for the rating service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	// Replay metrics: one rating run over a chronological race stream.
	racesProcessed  prometheus.Counter
	racesSkipped    prometheus.Counter
	racesDuplicate  prometheus.Counter
	headToHeads     prometheus.Counter
	seasonRollovers prometheus.Counter
	ridersTracked   prometheus.Gauge

	// Glicko-2 solver health.
	solverIterations prometheus.Histogram

	// HTTP surface.
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager on a custom registry, so the default Go collectors
// do not leak into the /metrics output.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager()
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "velo",
		subsystem:        "ratings",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.NewRegistry(),
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.racesProcessed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "races_processed_total",
		Help:      "Total number of races fed through the rating engine",
	})

	m.racesSkipped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "races_skipped_total",
		Help:      "Total number of races skipped for missing weight configuration",
	})

	m.racesDuplicate = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "races_duplicate_total",
		Help:      "Total number of duplicate race result blocks rejected",
	})

	m.headToHeads = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "head_to_heads_total",
		Help:      "Total number of pairwise comparisons evaluated",
	})

	m.seasonRollovers = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "season_rollovers_total",
		Help:      "Total number of season mean-reversion passes applied",
	})

	m.ridersTracked = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "riders_tracked",
		Help:      "Current number of riders known to the rating engine",
	})

	m.solverIterations = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "volatility_solver_iterations",
		Help:      "Iterations taken by the Glicko-2 volatility root finder",
		Buckets:   []float64{1, 2, 3, 5, 8, 13, 21, 34, 55},
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)
}

// Handler returns an http.Handler serving the global registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(globalManager.registry, promhttp.HandlerOpts{})
}

// RecordRaceProcessed increments the processed races counter.
func RecordRaceProcessed() {
	globalManager.racesProcessed.Inc()
}

// RecordRaceSkipped increments the skipped races counter.
func RecordRaceSkipped() {
	globalManager.racesSkipped.Inc()
}

// RecordRaceDuplicate increments the duplicate races counter.
func RecordRaceDuplicate() {
	globalManager.racesDuplicate.Inc()
}

// RecordHeadToHeads adds n evaluated pairwise comparisons.
func RecordHeadToHeads(n int) {
	globalManager.headToHeads.Add(float64(n))
}

// RecordSeasonRollover increments the season rollover counter.
func RecordSeasonRollover() {
	globalManager.seasonRollovers.Inc()
}

// UpdateRidersTracked sets the riders-tracked gauge.
func UpdateRidersTracked(count int) {
	globalManager.ridersTracked.Set(float64(count))
}

// RecordSolverIterations observes one volatility solve.
func RecordSolverIterations(iterations int) {
	globalManager.solverIterations.Observe(float64(iterations))
}

// RecordHTTPRequest counts a finished HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records an HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}
