// Package metrics provides Prometheus metrics for skillrank batch runs.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns the Prometheus collectors for one registry.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         *prometheus.Registry

	// Replay metrics
	matchesReplayed prometheus.Counter
	matchesSkipped  prometheus.Counter
	matchesDropped  prometheus.Counter
	draws           prometheus.Counter
	replayProgress  prometheus.Gauge
	replayDuration  prometheus.Histogram

	// Roster and report metrics
	competitors         prometheus.Gauge
	leaderboardRows     prometheus.Gauge
	reportWriteDuration *prometheus.HistogramVec
	reportWriteErrors   *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "skillrank",
		subsystem:        "replay",
		histogramBuckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		constLabels:      make(map[string]string),
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
	labels := prometheus.Labels(m.constLabels)

	m.matchesReplayed = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "matches_replayed_total",
		Help:        "Total number of matches applied to the rating model",
		ConstLabels: labels,
	})

	m.matchesSkipped = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "matches_skipped_total",
		Help:        "Matches skipped during replay because a competitor did not resolve",
		ConstLabels: labels,
	})

	m.matchesDropped = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "matches_dropped_total",
		Help:        "Matches dropped before replay (absent or unknown competitor)",
		ConstLabels: labels,
	})

	m.draws = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "draws_total",
		Help:        "Total number of drawn matches replayed",
		ConstLabels: labels,
	})

	m.replayProgress = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "progress_matches",
		Help:        "Index of the last match reported by the progress notifier",
		ConstLabels: labels,
	})

	m.replayDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "duration_seconds",
		Help:        "Wall time spent replaying the full match history",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	})

	m.competitors = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "competitors",
		Help:        "Number of competitors on the roster",
		ConstLabels: labels,
	})

	m.leaderboardRows = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "leaderboard_rows",
		Help:        "Number of rows in the generated leaderboard",
		ConstLabels: labels,
	})

	m.reportWriteDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "report_write_duration_seconds",
			Help:        "Time spent writing the leaderboard to a sink",
			Buckets:     m.histogramBuckets,
			ConstLabels: labels,
		},
		[]string{"sink"},
	)

	m.reportWriteErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "report_write_errors_total",
			Help:        "Failed leaderboard writes by sink",
			ConstLabels: labels,
		},
		[]string{"sink"},
	)
}

// Registry returns the registry the manager's collectors are registered on.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes every metric on the manager's registry to path in the
// Prometheus text exposition format.
func (m *Manager) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrExportFailed, path, err)
	}
	return nil
}

// RecordMatchReplayed increments the replayed matches counter.
func RecordMatchReplayed() {
	globalManager.matchesReplayed.Inc()
}

// RecordMatchSkipped increments the skipped matches counter.
func RecordMatchSkipped() {
	globalManager.matchesSkipped.Inc()
}

// RecordMatchesDropped adds n to the pre-replay dropped matches counter.
func RecordMatchesDropped(n int) {
	globalManager.matchesDropped.Add(float64(n))
}

// RecordDraw increments the draws counter.
func RecordDraw() {
	globalManager.draws.Inc()
}

// UpdateReplayProgress sets the progress gauge to the given match index.
func UpdateReplayProgress(index int) {
	globalManager.replayProgress.Set(float64(index))
}

// RecordReplayDuration records the replay wall time in seconds.
func RecordReplayDuration(seconds float64) {
	globalManager.replayDuration.Observe(seconds)
}

// UpdateCompetitors sets the roster size.
func UpdateCompetitors(count int) {
	globalManager.competitors.Set(float64(count))
}

// UpdateLeaderboardRows sets the number of leaderboard rows produced.
func UpdateLeaderboardRows(count int) {
	globalManager.leaderboardRows.Set(float64(count))
}

// RecordReportWrite records how long a sink took to write the leaderboard.
func RecordReportWrite(sink string, seconds float64) {
	globalManager.reportWriteDuration.WithLabelValues(sink).Observe(seconds)
}

// RecordReportWriteError increments the write error counter for a sink.
func RecordReportWriteError(sink string) {
	globalManager.reportWriteErrors.WithLabelValues(sink).Inc()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// WriteTextfile dumps the global registry to path.
func WriteTextfile(path string) error {
	return globalManager.WriteTextfile(path)
}
