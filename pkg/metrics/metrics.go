// Package metrics provides Prometheus metrics for the CareerForge scoring worker.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the scoring worker.
type Manager struct {
	namespace string
	subsystem string
	registry  prometheus.Registerer

	// Sync metrics
	syncRuns         prometheus.Counter
	syncUserOutcomes *prometheus.CounterVec
	syncDuration     prometheus.Histogram

	// Scoring metrics
	recalculations      prometheus.Counter
	recalculationErrors prometheus.Counter
	recalculationTime   prometheus.Histogram

	// Badge metrics
	badgesAwarded *prometheus.CounterVec
	sweepRuns     prometheus.Counter

	// Leaderboard metrics
	leaderboardUpdates prometheus.Counter
	leaderboardErrors  prometheus.Counter

	// GitHub API metrics
	githubRequests      *prometheus.CounterVec
	githubRateLimitHits prometheus.Counter
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(customRegistry)
}

// NewManager creates a new metrics manager registered on the given registry.
func NewManager(registry prometheus.Registerer) *Manager {
	m := &Manager{
		namespace: "careerforge",
		subsystem: "scoring",
		registry:  registry,
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.syncRuns = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sync_runs_total",
		Help:      "Total number of GitHub sync sweeps started",
	})

	m.syncUserOutcomes = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "sync_user_outcomes_total",
			Help:      "Per-user sync outcomes by result",
		},
		[]string{"outcome"},
	)

	m.syncDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sync_duration_seconds",
		Help:      "Duration of a full sync sweep in seconds",
		Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
	})

	m.recalculations = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "recalculations_total",
		Help:      "Total number of score recalculations",
	})

	m.recalculationErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "recalculation_errors_total",
		Help:      "Total number of failed score recalculations",
	})

	m.recalculationTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "recalculation_duration_milliseconds",
		Help:      "Score recalculation duration in milliseconds",
		Buckets:   prometheus.DefBuckets,
	})

	m.badgesAwarded = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "badges_awarded_total",
			Help:      "Total number of badges awarded by badge key",
		},
		[]string{"badge_key"},
	)

	m.sweepRuns = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "badge_sweep_runs_total",
		Help:      "Total number of badge eligibility sweeps",
	})

	m.leaderboardUpdates = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "leaderboard_updates_total",
		Help:      "Total number of leaderboard updates",
	})

	m.leaderboardErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "leaderboard_errors_total",
		Help:      "Total number of leaderboard update errors",
	})

	m.githubRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "github_requests_total",
			Help:      "Total number of GitHub API requests by status",
		},
		[]string{"status"},
	)

	m.githubRateLimitHits = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "github_rate_limit_hits_total",
		Help:      "Total number of GitHub API rate limit rejections",
	})
}

// RecordSyncRun increments the sync sweep counter.
func RecordSyncRun() {
	globalManager.syncRuns.Inc()
}

// RecordSyncOutcome records a per-user sync outcome (success, skipped, failed).
func RecordSyncOutcome(outcome string) {
	globalManager.syncUserOutcomes.WithLabelValues(outcome).Inc()
}

// RecordSyncDuration records the duration of a full sync sweep in seconds.
func RecordSyncDuration(seconds float64) {
	globalManager.syncDuration.Observe(seconds)
}

// RecordRecalculation increments the recalculation counter.
func RecordRecalculation() {
	globalManager.recalculations.Inc()
}

// RecordRecalculationError increments the failed recalculation counter.
func RecordRecalculationError() {
	globalManager.recalculationErrors.Inc()
}

// RecordRecalculationTime records recalculation duration in milliseconds.
func RecordRecalculationTime(latencyMs float64) {
	globalManager.recalculationTime.Observe(latencyMs)
}

// RecordBadgeAwarded increments the awarded counter for a badge key.
func RecordBadgeAwarded(badgeKey string) {
	globalManager.badgesAwarded.WithLabelValues(badgeKey).Inc()
}

// RecordSweepRun increments the badge sweep counter.
func RecordSweepRun() {
	globalManager.sweepRuns.Inc()
}

// RecordLeaderboardUpdate increments the leaderboard updates counter.
func RecordLeaderboardUpdate() {
	globalManager.leaderboardUpdates.Inc()
}

// RecordLeaderboardError increments the leaderboard error counter.
func RecordLeaderboardError() {
	globalManager.leaderboardErrors.Inc()
}

// RecordGitHubRequest records a GitHub API request outcome.
func RecordGitHubRequest(status string) {
	globalManager.githubRequests.WithLabelValues(status).Inc()
}

// RecordGitHubRateLimitHit increments the rate limit rejection counter.
func RecordGitHubRateLimitHit() {
	globalManager.githubRateLimitHits.Inc()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
