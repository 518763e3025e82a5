// Package jobs contains the scheduled jobs of the CareerForge scoring worker.
// The central one keeps GitHub contribution data fresh so scores and badges
// reflect what users actually did, not what they did a month ago.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/careerforge/careerforge-backend/internal/domain/badge"
	"github.com/careerforge/careerforge-backend/internal/domain/profile"
	"github.com/careerforge/careerforge-backend/internal/domain/score"
	"github.com/careerforge/careerforge-backend/internal/infrastructure/scheduler"
	"github.com/careerforge/careerforge-backend/pkg/metrics"
)

// ══════════════════════════════════════════════════════════════════════════════
// SYNC CONNECTED USERS JOB
// ══════════════════════════════════════════════════════════════════════════════

// StatsFetcher fetches contribution stats from GitHub.
type StatsFetcher interface {
	FetchStats(ctx context.Context, username string) (profile.GitHubStats, error)
}

// BadgeSweeper checks all badge definitions for a user and awards the
// eligible ones.
type BadgeSweeper interface {
	CheckAndAwardBadges(ctx context.Context, userID string) ([]badge.Key, error)
}

// ScoreRecalculator recomputes and persists a user's total score.
type ScoreRecalculator interface {
	Recalculate(ctx context.Context, userID string) (*score.Record, error)
}

// SyncOutcome is the per-user result of a sync attempt.
type SyncOutcome string

const (
	// OutcomeSuccess means stats were fetched and the score refreshed.
	OutcomeSuccess SyncOutcome = "success"

	// OutcomeSkipped means the profile was synced recently enough.
	OutcomeSkipped SyncOutcome = "skipped"

	// OutcomeFailed means the sync failed; the failure is recorded on the
	// profile and does not affect other users.
	OutcomeFailed SyncOutcome = "failed"
)

// SyncConnectedUsersJob synchronizes GitHub data for every connected user.
// After a successful fetch it runs the badge sweep and recalculates the
// user's score, so a single pass leaves the whole pipeline consistent.
type SyncConnectedUsersJob struct {
	githubs      profile.GitHubSource
	fetcher      StatsFetcher
	sweep        BadgeSweeper
	recalculator ScoreRecalculator
	clock        scheduler.Clock
	logger       *slog.Logger

	config SyncConfig

	lastSyncStats atomic.Value // *SyncStats
}

// SyncConfig contains configuration for the sync job.
type SyncConfig struct {
	// BatchSize is the number of users synced per batch.
	BatchSize int

	// BatchPause is the pause between batches, giving the GitHub API
	// room to breathe.
	BatchPause time.Duration

	// MinSyncInterval skips users whose profile was synced within this
	// window. Manual triggers honor it too.
	MinSyncInterval time.Duration

	// Timeout is the maximum duration for the entire sweep.
	Timeout time.Duration
}

// DefaultSyncConfig returns sensible defaults.
func DefaultSyncConfig() SyncConfig {
	return SyncConfig{
		BatchSize:       5,
		BatchPause:      2 * time.Second,
		MinSyncInterval: 6 * time.Hour,
		Timeout:         30 * time.Minute,
	}
}

// SyncStats contains statistics from a sync run.
type SyncStats struct {
	StartedAt    time.Time
	CompletedAt  time.Time
	Duration     time.Duration
	TotalUsers   int
	SyncedCount  int
	SkippedCount int
	FailedCount  int
	Errors       []SyncError
}

// SyncError represents a per-user failure during sync.
type SyncError struct {
	UserID     string
	Username   string
	Error      error
	OccurredAt time.Time
}

// NewSyncConnectedUsersJob creates a new sync job.
func NewSyncConnectedUsersJob(
	githubs profile.GitHubSource,
	fetcher StatsFetcher,
	sweep BadgeSweeper,
	recalculator ScoreRecalculator,
	clock scheduler.Clock,
	logger *slog.Logger,
	config SyncConfig,
) *SyncConnectedUsersJob {
	if logger == nil {
		logger = slog.Default()
	}
	if clock == nil {
		clock = scheduler.RealClock()
	}
	if config.BatchSize <= 0 {
		config.BatchSize = 5
	}

	return &SyncConnectedUsersJob{
		githubs:      githubs,
		fetcher:      fetcher,
		sweep:        sweep,
		recalculator: recalculator,
		clock:        clock,
		logger:       logger,
		config:       config,
	}
}

// Name returns the job name.
func (j *SyncConnectedUsersJob) Name() string {
	return "sync_connected_users"
}

// Description returns a human-readable description.
func (j *SyncConnectedUsersJob) Description() string {
	return "Synchronizes GitHub stats for all connected users and refreshes their scores"
}

// Run executes the sync sweep.
func (j *SyncConnectedUsersJob) Run(ctx context.Context) error {
	startedAt := j.clock.Now()
	stats := &SyncStats{
		StartedAt: startedAt,
		Errors:    make([]SyncError, 0),
	}

	metrics.RecordSyncRun()
	j.logger.Info("starting sync_connected_users job")

	if j.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.config.Timeout)
		defer cancel()
	}

	profiles, err := j.githubs.ListConnected(ctx)
	if err != nil {
		return fmt.Errorf("failed to list connected profiles: %w", err)
	}

	stats.TotalUsers = len(profiles)
	j.logger.Info("found connected profiles", "count", stats.TotalUsers)

	j.syncInBatches(ctx, profiles, stats)

	stats.CompletedAt = j.clock.Now()
	stats.Duration = stats.CompletedAt.Sub(startedAt)
	j.lastSyncStats.Store(stats)
	metrics.RecordSyncDuration(stats.Duration.Seconds())

	j.logger.Info("sync_connected_users job completed",
		"duration", stats.Duration.String(),
		"total", stats.TotalUsers,
		"synced", stats.SyncedCount,
		"skipped", stats.SkippedCount,
		"failed", stats.FailedCount,
	)

	return nil
}

// syncInBatches processes profiles in fixed-size batches with a pause
// between batches. Users within a batch run concurrently; one user's
// failure never touches another.
func (j *SyncConnectedUsersJob) syncInBatches(ctx context.Context, profiles []*profile.GitHubRecord, stats *SyncStats) {
	for start := 0; start < len(profiles); start += j.config.BatchSize {
		select {
		case <-ctx.Done():
			return
		default:
		}

		end := start + j.config.BatchSize
		if end > len(profiles) {
			end = len(profiles)
		}
		batch := profiles[start:end]

		var (
			wg sync.WaitGroup
			mu sync.Mutex
		)

		for _, rec := range batch {
			wg.Add(1)

			go func(rec *profile.GitHubRecord) {
				defer wg.Done()

				outcome, err := j.syncUser(ctx, rec)

				mu.Lock()
				defer mu.Unlock()

				switch outcome {
				case OutcomeSuccess:
					stats.SyncedCount++
				case OutcomeSkipped:
					stats.SkippedCount++
				case OutcomeFailed:
					stats.FailedCount++
					stats.Errors = append(stats.Errors, SyncError{
						UserID:     rec.UserID,
						Username:   rec.Username,
						Error:      err,
						OccurredAt: j.clock.Now(),
					})
				}
			}(rec)
		}

		wg.Wait()

		// Pause between batches, except after the last one.
		if end < len(profiles) && j.config.BatchPause > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(j.config.BatchPause):
			}
		}
	}
}

// syncUser synchronizes a single user's GitHub data and refreshes their
// badges and score.
func (j *SyncConnectedUsersJob) syncUser(ctx context.Context, rec *profile.GitHubRecord) (SyncOutcome, error) {
	if rec.SyncedRecentlyAt(j.config.MinSyncInterval, j.clock.Now()) {
		metrics.RecordSyncOutcome(string(OutcomeSkipped))
		return OutcomeSkipped, nil
	}

	if err := j.githubs.SetSyncStatus(ctx, rec.UserID, profile.SyncStatusSyncing, ""); err != nil {
		return j.fail(ctx, rec, fmt.Errorf("mark syncing: %w", err))
	}

	stats, err := j.fetcher.FetchStats(ctx, rec.Username)
	if err != nil {
		return j.fail(ctx, rec, fmt.Errorf("fetch stats: %w", err))
	}

	if err := j.githubs.SaveStats(ctx, rec.UserID, stats, j.clock.Now()); err != nil {
		return j.fail(ctx, rec, fmt.Errorf("save stats: %w", err))
	}

	if err := j.githubs.SetSyncStatus(ctx, rec.UserID, profile.SyncStatusCompleted, ""); err != nil {
		j.logger.Warn("failed to mark sync completed",
			"user_id", rec.UserID,
			"error", err,
		)
	}

	// Fresh stats may unlock badges and always shift the score.
	// Neither step undoes the saved stats on failure; the next sweep or
	// recalculation heals them.
	if awarded, err := j.sweep.CheckAndAwardBadges(ctx, rec.UserID); err != nil {
		j.logger.Warn("badge sweep failed after sync",
			"user_id", rec.UserID,
			"error", err,
		)
	} else if len(awarded) > 0 {
		j.logger.Info("badges awarded after sync",
			"user_id", rec.UserID,
			"count", len(awarded),
		)
	}

	if _, err := j.recalculator.Recalculate(ctx, rec.UserID); err != nil {
		j.logger.Warn("score recalculation failed after sync",
			"user_id", rec.UserID,
			"error", err,
		)
	}

	metrics.RecordSyncOutcome(string(OutcomeSuccess))
	return OutcomeSuccess, nil
}

// fail records a sync failure on the profile and returns the failed outcome.
func (j *SyncConnectedUsersJob) fail(ctx context.Context, rec *profile.GitHubRecord, err error) (SyncOutcome, error) {
	j.logger.Error("failed to sync user",
		"user_id", rec.UserID,
		"username", rec.Username,
		"error", err,
	)

	if statusErr := j.githubs.SetSyncStatus(ctx, rec.UserID, profile.SyncStatusFailed, err.Error()); statusErr != nil {
		j.logger.Warn("failed to record sync failure",
			"user_id", rec.UserID,
			"error", statusErr,
		)
	}

	metrics.RecordSyncOutcome(string(OutcomeFailed))
	return OutcomeFailed, err
}

// LastSyncStats returns statistics from the last sync run.
func (j *SyncConnectedUsersJob) LastSyncStats() *SyncStats {
	stats := j.lastSyncStats.Load()
	if stats == nil {
		return nil
	}
	return stats.(*SyncStats)
}

// ══════════════════════════════════════════════════════════════════════════════
// ON-DEMAND SYNC
// ══════════════════════════════════════════════════════════════════════════════

// TriggerUserSync synchronizes a single user on demand. The minimum sync
// interval still applies: a recently synced user gets OutcomeSkipped
// instead of another round of API calls.
func (j *SyncConnectedUsersJob) TriggerUserSync(ctx context.Context, userID string) (SyncOutcome, error) {
	rec, err := j.githubs.GetByUserID(ctx, userID)
	if err != nil {
		return OutcomeFailed, fmt.Errorf("github profile not found: %w", err)
	}

	return j.syncUser(ctx, rec)
}
