package redis

import (
	"context"
	"errors"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"

	"github.com/careerforge/careerforge-backend/internal/application/scoring"
	"github.com/careerforge/careerforge-backend/pkg/metrics"
)

// ══════════════════════════════════════════════════════════════════════════════
// BREAKDOWN CACHE
// ══════════════════════════════════════════════════════════════════════════════

// BreakdownCache caches score breakdowns for profile display reads.
// It implements scoring.BreakdownCache: every operation is best effort,
// failures are logged and never surfaced to the caller. The authoritative
// record always lives in PostgreSQL.
type BreakdownCache struct {
	cache  *Cache
	logger *slog.Logger
}

// NewBreakdownCache creates a new BreakdownCache.
func NewBreakdownCache(cache *Cache, logger *slog.Logger) *BreakdownCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &BreakdownCache{cache: cache, logger: logger}
}

// GetBreakdown returns a cached breakdown, or false on miss or error.
func (b *BreakdownCache) GetBreakdown(ctx context.Context, userID string) (*scoring.Breakdown, bool) {
	var breakdown scoring.Breakdown
	err := b.cache.Get(ctx, BreakdownKey(userID), &breakdown)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			b.logger.Warn("breakdown cache read failed", "user_id", userID, "error", err)
		}
		return nil, false
	}

	return &breakdown, true
}

// SetBreakdown stores a breakdown with the default TTL.
func (b *BreakdownCache) SetBreakdown(ctx context.Context, userID string, breakdown *scoring.Breakdown) {
	if breakdown == nil {
		return
	}

	if err := b.cache.Set(ctx, BreakdownKey(userID), breakdown, TTLBreakdown); err != nil {
		b.logger.Warn("breakdown cache write failed", "user_id", userID, "error", err)
	}
}

// InvalidateBreakdown drops a cached breakdown after recalculation.
func (b *BreakdownCache) InvalidateBreakdown(ctx context.Context, userID string) {
	if err := b.cache.Delete(ctx, BreakdownKey(userID)); err != nil {
		b.logger.Warn("breakdown cache invalidation failed", "user_id", userID, "error", err)
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// SCORE LEADERBOARD
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrUserNotRanked is returned when a user has no leaderboard entry.
	ErrUserNotRanked = errors.New("leaderboard: user not ranked")

	// ErrInvalidCount is returned when a non-positive count is requested.
	ErrInvalidCount = errors.New("leaderboard: count must be positive")
)

// RankedUser is a single leaderboard entry.
type RankedUser struct {
	// UserID is the ranked user.
	UserID string `json:"user_id"`

	// TotalScore is the user's total score (0-100).
	TotalScore float64 `json:"total_score"`

	// Rank is the position in the leaderboard (1-based).
	Rank int64 `json:"rank"`
}

// ScoreLeaderboard maintains score rankings in a Redis sorted set keyed
// by total score. It implements scoring.LeaderboardUpdater. The set is a
// derived projection of user_scores and can be rebuilt from PostgreSQL
// at any time.
//
// Rank lookups are O(log N), top-N reads are O(log N + M).
type ScoreLeaderboard struct {
	cache *Cache
}

// NewScoreLeaderboard creates a new ScoreLeaderboard.
func NewScoreLeaderboard(cache *Cache) *ScoreLeaderboard {
	return &ScoreLeaderboard{cache: cache}
}

// UpdateScore upserts a user's score into the leaderboard.
func (l *ScoreLeaderboard) UpdateScore(ctx context.Context, userID string, total float64) error {
	if userID == "" {
		return ErrCacheKeyEmpty
	}

	err := l.cache.Client().ZAdd(ctx, LeaderboardKey(), goredis.Z{
		Score:  total,
		Member: userID,
	}).Err()
	if err != nil {
		metrics.RecordLeaderboardError()
		return err
	}

	metrics.RecordLeaderboardUpdate()
	return nil
}

// Remove removes a user from the leaderboard.
func (l *ScoreLeaderboard) Remove(ctx context.Context, userID string) error {
	if userID == "" {
		return ErrCacheKeyEmpty
	}

	return l.cache.Client().ZRem(ctx, LeaderboardKey(), userID).Err()
}

// GetTop returns the top N users by total score, highest first.
func (l *ScoreLeaderboard) GetTop(ctx context.Context, count int) ([]RankedUser, error) {
	if count <= 0 {
		return nil, ErrInvalidCount
	}

	entries, err := l.cache.Client().ZRevRangeWithScores(ctx, LeaderboardKey(), 0, int64(count-1)).Result()
	if err != nil {
		return nil, err
	}

	ranked := make([]RankedUser, 0, len(entries))
	for i, entry := range entries {
		userID, ok := entry.Member.(string)
		if !ok {
			continue
		}
		ranked = append(ranked, RankedUser{
			UserID:     userID,
			TotalScore: entry.Score,
			Rank:       int64(i + 1),
		})
	}

	return ranked, nil
}

// GetRank returns a user's leaderboard entry.
// Returns ErrUserNotRanked if the user has no score in the set.
func (l *ScoreLeaderboard) GetRank(ctx context.Context, userID string) (*RankedUser, error) {
	if userID == "" {
		return nil, ErrCacheKeyEmpty
	}

	key := LeaderboardKey()

	// ZRevRank is 0-based with 0 the highest score.
	rank, err := l.cache.Client().ZRevRank(ctx, key, userID).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, ErrUserNotRanked
		}
		return nil, err
	}

	total, err := l.cache.Client().ZScore(ctx, key, userID).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, ErrUserNotRanked
		}
		return nil, err
	}

	return &RankedUser{
		UserID:     userID,
		TotalScore: total,
		Rank:       rank + 1,
	}, nil
}

// Count returns the number of ranked users.
func (l *ScoreLeaderboard) Count(ctx context.Context) (int64, error) {
	return l.cache.Client().ZCard(ctx, LeaderboardKey()).Result()
}
