package scoring

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careerforge/careerforge-backend/internal/domain/score"
	"github.com/careerforge/careerforge-backend/internal/domain/shared"
)

func newTestAggregator(repo score.Repository, ats, git, badges ComponentCalculator, cache BreakdownCache, lb LeaderboardUpdater) *Aggregator {
	return NewAggregator(repo, ats, git, badges, cache, lb, nil)
}

func TestAggregator_Recalculate(t *testing.T) {
	ctx := context.Background()

	repo := newFakeScoreRepo()
	lb := newFakeLeaderboard()
	agg := newTestAggregator(repo,
		fixedCalculator{value: 85},
		fixedCalculator{value: 62},
		fixedCalculator{value: 30},
		nil, lb,
	)

	record, err := agg.Recalculate(ctx, "user-1")
	require.NoError(t, err)

	assert.Equal(t, 62.3, record.TotalScore)
	assert.True(t, record.IsConsistent())

	stored, err := repo.GetByUserID(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, record.TotalScore, stored.TotalScore)

	assert.Equal(t, 62.3, lb.updates["user-1"])
}

func TestAggregator_Recalculate_EmptyUserID(t *testing.T) {
	agg := newTestAggregator(newFakeScoreRepo(),
		fixedCalculator{}, fixedCalculator{}, fixedCalculator{}, nil, nil)

	_, err := agg.Recalculate(context.Background(), "")
	assert.ErrorIs(t, err, score.ErrInvalidUserID)
}

func TestAggregator_Recalculate_ComponentFailure(t *testing.T) {
	repo := newFakeScoreRepo()
	agg := newTestAggregator(repo,
		fixedCalculator{value: 85},
		fixedCalculator{err: errStorage},
		fixedCalculator{value: 30},
		nil, nil,
	)

	_, err := agg.Recalculate(context.Background(), "user-1")
	require.ErrorIs(t, err, errStorage)
	assert.ErrorIs(t, err, shared.ErrExternalService)

	// Nothing was persisted.
	_, err = repo.GetByUserID(context.Background(), "user-1")
	assert.ErrorIs(t, err, score.ErrRecordNotFound)
}

func TestAggregator_Recalculate_UpsertFailure(t *testing.T) {
	repo := newFakeScoreRepo()
	repo.upsertErr = errStorage
	agg := newTestAggregator(repo,
		fixedCalculator{value: 85},
		fixedCalculator{value: 62},
		fixedCalculator{value: 30},
		nil, nil,
	)

	_, err := agg.Recalculate(context.Background(), "user-1")
	assert.ErrorIs(t, err, errStorage)
	assert.ErrorIs(t, err, shared.ErrServiceUnavailable)
}

func TestAggregator_Recalculate_LeaderboardFailureIsSwallowed(t *testing.T) {
	repo := newFakeScoreRepo()
	lb := newFakeLeaderboard()
	lb.err = errStorage
	agg := newTestAggregator(repo,
		fixedCalculator{value: 50},
		fixedCalculator{value: 50},
		fixedCalculator{value: 50},
		nil, lb,
	)

	record, err := agg.Recalculate(context.Background(), "user-1")
	require.NoError(t, err)
	assert.True(t, record.IsConsistent())
}

func TestAggregator_Recalculate_InvalidatesCache(t *testing.T) {
	ctx := context.Background()
	repo := newFakeScoreRepo()
	cache := newFakeBreakdownCache()
	cache.entries["user-1"] = &Breakdown{UserID: "user-1", Total: 11}

	agg := newTestAggregator(repo,
		fixedCalculator{value: 50},
		fixedCalculator{value: 50},
		fixedCalculator{value: 50},
		cache, nil,
	)

	_, err := agg.Recalculate(ctx, "user-1")
	require.NoError(t, err)
	assert.Contains(t, cache.invalidated, "user-1")
}

func TestAggregator_Recalculate_Idempotent(t *testing.T) {
	ctx := context.Background()
	repo := newFakeScoreRepo()
	agg := newTestAggregator(repo,
		fixedCalculator{value: 70},
		fixedCalculator{value: 40},
		fixedCalculator{value: 20},
		nil, nil,
	)

	first, err := agg.Recalculate(ctx, "user-1")
	require.NoError(t, err)
	second, err := agg.Recalculate(ctx, "user-1")
	require.NoError(t, err)

	assert.Equal(t, first.TotalScore, second.TotalScore)
	assert.Len(t, repo.records, 1)
}

func TestAggregator_GetScoreBreakdown(t *testing.T) {
	ctx := context.Background()
	repo := newFakeScoreRepo()
	agg := newTestAggregator(repo,
		fixedCalculator{value: 85},
		fixedCalculator{value: 62},
		fixedCalculator{value: 30},
		nil, nil,
	)

	_, err := agg.Recalculate(ctx, "user-1")
	require.NoError(t, err)

	breakdown, err := agg.GetScoreBreakdown(ctx, "user-1")
	require.NoError(t, err)

	assert.Equal(t, 62.3, breakdown.Total)
	assert.Equal(t, 85.0, breakdown.ATS.Value)
	assert.Equal(t, 0.5, breakdown.ATS.Weight)
	assert.Equal(t, 42.5, breakdown.ATS.Contribution)
	assert.Equal(t, 18.6, breakdown.GitHub.Contribution)
	// Badge contribution is weighted on the raw 0-20 scale.
	assert.Equal(t, 1.2, breakdown.Badges.Contribution)

	sum := breakdown.ATS.Contribution + breakdown.GitHub.Contribution + breakdown.Badges.Contribution
	assert.InDelta(t, breakdown.Total, sum, 0.011)
}

func TestAggregator_GetScoreBreakdown_EmptyUserID(t *testing.T) {
	agg := newTestAggregator(newFakeScoreRepo(),
		fixedCalculator{}, fixedCalculator{}, fixedCalculator{}, nil, nil)

	_, err := agg.GetScoreBreakdown(context.Background(), "")
	assert.ErrorIs(t, err, score.ErrInvalidUserID)
}

func TestAggregator_GetScoreBreakdown_MissingRecordIsZero(t *testing.T) {
	agg := newTestAggregator(newFakeScoreRepo(),
		fixedCalculator{}, fixedCalculator{}, fixedCalculator{}, nil, nil)

	breakdown, err := agg.GetScoreBreakdown(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Equal(t, 0.0, breakdown.Total)
	assert.Equal(t, 0.0, breakdown.ATS.Value)
	assert.True(t, breakdown.LastUpdated.IsZero())
}

func TestAggregator_GetScoreBreakdown_NotFoundKindedRepoErrorIsZero(t *testing.T) {
	// A repository may signal absence with a kinded error instead of the
	// package sentinel; the breakdown read treats both as an empty record.
	repo := newFakeScoreRepo()
	repo.getErr = shared.WrapError("score", "GetByUserID", shared.ErrNotFound, "score row missing", nil)
	agg := newTestAggregator(repo,
		fixedCalculator{}, fixedCalculator{}, fixedCalculator{}, nil, nil)

	breakdown, err := agg.GetScoreBreakdown(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 0.0, breakdown.Total)
}

func TestAggregator_GetScoreBreakdown_ServedFromCache(t *testing.T) {
	ctx := context.Background()
	repo := newFakeScoreRepo()
	repo.getErr = errStorage // the repo must not be touched on a hit
	cache := newFakeBreakdownCache()
	cache.entries["user-1"] = &Breakdown{UserID: "user-1", Total: 55}

	agg := newTestAggregator(repo,
		fixedCalculator{}, fixedCalculator{}, fixedCalculator{}, cache, nil)

	breakdown, err := agg.GetScoreBreakdown(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 55.0, breakdown.Total)
}

func TestAggregator_GetScoreBreakdown_PopulatesCacheOnMiss(t *testing.T) {
	ctx := context.Background()
	repo := newFakeScoreRepo()
	cache := newFakeBreakdownCache()
	agg := newTestAggregator(repo,
		fixedCalculator{value: 40},
		fixedCalculator{value: 40},
		fixedCalculator{value: 40},
		cache, nil)

	_, err := agg.Recalculate(ctx, "user-1")
	require.NoError(t, err)

	_, err = agg.GetScoreBreakdown(ctx, "user-1")
	require.NoError(t, err)

	cached, ok := cache.entries["user-1"]
	require.True(t, ok)
	assert.Equal(t, "user-1", cached.UserID)
}
