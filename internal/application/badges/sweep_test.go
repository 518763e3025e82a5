package badges

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careerforge/careerforge-backend/internal/domain/badge"
	"github.com/careerforge/careerforge-backend/internal/domain/profile"
)

func newSweep(repo *memAwardRepo, fixture *sourceFixture) *Sweep {
	defs := &staticDefinitionRepo{}
	loader := fixture.loader()
	awarder := NewAwarder(repo, defs, loader, nil)
	return NewSweep(awarder, defs, loader, nil)
}

func TestSweep_CheckAndAwardBadges(t *testing.T) {
	ctx := context.Background()
	repo := newMemAwardRepo()
	sweep := newSweep(repo, &sourceFixture{
		resume: &profile.ResumeRecord{UserID: "user-1", ATSScore: 85},
		github: &profile.GitHubRecord{
			UserID: "user-1",
			Stats:  profile.GitHubStats{TotalCommits: 120, TotalStars: 150},
		},
	})

	awarded, err := sweep.CheckAndAwardBadges(ctx, "user-1")
	require.NoError(t, err)

	assert.ElementsMatch(t, []badge.Key{
		badge.KeyATSAce,
		badge.KeyCommitCentury,
		badge.KeyStarCollector,
	}, awarded)
}

func TestSweep_HeldBadgesAreSkipped(t *testing.T) {
	ctx := context.Background()
	repo := newMemAwardRepo()
	fixture := &sourceFixture{
		resume: &profile.ResumeRecord{UserID: "user-1", ATSScore: 85},
	}
	sweep := newSweep(repo, fixture)

	first, err := sweep.CheckAndAwardBadges(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, []badge.Key{badge.KeyATSAce}, first)

	// The second pass finds nothing new.
	second, err := sweep.CheckAndAwardBadges(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, second)

	count, _ := repo.CountByUserID(ctx, "user-1")
	assert.Equal(t, 1, count)
}

func TestSweep_FullHouseAwardsNothing(t *testing.T) {
	ctx := context.Background()
	repo := newMemAwardRepo()
	fixture := &sourceFixture{
		resume: &profile.ResumeRecord{UserID: "user-1", ATSScore: 100},
		github: &profile.GitHubRecord{
			UserID: "user-1",
			Stats: profile.GitHubStats{
				TotalCommits:      500,
				TotalPullRequests: 100,
				TotalStars:        1000,
				Languages:         []string{"Go", "Rust", "Python", "C", "Zig"},
			},
		},
		connections: 50,
		hasSkillGap: true,
	}
	sweep := newSweep(repo, fixture)

	first, err := sweep.CheckAndAwardBadges(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, first, len(badge.StaticCatalog()))

	again, err := sweep.CheckAndAwardBadges(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestSweep_NoSourcesAwardsNothing(t *testing.T) {
	repo := newMemAwardRepo()
	sweep := newSweep(repo, &sourceFixture{})

	awarded, err := sweep.CheckAndAwardBadges(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Empty(t, awarded)
}

func TestSweep_EmptyUserID(t *testing.T) {
	sweep := newSweep(newMemAwardRepo(), &sourceFixture{})

	_, err := sweep.CheckAndAwardBadges(context.Background(), "")
	assert.ErrorIs(t, err, badge.ErrInvalidUserID)
}

func TestSweep_SnapshotFailurePropagates(t *testing.T) {
	sweep := newSweep(newMemAwardRepo(), &sourceFixture{githubErr: errStorage})

	_, err := sweep.CheckAndAwardBadges(context.Background(), "user-1")
	assert.ErrorIs(t, err, errStorage)
}
