package scoring

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careerforge/careerforge-backend/internal/domain/profile"
)

func TestATSCalculator(t *testing.T) {
	ctx := context.Background()

	t.Run("scored resume", func(t *testing.T) {
		calc := NewATSCalculator(&fakeResumeSource{records: map[string]*profile.ResumeRecord{
			"user-1": {UserID: "user-1", ATSScore: 85, Status: profile.ResumeStatusScored},
		}})

		value, err := calc.Calculate(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, 85.0, value)
	})

	t.Run("no resume is zero, not an error", func(t *testing.T) {
		calc := NewATSCalculator(&fakeResumeSource{records: map[string]*profile.ResumeRecord{}})

		value, err := calc.Calculate(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, 0.0, value)
	})

	t.Run("score above 100 is clamped", func(t *testing.T) {
		calc := NewATSCalculator(&fakeResumeSource{records: map[string]*profile.ResumeRecord{
			"user-1": {UserID: "user-1", ATSScore: 140},
		}})

		value, err := calc.Calculate(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, 100.0, value)
	})

	t.Run("negative score is clamped to zero", func(t *testing.T) {
		calc := NewATSCalculator(&fakeResumeSource{records: map[string]*profile.ResumeRecord{
			"user-1": {UserID: "user-1", ATSScore: -10},
		}})

		value, err := calc.Calculate(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, 0.0, value)
	})

	t.Run("source failure propagates", func(t *testing.T) {
		calc := NewATSCalculator(&fakeResumeSource{err: errStorage})

		_, err := calc.Calculate(ctx, "user-1")
		assert.ErrorIs(t, err, errStorage)
	})
}

func TestComputeGitHubComponent(t *testing.T) {
	tests := []struct {
		name  string
		stats profile.GitHubStats
		want  float64
	}{
		{
			name:  "empty stats",
			stats: profile.GitHubStats{},
			want:  0,
		},
		{
			name: "all factors at cap",
			stats: profile.GitHubStats{
				TotalCommits:      100,
				TotalPullRequests: 50,
				TotalStars:        500,
				Languages:         []string{"Go", "Rust", "Python", "C", "Zig"},
			},
			want: 100,
		},
		{
			name: "all factors above cap stay capped",
			stats: profile.GitHubStats{
				TotalCommits:      10000,
				TotalPullRequests: 900,
				TotalStars:        99999,
				Languages:         []string{"Go", "Rust", "Python", "C", "Zig", "Java", "Ruby"},
			},
			want: 100,
		},
		{
			name: "partial credit",
			stats: profile.GitHubStats{
				TotalCommits:      50, // 20
				TotalPullRequests: 25, // 15
				TotalStars:        250, // 10
				Languages:         []string{"Go", "Rust"}, // 4
			},
			want: 49,
		},
		{
			name: "fork penalty applies above half",
			stats: profile.GitHubStats{
				TotalCommits: 100, // 40
				ForkRatio:    0.6,
			},
			want: 30,
		},
		{
			name: "fork penalty not applied at exactly half",
			stats: profile.GitHubStats{
				TotalCommits: 100,
				ForkRatio:    0.5,
			},
			want: 40,
		},
		{
			name: "penalty floors at zero",
			stats: profile.GitHubStats{
				TotalCommits: 10, // 4
				ForkRatio:    0.9,
			},
			want: 0,
		},
		{
			name: "duplicate languages counted once",
			stats: profile.GitHubStats{
				Languages: []string{"Go", "Go", "Go", "Go", "Go"},
			},
			want: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeGitHubComponent(tt.stats))
		})
	}
}

func TestGitHubCalculator(t *testing.T) {
	ctx := context.Background()

	t.Run("no profile is zero, not an error", func(t *testing.T) {
		calc := NewGitHubCalculator(&fakeGitHubSource{records: map[string]*profile.GitHubRecord{}})

		value, err := calc.Calculate(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, 0.0, value)
	})

	t.Run("connected profile", func(t *testing.T) {
		calc := NewGitHubCalculator(&fakeGitHubSource{records: map[string]*profile.GitHubRecord{
			"user-1": {UserID: "user-1", Stats: profile.GitHubStats{TotalCommits: 100}},
		}})

		value, err := calc.Calculate(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, 40.0, value)
	})

	t.Run("source failure propagates", func(t *testing.T) {
		calc := NewGitHubCalculator(&fakeGitHubSource{err: errStorage})

		_, err := calc.Calculate(ctx, "user-1")
		assert.ErrorIs(t, err, errStorage)
	})
}

func TestNormalizedBadgeComponent(t *testing.T) {
	tests := []struct {
		count int
		want  float64
	}{
		{0, 0},
		{1, 10},
		{5, 50},
		{10, 100},
		{25, 100}, // capped at raw 20
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizedBadgeComponent(tt.count), "count=%d", tt.count)
	}
}

func TestBadgeCalculator(t *testing.T) {
	ctx := context.Background()

	calc := NewBadgeCalculator(&fakeAwardRepo{count: 3})
	value, err := calc.Calculate(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 30.0, value)

	calc = NewBadgeCalculator(&fakeAwardRepo{err: errStorage})
	_, err = calc.Calculate(ctx, "user-1")
	assert.ErrorIs(t, err, errStorage)
}
