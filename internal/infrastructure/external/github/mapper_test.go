package github

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapper_StatsFromRepos(t *testing.T) {
	mapper := NewMapper()

	t.Run("empty repos", func(t *testing.T) {
		stats := mapper.StatsFromRepos(nil, 42, 7)
		assert.Equal(t, 42, stats.TotalCommits)
		assert.Equal(t, 7, stats.TotalPullRequests)
		assert.Zero(t, stats.TotalStars)
		assert.Empty(t, stats.Languages)
		assert.Zero(t, stats.ForkRatio)
	})

	t.Run("stars summed over all repos including forks", func(t *testing.T) {
		stats := mapper.StatsFromRepos([]RepoDTO{
			{Name: "api", StargazersCount: 10},
			{Name: "fork", StargazersCount: 5, Fork: true},
			{Name: "cli", StargazersCount: 3},
		}, 0, 0)
		assert.Equal(t, 18, stats.TotalStars)
	})

	t.Run("fork ratio", func(t *testing.T) {
		stats := mapper.StatsFromRepos([]RepoDTO{
			{Name: "a", Fork: true},
			{Name: "b", Fork: true},
			{Name: "c", Fork: true},
			{Name: "d"},
		}, 0, 0)
		assert.Equal(t, 0.75, stats.ForkRatio)
	})

	t.Run("languages deduplicated in first-seen order", func(t *testing.T) {
		stats := mapper.StatsFromRepos([]RepoDTO{
			{Name: "a", Language: "Go"},
			{Name: "b", Language: "Rust"},
			{Name: "c", Language: "Go"},
			{Name: "d", Language: ""},
			{Name: "e", Language: "Python"},
		}, 0, 0)
		assert.Equal(t, []string{"Go", "Rust", "Python"}, stats.Languages)
	})
}
