package github

import (
	"github.com/careerforge/careerforge-backend/internal/domain/profile"
)

// ══════════════════════════════════════════════════════════════════════════════
// MAPPER - API DTOs to domain stats
// ══════════════════════════════════════════════════════════════════════════════

// Mapper converts GitHub API responses to domain statistics.
type Mapper struct{}

// NewMapper creates a new Mapper.
func NewMapper() *Mapper {
	return &Mapper{}
}

// StatsFromRepos aggregates a user's repositories, commit count and pull
// request count into domain stats.
//
// Stars are summed over all repositories. The fork ratio is the fraction
// of repositories that are forks; a user with no repositories gets 0.
// Languages are the distinct dominant languages across repositories, in
// first-seen order with empty values skipped.
func (m *Mapper) StatsFromRepos(repos []RepoDTO, totalCommits, totalPullRequests int) profile.GitHubStats {
	stats := profile.GitHubStats{
		TotalCommits:      totalCommits,
		TotalPullRequests: totalPullRequests,
	}

	if len(repos) == 0 {
		return stats
	}

	seen := make(map[string]struct{})
	forks := 0

	for _, repo := range repos {
		stats.TotalStars += repo.StargazersCount
		if repo.Fork {
			forks++
		}
		if repo.Language == "" {
			continue
		}
		if _, ok := seen[repo.Language]; ok {
			continue
		}
		seen[repo.Language] = struct{}{}
		stats.Languages = append(stats.Languages, repo.Language)
	}

	stats.ForkRatio = float64(forks) / float64(len(repos))

	return stats
}
