// Package scoring contains the score aggregation core: the three component
// calculators and the aggregator that owns the authoritative score record.
// Calculators are pure reads over source snapshots; a missing source record
// is a valid zero contribution, never an error.
package scoring

import (
	"context"
	"errors"
	"math"

	"github.com/careerforge/careerforge-backend/internal/domain/badge"
	"github.com/careerforge/careerforge-backend/internal/domain/profile"
	"github.com/careerforge/careerforge-backend/internal/domain/score"
)

// ══════════════════════════════════════════════════════════════════════════════
// GITHUB SUB-SCORE FACTORS
// Each factor is linear up to its cap, contributing at most weight*100 points.
// ══════════════════════════════════════════════════════════════════════════════

const (
	commitsWeight = 0.4
	commitsCap    = 100.0

	pullRequestsWeight = 0.3
	pullRequestsCap    = 50.0

	starsWeight = 0.2
	starsCap    = 500.0

	languagesWeight = 0.1
	languagesCap    = 5.0

	// forkPenalty is subtracted once when more than half of the
	// repositories are forks.
	forkPenalty        = 10.0
	forkRatioThreshold = 0.5
)

// ══════════════════════════════════════════════════════════════════════════════
// ATS COMPONENT CALCULATOR
// ══════════════════════════════════════════════════════════════════════════════

// ATSCalculator computes the resume component from the most recent
// scored resume.
type ATSCalculator struct {
	resumes profile.ResumeSource
}

// NewATSCalculator creates a new ATSCalculator.
func NewATSCalculator(resumes profile.ResumeSource) *ATSCalculator {
	return &ATSCalculator{resumes: resumes}
}

// Calculate returns the ATS component, clamped to [0, 100].
// A user without a scored resume contributes 0.
func (c *ATSCalculator) Calculate(ctx context.Context, userID string) (float64, error) {
	resume, err := c.resumes.LatestScored(ctx, userID)
	if err != nil {
		if errors.Is(err, profile.ErrResumeNotFound) {
			return 0, nil
		}
		return 0, err
	}

	return score.ClampComponent(float64(resume.ATSScore)), nil
}

// ══════════════════════════════════════════════════════════════════════════════
// GITHUB COMPONENT CALCULATOR
// ══════════════════════════════════════════════════════════════════════════════

// GitHubCalculator computes the GitHub activity component from the
// user's synced GitHub stats.
type GitHubCalculator struct {
	githubs profile.GitHubSource
}

// NewGitHubCalculator creates a new GitHubCalculator.
func NewGitHubCalculator(githubs profile.GitHubSource) *GitHubCalculator {
	return &GitHubCalculator{githubs: githubs}
}

// Calculate returns the GitHub component in [0, 100].
// A user without a connected profile contributes 0.
func (c *GitHubCalculator) Calculate(ctx context.Context, userID string) (float64, error) {
	record, err := c.githubs.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, profile.ErrGitHubNotFound) {
			return 0, nil
		}
		return 0, err
	}

	return ComputeGitHubComponent(record.Stats), nil
}

// ComputeGitHubComponent computes the component value for a stats snapshot.
// Exposed separately so badge progress and tests can evaluate snapshots
// without a repository round-trip.
func ComputeGitHubComponent(stats profile.GitHubStats) float64 {
	total := subScore(float64(stats.TotalCommits), commitsCap, commitsWeight) +
		subScore(float64(stats.TotalPullRequests), pullRequestsCap, pullRequestsWeight) +
		subScore(float64(stats.TotalStars), starsCap, starsWeight) +
		subScore(float64(stats.DistinctLanguages()), languagesCap, languagesWeight)

	if stats.ForkRatio > forkRatioThreshold {
		total -= forkPenalty
	}

	if total < 0 {
		total = 0
	}
	return math.Round(total)
}

// subScore is linear in value up to the cap, then flat at weight*100.
func subScore(value, capValue, weight float64) float64 {
	maxPoints := weight * 100
	scored := value / capValue * maxPoints
	if scored > maxPoints {
		return maxPoints
	}
	return scored
}

// ══════════════════════════════════════════════════════════════════════════════
// BADGE COMPONENT CALCULATOR
// ══════════════════════════════════════════════════════════════════════════════

// BadgeCalculator computes the badge component from the user's award count.
type BadgeCalculator struct {
	awards badge.AwardRepository
}

// NewBadgeCalculator creates a new BadgeCalculator.
func NewBadgeCalculator(awards badge.AwardRepository) *BadgeCalculator {
	return &BadgeCalculator{awards: awards}
}

// Calculate returns the badge component normalized to [0, 100].
// Raw points are min(20, count*2); the normalized value is raw/20*100 so
// all three components share a display scale. The aggregator converts back
// to the raw 0-20 scale before applying the formula.
func (c *BadgeCalculator) Calculate(ctx context.Context, userID string) (float64, error) {
	count, err := c.awards.CountByUserID(ctx, userID)
	if err != nil {
		return 0, err
	}

	return NormalizedBadgeComponent(count), nil
}

// NormalizedBadgeComponent converts an award count to the 0-100 display scale.
func NormalizedBadgeComponent(awardCount int) float64 {
	raw := math.Min(score.BadgeRawMax, float64(awardCount)*2)
	return raw / score.BadgeRawMax * 100
}
