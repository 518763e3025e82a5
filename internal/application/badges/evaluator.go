// Package badges contains the badge awarding core: the pure requirement
// evaluator, the idempotent awarder and the per-user sweep that runs every
// catalog entry against one batched source snapshot.
package badges

import (
	"context"
	"errors"
	"fmt"

	"github.com/careerforge/careerforge-backend/internal/domain/badge"
	"github.com/careerforge/careerforge-backend/internal/domain/profile"
)

// ══════════════════════════════════════════════════════════════════════════════
// SOURCE SNAPSHOT
// One batched read of everything the evaluators need, so a sweep issues
// four source queries instead of four per badge.
// ══════════════════════════════════════════════════════════════════════════════

// SourceSnapshot holds the source data badge requirements are evaluated
// against. Zero values represent absent sources.
type SourceSnapshot struct {
	// HasScoredResume reports whether a scored resume exists.
	HasScoredResume bool

	// ATSScore is the latest scored resume's score (valid only when
	// HasScoredResume is true).
	ATSScore int

	// HasGitHub reports whether a GitHub profile is connected.
	HasGitHub bool

	// GitHubStats is the synced stats snapshot (zero when not connected).
	GitHubStats profile.GitHubStats

	// AcceptedConnections is the deduplicated count of accepted
	// connections where the user is requester or recipient.
	AcceptedConnections int

	// HasSkillGapAnalysis reports whether any skill gap analysis exists.
	HasSkillGapAnalysis bool
}

// SnapshotLoader batches the four source reads behind the evaluators.
type SnapshotLoader struct {
	resumes     profile.ResumeSource
	githubs     profile.GitHubSource
	connections profile.ConnectionSource
	skillGaps   profile.SkillGapSource
}

// NewSnapshotLoader creates a new SnapshotLoader.
func NewSnapshotLoader(
	resumes profile.ResumeSource,
	githubs profile.GitHubSource,
	connections profile.ConnectionSource,
	skillGaps profile.SkillGapSource,
) *SnapshotLoader {
	return &SnapshotLoader{
		resumes:     resumes,
		githubs:     githubs,
		connections: connections,
		skillGaps:   skillGaps,
	}
}

// Load reads all four sources once. Missing resume or GitHub records are
// valid zero states; any other source failure propagates.
func (l *SnapshotLoader) Load(ctx context.Context, userID string) (SourceSnapshot, error) {
	var snap SourceSnapshot

	resume, err := l.resumes.LatestScored(ctx, userID)
	switch {
	case err == nil:
		snap.HasScoredResume = true
		snap.ATSScore = resume.ATSScore
	case errors.Is(err, profile.ErrResumeNotFound):
		// valid zero state
	default:
		return SourceSnapshot{}, fmt.Errorf("badges: resume read failed: %w", err)
	}

	github, err := l.githubs.GetByUserID(ctx, userID)
	switch {
	case err == nil:
		snap.HasGitHub = true
		snap.GitHubStats = github.Stats
	case errors.Is(err, profile.ErrGitHubNotFound):
		// valid zero state
	default:
		return SourceSnapshot{}, fmt.Errorf("badges: github read failed: %w", err)
	}

	snap.AcceptedConnections, err = l.connections.CountAccepted(ctx, userID)
	if err != nil {
		return SourceSnapshot{}, fmt.Errorf("badges: connection count failed: %w", err)
	}

	snap.HasSkillGapAnalysis, err = l.skillGaps.Exists(ctx, userID)
	if err != nil {
		return SourceSnapshot{}, fmt.Errorf("badges: skill gap read failed: %w", err)
	}

	return snap, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// EVALUATOR
// ══════════════════════════════════════════════════════════════════════════════

// Eligible reports whether the snapshot satisfies a definition's requirement.
// Pure function; unknown requirement kinds evaluate to false.
func Eligible(def badge.Definition, snap SourceSnapshot) bool {
	req := def.Requirement

	switch req.Kind {
	case badge.KindATSScore:
		return snap.HasScoredResume && snap.ATSScore >= req.Threshold
	case badge.KindCommits:
		return snap.HasGitHub && snap.GitHubStats.TotalCommits >= req.Threshold
	case badge.KindPullRequests:
		return snap.HasGitHub && snap.GitHubStats.TotalPullRequests >= req.Threshold
	case badge.KindStars:
		return snap.HasGitHub && snap.GitHubStats.TotalStars >= req.Threshold
	case badge.KindLanguages:
		return snap.HasGitHub && snap.GitHubStats.DistinctLanguages() >= req.Threshold
	case badge.KindConnections:
		return snap.AcceptedConnections >= req.Threshold
	case badge.KindSkillGap:
		return snap.HasSkillGapAnalysis
	default:
		return false
	}
}
