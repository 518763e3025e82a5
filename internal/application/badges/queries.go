package badges

import (
	"context"
	"time"

	"github.com/careerforge/careerforge-backend/internal/domain/badge"
	"github.com/careerforge/careerforge-backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// BADGE QUERIES (read side)
// ══════════════════════════════════════════════════════════════════════════════

// UserBadge is an award joined with its catalog metadata.
type UserBadge struct {
	Key         badge.Key         `json:"key"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Points      int               `json:"points"`
	EarnedAt    time.Time         `json:"earned_at"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// Progress describes one catalog entry's state for a user.
type Progress struct {
	// Earned reports whether the badge has been awarded.
	Earned bool `json:"earned"`

	// Eligible reports whether the requirement is currently met.
	// Always true for earned badges: an award is never revoked.
	Eligible bool `json:"eligible"`

	// EarnedAt is the award time (zero when not earned).
	EarnedAt time.Time `json:"earned_at,omitempty"`
}

// Queries serves badge read operations.
type Queries struct {
	awards      badge.AwardRepository
	definitions badge.DefinitionRepository
	snapshots   *SnapshotLoader
}

// NewQueries creates a new Queries.
func NewQueries(
	awards badge.AwardRepository,
	definitions badge.DefinitionRepository,
	snapshots *SnapshotLoader,
) *Queries {
	return &Queries{
		awards:      awards,
		definitions: definitions,
		snapshots:   snapshots,
	}
}

// GetUserBadges returns the user's awards enriched with catalog metadata,
// newest first. Awards whose definition has disappeared from the catalog
// are kept with key-only metadata rather than dropped.
func (q *Queries) GetUserBadges(ctx context.Context, userID string) ([]UserBadge, error) {
	if userID == "" {
		return nil, shared.WrapError("badges", "GetUserBadges", shared.ErrValidation, "user id is required", badge.ErrInvalidUserID)
	}

	awards, err := q.awards.GetByUserID(ctx, userID)
	if err != nil {
		return nil, shared.WrapError("badges", "GetUserBadges", shared.ErrServiceUnavailable, "award list failed", err)
	}

	result := make([]UserBadge, 0, len(awards))
	for _, a := range awards {
		ub := UserBadge{
			Key:      a.BadgeKey,
			EarnedAt: a.EarnedAt,
			Metadata: a.Metadata,
		}

		if def, err := q.definitions.GetByKey(ctx, a.BadgeKey); err == nil {
			ub.Name = def.Name
			ub.Description = def.Description
			ub.Points = def.Points
		}

		result = append(result, ub)
	}

	return result, nil
}

// GetBadgeProgress returns earned/eligible state for every catalog entry.
// Eligibility is evaluated against one batched snapshot; no awards are
// created by this read.
func (q *Queries) GetBadgeProgress(ctx context.Context, userID string) (map[badge.Key]Progress, error) {
	if userID == "" {
		return nil, shared.WrapError("badges", "GetBadgeProgress", shared.ErrValidation, "user id is required", badge.ErrInvalidUserID)
	}

	snap, err := q.snapshots.Load(ctx, userID)
	if err != nil {
		return nil, err
	}

	awards, err := q.awards.GetByUserID(ctx, userID)
	if err != nil {
		return nil, shared.WrapError("badges", "GetBadgeProgress", shared.ErrServiceUnavailable, "award list failed", err)
	}

	earnedAt := make(map[badge.Key]time.Time, len(awards))
	for _, a := range awards {
		earnedAt[a.BadgeKey] = a.EarnedAt
	}

	definitions, err := q.definitions.GetAll(ctx)
	if err != nil {
		return nil, shared.WrapError("badges", "GetBadgeProgress", shared.ErrServiceUnavailable, "catalog read failed", err)
	}

	progress := make(map[badge.Key]Progress, len(definitions))
	for _, def := range definitions {
		when, earned := earnedAt[def.Key]
		progress[def.Key] = Progress{
			Earned:   earned,
			Eligible: earned || Eligible(def, snap),
			EarnedAt: when,
		}
	}

	return progress, nil
}
