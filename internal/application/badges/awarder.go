package badges

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/careerforge/careerforge-backend/internal/domain/badge"
	"github.com/careerforge/careerforge-backend/internal/domain/shared"
	"github.com/careerforge/careerforge-backend/pkg/metrics"
)

// ══════════════════════════════════════════════════════════════════════════════
// AWARDER
// Idempotent issuance: check, evaluate, create-or-no-op. The check-then-create
// sequence is not atomic; at-most-once is guaranteed by the storage layer's
// uniqueness constraint, whose violation is treated as "already awarded".
// ══════════════════════════════════════════════════════════════════════════════

// Awarder issues badges at most once per (user, badge key).
type Awarder struct {
	awards      badge.AwardRepository
	definitions badge.DefinitionRepository
	snapshots   *SnapshotLoader
	logger      *slog.Logger
}

// NewAwarder creates a new Awarder.
func NewAwarder(
	awards badge.AwardRepository,
	definitions badge.DefinitionRepository,
	snapshots *SnapshotLoader,
	logger *slog.Logger,
) *Awarder {
	if logger == nil {
		logger = slog.Default()
	}

	return &Awarder{
		awards:      awards,
		definitions: definitions,
		snapshots:   snapshots,
		logger:      logger,
	}
}

// AwardBadge attempts to issue one badge to a user.
//
// Returns (nil, nil) when the badge is already awarded or the requirement
// is unmet; neither is an error. An unknown badge key returns
// badge.ErrDefinitionNotFound. Storage failures propagate.
func (a *Awarder) AwardBadge(ctx context.Context, userID string, key badge.Key, metadata map[string]string) (*badge.Award, error) {
	if userID == "" {
		return nil, shared.WrapError("badges", "AwardBadge", shared.ErrValidation, "user id is required", badge.ErrInvalidUserID)
	}

	def, err := a.definitions.GetByKey(ctx, key)
	if err != nil {
		if errors.Is(err, badge.ErrDefinitionNotFound) {
			return nil, shared.WrapError("badges", "AwardBadge", shared.ErrNotFound, "unknown badge key "+key.String(), err)
		}
		return nil, shared.WrapError("badges", "AwardBadge", shared.ErrServiceUnavailable, "definition read failed", err)
	}

	exists, err := a.awards.Exists(ctx, userID, key)
	if err != nil {
		return nil, shared.WrapError("badges", "AwardBadge", shared.ErrServiceUnavailable, "existence check failed", err)
	}
	if exists {
		return nil, nil
	}

	snap, err := a.snapshots.Load(ctx, userID)
	if err != nil {
		return nil, err
	}

	return a.awardEligible(ctx, userID, def, snap, metadata)
}

// awardEligible evaluates one definition against an already-loaded snapshot
// and creates the award if eligible. Shared between AwardBadge and the sweep
// so a sweep does not reload the snapshot per catalog entry.
func (a *Awarder) awardEligible(
	ctx context.Context,
	userID string,
	def badge.Definition,
	snap SourceSnapshot,
	metadata map[string]string,
) (*badge.Award, error) {
	if !Eligible(def, snap) {
		return nil, nil
	}

	award, err := badge.NewAward(badge.NewAwardParams{
		ID:       uuid.NewString(),
		UserID:   userID,
		BadgeKey: def.Key,
		Metadata: metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("badges: invalid award: %w", err)
	}

	if err := a.awards.Create(ctx, award); err != nil {
		// A concurrent writer won the race; the badge exists, which is
		// exactly the outcome this call wanted.
		if errors.Is(err, badge.ErrAlreadyAwarded) || shared.IsAlreadyExists(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("badges: award create failed: %w", err)
	}

	metrics.RecordBadgeAwarded(def.Key.String())
	a.logger.Info("badge awarded",
		"user_id", userID,
		"badge", def.Key.String(),
		"points", def.Points,
	)

	return award, nil
}
