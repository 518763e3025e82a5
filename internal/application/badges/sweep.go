package badges

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/careerforge/careerforge-backend/internal/domain/badge"
	"github.com/careerforge/careerforge-backend/internal/domain/shared"
	"github.com/careerforge/careerforge-backend/pkg/metrics"
)

// ══════════════════════════════════════════════════════════════════════════════
// BADGE SWEEP
// One evaluation pass over every catalog entry for a single user, against
// a single batched source snapshot.
// ══════════════════════════════════════════════════════════════════════════════

// Sweep runs the evaluator/awarder pair for the whole catalog.
type Sweep struct {
	awarder     *Awarder
	definitions badge.DefinitionRepository
	snapshots   *SnapshotLoader
	logger      *slog.Logger
}

// NewSweep creates a new Sweep.
func NewSweep(
	awarder *Awarder,
	definitions badge.DefinitionRepository,
	snapshots *SnapshotLoader,
	logger *slog.Logger,
) *Sweep {
	if logger == nil {
		logger = slog.Default()
	}

	return &Sweep{
		awarder:     awarder,
		definitions: definitions,
		snapshots:   snapshots,
		logger:      logger,
	}
}

// CheckAndAwardBadges evaluates every catalog entry for the user and returns
// the keys newly awarded in this call. Already-held and ineligible badges
// are silent no-ops. The sweep deliberately does not trigger a score
// recalculation: callers decide whether the heavier aggregation follows.
func (s *Sweep) CheckAndAwardBadges(ctx context.Context, userID string) ([]badge.Key, error) {
	if userID == "" {
		return nil, shared.WrapError("badges", "CheckAndAwardBadges", shared.ErrValidation, "user id is required", badge.ErrInvalidUserID)
	}

	metrics.RecordSweepRun()

	snap, err := s.snapshots.Load(ctx, userID)
	if err != nil {
		return nil, err
	}

	held, err := s.heldKeys(ctx, userID)
	if err != nil {
		return nil, err
	}

	definitions, err := s.definitions.GetAll(ctx)
	if err != nil {
		return nil, shared.WrapError("badges", "CheckAndAwardBadges", shared.ErrServiceUnavailable, "catalog read failed", err)
	}

	awarded := make([]badge.Key, 0)
	for _, def := range definitions {
		if _, ok := held[def.Key]; ok {
			continue
		}

		award, err := s.awarder.awardEligible(ctx, userID, def, snap, map[string]string{
			"trigger": "sweep",
		})
		if err != nil {
			return awarded, err
		}
		if award != nil {
			awarded = append(awarded, def.Key)
		}
	}

	if len(awarded) > 0 {
		s.logger.Info("badge sweep awarded new badges",
			"user_id", userID,
			"count", len(awarded),
		)
	}

	return awarded, nil
}

// heldKeys returns the set of badge keys the user already holds.
func (s *Sweep) heldKeys(ctx context.Context, userID string) (map[badge.Key]struct{}, error) {
	awards, err := s.awarder.awards.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("badges: award list failed: %w", err)
	}

	held := make(map[badge.Key]struct{}, len(awards))
	for _, a := range awards {
		held[a.BadgeKey] = struct{}{}
	}
	return held, nil
}
