package scoring

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/careerforge/careerforge-backend/internal/domain/score"
	"github.com/careerforge/careerforge-backend/internal/domain/shared"
	"github.com/careerforge/careerforge-backend/pkg/metrics"
)

// ══════════════════════════════════════════════════════════════════════════════
// AGGREGATOR
// Fetches the three components concurrently, applies the frozen weighted
// formula and performs a single atomic upsert of the score record.
// This is the only writer of TotalScore in the whole system.
// ══════════════════════════════════════════════════════════════════════════════

// ComponentCalculator computes one 0-100 component for a user.
type ComponentCalculator interface {
	Calculate(ctx context.Context, userID string) (float64, error)
}

// BreakdownCache caches score breakdowns for display reads.
// All methods are best effort: a cache failure never fails the caller.
type BreakdownCache interface {
	// GetBreakdown returns a cached breakdown, or false if absent.
	GetBreakdown(ctx context.Context, userID string) (*Breakdown, bool)

	// SetBreakdown stores a breakdown with the cache's configured TTL.
	SetBreakdown(ctx context.Context, userID string, breakdown *Breakdown)

	// InvalidateBreakdown drops a cached breakdown after recalculation.
	InvalidateBreakdown(ctx context.Context, userID string)
}

// LeaderboardUpdater maintains a derived score leaderboard.
// Purely a display projection; failures are logged and swallowed.
type LeaderboardUpdater interface {
	UpdateScore(ctx context.Context, userID string, total float64) error
}

// Aggregator owns the authoritative score record.
type Aggregator struct {
	scoreRepo   score.Repository
	ats         ComponentCalculator
	github      ComponentCalculator
	badges      ComponentCalculator
	cache       BreakdownCache     // optional
	leaderboard LeaderboardUpdater // optional
	logger      *slog.Logger
}

// NewAggregator creates a new Aggregator.
// Cache and leaderboard are optional and may be nil.
func NewAggregator(
	scoreRepo score.Repository,
	ats ComponentCalculator,
	github ComponentCalculator,
	badges ComponentCalculator,
	cache BreakdownCache,
	leaderboard LeaderboardUpdater,
	logger *slog.Logger,
) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}

	return &Aggregator{
		scoreRepo:   scoreRepo,
		ats:         ats,
		github:      github,
		badges:      badges,
		cache:       cache,
		leaderboard: leaderboard,
		logger:      logger,
	}
}

// componentResult carries one calculator's outcome through the fan-in channel.
type componentResult struct {
	name  string
	value float64
	err   error
}

// Recalculate fetches all three components in parallel, applies the frozen
// formula and upserts the score record. Calculator and upsert failures
// propagate unmodified to the caller; this function does not retry.
// Repeated triggering is safe: upserts are last-writer-wins and converge
// once the sources stop changing.
func (a *Aggregator) Recalculate(ctx context.Context, userID string) (*score.Record, error) {
	if userID == "" {
		return nil, shared.WrapError("scoring", "Recalculate", shared.ErrValidation, "user id is required", score.ErrInvalidUserID)
	}

	started := time.Now()
	metrics.RecordRecalculation()

	results := make(chan componentResult, 3)
	calculators := []struct {
		name string
		calc ComponentCalculator
	}{
		{"ats", a.ats},
		{"github", a.github},
		{"badges", a.badges},
	}

	for _, c := range calculators {
		go func(name string, calc ComponentCalculator) {
			value, err := calc.Calculate(ctx, userID)
			results <- componentResult{name: name, value: value, err: err}
		}(c.name, c.calc)
	}

	var ats, github, badges float64
	for i := 0; i < len(calculators); i++ {
		r := <-results
		if r.err != nil {
			metrics.RecordRecalculationError()
			return nil, shared.WrapError("scoring", "Recalculate", shared.ErrExternalService, r.name+" component failed", r.err)
		}
		switch r.name {
		case "ats":
			ats = r.value
		case "github":
			github = r.value
		case "badges":
			badges = r.value
		}
	}

	record, err := score.NewRecord(score.NewRecordParams{
		ID:              uuid.NewString(),
		UserID:          userID,
		ATSComponent:    ats,
		GitHubComponent: github,
		BadgeComponent:  badges,
	})
	if err != nil {
		metrics.RecordRecalculationError()
		return nil, shared.WrapError("scoring", "Recalculate", shared.ErrValidation, "invalid components", err)
	}

	if err := a.scoreRepo.Upsert(ctx, record); err != nil {
		metrics.RecordRecalculationError()
		return nil, shared.WrapError("scoring", "Recalculate", shared.ErrServiceUnavailable, "score upsert failed", err)
	}

	// Derived projections are best effort and never fail the recalculation.
	if a.cache != nil {
		a.cache.InvalidateBreakdown(ctx, userID)
	}
	if a.leaderboard != nil {
		if err := a.leaderboard.UpdateScore(ctx, userID, record.TotalScore); err != nil {
			a.logger.Warn("failed to update score leaderboard",
				"user_id", userID,
				"error", err,
			)
		}
	}

	metrics.RecordRecalculationTime(float64(time.Since(started).Milliseconds()))

	a.logger.Debug("score recalculated",
		"user_id", userID,
		"total", record.TotalScore,
		"ats", record.ATSComponent,
		"github", record.GitHubComponent,
		"badges", record.BadgeComponent,
	)

	return record, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// SCORE BREAKDOWN
// ══════════════════════════════════════════════════════════════════════════════

// Component describes one weighted input of the total score.
type Component struct {
	// Value is the component on its 0-100 display scale.
	Value float64 `json:"value"`

	// Weight is the frozen formula weight.
	Weight float64 `json:"weight"`

	// Contribution is the component's weighted share of the total.
	Contribution float64 `json:"contribution"`
}

// Breakdown is the per-component view of a user's score.
type Breakdown struct {
	UserID      string    `json:"user_id"`
	Total       float64   `json:"total"`
	ATS         Component `json:"ats"`
	GitHub      Component `json:"github"`
	Badges      Component `json:"badges"`
	LastUpdated time.Time `json:"last_updated"`
}

// GetScoreBreakdown returns the per-component breakdown of a user's
// persisted score. A user without a score record gets an all-zero breakdown
// rather than an error. Served from cache when available.
func (a *Aggregator) GetScoreBreakdown(ctx context.Context, userID string) (*Breakdown, error) {
	if userID == "" {
		return nil, shared.WrapError("scoring", "GetScoreBreakdown", shared.ErrValidation, "user id is required", score.ErrInvalidUserID)
	}

	if a.cache != nil {
		if cached, ok := a.cache.GetBreakdown(ctx, userID); ok {
			return cached, nil
		}
	}

	record, err := a.scoreRepo.GetByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, score.ErrRecordNotFound) && !shared.IsNotFound(err) {
			return nil, shared.WrapError("scoring", "GetScoreBreakdown", shared.ErrServiceUnavailable, "score read failed", err)
		}
		record = &score.Record{UserID: userID}
	}

	breakdown := &Breakdown{
		UserID: userID,
		Total:  record.TotalScore,
		ATS: Component{
			Value:        record.ATSComponent,
			Weight:       score.WeightATS,
			Contribution: score.Round2(score.WeightATS * record.ATSComponent),
		},
		GitHub: Component{
			Value:        record.GitHubComponent,
			Weight:       score.WeightGitHub,
			Contribution: score.Round2(score.WeightGitHub * record.GitHubComponent),
		},
		Badges: Component{
			Value:        record.BadgeComponent,
			Weight:       score.WeightBadges,
			Contribution: score.Round2(score.WeightBadges * record.BadgeRaw()),
		},
		LastUpdated: record.LastUpdated,
	}

	if a.cache != nil {
		a.cache.SetBreakdown(ctx, userID, breakdown)
	}

	return breakdown, nil
}
