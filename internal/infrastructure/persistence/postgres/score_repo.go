package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/careerforge/careerforge-backend/internal/domain/score"
)

// ══════════════════════════════════════════════════════════════════════════════
// SCORE REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// ScoreRepository implements score.Repository for PostgreSQL.
type ScoreRepository struct {
	conn *Connection
}

// NewScoreRepository creates a new ScoreRepository.
func NewScoreRepository(conn *Connection) *ScoreRepository {
	return &ScoreRepository{conn: conn}
}

// Upsert creates the score record if absent, otherwise overwrites all
// fields. The write is a single atomic statement; concurrent upserts are
// last-writer-wins by design.
func (r *ScoreRepository) Upsert(ctx context.Context, rec *score.Record) error {
	query := `
		INSERT INTO user_scores (
			id, user_id, total_score, ats_component, github_component,
			badge_component, last_updated
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE SET
			total_score = EXCLUDED.total_score,
			ats_component = EXCLUDED.ats_component,
			github_component = EXCLUDED.github_component,
			badge_component = EXCLUDED.badge_component,
			last_updated = EXCLUDED.last_updated
	`

	_, err := r.conn.Exec(ctx, query,
		rec.ID,
		rec.UserID,
		rec.TotalScore,
		rec.ATSComponent,
		rec.GitHubComponent,
		rec.BadgeComponent,
		rec.LastUpdated,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert score record: %w", err)
	}

	return nil
}

// GetByUserID returns the score record for a user.
func (r *ScoreRepository) GetByUserID(ctx context.Context, userID string) (*score.Record, error) {
	query := `
		SELECT id, user_id, total_score, ats_component, github_component,
			   badge_component, last_updated
		FROM user_scores
		WHERE user_id = $1
	`

	rec := &score.Record{}
	err := r.conn.QueryRow(ctx, query, userID).Scan(
		&rec.ID,
		&rec.UserID,
		&rec.TotalScore,
		&rec.ATSComponent,
		&rec.GitHubComponent,
		&rec.BadgeComponent,
		&rec.LastUpdated,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, score.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get score record: %w", err)
	}

	return rec, nil
}
