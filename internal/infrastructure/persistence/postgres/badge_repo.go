package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/careerforge/careerforge-backend/internal/domain/badge"
)

// ══════════════════════════════════════════════════════════════════════════════
// BADGE AWARD REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// BadgeAwardRepository implements badge.AwardRepository for PostgreSQL.
type BadgeAwardRepository struct {
	conn *Connection
}

// NewBadgeAwardRepository creates a new BadgeAwardRepository.
func NewBadgeAwardRepository(conn *Connection) *BadgeAwardRepository {
	return &BadgeAwardRepository{conn: conn}
}

// Create inserts an award row. The UNIQUE(user_id, badge_key) constraint
// is the at-most-once guarantee: a violation maps to badge.ErrAlreadyAwarded
// so the losing writer of a concurrent race sees a benign no-op.
func (r *BadgeAwardRepository) Create(ctx context.Context, award *badge.Award) error {
	query := `
		INSERT INTO badge_awards (id, user_id, badge_key, earned_at, metadata)
		VALUES ($1, $2, $3, $4, $5)
	`

	metadataJSON, err := json.Marshal(award.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal award metadata: %w", err)
	}
	if award.Metadata == nil {
		metadataJSON = []byte("{}")
	}

	_, err = r.conn.Exec(ctx, query,
		award.ID,
		award.UserID,
		string(award.BadgeKey),
		award.EarnedAt,
		metadataJSON,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return badge.ErrAlreadyAwarded
		}
		return fmt.Errorf("failed to create badge award: %w", err)
	}

	return nil
}

// Exists checks whether the badge is already awarded to the user.
func (r *BadgeAwardRepository) Exists(ctx context.Context, userID string, key badge.Key) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM badge_awards WHERE user_id = $1 AND badge_key = $2
		)
	`

	var exists bool
	if err := r.conn.QueryRow(ctx, query, userID, string(key)).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check badge award: %w", err)
	}

	return exists, nil
}

// GetByUserID returns all awards of a user, newest first.
func (r *BadgeAwardRepository) GetByUserID(ctx context.Context, userID string) ([]*badge.Award, error) {
	query := `
		SELECT id, user_id, badge_key, earned_at, metadata
		FROM badge_awards
		WHERE user_id = $1
		ORDER BY earned_at DESC
	`

	rows, err := r.conn.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list badge awards: %w", err)
	}
	defer rows.Close()

	awards := make([]*badge.Award, 0)
	for rows.Next() {
		award, err := scanAward(rows)
		if err != nil {
			return nil, err
		}
		awards = append(awards, award)
	}

	return awards, rows.Err()
}

// CountByUserID returns the number of awards a user holds.
func (r *BadgeAwardRepository) CountByUserID(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.conn.QueryRow(ctx,
		`SELECT COUNT(*) FROM badge_awards WHERE user_id = $1`,
		userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count badge awards: %w", err)
	}

	return count, nil
}

// scanAward scans a badge award row.
func scanAward(row pgx.Row) (*badge.Award, error) {
	var (
		award        badge.Award
		badgeKey     string
		metadataJSON []byte
	)

	if err := row.Scan(&award.ID, &award.UserID, &badgeKey, &award.EarnedAt, &metadataJSON); err != nil {
		return nil, fmt.Errorf("failed to scan badge award: %w", err)
	}

	award.BadgeKey = badge.Key(badgeKey)
	if len(metadataJSON) > 0 {
		if err := json.Unmarshal(metadataJSON, &award.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal award metadata: %w", err)
		}
	}

	return &award, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// BADGE DEFINITION REPOSITORY IMPLEMENTATION
// Merges the frozen static catalog with admin-defined rows.
// ══════════════════════════════════════════════════════════════════════════════

// BadgeDefinitionRepository implements badge.DefinitionRepository.
// Static definitions live in-process; admin definitions live in
// badge_definitions. Static keys take precedence and cannot be shadowed.
type BadgeDefinitionRepository struct {
	conn *Connection
}

// NewBadgeDefinitionRepository creates a new BadgeDefinitionRepository.
func NewBadgeDefinitionRepository(conn *Connection) *BadgeDefinitionRepository {
	return &BadgeDefinitionRepository{conn: conn}
}

// GetByKey returns a definition by key, static catalog first.
func (r *BadgeDefinitionRepository) GetByKey(ctx context.Context, key badge.Key) (badge.Definition, error) {
	if def, err := badge.StaticDefinition(key); err == nil {
		return def, nil
	}

	query := `
		SELECT badge_key, name, description, requirement_kind,
			   requirement_threshold, points
		FROM badge_definitions
		WHERE badge_key = $1
	`

	def, err := scanDefinition(r.conn.QueryRow(ctx, query, string(key)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return badge.Definition{}, badge.ErrDefinitionNotFound
		}
		return badge.Definition{}, err
	}

	return def, nil
}

// GetAll returns the merged catalog: static definitions first, then
// admin-defined ones. Admin rows whose key collides with a static entry
// are skipped.
func (r *BadgeDefinitionRepository) GetAll(ctx context.Context) ([]badge.Definition, error) {
	definitions := badge.StaticCatalog()
	staticKeys := make(map[badge.Key]struct{}, len(definitions))
	for _, d := range definitions {
		staticKeys[d.Key] = struct{}{}
	}

	query := `
		SELECT badge_key, name, description, requirement_kind,
			   requirement_threshold, points
		FROM badge_definitions
		ORDER BY created_at
	`

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list badge definitions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		def, err := scanDefinition(rows)
		if err != nil {
			return nil, err
		}
		if _, collides := staticKeys[def.Key]; collides {
			continue
		}
		definitions = append(definitions, def)
	}

	return definitions, rows.Err()
}

// scanDefinition scans an admin-defined badge definition row.
func scanDefinition(row pgx.Row) (badge.Definition, error) {
	var (
		def       badge.Definition
		key, kind string
	)

	err := row.Scan(&key, &def.Name, &def.Description, &kind,
		&def.Requirement.Threshold, &def.Points)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return badge.Definition{}, err
		}
		return badge.Definition{}, fmt.Errorf("failed to scan badge definition: %w", err)
	}

	def.Key = badge.Key(key)
	def.Requirement.Kind = badge.RequirementKind(kind)
	def.Source = badge.SourceAdmin

	return def, nil
}
