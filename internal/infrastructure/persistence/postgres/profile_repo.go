package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/careerforge/careerforge-backend/internal/domain/profile"
)

// ══════════════════════════════════════════════════════════════════════════════
// SOURCE REPOSITORIES
// Read models owned by external collaborators. The scoring core reads them;
// only the GitHub sync writes github_profiles.
// ══════════════════════════════════════════════════════════════════════════════

// ResumeRepository implements profile.ResumeSource for PostgreSQL.
type ResumeRepository struct {
	conn *Connection
}

// NewResumeRepository creates a new ResumeRepository.
func NewResumeRepository(conn *Connection) *ResumeRepository {
	return &ResumeRepository{conn: conn}
}

// LatestScored returns the most recently uploaded resume with status scored.
func (r *ResumeRepository) LatestScored(ctx context.Context, userID string) (*profile.ResumeRecord, error) {
	query := `
		SELECT id, user_id, ats_score, status, uploaded_at
		FROM resumes
		WHERE user_id = $1 AND status = 'scored'
		ORDER BY uploaded_at DESC
		LIMIT 1
	`

	var (
		rec    profile.ResumeRecord
		status string
	)
	err := r.conn.QueryRow(ctx, query, userID).Scan(
		&rec.ID, &rec.UserID, &rec.ATSScore, &status, &rec.UploadedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, profile.ErrResumeNotFound
		}
		return nil, fmt.Errorf("failed to get scored resume: %w", err)
	}

	rec.Status = profile.ResumeStatus(status)
	return &rec, nil
}

// ──────────────────────────────────────────────────────────────────────────────

// GitHubRepository implements profile.GitHubSource for PostgreSQL.
type GitHubRepository struct {
	conn *Connection
}

// NewGitHubRepository creates a new GitHubRepository.
func NewGitHubRepository(conn *Connection) *GitHubRepository {
	return &GitHubRepository{conn: conn}
}

const githubColumns = `
	id, user_id, username, total_commits, total_pull_requests, total_stars,
	languages, fork_ratio, sync_status, sync_error, last_synced_at
`

// GetByUserID returns the connected GitHub profile of a user.
func (r *GitHubRepository) GetByUserID(ctx context.Context, userID string) (*profile.GitHubRecord, error) {
	query := `SELECT ` + githubColumns + ` FROM github_profiles WHERE user_id = $1`

	rec, err := scanGitHubRecord(r.conn.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, profile.ErrGitHubNotFound
		}
		return nil, fmt.Errorf("failed to get github profile: %w", err)
	}

	return rec, nil
}

// ListConnected returns all connected GitHub profiles, least recently
// synced first so the scheduled sweep prioritises the stalest profiles.
func (r *GitHubRepository) ListConnected(ctx context.Context) ([]*profile.GitHubRecord, error) {
	query := `SELECT ` + githubColumns + ` FROM github_profiles ORDER BY last_synced_at NULLS FIRST`

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list github profiles: %w", err)
	}
	defer rows.Close()

	records := make([]*profile.GitHubRecord, 0)
	for rows.Next() {
		rec, err := scanGitHubRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan github profile: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// SaveStats persists a fresh stats snapshot and the sync time.
func (r *GitHubRepository) SaveStats(ctx context.Context, userID string, stats profile.GitHubStats, syncedAt time.Time) error {
	query := `
		UPDATE github_profiles
		SET total_commits = $2,
			total_pull_requests = $3,
			total_stars = $4,
			languages = $5,
			fork_ratio = $6,
			last_synced_at = $7
		WHERE user_id = $1
	`

	tag, err := r.conn.Exec(ctx, query,
		userID,
		stats.TotalCommits,
		stats.TotalPullRequests,
		stats.TotalStars,
		stats.Languages,
		stats.ForkRatio,
		syncedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save github stats: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return profile.ErrGitHubNotFound
	}

	return nil
}

// SetSyncStatus updates the sync status and error text of a profile.
func (r *GitHubRepository) SetSyncStatus(ctx context.Context, userID string, status profile.SyncStatus, syncError string) error {
	query := `
		UPDATE github_profiles
		SET sync_status = $2, sync_error = $3
		WHERE user_id = $1
	`

	tag, err := r.conn.Exec(ctx, query, userID, string(status), syncError)
	if err != nil {
		return fmt.Errorf("failed to set sync status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return profile.ErrGitHubNotFound
	}

	return nil
}

// scanGitHubRecord scans a github_profiles row.
func scanGitHubRecord(row pgx.Row) (*profile.GitHubRecord, error) {
	var (
		rec        profile.GitHubRecord
		syncStatus string
		syncedAt   *time.Time
	)

	err := row.Scan(
		&rec.ID,
		&rec.UserID,
		&rec.Username,
		&rec.Stats.TotalCommits,
		&rec.Stats.TotalPullRequests,
		&rec.Stats.TotalStars,
		&rec.Stats.Languages,
		&rec.Stats.ForkRatio,
		&syncStatus,
		&rec.SyncError,
		&syncedAt,
	)
	if err != nil {
		return nil, err
	}

	rec.SyncStatus = profile.SyncStatus(syncStatus)
	if syncedAt != nil {
		rec.LastSyncedAt = *syncedAt
	}

	return &rec, nil
}

// ──────────────────────────────────────────────────────────────────────────────

// ConnectionRepository implements profile.ConnectionSource for PostgreSQL.
type ConnectionRepository struct {
	conn *Connection
}

// NewConnectionRepository creates a new ConnectionRepository.
func NewConnectionRepository(conn *Connection) *ConnectionRepository {
	return &ConnectionRepository{conn: conn}
}

// CountAccepted counts accepted connections where the user is requester
// or recipient. The connection service may store a pair in either (or both)
// directions, so rows are collapsed to unordered pairs before counting.
func (r *ConnectionRepository) CountAccepted(ctx context.Context, userID string) (int, error) {
	query := `
		SELECT requester_id, recipient_id
		FROM connections
		WHERE status = 'accepted' AND (requester_id = $1 OR recipient_id = $1)
	`

	rows, err := r.conn.Query(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count connections: %w", err)
	}
	defer rows.Close()

	var pairs [][2]string
	for rows.Next() {
		var requester, recipient string
		if err := rows.Scan(&requester, &recipient); err != nil {
			return 0, fmt.Errorf("failed to scan connection: %w", err)
		}
		pairs = append(pairs, [2]string{requester, recipient})
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("failed to count connections: %w", err)
	}

	return countDistinctPairs(pairs), nil
}

// countDistinctPairs counts unordered (requester, recipient) pairs, so a
// connection stored as both (A,B) and (B,A) is counted once.
func countDistinctPairs(pairs [][2]string) int {
	seen := make(map[[2]string]struct{}, len(pairs))
	for _, p := range pairs {
		if p[0] > p[1] {
			p[0], p[1] = p[1], p[0]
		}
		seen[p] = struct{}{}
	}
	return len(seen)
}

// ──────────────────────────────────────────────────────────────────────────────

// SkillGapRepository implements profile.SkillGapSource for PostgreSQL.
type SkillGapRepository struct {
	conn *Connection
}

// NewSkillGapRepository creates a new SkillGapRepository.
func NewSkillGapRepository(conn *Connection) *SkillGapRepository {
	return &SkillGapRepository{conn: conn}
}

// Exists reports whether any skill gap analysis exists for the user.
func (r *SkillGapRepository) Exists(ctx context.Context, userID string) (bool, error) {
	var exists bool
	err := r.conn.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM skill_gap_analyses WHERE user_id = $1)`,
		userID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check skill gap analyses: %w", err)
	}

	return exists, nil
}
