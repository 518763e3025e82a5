// Package postgres implements PostgreSQL persistence layer for CareerForge.
package postgres

import (
	"context"
	"fmt"
)

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: USER SCORES
// ══════════════════════════════════════════════════════════════════════════════

const migration001Up = `
-- Migration: Create user_scores table
-- Version: 001

-- One authoritative score record per user. Written only by the aggregator.
CREATE TABLE IF NOT EXISTS user_scores (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    user_id UUID NOT NULL UNIQUE,
    total_score DECIMAL(5,2) NOT NULL DEFAULT 0.00,
    ats_component DECIMAL(5,2) NOT NULL DEFAULT 0.00,
    github_component DECIMAL(5,2) NOT NULL DEFAULT 0.00,
    badge_component DECIMAL(5,2) NOT NULL DEFAULT 0.00,
    last_updated TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_total CHECK (total_score >= 0 AND total_score <= 100),
    CONSTRAINT valid_ats CHECK (ats_component >= 0 AND ats_component <= 100),
    CONSTRAINT valid_github CHECK (github_component >= 0 AND github_component <= 100),
    CONSTRAINT valid_badge CHECK (badge_component >= 0 AND badge_component <= 100)
);

CREATE INDEX IF NOT EXISTS idx_user_scores_total ON user_scores(total_score DESC);
`

const migration001Down = `
DROP TABLE IF EXISTS user_scores;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 002: BADGES
// ══════════════════════════════════════════════════════════════════════════════

const migration002Up = `
-- Migration: Create badge tables
-- Version: 002

-- Awards are immutable; at-most-once per (user_id, badge_key) is enforced
-- here, not merely by application logic.
CREATE TABLE IF NOT EXISTS badge_awards (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    user_id UUID NOT NULL,
    badge_key VARCHAR(64) NOT NULL,
    earned_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    metadata JSONB NOT NULL DEFAULT '{}'::jsonb,

    UNIQUE(user_id, badge_key)
);

CREATE INDEX IF NOT EXISTS idx_badge_awards_user ON badge_awards(user_id);
CREATE INDEX IF NOT EXISTS idx_badge_awards_earned ON badge_awards(earned_at DESC);

-- Admin-defined badge definitions; merged with the static in-process
-- catalog into one polymorphic catalog at read time.
CREATE TABLE IF NOT EXISTS badge_definitions (
    badge_key VARCHAR(64) PRIMARY KEY,
    name VARCHAR(100) NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    requirement_kind VARCHAR(30) NOT NULL,
    requirement_threshold INTEGER NOT NULL DEFAULT 0,
    points INTEGER NOT NULL DEFAULT 2,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_points CHECK (points > 0),
    CONSTRAINT valid_threshold CHECK (requirement_threshold >= 0)
);
`

const migration002Down = `
DROP TABLE IF EXISTS badge_definitions;
DROP TABLE IF EXISTS badge_awards;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 003: SOURCE READ MODELS
// ══════════════════════════════════════════════════════════════════════════════

const migration003Up = `
-- Migration: Create source tables read by the scoring core
-- Version: 003
-- These tables are owned by external collaborators (upload service,
-- connection service); the scoring core reads them and only the GitHub
-- sync updates github_profiles.

CREATE TABLE IF NOT EXISTS resumes (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    user_id UUID NOT NULL,
    ats_score INTEGER NOT NULL DEFAULT 0,
    status VARCHAR(20) NOT NULL DEFAULT 'uploaded',
    uploaded_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_resume_status CHECK (status IN ('uploaded', 'processing', 'scored', 'failed'))
);

CREATE INDEX IF NOT EXISTS idx_resumes_user_status ON resumes(user_id, status, uploaded_at DESC);

CREATE TABLE IF NOT EXISTS github_profiles (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    user_id UUID NOT NULL UNIQUE,
    username VARCHAR(100) NOT NULL,
    total_commits INTEGER NOT NULL DEFAULT 0,
    total_pull_requests INTEGER NOT NULL DEFAULT 0,
    total_stars INTEGER NOT NULL DEFAULT 0,
    languages TEXT[] NOT NULL DEFAULT '{}',
    fork_ratio DECIMAL(4,3) NOT NULL DEFAULT 0.000,
    sync_status VARCHAR(20) NOT NULL DEFAULT 'pending',
    sync_error TEXT NOT NULL DEFAULT '',
    last_synced_at TIMESTAMP WITH TIME ZONE,

    CONSTRAINT valid_sync_status CHECK (sync_status IN ('pending', 'syncing', 'completed', 'failed')),
    CONSTRAINT valid_fork_ratio CHECK (fork_ratio >= 0 AND fork_ratio <= 1)
);

CREATE INDEX IF NOT EXISTS idx_github_profiles_synced ON github_profiles(last_synced_at);

CREATE TABLE IF NOT EXISTS connections (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    requester_id UUID NOT NULL,
    recipient_id UUID NOT NULL,
    status VARCHAR(20) NOT NULL DEFAULT 'pending',
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_connection_status CHECK (status IN ('pending', 'accepted', 'declined')),
    CONSTRAINT no_self_connection CHECK (requester_id != recipient_id),
    UNIQUE(requester_id, recipient_id)
);

CREATE INDEX IF NOT EXISTS idx_connections_requester ON connections(requester_id, status);
CREATE INDEX IF NOT EXISTS idx_connections_recipient ON connections(recipient_id, status);

CREATE TABLE IF NOT EXISTS skill_gap_analyses (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    user_id UUID NOT NULL,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_skill_gap_user ON skill_gap_analyses(user_id);
`

const migration003Down = `
DROP TABLE IF EXISTS skill_gap_analyses;
DROP TABLE IF EXISTS connections;
DROP TABLE IF EXISTS github_profiles;
DROP TABLE IF EXISTS resumes;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION RUNNER
// ══════════════════════════════════════════════════════════════════════════════

// migrations lists all migrations in apply order.
var migrations = []struct {
	version int
	up      string
}{
	{1, migration001Up},
	{2, migration002Up},
	{3, migration003Up},
}

// Migrate applies all pending migrations in order.
// Safe to run repeatedly: every statement is idempotent and applied
// versions are tracked in schema_migrations.
func Migrate(ctx context.Context, conn *Connection) error {
	_, err := conn.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("%w: failed to create schema_migrations: %v", ErrMigrationFailed, err)
	}

	for _, m := range migrations {
		var exists bool
		err := conn.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)`,
			m.version,
		).Scan(&exists)
		if err != nil {
			return fmt.Errorf("%w: failed to check version %d: %v", ErrMigrationFailed, m.version, err)
		}
		if exists {
			continue
		}

		if _, err := conn.Exec(ctx, m.up); err != nil {
			return fmt.Errorf("%w: migration %d failed: %v", ErrMigrationFailed, m.version, err)
		}

		if _, err := conn.Exec(ctx,
			`INSERT INTO schema_migrations (version) VALUES ($1)`,
			m.version,
		); err != nil {
			return fmt.Errorf("%w: failed to record version %d: %v", ErrMigrationFailed, m.version, err)
		}
	}

	return nil
}
