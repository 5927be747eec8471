package database

import (
	"context"
	"fmt"
)

// Constraint and index names the services match unique violations against.
const (
	ConstraintUsersEmail          = "users_email_key"
	ConstraintTeamsName           = "teams_name_key"
	ConstraintTeamMembersPK       = "team_members_pkey"
	ConstraintTeamMembersUser     = "team_members_user_id_key"
	IndexPendingRequest           = "idx_membership_requests_pending_unique"
	IndexFeedbackUserTargetUnique = "idx_feedback_user_target_unique"
	IndexFeedbackTeamTargetUnique = "idx_feedback_team_target_unique"
)

var migrations = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`,

	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		email VARCHAR(255) NOT NULL,
		name VARCHAR(255) NOT NULL,
		avatar_url VARCHAR(500),
		bio TEXT NOT NULL DEFAULT '',
		platform VARCHAR(50) NOT NULL DEFAULT '',
		profile_completed BOOLEAN NOT NULL DEFAULT FALSE,
		looking_for_team BOOLEAN NOT NULL DEFAULT TRUE,
		average_rating DOUBLE PRECISION NOT NULL DEFAULT 0,
		feedback_count INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		CONSTRAINT users_email_key UNIQUE (email)
	)`,

	`CREATE TABLE IF NOT EXISTS teams (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(30) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		platform VARCHAR(50) NOT NULL DEFAULT '',
		discord_url VARCHAR(500) NOT NULL DEFAULT '',
		twitter_url VARCHAR(500) NOT NULL DEFAULT '',
		captain_id UUID NOT NULL REFERENCES users(id),
		vice_captain_id UUID REFERENCES users(id) ON DELETE SET NULL,
		average_rating DOUBLE PRECISION NOT NULL DEFAULT 0,
		feedback_count INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		CONSTRAINT teams_name_key UNIQUE (name),
		CHECK (vice_captain_id IS NULL OR vice_captain_id <> captain_id)
	)`,

	// users.team_id is added after teams exists; the two tables reference each other
	`ALTER TABLE users ADD COLUMN IF NOT EXISTS team_id UUID REFERENCES teams(id) ON DELETE SET NULL`,

	`CREATE TABLE IF NOT EXISTS team_members (
		team_id UUID NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		CONSTRAINT team_members_pkey PRIMARY KEY (team_id, user_id),
		CONSTRAINT team_members_user_id_key UNIQUE (user_id)
	)`,

	`CREATE TABLE IF NOT EXISTS membership_requests (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		team_id UUID NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
		player_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		message TEXT NOT NULL DEFAULT '',
		status VARCHAR(20) NOT NULL DEFAULT 'pending',
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		CHECK (status IN ('pending', 'approved', 'rejected', 'cancelled'))
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS idx_membership_requests_pending_unique
		ON membership_requests(team_id, player_id) WHERE status = 'pending'`,

	`CREATE TABLE IF NOT EXISTS feedback (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		from_user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		target_user_id UUID REFERENCES users(id) ON DELETE CASCADE,
		target_team_id UUID REFERENCES teams(id) ON DELETE CASCADE,
		rating SMALLINT NOT NULL,
		tags TEXT[] NOT NULL DEFAULT '{}',
		comment TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		CHECK (num_nonnulls(target_user_id, target_team_id) = 1),
		CHECK (target_user_id IS NULL OR target_user_id <> from_user_id),
		CHECK (rating BETWEEN 1 AND 5)
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS idx_feedback_user_target_unique
		ON feedback(from_user_id, target_user_id) WHERE target_user_id IS NOT NULL`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_feedback_team_target_unique
		ON feedback(from_user_id, target_team_id) WHERE target_team_id IS NOT NULL`,

	`CREATE INDEX IF NOT EXISTS idx_users_team_id ON users(team_id)`,
	`CREATE INDEX IF NOT EXISTS idx_users_looking_for_team ON users(looking_for_team)`,
	`CREATE INDEX IF NOT EXISTS idx_membership_requests_team_id ON membership_requests(team_id)`,
	`CREATE INDEX IF NOT EXISTS idx_membership_requests_player_id ON membership_requests(player_id)`,
	`CREATE INDEX IF NOT EXISTS idx_feedback_target_user_id ON feedback(target_user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_feedback_target_team_id ON feedback(target_team_id)`,
	`CREATE INDEX IF NOT EXISTS idx_feedback_from_user_id ON feedback(from_user_id)`,

	// Name search for teams and players
	`CREATE EXTENSION IF NOT EXISTS pg_trgm`,
	`CREATE INDEX IF NOT EXISTS idx_teams_name_search ON teams USING gin (name gin_trgm_ops)`,
	`CREATE INDEX IF NOT EXISTS idx_users_name_search ON users USING gin (name gin_trgm_ops)`,
}

func (db *DB) Migrate(ctx context.Context) error {
	for i, migration := range migrations {
		if _, err := db.Pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
