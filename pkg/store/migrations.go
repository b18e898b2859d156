package store

import (
	"context"
	"database/sql"
	"fmt"
)

// Migration represents a database migration
type Migration struct {
	Version     int
	Description string
	SQL         string
}

// GetMigrations returns all store migrations
func GetMigrations() []Migration {
	return []Migration{
		{
			Version:     1,
			Description: "Create app_settings table",
			SQL: `
				CREATE TABLE IF NOT EXISTS app_settings (
					key VARCHAR(255) PRIMARY KEY,
					value TEXT NOT NULL,
					updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
				);
			`,
		},
		{
			Version:     2,
			Description: "Create users table",
			SQL: `
				CREATE TABLE IF NOT EXISTS users (
					id VARCHAR(64) PRIMARY KEY,
					email VARCHAR(255) NOT NULL,
					display_name VARCHAR(255),
					membership_tier VARCHAR(32) NOT NULL DEFAULT 'MEMBER',
					created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
					updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
				);
			`,
		},
		{
			Version:     3,
			Description: "Create store_admins table",
			SQL: `
				CREATE TABLE IF NOT EXISTS store_admins (
					user_id VARCHAR(64) NOT NULL,
					store_id VARCHAR(64) NOT NULL,
					role VARCHAR(32) NOT NULL,
					source VARCHAR(64),
					created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
					PRIMARY KEY (user_id, store_id)
				);

				CREATE INDEX IF NOT EXISTS idx_store_admins_user_id ON store_admins(user_id);
			`,
		},
		{
			Version:     4,
			Description: "Create book_clubs table",
			SQL: `
				CREATE TABLE IF NOT EXISTS book_clubs (
					id VARCHAR(64) PRIMARY KEY,
					store_id VARCHAR(64) NOT NULL,
					lead_user_id VARCHAR(64) NOT NULL,
					name VARCHAR(255) NOT NULL,
					is_private BOOLEAN NOT NULL DEFAULT FALSE,
					created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
					deleted_at TIMESTAMP
				);

				CREATE INDEX IF NOT EXISTS idx_book_clubs_lead_user_id ON book_clubs(lead_user_id);
				CREATE INDEX IF NOT EXISTS idx_book_clubs_store_id ON book_clubs(store_id);
			`,
		},
		{
			Version:     5,
			Description: "Create club_moderators table",
			SQL: `
				CREATE TABLE IF NOT EXISTS club_moderators (
					club_id VARCHAR(64) NOT NULL,
					user_id VARCHAR(64) NOT NULL,
					assigned_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
					PRIMARY KEY (club_id, user_id)
				);

				CREATE INDEX IF NOT EXISTS idx_club_moderators_user_id ON club_moderators(user_id);
			`,
		},
		{
			Version:     6,
			Description: "Create club_members table",
			SQL: `
				CREATE TABLE IF NOT EXISTS club_members (
					club_id VARCHAR(64) NOT NULL,
					user_id VARCHAR(64) NOT NULL,
					joined_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
					left_at TIMESTAMP,
					PRIMARY KEY (club_id, user_id)
				);

				CREATE INDEX IF NOT EXISTS idx_club_members_user_id ON club_members(user_id);
			`,
		},
		{
			Version:     7,
			Description: "Create sessions table",
			SQL: `
				CREATE TABLE IF NOT EXISTS sessions (
					token VARCHAR(255) PRIMARY KEY,
					user_id VARCHAR(64) NOT NULL,
					created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
					expires_at TIMESTAMP NOT NULL
				);

				CREATE INDEX IF NOT EXISTS idx_sessions_user_id ON sessions(user_id);
			`,
		},
		{
			Version:     8,
			Description: "Create subscriptions table",
			SQL: `
				CREATE TABLE IF NOT EXISTS subscriptions (
					id VARCHAR(64) PRIMARY KEY,
					user_id VARCHAR(64) NOT NULL,
					tier VARCHAR(32) NOT NULL,
					status VARCHAR(32) NOT NULL,
					current_period_end TIMESTAMP NOT NULL,
					created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
					updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
				);

				CREATE INDEX IF NOT EXISTS idx_subscriptions_user_id ON subscriptions(user_id);
			`,
		},
		{
			Version:     9,
			Description: "Create activity_events table",
			SQL: `
				CREATE TABLE IF NOT EXISTS activity_events (
					id VARCHAR(64) PRIMARY KEY,
					user_id VARCHAR(64) NOT NULL,
					capability VARCHAR(128) NOT NULL,
					context_type VARCHAR(32),
					context_id VARCHAR(64),
					created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
				);

				CREATE INDEX IF NOT EXISTS idx_activity_events_user_id ON activity_events(user_id);
			`,
		},
	}
}

// RunMigrations executes all pending migrations
func RunMigrations(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS bookclub_migrations (
			version INT PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	rows, err := db.QueryContext(ctx, "SELECT version FROM bookclub_migrations ORDER BY version")
	if err != nil {
		return fmt.Errorf("failed to query migrations: %w", err)
	}

	appliedVersions := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan migration version: %w", err)
		}
		appliedVersions[version] = true
	}
	rows.Close()

	for _, migration := range GetMigrations() {
		if appliedVersions[migration.Version] {
			continue
		}

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to start transaction: %w", err)
		}

		if _, err := tx.ExecContext(ctx, migration.SQL); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to execute migration %d: %w", migration.Version, err)
		}

		if _, err := tx.ExecContext(ctx,
			"INSERT INTO bookclub_migrations (version, description) VALUES ($1, $2)",
			migration.Version, migration.Description,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}
	}

	return nil
}
