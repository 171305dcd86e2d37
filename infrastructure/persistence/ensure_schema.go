package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

var schemaDDL = []string{
	`CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	username TEXT NOT NULL UNIQUE,
	email TEXT NOT NULL UNIQUE,
	full_name TEXT NOT NULL,
	avatar TEXT NOT NULL,
	avatar_public_id TEXT NOT NULL DEFAULT '',
	cover_image TEXT NOT NULL DEFAULT '',
	password TEXT NOT NULL,
	refresh_token TEXT,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS videos (
	id TEXT PRIMARY KEY,
	video_file TEXT NOT NULL,
	video_public_id TEXT NOT NULL DEFAULT '',
	thumbnail TEXT NOT NULL,
	thumbnail_public_id TEXT NOT NULL DEFAULT '',
	title TEXT NOT NULL,
	description TEXT NOT NULL,
	views BIGINT NOT NULL DEFAULT 0,
	owner_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS subscriptions (
	id TEXT PRIMARY KEY,
	subscriber_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	channel_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL,
	UNIQUE (subscriber_id, channel_id),
	CHECK (subscriber_id <> channel_id)
)`,
	`CREATE INDEX IF NOT EXISTS subscriptions_channel_idx ON subscriptions (channel_id)`,
	`CREATE TABLE IF NOT EXISTS tweets (
	id TEXT PRIMARY KEY,
	content TEXT NOT NULL,
	owner_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS tweets_owner_idx ON tweets (owner_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS watch_history (
	user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	video_id TEXT NOT NULL REFERENCES videos(id) ON DELETE CASCADE,
	watched_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (user_id, video_id)
)`,
}

// EnsureSchema creates the tables and adds columns introduced after the first release.
// Safe to call at startup.
func EnsureSchema(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, ddl := range schemaDDL {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("schema statement failed: %w", err)
		}
	}

	checks := []struct {
		table  string
		column string
		ddl    string
	}{
		{"users", "cover_image_public_id", "ALTER TABLE users ADD COLUMN cover_image_public_id TEXT NOT NULL DEFAULT ''"},
		{"videos", "is_published", "ALTER TABLE videos ADD COLUMN is_published BOOLEAN NOT NULL DEFAULT TRUE"},
	}
	for _, c := range checks {
		exists, err := columnExists(ctx, db, c.table, c.column)
		if err != nil {
			return err
		}
		if !exists {
			if _, err := db.ExecContext(ctx, c.ddl); err != nil {
				return fmt.Errorf("adding column %s.%s failed: %w", c.table, c.column, err)
			}
		}
	}
	return nil
}

func columnExists(ctx context.Context, db *sql.DB, table, column string) (bool, error) {
	row := db.QueryRowContext(ctx, `SELECT 1 FROM information_schema.columns WHERE table_name=$1 AND column_name=$2`, table, column)
	var one int
	if err := row.Scan(&one); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
