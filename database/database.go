package database

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/lib/pq"
)

// ConnectDB opens the Postgres pool from DATABASE_URL and verifies it with a
// ping.
func ConnectDB() (*sql.DB, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_URL not set")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// Migrate creates the schema if it is missing. Single-node deployment, so
// idempotent DDL at startup stands in for a migration tool.
func Migrate(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL DEFAULT '',
			bio TEXT NOT NULL DEFAULT '',
			profile_pic TEXT NOT NULL DEFAULT '',
			followers TEXT[] NOT NULL DEFAULT '{}',
			following TEXT[] NOT NULL DEFAULT '{}',
			device_tokens TEXT[] NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS posts (
			id TEXT PRIMARY KEY,
			posted_by TEXT NOT NULL REFERENCES users(id),
			text TEXT NOT NULL,
			img TEXT NOT NULL DEFAULT '',
			likes TEXT[] NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS replies (
			id BIGSERIAL PRIMARY KEY,
			post_id TEXT NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
			user_id TEXT NOT NULL,
			text TEXT NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			user_profile_pic TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_posts_posted_by ON posts(posted_by)`,
		`CREATE INDEX IF NOT EXISTS idx_replies_post_id ON replies(post_id)`,
		`CREATE INDEX IF NOT EXISTS idx_replies_user_id ON replies(user_id)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
