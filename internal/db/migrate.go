package db

import (
	"database/sql"
	"fmt"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS session_logs (
		id         TEXT PRIMARY KEY,
		username   TEXT NOT NULL,
		day        TEXT NOT NULL,
		started_at TEXT NOT NULL,
		ended_at   TEXT NOT NULL,
		created_at TEXT NOT NULL,
		UNIQUE (username, started_at)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_session_logs_user_day
		ON session_logs (username, day)`,
	`CREATE TABLE IF NOT EXISTS checkpoints (
		username      TEXT PRIMARY KEY,
		last_event_at TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	)`,
}

// Migrate runs all schema migrations. Statements are idempotent, so the full
// list re-runs on every open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
