package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SQLiteCheckpointRepo stores the last-ingested event timestamp per user, so
// follow-up runs can restrict the event-log query to what is new.
type SQLiteCheckpointRepo struct {
	db *sql.DB
}

func NewSQLiteCheckpointRepo(db *sql.DB) *SQLiteCheckpointRepo {
	return &SQLiteCheckpointRepo{db: db}
}

func (r *SQLiteCheckpointRepo) Get(ctx context.Context, username string) (time.Time, bool, error) {
	var lastStr string
	err := r.db.QueryRowContext(ctx,
		`SELECT last_event_at FROM checkpoints WHERE username = ?`, username,
	).Scan(&lastStr)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("reading checkpoint: %w", err)
	}

	last, err := time.Parse(time.RFC3339, lastStr)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parsing checkpoint: %w", err)
	}
	return last, true, nil
}

func (r *SQLiteCheckpointRepo) Put(ctx context.Context, username string, t time.Time) error {
	query := `INSERT INTO checkpoints (username, last_event_at, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (username) DO UPDATE SET
			last_event_at = excluded.last_event_at,
			updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query,
		username,
		t.Format(time.RFC3339),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("writing checkpoint: %w", err)
	}
	return nil
}
