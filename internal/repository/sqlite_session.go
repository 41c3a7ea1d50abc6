package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/lockwatch/internal/domain"
)

// SQLiteSessionRepo implements SessionRepo using a SQLite database.
type SQLiteSessionRepo struct {
	db *sql.DB
}

// NewSQLiteSessionRepo creates a new SQLiteSessionRepo.
func NewSQLiteSessionRepo(db *sql.DB) *SQLiteSessionRepo {
	return &SQLiteSessionRepo{db: db}
}

func (r *SQLiteSessionRepo) Upsert(ctx context.Context, s *domain.SessionLog) error {
	query := `INSERT INTO session_logs (id, username, day, started_at, ended_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (username, started_at) DO UPDATE SET
			day = excluded.day,
			ended_at = excluded.ended_at`
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.Username,
		s.Day,
		s.StartedAt.Format(time.RFC3339),
		s.EndedAt.Format(time.RFC3339),
		s.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upserting session log: %w", err)
	}
	return nil
}

func (r *SQLiteSessionRepo) ListByUserSince(ctx context.Context, username string, since time.Time) ([]*domain.SessionLog, error) {
	query := `SELECT id, username, day, started_at, ended_at, created_at
		FROM session_logs
		WHERE username = ? AND started_at >= ?
		ORDER BY started_at`
	rows, err := r.db.QueryContext(ctx, query, username, since.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer rows.Close()
	return r.scanSessions(rows)
}

func (r *SQLiteSessionRepo) ListDayTotals(ctx context.Context, username string, days int) ([]domain.DayTotal, error) {
	query := `SELECT day, COUNT(*),
			SUM(strftime('%s', ended_at) - strftime('%s', started_at))
		FROM session_logs
		WHERE username = ? AND day >= date('now', 'localtime', ? || ' days')
		GROUP BY day
		ORDER BY day`
	rows, err := r.db.QueryContext(ctx, query, username, fmt.Sprintf("-%d", days))
	if err != nil {
		return nil, fmt.Errorf("listing day totals: %w", err)
	}
	defer rows.Close()

	var totals []domain.DayTotal
	for rows.Next() {
		var dt domain.DayTotal
		var seconds int64
		if err := rows.Scan(&dt.Day, &dt.Sessions, &seconds); err != nil {
			return nil, fmt.Errorf("scanning day total: %w", err)
		}
		dt.Total = time.Duration(seconds) * time.Second
		totals = append(totals, dt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating day totals: %w", err)
	}
	return totals, nil
}

func (r *SQLiteSessionRepo) scanSessions(rows *sql.Rows) ([]*domain.SessionLog, error) {
	var sessions []*domain.SessionLog
	for rows.Next() {
		var s domain.SessionLog
		var startedAtStr, endedAtStr, createdAtStr string
		if err := rows.Scan(&s.ID, &s.Username, &s.Day, &startedAtStr, &endedAtStr, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scanning session log: %w", err)
		}

		var err error
		if s.StartedAt, err = time.Parse(time.RFC3339, startedAtStr); err != nil {
			return nil, fmt.Errorf("parsing started_at: %w", err)
		}
		if s.EndedAt, err = time.Parse(time.RFC3339, endedAtStr); err != nil {
			return nil, fmt.Errorf("parsing ended_at: %w", err)
		}
		if s.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		sessions = append(sessions, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating session logs: %w", err)
	}
	return sessions, nil
}
