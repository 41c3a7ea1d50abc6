package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/lockwatch/internal/domain"
)

type SessionRepo interface {
	// Upsert inserts a derived session, replacing any stored session with
	// the same user and start time so re-runs stay idempotent.
	Upsert(ctx context.Context, s *domain.SessionLog) error
	ListByUserSince(ctx context.Context, username string, since time.Time) ([]*domain.SessionLog, error)
	// ListDayTotals aggregates the last N days of stored sessions.
	ListDayTotals(ctx context.Context, username string, days int) ([]domain.DayTotal, error)
}

type CheckpointRepo interface {
	// Get returns the timestamp of the newest event ingested for the user,
	// or ok=false when the user has never been tracked.
	Get(ctx context.Context, username string) (t time.Time, ok bool, err error)
	Put(ctx context.Context, username string, t time.Time) error
}
