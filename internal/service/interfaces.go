package service

import (
	"context"
	"time"

	"github.com/alexanderramin/lockwatch/internal/deriver"
	"github.com/alexanderramin/lockwatch/internal/domain"
)

// TrackRequest carries one run's parameters through the pipeline.
type TrackRequest struct {
	User               string
	Since              time.Time
	SinceLast          bool
	MinSession         time.Duration
	Tiebreak           deriver.Policy
	IncludeScreensaver bool
}

// TrackResult summarizes what a run read, derived and wrote.
type TrackResult struct {
	User       string
	EventCount int
	Days       []domain.DayRecord
}

// SessionCount returns the number of sessions across all days.
func (r *TrackResult) SessionCount() int {
	n := 0
	for _, d := range r.Days {
		n += len(d.Sessions)
	}
	return n
}

// Total returns the summed duration across all days.
func (r *TrackResult) Total() time.Duration {
	var total time.Duration
	for _, d := range r.Days {
		total += d.Total()
	}
	return total
}

// TrackService runs the full pipeline: read the event log, derive sessions,
// record them in the history store and merge them into the report.
type TrackService interface {
	Track(ctx context.Context, req TrackRequest) (*TrackResult, error)
}

// SummaryService reads per-day aggregates back from the history store.
type SummaryService interface {
	Summary(ctx context.Context, username string, days int) ([]domain.DayTotal, error)
}

// ReportWriter is the sink for derived day records. Implemented by
// report.Writer.
type ReportWriter interface {
	Write(days []domain.DayRecord) error
}
