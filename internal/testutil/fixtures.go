package testutil

import (
	"time"

	"github.com/alexanderramin/lockwatch/internal/domain"
	"github.com/google/uuid"
)

// NewSessionLog builds a stored session fixture for the given user,
// starting at start and lasting d.
func NewSessionLog(username string, start time.Time, d time.Duration) *domain.SessionLog {
	return &domain.SessionLog{
		ID:        uuid.New().String(),
		Username:  username,
		Day:       domain.DayOf(start),
		StartedAt: start,
		EndedAt:   start.Add(d),
		CreatedAt: time.Now().UTC(),
	}
}

// EventSequence builds an alternating unlock/lock event stream. Each pair
// starts at the given start time plus i*gap and lasts sessionLen.
func EventSequence(start time.Time, pairs int, sessionLen, gap time.Duration) []domain.Event {
	var events []domain.Event
	for i := 0; i < pairs; i++ {
		open := start.Add(time.Duration(i) * gap)
		events = append(events,
			domain.Event{Time: open, Kind: domain.KindUnlock},
			domain.Event{Time: open.Add(sessionLen), Kind: domain.KindLock},
		)
	}
	return events
}
