package domain

import "time"

// Event is a single timestamped entry read from the Security log.
// Events are immutable and only live for the duration of a run.
type Event struct {
	Time time.Time
	Kind EventKind
}

// DayKey is the layout used to key rows and records by calendar date.
const DayKey = "2006-01-02"

// DayOf returns the calendar-date key for a timestamp.
func DayOf(t time.Time) string {
	return t.Format(DayKey)
}
