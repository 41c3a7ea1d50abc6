package domain

import "time"

// Session is a contiguous interval of active use, bounded by an unlock and
// the next lock or logoff.
type Session struct {
	Start time.Time
	End   time.Time
}

func (s Session) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// Valid reports whether the session interval is well-formed.
func (s Session) Valid() bool {
	return s.End.After(s.Start)
}

// Day returns the calendar date the session is attributed to. Sessions that
// cross midnight belong wholly to their start date.
func (s Session) Day() string {
	return DayOf(s.Start)
}

// DayRecord aggregates all sessions whose start falls on one calendar date.
type DayRecord struct {
	Date     string
	Sessions []Session
}

// Total returns the summed duration of the day's sessions.
func (d DayRecord) Total() time.Duration {
	var total time.Duration
	for _, s := range d.Sessions {
		total += s.Duration()
	}
	return total
}

// SessionLog is a derived session as persisted in the local history store.
type SessionLog struct {
	ID        string
	Username  string
	Day       string
	StartedAt time.Time
	EndedAt   time.Time
	CreatedAt time.Time
}

func (s *SessionLog) Duration() time.Duration {
	return s.EndedAt.Sub(s.StartedAt)
}

// DayTotal is an aggregate view of one day's stored sessions.
type DayTotal struct {
	Day      string
	Sessions int
	Total    time.Duration
}
