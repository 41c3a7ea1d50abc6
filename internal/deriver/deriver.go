// Package deriver pairs lock/unlock events into active-usage sessions and
// groups them by calendar day.
package deriver

import (
	"sort"
	"time"

	"github.com/alexanderramin/lockwatch/internal/domain"
)

// Policy picks the session start when several unlocks arrive before a lock.
type Policy string

const (
	// FirstUnlockWins keeps the earliest unlock as the session start, so a
	// duplicate unlock event cannot shrink the session.
	FirstUnlockWins Policy = "first_unlock"

	// LastUnlockWins resets the start on every unlock.
	LastUnlockWins Policy = "last_unlock"
)

// DefaultMinSession is the floor below which a candidate session is
// discarded as noise.
const DefaultMinSession = 5 * time.Minute

type Config struct {
	MinSession time.Duration
	Tiebreak   Policy
}

func (c Config) withDefaults() Config {
	if c.MinSession <= 0 {
		c.MinSession = DefaultMinSession
	}
	if c.Tiebreak == "" {
		c.Tiebreak = FirstUnlockWins
	}
	return c
}

// Derive sweeps the event sequence and returns one DayRecord per calendar
// date that has at least one surviving session. Records are sorted by date
// ascending and sessions within a record by start time ascending.
//
// The sweep holds a single open-start timestamp: unlock opens a candidate
// session (logon too, but only when idle), lock or logoff closes it, and a
// candidate survives only if it lasted at least cfg.MinSession. An unlock
// still open at the end of the stream is dropped: a session is only reported
// once its closing event exists. Out-of-order input is tolerated by sorting
// a copy up front; Derive never fails.
func Derive(events []domain.Event, cfg Config) []domain.DayRecord {
	cfg = cfg.withDefaults()

	ordered := make([]domain.Event, len(events))
	copy(ordered, events)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Time.Before(ordered[j].Time) })

	byDay := make(map[string][]domain.Session)
	var open *time.Time

	for _, ev := range ordered {
		switch ev.Kind {
		case domain.KindUnlock:
			if open == nil || cfg.Tiebreak == LastUnlockWins {
				t := ev.Time
				open = &t
			}
		case domain.KindLogon:
			if open == nil {
				t := ev.Time
				open = &t
			}
		case domain.KindLock, domain.KindLogoff:
			if open == nil {
				continue
			}
			s := domain.Session{Start: *open, End: ev.Time}
			open = nil
			if s.Valid() && s.Duration() >= cfg.MinSession {
				byDay[s.Day()] = append(byDay[s.Day()], s)
			}
		}
	}

	days := make([]domain.DayRecord, 0, len(byDay))
	for date, sessions := range byDay {
		sort.Slice(sessions, func(i, j int) bool { return sessions[i].Start.Before(sessions[j].Start) })
		days = append(days, domain.DayRecord{Date: date, Sessions: sessions})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })

	return days
}
