package deriver

import (
	"testing"
	"time"

	"github.com/alexanderramin/lockwatch/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)

func at(hour, min int) time.Time {
	return base.Add(time.Duration(hour)*time.Hour + time.Duration(min)*time.Minute)
}

func ev(kind domain.EventKind, t time.Time) domain.Event {
	return domain.Event{Time: t, Kind: kind}
}

func TestDeriveUnlockThenLock(t *testing.T) {
	days := Derive([]domain.Event{
		ev(domain.KindUnlock, at(9, 0)),
		ev(domain.KindLock, at(9, 10)),
	}, Config{})

	require.Len(t, days, 1)
	require.Len(t, days[0].Sessions, 1)
	s := days[0].Sessions[0]
	assert.Equal(t, at(9, 0), s.Start)
	assert.Equal(t, at(9, 10), s.End)
	assert.Equal(t, 10*time.Minute, s.Duration())
	assert.Equal(t, "2025-03-10", days[0].Date)
}

func TestDeriveDropsSubThresholdSessions(t *testing.T) {
	days := Derive([]domain.Event{
		ev(domain.KindUnlock, at(9, 0)),
		ev(domain.KindLock, at(9, 2)),
	}, Config{})

	assert.Empty(t, days, "2m session is below the 5m default floor")
}

func TestDeriveUnmatchedUnlockIsDiscarded(t *testing.T) {
	days := Derive([]domain.Event{
		ev(domain.KindUnlock, at(9, 0)),
	}, Config{})

	assert.Empty(t, days, "a session is only reported once it has a closing event")
}

func TestDeriveLockWithoutUnlockIsIgnored(t *testing.T) {
	days := Derive([]domain.Event{
		ev(domain.KindLock, at(9, 0)),
		ev(domain.KindUnlock, at(10, 0)),
		ev(domain.KindLock, at(10, 30)),
	}, Config{})

	require.Len(t, days, 1)
	require.Len(t, days[0].Sessions, 1)
	assert.Equal(t, at(10, 0), days[0].Sessions[0].Start)
}

func TestDeriveDuplicateUnlockFirstWins(t *testing.T) {
	days := Derive([]domain.Event{
		ev(domain.KindUnlock, at(9, 0)),
		ev(domain.KindUnlock, at(9, 5)),
		ev(domain.KindLock, at(9, 20)),
	}, Config{})

	require.Len(t, days, 1)
	require.Len(t, days[0].Sessions, 1)
	assert.Equal(t, at(9, 0), days[0].Sessions[0].Start, "default policy keeps the earliest unlock")
}

func TestDeriveDuplicateUnlockLastWins(t *testing.T) {
	days := Derive([]domain.Event{
		ev(domain.KindUnlock, at(9, 0)),
		ev(domain.KindUnlock, at(9, 5)),
		ev(domain.KindLock, at(9, 20)),
	}, Config{Tiebreak: LastUnlockWins})

	require.Len(t, days, 1)
	require.Len(t, days[0].Sessions, 1)
	assert.Equal(t, at(9, 5), days[0].Sessions[0].Start)
}

func TestDeriveLogonOpensOnlyWhenIdle(t *testing.T) {
	days := Derive([]domain.Event{
		ev(domain.KindLogon, at(8, 0)),
		ev(domain.KindLock, at(8, 30)),
		ev(domain.KindUnlock, at(9, 0)),
		ev(domain.KindLogon, at(9, 5)), // must not reset the open start
		ev(domain.KindLock, at(9, 20)),
	}, Config{})

	require.Len(t, days, 1)
	require.Len(t, days[0].Sessions, 2)
	assert.Equal(t, at(8, 0), days[0].Sessions[0].Start)
	assert.Equal(t, at(9, 0), days[0].Sessions[1].Start)
}

func TestDeriveLogoffClosesSession(t *testing.T) {
	days := Derive([]domain.Event{
		ev(domain.KindUnlock, at(17, 0)),
		ev(domain.KindLogoff, at(17, 45)),
	}, Config{})

	require.Len(t, days, 1)
	require.Len(t, days[0].Sessions, 1)
	assert.Equal(t, 45*time.Minute, days[0].Sessions[0].Duration())
}

func TestDeriveMidnightCrossingAttributedToStartDate(t *testing.T) {
	days := Derive([]domain.Event{
		ev(domain.KindUnlock, at(23, 58)),
		ev(domain.KindLock, at(24, 10)), // 00:10 next day
	}, Config{})

	require.Len(t, days, 1)
	assert.Equal(t, "2025-03-10", days[0].Date)
	assert.Equal(t, 12*time.Minute, days[0].Sessions[0].Duration())
}

func TestDeriveResortsOutOfOrderInput(t *testing.T) {
	days := Derive([]domain.Event{
		ev(domain.KindLock, at(9, 10)),
		ev(domain.KindUnlock, at(9, 0)),
	}, Config{})

	require.Len(t, days, 1)
	require.Len(t, days[0].Sessions, 1)
	assert.Equal(t, at(9, 0), days[0].Sessions[0].Start)
}

func TestDeriveMultipleDaysSorted(t *testing.T) {
	nextDay := base.Add(24 * time.Hour)
	days := Derive([]domain.Event{
		ev(domain.KindUnlock, nextDay.Add(9*time.Hour)),
		ev(domain.KindLock, nextDay.Add(10*time.Hour)),
		ev(domain.KindUnlock, at(9, 0)),
		ev(domain.KindLock, at(10, 0)),
	}, Config{})

	require.Len(t, days, 2)
	assert.Equal(t, "2025-03-10", days[0].Date)
	assert.Equal(t, "2025-03-11", days[1].Date)
}

func TestDeriveSessionsWithinDaySorted(t *testing.T) {
	days := Derive([]domain.Event{
		ev(domain.KindUnlock, at(14, 0)),
		ev(domain.KindLock, at(15, 0)),
		ev(domain.KindUnlock, at(9, 0)),
		ev(domain.KindLock, at(10, 0)),
	}, Config{})

	require.Len(t, days, 1)
	require.Len(t, days[0].Sessions, 2)
	assert.True(t, days[0].Sessions[0].Start.Before(days[0].Sessions[1].Start))
}

func TestDeriveCustomMinSession(t *testing.T) {
	days := Derive([]domain.Event{
		ev(domain.KindUnlock, at(9, 0)),
		ev(domain.KindLock, at(9, 2)),
	}, Config{MinSession: time.Minute})

	require.Len(t, days, 1)
	require.Len(t, days[0].Sessions, 1)
}

func TestDeriveInvariants(t *testing.T) {
	events := []domain.Event{
		ev(domain.KindLogon, at(7, 30)),
		ev(domain.KindLock, at(7, 31)), // below floor
		ev(domain.KindUnlock, at(9, 0)),
		ev(domain.KindUnlock, at(9, 5)),
		ev(domain.KindLock, at(11, 45)),
		ev(domain.KindUnlock, at(13, 0)),
		ev(domain.KindLogoff, at(17, 30)),
		ev(domain.KindUnlock, at(22, 0)), // never closed
	}

	cfg := Config{}
	days := Derive(events, cfg)

	for _, day := range days {
		for _, s := range day.Sessions {
			assert.True(t, s.End.After(s.Start))
			assert.GreaterOrEqual(t, s.Duration(), DefaultMinSession)
			assert.Equal(t, day.Date, s.Day())
		}
	}

	assert.Equal(t, days, Derive(events, cfg), "deriving twice from the same input must be identical")
}

func TestDeriveEmptyInput(t *testing.T) {
	assert.Empty(t, Derive(nil, Config{}))
}
