package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSessionDurationAndValidity(t *testing.T) {
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)
	s := Session{Start: start, End: start.Add(10 * time.Minute)}

	assert.True(t, s.Valid())
	assert.Equal(t, 10*time.Minute, s.Duration())

	degenerate := Session{Start: start, End: start}
	assert.False(t, degenerate.Valid())
}

func TestSessionDayAttributedToStartDate(t *testing.T) {
	start := time.Date(2025, 3, 10, 23, 58, 0, 0, time.Local)
	s := Session{Start: start, End: start.Add(12 * time.Minute)}

	assert.Equal(t, "2025-03-10", s.Day(), "midnight-crossing session belongs to its start date")
}

func TestDayRecordTotal(t *testing.T) {
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)
	d := DayRecord{
		Date: "2025-03-10",
		Sessions: []Session{
			{Start: start, End: start.Add(30 * time.Minute)},
			{Start: start.Add(time.Hour), End: start.Add(time.Hour + 45*time.Minute)},
		},
	}

	assert.Equal(t, 75*time.Minute, d.Total())
}

func TestKindForEventID(t *testing.T) {
	tests := []struct {
		name        string
		id          uint16
		screensaver bool
		want        EventKind
		ok          bool
	}{
		{"logon", EventIDLogon, false, KindLogon, true},
		{"logoff", EventIDLogoff, false, KindLogoff, true},
		{"user logoff", EventIDLogoffUser, false, KindLogoff, true},
		{"lock", EventIDLock, false, KindLock, true},
		{"unlock", EventIDUnlock, false, KindUnlock, true},
		{"screensaver on ignored by default", EventIDScreensaverOn, false, "", false},
		{"screensaver on as lock", EventIDScreensaverOn, true, KindLock, true},
		{"screensaver off as unlock", EventIDScreensaverOff, true, KindUnlock, true},
		{"unmonitored id", 4625, false, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, ok := KindForEventID(tt.id, tt.screensaver)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, kind)
		})
	}
}
