package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alexanderramin/lockwatch/internal/domain"
	"github.com/alexanderramin/lockwatch/internal/eventlog"
	"github.com/alexanderramin/lockwatch/internal/repository"
	"github.com/alexanderramin/lockwatch/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReader struct {
	events    []domain.Event
	err       error
	lastQuery eventlog.Query
}

func (f *fakeReader) Read(_ context.Context, q eventlog.Query) ([]domain.Event, error) {
	f.lastQuery = q
	return f.events, f.err
}

type fakeReport struct {
	writes [][]domain.DayRecord
	err    error
}

func (f *fakeReport) Write(days []domain.DayRecord) error {
	f.writes = append(f.writes, days)
	return f.err
}

func newFixture(t *testing.T, reader *fakeReader, report *fakeReport) (TrackService, repository.SessionRepo, repository.CheckpointRepo) {
	database := testutil.NewTestDB(t)
	sessions := repository.NewSQLiteSessionRepo(database)
	checkpoints := repository.NewSQLiteCheckpointRepo(database)
	return NewTrackService(reader, sessions, checkpoints, report), sessions, checkpoints
}

func TestTrackPipeline(t *testing.T) {
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)
	reader := &fakeReader{events: testutil.EventSequence(start, 2, 30*time.Minute, 2*time.Hour)}
	report := &fakeReport{}
	svc, sessions, checkpoints := newFixture(t, reader, report)

	res, err := svc.Track(context.Background(), TrackRequest{User: "JohnDoe"})
	require.NoError(t, err)

	assert.Equal(t, 4, res.EventCount)
	assert.Equal(t, 2, res.SessionCount())
	assert.Equal(t, time.Hour, res.Total())

	require.Len(t, report.writes, 1, "derived days must reach the report writer")
	require.Len(t, report.writes[0], 1)
	assert.Equal(t, "2025-03-10", report.writes[0][0].Date)

	stored, err := sessions.ListByUserSince(context.Background(), "JohnDoe", time.Time{})
	require.NoError(t, err)
	assert.Len(t, stored, 2, "every derived session lands in the history store")

	last, ok, err := checkpoints.Get(context.Background(), "JohnDoe")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, last.Equal(start.Add(2*time.Hour+30*time.Minute)), "checkpoint advances to the newest event")
}

func TestTrackIsIdempotentAcrossRuns(t *testing.T) {
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)
	reader := &fakeReader{events: testutil.EventSequence(start, 1, 30*time.Minute, time.Hour)}
	svc, sessions, _ := newFixture(t, reader, &fakeReport{})

	_, err := svc.Track(context.Background(), TrackRequest{User: "JohnDoe"})
	require.NoError(t, err)
	_, err = svc.Track(context.Background(), TrackRequest{User: "JohnDoe"})
	require.NoError(t, err)

	stored, err := sessions.ListByUserSince(context.Background(), "JohnDoe", time.Time{})
	require.NoError(t, err)
	assert.Len(t, stored, 1, "re-running over the same window must not duplicate sessions")
}

func TestTrackSinceLastUsesCheckpoint(t *testing.T) {
	reader := &fakeReader{}
	svc, _, checkpoints := newFixture(t, reader, &fakeReport{})

	last := time.Date(2025, 3, 9, 18, 0, 0, 0, time.UTC)
	require.NoError(t, checkpoints.Put(context.Background(), "JohnDoe", last))

	_, err := svc.Track(context.Background(), TrackRequest{User: "JohnDoe", SinceLast: true})
	require.NoError(t, err)
	assert.True(t, reader.lastQuery.Since.Equal(last), "lookback starts at the stored checkpoint")
}

func TestTrackNoEventsSkipsReportAndCheckpoint(t *testing.T) {
	report := &fakeReport{}
	svc, _, checkpoints := newFixture(t, &fakeReader{}, report)

	res, err := svc.Track(context.Background(), TrackRequest{User: "JohnDoe"})
	require.NoError(t, err)

	assert.Zero(t, res.EventCount)
	assert.Empty(t, report.writes)

	_, ok, err := checkpoints.Get(context.Background(), "JohnDoe")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTrackPropagatesReaderError(t *testing.T) {
	svc, _, _ := newFixture(t, &fakeReader{err: eventlog.ErrAccessDenied}, &fakeReport{})

	_, err := svc.Track(context.Background(), TrackRequest{User: "JohnDoe"})
	assert.ErrorIs(t, err, eventlog.ErrAccessDenied)
}

func TestTrackPropagatesReportError(t *testing.T) {
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)
	reader := &fakeReader{events: testutil.EventSequence(start, 1, 30*time.Minute, time.Hour)}
	locked := errors.New("report file is locked by another process")
	svc, _, _ := newFixture(t, reader, &fakeReport{err: locked})

	_, err := svc.Track(context.Background(), TrackRequest{User: "JohnDoe"})
	assert.ErrorIs(t, err, locked)
}

func TestSummaryService(t *testing.T) {
	database := testutil.NewTestDB(t)
	sessions := repository.NewSQLiteSessionRepo(database)
	svc := NewSummaryService(sessions)

	today := time.Now().Add(-2 * time.Hour)
	require.NoError(t, sessions.Upsert(context.Background(), testutil.NewSessionLog("JohnDoe", today, 30*time.Minute)))

	totals, err := svc.Summary(context.Background(), "JohnDoe", 7)
	require.NoError(t, err)
	require.Len(t, totals, 1)
	assert.Equal(t, 30*time.Minute, totals[0].Total)
}
