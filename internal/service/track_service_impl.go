package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/lockwatch/internal/deriver"
	"github.com/alexanderramin/lockwatch/internal/domain"
	"github.com/alexanderramin/lockwatch/internal/eventlog"
	"github.com/alexanderramin/lockwatch/internal/repository"
	"github.com/google/uuid"
)

type trackService struct {
	events      eventlog.Reader
	sessions    repository.SessionRepo
	checkpoints repository.CheckpointRepo
	report      ReportWriter
}

func NewTrackService(events eventlog.Reader, sessions repository.SessionRepo, checkpoints repository.CheckpointRepo, report ReportWriter) TrackService {
	return &trackService{events: events, sessions: sessions, checkpoints: checkpoints, report: report}
}

func (s *trackService) Track(ctx context.Context, req TrackRequest) (*TrackResult, error) {
	since := req.Since
	if req.SinceLast {
		last, ok, err := s.checkpoints.Get(ctx, req.User)
		if err != nil {
			return nil, err
		}
		if ok && last.After(since) {
			since = last
		}
	}

	events, err := s.events.Read(ctx, eventlog.Query{
		User:               req.User,
		Since:              since,
		IncludeScreensaver: req.IncludeScreensaver,
	})
	if err != nil {
		return nil, err
	}

	days := deriver.Derive(events, deriver.Config{
		MinSession: req.MinSession,
		Tiebreak:   req.Tiebreak,
	})

	now := time.Now().UTC()
	for _, day := range days {
		for _, sess := range day.Sessions {
			log := &domain.SessionLog{
				ID:        uuid.New().String(),
				Username:  req.User,
				Day:       day.Date,
				StartedAt: sess.Start,
				EndedAt:   sess.End,
				CreatedAt: now,
			}
			if err := s.sessions.Upsert(ctx, log); err != nil {
				return nil, err
			}
		}
	}

	if len(days) > 0 {
		if err := s.report.Write(days); err != nil {
			return nil, fmt.Errorf("updating report: %w", err)
		}
	}

	if len(events) > 0 {
		last := events[len(events)-1].Time
		if err := s.checkpoints.Put(ctx, req.User, last); err != nil {
			return nil, err
		}
	}

	return &TrackResult{User: req.User, EventCount: len(events), Days: days}, nil
}
