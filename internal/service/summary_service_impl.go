package service

import (
	"context"

	"github.com/alexanderramin/lockwatch/internal/domain"
	"github.com/alexanderramin/lockwatch/internal/repository"
)

type summaryService struct {
	sessions repository.SessionRepo
}

func NewSummaryService(sessions repository.SessionRepo) SummaryService {
	return &summaryService{sessions: sessions}
}

func (s *summaryService) Summary(ctx context.Context, username string, days int) ([]domain.DayTotal, error) {
	return s.sessions.ListDayTotals(ctx, username, days)
}
