package audit

import (
	"context"

	"github.com/nulzo/model-capability-api/internal/store"
	"github.com/nulzo/model-capability-api/internal/store/model"
)

type Service interface {
	Recent(ctx context.Context, limit int) ([]model.ResolutionLog, error)
	Overview(ctx context.Context, days int) ([]model.DecisionStats, error)
}

type service struct {
	repo store.Repository
}

func NewService(repo store.Repository) Service {
	return &service{
		repo: repo,
	}
}

func (s *service) Recent(ctx context.Context, limit int) ([]model.ResolutionLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	return s.repo.Resolutions().GetRecent(ctx, limit)
}

func (s *service) Overview(ctx context.Context, days int) ([]model.DecisionStats, error) {
	if days <= 0 {
		days = 7 // default to last week
	}
	return s.repo.Resolutions().GetDecisionStats(ctx, days)
}
