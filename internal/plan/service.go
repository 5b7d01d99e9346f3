package plan

import (
	"context"

	"gymflow/internal/api"
	"gymflow/internal/logger"
)

type Service interface {
	Create(ctx context.Context, req CreatePlanRequest) (*Plan, error)
	Update(ctx context.Context, id string, req UpdatePlanRequest) (*Plan, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*Plan, error)
	ListAvailable(ctx context.Context) ([]Plan, error)
	List(ctx context.Context, page api.Page) ([]Plan, int, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreatePlanRequest) (*Plan, error) {
	p := &Plan{
		Name:                req.Name,
		Description:         req.Description,
		Kind:                req.Kind,
		DurationDays:        req.DurationDays,
		PriceCents:          req.PriceCents,
		CoachSurchargeCents: req.CoachSurchargeCents,
		Status:              req.Status,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	logger.Info("plan created", "plan_id", p.ID, "kind", p.Kind)
	return p, nil
}

func (s *service) Update(ctx context.Context, id string, req UpdatePlanRequest) (*Plan, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	req.Apply(p)
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	logger.Info("plan deleted", "plan_id", id)
	return nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Plan, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListAvailable(ctx context.Context) ([]Plan, error) {
	return s.repo.ListActive(ctx)
}

func (s *service) List(ctx context.Context, page api.Page) ([]Plan, int, error) {
	return s.repo.List(ctx, page)
}
