package payment

import (
	"context"
	"errors"

	"gymflow/internal/api"
	"gymflow/internal/logger"
	"gymflow/internal/plan"
)

type Service interface {
	ListForClient(ctx context.Context, clientID string) ([]Payment, error)
	GetPending(ctx context.Context, clientID string) (*PendingView, error)
	CancelPending(ctx context.Context, clientID string) error
	List(ctx context.Context, page api.Page, filter ListFilter) ([]AdminPayment, int, error)
}

type service struct {
	repo  Repository
	plans plan.Repository
}

func NewService(repo Repository, plans plan.Repository) Service {
	return &service{repo: repo, plans: plans}
}

func (s *service) ListForClient(ctx context.Context, clientID string) ([]Payment, error) {
	return s.repo.ListForClient(ctx, clientID)
}

// GetPending returns nil without error when the client has nothing pending.
func (s *service) GetPending(ctx context.Context, clientID string) (*PendingView, error) {
	p, err := s.repo.FindPendingForClient(ctx, clientID)
	if errors.Is(err, ErrNoPendingPayment) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	ref := ParseReference(string(p.Reference))
	view := &PendingView{
		ID:          p.ID,
		Kind:        p.Kind,
		AmountCents: p.AmountCents,
		Method:      p.Method,
		CreatedAt:   p.CreatedAt,
		Reference:   ref.Reference,
		ProofURL:    ref.ProofURL,
	}

	if ref.PlanID != "" {
		pl, err := s.plans.GetByID(ctx, ref.PlanID)
		switch {
		case err == nil:
			view.Plan = pl
		case !errors.Is(err, plan.ErrPlanNotFound):
			return nil, err
		}
	}
	return view, nil
}

func (s *service) CancelPending(ctx context.Context, clientID string) error {
	p, err := s.repo.FindPendingForClient(ctx, clientID)
	if err != nil {
		return err
	}

	if _, err := s.repo.MarkFailed(ctx, p.ID); err != nil {
		return err
	}

	logger.Info("pending payment cancelled by client", "payment_id", p.ID, "client_id", clientID)
	return nil
}

func (s *service) List(ctx context.Context, page api.Page, filter ListFilter) ([]AdminPayment, int, error) {
	rows, total, err := s.repo.List(ctx, page, filter)
	if err != nil {
		return nil, 0, err
	}
	for i := range rows {
		rows[i].Details = ParseReference(string(rows[i].Reference))
	}
	return rows, total, nil
}
