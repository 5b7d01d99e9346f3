package subscription

import (
	"context"
	"time"

	"gymflow/internal/api"
	"gymflow/internal/apperrors"
	"gymflow/internal/logger"
	"gymflow/internal/metrics"
)

type Service interface {
	ListForClient(ctx context.Context, clientID string) ([]WithPlan, error)
	Current(ctx context.Context, clientID string) (*WithPlan, error)
	UpdateStatus(ctx context.Context, id string, status Status) (*Subscription, error)
	List(ctx context.Context, page api.Page, filter ListFilter) ([]AdminSubscription, int, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) Service {
	return &service{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// ListForClient sweeps the client's overdue subscriptions before reading so
// the listing never shows a lapsed subscription as active.
func (s *service) ListForClient(ctx context.Context, clientID string) ([]WithPlan, error) {
	n, err := s.repo.ExpireOverdue(ctx, s.now(), clientID)
	if err != nil {
		return nil, err
	}
	metrics.RecordExpired(n)

	return s.repo.ListForClient(ctx, clientID)
}

func (s *service) Current(ctx context.Context, clientID string) (*WithPlan, error) {
	return s.repo.Current(ctx, clientID, s.now())
}

// UpdateStatus is the operator edit. It can expire or cancel a subscription
// but never re-activates one; only an approved payment does that.
func (s *service) UpdateStatus(ctx context.Context, id string, status Status) (*Subscription, error) {
	if status != StatusExpired && status != StatusCancelled {
		return nil, apperrors.ValidationFailed("status must be expired or cancelled")
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(current.Status, status) {
		return nil, apperrors.PreconditionFailed("cannot change subscription from " + string(current.Status) + " to " + string(status))
	}

	updated, err := s.repo.SetStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	logger.Info("subscription status changed", "subscription_id", id, "from", current.Status, "to", status)
	return updated, nil
}

func (s *service) List(ctx context.Context, page api.Page, filter ListFilter) ([]AdminSubscription, int, error) {
	n, err := s.repo.ExpireOverdue(ctx, s.now(), "")
	if err != nil {
		return nil, 0, err
	}
	metrics.RecordExpired(n)

	return s.repo.List(ctx, page, filter)
}
