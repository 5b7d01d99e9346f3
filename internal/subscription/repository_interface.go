package subscription

import (
	"context"
	"time"

	"gymflow/internal/api"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	WithTx(tx sqlx.ExtContext) Repository
	Create(ctx context.Context, s *Subscription) error
	GetByID(ctx context.Context, id string) (*Subscription, error)
	GetForClient(ctx context.Context, id, clientID string) (*Subscription, error)
	RenewInPlace(ctx context.Context, id string, start, end time.Time) (*Subscription, error)
	ChangePlan(ctx context.Context, id, planID string, start, end time.Time) (*Subscription, error)
	SetStatus(ctx context.Context, id string, status Status) (*Subscription, error)
	ExpireOverdue(ctx context.Context, now time.Time, clientID string) (int64, error)
	HasActiveForClient(ctx context.Context, clientID string, now time.Time) (bool, error)
	ListActiveWithPlan(ctx context.Context, clientID string, now time.Time) ([]WithPlan, error)
	Current(ctx context.Context, clientID string, now time.Time) (*WithPlan, error)
	ListForClient(ctx context.Context, clientID string) ([]WithPlan, error)
	List(ctx context.Context, page api.Page, filter ListFilter) ([]AdminSubscription, int, error)
}
