package payment

import (
	"context"

	"gymflow/internal/api"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	WithTx(tx sqlx.ExtContext) Repository
	CreatePending(ctx context.Context, p *Payment) error
	GetByID(ctx context.Context, id string) (*Payment, error)
	MarkCompleted(ctx context.Context, id string) (*Payment, error)
	MarkFailed(ctx context.Context, id string) (*Payment, error)
	FindPendingForClient(ctx context.Context, clientID string) (*Payment, error)
	ListForClient(ctx context.Context, clientID string) ([]Payment, error)
	List(ctx context.Context, page api.Page, filter ListFilter) ([]AdminPayment, int, error)
}
