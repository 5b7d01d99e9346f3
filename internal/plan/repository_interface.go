package plan

import (
	"context"

	"gymflow/internal/api"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	WithTx(tx sqlx.ExtContext) Repository
	Create(ctx context.Context, p *Plan) error
	GetByID(ctx context.Context, id string) (*Plan, error)
	Update(ctx context.Context, p *Plan) error
	Delete(ctx context.Context, id string) error
	ListActive(ctx context.Context) ([]Plan, error)
	List(ctx context.Context, page api.Page) ([]Plan, int, error)
}
