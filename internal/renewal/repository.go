package renewal

import (
	"context"

	"gymflow/internal/api"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

type Repository interface {
	WithTx(tx sqlx.ExtContext) Repository
	Create(ctx context.Context, r *Renewal) error
	ListBySubscription(ctx context.Context, subscriptionID string) ([]Renewal, error)
	List(ctx context.Context, page api.Page) ([]AdminRenewal, int, error)
}

type repository struct {
	db sqlx.ExtContext
}

func NewRepository(db sqlx.ExtContext) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx sqlx.ExtContext) Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, rn *Renewal) error {
	if rn.ID == "" {
		rn.ID = uuid.NewString()
	}

	query := `
		INSERT INTO renewals (id, subscription_id, payment_id, new_end_date, amount_cents)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	row := r.db.QueryRowxContext(ctx, query, rn.ID, rn.SubscriptionID, rn.PaymentID, rn.NewEndDate, rn.AmountCents)
	if err := row.Scan(&rn.CreatedAt); err != nil {
		return errors.Wrap(err, "insert renewal")
	}
	return nil
}

func (r *repository) ListBySubscription(ctx context.Context, subscriptionID string) ([]Renewal, error) {
	query := `
		SELECT id, subscription_id, payment_id, new_end_date, amount_cents, created_at
		FROM renewals
		WHERE subscription_id = $1
		ORDER BY created_at DESC
	`

	renewals := []Renewal{}
	if err := sqlx.SelectContext(ctx, r.db, &renewals, query, subscriptionID); err != nil {
		return nil, errors.Wrap(err, "list renewals")
	}
	return renewals, nil
}

func (r *repository) List(ctx context.Context, page api.Page) ([]AdminRenewal, int, error) {
	search := "%" + page.Search + "%"
	from := `
		FROM renewals r
		JOIN subscriptions s ON s.id = r.subscription_id
		JOIN plans p ON p.id = s.plan_id
		JOIN users u ON u.id = s.client_id
		WHERE u.name ILIKE $1 OR p.name ILIKE $1
	`

	var total int
	if err := sqlx.GetContext(ctx, r.db, &total, `SELECT COUNT(*) `+from, search); err != nil {
		return nil, 0, errors.Wrap(err, "count renewals")
	}

	query := `
		SELECT r.id, r.subscription_id, r.payment_id, r.new_end_date, r.amount_cents, r.created_at,
		       s.client_id, u.name AS client_name, p.name AS plan_name
	` + from + `
		ORDER BY r.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows := []AdminRenewal{}
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, search, page.Limit(), page.Offset()); err != nil {
		return nil, 0, errors.Wrap(err, "list renewals")
	}
	return rows, total, nil
}
