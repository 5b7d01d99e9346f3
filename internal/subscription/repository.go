package subscription

import (
	"context"
	"fmt"
	"time"

	"gymflow/internal/api"
	"gymflow/internal/apperrors"
	"gymflow/internal/db"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

var (
	ErrSubscriptionNotFound = apperrors.NotFound("subscription not found")
	ErrNotFoundForClient    = apperrors.PreconditionFailed("referenced subscription not found for this client")
)

const subscriptionColumns = `id, client_id, plan_id, start_date, end_date, status, created_at, updated_at`

const withPlanColumns = `
	s.id, s.client_id, s.plan_id, s.start_date, s.end_date, s.status, s.created_at, s.updated_at,
	p.name AS plan_name, p.kind AS plan_kind`

type repository struct {
	db sqlx.ExtContext
}

func NewRepository(db sqlx.ExtContext) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx sqlx.ExtContext) Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, s *Subscription) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.Status == "" {
		s.Status = StatusActive
	}

	query := `
		INSERT INTO subscriptions (id, client_id, plan_id, start_date, end_date, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	row := r.db.QueryRowxContext(ctx, query, s.ID, s.ClientID, s.PlanID, s.StartDate, s.EndDate, s.Status)
	if err := row.Scan(&s.CreatedAt, &s.UpdatedAt); err != nil {
		return errors.Wrap(err, "insert subscription")
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Subscription, error) {
	return r.getOne(ctx, ErrSubscriptionNotFound,
		`SELECT `+subscriptionColumns+` FROM subscriptions WHERE id = $1`, id)
}

// GetForClient locks the row for the rest of the surrounding transaction.
func (r *repository) GetForClient(ctx context.Context, id, clientID string) (*Subscription, error) {
	return r.getOne(ctx, ErrNotFoundForClient,
		`SELECT `+subscriptionColumns+` FROM subscriptions WHERE id = $1 AND client_id = $2 FOR UPDATE`, id, clientID)
}

func (r *repository) RenewInPlace(ctx context.Context, id string, start, end time.Time) (*Subscription, error) {
	return r.getOne(ctx, ErrSubscriptionNotFound, `
		UPDATE subscriptions
		SET start_date = $2, end_date = $3, status = 'active', updated_at = NOW()
		WHERE id = $1
		RETURNING `+subscriptionColumns, id, start, end)
}

func (r *repository) ChangePlan(ctx context.Context, id, planID string, start, end time.Time) (*Subscription, error) {
	return r.getOne(ctx, ErrSubscriptionNotFound, `
		UPDATE subscriptions
		SET plan_id = $2, start_date = $3, end_date = $4, status = 'active', updated_at = NOW()
		WHERE id = $1
		RETURNING `+subscriptionColumns, id, planID, start, end)
}

func (r *repository) SetStatus(ctx context.Context, id string, status Status) (*Subscription, error) {
	return r.getOne(ctx, ErrSubscriptionNotFound, `
		UPDATE subscriptions
		SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING `+subscriptionColumns, id, status)
}

func (r *repository) getOne(ctx context.Context, notFound error, query string, args ...interface{}) (*Subscription, error) {
	var s Subscription
	err := sqlx.GetContext(ctx, r.db, &s, query, args...)
	if db.IsMissing(err) {
		return nil, notFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "subscription query")
	}
	return &s, nil
}

// ExpireOverdue flips every active subscription that ended before now to
// expired. An empty clientID sweeps all clients.
func (r *repository) ExpireOverdue(ctx context.Context, now time.Time, clientID string) (int64, error) {
	query := `
		UPDATE subscriptions
		SET status = 'expired', updated_at = NOW()
		WHERE status = 'active' AND end_date < $1 AND ($2 = '' OR client_id::text = $2)
	`

	result, err := r.db.ExecContext(ctx, query, now, clientID)
	if err != nil {
		return 0, errors.Wrap(err, "expire overdue subscriptions")
	}
	return result.RowsAffected()
}

func (r *repository) HasActiveForClient(ctx context.Context, clientID string, now time.Time) (bool, error) {
	return db.Exists(ctx, r.db, `
		SELECT EXISTS(
			SELECT 1 FROM subscriptions
			WHERE client_id = $1 AND status = 'active' AND end_date >= $2
		)
	`, clientID, now)
}

func (r *repository) ListActiveWithPlan(ctx context.Context, clientID string, now time.Time) ([]WithPlan, error) {
	query := `
		SELECT ` + withPlanColumns + `
		FROM subscriptions s
		JOIN plans p ON p.id = s.plan_id
		WHERE s.client_id = $1 AND s.status = 'active' AND s.end_date >= $2
		ORDER BY s.end_date DESC
	`

	subs := []WithPlan{}
	if err := sqlx.SelectContext(ctx, r.db, &subs, query, clientID, now); err != nil {
		return nil, errors.Wrap(err, "list active subscriptions")
	}
	return subs, nil
}

func (r *repository) Current(ctx context.Context, clientID string, now time.Time) (*WithPlan, error) {
	subs, err := r.ListActiveWithPlan(ctx, clientID, now)
	if err != nil {
		return nil, err
	}
	if len(subs) == 0 {
		return nil, nil
	}
	return &subs[0], nil
}

func (r *repository) ListForClient(ctx context.Context, clientID string) ([]WithPlan, error) {
	query := `
		SELECT ` + withPlanColumns + `
		FROM subscriptions s
		JOIN plans p ON p.id = s.plan_id
		WHERE s.client_id = $1
		ORDER BY s.start_date DESC
	`

	subs := []WithPlan{}
	if err := sqlx.SelectContext(ctx, r.db, &subs, query, clientID); err != nil {
		return nil, errors.Wrap(err, "list client subscriptions")
	}
	return subs, nil
}

func (r *repository) List(ctx context.Context, page api.Page, filter ListFilter) ([]AdminSubscription, int, error) {
	where := `(u.name ILIKE $1 OR u.email ILIKE $1 OR p.name ILIKE $1) AND ($2 = '' OR s.status = $2)`
	args := []interface{}{"%" + page.Search + "%", string(filter.Status)}

	var total int
	countQuery := `
		SELECT COUNT(*)
		FROM subscriptions s
		JOIN plans p ON p.id = s.plan_id
		JOIN users u ON u.id = s.client_id
		WHERE ` + where
	if err := sqlx.GetContext(ctx, r.db, &total, countQuery, args...); err != nil {
		return nil, 0, errors.Wrap(err, "count subscriptions")
	}

	query := fmt.Sprintf(`
		SELECT %s, u.name AS client_name, u.email AS client_email
		FROM subscriptions s
		JOIN plans p ON p.id = s.plan_id
		JOIN users u ON u.id = s.client_id
		WHERE %s
		ORDER BY s.created_at DESC
		LIMIT $3 OFFSET $4
	`, withPlanColumns, where)

	rows := []AdminSubscription{}
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, append(args, page.Limit(), page.Offset())...); err != nil {
		return nil, 0, errors.Wrap(err, "list subscriptions")
	}
	return rows, total, nil
}
