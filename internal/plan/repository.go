package plan

import (
	"context"

	"gymflow/internal/api"
	"gymflow/internal/apperrors"
	"gymflow/internal/db"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

var (
	ErrPlanNotFound = apperrors.NotFound("plan not found")
	ErrPlanInUse    = apperrors.PreconditionFailed("plan is referenced by subscriptions or payments")
)

const planColumns = `id, name, description, kind, duration_days, price_cents, coach_surcharge_cents, status, created_at, updated_at`

type repository struct {
	db sqlx.ExtContext
}

func NewRepository(db sqlx.ExtContext) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx sqlx.ExtContext) Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, p *Plan) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Status == "" {
		p.Status = StatusActive
	}

	query := `
		INSERT INTO plans (id, name, description, kind, duration_days, price_cents, coach_surcharge_cents, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	row := r.db.QueryRowxContext(ctx, query,
		p.ID, p.Name, p.Description, p.Kind, p.DurationDays, p.PriceCents, p.CoachSurchargeCents, p.Status)
	if err := row.Scan(&p.CreatedAt, &p.UpdatedAt); err != nil {
		return errors.Wrap(err, "insert plan")
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans WHERE id = $1`

	var p Plan
	err := sqlx.GetContext(ctx, r.db, &p, query, id)
	if db.IsMissing(err) {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "get plan")
	}
	return &p, nil
}

func (r *repository) Update(ctx context.Context, p *Plan) error {
	query := `
		UPDATE plans
		SET name = $2, description = $3, kind = $4, duration_days = $5,
		    price_cents = $6, coach_surcharge_cents = $7, status = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	row := r.db.QueryRowxContext(ctx, query,
		p.ID, p.Name, p.Description, p.Kind, p.DurationDays, p.PriceCents, p.CoachSurchargeCents, p.Status)
	err := row.Scan(&p.UpdatedAt)
	if db.IsMissing(err) {
		return ErrPlanNotFound
	}
	if err != nil {
		return errors.Wrap(err, "update plan")
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	inUse, err := db.Exists(ctx, r.db, `
		SELECT EXISTS(SELECT 1 FROM subscriptions WHERE plan_id = $1)
		    OR EXISTS(SELECT 1 FROM payments WHERE plan_id = $1)
	`, id)
	if db.IsInvalidText(err) {
		return ErrPlanNotFound
	}
	if err != nil {
		return errors.Wrap(err, "check plan references")
	}
	if inUse {
		return ErrPlanInUse
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM plans WHERE id = $1`, id)
	if err != nil {
		// A reference inserted after the check still trips the foreign key.
		if db.IsForeignKeyViolation(err) {
			return ErrPlanInUse
		}
		return errors.Wrap(err, "delete plan")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrPlanNotFound
	}
	return nil
}

func (r *repository) ListActive(ctx context.Context) ([]Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans WHERE status = 'active' ORDER BY price_cents ASC, name ASC`

	plans := []Plan{}
	if err := sqlx.SelectContext(ctx, r.db, &plans, query); err != nil {
		return nil, errors.Wrap(err, "list active plans")
	}
	return plans, nil
}

func (r *repository) List(ctx context.Context, page api.Page) ([]Plan, int, error) {
	search := "%" + page.Search + "%"

	var total int
	if err := sqlx.GetContext(ctx, r.db, &total, `SELECT COUNT(*) FROM plans WHERE name ILIKE $1`, search); err != nil {
		return nil, 0, errors.Wrap(err, "count plans")
	}

	query := `
		SELECT ` + planColumns + `
		FROM plans
		WHERE name ILIKE $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	plans := []Plan{}
	if err := sqlx.SelectContext(ctx, r.db, &plans, query, search, page.Limit(), page.Offset()); err != nil {
		return nil, 0, errors.Wrap(err, "list plans")
	}
	return plans, total, nil
}
