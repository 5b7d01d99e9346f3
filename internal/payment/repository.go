package payment

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"gymflow/internal/api"
	"gymflow/internal/apperrors"
	"gymflow/internal/db"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

var (
	ErrPaymentNotFound      = apperrors.NotFound("payment not found")
	ErrNotPending           = apperrors.PreconditionFailed("payment not in pending state")
	ErrNoPendingPayment     = apperrors.NotFound("no pending membership payment")
	ErrPendingPaymentExists = apperrors.PreconditionFailed("client already has a pending membership payment")
)

const paymentColumns = `id, client_id, plan_id, amount_cents, kind, status, method, reference, created_at, updated_at`

type repository struct {
	db sqlx.ExtContext
}

func NewRepository(db sqlx.ExtContext) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx sqlx.ExtContext) Repository {
	return &repository{db: tx}
}

func (r *repository) CreatePending(ctx context.Context, p *Payment) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.Status = StatusPending

	query := `
		INSERT INTO payments (id, client_id, plan_id, amount_cents, kind, status, method, reference)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	row := r.db.QueryRowxContext(ctx, query,
		p.ID, p.ClientID, p.PlanID, p.AmountCents, p.Kind, p.Status, p.Method, p.Reference)
	if err := row.Scan(&p.CreatedAt, &p.UpdatedAt); err != nil {
		// payments_one_pending_per_client
		if db.IsUniqueViolation(err) {
			return ErrPendingPaymentExists
		}
		return errors.Wrap(err, "insert payment")
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Payment, error) {
	var p Payment
	err := sqlx.GetContext(ctx, r.db, &p, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id)
	if db.IsMissing(err) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "get payment")
	}
	return &p, nil
}

func (r *repository) MarkCompleted(ctx context.Context, id string) (*Payment, error) {
	return r.transition(ctx, id, StatusCompleted)
}

func (r *repository) MarkFailed(ctx context.Context, id string) (*Payment, error) {
	return r.transition(ctx, id, StatusFailed)
}

// transition moves a pending payment to status. The WHERE clause is the
// only guard: a second caller blocks on the row lock and then matches zero
// rows once the first commits.
func (r *repository) transition(ctx context.Context, id string, status Status) (*Payment, error) {
	query := `
		UPDATE payments
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
		RETURNING ` + paymentColumns

	var p Payment
	err := sqlx.GetContext(ctx, r.db, &p, query, id, status)
	if db.IsInvalidText(err) {
		return nil, ErrPaymentNotFound
	}
	if errors.Is(err, sql.ErrNoRows) {
		exists, existsErr := db.Exists(ctx, r.db, `SELECT EXISTS(SELECT 1 FROM payments WHERE id = $1)`, id)
		if existsErr != nil {
			return nil, errors.Wrap(existsErr, "check payment")
		}
		if exists {
			return nil, ErrNotPending
		}
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "mark payment %s", status)
	}
	return &p, nil
}

func (r *repository) FindPendingForClient(ctx context.Context, clientID string) (*Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE client_id = $1 AND status = 'pending'
		ORDER BY created_at DESC
		LIMIT 1
	`

	var p Payment
	err := sqlx.GetContext(ctx, r.db, &p, query, clientID)
	if db.IsMissing(err) {
		return nil, ErrNoPendingPayment
	}
	if err != nil {
		return nil, errors.Wrap(err, "find pending payment")
	}
	return &p, nil
}

func (r *repository) ListForClient(ctx context.Context, clientID string) ([]Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE client_id = $1
		ORDER BY created_at DESC
	`

	payments := []Payment{}
	if err := sqlx.SelectContext(ctx, r.db, &payments, query, clientID); err != nil {
		return nil, errors.Wrap(err, "list client payments")
	}
	return payments, nil
}

func (r *repository) List(ctx context.Context, page api.Page, filter ListFilter) ([]AdminPayment, int, error) {
	conds := []string{"(u.name ILIKE $1 OR u.email ILIKE $1)"}
	args := []interface{}{"%" + page.Search + "%"}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("p.status = $%d", len(args)))
	}
	if filter.Kind != "" {
		args = append(args, filter.Kind)
		conds = append(conds, fmt.Sprintf("p.kind = $%d", len(args)))
	}
	where := strings.Join(conds, " AND ")

	var total int
	countQuery := `SELECT COUNT(*) FROM payments p JOIN users u ON u.id = p.client_id WHERE ` + where
	if err := sqlx.GetContext(ctx, r.db, &total, countQuery, args...); err != nil {
		return nil, 0, errors.Wrap(err, "count payments")
	}

	query := fmt.Sprintf(`
		SELECT p.id, p.client_id, p.plan_id, p.amount_cents, p.kind, p.status, p.method, p.reference,
		       p.created_at, p.updated_at, u.name AS client_name, u.email AS client_email
		FROM payments p
		JOIN users u ON u.id = p.client_id
		WHERE %s
		ORDER BY p.created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)

	rows := []AdminPayment{}
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, append(args, page.Limit(), page.Offset())...); err != nil {
		return nil, 0, errors.Wrap(err, "list payments")
	}
	return rows, total, nil
}
