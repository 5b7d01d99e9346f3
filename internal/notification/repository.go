package notification

import (
	"context"
	"encoding/json"

	"gymflow/internal/user"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/lib/pq"
	"github.com/pkg/errors"
)

// Repository is the notification outbox. Writes made through a WithTx copy
// commit or roll back with the business change that caused them.
type Repository interface {
	WithTx(tx sqlx.ExtContext) Repository
	Enqueue(ctx context.Context, msg Message) error
	NotifyRole(ctx context.Context, role string, msg Message) error
	ClaimUndispatched(ctx context.Context, limit int) ([]Pending, error)
	MarkDispatched(ctx context.Context, ids []string) error
	ListForUser(ctx context.Context, userID string, limit int) ([]Notification, error)
}

type repository struct {
	db    sqlx.ExtContext
	users user.Repository
}

func NewRepository(db sqlx.ExtContext) Repository {
	return &repository{db: db, users: user.NewRepository(db)}
}

func (r *repository) WithTx(tx sqlx.ExtContext) Repository {
	return NewRepository(tx)
}

func (r *repository) Enqueue(ctx context.Context, msg Message) error {
	metadata := types.JSONText("{}")
	if len(msg.Metadata) > 0 {
		b, err := json.Marshal(msg.Metadata)
		if err != nil {
			return err
		}
		metadata = b
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO notifications (id, user_id, type, title, message, metadata)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, uuid.NewString(), msg.UserID, msg.Type, msg.Title, msg.Body, metadata)
	if err != nil {
		return errors.Wrap(err, "enqueue notification")
	}
	return nil
}

func (r *repository) NotifyRole(ctx context.Context, role string, msg Message) error {
	ids, err := r.users.ListIDsByRole(ctx, role)
	if err != nil {
		return err
	}

	for _, id := range ids {
		msg.UserID = id
		if err := r.Enqueue(ctx, msg); err != nil {
			return err
		}
	}
	return nil
}

// ClaimUndispatched must run inside a transaction; the rows stay locked
// until it ends and concurrent dispatchers skip them.
func (r *repository) ClaimUndispatched(ctx context.Context, limit int) ([]Pending, error) {
	query := `
		SELECT n.id, n.user_id, n.type, n.title, n.message, n.metadata, n.created_at, n.dispatched_at,
		       u.email, u.name
		FROM notifications n
		JOIN users u ON u.id = n.user_id
		WHERE n.dispatched_at IS NULL
		ORDER BY n.created_at
		LIMIT $1
		FOR UPDATE OF n SKIP LOCKED
	`

	pending := []Pending{}
	if err := sqlx.SelectContext(ctx, r.db, &pending, query, limit); err != nil {
		return nil, errors.Wrap(err, "claim notifications")
	}
	return pending, nil
}

func (r *repository) MarkDispatched(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	_, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET dispatched_at = NOW() WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return errors.Wrap(err, "mark notifications dispatched")
	}
	return nil
}

func (r *repository) ListForUser(ctx context.Context, userID string, limit int) ([]Notification, error) {
	query := `
		SELECT id, user_id, type, title, message, metadata, created_at, dispatched_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	list := []Notification{}
	if err := sqlx.SelectContext(ctx, r.db, &list, query, userID, limit); err != nil {
		return nil, errors.Wrap(err, "list notifications")
	}
	return list, nil
}
