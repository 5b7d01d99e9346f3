package attendance

import (
	"context"

	"gymflow/internal/apperrors"
	"gymflow/internal/db"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

var (
	ErrAlreadyBooked  = apperrors.PreconditionFailed("client already booked for this session")
	ErrClientNotFound = apperrors.NotFound("client not found")
)

type Repository interface {
	WithTx(tx sqlx.ExtContext) Repository
	Create(ctx context.Context, a *Attendance) error
	CountForSession(ctx context.Context, sessionID string) (int, error)
	Exists(ctx context.Context, sessionID, clientID string) (bool, error)
	ListForClient(ctx context.Context, clientID string) ([]WithDetails, error)
	ListForSession(ctx context.Context, sessionID string) ([]WithDetails, error)
}

const detailsQuery = `
	SELECT a.id, a.session_id, a.client_id, a.created_at,
	       s.title AS session_title, s.start_time AS session_start, s.end_time AS session_end,
	       u.name AS client_name, u.email AS client_email
	FROM attendance a
	JOIN sessions s ON s.id = a.session_id
	JOIN users u ON u.id = a.client_id
`

type repository struct {
	db sqlx.ExtContext
}

func NewRepository(db sqlx.ExtContext) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx sqlx.ExtContext) Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, a *Attendance) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}

	query := `
		INSERT INTO attendance (id, session_id, client_id)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`

	if err := r.db.QueryRowxContext(ctx, query, a.ID, a.SessionID, a.ClientID).Scan(&a.CreatedAt); err != nil {
		switch {
		case db.IsUniqueViolation(err):
			return ErrAlreadyBooked
		case db.IsForeignKeyViolation(err):
			return ErrClientNotFound
		}
		return errors.Wrap(err, "insert attendance")
	}
	return nil
}

func (r *repository) CountForSession(ctx context.Context, sessionID string) (int, error) {
	var count int
	err := sqlx.GetContext(ctx, r.db, &count, `SELECT COUNT(*) FROM attendance WHERE session_id = $1`, sessionID)
	if err != nil {
		return 0, errors.Wrap(err, "count attendance")
	}
	return count, nil
}

// Exists runs after the session row is locked, so an unparsable id here is
// the client's.
func (r *repository) Exists(ctx context.Context, sessionID, clientID string) (bool, error) {
	ok, err := db.Exists(ctx, r.db,
		`SELECT EXISTS(SELECT 1 FROM attendance WHERE session_id = $1 AND client_id = $2)`, sessionID, clientID)
	if db.IsInvalidText(err) {
		return false, ErrClientNotFound
	}
	return ok, err
}

func (r *repository) ListForClient(ctx context.Context, clientID string) ([]WithDetails, error) {
	list := []WithDetails{}
	err := sqlx.SelectContext(ctx, r.db, &list, detailsQuery+`WHERE a.client_id = $1 ORDER BY s.start_time DESC`, clientID)
	if err != nil {
		return nil, errors.Wrap(err, "list client attendance")
	}
	return list, nil
}

func (r *repository) ListForSession(ctx context.Context, sessionID string) ([]WithDetails, error) {
	list := []WithDetails{}
	err := sqlx.SelectContext(ctx, r.db, &list, detailsQuery+`WHERE a.session_id = $1 ORDER BY a.created_at`, sessionID)
	if err != nil {
		return nil, errors.Wrap(err, "list session attendance")
	}
	return list, nil
}
