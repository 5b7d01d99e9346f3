package schedule

import (
	"context"
	"time"

	"gymflow/internal/api"
	"gymflow/internal/apperrors"
	"gymflow/internal/db"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

var ErrSessionNotFound = apperrors.NotFound("session not found")

const sessionColumns = `id, title, start_time, end_time, staff_id, capacity, allowed_plan_kinds, created_at`

type Repository interface {
	WithTx(tx sqlx.ExtContext) Repository
	Create(ctx context.Context, s *Session) error
	GetByID(ctx context.Context, id string) (*Session, error)
	Lock(ctx context.Context, id string) (*Session, error)
	List(ctx context.Context, page api.Page, from *time.Time) ([]SessionWithAvailability, int, error)
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

func (r *repository) Create(ctx context.Context, s *Session) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}

	query := `
		INSERT INTO sessions (id, title, start_time, end_time, staff_id, capacity, allowed_plan_kinds)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`

	row := r.db.QueryRowxContext(ctx, query,
		s.ID, s.Title, s.StartTime, s.EndTime, s.StaffID, s.Capacity, s.AllowedPlanKinds)
	if err := row.Scan(&s.CreatedAt); err != nil {
		return errors.Wrap(err, "insert session")
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Session, error) {
	return r.getOne(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE id = $1`, id)
}

// Lock reads the session and holds its row until the transaction ends, so
// concurrent bookings of the same session run one at a time.
func (r *repository) Lock(ctx context.Context, id string) (*Session, error) {
	return r.getOne(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE id = $1 FOR UPDATE`, id)
}

func (r *repository) getOne(ctx context.Context, query string, args ...interface{}) (*Session, error) {
	var s Session
	err := sqlx.GetContext(ctx, r.db, &s, query, args...)
	if db.IsMissing(err) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "get session")
	}
	return &s, nil
}

// List pages sessions by start time. A nil from lists every session.
func (r *repository) List(ctx context.Context, page api.Page, from *time.Time) ([]SessionWithAvailability, int, error) {
	search := "%" + page.Search + "%"

	var total int
	err := sqlx.GetContext(ctx, r.db, &total, `
		SELECT COUNT(*) FROM sessions
		WHERE title ILIKE $1 AND ($2::timestamptz IS NULL OR start_time >= $2)
	`, search, from)
	if err != nil {
		return nil, 0, errors.Wrap(err, "count sessions")
	}

	query := `
		SELECT s.id, s.title, s.start_time, s.end_time, s.staff_id, s.capacity, s.allowed_plan_kinds, s.created_at,
		       (SELECT COUNT(*) FROM attendance a WHERE a.session_id = s.id) AS booked_count
		FROM sessions s
		WHERE s.title ILIKE $1 AND ($2::timestamptz IS NULL OR s.start_time >= $2)
		ORDER BY s.start_time
		LIMIT $3 OFFSET $4
	`

	sessions := []SessionWithAvailability{}
	if err := sqlx.SelectContext(ctx, r.db, &sessions, query, search, from, page.Limit(), page.Offset()); err != nil {
		return nil, 0, errors.Wrap(err, "list sessions")
	}
	return sessions, total, nil
}
