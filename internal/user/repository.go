package user

import (
	"context"
	"database/sql"
	"strings"

	"gymflow/internal/db"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

var ErrUserNotFound = errors.New("user not found")

type repository struct {
	db sqlx.QueryerContext
}

func NewRepository(db sqlx.QueryerContext) Repository {
	return &repository{db: db}
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	query := `
		SELECT id, name, email, password_hash, role, created_at
		FROM users
		WHERE lower(email) = $1
	`

	var u User
	err := sqlx.GetContext(ctx, r.db, &u, query, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "find user by email")
	}

	return &u, nil
}

func (r *repository) FindByID(ctx context.Context, id string) (*User, error) {
	query := `
		SELECT id, name, email, password_hash, role, created_at
		FROM users
		WHERE id = $1
	`

	var u User
	err := sqlx.GetContext(ctx, r.db, &u, query, id)
	if db.IsMissing(err) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "find user by id")
	}

	return &u, nil
}

func (r *repository) ListIDsByRole(ctx context.Context, role string) ([]string, error) {
	query := `SELECT id FROM users WHERE role = $1 ORDER BY created_at`

	ids := []string{}
	if err := sqlx.SelectContext(ctx, r.db, &ids, query, role); err != nil {
		return nil, errors.Wrap(err, "list users by role")
	}
	return ids, nil
}
