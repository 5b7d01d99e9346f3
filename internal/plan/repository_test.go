package plan

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"gymflow/internal/api"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var planRowColumns = []string{"id", "name", "description", "kind", "duration_days", "price_cents", "coach_surcharge_cents", "status", "created_at", "updated_at"}

func setupPlanMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	return NewRepository(sqlxDB), mock, func() { sqlxDB.Close() }
}

func TestRepository_CreateAndGet(t *testing.T) {
	repo, mock, close := setupPlanMock(t)
	defer close()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO plans")).
		WithArgs(sqlmock.AnyArg(), "Basic", nil, KindBasic, 30, int64(1000), nil, StatusActive).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	p := &Plan{Name: "Basic", Kind: KindBasic, DurationDays: 30, PriceCents: 1000}
	require.NoError(t, repo.Create(context.Background(), p))
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, StatusActive, p.Status)

	mock.ExpectQuery(regexp.QuoteMeta("FROM plans WHERE id = $1")).
		WithArgs(p.ID).
		WillReturnRows(sqlmock.NewRows(planRowColumns).
			AddRow(p.ID, "Basic", nil, "basic", 30, 1000, nil, "active", now, now))

	got, err := repo.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 30, got.DurationDays)
	assert.Nil(t, got.CoachSurchargeCents)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByIDNotFound(t *testing.T) {
	repo, mock, close := setupPlanMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM plans WHERE id = $1")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrPlanNotFound)

	mock.ExpectQuery(regexp.QuoteMeta("FROM plans WHERE id = $1")).
		WithArgs("p1").
		WillReturnError(&pq.Error{Code: "22P02"})

	_, err = repo.GetByID(context.Background(), "p1")
	assert.ErrorIs(t, err, ErrPlanNotFound)
}

func TestRepository_Delete(t *testing.T) {
	t.Run("blocked when referenced", func(t *testing.T) {
		repo, mock, close := setupPlanMock(t)
		defer close()

		mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM subscriptions WHERE plan_id = $1)")).
			WithArgs("p1").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		err := repo.Delete(context.Background(), "p1")
		assert.ErrorIs(t, err, ErrPlanInUse)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("foreign key race maps to in use", func(t *testing.T) {
		repo, mock, close := setupPlanMock(t)
		defer close()

		mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
			WithArgs("p1").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM plans WHERE id = $1")).
			WithArgs("p1").
			WillReturnError(&pq.Error{Code: "23503"})

		err := repo.Delete(context.Background(), "p1")
		assert.ErrorIs(t, err, ErrPlanInUse)
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock, close := setupPlanMock(t)
		defer close()

		mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
			WithArgs("p9").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM plans WHERE id = $1")).
			WithArgs("p9").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), "p9")
		assert.ErrorIs(t, err, ErrPlanNotFound)
	})
}

func TestRepository_List(t *testing.T) {
	repo, mock, close := setupPlanMock(t)
	defer close()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM plans WHERE name ILIKE $1")).
		WithArgs("%gold%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(11))
	mock.ExpectQuery(regexp.QuoteMeta("LIMIT $2 OFFSET $3")).
		WithArgs("%gold%", 10, 10).
		WillReturnRows(sqlmock.NewRows(planRowColumns).
			AddRow("p11", "Gold", nil, "premium", 90, 9000, 1500, "active", now, now))

	plans, total, err := repo.List(context.Background(), api.Page{Page: 2, PageSize: 10, Search: "gold"})
	require.NoError(t, err)
	assert.Equal(t, 11, total)
	require.Len(t, plans, 1)
	assert.Equal(t, int64(10500), plans[0].Price(true))
}
