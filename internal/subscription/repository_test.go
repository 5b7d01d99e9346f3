package subscription

import (
	"context"
	"regexp"
	"testing"
	"time"

	"gymflow/internal/api"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var subscriptionRowColumns = []string{"id", "client_id", "plan_id", "start_date", "end_date", "status", "created_at", "updated_at"}

func setupSubscriptionMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	closer := func() { sqlxDB.Close() }
	return repo, mock, closer
}

func TestCreateSubscription(t *testing.T) {
	repo, mock, close := setupSubscriptionMock(t)
	defer close()

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 30)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO subscriptions (id, client_id, plan_id, start_date, end_date, status)")).
		WithArgs(sqlmock.AnyArg(), "c1", "p1", start, end, StatusActive).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(start, start))

	sub := &Subscription{ClientID: "c1", PlanID: "p1", StartDate: start, EndDate: end}
	require.NoError(t, repo.Create(context.Background(), sub))
	assert.NotEmpty(t, sub.ID)
	assert.Equal(t, StatusActive, sub.Status)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetForClient(t *testing.T) {
	repo, mock, close := setupSubscriptionMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $1 AND client_id = $2 FOR UPDATE")).
		WithArgs("s1", "other-client").
		WillReturnRows(sqlmock.NewRows(subscriptionRowColumns))

	_, err := repo.GetForClient(context.Background(), "s1", "other-client")
	assert.ErrorIs(t, err, ErrNotFoundForClient)
}

func TestRenewInPlace(t *testing.T) {
	repo, mock, close := setupSubscriptionMock(t)
	defer close()

	start := time.Now().UTC()
	end := start.AddDate(0, 0, 30)

	mock.ExpectQuery(regexp.QuoteMeta("SET start_date = $2, end_date = $3, status = 'active'")).
		WithArgs("s1", start, end).
		WillReturnRows(sqlmock.NewRows(subscriptionRowColumns).
			AddRow("s1", "c1", "p1", start, end, "active", start, start))

	sub, err := repo.RenewInPlace(context.Background(), "s1", start, end)
	require.NoError(t, err)
	assert.Equal(t, StatusActive, sub.Status)
	assert.Equal(t, end, sub.EndDate)
}

func TestChangePlan(t *testing.T) {
	repo, mock, close := setupSubscriptionMock(t)
	defer close()

	start := time.Now().UTC()
	end := start.AddDate(0, 0, 90)

	mock.ExpectQuery(regexp.QuoteMeta("SET plan_id = $2, start_date = $3, end_date = $4, status = 'active'")).
		WithArgs("s1", "p2", start, end).
		WillReturnRows(sqlmock.NewRows(subscriptionRowColumns).
			AddRow("s1", "c1", "p2", start, end, "active", start, start))

	sub, err := repo.ChangePlan(context.Background(), "s1", "p2", start, end)
	require.NoError(t, err)
	assert.Equal(t, "p2", sub.PlanID)
}

func TestExpireOverdue(t *testing.T) {
	repo, mock, close := setupSubscriptionMock(t)
	defer close()

	now := time.Now().UTC()
	query := regexp.QuoteMeta("SET status = 'expired', updated_at = NOW() WHERE status = 'active' AND end_date < $1")

	mock.ExpectExec(query).WithArgs(now, "").WillReturnResult(sqlmock.NewResult(0, 3))
	n, err := repo.ExpireOverdue(context.Background(), now, "")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	mock.ExpectExec(query).WithArgs(now, "c1").WillReturnResult(sqlmock.NewResult(0, 0))
	n, err = repo.ExpireOverdue(context.Background(), now, "c1")
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListActiveWithPlan(t *testing.T) {
	repo, mock, close := setupSubscriptionMock(t)
	defer close()

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE s.client_id = $1 AND s.status = 'active' AND s.end_date >= $2")).
		WithArgs("c1", now).
		WillReturnRows(sqlmock.NewRows(append(subscriptionRowColumns, "plan_name", "plan_kind")).
			AddRow("s1", "c1", "p1", now, now.AddDate(0, 0, 30), "active", now, now, "Basic", "basic"))

	subs, err := repo.ListActiveWithPlan(context.Background(), "c1", now)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "basic", string(subs[0].PlanKind))
}

func TestList(t *testing.T) {
	repo, mock, close := setupSubscriptionMock(t)
	defer close()

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WithArgs("%ann%", "expired").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("LIMIT $3 OFFSET $4")).
		WithArgs("%ann%", "expired", 10, 0).
		WillReturnRows(sqlmock.NewRows(append(subscriptionRowColumns, "plan_name", "plan_kind", "client_name", "client_email")).
			AddRow("s1", "c1", "p1", now, now, "expired", now, now, "Basic", "basic", "Ann", "ann@example.com"))

	rows, total, err := repo.List(context.Background(), api.Page{Page: 1, PageSize: 10, Search: "ann"}, ListFilter{Status: StatusExpired})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Ann", rows[0].ClientName)
	assert.Equal(t, "Basic", rows[0].PlanName)
}
