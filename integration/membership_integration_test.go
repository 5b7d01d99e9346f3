package integration_test

import (
	"context"
	"testing"
	"time"

	"gymflow/internal/admission"
	"gymflow/internal/attendance"
	"gymflow/internal/auth"
	"gymflow/internal/membership"
	"gymflow/internal/notification"
	"gymflow/internal/payment"
	"gymflow/internal/plan"
	"gymflow/internal/renewal"
	"gymflow/internal/schedule"
	"gymflow/internal/subscription"
	"gymflow/internal/user"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stack struct {
	memberships membership.Service
	sessions    schedule.Service
	attendance  attendance.Service
	outbox      notification.Repository
	subs        subscription.Repository
}

func newStack(conn *sqlx.DB) stack {
	payments := payment.NewRepository(conn)
	plans := plan.NewRepository(conn)
	subs := subscription.NewRepository(conn)
	outbox := notification.NewRepository(conn)
	sessions := schedule.NewRepository(conn)

	return stack{
		memberships: membership.NewService(conn, payments, plans, subs, renewal.NewRepository(conn), outbox),
		sessions:    schedule.NewService(sessions, user.NewRepository(conn)),
		attendance:  attendance.NewService(conn, attendance.NewRepository(conn), sessions, outbox, admission.NewGate(subs)),
		outbox:      outbox,
		subs:        subs,
	}
}

type recordingMailer struct {
	sent []string
}

func (m *recordingMailer) SendNotification(_ context.Context, to, _, _, _ string) error {
	m.sent = append(m.sent, to)
	return nil
}

func TestMembershipApprovalFlow_Integration(t *testing.T) {
	conn := setupTestDB(t)
	s := newStack(conn)
	ctx := context.Background()

	adminID := createUser(t, conn, "admin@test.com", auth.RoleAdmin)
	clientID := createUser(t, conn, "client@test.com", auth.RoleClient)
	monthly := createPlan(t, conn, "Monthly", plan.KindBasic, 30, 1000)

	pending, err := s.memberships.Apply(ctx, clientID, membership.ApplyRequest{
		PlanID: monthly.ID,
		Method: payment.MethodCash,
	})
	require.NoError(t, err)
	assert.Equal(t, payment.StatusPending, pending.Status)
	assert.Equal(t, int64(1000), pending.AmountCents)

	_, err = s.memberships.Apply(ctx, clientID, membership.ApplyRequest{PlanID: monthly.ID, Method: payment.MethodCash})
	assert.ErrorIs(t, err, payment.ErrPendingPaymentExists)

	adminInbox, err := s.outbox.ListForUser(ctx, adminID, 10)
	require.NoError(t, err)
	require.Len(t, adminInbox, 1)
	assert.Equal(t, notification.TypeMembershipApplication, adminInbox[0].Type)

	result, err := s.memberships.Approve(ctx, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, payment.StatusCompleted, result.Payment.Status)
	require.NotNil(t, result.Subscription)
	assert.Equal(t, subscription.StatusActive, result.Subscription.Status)
	assert.WithinDuration(t, result.Subscription.StartDate.AddDate(0, 0, 30), result.Subscription.EndDate, time.Second)

	_, err = s.memberships.Approve(ctx, pending.ID)
	assert.ErrorIs(t, err, payment.ErrNotPending)

	_, err = s.memberships.Apply(ctx, clientID, membership.ApplyRequest{PlanID: monthly.ID, Method: payment.MethodCash})
	assert.ErrorIs(t, err, membership.ErrAlreadyActive)

	mailer := &recordingMailer{}
	sent, err := notification.NewDispatcher(conn, s.outbox, mailer, 10).DispatchPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	assert.ElementsMatch(t, []string{"admin@test.com", "client@test.com"}, mailer.sent)
}

func TestRejectLeavesNoSubscription_Integration(t *testing.T) {
	conn := setupTestDB(t)
	s := newStack(conn)
	ctx := context.Background()

	clientID := createUser(t, conn, "client@test.com", auth.RoleClient)
	monthly := createPlan(t, conn, "Monthly", plan.KindBasic, 30, 1000)

	pending, err := s.memberships.Apply(ctx, clientID, membership.ApplyRequest{PlanID: monthly.ID, Method: payment.MethodCash})
	require.NoError(t, err)

	rejected, err := s.memberships.Reject(ctx, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, payment.StatusFailed, rejected.Status)

	active, err := s.subs.HasActiveForClient(ctx, clientID, time.Now())
	require.NoError(t, err)
	assert.False(t, active)
}

func TestSessionBookingRules_Integration(t *testing.T) {
	conn := setupTestDB(t)
	s := newStack(conn)
	ctx := context.Background()

	createUser(t, conn, "admin@test.com", auth.RoleAdmin)
	coachID := createUser(t, conn, "coach@test.com", auth.RoleCoach)
	basicClient := createUser(t, conn, "basic@test.com", auth.RoleClient)
	premiumClient := createUser(t, conn, "premium@test.com", auth.RoleClient)
	otherPremium := createUser(t, conn, "premium2@test.com", auth.RoleClient)
	basic := createPlan(t, conn, "Basic", plan.KindBasic, 30, 1000)
	premium := createPlan(t, conn, "Premium", plan.KindPremium, 30, 2000)

	approve := func(clientID, planID string) {
		p, err := s.memberships.Apply(ctx, clientID, membership.ApplyRequest{PlanID: planID, Method: payment.MethodCash})
		require.NoError(t, err)
		_, err = s.memberships.Approve(ctx, p.ID)
		require.NoError(t, err)
	}
	approve(basicClient, basic.ID)
	approve(premiumClient, premium.ID)
	approve(otherPremium, premium.ID)

	capacity := 1
	start := time.Now().Add(48 * time.Hour).UTC()
	session, err := s.sessions.Create(ctx, schedule.CreateSessionRequest{
		Title:            "Premium HIIT",
		StartTime:        start.Format(time.RFC3339),
		EndTime:          start.Add(time.Hour).Format(time.RFC3339),
		StaffID:          &coachID,
		Capacity:         &capacity,
		AllowedPlanKinds: []plan.Kind{plan.KindPremium},
	})
	require.NoError(t, err)

	_, err = s.attendance.Book(ctx, basicClient, session.ID)
	assert.ErrorIs(t, err, admission.ErrPlanKindNotPermitted)

	booked, err := s.attendance.Book(ctx, premiumClient, session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.ID, booked.SessionID)

	_, err = s.attendance.Book(ctx, premiumClient, session.ID)
	assert.ErrorIs(t, err, attendance.ErrAlreadyBooked)

	_, err = s.attendance.Book(ctx, otherPremium, session.ID)
	assert.ErrorIs(t, err, attendance.ErrSessionFull)

	coachInbox, err := s.outbox.ListForUser(ctx, coachID, 10)
	require.NoError(t, err)
	require.Len(t, coachInbox, 1)
	assert.Equal(t, notification.TypeSessionBooked, coachInbox[0].Type)
}

func TestExpirySweep_Integration(t *testing.T) {
	conn := setupTestDB(t)
	ctx := context.Background()

	clientID := createUser(t, conn, "client@test.com", auth.RoleClient)
	monthly := createPlan(t, conn, "Monthly", plan.KindBasic, 30, 1000)

	subs := subscription.NewRepository(conn)
	past := time.Now().AddDate(0, -2, 0).UTC()
	overdue := &subscription.Subscription{
		ClientID:  clientID,
		PlanID:    monthly.ID,
		StartDate: past,
		EndDate:   past.AddDate(0, 0, 30),
		Status:    subscription.StatusActive,
	}
	require.NoError(t, subs.Create(ctx, overdue))

	n, err := subscription.NewSweeper(subs).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := subs.GetByID(ctx, overdue.ID)
	require.NoError(t, err)
	assert.Equal(t, subscription.StatusExpired, got.Status)
}
