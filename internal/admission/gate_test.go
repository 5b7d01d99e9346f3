package admission

import (
	"context"
	"errors"
	"testing"
	"time"

	"gymflow/internal/plan"
	"gymflow/internal/subscription"

	"github.com/stretchr/testify/assert"
)

var now = time.Date(2025, 5, 10, 9, 0, 0, 0, time.UTC)

func membership(kind plan.Kind, status subscription.Status, end time.Time) subscription.WithPlan {
	return subscription.WithPlan{
		Subscription: subscription.Subscription{ID: "s-" + string(kind), Status: status, EndDate: end},
		PlanKind:     kind,
	}
}

func TestDecide(t *testing.T) {
	tomorrow := now.AddDate(0, 0, 1)
	yesterday := now.AddDate(0, 0, -1)

	tests := []struct {
		name        string
		memberships []subscription.WithPlan
		allowed     []plan.Kind
		want        error
	}{
		{"no memberships", nil, []plan.Kind{plan.KindBasic}, ErrNoActiveMembership},
		{"only expired", []subscription.WithPlan{membership(plan.KindBasic, subscription.StatusExpired, tomorrow)}, nil, ErrNoActiveMembership},
		{"active but past end date", []subscription.WithPlan{membership(plan.KindBasic, subscription.StatusActive, yesterday)}, nil, ErrNoActiveMembership},
		{"ends exactly now", []subscription.WithPlan{membership(plan.KindBasic, subscription.StatusActive, now)}, nil, nil},
		{"basic into premium-only session", []subscription.WithPlan{membership(plan.KindBasic, subscription.StatusActive, tomorrow)}, []plan.Kind{plan.KindPremium}, ErrPlanKindNotPermitted},
		{"basic into unrestricted session", []subscription.WithPlan{membership(plan.KindBasic, subscription.StatusActive, tomorrow)}, nil, nil},
		{"basic into mixed session", []subscription.WithPlan{membership(plan.KindBasic, subscription.StatusActive, tomorrow)}, []plan.Kind{plan.KindPremium, plan.KindBasic}, nil},
		{
			"any current membership matches",
			[]subscription.WithPlan{
				membership(plan.KindBasic, subscription.StatusActive, tomorrow),
				membership(plan.KindPremium, subscription.StatusActive, tomorrow),
			},
			[]plan.Kind{plan.KindPremium},
			nil,
		},
		{
			"expired premium does not count",
			[]subscription.WithPlan{
				membership(plan.KindBasic, subscription.StatusActive, tomorrow),
				membership(plan.KindPremium, subscription.StatusExpired, tomorrow),
			},
			[]plan.Kind{plan.KindPremium},
			ErrPlanKindNotPermitted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.memberships, tt.allowed, now))
		})
	}
}

type stubReader struct {
	memberships []subscription.WithPlan
	err         error
	gotClient   string
	gotNow      time.Time
}

func (s *stubReader) ListActiveWithPlan(_ context.Context, clientID string, at time.Time) ([]subscription.WithPlan, error) {
	s.gotClient = clientID
	s.gotNow = at
	return s.memberships, s.err
}

func TestGate_Check(t *testing.T) {
	reader := &stubReader{memberships: []subscription.WithPlan{
		membership(plan.KindBasic, subscription.StatusActive, now.AddDate(0, 1, 0)),
	}}
	gate := &Gate{memberships: reader, now: func() time.Time { return now }}

	assert.ErrorIs(t, gate.Check(context.Background(), "c1", []plan.Kind{plan.KindPremium}), ErrPlanKindNotPermitted)
	assert.NoError(t, gate.Check(context.Background(), "c1", nil))
	assert.Equal(t, "c1", reader.gotClient)
	assert.Equal(t, now, reader.gotNow)
}

func TestGate_CheckReadError(t *testing.T) {
	boom := errors.New("db down")
	gate := &Gate{memberships: &stubReader{err: boom}, now: func() time.Time { return now }}

	assert.ErrorIs(t, gate.Check(context.Background(), "c1", nil), boom)
}
