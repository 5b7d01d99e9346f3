package admission

import (
	"context"
	"time"

	"gymflow/internal/apperrors"
	"gymflow/internal/metrics"
	"gymflow/internal/plan"
	"gymflow/internal/subscription"
)

var (
	ErrNoActiveMembership   = apperrors.PreconditionFailed("no active membership")
	ErrPlanKindNotPermitted = apperrors.PreconditionFailed("membership type not permitted for this session")
)

// Decide admits a client holding at least one subscription that is active
// at now and, when allowed is non-empty, whose plan kind is listed.
func Decide(memberships []subscription.WithPlan, allowed []plan.Kind, now time.Time) error {
	var current []subscription.WithPlan
	for _, m := range memberships {
		if m.IsCurrent(now) {
			current = append(current, m)
		}
	}
	if len(current) == 0 {
		return ErrNoActiveMembership
	}
	if len(allowed) == 0 {
		return nil
	}

	for _, m := range current {
		for _, k := range allowed {
			if m.PlanKind == k {
				return nil
			}
		}
	}
	return ErrPlanKindNotPermitted
}

type MembershipReader interface {
	ListActiveWithPlan(ctx context.Context, clientID string, now time.Time) ([]subscription.WithPlan, error)
}

// Gate runs Decide against the client's stored subscriptions. It takes no
// locks.
type Gate struct {
	memberships MembershipReader
	now         func() time.Time
}

func NewGate(memberships MembershipReader) *Gate {
	return &Gate{memberships: memberships, now: func() time.Time { return time.Now().UTC() }}
}

func (g *Gate) Check(ctx context.Context, clientID string, allowed []plan.Kind) error {
	now := g.now()
	memberships, err := g.memberships.ListActiveWithPlan(ctx, clientID, now)
	if err != nil {
		return err
	}

	err = Decide(memberships, allowed, now)
	switch err {
	case nil:
		metrics.RecordAdmission("admitted")
	case ErrNoActiveMembership:
		metrics.RecordAdmission("no_membership")
	case ErrPlanKindNotPermitted:
		metrics.RecordAdmission("kind_not_permitted")
	}
	return err
}
