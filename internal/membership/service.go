package membership

import (
	"context"
	"fmt"
	"time"

	"gymflow/internal/apperrors"
	"gymflow/internal/auth"
	"gymflow/internal/db"
	"gymflow/internal/logger"
	"gymflow/internal/metrics"
	"gymflow/internal/notification"
	"gymflow/internal/payment"
	"gymflow/internal/plan"
	"gymflow/internal/renewal"
	"gymflow/internal/subscription"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

var (
	ErrPlanUnavailable = apperrors.NotFound("plan not found or inactive")
	ErrAlreadyActive   = apperrors.PreconditionFailed("client already has an active membership")
)

const dateLayout = "Jan 2, 2006"

type Service interface {
	Apply(ctx context.Context, clientID string, req ApplyRequest) (*payment.Payment, error)
	Renew(ctx context.Context, clientID string, req RenewRequest) (*payment.Payment, error)
	Approve(ctx context.Context, paymentID string) (*ApprovalResult, error)
	Reject(ctx context.Context, paymentID string) (*payment.Payment, error)
}

type service struct {
	db            *sqlx.DB
	payments      payment.Repository
	plans         plan.Repository
	subscriptions subscription.Repository
	renewals      renewal.Repository
	outbox        notification.Repository
	now           func() time.Time
}

func NewService(
	sqlDB *sqlx.DB,
	payments payment.Repository,
	plans plan.Repository,
	subscriptions subscription.Repository,
	renewals renewal.Repository,
	outbox notification.Repository,
) Service {
	return &service{
		db:            sqlDB,
		payments:      payments,
		plans:         plans,
		subscriptions: subscriptions,
		renewals:      renewals,
		outbox:        outbox,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// repos is the set of repositories bound to one transaction.
type repos struct {
	payments      payment.Repository
	plans         plan.Repository
	subscriptions subscription.Repository
	renewals      renewal.Repository
	outbox        notification.Repository
}

func (s *service) inTx(ctx context.Context, fn func(r repos) error) error {
	return db.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		return fn(repos{
			payments:      s.payments.WithTx(tx),
			plans:         s.plans.WithTx(tx),
			subscriptions: s.subscriptions.WithTx(tx),
			renewals:      s.renewals.WithTx(tx),
			outbox:        s.outbox.WithTx(tx),
		})
	})
}

func activePlan(ctx context.Context, plans plan.Repository, id string) (*plan.Plan, error) {
	p, err := plans.GetByID(ctx, id)
	if errors.Is(err, plan.ErrPlanNotFound) {
		return nil, ErrPlanUnavailable
	}
	if err != nil {
		return nil, err
	}
	if !p.IsActive() {
		return nil, ErrPlanUnavailable
	}
	return p, nil
}

func ensureNoPending(ctx context.Context, payments payment.Repository, clientID string) error {
	_, err := payments.FindPendingForClient(ctx, clientID)
	switch {
	case err == nil:
		return payment.ErrPendingPaymentExists
	case errors.Is(err, payment.ErrNoPendingPayment):
		return nil
	default:
		return err
	}
}

func (s *service) Apply(ctx context.Context, clientID string, req ApplyRequest) (*payment.Payment, error) {
	var created *payment.Payment

	err := s.inTx(ctx, func(r repos) error {
		p, err := activePlan(ctx, r.plans, req.PlanID)
		if err != nil {
			return err
		}
		if err := ensureNoPending(ctx, r.payments, clientID); err != nil {
			return err
		}

		proof := payment.Proof{Reference: req.Reference, URL: req.ProofURL}
		var request payment.Request
		title := "New membership application"

		if from := deref(req.UpgradeFromSubscriptionID); from != "" {
			if _, err := r.subscriptions.GetForClient(ctx, from, clientID); err != nil {
				return err
			}
			request = payment.UpgradeRequest{
				PlanID:             p.ID,
				FromSubscriptionID: from,
				WithCoachSurcharge: req.WithCoachSurcharge,
				Proof:              proof,
			}
			title = "Membership upgrade request"
		} else {
			active, err := r.subscriptions.HasActiveForClient(ctx, clientID, s.now())
			if err != nil {
				return err
			}
			if active {
				return ErrAlreadyActive
			}
			request = payment.NewMembershipRequest{PlanID: p.ID, WithCoachSurcharge: req.WithCoachSurcharge, Proof: proof}
		}

		created, err = s.createPending(ctx, r, clientID, p, payment.KindMembership, req.Method, request, req.WithCoachSurcharge)
		if err != nil {
			return err
		}

		return r.outbox.NotifyRole(ctx, auth.RoleAdmin, notification.Message{
			Type:     notification.TypeMembershipApplication,
			Title:    title,
			Body:     fmt.Sprintf("A client requested the %s plan for %s.", p.Name, formatCents(created.AmountCents)),
			Metadata: map[string]string{"paymentId": created.ID, "clientId": clientID},
		})
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordPaymentRequest(string(payment.KindMembership))
	logger.Info("membership requested", "payment_id", created.ID, "client_id", clientID)
	return created, nil
}

func (s *service) Renew(ctx context.Context, clientID string, req RenewRequest) (*payment.Payment, error) {
	var created *payment.Payment

	err := s.inTx(ctx, func(r repos) error {
		sub, err := r.subscriptions.GetForClient(ctx, req.SubscriptionID, clientID)
		if err != nil {
			return err
		}
		p, err := activePlan(ctx, r.plans, sub.PlanID)
		if err != nil {
			return err
		}
		if err := ensureNoPending(ctx, r.payments, clientID); err != nil {
			return err
		}

		request := payment.RenewalRequest{
			PlanID:         p.ID,
			SubscriptionID: sub.ID,
			Proof:          payment.Proof{Reference: req.Reference, URL: req.ProofURL},
		}
		created, err = s.createPending(ctx, r, clientID, p, payment.KindRenewal, req.Method, request, false)
		if err != nil {
			return err
		}

		return r.outbox.NotifyRole(ctx, auth.RoleAdmin, notification.Message{
			Type:     notification.TypeRenewalApplication,
			Title:    "Membership renewal request",
			Body:     fmt.Sprintf("A client asked to renew the %s plan for %s.", p.Name, formatCents(created.AmountCents)),
			Metadata: map[string]string{"paymentId": created.ID, "subscriptionId": sub.ID},
		})
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordPaymentRequest(string(payment.KindRenewal))
	logger.Info("renewal requested", "payment_id", created.ID, "subscription_id", req.SubscriptionID)
	return created, nil
}

func (s *service) createPending(
	ctx context.Context,
	r repos,
	clientID string,
	p *plan.Plan,
	kind payment.Kind,
	method payment.Method,
	request payment.Request,
	withCoach bool,
) (*payment.Payment, error) {
	ref, err := payment.EncodeRequest(request)
	if err != nil {
		return nil, errors.Wrap(err, "encode payment reference")
	}

	planID := p.ID
	created := &payment.Payment{
		ClientID:    clientID,
		PlanID:      &planID,
		AmountCents: p.Price(withCoach),
		Kind:        kind,
		Method:      method,
		Reference:   payment.StoredReference(ref),
	}
	if err := r.payments.CreatePending(ctx, created); err != nil {
		return nil, err
	}
	return created, nil
}

// Approve claims the payment and applies its request in one transaction.
// A second approval of the same payment waits on the row lock and then
// fails with payment.ErrNotPending.
func (s *service) Approve(ctx context.Context, paymentID string) (*ApprovalResult, error) {
	result := &ApprovalResult{}
	var planKind plan.Kind
	var created bool

	err := s.inTx(ctx, func(r repos) error {
		paid, err := r.payments.MarkCompleted(ctx, paymentID)
		if err != nil {
			return err
		}
		result.Payment = paid

		request, err := payment.DecodeRequest(paid.Kind, string(paid.Reference))
		if err != nil {
			return err
		}

		p, err := activePlan(ctx, r.plans, request.TargetPlanID())
		if err != nil {
			return err
		}
		planKind = p.Kind

		now := s.now()
		start, end := now, p.EndDate(now)
		msg := notification.Message{
			UserID:   paid.ClientID,
			Type:     notification.TypeMembershipApproved,
			Title:    "Membership approved",
			Metadata: map[string]string{"paymentId": paid.ID},
		}

		switch req := request.(type) {
		case payment.NewMembershipRequest:
			active, err := r.subscriptions.HasActiveForClient(ctx, paid.ClientID, now)
			if err != nil {
				return err
			}
			if active {
				return ErrAlreadyActive
			}

			sub := &subscription.Subscription{
				ClientID:  paid.ClientID,
				PlanID:    p.ID,
				StartDate: start,
				EndDate:   end,
				Status:    subscription.StatusActive,
			}
			if err := r.subscriptions.Create(ctx, sub); err != nil {
				return err
			}
			result.Subscription = sub
			created = true

		case payment.UpgradeRequest:
			sub, err := reactivate(ctx, r.subscriptions, req.FromSubscriptionID, paid.ClientID)
			if err != nil {
				return err
			}
			result.Subscription, err = r.subscriptions.ChangePlan(ctx, sub.ID, p.ID, start, end)
			if err != nil {
				return err
			}

		case payment.RenewalRequest:
			sub, err := reactivate(ctx, r.subscriptions, req.SubscriptionID, paid.ClientID)
			if err != nil {
				return err
			}
			result.Subscription, err = r.subscriptions.RenewInPlace(ctx, sub.ID, start, end)
			if err != nil {
				return err
			}

			rn := &renewal.Renewal{
				SubscriptionID: sub.ID,
				PaymentID:      &paid.ID,
				NewEndDate:     end,
				AmountCents:    paid.AmountCents,
			}
			if err := r.renewals.Create(ctx, rn); err != nil {
				return err
			}
			result.Renewal = rn

			msg.Type = notification.TypeRenewalApproved
			msg.Title = "Membership renewed"
		}

		msg.Body = fmt.Sprintf("Your %s membership is active until %s.", p.Name, end.Format(dateLayout))
		msg.Metadata["subscriptionId"] = result.Subscription.ID
		return r.outbox.Enqueue(ctx, msg)
	})
	if err != nil {
		logger.Warn("payment approval failed", "payment_id", paymentID, "error", err)
		return nil, err
	}

	metrics.RecordPaymentDecision(string(result.Payment.Kind), "approved")
	if created {
		metrics.RecordSubscription(string(planKind))
	}
	logger.Info("payment approved",
		"payment_id", paymentID,
		"subscription_id", result.Subscription.ID,
		"end_date", result.Subscription.EndDate)
	return result, nil
}

// reactivate loads the client's own subscription and checks it may move
// back to active.
func reactivate(ctx context.Context, subs subscription.Repository, id, clientID string) (*subscription.Subscription, error) {
	sub, err := subs.GetForClient(ctx, id, clientID)
	if err != nil {
		return nil, err
	}
	if !subscription.CanTransition(sub.Status, subscription.StatusActive) {
		return nil, apperrors.PreconditionFailed(
			fmt.Sprintf("subscription cannot move from %s to active", sub.Status))
	}
	return sub, nil
}

func (s *service) Reject(ctx context.Context, paymentID string) (*payment.Payment, error) {
	var rejected *payment.Payment

	err := s.inTx(ctx, func(r repos) error {
		var err error
		rejected, err = r.payments.MarkFailed(ctx, paymentID)
		if err != nil {
			return err
		}

		return r.outbox.Enqueue(ctx, notification.Message{
			UserID:   rejected.ClientID,
			Type:     notification.TypeMembershipRejected,
			Title:    "Membership request rejected",
			Body:     fmt.Sprintf("Your payment of %s was not accepted. Please contact the front desk.", formatCents(rejected.AmountCents)),
			Metadata: map[string]string{"paymentId": rejected.ID},
		})
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordPaymentDecision(string(rejected.Kind), "rejected")
	logger.Info("payment rejected", "payment_id", paymentID, "client_id", rejected.ClientID)
	return rejected, nil
}

func formatCents(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
