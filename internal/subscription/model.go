package subscription

import (
	"time"

	"gymflow/internal/plan"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusExpired   Status = "expired"
	StatusCancelled Status = "cancelled"
)

// transitions lists the allowed target states per source state. The empty
// source is a subscription that does not exist yet.
var transitions = map[Status][]Status{
	"":              {StatusActive},
	StatusActive:    {StatusActive, StatusExpired, StatusCancelled},
	StatusExpired:   {StatusActive, StatusCancelled},
	StatusCancelled: {StatusActive, StatusCancelled},
}

func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

type Subscription struct {
	ID        string    `db:"id" json:"id"`
	ClientID  string    `db:"client_id" json:"clientId"`
	PlanID    string    `db:"plan_id" json:"planId"`
	StartDate time.Time `db:"start_date" json:"startDate"`
	EndDate   time.Time `db:"end_date" json:"endDate"`
	Status    Status    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// IsCurrent reports whether s is active and has not run out at now.
func (s *Subscription) IsCurrent(now time.Time) bool {
	return s.Status == StatusActive && !s.EndDate.Before(now)
}

type WithPlan struct {
	Subscription
	PlanName string    `db:"plan_name" json:"planName"`
	PlanKind plan.Kind `db:"plan_kind" json:"planKind"`
}

type AdminSubscription struct {
	WithPlan
	ClientName  string `db:"client_name" json:"clientName"`
	ClientEmail string `db:"client_email" json:"clientEmail"`
}

type UpdateStatusRequest struct {
	Status Status `json:"status" binding:"required,oneof=expired cancelled"`
}

type ListFilter struct {
	Status Status `form:"status" binding:"omitempty,oneof=active expired cancelled"`
}
