package plan

import "time"

type Kind string
type Status string

const (
	KindBasic   Kind = "basic"
	KindPremium Kind = "premium"

	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

type Plan struct {
	ID                  string    `db:"id" json:"id"`
	Name                string    `db:"name" json:"name"`
	Description         *string   `db:"description" json:"description"`
	Kind                Kind      `db:"kind" json:"kind"`
	DurationDays        int       `db:"duration_days" json:"durationDays"`
	PriceCents          int64     `db:"price_cents" json:"priceCents"`
	CoachSurchargeCents *int64    `db:"coach_surcharge_cents" json:"coachSurchargeCents"`
	Status              Status    `db:"status" json:"status"`
	CreatedAt           time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt           time.Time `db:"updated_at" json:"updatedAt"`
}

func (p *Plan) IsActive() bool {
	return p.Status == StatusActive
}

// Price is the amount charged for one period. The surcharge only applies
// when the plan offers one.
func (p *Plan) Price(withCoach bool) int64 {
	if withCoach && p.CoachSurchargeCents != nil {
		return p.PriceCents + *p.CoachSurchargeCents
	}
	return p.PriceCents
}

// EndDate returns start plus the plan duration in whole days.
func (p *Plan) EndDate(start time.Time) time.Time {
	return start.AddDate(0, 0, p.DurationDays)
}

type CreatePlanRequest struct {
	Name                string  `json:"name" binding:"required,min=2,max=100"`
	Description         *string `json:"description" binding:"omitempty,max=1000"`
	Kind                Kind    `json:"kind" binding:"required,oneof=basic premium"`
	DurationDays        int     `json:"durationDays" binding:"required,min=1,max=3650"`
	PriceCents          int64   `json:"priceCents" binding:"min=0"`
	CoachSurchargeCents *int64  `json:"coachSurchargeCents" binding:"omitempty,min=0"`
	Status              Status  `json:"status" binding:"omitempty,oneof=active inactive"`
}

type UpdatePlanRequest struct {
	Name                *string `json:"name" binding:"omitempty,min=2,max=100"`
	Description         *string `json:"description" binding:"omitempty,max=1000"`
	Kind                *Kind   `json:"kind" binding:"omitempty,oneof=basic premium"`
	DurationDays        *int    `json:"durationDays" binding:"omitempty,min=1,max=3650"`
	PriceCents          *int64  `json:"priceCents" binding:"omitempty,min=0"`
	CoachSurchargeCents *int64  `json:"coachSurchargeCents" binding:"omitempty,min=0"`
	Status              *Status `json:"status" binding:"omitempty,oneof=active inactive"`
}

// Apply copies the set fields onto p.
func (r UpdatePlanRequest) Apply(p *Plan) {
	if r.Name != nil {
		p.Name = *r.Name
	}
	if r.Description != nil {
		p.Description = r.Description
	}
	if r.Kind != nil {
		p.Kind = *r.Kind
	}
	if r.DurationDays != nil {
		p.DurationDays = *r.DurationDays
	}
	if r.PriceCents != nil {
		p.PriceCents = *r.PriceCents
	}
	if r.CoachSurchargeCents != nil {
		p.CoachSurchargeCents = r.CoachSurchargeCents
	}
	if r.Status != nil {
		p.Status = *r.Status
	}
}
