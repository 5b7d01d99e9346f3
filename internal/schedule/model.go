package schedule

import (
	"time"

	"gymflow/internal/plan"

	"github.com/lib/pq"
)

type Session struct {
	ID               string         `db:"id" json:"id"`
	Title            string         `db:"title" json:"title"`
	StartTime        time.Time      `db:"start_time" json:"startTime"`
	EndTime          time.Time      `db:"end_time" json:"endTime"`
	StaffID          *string        `db:"staff_id" json:"staffId"`
	Capacity         *int           `db:"capacity" json:"capacity"`
	AllowedPlanKinds pq.StringArray `db:"allowed_plan_kinds" json:"allowedPlanKinds" swaggertype:"array,string"`
	CreatedAt        time.Time      `db:"created_at" json:"createdAt"`
}

// AllowedKinds returns the plan kinds admitted to the session. Empty means
// any kind.
func (s *Session) AllowedKinds() []plan.Kind {
	kinds := make([]plan.Kind, 0, len(s.AllowedPlanKinds))
	for _, k := range s.AllowedPlanKinds {
		kinds = append(kinds, plan.Kind(k))
	}
	return kinds
}

func (s *Session) HasStarted(now time.Time) bool {
	return !now.Before(s.StartTime)
}

type SessionWithAvailability struct {
	Session
	BookedCount int `db:"booked_count" json:"bookedCount"`
}

// IsFull is false for sessions without a capacity.
func (s *SessionWithAvailability) IsFull() bool {
	return s.Capacity != nil && s.BookedCount >= *s.Capacity
}

type CreateSessionRequest struct {
	Title            string      `json:"title" binding:"required,min=2,max=200"`
	StartTime        string      `json:"startTime" binding:"required"`
	EndTime          string      `json:"endTime" binding:"required"`
	StaffID          *string     `json:"staffId"`
	Capacity         *int        `json:"capacity" binding:"omitempty,min=1"`
	AllowedPlanKinds []plan.Kind `json:"allowedPlanKinds" binding:"required,min=1,dive,oneof=basic premium"`
}

type ListFilter struct {
	Upcoming bool `form:"upcoming"`
}
