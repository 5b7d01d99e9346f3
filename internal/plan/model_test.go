package plan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPlanPrice(t *testing.T) {
	surcharge := int64(500)

	withCoach := &Plan{PriceCents: 1000, CoachSurchargeCents: &surcharge}
	assert.Equal(t, int64(1500), withCoach.Price(true))
	assert.Equal(t, int64(1000), withCoach.Price(false))

	noCoach := &Plan{PriceCents: 1000}
	assert.Equal(t, int64(1000), noCoach.Price(true))
}

func TestPlanEndDate(t *testing.T) {
	start := time.Date(2024, 2, 10, 9, 30, 0, 0, time.UTC)
	p := &Plan{DurationDays: 30}

	assert.Equal(t, time.Date(2024, 3, 11, 9, 30, 0, 0, time.UTC), p.EndDate(start))
}

func TestUpdatePlanRequestApply(t *testing.T) {
	name := "Gold"
	status := StatusInactive
	p := &Plan{Name: "Silver", DurationDays: 30, Status: StatusActive}

	UpdatePlanRequest{Name: &name, Status: &status}.Apply(p)

	assert.Equal(t, "Gold", p.Name)
	assert.Equal(t, StatusInactive, p.Status)
	assert.Equal(t, 30, p.DurationDays)
	assert.False(t, p.IsActive())
}
