package schedule

import (
	"context"
	"time"

	"gymflow/internal/api"
	"gymflow/internal/apperrors"
	"gymflow/internal/auth"
	"gymflow/internal/logger"
	"gymflow/internal/user"

	"github.com/pkg/errors"
)

var (
	ErrInvalidTime        = apperrors.ValidationFailed("start and end time must be RFC3339 timestamps")
	ErrEndBeforeStart     = apperrors.ValidationFailed("end time must be after start time")
	ErrNoAllowedKinds     = apperrors.ValidationFailed("at least one plan kind must be allowed")
	ErrStaffNotAssignable = apperrors.ValidationFailed("staff member not found")
)

type Service interface {
	Create(ctx context.Context, req CreateSessionRequest) (*Session, error)
	GetByID(ctx context.Context, id string) (*Session, error)
	List(ctx context.Context, page api.Page, filter ListFilter) ([]SessionWithAvailability, int, error)
}

type service struct {
	repo  Repository
	users user.Repository
	now   func() time.Time
}

func NewService(repo Repository, users user.Repository) Service {
	return &service{repo: repo, users: users, now: func() time.Time { return time.Now().UTC() }}
}

func (s *service) Create(ctx context.Context, req CreateSessionRequest) (*Session, error) {
	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return nil, ErrInvalidTime
	}
	end, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		return nil, ErrInvalidTime
	}
	if !end.After(start) {
		return nil, ErrEndBeforeStart
	}

	kinds := uniqueKinds(req)
	if len(kinds) == 0 {
		return nil, ErrNoAllowedKinds
	}

	if req.StaffID != nil && *req.StaffID != "" {
		staff, err := s.users.FindByID(ctx, *req.StaffID)
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, ErrStaffNotAssignable
		}
		if err != nil {
			return nil, err
		}
		if staff.Role != auth.RoleCoach && staff.Role != auth.RoleAdmin {
			return nil, ErrStaffNotAssignable
		}
	} else {
		req.StaffID = nil
	}

	session := &Session{
		Title:            req.Title,
		StartTime:        start.UTC(),
		EndTime:          end.UTC(),
		StaffID:          req.StaffID,
		Capacity:         req.Capacity,
		AllowedPlanKinds: kinds,
	}
	if err := s.repo.Create(ctx, session); err != nil {
		return nil, err
	}

	logger.Info("session created", "session_id", session.ID, "allowed_kinds", kinds)
	return session, nil
}

func uniqueKinds(req CreateSessionRequest) []string {
	seen := make(map[string]bool, len(req.AllowedPlanKinds))
	kinds := make([]string, 0, len(req.AllowedPlanKinds))
	for _, k := range req.AllowedPlanKinds {
		if k == "" || seen[string(k)] {
			continue
		}
		seen[string(k)] = true
		kinds = append(kinds, string(k))
	}
	return kinds
}

func (s *service) GetByID(ctx context.Context, id string) (*Session, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, page api.Page, filter ListFilter) ([]SessionWithAvailability, int, error) {
	var from *time.Time
	if filter.Upcoming {
		now := s.now()
		from = &now
	}
	return s.repo.List(ctx, page, from)
}
