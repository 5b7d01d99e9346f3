package schedule

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"gymflow/internal/api"
	"gymflow/internal/plan"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Create(ctx context.Context, req CreateSessionRequest) (*Session, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Session), args.Error(1)
}

func (m *MockService) GetByID(ctx context.Context, id string) (*Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Session), args.Error(1)
}

func (m *MockService) List(ctx context.Context, page api.Page, filter ListFilter) ([]SessionWithAvailability, int, error) {
	args := m.Called(ctx, page, filter)
	return args.Get(0).([]SessionWithAvailability), args.Int(1), args.Error(2)
}

func newRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/admin/schedules", h.Create)
	r.GET("/admin/schedules", h.List)
	r.GET("/schedules/:id", h.Get)
	return r
}

func TestHandler_Create(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		serviceErr error
		wantStatus int
	}{
		{
			name:       "created",
			body:       `{"title":"HIIT","startTime":"2030-01-01T10:00:00Z","endTime":"2030-01-01T11:00:00Z","allowedPlanKinds":["premium"]}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "end before start",
			body:       `{"title":"HIIT","startTime":"2030-01-01T10:00:00Z","endTime":"2030-01-01T09:00:00Z","allowedPlanKinds":["basic"]}`,
			serviceErr: ErrEndBeforeStart,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			r := newRouter(NewHandler(svc))

			if tt.serviceErr != nil {
				svc.On("Create", mock.Anything, mock.Anything).Return(nil, tt.serviceErr)
			} else {
				svc.On("Create", mock.Anything, mock.Anything).Return(&Session{ID: "s1", Title: "HIIT"}, nil)
			}

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/admin/schedules", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestHandler_CreateRequiresAllowedKinds(t *testing.T) {
	svc := new(MockService)
	r := newRouter(NewHandler(svc))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/schedules",
		bytes.NewBufferString(`{"title":"HIIT","startTime":"2030-01-01T10:00:00Z","endTime":"2030-01-01T11:00:00Z","allowedPlanKinds":[]}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestHandler_ListUpcoming(t *testing.T) {
	svc := new(MockService)
	r := newRouter(NewHandler(svc))

	sessions := []SessionWithAvailability{{Session: Session{ID: "s1", AllowedPlanKinds: []string{string(plan.KindBasic)}}, BookedCount: 3}}
	svc.On("List", mock.Anything, mock.Anything, ListFilter{Upcoming: true}).Return(sessions, 1, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/schedules?upcoming=true", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"bookedCount":3`)
	assert.Contains(t, w.Body.String(), `"total":1`)
}

func TestHandler_GetNotFound(t *testing.T) {
	svc := new(MockService)
	r := newRouter(NewHandler(svc))

	svc.On("GetByID", mock.Anything, "missing").Return(nil, ErrSessionNotFound)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/schedules/missing", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}
