package attendance

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"gymflow/internal/admission"
	"gymflow/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Book(ctx context.Context, clientID, sessionID string) (*Attendance, error) {
	args := m.Called(ctx, clientID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Attendance), args.Error(1)
}

func (m *MockService) ListForClient(ctx context.Context, clientID string) ([]WithDetails, error) {
	args := m.Called(ctx, clientID)
	return args.Get(0).([]WithDetails), args.Error(1)
}

func (m *MockService) ListForSession(ctx context.Context, sessionID string) ([]WithDetails, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).([]WithDetails), args.Error(1)
}

func newRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		auth.SetIdentity(c, "c1", auth.RoleClient)
		c.Next()
	})
	r.POST("/schedules/:id/book", h.Book)
	r.POST("/admin/schedules/:id/attendees", h.AddAttendee)
	return r
}

func TestHandler_BookRejectedByGate(t *testing.T) {
	svc := new(MockService)
	r := newRouter(NewHandler(svc))

	svc.On("Book", mock.Anything, "c1", "sess-1").Return(nil, admission.ErrPlanKindNotPermitted)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/schedules/sess-1/book", nil))

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "membership type not permitted for this session")
}

func TestHandler_AddAttendee(t *testing.T) {
	svc := new(MockService)
	r := newRouter(NewHandler(svc))

	svc.On("Book", mock.Anything, "c7", "sess-1").Return(&Attendance{ID: "a1", SessionID: "sess-1", ClientID: "c7"}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/schedules/sess-1/attendees", bytes.NewBufferString(`{"clientId":"c7"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	svc.AssertExpectations(t)
}
