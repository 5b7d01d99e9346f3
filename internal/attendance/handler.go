package attendance

import (
	"net/http"

	"gymflow/internal/api"
	"gymflow/internal/auth"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Book godoc
// @Summary      Book a session
// @Description  Requires an active membership whose plan kind the session allows.
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Session ID"
// @Success      201  {object}  Attendance
// @Failure      404  {object}  api.ErrorResponse
// @Failure      409  {object}  api.ErrorResponse
// @Router       /schedules/{id}/book [post]
func (h *Handler) Book(c *gin.Context) {
	clientID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	booked, err := h.service.Book(c.Request.Context(), clientID, c.Param("id"))
	if err != nil {
		api.RespondError(c, err, "Failed to book session")
		return
	}
	c.JSON(http.StatusCreated, booked)
}

// ListMine godoc
// @Summary      List my bookings
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  api.DataResponse
// @Failure      401  {object}  api.ErrorResponse
// @Router       /bookings [get]
func (h *Handler) ListMine(c *gin.Context) {
	clientID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	list, err := h.service.ListForClient(c.Request.Context(), clientID)
	if err != nil {
		api.RespondError(c, err, "Failed to fetch bookings")
		return
	}
	c.JSON(http.StatusOK, api.DataResponse{Data: list})
}

// AddAttendee godoc
// @Summary      Add a client to a session
// @Tags         admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string              true  "Session ID"
// @Param        request  body      AddAttendeeRequest  true  "Client"
// @Success      201      {object}  Attendance
// @Failure      404      {object}  api.ErrorResponse
// @Failure      409      {object}  api.ErrorResponse
// @Router       /admin/schedules/{id}/attendees [post]
func (h *Handler) AddAttendee(c *gin.Context) {
	var req AddAttendeeRequest
	if !api.BindJSON(c, &req) {
		return
	}

	booked, err := h.service.Book(c.Request.Context(), req.ClientID, c.Param("id"))
	if err != nil {
		api.RespondError(c, err, "Failed to add attendee")
		return
	}
	c.JSON(http.StatusCreated, booked)
}

// ListAttendees godoc
// @Summary      List attendees of a session
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  api.DataResponse
// @Failure      404  {object}  api.ErrorResponse
// @Router       /admin/schedules/{id}/attendees [get]
func (h *Handler) ListAttendees(c *gin.Context) {
	list, err := h.service.ListForSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		api.RespondError(c, err, "Failed to fetch attendees")
		return
	}
	c.JSON(http.StatusOK, api.DataResponse{Data: list})
}
