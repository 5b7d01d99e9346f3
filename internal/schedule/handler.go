package schedule

import (
	"net/http"

	"gymflow/internal/api"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Create godoc
// @Summary      Create a session
// @Description  At least one allowed plan kind is required.
// @Tags         admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateSessionRequest  true  "Session"
// @Success      201      {object}  Session
// @Failure      400      {object}  api.ErrorResponse
// @Router       /admin/schedules [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateSessionRequest
	if !api.BindJSON(c, &req) {
		return
	}

	session, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		api.RespondError(c, err, "Failed to create session")
		return
	}
	c.JSON(http.StatusCreated, session)
}

// List godoc
// @Summary      List sessions
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        page      query     int     false  "Page"
// @Param        pageSize  query     int     false  "Page size"
// @Param        search    query     string  false  "Title"
// @Param        upcoming  query     bool    false  "Only sessions that have not started"
// @Success      200       {object}  api.PageResponse
// @Failure      400       {object}  api.ErrorResponse
// @Router       /admin/schedules [get]
func (h *Handler) List(c *gin.Context) {
	page, err := api.BindPage(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid pagination parameters"})
		return
	}
	var filter ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid filter"})
		return
	}

	sessions, total, err := h.service.List(c.Request.Context(), page, filter)
	if err != nil {
		api.RespondError(c, err, "Failed to fetch sessions")
		return
	}
	c.JSON(http.StatusOK, api.PageResponse{Data: sessions, Page: page.Page, PageSize: page.PageSize, Total: total})
}

// Get godoc
// @Summary      Get a session
// @Tags         schedules
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  Session
// @Failure      404  {object}  api.ErrorResponse
// @Router       /schedules/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	session, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		api.RespondError(c, err, "Failed to fetch session")
		return
	}
	c.JSON(http.StatusOK, session)
}
