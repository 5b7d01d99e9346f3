package plan

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

// ListAvailable godoc
// @Summary      List available plans
// @Description  Active plans a client can apply for, cheapest first.
// @Tags         plans
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   Plan
// @Failure      500  {object}  api.ErrorResponse
// @Router       /plans [get]
func (h *Handler) ListAvailable(c *gin.Context) {
	plans, err := h.service.ListAvailable(c.Request.Context())
	if err != nil {
		api.RespondError(c, err, "Failed to fetch plans")
		return
	}
	c.JSON(http.StatusOK, plans)
}

// List godoc
// @Summary      List plans
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        page      query     int     false  "Page"
// @Param        pageSize  query     int     false  "Page size"
// @Param        search    query     string  false  "Name filter"
// @Success      200       {object}  api.PageResponse
// @Failure      400       {object}  api.ErrorResponse
// @Router       /admin/plans [get]
func (h *Handler) List(c *gin.Context) {
	page, err := api.BindPage(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid pagination parameters"})
		return
	}

	plans, total, err := h.service.List(c.Request.Context(), page)
	if err != nil {
		api.RespondError(c, err, "Failed to fetch plans")
		return
	}

	c.JSON(http.StatusOK, api.PageResponse{Data: plans, Page: page.Page, PageSize: page.PageSize, Total: total})
}

// Create godoc
// @Summary      Create plan
// @Tags         admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreatePlanRequest  true  "Plan"
// @Success      201      {object}  Plan
// @Failure      400      {object}  api.ErrorResponse
// @Router       /admin/plans [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreatePlanRequest
	if !api.BindJSON(c, &req) {
		return
	}

	p, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		api.RespondError(c, err, "Failed to create plan")
		return
	}
	c.JSON(http.StatusCreated, p)
}

// Update godoc
// @Summary      Update plan
// @Tags         admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string             true  "Plan ID"
// @Param        request  body      UpdatePlanRequest  true  "Fields to change"
// @Success      200      {object}  Plan
// @Failure      400      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Router       /admin/plans/{id} [patch]
func (h *Handler) Update(c *gin.Context) {
	var req UpdatePlanRequest
	if !api.BindJSON(c, &req) {
		return
	}

	p, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		api.RespondError(c, err, "Failed to update plan")
		return
	}
	c.JSON(http.StatusOK, p)
}

// Delete godoc
// @Summary      Delete plan
// @Description  Fails while any subscription or payment references the plan.
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Plan ID"
// @Success      200  {object}  api.MessageResponse
// @Failure      404  {object}  api.ErrorResponse
// @Failure      409  {object}  api.ErrorResponse
// @Router       /admin/plans/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		api.RespondError(c, err, "Failed to delete plan")
		return
	}
	c.JSON(http.StatusOK, api.MessageResponse{Message: "plan deleted"})
}
