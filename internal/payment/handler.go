package payment

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

// ListMine godoc
// @Summary      List my payments
// @Tags         payments
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  api.DataResponse
// @Failure      401  {object}  api.ErrorResponse
// @Router       /payments [get]
func (h *Handler) ListMine(c *gin.Context) {
	clientID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	payments, err := h.service.ListForClient(c.Request.Context(), clientID)
	if err != nil {
		api.RespondError(c, err, "Failed to fetch payments")
		return
	}
	c.JSON(http.StatusOK, api.DataResponse{Data: payments})
}

// GetPending godoc
// @Summary      Get my pending membership payment
// @Description  Returns {"data": null} when nothing is pending.
// @Tags         memberships
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  api.DataResponse
// @Failure      401  {object}  api.ErrorResponse
// @Router       /memberships/pending [get]
func (h *Handler) GetPending(c *gin.Context) {
	clientID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	view, err := h.service.GetPending(c.Request.Context(), clientID)
	if err != nil {
		api.RespondError(c, err, "Failed to fetch pending payment")
		return
	}
	c.JSON(http.StatusOK, api.DataResponse{Data: view})
}

// CancelPending godoc
// @Summary      Cancel my pending membership payment
// @Tags         memberships
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  api.MessageResponse
// @Failure      404  {object}  api.ErrorResponse
// @Router       /memberships/pending [delete]
func (h *Handler) CancelPending(c *gin.Context) {
	clientID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	if err := h.service.CancelPending(c.Request.Context(), clientID); err != nil {
		api.RespondError(c, err, "Failed to cancel payment")
		return
	}
	c.JSON(http.StatusOK, api.MessageResponse{Message: "pending payment cancelled"})
}

// List godoc
// @Summary      List payments
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        page      query     int     false  "Page"
// @Param        pageSize  query     int     false  "Page size"
// @Param        search    query     string  false  "Client name or email"
// @Param        status    query     string  false  "pending, completed or failed"
// @Param        kind      query     string  false  "membership or renewal"
// @Success      200       {object}  api.PageResponse
// @Failure      400       {object}  api.ErrorResponse
// @Router       /admin/payments [get]
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

	rows, total, err := h.service.List(c.Request.Context(), page, filter)
	if err != nil {
		api.RespondError(c, err, "Failed to fetch payments")
		return
	}
	c.JSON(http.StatusOK, api.PageResponse{Data: rows, Page: page.Page, PageSize: page.PageSize, Total: total})
}
