package subscription

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
// @Summary      List my memberships
// @Description  Overdue memberships are marked expired before listing.
// @Tags         memberships
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  api.DataResponse
// @Failure      401  {object}  api.ErrorResponse
// @Router       /memberships [get]
func (h *Handler) ListMine(c *gin.Context) {
	clientID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	subs, err := h.service.ListForClient(c.Request.Context(), clientID)
	if err != nil {
		api.RespondError(c, err, "Failed to fetch memberships")
		return
	}
	c.JSON(http.StatusOK, api.DataResponse{Data: subs})
}

// Current godoc
// @Summary      Get my current membership
// @Description  Returns {"data": null} when the client has no active membership.
// @Tags         memberships
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  api.DataResponse
// @Router       /memberships/current [get]
func (h *Handler) Current(c *gin.Context) {
	clientID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	sub, err := h.service.Current(c.Request.Context(), clientID)
	if err != nil {
		api.RespondError(c, err, "Failed to fetch membership")
		return
	}
	c.JSON(http.StatusOK, api.DataResponse{Data: sub})
}

// List godoc
// @Summary      List client subscriptions
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        page      query     int     false  "Page"
// @Param        pageSize  query     int     false  "Page size"
// @Param        search    query     string  false  "Client or plan name"
// @Param        status    query     string  false  "active, expired or cancelled"
// @Success      200       {object}  api.PageResponse
// @Router       /admin/subscriptions [get]
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
		api.RespondError(c, err, "Failed to fetch subscriptions")
		return
	}
	c.JSON(http.StatusOK, api.PageResponse{Data: rows, Page: page.Page, PageSize: page.PageSize, Total: total})
}

// UpdateStatus godoc
// @Summary      Expire or cancel a subscription
// @Tags         admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string               true  "Subscription ID"
// @Param        request  body      UpdateStatusRequest  true  "Target status"
// @Success      200      {object}  Subscription
// @Failure      400      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Failure      409      {object}  api.ErrorResponse
// @Router       /admin/subscriptions/{id}/status [patch]
func (h *Handler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if !api.BindJSON(c, &req) {
		return
	}

	sub, err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		api.RespondError(c, err, "Failed to update subscription")
		return
	}
	c.JSON(http.StatusOK, sub)
}
