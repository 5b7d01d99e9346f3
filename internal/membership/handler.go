package membership

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

// Apply godoc
// @Summary      Apply for a membership
// @Description  Creates a pending payment for a new membership, or for an upgrade when upgradeFromSubscriptionId is set.
// @Tags         memberships
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      ApplyRequest  true  "Application"
// @Success      201      {object}  payment.Payment
// @Failure      400      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Failure      409      {object}  api.ErrorResponse
// @Router       /memberships/apply [post]
func (h *Handler) Apply(c *gin.Context) {
	clientID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req ApplyRequest
	if !api.BindJSON(c, &req) {
		return
	}

	p, err := h.service.Apply(c.Request.Context(), clientID, req)
	if err != nil {
		api.RespondError(c, err, "Failed to submit application")
		return
	}
	c.JSON(http.StatusCreated, p)
}

// Renew godoc
// @Summary      Request a renewal
// @Tags         memberships
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      RenewRequest  true  "Renewal"
// @Success      201      {object}  payment.Payment
// @Failure      400      {object}  api.ErrorResponse
// @Failure      409      {object}  api.ErrorResponse
// @Router       /memberships/renew [post]
func (h *Handler) Renew(c *gin.Context) {
	clientID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req RenewRequest
	if !api.BindJSON(c, &req) {
		return
	}

	p, err := h.service.Renew(c.Request.Context(), clientID, req)
	if err != nil {
		api.RespondError(c, err, "Failed to submit renewal")
		return
	}
	c.JSON(http.StatusCreated, p)
}

// Approve godoc
// @Summary      Approve a pending payment
// @Description  Activates, upgrades or renews the subscription the payment pays for.
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Payment ID"
// @Success      200  {object}  ApprovalResult
// @Failure      404  {object}  api.ErrorResponse
// @Failure      409  {object}  api.ErrorResponse
// @Router       /admin/payments/{id}/approve [post]
func (h *Handler) Approve(c *gin.Context) {
	result, err := h.service.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		api.RespondError(c, err, "Failed to approve payment")
		return
	}
	c.JSON(http.StatusOK, result)
}

// Reject godoc
// @Summary      Reject a pending payment
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Payment ID"
// @Success      200  {object}  payment.Payment
// @Failure      404  {object}  api.ErrorResponse
// @Failure      409  {object}  api.ErrorResponse
// @Router       /admin/payments/{id}/reject [post]
func (h *Handler) Reject(c *gin.Context) {
	p, err := h.service.Reject(c.Request.Context(), c.Param("id"))
	if err != nil {
		api.RespondError(c, err, "Failed to reject payment")
		return
	}
	c.JSON(http.StatusOK, p)
}
