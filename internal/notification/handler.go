package notification

import (
	"net/http"

	"gymflow/internal/api"
	"gymflow/internal/auth"

	"github.com/gin-gonic/gin"
)

const listLimit = 50

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

// ListMine godoc
// @Summary      List my notifications
// @Description  Most recent first, at most 50.
// @Tags         notifications
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  api.DataResponse
// @Failure      401  {object}  api.ErrorResponse
// @Router       /notifications [get]
func (h *Handler) ListMine(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	list, err := h.repo.ListForUser(c.Request.Context(), userID, listLimit)
	if err != nil {
		api.RespondError(c, err, "Failed to fetch notifications")
		return
	}
	c.JSON(http.StatusOK, api.DataResponse{Data: list})
}
