package renewal

import (
	"net/http"

	"gymflow/internal/api"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

// List godoc
// @Summary      List renewals
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        page      query     int     false  "Page"
// @Param        pageSize  query     int     false  "Page size"
// @Param        search    query     string  false  "Client or plan name"
// @Success      200       {object}  api.PageResponse
// @Router       /admin/renewals [get]
func (h *Handler) List(c *gin.Context) {
	page, err := api.BindPage(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid pagination parameters"})
		return
	}

	rows, total, err := h.repo.List(c.Request.Context(), page)
	if err != nil {
		api.RespondError(c, err, "Failed to fetch renewals")
		return
	}
	c.JSON(http.StatusOK, api.PageResponse{Data: rows, Page: page.Page, PageSize: page.PageSize, Total: total})
}
