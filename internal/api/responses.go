package api

import (
	"net/http"

	"gymflow/internal/apperrors"
	"gymflow/internal/logger"

	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Error string `json:"error" example:"something went wrong"`
}

type MessageResponse struct {
	Message string `json:"message" example:"ok"`
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

type DataResponse struct {
	Data interface{} `json:"data"`
}

type PageResponse struct {
	Data     interface{} `json:"data"`
	Page     int         `json:"page" example:"1"`
	PageSize int         `json:"pageSize" example:"10"`
	Total    int         `json:"total" example:"42"`
}

// RespondError writes err using its apperrors kind. Unknown errors are
// logged and hidden behind fallback.
func RespondError(c *gin.Context, err error, fallback string) {
	if appErr, ok := apperrors.As(err); ok {
		c.JSON(StatusFor(appErr.Kind), ErrorResponse{Error: appErr.Message})
		return
	}

	logger.Error(fallback, "error", err, "path", c.FullPath())
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: fallback})
}

func StatusFor(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindPreconditionFailed:
		return http.StatusConflict
	case apperrors.KindValidationFailed:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
