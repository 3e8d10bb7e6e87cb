package apperrors

import (
	"log/slog"

	"github.com/gin-gonic/gin"
)

// ErrorResponse - стандартный ответ об ошибке
type ErrorResponse struct {
	Error *AppError `json:"error"`
}

// HandleError - обработка ошибок для Gin контекста.
// Детали внутренних ошибок (Err) клиенту не отдаются, только логируются.
func HandleError(c *gin.Context, err *AppError) {
	if err.HTTPCode >= 500 {
		slog.ErrorContext(c.Request.Context(), "Server error", "error", err.Error())
	}

	c.AbortWithStatusJSON(err.HTTPCode, ErrorResponse{Error: err})
}
