package middleware

import (
	"errors"
	"net/http"

	"jobs-admin-backend/internal/delivery/http/response"
	"jobs-admin-backend/pkg/apperror"
	"jobs-admin-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ErrorHandler renders the last error a handler attached with c.Error.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			if len(appErr.Issues) > 0 {
				response.Error(c, appErr.Code, appErr.Message, response.ValidationDetail{Issues: appErr.Issues})
				return
			}
			response.Error(c, appErr.Code, appErr.Message, nil)
			return
		}

		// SECURITY: Never expose internal error details to clients.
		logger.Log.Error("Unhandled error",
			"error", err,
			"path", c.FullPath(),
			"request_id", c.GetString(response.RequestIDKey),
		)
		response.Error(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.", nil)
	}
}
