package middleware

import (
	"errors"
	"net/http"

	"hirepath-backend/internal/delivery/http/response"
	"hirepath-backend/pkg/apperror"
	"hirepath-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		var appErr *apperror.AppError
		if !errors.As(err, &appErr) {
			appErr = apperror.Internal(err)
		}

		// Internal causes stay in the server log only
		if appErr.Code >= http.StatusInternalServerError {
			logger.Log.Error("request failed",
				"method", c.Request.Method,
				"path", c.FullPath(),
				"request_id", c.GetString(RequestIDKey),
				"error", err,
			)
		}

		if len(appErr.Details) > 0 {
			response.Errors(c, appErr.Code, appErr.Details)
			return
		}
		response.Error(c, appErr.Code, appErr.Message)
	}
}
