package middleware

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	apperrors "budgetree/internal/errors"
	"budgetree/internal/logger"
)

// ErrorHandler returns a Gin middleware that converts errors set on the Gin
// context into the JSON error envelope. AppErrors keep their code and message;
// anything else is logged and reported as INTERNAL_ERROR. Responses a handler
// already wrote are left alone.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		// The last error is the most relevant in a middleware chain.
		writeError(c, c.Errors.Last().Err)
	}
}

// NotFound reports unknown routes through ErrorHandler as NOT_FOUND.
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		_ = c.Error(apperrors.ErrNotFound)
	}
}

// Recovery turns a panic inside a handler into a logged INTERNAL_ERROR response.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		writeError(c, fmt.Errorf("panic: %v", recovered))
		c.Abort()
	})
}

func writeError(c *gin.Context, err error) {
	log := logger.Named("http")

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Internal != nil {
			log.Errorw("app error",
				"code", appErr.Code,
				"message", appErr.Message,
				"internal", appErr.Internal.Error(),
				"path", c.Request.URL.Path,
			)
		}
		c.JSON(appErr.StatusCode, envelope(appErr))
		return
	}

	log.Errorw("unexpected error",
		"error", err.Error(),
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
		"request_id", c.GetString(requestIDKey),
	)
	c.JSON(apperrors.ErrInternalServer.StatusCode, envelope(apperrors.ErrInternalServer))
}

func envelope(e *apperrors.AppError) gin.H {
	return gin.H{
		"error": gin.H{
			"code":    e.Code,
			"message": e.Message,
		},
	}
}
