package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-service/pkg/logger"
)

// Recovery returns a Gin middleware that recovers from panics and
// responds with a generic 500 so internals never leak to the client.
func Recovery(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				reqLog := logger.WithContext(c.Request.Context(), log)
				reqLog.Error("panic recovered",
					zap.Any("panic", r),
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path),
					zap.Stack("stacktrace"),
				)

				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"status":    http.StatusInternalServerError,
					"message":   "An unexpected error occurred",
					"timestamp": time.Now().UTC(),
				})
			}
		}()

		c.Next()
	}
}
