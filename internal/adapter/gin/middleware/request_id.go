package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"user-service/pkg/logger"
)

// RequestIDHeader is the header carrying the request ID in and out.
const RequestIDHeader = "X-Request-ID"

// RequestID attaches a request ID to every request. An incoming
// X-Request-ID is honored so IDs survive proxy hops; otherwise a new
// UUID is generated. The ID is stored on the request context for the
// logger and echoed back on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := context.WithValue(c.Request.Context(), logger.RequestIDKey, requestID)
		c.Request = c.Request.WithContext(ctx)
		c.Header(RequestIDHeader, requestID)

		c.Next()
	}
}
