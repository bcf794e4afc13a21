package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/turtacn/fedicore/pkg/constants"
)

// maxRequestIDLength bounds an inbound X-Request-ID before it is trusted.
const maxRequestIDLength = 128

// RequestID reuses the caller's X-Request-ID or mints a UUID, echoes it on the response
// and stores it in the request context for the logger.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(constants.HeaderRequestID)
		if requestID == "" || len(requestID) > maxRequestIDLength {
			requestID = uuid.NewString()
		}

		c.Set(string(constants.ContextKeyRequestID), requestID)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), constants.ContextKeyRequestID, requestID))
		c.Writer.Header().Set(constants.HeaderRequestID, requestID)
		c.Next()
	}
}
