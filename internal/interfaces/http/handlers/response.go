package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/turtacn/fedicore/pkg/errors"
	"github.com/turtacn/fedicore/pkg/logger"
)

// sendError writes err as {error, error_description} with the status its kind maps to.
// Server-side failures are logged; causes never reach the client.
func sendError(c *gin.Context, log logger.Logger, err error) {
	if errors.ShouldLogError(err) {
		log.Error(c.Request.Context(), "Request failed", err,
			logger.String("kind", string(errors.KindOf(err))),
			logger.String("path", c.Request.URL.Path),
		)
	}
	c.AbortWithStatusJSON(errors.HTTPStatusOf(err), errors.ToErrorResponse(err))
}

// sendDocument writes v as JSON under a protocol media type. gin keeps a Content-Type
// that is already set.
func sendDocument(c *gin.Context, status int, contentType string, v interface{}) {
	c.Header("Content-Type", contentType+"; charset=utf-8")
	c.JSON(status, v)
}
