package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/fedicore/internal/domain/service"
	"github.com/turtacn/fedicore/pkg/constants"
	"github.com/turtacn/fedicore/pkg/errors"
	"github.com/turtacn/fedicore/pkg/logger"
)

// extractBearer extracts the token from the Authorization header.
func extractBearer(authHeader string) string {
	if authHeader == "" {
		return ""
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], constants.BearerScheme) {
		return ""
	}
	return parts[1]
}

// RequireOperator protects routes acting on /:username. The bearer token must verify
// and its subject must equal the username path parameter.
func RequireOperator(auth service.OperatorAuthenticator, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		tokenStr := extractBearer(c.GetHeader("Authorization"))
		if tokenStr == "" {
			abortWith(c, errors.ErrUnauthorized("missing bearer token", nil))
			return
		}

		subject, err := auth.VerifyOperatorToken(tokenStr)
		if err != nil {
			log.Warn(ctx, "Operator token rejected",
				logger.String("path", c.Request.URL.Path),
				logger.Error(err),
			)
			abortWith(c, err)
			return
		}

		username := c.Param("username")
		if subject != username {
			log.Warn(ctx, "Operator token used for another account",
				logger.String("subject", subject),
				logger.String("username", username),
			)
			abortWith(c, errors.ErrForbidden(subject, username))
			return
		}

		c.Set(string(constants.ContextKeyUsername), subject)
		c.Next()
	}
}

func abortWith(c *gin.Context, err error) {
	c.Header("WWW-Authenticate", constants.BearerScheme)
	c.AbortWithStatusJSON(errors.HTTPStatusOf(err), errors.ToErrorResponse(err))
}
