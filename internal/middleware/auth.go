package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/replytrack/replytrack/internal/apierror"
	"github.com/replytrack/replytrack/internal/logger"
	"github.com/replytrack/replytrack/internal/service"
)

// Auth verifies the bearer token and puts the authenticated user into the
// gin and request contexts.
func Auth(auth service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.FromContext(c.Request.Context())

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			log.Debug("authentication failed: missing authorization header")
			unauthorized(c)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			log.Debug("authentication failed: invalid authorization format")
			unauthorized(c)
			return
		}

		claims, err := auth.ValidateToken(parts[1])
		if err != nil {
			log.Warn("authentication failed: token rejected", logger.Err(err))
			unauthorized(c)
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("user_email", claims.Email)

		ctx := logger.WithUserID(c.Request.Context(), claims.UserID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func unauthorized(c *gin.Context) {
	requestID := apierror.GetRequestID(c)
	apierror.WriteProblem(c, apierror.NewUnauthorizedError(requestID))
	c.Abort()
}
