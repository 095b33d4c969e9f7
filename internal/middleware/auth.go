package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/AffanShaikhsurab/foodosys-sub001/internal/apperr"
	"github.com/AffanShaikhsurab/foodosys-sub001/internal/auth"
)

const (
	ContextUserID   = "userID"
	ContextIdentity = "identity"
)

// AuthMiddleware rejects requests without a valid bearer token.
func AuthMiddleware(secret string, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			apperr.Respond(c, log, apperr.Unauthorized("missing authorization header"))
			c.Abort()
			return
		}

		if !authenticate(c, secret, authHeader, log) {
			c.Abort()
			return
		}
		c.Next()
	}
}

// OptionalAuth lets anonymous requests through but still rejects a header
// that is present and invalid.
func OptionalAuth(secret string, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		if !authenticate(c, secret, authHeader, log) {
			c.Abort()
			return
		}
		c.Next()
	}
}

func authenticate(c *gin.Context, secret, authHeader string, log *zap.Logger) bool {
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		apperr.Respond(c, log, apperr.Unauthorized("invalid authorization format, use 'Bearer <token>'"))
		return false
	}

	userID, err := auth.ValidateToken(secret, parts[1])
	if err != nil {
		log.Debug("token rejected", zap.Error(err))
		apperr.Respond(c, log, apperr.Unauthorized("invalid token"))
		return false
	}

	c.Set(ContextUserID, userID)
	return true
}

// UserID returns the authenticated external user id, if any.
func UserID(c *gin.Context) (string, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}
