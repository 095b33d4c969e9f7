package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/AffanShaikhsurab/foodosys-sub001/internal/apperr"
	"github.com/AffanShaikhsurab/foodosys-sub001/internal/core"
)

// RequireAdmin must run after AuthMiddleware. The role lives on the profile,
// not in the token.
func RequireAdmin(profiles core.ProfileReader, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := UserID(c)
		if !ok {
			apperr.Respond(c, log, apperr.Unauthorized("Unauthorized"))
			c.Abort()
			return
		}

		identity, err := profiles.LookupIdentity(c.Request.Context(), userID)
		if errors.Is(err, core.ErrNoProfile) {
			apperr.Respond(c, log, apperr.Forbidden("Forbidden: Admin access required"))
			c.Abort()
			return
		}
		if err != nil {
			apperr.Respond(c, log, apperr.Database("failed to load profile", err))
			c.Abort()
			return
		}

		if !identity.IsAdmin() {
			log.Warn("admin route denied",
				zap.String("user_id", userID),
				zap.String("path", c.FullPath()))
			apperr.Respond(c, log, apperr.Forbidden("Forbidden: Admin access required"))
			c.Abort()
			return
		}

		c.Set(ContextIdentity, identity)
		c.Next()
	}
}

// Identity returns the profile loaded by RequireAdmin.
func Identity(c *gin.Context) (*core.Identity, bool) {
	v, ok := c.Get(ContextIdentity)
	if !ok {
		return nil, false
	}
	id, ok := v.(*core.Identity)
	return id, ok
}
