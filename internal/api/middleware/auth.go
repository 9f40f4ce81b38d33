package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mbela/lookbook/internal/domain"
	"github.com/mbela/lookbook/internal/logger"
	"github.com/mbela/lookbook/internal/service"
)

const (
	ctxKeyUserID = "user_id"
	ctxKeyRole   = "user_role"
)

// RequireAuth returns a middleware that rejects requests without a valid
// bearer access token and stores the caller's identity on the Gin context.
func RequireAuth(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		claims, err := auth.ParseToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil || claims.Kind != "access" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(ctxKeyUserID, claims.UserID)
		c.Set(ctxKeyRole, claims.Role)

		ctx := logger.WithField(c.Request.Context(), logger.FieldUserID, claims.UserID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequireAdmin rejects authenticated requests whose token lacks the admin
// role. Must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if UserRole(c) != domain.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated user's ID, or zero when unauthenticated.
func UserID(c *gin.Context) uint {
	if v, ok := c.Get(ctxKeyUserID); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

// UserRole returns the authenticated user's role, or empty when
// unauthenticated.
func UserRole(c *gin.Context) domain.Role {
	if v, ok := c.Get(ctxKeyRole); ok {
		if role, ok := v.(domain.Role); ok {
			return role
		}
	}
	return ""
}
