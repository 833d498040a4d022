package api

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/varun4522/calm-campus-backend/internal/auth"
	"github.com/varun4522/calm-campus-backend/internal/user"
)

// RequireRole allows only users whose JWT role claim is in the given
// set. It MUST run after auth.AuthRequired.
func RequireRole(roles ...user.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := user.Role(auth.GetUserRole(c))
		if role == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		if !slices.Contains(roles, role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}

		c.Next()
	}
}

// RequireAdmin restricts a route to admins.
func RequireAdmin() gin.HandlerFunc {
	return RequireRole(user.RoleAdmin)
}
