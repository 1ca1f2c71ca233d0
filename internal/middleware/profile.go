package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/visadesk/backend/internal/services/profile"
)

// EnsureProfile lazily provisions the role-specific profile for the
// authenticated subject. Sits directly after AuthMiddleware so handlers
// can assume the profile exists.
func EnsureProfile(profiles *profile.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"code": "auth_error", "error": "Authorization token required"})
			c.Abort()
			return
		}

		if err := profiles.Ensure(principal.SubjectID, principal.Role); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"code": "server_error", "error": "Failed to provision profile"})
			c.Abort()
			return
		}

		c.Next()
	}
}
