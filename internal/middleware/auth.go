package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/visadesk/backend/internal/database"
	"github.com/visadesk/backend/internal/utils"
)

// Principal is the single authenticated identity structure produced by
// token verification and handed to everything downstream.
type Principal struct {
	SubjectID uuid.UUID
	Role      database.Role
}

const principalKey = "principal"

// AuthMiddleware verifies the bearer token and puts a typed Principal
// into the request context.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)

		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"code": "auth_error", "error": "Authorization token required"})
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(jwtSecret, tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"code": "auth_error", "error": "Invalid or expired token"})
			c.Abort()
			return
		}

		if !claims.Role.Valid() {
			c.JSON(http.StatusUnauthorized, gin.H{"code": "auth_error", "error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(principalKey, Principal{SubjectID: claims.SubjectID, Role: claims.Role})
		c.Next()
	}
}

// RequireRoles aborts with 403 unless the principal's role is one of
// the given roles. Admin always passes.
func RequireRoles(roles ...database.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"code": "auth_error", "error": "Authorization token required"})
			c.Abort()
			return
		}

		if principal.Role == database.RoleAdmin {
			c.Next()
			return
		}

		for _, role := range roles {
			if principal.Role == role {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{"code": "forbidden", "error": "Insufficient role"})
		c.Abort()
	}
}

// GetPrincipal returns the authenticated principal set by AuthMiddleware.
func GetPrincipal(c *gin.Context) (Principal, bool) {
	value, exists := c.Get(principalKey)
	if !exists {
		return Principal{}, false
	}
	principal, ok := value.(Principal)
	return principal, ok
}

// extractToken gets the token from the Authorization header.
func extractToken(c *gin.Context) string {
	bearerToken := c.GetHeader("Authorization")
	parts := strings.Split(bearerToken, " ")
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}
