package middleware

import (
	"net/http"

	"github.com/devhub-platform/portal/internal/constants"
	"github.com/devhub-platform/portal/pkg/logger"
	"github.com/gin-gonic/gin"
)

// RequireRole rejects authenticated requests whose role is not in the
// allowed set. Comparison is exact match; there is no role hierarchy.
// Must run after RequireAuth.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		role := c.GetString(constants.GinKeyRole)

		if _, ok := allowed[role]; !ok {
			logger.WarnWithContext(c.Request.Context(), "Request rejected: insufficient role").
				String("role", role).
				String("path", c.Request.URL.Path).
				Log()
			c.JSON(http.StatusForbidden, constants.BuildErrorResponse(constants.MsgForbidden, nil))
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireAdmin is shorthand for the admin-only surfaces
func RequireAdmin() gin.HandlerFunc {
	return RequireRole(constants.RoleAdmin)
}
