package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/devhub-platform/portal/internal/constants"
	"github.com/gin-gonic/gin"
)

func newRoleRouter(userRole string, allowed ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin-only",
		func(c *gin.Context) {
			// Simulates the identity set by the authentication gate
			c.Set(constants.GinKeyRole, userRole)
			c.Next()
		},
		RequireRole(allowed...),
		func(c *gin.Context) {
			c.Status(http.StatusOK)
		},
	)
	return r
}

func TestRequireRole_AllowsMatchingRole(t *testing.T) {
	r := newRoleRouter(constants.RoleAdmin, constants.RoleAdmin)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin-only", nil))

	if w.Code != http.StatusOK {
		t.Errorf("Expected 200 for admin, got %d", w.Code)
	}
}

func TestRequireRole_RejectsOtherRole(t *testing.T) {
	// Exact match only: developer is not admin, and there is no hierarchy
	r := newRoleRouter(constants.RoleDeveloper, constants.RoleAdmin)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin-only", nil))

	if w.Code != http.StatusForbidden {
		t.Errorf("Expected 403 for developer, got %d", w.Code)
	}
}

func TestRequireRole_RejectsMissingRole(t *testing.T) {
	r := newRoleRouter("", constants.RoleAdmin)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin-only", nil))

	if w.Code != http.StatusForbidden {
		t.Errorf("Expected 403 for missing role, got %d", w.Code)
	}
}

func TestRequireRole_MultipleAllowedRoles(t *testing.T) {
	r := newRoleRouter(constants.RoleDeveloper, constants.RoleDeveloper, constants.RoleAdmin)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin-only", nil))

	if w.Code != http.StatusOK {
		t.Errorf("Expected 200 when role is in allowed set, got %d", w.Code)
	}
}
