package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/devhub-platform/portal/internal/constants"
	"github.com/devhub-platform/portal/internal/model"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type stubVerifier struct {
	userID uint
	ok     bool
}

func (v *stubVerifier) VerifyAccessToken(tokenString string) (uint, bool) {
	return v.userID, v.ok
}

type stubLoader struct {
	users map[uint]*model.User
}

func (l *stubLoader) GetByID(ctx context.Context, id uint) (*model.User, error) {
	if u, ok := l.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func newGateRouter(gate *AuthenticationGate) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", gate.RequireAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"userId": c.GetUint(constants.GinKeyUserID),
			"role":   c.GetString(constants.GinKeyRole),
		})
	})
	return r
}

func activeUser(id uint, role string) *model.User {
	u := &model.User{
		Username: "tester",
		Email:    "tester@example.com",
		Role:     role,
		IsActive: true,
	}
	u.ID = id
	return u
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	gate := NewAuthenticationGate(&stubVerifier{ok: true, userID: 1}, &stubLoader{})
	r := newGateRouter(gate)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without Authorization header, got %d", w.Code)
	}
}

func TestRequireAuth_MalformedHeader(t *testing.T) {
	gate := NewAuthenticationGate(&stubVerifier{ok: true, userID: 1}, &stubLoader{})
	r := newGateRouter(gate)

	for _, header := range []string{"Bearer", "Basic abc123", "Bearer "} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set(constants.HeaderAuthorization, header)
		r.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401 for header %q, got %d", header, w.Code)
		}
	}
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	gate := NewAuthenticationGate(&stubVerifier{ok: false}, &stubLoader{})
	r := newGateRouter(gate)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(constants.HeaderAuthorization, "Bearer bad-token")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for invalid token, got %d", w.Code)
	}
}

func TestRequireAuth_DeletedUser(t *testing.T) {
	// Token is valid but the account is gone
	gate := NewAuthenticationGate(
		&stubVerifier{ok: true, userID: 9},
		&stubLoader{users: map[uint]*model.User{}},
	)
	r := newGateRouter(gate)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(constants.HeaderAuthorization, "Bearer valid-token")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for deleted user, got %d", w.Code)
	}
}

func TestRequireAuth_InactiveUser(t *testing.T) {
	// Deactivation wins over an unexpired token
	inactive := activeUser(3, constants.RoleDeveloper)
	inactive.IsActive = false

	gate := NewAuthenticationGate(
		&stubVerifier{ok: true, userID: 3},
		&stubLoader{users: map[uint]*model.User{3: inactive}},
	)
	r := newGateRouter(gate)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(constants.HeaderAuthorization, "Bearer valid-token")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("Expected 403 for inactive account, got %d", w.Code)
	}
}

func TestRequireAuth_ValidRequest(t *testing.T) {
	gate := NewAuthenticationGate(
		&stubVerifier{ok: true, userID: 5},
		&stubLoader{users: map[uint]*model.User{5: activeUser(5, constants.RoleAdmin)}},
	)
	r := newGateRouter(gate)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(constants.HeaderAuthorization, "Bearer valid-token")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	if body == "" || !strings.Contains(body, `"userId":5`) || !strings.Contains(body, `"role":"admin"`) {
		t.Errorf("Expected identity in response, got %s", body)
	}
}

func TestOptionalAuth_AnonymousPassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	gate := NewAuthenticationGate(&stubVerifier{ok: false}, &stubLoader{})

	r := gin.New()
	r.GET("/open", gate.OptionalAuth(), func(c *gin.Context) {
		_, authenticated := c.Get(constants.GinKeyUserID)
		c.JSON(http.StatusOK, gin.H{"authenticated": authenticated})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected 200 for anonymous request, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"authenticated":false`) {
		t.Errorf("Expected unauthenticated passthrough, got %s", w.Body.String())
	}
}
