package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tuffwear/tuff-backend/internal/app/model"
	"github.com/tuffwear/tuff-backend/pkg/util"
)

const testSecret = "middleware-test-secret"

func authTestRouter(handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", handler, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return router
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	m := NewAuthMiddleware(testSecret)
	router := authTestRouter(m.Authenticate())

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticate_MalformedHeader(t *testing.T) {
	m := NewAuthMiddleware(testSecret)
	router := authTestRouter(m.Authenticate())

	for _, header := range []string{"some-token", "Basic abc123", "Bearer"} {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", header)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
	}
}

func TestAuthenticate_InvalidToken(t *testing.T) {
	m := NewAuthMiddleware(testSecret)
	router := authTestRouter(m.Authenticate())

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	m := NewAuthMiddleware(testSecret)
	router := authTestRouter(m.Authenticate())

	tokens, err := util.GenerateTokenPair(1, "shopper@example.com", "customer", testSecret, time.Nanosecond, time.Nanosecond)
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tokens.AccessToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_TOKEN_EXPIRED")
}

func TestRequireRole(t *testing.T) {
	m := NewAuthMiddleware(testSecret)

	withRole := func(role model.Role, handler gin.HandlerFunc) *gin.Engine {
		gin.SetMode(gin.TestMode)
		router := gin.New()
		router.GET("/admin", func(c *gin.Context) {
			c.Set(UserIDKey, uint(1))
			c.Set(UserRoleKey, role)
			c.Next()
		}, handler, func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"ok": true})
		})
		return router
	}

	t.Run("allowed role", func(t *testing.T) {
		router := withRole(model.RoleManager, m.RequireAdmin())
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("customer rejected", func(t *testing.T) {
		router := withRole(model.RoleCustomer, m.RequireAdmin())
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("staff blocked from elevated routes", func(t *testing.T) {
		// Deletes and order mutations require super_admin or manager.
		elevated := m.RequireRole(model.RoleSuperAdmin, model.RoleManager)

		router := withRole(model.RoleStaff, elevated)
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code)

		router = withRole(model.RoleManager, elevated)
		req = httptest.NewRequest(http.MethodGet, "/admin", nil)
		w = httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("no role in context", func(t *testing.T) {
		gin.SetMode(gin.TestMode)
		router := gin.New()
		router.GET("/admin", m.RequireAdmin(), func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"ok": true})
		})
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
