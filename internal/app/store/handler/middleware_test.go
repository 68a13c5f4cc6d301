package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"elpro/internal/app/store/entity"
	"elpro/internal/app/store/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthRouter(jwtManager *util.JWTManager) *gin.Engine {
	m := NewAuthMiddleware(jwtManager)
	router := gin.New()

	admin := router.Group("/admin", m.Authenticate())
	admin.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"username": c.GetString("username")})
	})
	admin.GET("/users", m.RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func performAuthorized(router *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	router := newAuthRouter(util.NewJWTManager("test-secret", time.Hour))

	w := performAuthorized(router, "/admin/ping", "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticate_MalformedHeader(t *testing.T) {
	router := newAuthRouter(util.NewJWTManager("test-secret", time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set("Authorization", "Basic abc")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticate_ValidToken(t *testing.T) {
	jwtManager := util.NewJWTManager("test-secret", time.Hour)
	router := newAuthRouter(jwtManager)
	token, err := jwtManager.GenerateToken("user-1", "editor", entity.RoleEditor)
	require.NoError(t, err)

	w := performAuthorized(router, "/admin/ping", token)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "editor")
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	expired := util.NewJWTManager("test-secret", -time.Minute)
	router := newAuthRouter(util.NewJWTManager("test-secret", time.Hour))
	token, err := expired.GenerateToken("user-1", "editor", entity.RoleEditor)
	require.NoError(t, err)

	w := performAuthorized(router, "/admin/ping", token)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAdmin_EditorForbidden(t *testing.T) {
	jwtManager := util.NewJWTManager("test-secret", time.Hour)
	router := newAuthRouter(jwtManager)
	token, err := jwtManager.GenerateToken("user-1", "editor", entity.RoleEditor)
	require.NoError(t, err)

	w := performAuthorized(router, "/admin/users", token)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireAdmin_AdminAllowed(t *testing.T) {
	jwtManager := util.NewJWTManager("test-secret", time.Hour)
	router := newAuthRouter(jwtManager)
	token, err := jwtManager.GenerateToken("user-1", "admin", entity.RoleAdmin)
	require.NoError(t, err)

	w := performAuthorized(router, "/admin/users", token)

	assert.Equal(t, http.StatusOK, w.Code)
}
