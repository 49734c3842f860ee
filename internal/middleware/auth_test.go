package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/mediaportal/portal-backend/internal/domain"
	"github.com/mediaportal/portal-backend/pkg/jwt"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthRouter(t *testing.T) (*gin.Engine, *jwt.Manager, *jwt.Blacklist) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	manager := jwt.NewManager("test-secret", 900, 3600)
	blacklist := jwt.NewBlacklist(client)

	r := gin.New()
	r.GET("/me", JWTAuth(manager, blacklist), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": GetUserID(c)})
	})
	r.GET("/public", OptionalAuth(manager, blacklist), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"anonymous": GetActor(c) == nil})
	})
	r.GET("/admin", JWTAuth(manager, blacklist), RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r, manager, blacklist
}

func get(r http.Handler, path, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth(t *testing.T) {
	r, manager, _ := newAuthRouter(t)
	token, err := manager.GenerateAccessToken(7, "writer", string(domain.RoleUser), "sid-1")
	require.NoError(t, err)
	refresh, _, err := manager.GenerateRefreshToken(7)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, get(r, "/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/me", "garbage").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/me", refresh).Code, "refresh tokens are not access tokens")

	w := get(r, "/me", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":7}`, w.Body.String())
}

func TestJWTAuth_RejectsBlacklistedToken(t *testing.T) {
	r, manager, blacklist := newAuthRouter(t)
	token, err := manager.GenerateAccessToken(7, "writer", string(domain.RoleUser), "sid-1")
	require.NoError(t, err)

	stored, err := blacklist.AddToken(context.Background(), token)
	require.NoError(t, err)
	require.True(t, stored)

	assert.Equal(t, http.StatusUnauthorized, get(r, "/me", token).Code)
}

func TestJWTAuth_RejectsRevokedSession(t *testing.T) {
	r, manager, blacklist := newAuthRouter(t)
	token, err := manager.GenerateAccessToken(7, "writer", string(domain.RoleUser), "sid-9")
	require.NoError(t, err)

	require.NoError(t, blacklist.RevokeSessions(context.Background(), []string{"sid-9"}, manager.AccessDuration()))
	assert.Equal(t, http.StatusUnauthorized, get(r, "/me", token).Code)
}

func TestOptionalAuth(t *testing.T) {
	r, manager, _ := newAuthRouter(t)
	token, err := manager.GenerateAccessToken(7, "writer", string(domain.RoleUser), "")
	require.NoError(t, err)

	w := get(r, "/public", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"anonymous":true}`, w.Body.String())

	w = get(r, "/public", token)
	assert.JSONEq(t, `{"anonymous":false}`, w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, get(r, "/public", "garbage").Code)
}

func TestRequireRoles(t *testing.T) {
	r, manager, _ := newAuthRouter(t)
	user, _ := manager.GenerateAccessToken(7, "writer", string(domain.RoleUser), "")
	admin, _ := manager.GenerateAccessToken(1, "root", string(domain.RoleAdmin), "")

	assert.Equal(t, http.StatusForbidden, get(r, "/admin", user).Code)
	assert.Equal(t, http.StatusOK, get(r, "/admin", admin).Code)
}
