package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"outletdesk/internal/shared/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func sign(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{JWT: config.JWTConfig{Secret: testSecret}}

	r := gin.New()
	r.Use(JWTAuthWithConfig(cfg))
	r.GET("/me", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("user_id")+"/"+c.GetString("user_role"))
	})
	r.DELETE("/rooms", RequireManager(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func call(r *gin.Engine, method, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/me", nil)
	if method == http.MethodDelete {
		req = httptest.NewRequest(method, "/rooms", nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth(t *testing.T) {
	r := newRouter()
	exp := time.Now().Add(time.Hour).Unix()

	access := sign(t, jwt.MapClaims{"user_id": "u-1", "role": "STAFF", "type": "access", "exp": exp})
	w := call(r, http.MethodGet, access)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u-1/STAFF", w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, call(r, http.MethodGet, "").Code)

	refresh := sign(t, jwt.MapClaims{"user_id": "u-1", "role": "STAFF", "type": "refresh", "exp": exp})
	assert.Equal(t, http.StatusUnauthorized, call(r, http.MethodGet, refresh).Code, "refresh tokens cannot call the API")

	expired := sign(t, jwt.MapClaims{"user_id": "u-1", "role": "STAFF", "type": "access", "exp": time.Now().Add(-time.Minute).Unix()})
	assert.Equal(t, http.StatusUnauthorized, call(r, http.MethodGet, expired).Code)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Token "+access)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireManager(t *testing.T) {
	r := newRouter()
	exp := time.Now().Add(time.Hour).Unix()

	for role, want := range map[string]int{
		"ADMIN":   http.StatusNoContent,
		"MANAGER": http.StatusNoContent,
		"STAFF":   http.StatusForbidden,
	} {
		token := sign(t, jwt.MapClaims{"user_id": "u-1", "role": role, "type": "access", "exp": exp})
		assert.Equal(t, want, call(r, http.MethodDelete, token).Code, role)
	}
}
