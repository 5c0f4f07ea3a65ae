package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(m *JWTManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", AuthRequired(m), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": GetUserID(c), "admin": IsAdmin(c)})
	})
	r.GET("/admin", AuthRequired(m), RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func do(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestTokenRoundTrip(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)

	token, err := m.GenerateAccessToken("user-1", "Kari Nordmann", RoleAdmin)
	require.NoError(t, err)

	claims, err := m.ParseAndValidate(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, RoleAdmin, claims.Role)

	_, err = NewJWTManager("other", time.Hour).ParseAndValidate(token)
	assert.Error(t, err)
}

func TestExpiredTokenIsRejected(t *testing.T) {
	m := NewJWTManager("secret", -time.Minute)
	token, err := m.GenerateAccessToken("user-1", "", "")
	require.NoError(t, err)

	w := do(newTestRouter(m), "/me", token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMiddleware(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)
	r := newTestRouter(m)

	user, err := m.GenerateAccessToken("user-1", "Ola", "")
	require.NoError(t, err)
	admin, err := m.GenerateAccessToken("admin-1", "Kari", RoleAdmin)
	require.NoError(t, err)

	tests := []struct {
		name  string
		path  string
		token string
		want  int
	}{
		{"no header", "/me", "", http.StatusUnauthorized},
		{"garbage token", "/me", "abc", http.StatusUnauthorized},
		{"user", "/me", user, http.StatusOK},
		{"user on admin route", "/admin", user, http.StatusForbidden},
		{"admin on admin route", "/admin", admin, http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, tt.path, tt.token)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}
