package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func signToken(t *testing.T, userID, role string, exp time.Time) string {
	t.Helper()
	return signWith(t, jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     exp.Unix(),
	})
}

func signWith(t *testing.T, method jwt.SigningMethod, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	chain := append([]gin.HandlerFunc{Auth(testSecret)}, handlers...)
	chain = append(chain, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": GetUserID(c), "role": GetUserRole(c)})
	})
	r.GET("/users/:id", chain...)
	return r
}

func TestAuth(t *testing.T) {
	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"bad scheme", "Token abc", http.StatusUnauthorized},
		{"garbage token", "Bearer abc", http.StatusUnauthorized},
		{"expired", "Bearer " + signToken(t, "user-budi", "member", time.Now().Add(-time.Hour)), http.StatusUnauthorized},
		{"valid", "Bearer " + signToken(t, "user-budi", "member", time.Now().Add(time.Hour)), http.StatusOK},
		{"lowercase scheme", "bearer " + signToken(t, "user-budi", "member", time.Now().Add(time.Hour)), http.StatusOK},
		{"no user id", "Bearer " + signToken(t, "", "member", time.Now().Add(time.Hour)), http.StatusUnauthorized},
		{"other algorithm", "Bearer " + signWith(t, jwt.SigningMethodHS512, jwt.MapClaims{"user_id": "user-budi", "exp": time.Now().Add(time.Hour).Unix()}), http.StatusUnauthorized},
		{"no expiry", "Bearer " + signWith(t, jwt.SigningMethodHS256, jwt.MapClaims{"user_id": "user-budi"}), http.StatusUnauthorized},
	}

	r := newRouter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/users/user-budi", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestAuthQueryToken(t *testing.T) {
	r := newRouter()
	token := signToken(t, "user-budi", "member", time.Now().Add(time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/users/user-budi?token="+token, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id": "user-budi", "role": "member"}`, w.Body.String())
}

func TestRequireAdminOrOwner(t *testing.T) {
	r := newRouter(RequireAdminOrOwner())
	exp := time.Now().Add(time.Hour)

	tests := []struct {
		name   string
		token  string
		path   string
		status int
	}{
		{"owner", signToken(t, "user-budi", "member", exp), "/users/user-budi", http.StatusOK},
		{"other member", signToken(t, "user-citra", "member", exp), "/users/user-budi", http.StatusForbidden},
		{"admin", signToken(t, "user-ana", "admin", exp), "/users/user-budi", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			req.Header.Set("Authorization", "Bearer "+tt.token)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	r := newRouter(RequireAdmin())
	req := httptest.NewRequest(http.MethodGet, "/users/user-budi", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "user-budi", "member", time.Now().Add(time.Hour)))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"https://app.cobuy.id"}))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set("Origin", "https://app.cobuy.id")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.cobuy.id", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
