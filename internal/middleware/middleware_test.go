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

func init() {
	gin.SetMode(gin.TestMode)
}

func protected(secret []byte, role string) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), CORS([]string{"https://ops.example"}))
	g := r.Group("/", RequireAuth(secret))
	g.POST("/write", func(c *gin.Context) { c.Status(http.StatusOK) })
	g.DELETE("/wipe", RequireRole(secret, role), func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func do(r http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Origin", "https://ops.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuth(t *testing.T) {
	secret := []byte("s3cret")
	r := protected(secret, "admin")

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodPost, "/write", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodPost, "/write", "garbage").Code)

	operator, err := GenerateToken(secret, "desk-1", "operator", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/write", operator).Code)
	assert.Equal(t, http.StatusForbidden, do(r, http.MethodDelete, "/wipe", operator).Code)

	admin, err := GenerateToken(secret, "root", "admin", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, do(r, http.MethodDelete, "/wipe", admin).Code)

	expired, err := GenerateToken(secret, "desk-1", "operator", -time.Minute)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodPost, "/write", expired).Code)

	other, err := GenerateToken([]byte("other"), "x", "admin", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodPost, "/write", other).Code)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"role": "admin"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodPost, "/write", unsigned).Code)
}

func TestRequireAuth_Disabled(t *testing.T) {
	r := protected(nil, "admin")
	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/write", "").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodDelete, "/wipe", "").Code)
}

func TestCORSAndRequestID(t *testing.T) {
	r := protected(nil, "admin")

	w := do(r, http.MethodOptions, "/write", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://ops.example", w.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodPost, "/write", nil)
	req.Header.Set("Origin", "https://evil.example")
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestCORS_AllowAllOmitsCredentials(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"*", "https://ops.example"}))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	get := func(origin string) http.Header {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("Origin", origin)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Header()
	}

	h := get("https://anyone.example")
	assert.Equal(t, "*", h.Get("Access-Control-Allow-Origin"))
	assert.Empty(t, h.Get("Access-Control-Allow-Credentials"))

	h = get("https://ops.example")
	assert.Equal(t, "https://ops.example", h.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", h.Get("Access-Control-Allow-Credentials"))
}
