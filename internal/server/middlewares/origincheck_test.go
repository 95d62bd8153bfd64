package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stapply-ai/agent/internal/server/handlers/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newOriginRouter(extraOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(CheckOrigin(extraOrigins))
	handler := func(ctx *gin.Context) { ctx.String(http.StatusOK, "ok") }
	r.GET("/", handler)
	r.GET("/health", handler)
	r.POST("/apply", handler)
	return r
}

func TestCheckOriginAllowsDefaultOrigin(t *testing.T) {
	r := newOriginRouter(nil)

	req := httptest.NewRequest(http.MethodPost, "/apply", nil)
	req.Header.Set("Origin", "https://cloud.stapply.ai")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCheckOriginAllowsConfiguredOrigin(t *testing.T) {
	r := newOriginRouter([]string{"https://staging.example.com"})

	req := httptest.NewRequest(http.MethodPost, "/apply", nil)
	req.Header.Set("Origin", "https://staging.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCheckOriginRejectsUnknownOrigin(t *testing.T) {
	r := newOriginRouter(nil)

	req := httptest.NewRequest(http.MethodPost, "/apply", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusForbidden, w.Code)

	var apiErr api.Error
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
	assert.Equal(t, "Access denied: unauthorized origin", apiErr.Message)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
}

func TestCheckOriginMatchesWildcardPatterns(t *testing.T) {
	r := newOriginRouter([]string{"https://*.stapply.ai"})

	for origin, want := range map[string]int{
		"https://preview.stapply.ai": http.StatusOK,
		"https://qa.stapply.ai":      http.StatusOK,
		"https://stapply.ai.evil.io": http.StatusForbidden,
	} {
		req := httptest.NewRequest(http.MethodPost, "/apply", nil)
		req.Header.Set("Origin", origin)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, want, w.Code, "origin %s", origin)
	}
}

func TestCheckOriginFallsBackToReferer(t *testing.T) {
	r := newOriginRouter(nil)

	req := httptest.NewRequest(http.MethodPost, "/apply", nil)
	req.Header.Set("Referer", "https://cloud.stapply.ai/dashboard")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCheckOriginAllowsHeaderlessClients(t *testing.T) {
	r := newOriginRouter(nil)

	req := httptest.NewRequest(http.MethodPost, "/apply", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCheckOriginSkipsExemptPaths(t *testing.T) {
	r := newOriginRouter(nil)

	for _, path := range []string{"/", "/health"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Origin", "https://evil.example.com")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code, "path %s should skip the origin check", path)
	}
}
