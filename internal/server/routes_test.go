package server

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stapply-ai/agent/internal/agent"
	"github.com/stapply-ai/agent/internal/browser"
	"github.com/stapply-ai/agent/internal/db"
	"github.com/stapply-ai/agent/internal/email"
	"github.com/stapply-ai/agent/internal/server/handlers/api"
	"github.com/stapply-ai/agent/internal/server/handlers/apply"
	"github.com/stapply-ai/agent/internal/server/handlers/health"
	"github.com/stapply-ai/agent/internal/server/handlers/info"
	"github.com/stapply-ai/agent/internal/version"
	"github.com/stapply-ai/agent/internal/webhook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestConfig(t *testing.T, browserAPIURL string) *Config {
	t.Helper()
	return &Config{
		HTTP: HTTPConfig{
			Host:        "127.0.0.1",
			Port:        8000,
			Environment: EnvDevelopment,
		},
		Agent: agent.Config{
			Workers:    2,
			QueueSize:  8,
			RunTimeout: 5 * time.Second,
		},
		Browser: browser.Config{
			APIURL:  browserAPIURL,
			APIKey:  "test-key",
			Timeout: 5 * time.Second,
		},
		Webhook: webhook.Config{
			Tolerance: 5 * time.Minute,
			Timeout:   5 * time.Second,
		},
		Email:   email.Config{},
		DataDir: t.TempDir(),
	}
}

type testServer struct {
	router   *gin.Engine
	services *Services
}

func newTestServer(t *testing.T, config *Config) *testServer {
	t.Helper()

	sqliteDB, err := db.NewSqliteDB(db.WithPath(filepath.Join(t.TempDir(), "test.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqliteDB.Close() })

	services, err := NewServices(config, sqliteDB)
	require.NoError(t, err)

	return &testServer{
		router:   newRouter(config, services),
		services: services,
	}
}

func (ts *testServer) get(path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

// newStubKernel serves just enough of the browser provider API for a full
// apply round trip, plus a resume download endpoint.
func newStubKernel(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	mux.HandleFunc("POST /browsers", func(w http.ResponseWriter, r *http.Request) {
		cdpURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/cdp"
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"session_id":"bs_test","cdp_ws_url":%q,"browser_live_view_url":"https://live.test/bs_test"}`, cdpURL)
	})
	mux.HandleFunc("DELETE /browsers/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("/cdp", func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		conn.Close(websocket.StatusNormalClosure, "")
	})
	mux.HandleFunc("GET /resume.pdf", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4 stub resume"))
	})

	return server
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) api.Error {
	t.Helper()
	var apiErr api.Error
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
	return apiErr
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t, newTestConfig(t, "http://127.0.0.1:1"))

	w := ts.get("/health")
	require.Equal(t, http.StatusOK, w.Code)

	var resp health.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, health.StatusHealthy, resp.Status)
	assert.Equal(t, version.Version, resp.Version)
	assert.False(t, resp.Timestamp.IsZero())
}

func TestHealthTimestampsNonDecreasing(t *testing.T) {
	ts := newTestServer(t, newTestConfig(t, "http://127.0.0.1:1"))

	var last time.Time
	for i := 0; i < 5; i++ {
		w := ts.get("/health")
		require.Equal(t, http.StatusOK, w.Code)

		var resp health.HealthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Timestamp.Before(last))
		last = resp.Timestamp
	}
}

func TestHealthConcurrentRequests(t *testing.T) {
	ts := newTestServer(t, newTestConfig(t, "http://127.0.0.1:1"))

	const clients = 50
	results := make([]int, clients)

	var wg sync.WaitGroup
	wg.Add(clients)
	for i := 0; i < clients; i++ {
		go func(slot int) {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			w := httptest.NewRecorder()
			ts.router.ServeHTTP(w, req)
			results[slot] = w.Code
		}(i)
	}
	wg.Wait()

	for i, code := range results {
		assert.Equal(t, http.StatusOK, code, "request %d", i)
	}
}

func TestRootEndpoint(t *testing.T) {
	ts := newTestServer(t, newTestConfig(t, "http://127.0.0.1:1"))

	w := ts.get("/")
	require.Equal(t, http.StatusOK, w.Code)

	var resp info.InfoResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Agent Stapply API", resp.Message)
	assert.Equal(t, version.Version, resp.Version)
	assert.Equal(t, "/docs", resp.Docs)
	assert.Equal(t, "/health", resp.Health)
}

func TestDocsEndpoints(t *testing.T) {
	ts := newTestServer(t, newTestConfig(t, "http://127.0.0.1:1"))

	for _, path := range []string{"/docs", "/redoc", "/openapi.json"} {
		w := ts.get(path)
		assert.Equal(t, http.StatusOK, w.Code, "path %s", path)
		assert.NotEmpty(t, w.Body.String(), "path %s", path)
	}
}

func TestPanicReturnsEnvelope(t *testing.T) {
	ts := newTestServer(t, newTestConfig(t, "http://127.0.0.1:1"))
	ts.router.GET("/explode", func(ctx *gin.Context) {
		panic("sensitive internal state")
	})

	w := ts.get("/explode")
	require.Equal(t, http.StatusInternalServerError, w.Code)

	apiErr := decodeEnvelope(t, w)
	assert.Equal(t, "Internal server error", apiErr.Message)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.NotContains(t, w.Body.String(), "sensitive internal state")
	assert.NotContains(t, w.Body.String(), "goroutine")
}

func TestCORSArbitraryOrigins(t *testing.T) {
	ts := newTestServer(t, newTestConfig(t, "http://127.0.0.1:1"))

	for _, origin := range []string{"https://cloud.stapply.ai", "https://random-site.example"} {
		preflight := httptest.NewRequest(http.MethodOptions, "/apply", nil)
		preflight.Header.Set("Origin", origin)
		preflight.Header.Set("Access-Control-Request-Method", http.MethodPost)
		w := httptest.NewRecorder()
		ts.router.ServeHTTP(w, preflight)

		assert.Equal(t, http.StatusNoContent, w.Code, "preflight for %s", origin)
		assert.Equal(t, origin, w.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("Origin", origin)
		w = httptest.NewRecorder()
		ts.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, origin, w.Header().Get("Access-Control-Allow-Origin"))
	}
}

func TestNotFoundEnvelope(t *testing.T) {
	ts := newTestServer(t, newTestConfig(t, "http://127.0.0.1:1"))

	w := ts.get("/no-such-route")
	require.Equal(t, http.StatusNotFound, w.Code)

	apiErr := decodeEnvelope(t, w)
	assert.Equal(t, "not found", apiErr.Message)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}

func TestMethodNotAllowedEnvelope(t *testing.T) {
	ts := newTestServer(t, newTestConfig(t, "http://127.0.0.1:1"))

	req := httptest.NewRequest(http.MethodDelete, "/apply", nil)
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusMethodNotAllowed, w.Code)

	apiErr := decodeEnvelope(t, w)
	assert.Equal(t, "method not allowed", apiErr.Message)
	assert.Equal(t, http.StatusMethodNotAllowed, apiErr.StatusCode)
}

func TestApplyRoundTrip(t *testing.T) {
	kernel := newStubKernel(t)
	config := newTestConfig(t, kernel.URL)
	ts := newTestServer(t, config)

	ctx := context.Background()
	require.NoError(t, ts.services.Start(ctx))

	body := fmt.Sprintf(`{
		"user_id": "user-42",
		"url": "https://jobs.example.com/swe",
		"resume_url": %q
	}`, kernel.URL+"/resume.pdf")

	req := httptest.NewRequest(http.MethodPost, "/apply", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())

	var accepted apply.ApplyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &accepted))
	require.NotEmpty(t, accepted.SessionID)
	assert.Equal(t, "https://live.test/bs_test", accepted.LiveURL)

	// Shutdown drains the queue so the session reaches a terminal state.
	require.NoError(t, ts.services.Shutdown(ctx))

	w = ts.get("/sessions/" + accepted.SessionID)
	require.Equal(t, http.StatusOK, w.Code)

	var session agent.Session
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &session))
	assert.Equal(t, agent.StatusSucceeded, session.Status)
	assert.Equal(t, "user-42", session.UserID)
	assert.Contains(t, session.Summary, "https://live.test/bs_test")

	w = ts.get("/sessions?user_id=user-42")
	require.Equal(t, http.StatusOK, w.Code)

	var list apply.ListSessionsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Count)
}

func TestApplyValidationEnvelope(t *testing.T) {
	ts := newTestServer(t, newTestConfig(t, "http://127.0.0.1:1"))

	req := httptest.NewRequest(http.MethodPost, "/apply", strings.NewReader(`{"url": "https://jobs.example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)

	apiErr := decodeEnvelope(t, w)
	assert.Equal(t, "user_id is required", apiErr.Message)
}

func newProductionConfig(t *testing.T, rateLimit string) *Config {
	config := newTestConfig(t, "http://127.0.0.1:1")
	config.HTTP.Environment = EnvProduction
	config.HTTP.RateLimit = rateLimit
	return config
}

func TestProductionOriginGuard(t *testing.T) {
	ts := newTestServer(t, newProductionConfig(t, ""))

	req := httptest.NewRequest(http.MethodPost, "/apply", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", "https://evil.example.com")
	req.Header.Set("X-Forwarded-Proto", "https")
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusForbidden, w.Code)

	apiErr := decodeEnvelope(t, w)
	assert.Equal(t, "Access denied: unauthorized origin", apiErr.Message)

	// health stays reachable from anywhere
	hreq := httptest.NewRequest(http.MethodGet, "/health", nil)
	hreq.Header.Set("Origin", "https://evil.example.com")
	hreq.Header.Set("X-Forwarded-Proto", "https")
	w = httptest.NewRecorder()
	ts.router.ServeHTTP(w, hreq)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProductionRateLimit(t *testing.T) {
	ts := newTestServer(t, newProductionConfig(t, "2-M"))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/sessions?user_id=limited", nil)
		req.RemoteAddr = "203.0.113.9:4444"
		req.Header.Set("X-Forwarded-Proto", "https")
		w := httptest.NewRecorder()
		ts.router.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}
