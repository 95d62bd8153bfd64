package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stapply-ai/agent/internal/server/handlers/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeoutSetsDeadline(t *testing.T) {
	r := gin.New()
	r.Use(Timeout(time.Second))
	r.GET("/fast", func(ctx *gin.Context) {
		_, ok := ctx.Request.Context().Deadline()
		assert.True(t, ok)
		ctx.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/fast", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}

func TestTimeoutReturnsEnvelope(t *testing.T) {
	r := gin.New()
	r.Use(Timeout(5 * time.Millisecond))
	r.GET("/slow", func(ctx *gin.Context) {
		// well-behaved handler: waits for the deadline, writes nothing
		<-ctx.Request.Context().Done()
	})

	req := httptest.NewRequest(http.MethodGet, "/slow", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusGatewayTimeout, w.Code)

	var apiErr api.Error
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
	assert.Equal(t, "request timed out", apiErr.Message)
	assert.Equal(t, http.StatusGatewayTimeout, apiErr.StatusCode)
}

func TestTimeoutKeepsHandlerResponse(t *testing.T) {
	r := gin.New()
	r.Use(Timeout(5 * time.Millisecond))
	r.GET("/slow", func(ctx *gin.Context) {
		<-ctx.Request.Context().Done()
		ctx.String(http.StatusInternalServerError, "gave up")
	})

	req := httptest.NewRequest(http.MethodGet, "/slow", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	// the handler answered after the deadline; its response stands
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "gave up", w.Body.String())
}
