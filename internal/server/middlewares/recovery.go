package middlewares

import (
	"io"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/stapply-ai/agent/internal/server/handlers/api"
)

// Recovery converts panics into a plain 500 envelope. The panic value and
// stack go to the log only, never into the response body.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(ctx *gin.Context, recovered any) {
		slog.Error("panic recovered",
			"method", ctx.Request.Method,
			"path", ctx.Request.URL.Path,
			"panic", recovered,
			"stack", string(debug.Stack()),
		)
		ctx.Abort()
		ctx.PureJSON(http.StatusInternalServerError, api.Error{
			Message:    "Internal server error",
			StatusCode: http.StatusInternalServerError,
		})
	})
}
