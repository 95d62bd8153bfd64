package middlewares

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stapply-ai/agent/internal/server/handlers/api"
)

// Timeout puts a deadline on the request context so handlers that respect
// it give up on their own. A 504 envelope is written only when the deadline
// passed and the handler produced no response of its own.
func Timeout(limit time.Duration) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		reqCtx, cancel := context.WithTimeout(ctx.Request.Context(), limit)
		defer cancel()

		ctx.Request = ctx.Request.WithContext(reqCtx)
		ctx.Next()

		if reqCtx.Err() == context.DeadlineExceeded && !ctx.Writer.Written() {
			slog.Warn("request timed out",
				"method", ctx.Request.Method,
				"path", ctx.Request.URL.Path,
				"limit", limit,
			)
			ctx.Abort()
			ctx.PureJSON(http.StatusGatewayTimeout, api.Error{
				Message:    "request timed out",
				StatusCode: http.StatusGatewayTimeout,
			})
		}
	}
}
