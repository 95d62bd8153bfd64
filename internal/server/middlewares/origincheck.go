package middlewares

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/gin-gonic/gin"
	"github.com/stapply-ai/agent/internal/server/handlers/api"
)

// Origins that may call the API in production, on top of whatever the
// config allows.
var defaultAllowedOrigins = []string{
	"https://cloud.stapply.ai",
	"http://cloud.stapply.ai",
}

// Paths anyone may hit regardless of origin.
var originExemptPaths = mapset.NewSet(
	"/",
	"/health",
	"/docs",
	"/redoc",
	"/openapi.json",
)

// CheckOrigin rejects browser requests from origins outside the allow
// list. Requests carrying neither an Origin nor a Referer header pass
// through, those come from curl and server-to-server callers.
func CheckOrigin(extraOrigins []string) gin.HandlerFunc {
	allowed := make([]string, 0, len(defaultAllowedOrigins)+len(extraOrigins))
	allowed = append(allowed, defaultAllowedOrigins...)
	allowed = append(allowed, extraOrigins...)

	return func(ctx *gin.Context) {
		if originExemptPaths.Contains(ctx.Request.URL.Path) {
			ctx.Next()
			return
		}

		origin := ctx.GetHeader("Origin")
		if origin == "" {
			origin = ctx.GetHeader("Referer")
		}
		if origin == "" {
			slog.Warn("request without origin or referer", "path", ctx.Request.URL.Path)
			ctx.Next()
			return
		}

		for _, allow := range allowed {
			if originMatches(allow, origin) {
				ctx.Next()
				return
			}
		}

		slog.Warn("rejected origin", "origin", origin, "path", ctx.Request.URL.Path)
		ctx.Abort()
		ctx.PureJSON(http.StatusForbidden, api.Error{
			Message:    "Access denied: unauthorized origin",
			StatusCode: http.StatusForbidden,
		})
	}
}

// originMatches treats allow entries with glob characters as patterns,
// so "https://*.stapply.ai" covers every subdomain. Plain entries match
// by prefix, which also covers Referer URLs carrying a path.
func originMatches(allow, origin string) bool {
	if strings.ContainsAny(allow, "*?") {
		ok, err := doublestar.Match(allow, origin)
		return err == nil && ok
	}
	return strings.HasPrefix(origin, allow)
}
