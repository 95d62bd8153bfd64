package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stapply-ai/agent/internal/server/handlers/api"
	"github.com/stapply-ai/agent/internal/server/handlers/apply"
	"github.com/stapply-ai/agent/internal/server/handlers/docsui"
	"github.com/stapply-ai/agent/internal/server/handlers/health"
	"github.com/stapply-ai/agent/internal/server/handlers/info"
	"github.com/stapply-ai/agent/internal/server/middlewares"

	_ "github.com/stapply-ai/agent/internal/server/docs"
)

func SetupRoutes(config *Config, svc *Services) http.Handler {
	return newRouter(config, svc).Handler()
}

func newRouter(config *Config, svc *Services) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true

	infoH := info.New()
	healthH := health.New()
	applyH := apply.New(svc.Sessions)
	docsH := docsui.New()

	r.Use(middlewares.Logger())
	r.Use(middlewares.Recovery())
	r.Use(middlewares.GZIP())
	r.Use(middlewares.CORS())
	if config.HTTP.RequestTimeout > 0 {
		r.Use(middlewares.Timeout(config.HTTP.RequestTimeout))
	}

	if config.IsProduction() {
		r.Use(middlewares.HSTS(false))
		r.Use(middlewares.CheckOrigin(config.HTTP.AllowedOrigins))
		if config.HTTP.RateLimit != "" {
			r.Use(middlewares.RateLimiter(config.HTTP.RateLimit))
		}
	}

	r.GET("/", infoH.Index)
	r.GET("/health", healthH.Health)

	r.GET("/docs", docsH.SwaggerUI)
	r.GET("/redoc", docsH.Redoc)
	r.GET("/openapi.json", docsH.OpenAPI)

	r.POST("/apply", applyH.Apply)
	r.GET("/sessions", applyH.ListSessions)
	r.GET("/sessions/:id", applyH.GetSession)

	r.NoRoute(func(c *gin.Context) {
		c.PureJSON(http.StatusNotFound, api.Error{
			Message:    "not found",
			StatusCode: http.StatusNotFound,
		})
	})

	r.NoMethod(func(c *gin.Context) {
		c.PureJSON(http.StatusMethodNotAllowed, api.Error{
			Message:    "method not allowed",
			StatusCode: http.StatusMethodNotAllowed,
		})
	})

	return r
}

func init() {
	gin.SetMode(gin.ReleaseMode)
}
