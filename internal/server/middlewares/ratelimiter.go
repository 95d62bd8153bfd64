package middlewares

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stapply-ai/agent/internal/server/handlers/api"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
)

var rateLimitStore = memory.NewStore()

func RateLimiter(formattedRate string) gin.HandlerFunc {
	rate, err := limiter.NewRateFromFormatted(formattedRate)
	if err != nil {
		panic(err)
	}
	limiter := limiter.New(rateLimitStore, rate)
	return mgin.NewMiddleware(
		limiter,
		mgin.WithLimitReachedHandler(func(c *gin.Context) {
			c.PureJSON(http.StatusTooManyRequests, api.Error{
				Message:    "rate limit exceeded",
				StatusCode: http.StatusTooManyRequests,
			})
		}),
		mgin.WithErrorHandler(func(c *gin.Context, err error) {
			slog.Error("rate limiter", "error", err)
			c.PureJSON(http.StatusInternalServerError, api.Error{
				Message:    "Internal server error",
				StatusCode: http.StatusInternalServerError,
			})
		}),
	)
}
