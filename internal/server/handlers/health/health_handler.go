package health

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stapply-ai/agent/internal/version"
)

// HealthHandler reports service liveness.
type HealthHandler struct{}

func New() *HealthHandler {
	return &HealthHandler{}
}

// Health returns the current service health
//
//	@Summary		Health check
//	@Description	Returns the service health with the current server time
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	HealthResponse
//	@Router			/health [get]
func (h *HealthHandler) Health(ctx *gin.Context) {
	ctx.PureJSON(http.StatusOK, &HealthResponse{
		Status:    StatusHealthy,
		Timestamp: time.Now().UTC(),
		Version:   version.Version,
	})
}
