package info

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stapply-ai/agent/internal/version"
)

// InfoHandler serves the API index.
type InfoHandler struct{}

func New() *InfoHandler {
	return &InfoHandler{}
}

// Index points callers at the docs and health endpoints
//
//	@Summary		API index
//	@Description	Returns the service name, version and well-known paths
//	@Tags			info
//	@Produce		json
//	@Success		200	{object}	InfoResponse
//	@Router			/ [get]
func (h *InfoHandler) Index(ctx *gin.Context) {
	ctx.PureJSON(http.StatusOK, &InfoResponse{
		Message: "Agent Stapply API",
		Version: version.Version,
		Docs:    "/docs",
		Health:  "/health",
	})
}
