package docsui

import (
	_ "embed"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stapply-ai/agent/internal/server/handlers/api"
	"github.com/swaggo/swag/v2"
)

//go:embed docs.html
var swaggerPage []byte

//go:embed redoc.html
var redocPage []byte

// DocsHandler serves the interactive API documentation and the OpenAPI
// document both viewers render.
type DocsHandler struct{}

func New() *DocsHandler {
	return &DocsHandler{}
}

func (h *DocsHandler) SwaggerUI(ctx *gin.Context) {
	ctx.Data(http.StatusOK, "text/html; charset=utf-8", swaggerPage)
}

func (h *DocsHandler) Redoc(ctx *gin.Context) {
	ctx.Data(http.StatusOK, "text/html; charset=utf-8", redocPage)
}

func (h *DocsHandler) OpenAPI(ctx *gin.Context) {
	doc, err := swag.ReadDoc()
	if err != nil {
		api.AbortWithError(ctx, http.StatusInternalServerError, err)
		return
	}
	ctx.Data(http.StatusOK, "application/json; charset=utf-8", []byte(doc))
}
