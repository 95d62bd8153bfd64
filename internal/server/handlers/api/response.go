package api

import "github.com/gin-gonic/gin"

// AbortWithError stops the handler chain and writes the error envelope.
// The error also lands on the gin context so the request logger picks it up.
func AbortWithError(ctx *gin.Context, status int, err error) {
	ctx.Abort()
	ctx.Error(err)
	ctx.PureJSON(status, Error{
		Message:    err.Error(),
		StatusCode: status,
	})
}
