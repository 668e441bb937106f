package uploads

import (
	"github.com/gin-gonic/gin"
	"github.com/killallgit/playlist-api/api/types"
)

// RegisterRoutes registers upload routes. writeMiddleware guards the
// upload itself, which rewrites a whole channel.
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies, writeMiddleware ...gin.HandlerFunc) {
	router.POST("", types.Chain(writeMiddleware, Upload(deps))...)
	router.GET("/runs", ListRuns(deps))
	router.GET("/runs/:runId", GetRun(deps))
}
