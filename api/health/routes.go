package health

import (
	"github.com/gin-gonic/gin"
	"github.com/killallgit/playlist-api/api/types"
)

// RegisterRoutes registers health check routes on the engine root, outside
// the versioned group and its rate limits.
func RegisterRoutes(engine *gin.Engine, deps *types.Dependencies) {
	engine.GET("/health", Get(deps))
	engine.HEAD("/health", Get(deps))
}
