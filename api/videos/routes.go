package videos

import (
	"github.com/gin-gonic/gin"
	"github.com/killallgit/playlist-api/api/types"
)

// RegisterRoutes registers video routes
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies) {
	router.GET("", List(deps))
	router.GET("/:videoId", Get(deps))
	router.PUT("/:videoId", Update(deps))
}
