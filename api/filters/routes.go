package filters

import (
	"github.com/gin-gonic/gin"
	"github.com/killallgit/playlist-api/api/types"
)

// RegisterRoutes registers filter routes. writeMiddleware guards the
// operations that rewrite the catalog.
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies, writeMiddleware ...gin.HandlerFunc) {
	router.GET("", List(deps))
	router.POST("", Create(deps))
	router.GET("/export", Export(deps))
	router.GET("/:id", Get(deps))
	router.DELETE("/:id", Delete(deps))

	router.POST("/import", types.Chain(writeMiddleware, Import(deps))...)
	router.POST("/apply", types.Chain(writeMiddleware, Apply(deps))...)
	router.POST("/preview", Preview(deps))
}
