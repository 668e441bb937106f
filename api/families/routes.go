package families

import (
	"github.com/gin-gonic/gin"
	"github.com/killallgit/playlist-api/api/types"
)

// RegisterRoutes registers dashboard and playlist routes per family.
// writeMiddleware guards the rebuild endpoints.
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies, writeMiddleware ...gin.HandlerFunc) {
	router.GET("", List(deps))

	family := router.Group("/:family")
	{
		family.GET("/dashboard", Dashboard(deps))
		family.GET("/dashboard/export", ExportDashboard(deps))
		family.GET("/partitions/:partition", Partition(deps))
		family.GET("/partitions/:partition/export", ExportPartition(deps))
		family.POST("/refresh", types.Chain(writeMiddleware, Refresh(deps))...)

		family.GET("/playlist", Playlist(deps))
		family.POST("/playlist", types.Chain(writeMiddleware, GeneratePlaylist(deps))...)
		family.GET("/playlist/export", ExportPlaylist(deps))
	}
}
