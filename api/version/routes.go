package version

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers version routes
func RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/version", Get())
}
