package version

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Build information, set by the cmd package from its ldflags variables.
var (
	Version   = "dev"
	GitCommit = "unknown"
)

// Get handles version requests
func Get() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name":        "Playlist API",
			"version":     Version,
			"commit":      GitCommit,
			"description": "Video metadata ingestion, family dashboards and generated playlists",
			"status":      "running",
		})
	}
}
