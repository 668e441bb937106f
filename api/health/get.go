package health

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/playlist-api/api/types"
)

// Get reports service health. An unreachable database makes the whole
// service unhealthy.
func Get(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		db := getDatabaseStatus(deps)

		resp := types.HealthResponse{
			BaseResponse: types.BaseResponse{Status: "healthy"},
			Timestamp:    time.Now().UTC().Format(time.RFC3339),
			Database:     db,
		}

		status := http.StatusOK
		if db["status"] == "unhealthy" {
			resp.Status = "unhealthy"
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, resp)
	}
}

// getDatabaseStatus returns the database connection status
func getDatabaseStatus(deps *types.Dependencies) gin.H {
	if deps == nil || deps.DB == nil || deps.DB.DB == nil {
		return gin.H{"status": "not configured", "connected": false}
	}

	if err := deps.DB.HealthCheck(); err != nil {
		return gin.H{"status": "unhealthy", "connected": false, "error": err.Error()}
	}

	return gin.H{"status": "healthy", "connected": true}
}
