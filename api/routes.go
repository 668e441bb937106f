package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/killallgit/playlist-api/api/families"
	"github.com/killallgit/playlist-api/api/filters"
	"github.com/killallgit/playlist-api/api/health"
	"github.com/killallgit/playlist-api/api/types"
	"github.com/killallgit/playlist-api/api/uploads"
	"github.com/killallgit/playlist-api/api/version"
	"github.com/killallgit/playlist-api/api/videos"
	"github.com/killallgit/playlist-api/internal/app"
	"github.com/killallgit/playlist-api/internal/sheets"
	"github.com/killallgit/playlist-api/pkg/config"
)

// DefaultUploadLimit applies when the config sets no upload cap
const DefaultUploadLimit = 32 << 20

// RegisterRoutes registers all API routes. Services missing from deps are
// built over deps.DB; without a database only health and version are
// served.
func RegisterRoutes(engine *gin.Engine, deps *types.Dependencies, cfg *config.Config, limiter *RateLimiter) error {
	if deps == nil {
		return fmt.Errorf("dependencies are nil")
	}
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	// Public routes, no rate limiting
	health.RegisterRoutes(engine, deps)
	engine.NoRoute(NotFoundHandler())

	v1 := engine.Group("/api/v1")
	version.RegisterRoutes(v1)

	if deps.DB == nil || deps.DB.DB == nil {
		return nil
	}
	if err := initializeServices(deps, cfg); err != nil {
		return err
	}

	uploadLimit := cfg.Security.MaxUploadBytes
	if uploadLimit <= 0 {
		uploadLimit = DefaultUploadLimit
	}
	if deps.MaxUploadBytes <= 0 {
		deps.MaxUploadBytes = uploadLimit
	}

	readLimit := rateLimit(cfg, limiter, "default")
	writeLimit := rateLimit(cfg, limiter, "uploads")

	// Uploads rewrite a whole channel and get the tighter limit outright
	uploadGroup := v1.Group("/uploads", RequestSizeLimit(uploadLimit))
	if writeLimit != nil {
		uploadGroup.Use(writeLimit)
	}
	uploads.RegisterRoutes(uploadGroup, deps)

	videoGroup := v1.Group("/videos", RequestSizeLimit(DefaultBodyLimit))
	filterGroup := v1.Group("/filters", RequestSizeLimit(uploadLimit))
	familyGroup := v1.Group("/families", RequestSizeLimit(DefaultBodyLimit))

	var writeMiddleware []gin.HandlerFunc
	if readLimit != nil {
		videoGroup.Use(readLimit)
		filterGroup.Use(readLimit)
		familyGroup.Use(readLimit)
	}
	if writeLimit != nil {
		writeMiddleware = append(writeMiddleware, writeLimit)
	}

	videos.RegisterRoutes(videoGroup, deps)
	filters.RegisterRoutes(filterGroup, deps, writeMiddleware...)
	families.RegisterRoutes(familyGroup, deps, writeMiddleware...)

	return nil
}

// rateLimit returns the limiter for one endpoint class, or nil when rate
// limiting is off. Burst is twice the rate.
func rateLimit(cfg *config.Config, limiter *RateLimiter, scope string) gin.HandlerFunc {
	if limiter == nil || !cfg.RateLimiting.Enabled {
		return nil
	}
	rps, ok := cfg.RateLimiting.Endpoints[scope]
	if !ok {
		rps = cfg.RateLimiting.Endpoints["default"]
	}
	if rps <= 0 {
		return nil
	}
	return limiter.PerClient(scope, rps, rps*2)
}

// initializeServices builds any service the caller did not provide
func initializeServices(deps *types.Dependencies, cfg *config.Config) error {
	if deps.DefaultFormat == "" && cfg.Ingestion.DefaultFormat != "" {
		f, err := sheets.ParseFormat(cfg.Ingestion.DefaultFormat)
		if err != nil {
			return fmt.Errorf("ingestion.default_format: %w", err)
		}
		deps.DefaultFormat = f
	}

	if deps.IngestionService != nil && deps.FilterService != nil &&
		deps.DashboardService != nil && deps.PlaylistService != nil &&
		deps.VideoService != nil {
		return nil
	}

	svc, err := app.New(deps.DB.DB, app.OptionsFromConfig(cfg), deps.Log())
	if err != nil {
		return fmt.Errorf("initializing services: %w", err)
	}
	if deps.IngestionService == nil {
		deps.IngestionService = svc.Ingestion
	}
	if deps.FilterService == nil {
		deps.FilterService = svc.Filters
	}
	if deps.DashboardService == nil {
		deps.DashboardService = svc.Dashboards
	}
	if deps.PlaylistService == nil {
		deps.PlaylistService = svc.Playlists
	}
	if deps.VideoService == nil {
		deps.VideoService = svc.Videos
	}
	return nil
}

// NotFoundHandler handles 404 errors
func NotFoundHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"message": "The requested endpoint was not found",
			"path":    c.Request.URL.Path,
		})
	}
}
