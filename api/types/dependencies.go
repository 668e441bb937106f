package types

import (
	"github.com/killallgit/playlist-api/internal/database"
	"github.com/killallgit/playlist-api/internal/services/dashboards"
	"github.com/killallgit/playlist-api/internal/services/filters"
	"github.com/killallgit/playlist-api/internal/services/ingestion"
	"github.com/killallgit/playlist-api/internal/services/playlists"
	"github.com/killallgit/playlist-api/internal/services/videos"
	"github.com/killallgit/playlist-api/internal/sheets"
	"github.com/killallgit/playlist-api/pkg/logger"
)

// Dependencies holds all the dependencies needed by handlers
type Dependencies struct {
	DB     *database.DB
	Logger *logger.Logger

	IngestionService ingestion.Service
	FilterService    filters.Service
	DashboardService dashboards.Service
	PlaylistService  playlists.Service
	VideoService     videos.Service

	// DefaultFormat applies to uploads and exports that name no format
	DefaultFormat  sheets.Format
	MaxUploadBytes int64
}

// Log returns the configured logger or a no-op one.
func (d *Dependencies) Log() *logger.Logger {
	if d == nil || d.Logger == nil {
		return logger.Nop()
	}
	return d.Logger
}

// Format returns DefaultFormat, falling back to xlsx.
func (d *Dependencies) Format() sheets.Format {
	if d == nil || d.DefaultFormat == "" {
		return sheets.FormatXLSX
	}
	return d.DefaultFormat
}
