package types

import (
	"github.com/killallgit/playlist-api/internal/models"
	"github.com/killallgit/playlist-api/internal/services/dashboards"
	"github.com/killallgit/playlist-api/internal/services/filters"
	"github.com/killallgit/playlist-api/internal/services/ingestion"
	"github.com/killallgit/playlist-api/internal/services/playlists"
)

// Status constants for API responses
const (
	StatusOK      = "ok"
	StatusError   = "error"
	StatusPartial = "partial"
)

// BaseResponse contains fields common to all API responses
type BaseResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse for detailed error information
type ErrorResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Error   string      `json:"error,omitempty"`   // Error code
	Details interface{} `json:"details,omitempty"` // Additional error details
}

// HealthResponse for health check endpoint
type HealthResponse struct {
	BaseResponse
	Timestamp string                 `json:"timestamp"`
	Database  map[string]interface{} `json:"database"`
}

// UploadResponse reports an ingested batch
type UploadResponse struct {
	BaseResponse
	Result *ingestion.Result `json:"result"`
}

// RunsResponse lists ingestion runs
type RunsResponse struct {
	BaseResponse
	Runs  []models.IngestionRun `json:"runs"`
	Count int                   `json:"count"`
}

// RunResponse returns one ingestion run
type RunResponse struct {
	BaseResponse
	Run *models.IngestionRun `json:"run"`
}

// VideosResponse for paged video lists
type VideosResponse struct {
	BaseResponse
	Videos []models.Video `json:"videos"`
	Count  int            `json:"count"`
	Total  int64          `json:"total"`
	Page   int            `json:"page"`
	Limit  int            `json:"limit"`
}

// VideoResponse for a single video
type VideoResponse struct {
	BaseResponse
	Video *models.Video `json:"video"`
}

// FiltersResponse lists filters
type FiltersResponse struct {
	BaseResponse
	Filters []models.VideoFilter `json:"filters"`
	Count   int                  `json:"count"`
}

// FilterResponse returns one filter
type FilterResponse struct {
	BaseResponse
	Filter *models.VideoFilter `json:"filter"`
}

// ImportResponse reports a filter import
type ImportResponse struct {
	BaseResponse
	Result *filters.ImportResult `json:"result"`
}

// ApplyResponse reports a filter reconciliation
type ApplyResponse struct {
	BaseResponse
	Result *filters.ApplyResult `json:"result"`
}

// PreviewResponse lists the videos a filter would match
type PreviewResponse struct {
	BaseResponse
	Videos []models.Video `json:"videos"`
	Count  int            `json:"count"`
}

// FamiliesResponse lists the enabled families with their current counts
type FamiliesResponse struct {
	BaseResponse
	Families []*dashboards.RefreshResult `json:"families"`
}

// DashboardResponse for one page of a family dashboard
type DashboardResponse struct {
	BaseResponse
	*dashboards.DashboardPage
}

// PartitionResponse for one page of a partition
type PartitionResponse struct {
	BaseResponse
	*dashboards.PartitionPage
}

// RefreshResponse reports rebuilt dashboards and playlists
type RefreshResponse struct {
	BaseResponse
	Refresh *ingestion.RefreshSummary `json:"refresh"`
}

// PlaylistResponse lists a generated playlist
type PlaylistResponse struct {
	BaseResponse
	Family  string                 `json:"family"`
	Entries []models.PlaylistEntry `json:"entries"`
	Count   int                    `json:"count"`
}

// GenerateResponse reports a regenerated playlist
type GenerateResponse struct {
	BaseResponse
	Result *playlists.GenerateResult `json:"result"`
}
