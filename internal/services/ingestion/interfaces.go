package ingestion

import (
	"context"

	"github.com/killallgit/playlist-api/internal/dbctx"
	"github.com/killallgit/playlist-api/internal/models"
	"github.com/killallgit/playlist-api/internal/services/dashboards"
	"github.com/killallgit/playlist-api/internal/services/playlists"
)

// Repository defines the data access for ingestion run records
type Repository interface {
	CreateRun(dbc dbctx.Context, run *models.IngestionRun) error
	ListRuns(dbc dbctx.Context, limit int) ([]models.IngestionRun, error)
	GetRun(dbc dbctx.Context, runID string) (*models.IngestionRun, error)
}

// Service defines the ingestion pipeline operations
type Service interface {
	IngestBatch(ctx context.Context, channelID string, records []models.RawRecord, filters []models.VideoFilter) (*Result, error)
	Ingest(ctx context.Context, batch Batch) (*Result, error)

	// RefreshAll rebuilds every family's dashboard and playlist inside dbc.
	RefreshAll(dbc dbctx.Context) error
	Refresh(ctx context.Context, keywords ...string) (*RefreshSummary, error)

	ListRuns(ctx context.Context, limit int) ([]models.IngestionRun, error)
	GetRun(ctx context.Context, runID string) (*models.IngestionRun, error)
}

// Batch is one upload for one channel. A nil Filters slice applies the
// stored filters.
type Batch struct {
	ChannelID string
	Source    string
	Records   []models.RawRecord
	Filters   []models.VideoFilter
}

// Result summarises a committed batch.
type Result struct {
	RunID         string            `json:"run_id"`
	ChannelID     string            `json:"channel_id"`
	TotalRows     int               `json:"total_rows"`
	SkippedRows   int               `json:"skipped_rows"`
	InsertedCount int               `json:"inserted_count"`
	ActiveCount   int               `json:"active_count"`
	Errors        []models.RowError `json:"errors"`
	Refresh       *RefreshSummary   `json:"refresh,omitempty"`
}

// RefreshSummary collects the per-family outcomes of a refresh.
type RefreshSummary struct {
	Dashboards []*dashboards.RefreshResult `json:"dashboards"`
	Playlists  []*playlists.GenerateResult `json:"playlists"`
}
