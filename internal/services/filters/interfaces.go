package filters

import (
	"context"

	"github.com/killallgit/playlist-api/internal/dbctx"
	"github.com/killallgit/playlist-api/internal/models"
)

// Repository defines the interface for filter and active-flag data access
type Repository interface {
	// Filter operations
	ListFilters(dbc dbctx.Context) ([]models.VideoFilter, error)
	GetFilter(dbc dbctx.Context, id uint) (*models.VideoFilter, error)
	CreateFilter(dbc dbctx.Context, filter *models.VideoFilter) error
	CreateFilters(dbc dbctx.Context, filters []models.VideoFilter) error
	DeleteFilter(dbc dbctx.Context, id uint) error

	// Video operations
	ListVideos(dbc dbctx.Context) ([]models.Video, error)
	SetActive(dbc dbctx.Context, ids []uint, active bool) (int64, error)
}

// Refresher rebuilds derived views after active flags change. It runs in
// the same transaction as the flag updates.
type Refresher interface {
	RefreshAll(dbc dbctx.Context) error
}

// Service defines the interface for filter business logic
type Service interface {
	ListFilters(ctx context.Context) ([]models.VideoFilter, error)
	GetFilter(ctx context.Context, id uint) (*models.VideoFilter, error)
	CreateFilter(ctx context.Context, kind, value, matchedTitle string) (*models.VideoFilter, error)
	DeleteFilter(ctx context.Context, id uint) error
	ImportFilters(ctx context.Context, rows []FilterRow) (*ImportResult, error)

	// ApplyFilters reconciles the active flag of every stored video. A nil
	// slice applies the stored filters.
	ApplyFilters(ctx context.Context, filters []models.VideoFilter) (*ApplyResult, error)
	Preview(ctx context.Context, kind, value string) ([]models.Video, error)
}

// FilterRow is one imported filter before validation.
type FilterRow struct {
	Kind         string `json:"filter_type"`
	Value        string `json:"filter_value"`
	MatchedTitle string `json:"matched_video_title"`
}

// ImportResult summarises a filter import.
type ImportResult struct {
	Imported int               `json:"imported"`
	Skipped  int               `json:"skipped"`
	Errors   []models.RowError `json:"errors,omitempty"`
}

// ApplyResult summarises a reconciliation run.
type ApplyResult struct {
	Evaluated        int               `json:"evaluated"`
	DeactivatedCount int               `json:"deactivated_count"`
	ReactivatedCount int               `json:"reactivated_count"`
	ActiveCount      int               `json:"active_count"`
	Errors           []models.RowError `json:"errors,omitempty"`
}
