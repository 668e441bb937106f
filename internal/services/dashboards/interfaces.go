package dashboards

import (
	"context"

	"github.com/killallgit/playlist-api/internal/dbctx"
	"github.com/killallgit/playlist-api/internal/models"
)

// Repository defines the data access for derived dashboard tables
type Repository interface {
	ListActiveVideos(dbc dbctx.Context) ([]models.Video, error)

	ReplaceDashboard(dbc dbctx.Context, family string, entries []models.DashboardEntry) error
	ReplacePartitions(dbc dbctx.Context, family string, entries []models.PartitionEntry) error

	ListDashboard(dbc dbctx.Context, family string, offset, limit int) ([]models.DashboardEntry, int64, error)
	ListPartition(dbc dbctx.Context, family, partition string, offset, limit int) ([]models.PartitionEntry, int64, error)
	CountDashboard(dbc dbctx.Context, family string) (int64, error)
	CountPartitions(dbc dbctx.Context, family string) (map[string]int64, error)
}

// Service defines the dashboard refresh and read operations
type Service interface {
	RefreshFamily(ctx context.Context, keyword string) (*RefreshResult, error)
	RefreshFamilyTx(dbc dbctx.Context, keyword string) (*RefreshResult, error)
	RefreshFamilies(dbc dbctx.Context) ([]*RefreshResult, error)

	ListDashboard(ctx context.Context, keyword string, page, limit int) (*DashboardPage, error)
	ListPartition(ctx context.Context, keyword, partition string, page, limit int) (*PartitionPage, error)
	Summary(ctx context.Context, keyword string) (*RefreshResult, error)

	Registry() *Registry
}

// RefreshResult reports the sizes of a family's rebuilt views.
type RefreshResult struct {
	Family          string         `json:"family"`
	SubsetCount     int            `json:"subset_count"`
	PartitionCounts map[string]int `json:"partition_counts"`
}

// DashboardPage is one page of a family subset.
type DashboardPage struct {
	Family  string                  `json:"family"`
	Entries []models.DashboardEntry `json:"entries"`
	Total   int64                   `json:"total"`
	Page    int                     `json:"page"`
	Limit   int                     `json:"limit"`
}

// PartitionPage is one page of a partition.
type PartitionPage struct {
	Family    string                  `json:"family"`
	Partition string                  `json:"partition"`
	Entries   []models.PartitionEntry `json:"entries"`
	Total     int64                   `json:"total"`
	Page      int                     `json:"page"`
	Limit     int                     `json:"limit"`
}
