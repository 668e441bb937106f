package playlists

import (
	"context"

	"github.com/killallgit/playlist-api/internal/dbctx"
	"github.com/killallgit/playlist-api/internal/models"
)

// Repository defines the data access for generated playlists
type Repository interface {
	ListPartition(dbc dbctx.Context, family, partition string) ([]models.PartitionEntry, error)
	ReplacePlaylist(dbc dbctx.Context, family string, entries []models.PlaylistEntry) error
	ListPlaylist(dbc dbctx.Context, family string) ([]models.PlaylistEntry, error)
}

// Service defines the playlist generation operations
type Service interface {
	GeneratePlaylist(ctx context.Context, keyword string) (*GenerateResult, error)
	GenerateTx(dbc dbctx.Context, keyword string) (*GenerateResult, error)
	GenerateAll(dbc dbctx.Context) ([]*GenerateResult, error)
	ListPlaylist(ctx context.Context, keyword string) ([]models.PlaylistEntry, error)
}

// GenerateResult summarises one generation.
type GenerateResult struct {
	Family     string `json:"family"`
	EntryCount int    `json:"entry_count"`
	Fallback   bool   `json:"fallback"`
	Skipped    int    `json:"skipped,omitempty"`
}
