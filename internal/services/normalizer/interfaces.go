package normalizer

import (
	"github.com/killallgit/playlist-api/internal/dbctx"
	"github.com/killallgit/playlist-api/internal/models"
	"github.com/killallgit/playlist-api/internal/services/classifier"
	"github.com/killallgit/playlist-api/internal/services/extractor"
)

// Repository defines the upsert and purge operations over the catalog
// tables. Every call runs against the transaction carried by dbc, if any.
type Repository interface {
	UpsertType(dbc dbctx.Context, name string) (*models.Type, error)
	UpsertCategory(dbc dbctx.Context, name string, typeID uint) (*models.Category, error)
	UpsertPlaylist(dbc dbctx.Context, playlistID, name string, isPublic bool) (*models.Playlist, error)
	InsertVideo(dbc dbctx.Context, video *models.Video) error
	UpsertDetail(dbc dbctx.Context, detail *models.VideoDetail) error

	PurgeChannel(dbc dbctx.Context, channelID string) (int64, error)
	PruneOrphans(dbc dbctx.Context) (*PruneResult, error)
}

// Service turns one extracted row into persisted catalog rows.
type Service interface {
	Normalize(dbc dbctx.Context, raw models.RawRecord, attrs extractor.Attributes, flags classifier.Flags, active bool) (uint, error)
	PurgeChannel(dbc dbctx.Context, channelID string) (int64, error)
	PruneOrphans(dbc dbctx.Context) (*PruneResult, error)
}

// PruneResult counts rows removed because no video referenced them.
type PruneResult struct {
	Playlists  int64 `json:"playlists"`
	Categories int64 `json:"categories"`
	Types      int64 `json:"types"`
}
