package videos

import (
	"context"

	"github.com/killallgit/playlist-api/internal/dbctx"
	"github.com/killallgit/playlist-api/internal/models"
)

// Repository defines the data access for stored videos
type Repository interface {
	List(dbc dbctx.Context, offset, limit int) ([]models.Video, int64, error)
	FindByVideoID(dbc dbctx.Context, videoID, channelID string) (*models.Video, error)
	GetByID(dbc dbctx.Context, id uint) (*models.Video, error)
	ExistsInChannel(dbc dbctx.Context, videoID, channelID string, exceptID uint) (bool, error)
	Update(dbc dbctx.Context, id uint, fields map[string]any) error
}

// Refresher rebuilds derived views inside the caller's transaction.
type Refresher interface {
	RefreshAll(dbc dbctx.Context) error
}

// Service defines display and edit operations on stored videos
type Service interface {
	List(ctx context.Context, page, limit int) (*Page, error)
	Get(ctx context.Context, videoID, channelID string) (*models.Video, error)
	Update(ctx context.Context, videoID, channelID string, req UpdateVideoRequest) (*models.Video, error)
}

// UpdateVideoRequest carries the editable fields. Nil fields are left
// unchanged.
type UpdateVideoRequest struct {
	Title     *string `json:"video_title,omitempty"`
	ChannelID *string `json:"channel_id,omitempty"`
	IsActive  *bool   `json:"is_active,omitempty"`
}

// Page is one page of videos.
type Page struct {
	Videos []models.Video `json:"videos"`
	Total  int64          `json:"total"`
	Page   int            `json:"page"`
	Limit  int            `json:"limit"`
}
