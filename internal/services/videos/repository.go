package videos

import (
	"errors"
	"fmt"

	"github.com/killallgit/playlist-api/internal/dbctx"
	"github.com/killallgit/playlist-api/internal/models"
	"gorm.io/gorm"
)

// RepositoryImpl implements the Repository interface
type RepositoryImpl struct {
	db *gorm.DB
}

// NewRepository creates a new video repository
func NewRepository(db *gorm.DB) Repository {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) withJoins(dbc dbctx.Context) *gorm.DB {
	return dbc.DB(r.db).
		Preload("Type").
		Preload("Category").
		Preload("Playlist").
		Preload("Detail")
}

// List returns a page of videos ordered by row ID and the total count.
// A limit of zero or less returns everything.
func (r *RepositoryImpl) List(dbc dbctx.Context, offset, limit int) ([]models.Video, int64, error) {
	var total int64
	if err := dbc.DB(r.db).Model(&models.Video{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("counting videos: %w", err)
	}

	var videos []models.Video
	query := r.withJoins(dbc).Order("id ASC")
	if limit > 0 {
		query = query.Offset(offset).Limit(limit)
	}
	if err := query.Find(&videos).Error; err != nil {
		return nil, 0, fmt.Errorf("listing videos: %w", err)
	}
	return videos, total, nil
}

// FindByVideoID returns the video with the external id in channelID. An
// empty channelID matches any channel but fails with ErrAmbiguousVideo when
// more than one channel has the id.
func (r *RepositoryImpl) FindByVideoID(dbc dbctx.Context, videoID, channelID string) (*models.Video, error) {
	query := r.withJoins(dbc).Where("video_id = ?", videoID)
	if channelID != "" {
		query = query.Where("channel_id = ?", channelID)
	}

	var found []models.Video
	if err := query.Order("id ASC").Limit(2).Find(&found).Error; err != nil {
		return nil, fmt.Errorf("getting video: %w", err)
	}
	switch len(found) {
	case 0:
		return nil, ErrVideoNotFound
	case 1:
		return &found[0], nil
	default:
		return nil, ErrAmbiguousVideo
	}
}

// GetByID returns a video by row ID
func (r *RepositoryImpl) GetByID(dbc dbctx.Context, id uint) (*models.Video, error) {
	var video models.Video
	if err := r.withJoins(dbc).First(&video, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, fmt.Errorf("getting video: %w", err)
	}
	return &video, nil
}

// ExistsInChannel reports whether another row already has the pair
func (r *RepositoryImpl) ExistsInChannel(dbc dbctx.Context, videoID, channelID string, exceptID uint) (bool, error) {
	var n int64
	err := dbc.DB(r.db).Model(&models.Video{}).
		Where("video_id = ? AND channel_id = ? AND id <> ?", videoID, channelID, exceptID).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("checking video uniqueness: %w", err)
	}
	return n > 0, nil
}

// Update writes the given columns of one video
func (r *RepositoryImpl) Update(dbc dbctx.Context, id uint, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	if err := dbc.DB(r.db).Model(&models.Video{ID: id}).Updates(fields).Error; err != nil {
		return fmt.Errorf("updating video: %w", err)
	}
	return nil
}
