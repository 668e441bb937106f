package normalizer

import (
	"fmt"

	"github.com/killallgit/playlist-api/internal/dbctx"
	"github.com/killallgit/playlist-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RepositoryImpl implements the Repository interface
type RepositoryImpl struct {
	db *gorm.DB
}

// NewRepository creates a new normalizer repository
func NewRepository(db *gorm.DB) Repository {
	return &RepositoryImpl{db: db}
}

// UpsertType inserts a type by name or touches the existing row, then
// returns the stored row.
func (r *RepositoryImpl) UpsertType(dbc dbctx.Context, name string) (*models.Type, error) {
	db := dbc.DB(r.db)
	t := models.Type{Name: name}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"updated_at"}),
	}).Create(&t).Error
	if err != nil {
		return nil, fmt.Errorf("upserting type %q: %w", name, err)
	}

	var stored models.Type
	if err := db.Where("name = ?", name).First(&stored).Error; err != nil {
		return nil, fmt.Errorf("reading type %q: %w", name, err)
	}
	return &stored, nil
}

// UpsertCategory inserts a category by name. An existing category with the
// same name is moved to typeID.
func (r *RepositoryImpl) UpsertCategory(dbc dbctx.Context, name string, typeID uint) (*models.Category, error) {
	db := dbc.DB(r.db)
	c := models.Category{Name: name, TypeID: typeID}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"type_id", "updated_at"}),
	}).Create(&c).Error
	if err != nil {
		return nil, fmt.Errorf("upserting category %q: %w", name, err)
	}

	var stored models.Category
	if err := db.Where("name = ?", name).First(&stored).Error; err != nil {
		return nil, fmt.Errorf("reading category %q: %w", name, err)
	}
	return &stored, nil
}

// UpsertPlaylist inserts a playlist by its external id, overwriting name and
// visibility on conflict.
func (r *RepositoryImpl) UpsertPlaylist(dbc dbctx.Context, playlistID, name string, isPublic bool) (*models.Playlist, error) {
	db := dbc.DB(r.db)
	p := models.Playlist{PlaylistID: playlistID, Name: name, IsPublic: isPublic}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "playlist_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "is_public", "updated_at"}),
	}).Create(&p).Error
	if err != nil {
		return nil, fmt.Errorf("upserting playlist %q: %w", playlistID, err)
	}

	var stored models.Playlist
	if err := db.Where("playlist_id = ?", playlistID).First(&stored).Error; err != nil {
		return nil, fmt.Errorf("reading playlist %q: %w", playlistID, err)
	}
	return &stored, nil
}

// InsertVideo appends a video. The caller purges the channel first.
func (r *RepositoryImpl) InsertVideo(dbc dbctx.Context, video *models.Video) error {
	if err := dbc.DB(r.db).Omit(clause.Associations).Create(video).Error; err != nil {
		return fmt.Errorf("inserting video %q: %w", video.VideoID, err)
	}
	return nil
}

// UpsertDetail stores the detail for detail.VideoRef, overwriting an
// existing one.
func (r *RepositoryImpl) UpsertDetail(dbc dbctx.Context, detail *models.VideoDetail) error {
	err := dbc.DB(r.db).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "video_ref"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"orator", "track_number", "source_work", "playlist_name", "updated_at",
		}),
	}).Create(detail).Error
	if err != nil {
		return fmt.Errorf("upserting detail for video %d: %w", detail.VideoRef, err)
	}
	return nil
}

// PurgeChannel deletes every video of a channel along with its detail.
// Derived dashboard and playlist rows go with them through ON DELETE CASCADE.
func (r *RepositoryImpl) PurgeChannel(dbc dbctx.Context, channelID string) (int64, error) {
	db := dbc.DB(r.db)
	ids := db.Model(&models.Video{}).Select("id").Where("channel_id = ?", channelID)

	if err := db.Where("video_ref IN (?)", ids).Delete(&models.VideoDetail{}).Error; err != nil {
		return 0, fmt.Errorf("purging details for channel %q: %w", channelID, err)
	}
	result := db.Where("channel_id = ?", channelID).Delete(&models.Video{})
	if result.Error != nil {
		return 0, fmt.Errorf("purging videos for channel %q: %w", channelID, result.Error)
	}
	return result.RowsAffected, nil
}

// PruneOrphans removes playlists, categories and types no video points at.
// Types still owning a category are kept until that category goes.
func (r *RepositoryImpl) PruneOrphans(dbc dbctx.Context) (*PruneResult, error) {
	db := dbc.DB(r.db)
	out := &PruneResult{}

	usedPlaylists := db.Model(&models.Video{}).Select("playlist_ref").Where("playlist_ref IS NOT NULL")
	result := db.Where("id NOT IN (?)", usedPlaylists).Delete(&models.Playlist{})
	if result.Error != nil {
		return nil, fmt.Errorf("pruning playlists: %w", result.Error)
	}
	out.Playlists = result.RowsAffected

	usedCategories := db.Model(&models.Video{}).Select("category_id")
	result = db.Where("id NOT IN (?)", usedCategories).Delete(&models.Category{})
	if result.Error != nil {
		return nil, fmt.Errorf("pruning categories: %w", result.Error)
	}
	out.Categories = result.RowsAffected

	typesOfVideos := db.Model(&models.Video{}).Select("type_id")
	typesOfCategories := db.Model(&models.Category{}).Select("type_id")
	result = db.Where("id NOT IN (?) AND id NOT IN (?)", typesOfVideos, typesOfCategories).Delete(&models.Type{})
	if result.Error != nil {
		return nil, fmt.Errorf("pruning types: %w", result.Error)
	}
	out.Types = result.RowsAffected

	return out, nil
}
