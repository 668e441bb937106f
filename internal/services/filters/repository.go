package filters

import (
	"errors"
	"fmt"

	"github.com/killallgit/playlist-api/internal/dbctx"
	"github.com/killallgit/playlist-api/internal/models"
	"gorm.io/gorm"
)

// updateChunk bounds the IN list of a single UPDATE.
const updateChunk = 500

// RepositoryImpl implements the Repository interface
type RepositoryImpl struct {
	db *gorm.DB
}

// NewRepository creates a new filter repository
func NewRepository(db *gorm.DB) Repository {
	return &RepositoryImpl{db: db}
}

// ListFilters returns every filter, oldest first
func (r *RepositoryImpl) ListFilters(dbc dbctx.Context) ([]models.VideoFilter, error) {
	var filters []models.VideoFilter
	if err := dbc.DB(r.db).Order("id ASC").Find(&filters).Error; err != nil {
		return nil, fmt.Errorf("listing filters: %w", err)
	}
	return filters, nil
}

// GetFilter retrieves a filter by its ID
func (r *RepositoryImpl) GetFilter(dbc dbctx.Context, id uint) (*models.VideoFilter, error) {
	var filter models.VideoFilter
	if err := dbc.DB(r.db).First(&filter, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFilterNotFound
		}
		return nil, fmt.Errorf("getting filter: %w", err)
	}
	return &filter, nil
}

// CreateFilter inserts a single filter
func (r *RepositoryImpl) CreateFilter(dbc dbctx.Context, filter *models.VideoFilter) error {
	if err := dbc.DB(r.db).Create(filter).Error; err != nil {
		return fmt.Errorf("creating filter: %w", err)
	}
	return nil
}

// CreateFilters inserts filters in batches
func (r *RepositoryImpl) CreateFilters(dbc dbctx.Context, filters []models.VideoFilter) error {
	if len(filters) == 0 {
		return nil
	}
	if err := dbc.DB(r.db).CreateInBatches(filters, 100).Error; err != nil {
		return fmt.Errorf("creating filters: %w", err)
	}
	return nil
}

// DeleteFilter deletes a filter by its ID
func (r *RepositoryImpl) DeleteFilter(dbc dbctx.Context, id uint) error {
	result := dbc.DB(r.db).Delete(&models.VideoFilter{}, id)
	if result.Error != nil {
		return fmt.Errorf("deleting filter: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrFilterNotFound
	}
	return nil
}

// ListVideos returns every video with the joins filters match against
func (r *RepositoryImpl) ListVideos(dbc dbctx.Context) ([]models.Video, error) {
	var videos []models.Video
	err := dbc.DB(r.db).
		Preload("Type").
		Preload("Category").
		Preload("Playlist").
		Preload("Detail").
		Order("id ASC").
		Find(&videos).Error
	if err != nil {
		return nil, fmt.Errorf("listing videos: %w", err)
	}
	return videos, nil
}

// SetActive sets is_active on the given video row IDs
func (r *RepositoryImpl) SetActive(dbc dbctx.Context, ids []uint, active bool) (int64, error) {
	var total int64
	for start := 0; start < len(ids); start += updateChunk {
		end := min(start+updateChunk, len(ids))
		result := dbc.DB(r.db).Model(&models.Video{}).
			Where("id IN ?", ids[start:end]).
			Update("is_active", active)
		if result.Error != nil {
			return total, fmt.Errorf("updating active flag: %w", result.Error)
		}
		total += result.RowsAffected
	}
	return total, nil
}
