package playlists

import (
	"fmt"

	"github.com/killallgit/playlist-api/internal/dbctx"
	"github.com/killallgit/playlist-api/internal/models"
	"gorm.io/gorm"
)

// RepositoryImpl implements the Repository interface
type RepositoryImpl struct {
	db *gorm.DB
}

// NewRepository creates a new playlist repository
func NewRepository(db *gorm.DB) Repository {
	return &RepositoryImpl{db: db}
}

// ListPartition returns every entry of one family partition
func (r *RepositoryImpl) ListPartition(dbc dbctx.Context, family, partition string) ([]models.PartitionEntry, error) {
	var entries []models.PartitionEntry
	err := dbc.DB(r.db).
		Where("family = ? AND partition_name = ?", family, partition).
		Order("position ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("reading partition %s/%s: %w", family, partition, err)
	}
	return entries, nil
}

// ReplacePlaylist drops a family's playlist and stores entries in its place
func (r *RepositoryImpl) ReplacePlaylist(dbc dbctx.Context, family string, entries []models.PlaylistEntry) error {
	db := dbc.DB(r.db)
	if err := db.Where("family = ?", family).Delete(&models.PlaylistEntry{}).Error; err != nil {
		return fmt.Errorf("clearing playlist %s: %w", family, err)
	}
	if len(entries) == 0 {
		return nil
	}
	if err := db.CreateInBatches(entries, 200).Error; err != nil {
		return fmt.Errorf("storing playlist %s: %w", family, err)
	}
	return nil
}

// ListPlaylist returns a family's playlist in ordinal order
func (r *RepositoryImpl) ListPlaylist(dbc dbctx.Context, family string) ([]models.PlaylistEntry, error) {
	var entries []models.PlaylistEntry
	err := dbc.DB(r.db).Where("family = ?", family).Order("ordinal ASC").Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("listing playlist %s: %w", family, err)
	}
	return entries, nil
}
