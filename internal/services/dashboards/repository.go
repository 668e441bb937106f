package dashboards

import (
	"fmt"

	"github.com/killallgit/playlist-api/internal/dbctx"
	"github.com/killallgit/playlist-api/internal/models"
	"gorm.io/gorm"
)

const insertBatch = 200

// RepositoryImpl implements the Repository interface
type RepositoryImpl struct {
	db *gorm.DB
}

// NewRepository creates a new dashboard repository
func NewRepository(db *gorm.DB) Repository {
	return &RepositoryImpl{db: db}
}

// ListActiveVideos returns active videos with their labels, ordered by title
func (r *RepositoryImpl) ListActiveVideos(dbc dbctx.Context) ([]models.Video, error) {
	var videos []models.Video
	err := dbc.DB(r.db).
		Preload("Type").
		Preload("Category").
		Preload("Detail").
		Where("is_active = ?", true).
		Order("title ASC").
		Order("id ASC").
		Find(&videos).Error
	if err != nil {
		return nil, fmt.Errorf("listing active videos: %w", err)
	}
	return videos, nil
}

// ReplaceDashboard clears a family's subset and inserts entries
func (r *RepositoryImpl) ReplaceDashboard(dbc dbctx.Context, family string, entries []models.DashboardEntry) error {
	db := dbc.DB(r.db)
	if err := db.Where("family = ?", family).Delete(&models.DashboardEntry{}).Error; err != nil {
		return fmt.Errorf("clearing dashboard %s: %w", family, err)
	}
	if len(entries) == 0 {
		return nil
	}
	if err := db.CreateInBatches(entries, insertBatch).Error; err != nil {
		return fmt.Errorf("populating dashboard %s: %w", family, err)
	}
	return nil
}

// ReplacePartitions clears every partition of a family and inserts entries
func (r *RepositoryImpl) ReplacePartitions(dbc dbctx.Context, family string, entries []models.PartitionEntry) error {
	db := dbc.DB(r.db)
	if err := db.Where("family = ?", family).Delete(&models.PartitionEntry{}).Error; err != nil {
		return fmt.Errorf("clearing partitions %s: %w", family, err)
	}
	if len(entries) == 0 {
		return nil
	}
	if err := db.CreateInBatches(entries, insertBatch).Error; err != nil {
		return fmt.Errorf("populating partitions %s: %w", family, err)
	}
	return nil
}

// ListDashboard returns a page of a family subset and its total size.
// A limit of zero or less returns everything.
func (r *RepositoryImpl) ListDashboard(dbc dbctx.Context, family string, offset, limit int) ([]models.DashboardEntry, int64, error) {
	db := dbc.DB(r.db)

	var total int64
	if err := db.Model(&models.DashboardEntry{}).Where("family = ?", family).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("counting dashboard %s: %w", family, err)
	}

	var entries []models.DashboardEntry
	query := db.Where("family = ?", family).Order("position ASC")
	if limit > 0 {
		query = query.Offset(offset).Limit(limit)
	}
	if err := query.Find(&entries).Error; err != nil {
		return nil, 0, fmt.Errorf("listing dashboard %s: %w", family, err)
	}
	return entries, total, nil
}

// ListPartition returns a page of one partition and its total size.
// A limit of zero or less returns everything.
func (r *RepositoryImpl) ListPartition(dbc dbctx.Context, family, partition string, offset, limit int) ([]models.PartitionEntry, int64, error) {
	db := dbc.DB(r.db)

	var total int64
	err := db.Model(&models.PartitionEntry{}).
		Where("family = ? AND partition_name = ?", family, partition).
		Count(&total).Error
	if err != nil {
		return nil, 0, fmt.Errorf("counting partition %s/%s: %w", family, partition, err)
	}

	var entries []models.PartitionEntry
	query := db.Where("family = ? AND partition_name = ?", family, partition).Order("position ASC")
	if limit > 0 {
		query = query.Offset(offset).Limit(limit)
	}
	if err := query.Find(&entries).Error; err != nil {
		return nil, 0, fmt.Errorf("listing partition %s/%s: %w", family, partition, err)
	}
	return entries, total, nil
}

// CountDashboard returns the size of a family subset
func (r *RepositoryImpl) CountDashboard(dbc dbctx.Context, family string) (int64, error) {
	var n int64
	if err := dbc.DB(r.db).Model(&models.DashboardEntry{}).Where("family = ?", family).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("counting dashboard %s: %w", family, err)
	}
	return n, nil
}

// CountPartitions returns the size of every non-empty partition of a family
func (r *RepositoryImpl) CountPartitions(dbc dbctx.Context, family string) (map[string]int64, error) {
	var rows []struct {
		Name  string
		Total int64
	}
	err := dbc.DB(r.db).Model(&models.PartitionEntry{}).
		Select("partition_name AS name, COUNT(*) AS total").
		Where("family = ?", family).
		Group("partition_name").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("counting partitions %s: %w", family, err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Name] = row.Total
	}
	return counts, nil
}
