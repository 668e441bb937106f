package ingestion

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

// NewRepository creates a new ingestion run repository
func NewRepository(db *gorm.DB) Repository {
	return &RepositoryImpl{db: db}
}

// CreateRun stores a run record
func (r *RepositoryImpl) CreateRun(dbc dbctx.Context, run *models.IngestionRun) error {
	if err := dbc.DB(r.db).Create(run).Error; err != nil {
		return fmt.Errorf("recording ingestion run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs first
func (r *RepositoryImpl) ListRuns(dbc dbctx.Context, limit int) ([]models.IngestionRun, error) {
	var runs []models.IngestionRun
	query := dbc.DB(r.db).Order("started_at DESC").Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("listing ingestion runs: %w", err)
	}
	return runs, nil
}

// GetRun retrieves a run by its run id
func (r *RepositoryImpl) GetRun(dbc dbctx.Context, runID string) (*models.IngestionRun, error) {
	var run models.IngestionRun
	if err := dbc.DB(r.db).Where("run_id = ?", runID).First(&run).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRunNotFound
		}
		return nil, fmt.Errorf("getting ingestion run: %w", err)
	}
	return &run, nil
}
