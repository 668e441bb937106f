package filters

import (
	"context"
	"errors"
	"strings"

	"github.com/killallgit/playlist-api/internal/dbctx"
	"github.com/killallgit/playlist-api/internal/models"
	apperrors "github.com/killallgit/playlist-api/pkg/errors"
	"github.com/killallgit/playlist-api/pkg/logger"
	"gorm.io/gorm"
)

// ServiceImpl implements the Service interface
type ServiceImpl struct {
	db        *gorm.DB
	repo      Repository
	refresher Refresher
	log       *logger.Logger
}

// ServiceOption is a functional option for configuring the service
type ServiceOption func(*ServiceImpl)

// WithRefresher rebuilds dashboards and playlists after ApplyFilters
func WithRefresher(r Refresher) ServiceOption {
	return func(s *ServiceImpl) {
		s.refresher = r
	}
}

// WithLogger sets the service logger
func WithLogger(l *logger.Logger) ServiceOption {
	return func(s *ServiceImpl) {
		if l != nil {
			s.log = l
		}
	}
}

// NewService creates a new filter service
func NewService(db *gorm.DB, repo Repository, opts ...ServiceOption) *ServiceImpl {
	s := &ServiceImpl{
		db:   db,
		repo: repo,
		log:  logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListFilters returns all stored filters
func (s *ServiceImpl) ListFilters(ctx context.Context) ([]models.VideoFilter, error) {
	return s.repo.ListFilters(dbctx.New(ctx))
}

// GetFilter returns a filter or a not-found error
func (s *ServiceImpl) GetFilter(ctx context.Context, id uint) (*models.VideoFilter, error) {
	filter, err := s.repo.GetFilter(dbctx.New(ctx), id)
	if errors.Is(err, ErrFilterNotFound) {
		return nil, apperrors.NotFound("filter", id).WithCause(err)
	}
	return filter, err
}

// CreateFilter validates and stores a new filter. The kind is stored in
// its canonical form.
func (s *ServiceImpl) CreateFilter(ctx context.Context, kind, value, matchedTitle string) (*models.VideoFilter, error) {
	if verr := ValidateFilter(kind, value); verr != nil {
		return nil, verr
	}
	canonical, _ := ParseKind(kind)

	filter := &models.VideoFilter{
		Kind:         string(canonical),
		Value:        strings.TrimSpace(value),
		MatchedTitle: strings.TrimSpace(matchedTitle),
	}
	if err := s.repo.CreateFilter(dbctx.New(ctx), filter); err != nil {
		return nil, err
	}
	s.log.Info("filter created", "filter_id", filter.ID, "kind", filter.Kind, "value", filter.Value)
	return filter, nil
}

// DeleteFilter removes a filter
func (s *ServiceImpl) DeleteFilter(ctx context.Context, id uint) error {
	err := s.repo.DeleteFilter(dbctx.New(ctx), id)
	if errors.Is(err, ErrFilterNotFound) {
		return apperrors.NotFound("filter", id).WithCause(err)
	}
	if err == nil {
		s.log.Info("filter deleted", "filter_id", id)
	}
	return err
}

// ImportFilters stores every valid row in one transaction. Rows without a
// kind or value are skipped and reported.
func (s *ServiceImpl) ImportFilters(ctx context.Context, rows []FilterRow) (*ImportResult, error) {
	result := &ImportResult{}
	valid := make([]models.VideoFilter, 0, len(rows))

	for i, row := range rows {
		if verr := ValidateFilter(row.Kind, row.Value); verr != nil {
			s.log.Warn("skipping filter row", "row", i+1, "error", verr.Error())
			result.Skipped++
			result.Errors = append(result.Errors, rowError(i+1, "", verr))
			continue
		}
		kind, _ := ParseKind(row.Kind)
		valid = append(valid, models.VideoFilter{
			Kind:         string(kind),
			Value:        strings.TrimSpace(row.Value),
			MatchedTitle: strings.TrimSpace(row.MatchedTitle),
		})
	}

	err := dbctx.Transaction(dbctx.New(ctx), s.db, func(dbc dbctx.Context) error {
		return s.repo.CreateFilters(dbc, valid)
	})
	if err != nil {
		return nil, apperrors.TransactionError("import filters", err)
	}

	result.Imported = len(valid)
	s.log.Info("filters imported", "imported", result.Imported, "skipped", result.Skipped)
	return result, nil
}

// ApplyFilters runs ApplyFiltersTx in a new transaction
func (s *ServiceImpl) ApplyFilters(ctx context.Context, filters []models.VideoFilter) (*ApplyResult, error) {
	var result *ApplyResult
	err := dbctx.Transaction(dbctx.New(ctx), s.db, func(dbc dbctx.Context) error {
		var err error
		result, err = s.ApplyFiltersTx(dbc, filters)
		return err
	})
	if err != nil {
		if apperrors.Is(err, apperrors.ErrCodeTransaction) {
			return nil, err
		}
		return nil, apperrors.TransactionError("apply filters", err)
	}
	return result, nil
}

// ApplyFiltersTx reconciles is_active for every stored video inside dbc.
// Videos matched by a filter become inactive, all others active.
func (s *ServiceImpl) ApplyFiltersTx(dbc dbctx.Context, filters []models.VideoFilter) (*ApplyResult, error) {
	if filters == nil {
		stored, err := s.repo.ListFilters(dbc)
		if err != nil {
			return nil, err
		}
		filters = stored
	}

	engine, errs := NewEngine(filters)
	result := &ApplyResult{}
	for i, e := range errs {
		s.log.Warn("skipping malformed filter", "error", e.Error())
		result.Errors = append(result.Errors, rowError(i+1, "", e))
	}

	videos, err := s.repo.ListVideos(dbc)
	if err != nil {
		return nil, err
	}

	var deactivate, reactivate []uint
	for i := range videos {
		v := &videos[i]
		excluded, _ := engine.Excludes(CandidateFromVideo(v))
		switch {
		case excluded && v.IsActive:
			deactivate = append(deactivate, v.ID)
		case !excluded && !v.IsActive:
			reactivate = append(reactivate, v.ID)
		}
		if !excluded {
			result.ActiveCount++
		}
	}
	result.Evaluated = len(videos)

	if _, err := s.repo.SetActive(dbc, deactivate, false); err != nil {
		return nil, err
	}
	if _, err := s.repo.SetActive(dbc, reactivate, true); err != nil {
		return nil, err
	}
	result.DeactivatedCount = len(deactivate)
	result.ReactivatedCount = len(reactivate)

	if s.refresher != nil {
		if err := s.refresher.RefreshAll(dbc); err != nil {
			return nil, err
		}
	}

	s.log.Info("filters applied",
		"rules", engine.Len(),
		"evaluated", result.Evaluated,
		"deactivated", result.DeactivatedCount,
		"reactivated", result.ReactivatedCount)
	return result, nil
}

// Preview lists the stored videos a proposed filter would exclude
func (s *ServiceImpl) Preview(ctx context.Context, kind, value string) ([]models.Video, error) {
	if verr := ValidateFilter(kind, value); verr != nil {
		return nil, verr
	}
	engine, _ := NewEngine([]models.VideoFilter{{Kind: kind, Value: value}})

	videos, err := s.repo.ListVideos(dbctx.New(ctx))
	if err != nil {
		return nil, err
	}

	matched := make([]models.Video, 0)
	for i := range videos {
		if excluded, _ := engine.Excludes(CandidateFromVideo(&videos[i])); excluded {
			matched = append(matched, videos[i])
		}
	}
	return matched, nil
}
