// Package ingestion runs an uploaded batch through extraction,
// classification, filtering and normalization, then rebuilds every
// family's dashboard and playlist, all in one transaction.
package ingestion

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/killallgit/playlist-api/internal/dbctx"
	"github.com/killallgit/playlist-api/internal/models"
	"github.com/killallgit/playlist-api/internal/services/classifier"
	"github.com/killallgit/playlist-api/internal/services/dashboards"
	"github.com/killallgit/playlist-api/internal/services/extractor"
	"github.com/killallgit/playlist-api/internal/services/filters"
	"github.com/killallgit/playlist-api/internal/services/normalizer"
	"github.com/killallgit/playlist-api/internal/services/playlists"
	apperrors "github.com/killallgit/playlist-api/pkg/errors"
	"github.com/killallgit/playlist-api/pkg/logger"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DefaultSkipTitle is the placeholder title of videos the exporter could
// not read.
const DefaultSkipTitle = "Private video"

// ServiceImpl implements the Service interface
type ServiceImpl struct {
	db         *gorm.DB
	repo       Repository
	normalizer normalizer.Service
	filterRepo filters.Repository
	dashboards dashboards.Service
	playlists  playlists.Service
	skipTitle  string
	log        *logger.Logger
}

// ServiceOption is a functional option for configuring the service
type ServiceOption func(*ServiceImpl)

// WithSkipTitle sets the title of rows dropped before processing
func WithSkipTitle(title string) ServiceOption {
	return func(s *ServiceImpl) {
		s.skipTitle = title
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

// NewService creates a new ingestion service
func NewService(
	db *gorm.DB,
	repo Repository,
	norm normalizer.Service,
	filterRepo filters.Repository,
	dash dashboards.Service,
	lists playlists.Service,
	opts ...ServiceOption,
) *ServiceImpl {
	s := &ServiceImpl{
		db:         db,
		repo:       repo,
		normalizer: norm,
		filterRepo: filterRepo,
		dashboards: dash,
		playlists:  lists,
		skipTitle:  DefaultSkipTitle,
		log:        logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IngestBatch replaces everything stored for channelID with records
func (s *ServiceImpl) IngestBatch(ctx context.Context, channelID string, records []models.RawRecord, filterSet []models.VideoFilter) (*Result, error) {
	return s.Ingest(ctx, Batch{
		ChannelID: channelID,
		Source:    "batch",
		Records:   records,
		Filters:   filterSet,
	})
}

// Ingest processes a batch. Row problems are collected in Result.Errors
// and the row is skipped; any persistence failure rolls the whole batch
// back and returns a transaction error.
func (s *ServiceImpl) Ingest(ctx context.Context, batch Batch) (*Result, error) {
	channelID := strings.TrimSpace(batch.ChannelID)
	if channelID == "" {
		return nil, apperrors.MissingFieldError("channel_id")
	}

	startedAt := time.Now().UTC()
	result := &Result{
		RunID:     uuid.NewString(),
		ChannelID: channelID,
		TotalRows: len(batch.Records),
		Errors:    []models.RowError{},
	}
	log := s.log.With("run_id", result.RunID, "channel_id", channelID)

	rows := s.prepare(batch.Records, channelID, result, log)

	filterSet := batch.Filters
	if filterSet == nil {
		stored, err := s.filterRepo.ListFilters(dbctx.New(ctx))
		if err != nil {
			return nil, s.fail(ctx, batch, result, startedAt, apperrors.TransactionError("load filters", err))
		}
		filterSet = stored
	}
	engine, filterErrs := filters.NewEngine(filterSet)
	for _, err := range filterErrs {
		log.Warn("skipping malformed filter", "error", err.Error())
		result.Errors = append(result.Errors, toRowError(0, "", err))
	}

	err := dbctx.Transaction(dbctx.New(ctx), s.db, func(dbc dbctx.Context) error {
		if _, err := s.normalizer.PurgeChannel(dbc, channelID); err != nil {
			return err
		}

		for _, raw := range rows {
			attrs := extractor.Extract(raw.Description)
			flags := classifier.Classify(attrs.Type, attrs.Category)
			excluded, matched := engine.Excludes(filters.CandidateFromRaw(
				raw.VideoID, raw.Title, raw.PlaylistID, raw.PlaylistName, raw.Visibility, attrs))
			if excluded {
				log.Debug("row excluded by filter",
					"video_id", raw.VideoID,
					"filter_type", matched.Kind,
					"filter_value", matched.Value)
			}

			if _, err := s.normalizer.Normalize(dbc, raw, attrs, flags, !excluded); err != nil {
				if apperrors.IsRowLevel(err) {
					log.Warn("skipping row", "row", raw.Row, "video_id", raw.VideoID, "error", err.Error())
					result.Errors = append(result.Errors, toRowError(raw.Row, raw.VideoID, err))
					continue
				}
				return err
			}
			result.InsertedCount++
			if !excluded {
				result.ActiveCount++
			}
		}

		if _, err := s.normalizer.PruneOrphans(dbc); err != nil {
			return err
		}

		summary, err := s.refreshTx(dbc, nil)
		if err != nil {
			return err
		}
		result.Refresh = summary
		return nil
	})
	if err != nil {
		result.InsertedCount, result.ActiveCount, result.Refresh = 0, 0, nil
		return nil, s.fail(ctx, batch, result, startedAt, apperrors.TransactionError("ingest batch", err))
	}

	status := models.RunStatusCompleted
	if len(result.Errors) > 0 {
		status = models.RunStatusPartial
	}
	s.record(ctx, batch, result, status, startedAt, "")

	log.Info("batch ingested",
		"rows", result.TotalRows,
		"inserted", result.InsertedCount,
		"active", result.ActiveCount,
		"skipped", result.SkippedRows,
		"errors", len(result.Errors),
		"duration", time.Since(startedAt))
	return result, nil
}

// prepare drops placeholder rows and rejects rows that cannot be stored.
// Only the first occurrence of a video id is kept.
func (s *ServiceImpl) prepare(records []models.RawRecord, channelID string, result *Result, log *logger.Logger) []models.RawRecord {
	rows := make([]models.RawRecord, 0, len(records))
	seen := make(map[string]int, len(records))

	for i, raw := range records {
		if raw.Row == 0 {
			raw.Row = i + 1
		}
		raw.ChannelID = channelID
		raw.VideoID = strings.TrimSpace(raw.VideoID)
		raw.Title = strings.TrimSpace(raw.Title)

		if s.skipTitle != "" && raw.Title == s.skipTitle {
			result.SkippedRows++
			continue
		}

		var rowErr *apperrors.AppError
		switch {
		case raw.VideoID == "":
			rowErr = apperrors.MissingFieldError("Video Id")
		case raw.Title == "":
			rowErr = apperrors.MissingFieldError("Video Title")
		default:
			if first, dup := seen[raw.VideoID]; dup {
				rowErr = apperrors.ValidationError("Video Id", "duplicate of an earlier row").
					WithDetail("first_row", first)
			}
		}
		if rowErr != nil {
			log.Warn("rejecting row", "row", raw.Row, "video_id", raw.VideoID, "error", rowErr.Error())
			result.Errors = append(result.Errors, toRowError(raw.Row, raw.VideoID, rowErr))
			continue
		}

		seen[raw.VideoID] = raw.Row
		rows = append(rows, raw)
	}
	return rows
}

// RefreshAll rebuilds every family's dashboard and playlist inside dbc
func (s *ServiceImpl) RefreshAll(dbc dbctx.Context) error {
	_, err := s.refreshTx(dbc, nil)
	return err
}

// Refresh rebuilds the named families, or all of them, in one transaction
func (s *ServiceImpl) Refresh(ctx context.Context, keywords ...string) (*RefreshSummary, error) {
	for _, kw := range keywords {
		if _, err := s.dashboards.Registry().Lookup(kw); err != nil {
			return nil, err
		}
	}

	var summary *RefreshSummary
	err := dbctx.Transaction(dbctx.New(ctx), s.db, func(dbc dbctx.Context) error {
		var err error
		summary, err = s.refreshTx(dbc, keywords)
		return err
	})
	if err != nil {
		return nil, apperrors.TransactionError("refresh", err)
	}
	return summary, nil
}

func (s *ServiceImpl) refreshTx(dbc dbctx.Context, keywords []string) (*RefreshSummary, error) {
	if len(keywords) == 0 {
		for _, f := range s.dashboards.Registry().Families() {
			keywords = append(keywords, f.Keyword)
		}
	}

	summary := &RefreshSummary{}
	for _, kw := range keywords {
		dash, err := s.dashboards.RefreshFamilyTx(dbc, kw)
		if err != nil {
			return nil, err
		}
		list, err := s.playlists.GenerateTx(dbc, kw)
		if err != nil {
			return nil, err
		}
		summary.Dashboards = append(summary.Dashboards, dash)
		summary.Playlists = append(summary.Playlists, list)
	}
	return summary, nil
}

// ListRuns returns recent ingestion runs, newest first
func (s *ServiceImpl) ListRuns(ctx context.Context, limit int) ([]models.IngestionRun, error) {
	return s.repo.ListRuns(dbctx.New(ctx), limit)
}

// GetRun returns one ingestion run or a not-found error
func (s *ServiceImpl) GetRun(ctx context.Context, runID string) (*models.IngestionRun, error) {
	run, err := s.repo.GetRun(dbctx.New(ctx), runID)
	if errors.Is(err, ErrRunNotFound) {
		return nil, apperrors.NotFound("ingestion run", runID).WithCause(err)
	}
	return run, err
}

func (s *ServiceImpl) fail(ctx context.Context, batch Batch, result *Result, startedAt time.Time, err error) error {
	s.log.Error("batch failed", "run_id", result.RunID, "channel_id", result.ChannelID, "error", err.Error())
	s.record(ctx, batch, result, models.RunStatusFailed, startedAt, err.Error())
	return err
}

// record stores the run outside the batch transaction so failures are
// kept too. A failure to record is logged, not returned.
func (s *ServiceImpl) record(ctx context.Context, batch Batch, result *Result, status models.RunStatus, startedAt time.Time, reason string) {
	run := &models.IngestionRun{
		RunID:         result.RunID,
		ChannelID:     result.ChannelID,
		Source:        batch.Source,
		Status:        status,
		TotalRows:     result.TotalRows,
		InsertedCount: result.InsertedCount,
		ActiveCount:   result.ActiveCount,
		Errors:        datatypes.JSONSlice[models.RowError](result.Errors),
		FailureReason: reason,
		StartedAt:     startedAt,
		FinishedAt:    time.Now().UTC(),
	}
	if err := s.repo.CreateRun(dbctx.New(ctx), run); err != nil {
		s.log.Error("failed to record ingestion run", "run_id", run.RunID, "error", err.Error())
	}
}

func toRowError(row int, videoID string, err error) models.RowError {
	return models.RowError{
		Row:     row,
		VideoID: videoID,
		Code:    string(apperrors.GetCode(err)),
		Message: err.Error(),
	}
}
