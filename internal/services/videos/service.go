package videos

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

// WithRefresher rebuilds dashboards and playlists after an edit
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

// NewService creates a new video service
func NewService(db *gorm.DB, repo Repository, opts ...ServiceOption) *ServiceImpl {
	s := &ServiceImpl{db: db, repo: repo, log: logger.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns one page of videos with their joins
func (s *ServiceImpl) List(ctx context.Context, page, limit int) (*Page, error) {
	if page < 1 {
		page = 1
	}
	if limit == 0 {
		limit = 10
	}
	offset := 0
	if limit > 0 {
		offset = (page - 1) * limit
	}

	videos, total, err := s.repo.List(dbctx.New(ctx), offset, limit)
	if err != nil {
		return nil, err
	}
	return &Page{Videos: videos, Total: total, Page: page, Limit: limit}, nil
}

// Get returns a video by its external id, narrowed to channelID when set
func (s *ServiceImpl) Get(ctx context.Context, videoID, channelID string) (*models.Video, error) {
	video, err := s.repo.FindByVideoID(dbctx.New(ctx), videoID, channelID)
	if err != nil {
		return nil, lookupError(err, videoID)
	}
	return video, nil
}

func lookupError(err error, videoID string) error {
	switch {
	case errors.Is(err, ErrVideoNotFound):
		return apperrors.NotFound("video", videoID).WithCause(err)
	case errors.Is(err, ErrAmbiguousVideo):
		return apperrors.New(apperrors.ErrCodeConflict, "video id exists in more than one channel; pass channel_id").
			WithDetail("video_id", videoID).
			WithCause(err)
	}
	return err
}

// Update edits a video and rebuilds the derived views in the same
// transaction.
func (s *ServiceImpl) Update(ctx context.Context, videoID, channelID string, req UpdateVideoRequest) (*models.Video, error) {
	fields := map[string]any{}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, apperrors.ValidationError("video_title", "must not be empty")
		}
		fields["title"] = title
	}
	if req.ChannelID != nil {
		channel := strings.TrimSpace(*req.ChannelID)
		if channel == "" {
			return nil, apperrors.ValidationError("channel_id", "must not be empty")
		}
		fields["channel_id"] = channel
	}
	if req.IsActive != nil {
		fields["is_active"] = *req.IsActive
	}

	var updated *models.Video
	err := dbctx.Transaction(dbctx.New(ctx), s.db, func(dbc dbctx.Context) error {
		video, err := s.repo.FindByVideoID(dbc, videoID, channelID)
		if err != nil {
			return lookupError(err, videoID)
		}

		if channel, ok := fields["channel_id"].(string); ok && channel != video.ChannelID {
			taken, err := s.repo.ExistsInChannel(dbc, video.VideoID, channel, video.ID)
			if err != nil {
				return err
			}
			if taken {
				return apperrors.New(apperrors.ErrCodeConflict, "video already exists in channel").
					WithDetail("video_id", video.VideoID).
					WithDetail("channel_id", channel)
			}
		}

		if err := s.repo.Update(dbc, video.ID, fields); err != nil {
			return err
		}
		if s.refresher != nil {
			if err := s.refresher.RefreshAll(dbc); err != nil {
				return err
			}
		}

		updated, err = s.repo.GetByID(dbc, video.ID)
		return err
	})

	switch {
	case err == nil:
		s.log.Info("video updated", "video_id", videoID, "fields", len(fields))
		return updated, nil
	case apperrors.Is(err, apperrors.ErrCodeConflict), apperrors.Is(err, apperrors.ErrCodeNotFound):
		return nil, err
	default:
		return nil, apperrors.TransactionError("update video", err)
	}
}
