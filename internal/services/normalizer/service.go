// Package normalizer persists extracted rows as canonical catalog entities:
// types, categories, playlists, videos and their optional details.
package normalizer

import (
	"strings"

	"github.com/killallgit/playlist-api/internal/dbctx"
	"github.com/killallgit/playlist-api/internal/models"
	"github.com/killallgit/playlist-api/internal/services/classifier"
	"github.com/killallgit/playlist-api/internal/services/extractor"
	apperrors "github.com/killallgit/playlist-api/pkg/errors"
	"github.com/killallgit/playlist-api/pkg/logger"
)

// ServiceImpl implements the Service interface
type ServiceImpl struct {
	repo Repository
	log  *logger.Logger
}

// ServiceOption is a functional option for configuring the service
type ServiceOption func(*ServiceImpl)

// WithLogger sets the service logger
func WithLogger(l *logger.Logger) ServiceOption {
	return func(s *ServiceImpl) {
		if l != nil {
			s.log = l
		}
	}
}

// NewService creates a new normalizer service
func NewService(repo Repository, opts ...ServiceOption) *ServiceImpl {
	s := &ServiceImpl{repo: repo, log: logger.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Normalize upserts the row's type, category and playlist, inserts the
// video and, when warranted, its detail. It returns the video's row ID.
//
// Rows missing a video id, title or channel are rejected with a row-level
// error before anything is written.
func (s *ServiceImpl) Normalize(dbc dbctx.Context, raw models.RawRecord, attrs extractor.Attributes, flags classifier.Flags, active bool) (uint, error) {
	if err := validate(raw); err != nil {
		return 0, err
	}

	typ, err := s.repo.UpsertType(dbc, orDefault(attrs.Type, models.DefaultType))
	if err != nil {
		return 0, err
	}
	category, err := s.repo.UpsertCategory(dbc, orDefault(attrs.Category, models.DefaultCategory), typ.ID)
	if err != nil {
		return 0, err
	}

	video := &models.Video{
		VideoID:    strings.TrimSpace(raw.VideoID),
		ChannelID:  strings.TrimSpace(raw.ChannelID),
		Title:      strings.TrimSpace(raw.Title),
		Visibility: strings.TrimSpace(raw.Visibility),
		TypeID:     typ.ID,
		CategoryID: category.ID,
		IsMix:      flags.Mix,
		IsKatha:    flags.Katha,
		IsKirtan:   flags.Kirtan,
		IsDhun:     flags.Dhun,
		IsActive:   active,
		Labels:     attrs.Labels(),
	}

	if pid := strings.TrimSpace(raw.PlaylistID); pid != "" {
		playlist, err := s.repo.UpsertPlaylist(dbc, pid, strings.TrimSpace(raw.PlaylistName), raw.IsPublic())
		if err != nil {
			return 0, err
		}
		video.PlaylistRef = &playlist.ID
	}

	if err := s.repo.InsertVideo(dbc, video); err != nil {
		return 0, err
	}
	if video.ID == 0 {
		return 0, apperrors.IntegrityError("video", "insert returned no row id").
			WithDetail("video_id", video.VideoID)
	}

	if wantsDetail(attrs, flags) {
		detail := &models.VideoDetail{
			VideoRef:     video.ID,
			Orator:       orDefault(attrs.Orator, models.DefaultOrator),
			TrackNumber:  attrs.Track,
			SourceWork:   orDefault(attrs.SourceWork, models.DefaultSourceWork),
			PlaylistName: strings.TrimSpace(raw.PlaylistName),
		}
		if err := s.repo.UpsertDetail(dbc, detail); err != nil {
			return 0, err
		}
	}

	s.log.Debug("video normalized",
		"video_id", video.VideoID,
		"type", typ.Name,
		"category", category.Name,
		"active", active)
	return video.ID, nil
}

// PurgeChannel removes a channel's videos ahead of re-ingestion.
func (s *ServiceImpl) PurgeChannel(dbc dbctx.Context, channelID string) (int64, error) {
	n, err := s.repo.PurgeChannel(dbc, channelID)
	if err != nil {
		return 0, err
	}
	s.log.Info("channel purged", "channel_id", channelID, "videos", n)
	return n, nil
}

// PruneOrphans removes catalog rows left without videos.
func (s *ServiceImpl) PruneOrphans(dbc dbctx.Context) (*PruneResult, error) {
	res, err := s.repo.PruneOrphans(dbc)
	if err != nil {
		return nil, err
	}
	if res.Playlists+res.Categories+res.Types > 0 {
		s.log.Info("orphans pruned",
			"playlists", res.Playlists,
			"categories", res.Categories,
			"types", res.Types)
	}
	return res, nil
}

// wantsDetail reports whether a detail row should exist: the row carries
// a topic, or one of its detail fields differs from the default.
func wantsDetail(attrs extractor.Attributes, flags classifier.Flags) bool {
	return flags.Any() || attrs.HasNonDefaultDetail()
}

func validate(raw models.RawRecord) error {
	switch {
	case strings.TrimSpace(raw.VideoID) == "":
		return apperrors.MissingFieldError("Video Id")
	case strings.TrimSpace(raw.Title) == "":
		return apperrors.MissingFieldError("Video Title")
	case strings.TrimSpace(raw.ChannelID) == "":
		return apperrors.MissingFieldError("channel_id")
	}
	return nil
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v == "" {
		return def
	}
	return v
}
