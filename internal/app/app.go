// Package app builds the service graph shared by the HTTP server and the
// CLI commands.
package app

import (
	"fmt"

	"github.com/killallgit/playlist-api/internal/services/dashboards"
	"github.com/killallgit/playlist-api/internal/services/filters"
	"github.com/killallgit/playlist-api/internal/services/ingestion"
	"github.com/killallgit/playlist-api/internal/services/normalizer"
	"github.com/killallgit/playlist-api/internal/services/playlists"
	"github.com/killallgit/playlist-api/internal/services/videos"
	"github.com/killallgit/playlist-api/pkg/config"
	"github.com/killallgit/playlist-api/pkg/logger"
	"gorm.io/gorm"
)

// Services holds every domain service over one database.
type Services struct {
	Registry   *dashboards.Registry
	Dashboards *dashboards.ServiceImpl
	Playlists  *playlists.ServiceImpl
	Ingestion  *ingestion.ServiceImpl
	Filters    *filters.ServiceImpl
	Videos     *videos.ServiceImpl
}

// Options are the config values the services depend on.
type Options struct {
	Families  []string
	Seed      int64
	SkipTitle string
}

// OptionsFromConfig extracts Options from the loaded configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	if cfg == nil {
		return Options{}
	}
	return Options{
		Families:  cfg.Dashboards.Families,
		Seed:      cfg.Playlist.Seed,
		SkipTitle: cfg.Ingestion.SkipTitle,
	}
}

// New wires the services. Ingestion is built first because the filter and
// video services call back into it to rebuild derived views.
func New(db *gorm.DB, opts Options, log *logger.Logger) (*Services, error) {
	if log == nil {
		log = logger.Nop()
	}

	registry := dashboards.DefaultRegistry()
	if len(opts.Families) > 0 {
		enabled, err := registry.Enabled(opts.Families)
		if err != nil {
			return nil, fmt.Errorf("enabling families: %w", err)
		}
		registry = enabled
	}

	dash := dashboards.NewService(db, dashboards.NewRepository(db),
		dashboards.WithRegistry(registry),
		dashboards.WithLogger(log.With("component", "dashboards")),
	)

	listOpts := []playlists.ServiceOption{playlists.WithLogger(log.With("component", "playlists"))}
	if opts.Seed != 0 {
		listOpts = append(listOpts, playlists.WithSeed(opts.Seed))
	}
	lists := playlists.NewService(db, playlists.NewRepository(db), registry, listOpts...)

	filterRepo := filters.NewRepository(db)

	ingestOpts := []ingestion.ServiceOption{ingestion.WithLogger(log.With("component", "ingestion"))}
	if opts.SkipTitle != "" {
		ingestOpts = append(ingestOpts, ingestion.WithSkipTitle(opts.SkipTitle))
	}
	ingest := ingestion.NewService(db,
		ingestion.NewRepository(db),
		normalizer.NewService(normalizer.NewRepository(db), normalizer.WithLogger(log.With("component", "normalizer"))),
		filterRepo,
		dash,
		lists,
		ingestOpts...,
	)

	return &Services{
		Registry:   registry,
		Dashboards: dash,
		Playlists:  lists,
		Ingestion:  ingest,
		Filters: filters.NewService(db, filterRepo,
			filters.WithRefresher(ingest),
			filters.WithLogger(log.With("component", "filters")),
		),
		Videos: videos.NewService(db, videos.NewRepository(db),
			videos.WithRefresher(ingest),
			videos.WithLogger(log.With("component", "videos")),
		),
	}, nil
}
