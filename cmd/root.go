package cmd

import (
	"fmt"
	"os"

	"github.com/killallgit/playlist-api/internal/app"
	"github.com/killallgit/playlist-api/internal/database"
	"github.com/killallgit/playlist-api/pkg/config"
	"github.com/killallgit/playlist-api/pkg/logger"
	"github.com/spf13/cobra"
)

// rootOptions holds the persistent flags shared by every subcommand
type rootOptions struct {
	configPath   string
	databasePath string
	logLevel     string
	jsonLogs     bool
}

// NewRootCmd builds the command tree. Each call returns a fresh tree so
// flag values never leak between executions.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "playlist-api",
		Short: "Video playlist API server and tools",
		Long: `Playlist API ingests spreadsheet exports of channel video metadata,
normalizes them into a relational catalog and derives per-family
dashboards and interleaved playlists from it.

Features:
  • Spreadsheet uploads (xlsx or csv) per channel
  • Exclusion filters that mark videos inactive
  • Dashboards and partitions per content family
  • Playlist generation with a fixed interleave pattern`,
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", config.DefaultConfigPath, "settings file")
	flags.StringVar(&opts.databasePath, "database", "", "sqlite database path (overrides config)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error); defaults to config")
	flags.BoolVar(&opts.jsonLogs, "json-logs", false, "enable JSON formatted logs")

	root.AddCommand(
		newServeCmd(opts),
		newMigrateCmd(opts),
		newVersionCmd(),
		newIngestCmd(opts),
		newFiltersCmd(opts),
		newRefreshCmd(opts),
		newDashboardCmd(opts),
		newPlaylistCmd(opts),
	)
	return root
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig initializes configuration and applies flag overrides
func (o *rootOptions) loadConfig() (*config.Config, error) {
	if err := config.InitWithFile(o.configPath); err != nil {
		return nil, fmt.Errorf("initializing config: %w", err)
	}
	cfg, err := config.GetConfig()
	if err != nil {
		return nil, err
	}
	if o.databasePath != "" {
		cfg.Database.Driver = "sqlite"
		cfg.Database.Path = o.databasePath
	}
	return cfg, nil
}

func (o *rootOptions) newLogger(cfg *config.Config) (*logger.Logger, error) {
	level := cfg.Logging.Level
	if o.logLevel != "" {
		level = o.logLevel
	}
	return logger.New(level, o.jsonLogs || cfg.Logging.Format == "json")
}

// env is what a data command needs: config, logger, an open and migrated
// database, and the services over it.
type env struct {
	cfg *config.Config
	log *logger.Logger
	db  *database.DB
	svc *app.Services
}

func (o *rootOptions) openEnv() (*env, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	log, err := o.newLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	db, err := database.OpenMigrated(cfg.Database)
	if err != nil {
		return nil, err
	}

	svc, err := app.New(db.DB, app.OptionsFromConfig(cfg), log)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &env{cfg: cfg, log: log, db: db, svc: svc}, nil
}

func (e *env) Close() {
	e.log.Sync()
	if err := e.db.Close(); err != nil {
		e.log.Warn("closing database", "error", err)
	}
}
