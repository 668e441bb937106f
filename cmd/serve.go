package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/killallgit/playlist-api/api"
	"github.com/killallgit/playlist-api/api/types"
	"github.com/killallgit/playlist-api/api/version"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const defaultShutdownTimeout = 10 * time.Second

func newServeCmd(opts *rootOptions) *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long: `Start the Playlist API server with the configured settings.

The server migrates the database on start, then serves uploads, filters,
videos, family dashboards and playlists under /api/v1.

Example:
  playlist-api serve
  playlist-api serve --port 9090
  playlist-api serve --host 0.0.0.0 --port 8080`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("port") {
				port = -1
			}
			return runServer(cmd.Context(), opts, host, port)
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "server host (overrides config)")
	cmd.Flags().IntVar(&port, "port", 0, "server port (overrides config, 0 picks a free port)")
	return cmd
}

// runServer serves until ctx ends or a signal arrives. A negative port
// keeps the configured one.
func runServer(ctx context.Context, opts *rootOptions, host string, port int) error {
	e, err := opts.openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	if host != "" {
		e.cfg.Server.Host = host
	}
	if port >= 0 {
		e.cfg.Server.Port = port
	}
	version.Version = Version
	version.GitCommit = GitCommit

	srv := api.NewServer(e.cfg)
	srv.SetDependencies(&types.Dependencies{
		DB:               e.db,
		Logger:           e.log,
		IngestionService: e.svc.Ingestion,
		FilterService:    e.svc.Filters,
		DashboardService: e.svc.Dashboards,
		PlaylistService:  e.svc.Playlists,
		VideoService:     e.svc.Videos,
		DefaultFormat:    e.defaultFormat(),
		MaxUploadBytes:   e.cfg.Security.MaxUploadBytes,
	})
	if err := srv.Initialize(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		e.log.Info("server listening", "addr", srv.Addr())
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()

		timeout := e.cfg.Server.ShutdownTimeout
		if timeout <= 0 {
			timeout = defaultShutdownTimeout
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		e.log.Info("shutting down server")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		e.log.Info("server stopped")
		return nil
	})

	return g.Wait()
}
