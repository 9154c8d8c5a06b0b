package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/fgeck/better-restic/internal/config"
	"github.com/fgeck/better-restic/internal/httpserver"
	"github.com/fgeck/better-restic/internal/services/restic"
	"github.com/fgeck/better-restic/internal/services/runner"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local web UI",
	Long: `Serve the web UI and JSON API on a loopback address.

Backups triggered from the UI run in the background; the request returns
immediately with a task id that appears in the log lines of that run.
Configuration edits are validated and written back to the config file.`,
	RunE: serve,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", httpserver.DefaultAddr, "listen address")
}

func serve(cmd *cobra.Command, args []string) error {
	cfg, closer, err := loadConfig()
	if err != nil {
		return err
	}
	defer closer.Close()

	logger := log.Logger
	store := config.NewStore(configFile, *cfg)
	dispatcher := runner.NewDispatcher(logger, runner.New(logger))
	srv := httpserver.NewServer(serveAddr, store, dispatcher, restic.New(logger), cfg.Logging.Directory, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Start(); err != nil {
		log.Error().Err(err).Str("addr", serveAddr).Msg("failed to start web server")
		return err
	}
	log.Info().Str("url", "http://"+srv.Addr()).Msg("web UI listening")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down web server")
		return srv.Stop()
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("web server shutdown failed")
		return err
	}

	if n := dispatcher.Active(); n > 0 {
		log.Info().Int64("active_backups", n).Msg("waiting for running backups")
	}
	dispatcher.Wait()
	return nil
}
