package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/fgeck/better-restic/internal/models"
	"github.com/fgeck/better-restic/internal/services/restic"
	"github.com/fgeck/better-restic/internal/services/runner"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func runBackup(cmd *cobra.Command, args []string) error {
	cfg, closer, err := loadConfig()
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runnerSvc := runner.New(log.Logger)
	result, err := runnerSvc.Run(ctx, *cfg, models.RunOptions{DryRun: dryRun, Verbose: verbose})

	var failure *runner.FailureError
	switch {
	case errors.As(err, &failure):
		runner.WriteDiagnostics(os.Stderr, failure.Result, cfg.Restic)
		log.Error().Str("outcome", string(failure.Result.Outcome)).Msg("backup failed")
		return err
	case errors.Is(err, restic.ErrInterrupted):
		log.Warn().Err(err).Msg("backup interrupted")
		return err
	case err != nil:
		log.Error().Err(err).Msg("backup failed")
		return err
	}

	runner.WriteOutput(os.Stdout, result)
	return nil
}
