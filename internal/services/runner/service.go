// Package runner executes backup runs for the CLI and the web service.
package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/fgeck/better-restic/internal/models"
	"github.com/fgeck/better-restic/internal/services/restic"
	"github.com/rs/zerolog"
)

// Service defines the interface for the backup runner.
type Service interface {
	Run(ctx context.Context, cfg models.Config, opts models.RunOptions) (*models.InvocationResult, error)
}

// FailureError is returned by Run when the invocation did not succeed.
type FailureError struct {
	Result *models.InvocationResult
}

func (e *FailureError) Error() string {
	return fmt.Sprintf("backup failed (%s): %s", e.Result.Outcome, restic.FailureDetail(e.Result))
}

// Impl implements the runner Service interface.
type Impl struct {
	resticSvc restic.Service
	logger    zerolog.Logger
}

// New creates a new runner service.
func New(logger zerolog.Logger) *Impl {
	return &Impl{
		resticSvc: restic.New(logger),
		logger:    logger,
	}
}

// NewWithServices creates a new runner service with a custom restic service (for testing).
func NewWithServices(logger zerolog.Logger, resticSvc restic.Service) *Impl {
	return &Impl{
		resticSvc: resticSvc,
		logger:    logger,
	}
}

// Run performs one backup invocation and returns its classified result.
// Any outcome other than Success or DryRunSuccess is also returned as a *FailureError.
func (s *Impl) Run(ctx context.Context, cfg models.Config, opts models.RunOptions) (*models.InvocationResult, error) {
	startTime := time.Now()

	s.logger.Info().
		Str("repository", cfg.Restic.Repository).
		Bool("dry_run", opts.DryRun).
		Bool("verbose", opts.Verbose).
		Msg("starting backup run")

	result, err := s.resticSvc.Backup(ctx, cfg.Backup, cfg.Restic, opts)
	if err != nil {
		return nil, fmt.Errorf("backup failed: %w", err)
	}

	if !result.Outcome.Succeeded() {
		for _, line := range restic.Hints(result, cfg.Restic) {
			s.logger.Warn().Str("outcome", string(result.Outcome)).Msg(line)
		}
		return result, &FailureError{Result: result}
	}

	s.logger.Info().
		Str("outcome", string(result.Outcome)).
		Dur("duration", time.Since(startTime)).
		Msg("backup run completed successfully")

	return result, nil
}
