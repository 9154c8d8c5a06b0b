// Package restic builds, runs and classifies restic invocations.
package restic

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/fgeck/better-restic/internal/models"
	"github.com/rs/zerolog"
)

// Service defines the interface for restic operations.
type Service interface {
	Backup(ctx context.Context, backup models.BackupConfig, cfg models.ResticConfig, opts models.RunOptions) (*models.InvocationResult, error)
	Snapshots(ctx context.Context, cfg models.ResticConfig) ([]json.RawMessage, error)
}

// CommandExecutor allows mocking process execution in tests.
// Run returns an error only when the process could not be started.
type CommandExecutor interface {
	Run(ctx context.Context, inv models.Invocation) (*models.ExecResult, error)
}

// ErrInterrupted is returned when the context ends before restic could finish.
var ErrInterrupted = errors.New("restic run interrupted")

// DefaultExecutor is the default command executor using os/exec.
type DefaultExecutor struct{}

// Run starts the invocation, waits for it and captures stdout and stderr separately.
// The env overrides are added to the inherited environment of the child only.
func (e *DefaultExecutor) Run(ctx context.Context, inv models.Invocation) (*models.ExecResult, error) {
	cmd := exec.CommandContext(ctx, inv.Name, inv.Args...)
	cmd.Env = append(os.Environ(), inv.EnvList()...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := &models.ExecResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrInterrupted, ctxErr)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		return nil, fmt.Errorf("failed to start %s: %w", inv.Name, err)
	}

	return res, nil
}

// Impl implements the Service interface.
type Impl struct {
	executor CommandExecutor
	logger   zerolog.Logger
}

// New creates a new restic service.
func New(logger zerolog.Logger) *Impl {
	return &Impl{
		executor: &DefaultExecutor{},
		logger:   logger,
	}
}

// NewWithExecutor creates a new restic service with a custom executor (for testing).
func NewWithExecutor(logger zerolog.Logger, executor CommandExecutor) *Impl {
	return &Impl{
		executor: executor,
		logger:   logger,
	}
}

// Backup runs `restic backup` and classifies the result.
// Failures are reported in the result's Outcome. An error is returned only when
// ctx ended before restic finished.
func (s *Impl) Backup(ctx context.Context, backup models.BackupConfig, cfg models.ResticConfig, opts models.RunOptions) (*models.InvocationResult, error) {
	inv := BuildBackup(backup, cfg, opts)

	s.logger.Info().
		Strs("directories", backup.Directories).
		Strs("exclude", backup.Exclude).
		Bool("dry_run", opts.DryRun).
		Msg("starting backup")
	s.logger.Debug().Str("command", inv.String()).Msg("running restic")

	start := time.Now()
	res, err := s.executor.Run(ctx, inv)
	if errors.Is(err, ErrInterrupted) {
		s.logger.Warn().Err(err).Str("command", inv.String()).Msg("backup interrupted")
		return nil, err
	}

	result := &models.InvocationResult{
		Command:  inv.String(),
		DryRun:   opts.DryRun,
		Duration: time.Since(start),
		SpawnErr: err,
	}
	if res != nil {
		result.ExitCode = res.ExitCode
		result.Stdout = res.Stdout
		result.Stderr = res.Stderr
	}
	result.Outcome, result.Hints = Classify(res, err, opts.DryRun)

	s.logOutcome(result)
	return result, nil
}

func (s *Impl) logOutcome(result *models.InvocationResult) {
	switch result.Outcome {
	case models.OutcomeSuccess:
		s.logger.Info().
			Dur("duration", result.Duration).
			Msg("backup completed successfully")
	case models.OutcomeDryRunSuccess:
		s.logger.Info().
			Dur("duration", result.Duration).
			Msg("dry run completed, no data was written")
	case models.OutcomeSpawnFailure:
		s.logger.Error().
			Err(result.SpawnErr).
			Str("command", result.Command).
			Msg("failed to start restic")
	default:
		s.logger.Error().
			Str("outcome", string(result.Outcome)).
			Int("exit_code", result.ExitCode).
			Str("command", result.Command).
			Str("detail", FailureDetail(result)).
			Msg("backup failed")
	}
}

// Snapshots lists the repository's snapshots as raw JSON objects.
func (s *Impl) Snapshots(ctx context.Context, cfg models.ResticConfig) ([]json.RawMessage, error) {
	s.logger.Debug().Str("repository", cfg.Repository).Msg("listing snapshots")

	inv := BuildSnapshots(cfg)
	res, err := s.executor.Run(ctx, inv)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	if res.ExitCode != 0 {
		s.logger.Error().
			Int("exit_code", res.ExitCode).
			Str("stderr", strings.TrimSpace(res.Stderr)).
			Msg("restic snapshots failed")
		return nil, fmt.Errorf("failed to list snapshots: exit status %d: %s", res.ExitCode, strings.TrimSpace(res.Stderr))
	}

	var snapshots []json.RawMessage
	if err := json.Unmarshal([]byte(res.Stdout), &snapshots); err != nil {
		return nil, fmt.Errorf("failed to parse snapshots: %w", err)
	}
	if snapshots == nil {
		snapshots = []json.RawMessage{}
	}

	s.logger.Debug().Int("count", len(snapshots)).Msg("snapshots listed")
	return snapshots, nil
}
