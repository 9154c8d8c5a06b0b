package runner

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fgeck/better-restic/internal/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Dispatcher starts backup runs in the background and never reports back to the caller.
// Outcomes are only visible in the log. Overlapping runs are not serialized; restic's
// own repository locking is the only guard against concurrent backups.
type Dispatcher struct {
	runner Service
	logger zerolog.Logger
	newID  func() string

	wg     sync.WaitGroup
	active atomic.Int64
}

// NewDispatcher creates a dispatcher that executes runs with runner.
func NewDispatcher(logger zerolog.Logger, runner Service) *Dispatcher {
	return &Dispatcher{
		runner: runner,
		logger: logger,
		newID:  uuid.NewString,
	}
}

// Trigger launches a backup of cfg and returns its task id immediately.
// cfg must be a snapshot the caller no longer mutates.
func (d *Dispatcher) Trigger(cfg models.Config, opts models.RunOptions) string {
	id := d.newID()
	logger := d.logger.With().Str("task_id", id).Logger()

	d.wg.Add(1)
	d.active.Add(1)

	go func() {
		defer d.wg.Done()
		defer d.active.Add(-1)

		start := time.Now()
		logger.Info().Bool("dry_run", opts.DryRun).Msg("background backup started")

		// Runs are not cancelled once spawned.
		result, err := d.runner.Run(context.Background(), cfg, opts)

		var failure *FailureError
		switch {
		case errors.As(err, &failure):
			logger.Error().
				Str("outcome", string(failure.Result.Outcome)).
				Dur("duration", time.Since(start)).
				Msg("background backup failed")
		case err != nil:
			logger.Error().Err(err).Msg("background backup failed")
		default:
			logger.Info().
				Str("outcome", string(result.Outcome)).
				Dur("duration", time.Since(start)).
				Msg("background backup finished")
		}
	}()

	return id
}

// Active returns the number of background runs still in flight.
func (d *Dispatcher) Active() int64 {
	return d.active.Load()
}

// Wait blocks until every triggered run has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
