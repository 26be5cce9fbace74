package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// TickFunc runs one full change cycle. The passed time is the cycle start.
type TickFunc func(ctx context.Context, at time.Time) error

// Options tune scheduler behaviour.
type Options struct {
	Interval     time.Duration
	StartupDelay time.Duration
}

// Scheduler drives repeated execution of a cycle with a fixed sleep
// between runs. Cycles never overlap; each tick blocks the loop.
type Scheduler struct {
	opts   Options
	logger zerolog.Logger
}

// New constructs a Scheduler instance.
func New(opts Options, logger zerolog.Logger) *Scheduler {
	if opts.Interval <= 0 {
		panic("scheduler interval must be positive")
	}
	return &Scheduler{opts: opts, logger: logger.With().Str("component", "scheduler").Logger()}
}

// Run blocks, invoking tick immediately and then once per interval until
// ctx is cancelled. Tick errors are logged, never fatal.
func (s *Scheduler) Run(ctx context.Context, tick TickFunc) error {
	if s.opts.StartupDelay > 0 {
		if err := sleep(ctx, s.opts.StartupDelay); err != nil {
			return err
		}
	}

	cycle := 0
	for {
		cycle++
		started := time.Now()
		s.logger.Info().Int("cycle", cycle).Msg("executing change cycle")

		if err := tick(ctx, started); err != nil {
			s.logger.Error().Err(err).Int("cycle", cycle).Msg("cycle execution failed")
		}

		s.logger.Debug().Dur("interval", s.opts.Interval).Msg("waiting for next cycle")
		if err := sleep(ctx, s.opts.Interval); err != nil {
			return err
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
