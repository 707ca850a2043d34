package engine

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// Sweeper drives the fixed-interval pairing sweep. It only ever submits
// sweep commands into the engine's event loop; the per-join sweep and the
// timer tick share the same pairing logic there.
type Sweeper struct {
	scheduler gocron.Scheduler
	logger    *slog.Logger
	interval  time.Duration
}

// NewSweeper creates a Sweeper ticking at the given interval
func NewSweeper(engine *Engine, interval time.Duration, logger *slog.Logger) (*Sweeper, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	if _, err := scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(engine.SweepQueues),
	); err != nil {
		return nil, fmt.Errorf("schedule sweep job: %w", err)
	}

	return &Sweeper{
		scheduler: scheduler,
		logger:    logger.With(slog.String("component", "sweeper")),
		interval:  interval,
	}, nil
}

// Start begins the periodic sweeps
func (s *Sweeper) Start() {
	s.scheduler.Start()
	s.logger.Info("queue sweeper started", slog.Duration("interval", s.interval))
}

// Stop shuts the scheduler down
func (s *Sweeper) Stop() error {
	if err := s.scheduler.Shutdown(); err != nil {
		return fmt.Errorf("shutdown scheduler: %w", err)
	}
	s.logger.Info("queue sweeper stopped")
	return nil
}
