// Package scheduler fires the report pipeline on a fixed cron schedule.
// There is no catch-up for missed fires and no overlap prevention; runs are
// expected to finish well inside the interval.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Job is one scheduled unit of work
type Job func(ctx context.Context)

// Scheduler wraps a cron runner with context-driven shutdown
type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger
}

// New creates an empty scheduler
func New(logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		cron:   cron.New(),
		logger: logger,
	}
}

// Schedule registers job to run on the given cron spec (standard 5 fields)
func (s *Scheduler) Schedule(ctx context.Context, spec string, job Job) error {
	_, err := s.cron.AddFunc(spec, func() {
		job(ctx)
	})
	if err != nil {
		return fmt.Errorf("invalid cron spec %q: %w", spec, err)
	}

	s.logger.Info("job scheduled", slog.String("spec", spec))
	return nil
}

// Run starts the scheduler and blocks until ctx is cancelled. Any job still
// executing at shutdown is allowed to finish.
func (s *Scheduler) Run(ctx context.Context) error {
	s.cron.Start()

	for _, entry := range s.cron.Entries() {
		s.logger.Info("scheduler running",
			slog.Time("next_fire", entry.Next))
	}

	<-ctx.Done()

	s.logger.Info("scheduler stopping")
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()

	return ctx.Err()
}

// Entries returns the scheduled entries, exposed for status reporting
func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}
