package valutatrade

import (
	"context"
	"log/slog"
	"time"
)

// UpdateRunner runs one rate update.
type UpdateRunner interface {
	RunUpdate(ctx context.Context) (int, error)
}

// Scheduler runs updates on a fixed period.
//
// The time spent in an update counts towards the period: the scheduler waits
// only for what remains of it, and starts the next update immediately if the
// previous one overran. Missed periods are not caught up.
type Scheduler struct {
	updater  UpdateRunner
	interval time.Duration
	logger   *slog.Logger

	now   func() time.Time
	after func(time.Duration) <-chan time.Time
}

// NewScheduler returns a scheduler running updater every interval.
func NewScheduler(updater UpdateRunner, interval time.Duration, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Scheduler{updater: updater, interval: interval, logger: logger, now: time.Now, after: time.After}
}

// Run updates immediately then once per interval until ctx is done.
//
// Cancellation is only observed between updates; an update in flight is
// always completed. Update failures are logged and do not stop the loop.
func (s *Scheduler) Run(ctx context.Context) error {
	if s.interval <= 0 {
		return validationError("scheduler interval must be positive, got %v", s.interval)
	}
	s.logger.Info("scheduler started", "interval", s.interval)
	for iteration := 1; ; iteration++ {
		if ctx.Err() != nil {
			break
		}
		start := s.now()
		n, err := s.updater.RunUpdate(context.WithoutCancel(ctx))
		elapsed := s.now().Sub(start)
		if err != nil {
			s.logger.Error("scheduled update", "iteration", iteration, "elapsed", elapsed, "result", "ERROR", "error", err)
		} else {
			s.logger.Info("scheduled update", "iteration", iteration, "pairs", n, "elapsed", elapsed, "result", "OK")
		}

		select {
		case <-ctx.Done():
		case <-s.after(SleepDuration(s.interval, elapsed)):
		}
	}
	s.logger.Info("scheduler stopped")
	return nil
}

// SleepDuration returns how long to wait after an update that took elapsed,
// never less than zero.
func SleepDuration(interval, elapsed time.Duration) time.Duration {
	return max(interval-elapsed, 0)
}
