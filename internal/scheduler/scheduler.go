package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/amishk599/jobfeed/internal/model"
)

// Runner executes one pipeline pass.
type Runner interface {
	Run(ctx context.Context) (*model.RunSummary, error)
}

// Scheduler owns the watch loop: it runs the pipeline immediately and then
// once per interval until its context is cancelled.
type Scheduler struct {
	runner    Runner
	interval  time.Duration
	onSummary func(*model.RunSummary)
	logger    *slog.Logger
}

// NewScheduler creates a scheduler that runs runner every interval.
// onSummary, when non-nil, receives the summary of every completed run.
func NewScheduler(runner Runner, interval time.Duration, onSummary func(*model.RunSummary), logger *slog.Logger) *Scheduler {
	return &Scheduler{
		runner:    runner,
		interval:  interval,
		onSummary: onSummary,
		logger:    logger,
	}
}

// Run starts the loop. It runs one immediate cycle, then waits interval
// between the end of one cycle and the start of the next. A failed cycle is
// logged and the loop continues. It returns nil when ctx is cancelled
// (graceful shutdown).
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("starting watch", "interval", s.interval.String())

	s.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("shutting down watch")
			return nil
		case <-time.After(s.interval):
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	summary, err := s.runner.Run(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		s.logger.Error("run failed", "error", err)
		return
	}
	if s.onSummary != nil && summary != nil {
		s.onSummary(summary)
	}
}
