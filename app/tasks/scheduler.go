package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler drives the automatic acquisition trigger on a fixed cron
// schedule. Results are logged, not returned; the manual trigger goes
// through the same Runner.
type Scheduler struct {
	cron   *cron.Cron
	runner *Runner
	spec   string
}

func NewScheduler(runner *Runner, spec string) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		runner: runner,
		spec:   spec,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.runScheduled); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", s.spec, err)
	}

	s.cron.Start()
	slog.Info("Scheduler started", "schedule", s.spec)
	return nil
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	slog.Info("Scheduler stopped")
}

func (s *Scheduler) runScheduled() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	result, err := s.runner.Run(ctx, TriggerScheduled)
	if err != nil {
		if errors.Is(err, ErrRunInProgress) {
			slog.Warn("Scheduled run skipped, another run in progress")
			return
		}
		slog.Error("Scheduled run failed", "error", err)
		return
	}

	slog.Info("Scheduled run finished", "count", result.Count, "timestamp", result.Timestamp.Format(time.RFC3339))
}
