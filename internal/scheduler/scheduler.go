package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/dukerupert/choreboard/internal/engine"
)

// Scheduler periodically reconciles instances over a rolling window
// around today, so boards always have occurrences materialized without
// waiting for an explicit generate request.
type Scheduler struct {
	engine     *engine.Engine
	cron       *cron.Cron
	spec       string
	windowDays int
	onRun      func()
	logger     *slog.Logger
}

// New creates a scheduler running the given cron spec. onRun, when not
// nil, fires after each successful reconcile (e.g. to broadcast).
func New(e *engine.Engine, spec string, windowDays int, onRun func(), logger *slog.Logger) *Scheduler {
	return &Scheduler{
		engine:     e,
		cron:       cron.New(),
		spec:       spec,
		windowDays: windowDays,
		onRun:      onRun,
		logger:     logger,
	}
}

// Start registers the cron entry and begins running it.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.run); err != nil {
		return fmt.Errorf("add cron entry %q: %w", s.spec, err)
	}
	s.cron.Start()
	s.logger.Info("reconcile scheduler started", "spec", s.spec, "window_days", s.windowDays)
	return nil
}

// Stop stops the cron scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	now := time.Now().UTC()
	start := now.AddDate(0, 0, -s.windowDays)
	end := now.AddDate(0, 0, s.windowDays)

	instances, err := s.engine.Reconcile(ctx, start, end, "")
	if err != nil {
		s.logger.Error("scheduled reconcile", "error", err)
		return
	}
	s.logger.Info("scheduled reconcile",
		"range_start", start.Format("2006-01-02"),
		"range_end", end.Format("2006-01-02"),
		"instances", len(instances),
	)
	if s.onRun != nil {
		s.onRun()
	}
}
