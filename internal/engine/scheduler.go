package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler re-runs the engine on a fixed interval for deployments without
// an external scheduler. Each tick is the same stateless one-shot cycle.
type Scheduler struct {
	cron   *cron.Cron
	engine *Engine
	log    *slog.Logger
}

// NewScheduler creates a Scheduler running the engine every interval.
func NewScheduler(eng *Engine, interval time.Duration, log *slog.Logger) (*Scheduler, error) {
	c := cron.New()

	s := &Scheduler{
		cron:   c,
		engine: eng,
		log:    log,
	}

	if _, err := c.AddFunc("@every "+interval.String(), s.runCycle); err != nil {
		return nil, err
	}

	return s, nil
}

// Start begins running scheduled cycles.
func (s *Scheduler) Start() {
	s.log.Info("scheduler started")
	s.cron.Start()
}

// Stop gracefully stops the scheduler, waiting for a running cycle to finish.
func (s *Scheduler) Stop() context.Context {
	s.log.Info("scheduler stopping")
	return s.cron.Stop()
}

// Entries returns the registered cron entries for inspection.
func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}

func (s *Scheduler) runCycle() {
	ctx := context.Background()
	summary, err := s.engine.Run(ctx)
	if err != nil {
		s.log.Error("scheduled run failed", "error", err)
		return
	}
	s.log.Info("scheduled run complete",
		"new_items", summary.NewItems,
		"failed_profiles", summary.FailedProfiles,
		"delivered", summary.Delivered,
	)
}
