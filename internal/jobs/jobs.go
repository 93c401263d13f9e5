// Package jobs runs periodic maintenance while the server is up.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
)

// EventPruner deletes LLM request events older than a cutoff.
type EventPruner interface {
	PruneLLMEvents(ctx context.Context, before time.Time) (int64, error)
}

// Config controls the prune job.
type Config struct {
	Retention time.Duration
	At        string // HH:MM, UTC
}

// Scheduler owns the gocron scheduler and its jobs.
type Scheduler struct {
	scheduler *gocron.Scheduler
	pruner    EventPruner
	cfg       Config
	logger    *slog.Logger
	now       func() time.Time
}

// New creates a scheduler. Nothing runs until Start.
func New(pruner EventPruner, cfg Config, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		pruner:    pruner,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// Start registers the daily prune and starts the scheduler without
// blocking.
func (s *Scheduler) Start() error {
	if _, err := s.scheduler.Every(1).Day().At(s.cfg.At).Do(s.prune); err != nil {
		return fmt.Errorf("schedule llm event prune: %w", err)
	}
	s.scheduler.StartAsync()
	s.logger.Info("jobs started", "prune_at", s.cfg.At, "retention", s.cfg.Retention.String())
	return nil
}

// Stop terminates the scheduler.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// RunOnce prunes events older than the retention and returns the number
// removed.
func (s *Scheduler) RunOnce(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-s.cfg.Retention)
	n, err := s.pruner.PruneLLMEvents(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune llm events: %w", err)
	}
	return n, nil
}

func (s *Scheduler) prune() {
	n, err := s.RunOnce(context.Background())
	if err != nil {
		s.logger.Warn("llm event prune failed", "error", err)
		return
	}
	s.logger.Info("llm events pruned", "deleted", n)
}
