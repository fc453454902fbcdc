package usecase

import (
	"context"
	"time"

	"farewatch/pkg/logger"
)

// Scheduler fires the pipeline once per day at a configured wall-clock time,
// plus once immediately at startup. Runs execute in the scheduler's own loop,
// so a new run can never start while the previous one is still in flight.
type Scheduler struct {
	pipeline *Pipeline
	runTime  string // "15:04"
	logger   logger.Logger
}

// NewScheduler creates a scheduler for the given daily run time.
func NewScheduler(pipeline *Pipeline, runTime string, log logger.Logger) *Scheduler {
	return &Scheduler{
		pipeline: pipeline,
		runTime:  runTime,
		logger:   log,
	}
}

// Start blocks until the context is canceled, checking the clock once per
// minute against the configured run time.
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Scheduler started", "runTime", s.runTime)

	s.runOnce(ctx)

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Scheduler stopped")
			return
		case now := <-ticker.C:
			if matchesRunTime(now, s.runTime) {
				s.runOnce(ctx)
			}
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	if err := s.pipeline.RunOnce(ctx); err != nil {
		s.logger.Error("Run aborted", "error", err)
	}
}

// matchesRunTime reports whether now falls in the scheduled minute. The
// ticker delivers one tick per minute, so at most one tick can match per day.
func matchesRunTime(now time.Time, runTime string) bool {
	return now.Format("15:04") == runTime
}
