// Copyright 2026 The Slabot Authors
// SPDX-License-Identifier: Apache-2.0

package bot

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/slabot/slabot/lib/clock"
	"github.com/slabot/slabot/lib/cron"
)

// SchedulerConfig holds configuration for creating a Scheduler.
type SchedulerConfig struct {
	Schedule cron.Schedule
	// Job runs at every fire time on its own goroutine.
	Job func(ctx context.Context)
	// Clock paces the schedule. If nil, clock.Real() is used.
	Clock  clock.Clock
	Logger *slog.Logger
}

// Scheduler fires a job on a cron schedule.
type Scheduler struct {
	schedule cron.Schedule
	job      func(ctx context.Context)
	clock    clock.Clock
	logger   *slog.Logger
}

// NewScheduler creates a Scheduler.
func NewScheduler(config SchedulerConfig) (*Scheduler, error) {
	if config.Job == nil {
		return nil, fmt.Errorf("bot: scheduler Job is required")
	}
	if config.Schedule.String() == "" {
		return nil, fmt.Errorf("bot: scheduler Schedule is required")
	}
	schedulerClock := config.Clock
	if schedulerClock == nil {
		schedulerClock = clock.Real()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		schedule: config.Schedule,
		job:      config.Job,
		clock:    schedulerClock,
		logger:   logger,
	}, nil
}

// Run waits for each fire time and starts the job, until ctx is
// cancelled. Fire times missed while the process was down are not
// replayed. Run waits for started jobs before returning.
func (s *Scheduler) Run(ctx context.Context) error {
	var jobs sync.WaitGroup
	defer jobs.Wait()

	for {
		now := s.clock.Now()
		next, err := s.schedule.Next(now)
		if err != nil {
			return fmt.Errorf("bot: computing next fire time: %w", err)
		}
		s.logger.Info("next scheduled report", "schedule", s.schedule.String(), "at", next)

		select {
		case <-ctx.Done():
			return nil
		case <-s.clock.After(next.Sub(now)):
		}

		jobs.Add(1)
		go func() {
			defer jobs.Done()
			s.job(ctx)
		}()
	}
}
