package service

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/replytrack/replytrack/internal/logger"
)

// Scheduler runs periodic maintenance jobs, currently the nightly streak
// roll-forward.
type Scheduler struct {
	cron  *cron.Cron
	goals GoalService
}

// NewScheduler creates a scheduler around the goal service.
func NewScheduler(goals GoalService) *Scheduler {
	return &Scheduler{
		cron:  cron.New(),
		goals: goals,
	}
}

// Start registers the jobs and begins the cron loop. The roll-forward runs
// at 03:00 server time, after most platforms have finished their own
// nightly syncs.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc("0 3 * * *", func() {
		if err := s.goals.RollForwardAll(context.Background()); err != nil {
			logger.Error("nightly roll-forward failed", logger.Err(err))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to register roll-forward job: %w", err)
	}

	s.cron.Start()
	logger.Info("scheduler started")
	return nil
}

// Stop halts the cron loop, waiting for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
