package jobs

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/vytor/lingodeck/internal/logger"
)

// Scheduler triggers the daily maintenance jobs at a fixed wall-clock time.
type Scheduler struct {
	cron  *gocron.Scheduler
	queue JobQueue
	at    string
	log   *logger.Logger
}

// NewScheduler creates a scheduler firing every day at at ("HH:MM") in loc.
func NewScheduler(queue JobQueue, at string, loc *time.Location) *Scheduler {
	return &Scheduler{
		cron:  gocron.NewScheduler(loc),
		queue: queue,
		at:    at,
		log:   logger.Default().WithPrefix("scheduler"),
	}
}

// Start registers the maintenance jobs and runs the scheduler in the
// background.
func (s *Scheduler) Start() error {
	if _, err := s.cron.Every(1).Day().At(s.at).Do(s.RunMaintenance); err != nil {
		return fmt.Errorf("schedule maintenance at %s: %w", s.at, err)
	}
	s.cron.StartAsync()
	s.log.Info("daily maintenance scheduled at %s", s.at)
	return nil
}

// Stop terminates the scheduler. Jobs already handed to the pool still run.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.log.Info("scheduler stopped")
}

// RunMaintenance enqueues the rollover and the review log pruning.
func (s *Scheduler) RunMaintenance() {
	s.log.Debug("running daily maintenance")
	if err := s.queue.EnqueueRollover(); err != nil {
		s.log.WithError(err).Error("failed to enqueue rollover")
	}
	if err := s.queue.EnqueuePruneReviewLogs(); err != nil {
		s.log.WithError(err).Error("failed to enqueue review log pruning")
	}
}
