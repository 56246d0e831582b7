package worker

import (
	"context"
	"time"

	"github.com/vytor/lingodeck/internal/flashcard"
	"github.com/vytor/lingodeck/internal/logger"
	"github.com/vytor/lingodeck/internal/repository"
)

// RolloverJob starts a new study day: siblings buried yesterday come back.
type RolloverJob struct {
	Bury *flashcard.BuryTracker
	Now  func() time.Time
}

func (j *RolloverJob) Name() string { return "rollover" }

func (j *RolloverJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)
	before := j.Bury.Groups()
	j.Bury.Reset(j.Now())
	log.Info("study day rolled over: released %d buried sibling groups", before-j.Bury.Groups())
	return nil
}

// PruneReviewLogsJob deletes review logs older than RetentionDays. Zero
// keeps everything.
type PruneReviewLogsJob struct {
	Logs          repository.ReviewLogRepository
	RetentionDays int
	Now           func() time.Time
}

func (j *PruneReviewLogsJob) Name() string { return "prune_review_logs" }

func (j *PruneReviewLogsJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)
	if j.RetentionDays <= 0 {
		log.Debug("review log retention disabled")
		return nil
	}

	cutoff := flashcard.StartOfDay(j.Now()).AddDate(0, 0, -j.RetentionDays)
	n, err := j.Logs.PruneBefore(ctx, cutoff)
	if err != nil {
		return err
	}
	log.Info("pruned %d review logs before %s", n, cutoff.Format("2006-01-02"))
	return nil
}
