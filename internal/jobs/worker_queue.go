package jobs

import (
	"time"

	"github.com/vytor/lingodeck/internal/flashcard"
	"github.com/vytor/lingodeck/internal/repository"
	"github.com/vytor/lingodeck/internal/worker"
)

var _ JobQueue = (*WorkerQueue)(nil)

// WorkerQueue implements JobQueue using a worker pool
type WorkerQueue struct {
	pool          *worker.Pool
	bury          *flashcard.BuryTracker
	logs          repository.ReviewLogRepository
	retentionDays int
	now           func() time.Time
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(
	pool *worker.Pool,
	bury *flashcard.BuryTracker,
	logs repository.ReviewLogRepository,
	retentionDays int,
	now func() time.Time,
) *WorkerQueue {
	return &WorkerQueue{
		pool:          pool,
		bury:          bury,
		logs:          logs,
		retentionDays: retentionDays,
		now:           now,
	}
}

func (q *WorkerQueue) EnqueueRollover() error {
	return q.pool.Submit(&worker.RolloverJob{Bury: q.bury, Now: q.now})
}

func (q *WorkerQueue) EnqueuePruneReviewLogs() error {
	return q.pool.Submit(&worker.PruneReviewLogsJob{
		Logs:          q.logs,
		RetentionDays: q.retentionDays,
		Now:           q.now,
	})
}
