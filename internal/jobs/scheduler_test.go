package jobs_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vytor/lingodeck/internal/flashcard"
	"github.com/vytor/lingodeck/internal/jobs"
	"github.com/vytor/lingodeck/internal/testutil/mocks"
	"github.com/vytor/lingodeck/internal/worker"
)

func TestScheduler_RunMaintenanceEnqueuesBothJobs(t *testing.T) {
	queue := new(mocks.MockJobQueue)
	queue.On("EnqueueRollover").Return(errors.New("queue full"))
	queue.On("EnqueuePruneReviewLogs").Return(nil)

	s := jobs.NewScheduler(queue, "04:00", time.UTC)
	s.RunMaintenance()

	queue.AssertExpectations(t)
}

func TestScheduler_StartRejectsBadTime(t *testing.T) {
	s := jobs.NewScheduler(new(mocks.MockJobQueue), "25:99", time.UTC)
	assert.Error(t, s.Start())
}

func TestScheduler_StartAndStop(t *testing.T) {
	s := jobs.NewScheduler(new(mocks.MockJobQueue), "04:00", time.UTC)
	require.NoError(t, s.Start())
	s.Stop()
}

func TestWorkerQueue_RunsJobsOnPool(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)
	bury := flashcard.NewBuryTracker()
	bury.Mark("a", 1, now)

	logs := new(mocks.MockReviewLogRepository)
	logs.On("PruneBefore", mock.Anything, time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)).Return(int64(3), nil)

	pool := worker.NewPool(1, 4)
	queue := jobs.NewWorkerQueue(pool, bury, logs, 365, func() time.Time { return now.AddDate(0, 0, 1) })

	require.NoError(t, queue.EnqueueRollover())
	require.NoError(t, queue.EnqueuePruneReviewLogs())

	pool.Start(context.Background())
	pool.Stop()

	assert.Equal(t, 0, bury.Groups())
	logs.AssertExpectations(t)
}
