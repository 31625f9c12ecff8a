package services

import (
	"testing"
	"time"

	"github.com/sjperalta/fintera-ledger/internal/jobs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobService_RunAndStatus(t *testing.T) {
	repos := setupRepos(t)
	worker := jobs.NewWorker(1)
	t.Cleanup(worker.Shutdown)

	svc := NewJobService(worker, NewAccountService(repos), NewBudgetService(repos), NewAnalyticsService(repos, time.Minute))
	assert.Equal(t, []string{JobCacheCleanup, JobBalanceCheck, JobBudgetRefresh}, svc.Names())

	require.NoError(t, svc.Run(JobBalanceCheck))
	require.NoError(t, svc.Run(JobBudgetRefresh))
	assert.ErrorIs(t, svc.Run("unknown"), ErrNotFound)

	status := svc.GetStatus()
	assert.EqualValues(t, 2, status["completed_jobs"])
	scheduled, ok := status["scheduled"].([]jobs.ScheduledJobStats)
	require.True(t, ok)
	require.Len(t, scheduled, 2)
	assert.Equal(t, JobBalanceCheck, scheduled[0].Name)
	assert.EqualValues(t, 1, scheduled[0].Runs)
}

func TestJobService_EnqueueRunsInBackground(t *testing.T) {
	repos := setupRepos(t)
	worker := jobs.NewWorker(1)
	t.Cleanup(worker.Shutdown)

	svc := NewJobService(worker, NewAccountService(repos), NewBudgetService(repos), NewAnalyticsService(repos, time.Minute))
	assert.ErrorIs(t, svc.Enqueue("unknown"), ErrNotFound)
	require.NoError(t, svc.Enqueue(JobCacheCleanup))

	assert.Eventually(t, func() bool {
		for _, s := range worker.ScheduledStats() {
			if s.Name == JobCacheCleanup && s.Runs == 1 {
				return true
			}
		}
		return false
	}, 2*time.Second, 10*time.Millisecond)
}

func TestJobService_EnqueueAfterShutdown(t *testing.T) {
	repos := setupRepos(t)
	worker := jobs.NewWorker(1)
	svc := NewJobService(worker, NewAccountService(repos), NewBudgetService(repos), NewAnalyticsService(repos, time.Minute))
	worker.Shutdown()

	err := svc.Enqueue(JobCacheCleanup)
	assert.ErrorIs(t, err, ErrWorkerStopped)
	assert.ErrorIs(t, err, jobs.ErrStopped)
}
