package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/sjperalta/fintera-ledger/internal/jobs"
	"github.com/sjperalta/fintera-ledger/pkg/amount"
	"github.com/sjperalta/fintera-ledger/pkg/logger"
)

// Names of the recurring maintenance jobs
const (
	JobBudgetRefresh  = "budget_refresh"
	JobCacheCleanup   = "analytics_cache_cleanup"
	JobBalanceCheck   = "balance_verification"
	cacheCleanupEvery = time.Hour
)

// JobSchedule sets how often each maintenance job runs
type JobSchedule struct {
	BudgetRefresh time.Duration
	BalanceCheck  time.Duration
}

type JobService struct {
	worker *jobs.Worker
	jobs   map[string]jobs.Job
}

func NewJobService(worker *jobs.Worker, accounts *AccountService, budgets *BudgetService, analytics *AnalyticsService) *JobService {
	s := &JobService{worker: worker}
	s.jobs = map[string]jobs.Job{
		JobBudgetRefresh: func(ctx context.Context) error {
			n, err := budgets.RefreshAll(ctx)
			if err != nil {
				return err
			}
			logger.Info("Budgets refreshed", "count", n)
			return nil
		},
		JobCacheCleanup: analytics.CleanCache,
		JobBalanceCheck: func(ctx context.Context) error {
			drifts, err := accounts.VerifyBalances(ctx)
			if err != nil {
				return err
			}
			for _, d := range drifts {
				msg := fmt.Sprintf("balance drift on account %s: stored %s, computed %s",
					d.Code, amount.String(d.Stored), amount.String(d.Computed))
				logger.Warn(msg, "account_id", d.AccountID)
				sentry.CaptureMessage(msg)
			}
			return nil
		},
	}
	return s
}

// Start schedules the maintenance jobs on the worker
func (s *JobService) Start(schedule JobSchedule) {
	if schedule.BudgetRefresh > 0 {
		s.worker.ScheduleEvery(JobBudgetRefresh, schedule.BudgetRefresh, s.jobs[JobBudgetRefresh])
	}
	s.worker.ScheduleEvery(JobCacheCleanup, cacheCleanupEvery, s.jobs[JobCacheCleanup])
	if schedule.BalanceCheck > 0 {
		s.worker.ScheduleEveryImmediate(JobBalanceCheck, schedule.BalanceCheck, s.jobs[JobBalanceCheck])
	}
}

// Run executes a named job synchronously
func (s *JobService) Run(name string) error {
	job, ok := s.jobs[name]
	if !ok {
		return wrap(ErrNotFound, "job %q not found", name)
	}
	return s.worker.RunNow(name, job)
}

// Enqueue hands a named job to the worker pool and returns without waiting
func (s *JobService) Enqueue(name string) error {
	job, ok := s.jobs[name]
	if !ok {
		return wrap(ErrNotFound, "job %q not found", name)
	}
	if err := s.worker.Enqueue(name, job); err != nil {
		return fmt.Errorf("%w: job %q not queued: %w", ErrWorkerStopped, name, err)
	}
	return nil
}

// Names lists the registered job names in order
func (s *JobService) Names() []string {
	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *JobService) GetStatus() map[string]interface{} {
	stats := s.worker.GetStats()
	return map[string]interface{}{
		"active_jobs":    stats.ActiveJobs,
		"completed_jobs": stats.CompletedJobs,
		"failed_jobs":    stats.FailedJobs,
		"queue_length":   stats.QueueLength,
		"max_concurrent": stats.MaxConcurrent,
		"scheduled":      s.worker.ScheduledStats(),
		"registered":     s.Names(),
	}
}
