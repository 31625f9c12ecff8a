package jobs

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sjperalta/fintera-ledger/pkg/logger"
)

// ErrStopped is returned by Enqueue once Shutdown has been called
var ErrStopped = errors.New("worker stopped")

// Job represents a background task
type Job func(ctx context.Context) error

type queued struct {
	name string
	job  Job
}

// Worker manages background jobs and scheduled tasks
type Worker struct {
	ctx           context.Context
	cancel        context.CancelFunc
	wg            sync.WaitGroup
	queue         chan queued
	maxConcurrent int
	stats         WorkerStats
	statsMu       sync.RWMutex
	scheduled     map[string]*ScheduledJobStats
	closed        bool // guarded by statsMu; set before the queue is closed
	closeOnce     sync.Once
}

// WorkerStats holds statistics about the worker. CompletedJobs counts every
// finished run; FailedJobs is the subset that returned an error or panicked.
type WorkerStats struct {
	ActiveJobs    int   `json:"active_jobs"`
	CompletedJobs int64 `json:"completed_jobs"`
	FailedJobs    int64 `json:"failed_jobs"`
	QueueLength   int   `json:"queue_length"`
	MaxConcurrent int   `json:"max_concurrent"`
}

// ScheduledJobStats describes one named recurring job
type ScheduledJobStats struct {
	Name         string        `json:"name"`
	Interval     string        `json:"interval"`
	Runs         int64         `json:"runs"`
	Failures     int64         `json:"failures"`
	LastRunAt    *time.Time    `json:"last_run_at"`
	LastDuration time.Duration `json:"last_duration_ns"`
	LastError    string        `json:"last_error,omitempty"`
}

// NewWorker creates a worker with N concurrent processors
func NewWorker(numWorkers int) *Worker {
	if numWorkers < 1 {
		numWorkers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())

	w := &Worker{
		ctx:           ctx,
		cancel:        cancel,
		queue:         make(chan queued, 100),
		maxConcurrent: numWorkers,
		scheduled:     make(map[string]*ScheduledJobStats),
	}

	// Start worker goroutines
	for i := 0; i < numWorkers; i++ {
		w.wg.Add(1)
		go w.process(i)
	}

	return w
}

// Enqueue queues a job for the worker pool. Runs are tracked under name the
// same way scheduled runs are. After Shutdown it returns ErrStopped.
func (w *Worker) Enqueue(name string, job Job) error {
	w.statsMu.RLock()
	if w.closed {
		w.statsMu.RUnlock()
		logger.Warn("[Worker] Shut down, job dropped", "job", name)
		return ErrStopped
	}
	select {
	case w.queue <- queued{name: name, job: job}:
		w.statsMu.RUnlock()
		return nil
	default:
	}
	w.statsMu.RUnlock()

	logger.Warn("[Worker] Queue full, running job synchronously", "job", name)
	_ = w.runScheduledJob(name, job)
	return nil
}

// process handles jobs from the queue
func (w *Worker) process(workerID int) {
	defer w.wg.Done()
	for {
		select {
		case <-w.ctx.Done():
			return
		case q, ok := <-w.queue:
			if !ok {
				return
			}
			logger.Debug(fmt.Sprintf("[Worker %d] Picked up job %s", workerID, q.name))
			_ = w.runScheduledJob(q.name, q.job)
		}
	}
}

// ScheduleEvery runs a named job at fixed intervals. The first run happens after the interval (not at startup).
func (w *Worker) ScheduleEvery(name string, interval time.Duration, job Job) {
	w.schedule(name, interval, job, false)
}

// ScheduleEveryImmediate runs a named job once at startup, then at fixed intervals. Use this when the process
// may restart so jobs run soon after start instead of waiting for the first interval.
func (w *Worker) ScheduleEveryImmediate(name string, interval time.Duration, job Job) {
	w.schedule(name, interval, job, true)
}

func (w *Worker) schedule(name string, interval time.Duration, job Job, immediate bool) {
	w.statsMu.Lock()
	w.scheduled[name] = &ScheduledJobStats{Name: name, Interval: interval.String()}
	w.statsMu.Unlock()

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		if immediate {
			w.runScheduledJob(name, job)
		}
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-w.ctx.Done():
				return
			case <-ticker.C:
				w.runScheduledJob(name, job)
			}
		}
	}()
}

// RunNow executes a registered or ad-hoc job synchronously under the scheduler's bookkeeping
func (w *Worker) RunNow(name string, job Job) error {
	return w.runScheduledJob(name, job)
}

func (w *Worker) runScheduledJob(name string, job Job) (err error) {
	w.trackJobStart()
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
			logger.Error(fmt.Sprintf("[Scheduler] Job %s panic: %v", name, r))
		}
		w.trackScheduled(name, start, err)
		if err != nil {
			w.trackJobFailure()
		}
		w.trackJobEnd()
	}()

	if err = job(w.ctx); err != nil {
		logger.Error(fmt.Sprintf("[Scheduler] Job %s error: %v", name, err))
		return err
	}
	logger.Info(fmt.Sprintf("[Scheduler] Job %s completed in %v", name, time.Since(start)))
	return nil
}

// Shutdown gracefully stops all workers. Safe to call more than once.
func (w *Worker) Shutdown() {
	w.closeOnce.Do(func() {
		w.statsMu.Lock()
		w.closed = true
		close(w.queue)
		w.statsMu.Unlock()
		w.cancel()
	})
	w.wg.Wait()
}

// Context returns the worker's context for checking cancellation
func (w *Worker) Context() context.Context {
	return w.ctx
}

// GetStats returns the current worker statistics
func (w *Worker) GetStats() WorkerStats {
	w.statsMu.RLock()
	defer w.statsMu.RUnlock()
	stats := w.stats
	stats.QueueLength = len(w.queue)
	stats.MaxConcurrent = w.maxConcurrent
	return stats
}

// ScheduledStats returns a snapshot of every named job, sorted by name
func (w *Worker) ScheduledStats() []ScheduledJobStats {
	w.statsMu.RLock()
	defer w.statsMu.RUnlock()
	out := make([]ScheduledJobStats, 0, len(w.scheduled))
	for _, s := range w.scheduled {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (w *Worker) trackScheduled(name string, start time.Time, err error) {
	w.statsMu.Lock()
	defer w.statsMu.Unlock()
	s, ok := w.scheduled[name]
	if !ok {
		s = &ScheduledJobStats{Name: name}
		w.scheduled[name] = s
	}
	s.Runs++
	s.LastRunAt = &start
	s.LastDuration = time.Since(start)
	s.LastError = ""
	if err != nil {
		s.Failures++
		s.LastError = err.Error()
	}
}

func (w *Worker) trackJobStart() {
	w.statsMu.Lock()
	defer w.statsMu.Unlock()
	w.stats.ActiveJobs++
}

func (w *Worker) trackJobEnd() {
	w.statsMu.Lock()
	defer w.statsMu.Unlock()
	w.stats.ActiveJobs--
	w.stats.CompletedJobs++
}

func (w *Worker) trackJobFailure() {
	w.statsMu.Lock()
	defer w.statsMu.Unlock()
	w.stats.FailedJobs++
}
