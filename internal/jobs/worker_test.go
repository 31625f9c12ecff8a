package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorker_EnqueueRunsJobs(t *testing.T) {
	w := NewWorker(2)
	var count int32
	done := make(chan struct{}, 3)

	for i := 0; i < 3; i++ {
		w.Enqueue("count", func(ctx context.Context) error {
			atomic.AddInt32(&count, 1)
			done <- struct{}{}
			return nil
		})
	}
	for i := 0; i < 3; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("job did not run")
		}
	}
	w.Shutdown()

	assert.Equal(t, int32(3), atomic.LoadInt32(&count))
	assert.Equal(t, int64(3), w.GetStats().CompletedJobs)
}

func TestWorker_RunNowTracksNamedStats(t *testing.T) {
	w := NewWorker(1)
	defer w.Shutdown()

	require.NoError(t, w.RunNow("budget_refresh", func(ctx context.Context) error { return nil }))
	err := w.RunNow("budget_refresh", func(ctx context.Context) error { return errors.New("boom") })
	assert.EqualError(t, err, "boom")

	stats := w.ScheduledStats()
	require.Len(t, stats, 1)
	assert.Equal(t, "budget_refresh", stats[0].Name)
	assert.Equal(t, int64(2), stats[0].Runs)
	assert.Equal(t, int64(1), stats[0].Failures)
	assert.Equal(t, "boom", stats[0].LastError)
	assert.Equal(t, int64(1), w.GetStats().FailedJobs)
}

func TestWorker_RunNowRecoversPanic(t *testing.T) {
	w := NewWorker(1)
	defer w.Shutdown()

	err := w.RunNow("explode", func(ctx context.Context) error { panic("kaboom") })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kaboom")
	assert.Equal(t, 0, w.GetStats().ActiveJobs)
}

func TestWorker_ScheduleEveryImmediateRunsAtStartup(t *testing.T) {
	w := NewWorker(1)
	ran := make(chan struct{}, 1)

	w.ScheduleEveryImmediate("tick", time.Hour, func(ctx context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	})

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("immediate job did not run")
	}
	w.Shutdown()

	stats := w.ScheduledStats()
	require.Len(t, stats, 1)
	assert.Equal(t, "1h0m0s", stats[0].Interval)
}

func TestWorker_ShutdownIsIdempotent(t *testing.T) {
	w := NewWorker(1)
	w.Shutdown()
	assert.NotPanics(t, w.Shutdown)
	assert.Error(t, w.Context().Err())
}

func TestWorker_EnqueueTracksNamedRuns(t *testing.T) {
	w := NewWorker(1)
	done := make(chan struct{})
	w.Enqueue("cleanup", func(ctx context.Context) error {
		close(done)
		return errors.New("disk full")
	})
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run")
	}
	w.Shutdown()

	stats := w.ScheduledStats()
	require.Len(t, stats, 1)
	assert.Equal(t, "cleanup", stats[0].Name)
	assert.EqualValues(t, 1, stats[0].Runs)
	assert.Equal(t, "disk full", stats[0].LastError)
	assert.Equal(t, int64(1), w.GetStats().FailedJobs)
	assert.Equal(t, int64(1), w.GetStats().CompletedJobs)
}

func TestWorker_EnqueueAfterShutdownIsRejected(t *testing.T) {
	w := NewWorker(1)
	w.Shutdown()

	var ran atomic.Bool
	assert.NotPanics(t, func() {
		err := w.Enqueue("late", func(ctx context.Context) error {
			ran.Store(true)
			return nil
		})
		assert.ErrorIs(t, err, ErrStopped)
	})
	assert.False(t, ran.Load())
	assert.Empty(t, w.ScheduledStats())
}

func TestWorker_EnqueueRacingShutdown(t *testing.T) {
	w := NewWorker(2)
	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-stop:
				return
			default:
				_ = w.Enqueue("noop", func(ctx context.Context) error { return nil })
			}
		}
	}()

	time.Sleep(10 * time.Millisecond)
	assert.NotPanics(t, w.Shutdown)
	close(stop)
	<-done
	assert.ErrorIs(t, w.Enqueue("late", func(ctx context.Context) error { return nil }), ErrStopped)
}
