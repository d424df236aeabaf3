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

func TestEnqueueAsyncRunsJob(t *testing.T) {
	w := NewWorker(2)
	defer w.Shutdown()

	done := make(chan struct{})
	w.EnqueueAsync("notify", func(ctx context.Context) error {
		close(done)
		return nil
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("job did not run")
	}
}

func TestEnqueueAsyncTracksFailures(t *testing.T) {
	w := NewWorker(1)

	var runs atomic.Int32
	for range 3 {
		w.EnqueueAsync("flaky", func(ctx context.Context) error {
			runs.Add(1)
			return errors.New("boom")
		})
	}
	w.EnqueueAsync("panics", func(ctx context.Context) error {
		panic("unexpected")
	})
	w.EnqueueAsync("ok", func(ctx context.Context) error { return nil })

	w.Shutdown()

	stats := w.GetStats()
	assert.Equal(t, int32(3), runs.Load())
	assert.Equal(t, int64(4), stats.FailedJobs)
	assert.Equal(t, int64(5), stats.CompletedJobs)
	assert.Equal(t, 0, stats.ActiveJobs)
	assert.Equal(t, 1, stats.MaxConcurrent)

	require.Len(t, stats.Jobs, 3)
	flaky, ok, panics := stats.Jobs[0], stats.Jobs[1], stats.Jobs[2]
	assert.Equal(t, "flaky", flaky.Name)
	assert.Equal(t, int64(3), flaky.Runs)
	assert.Equal(t, int64(3), flaky.Failures)
	assert.Equal(t, "boom", flaky.LastError)
	assert.Equal(t, "ok", ok.Name)
	assert.Empty(t, ok.LastError)
	assert.NotNil(t, ok.LastRun)
	assert.Equal(t, "panic: unexpected", panics.LastError)
}

func TestScheduleEveryImmediateRunsAtStartup(t *testing.T) {
	w := NewWorker(1)

	ran := make(chan struct{}, 1)
	w.ScheduleEveryImmediate("overdue_reminders", time.Hour, func(ctx context.Context) error {
		ran <- struct{}{}
		return nil
	})

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("scheduled job did not run at startup")
	}
	w.Shutdown()

	stats := w.GetStats()
	require.Len(t, stats.Jobs, 1)
	assert.Equal(t, "1h0m0s", stats.Jobs[0].Interval)
	assert.Equal(t, int64(1), stats.Jobs[0].Runs)
}

func TestScheduleEveryWaitsForInterval(t *testing.T) {
	w := NewWorker(1)

	var runs atomic.Int32
	w.ScheduleEvery("tick", 20*time.Millisecond, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	})
	assert.Equal(t, int32(0), runs.Load())

	assert.Eventually(t, func() bool { return runs.Load() >= 2 }, time.Second, 5*time.Millisecond)
	w.Shutdown()
}

func TestRunReturnsJobError(t *testing.T) {
	w := NewWorker(1)
	defer w.Shutdown()

	err := w.Run(context.Background(), "manual", func(ctx context.Context) error {
		return errors.New("db down")
	})
	assert.EqualError(t, err, "db down")

	err = w.Run(context.Background(), "manual", func(ctx context.Context) error {
		panic("nil map")
	})
	assert.EqualError(t, err, "panic: nil map")

	stats := w.GetStats()
	require.Len(t, stats.Jobs, 1)
	assert.Equal(t, int64(2), stats.Jobs[0].Failures)
}
