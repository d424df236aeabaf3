package jobs

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/sjperalta/cobuy-api/pkg/logger"
)

// Job represents a background task
type Job func(ctx context.Context) error

// JobStats is the run history of one named job
type JobStats struct {
	Name         string     `json:"name"`
	Interval     string     `json:"interval,omitempty"`
	Runs         int64      `json:"runs"`
	Failures     int64      `json:"failures"`
	LastRun      *time.Time `json:"last_run,omitempty"`
	LastDuration string     `json:"last_duration,omitempty"`
	LastError    string     `json:"last_error,omitempty"`
}

// WorkerStats is a snapshot of the worker
type WorkerStats struct {
	ActiveJobs    int        `json:"active_jobs"`
	CompletedJobs int64      `json:"completed_jobs"`
	FailedJobs    int64      `json:"failed_jobs"`
	MaxConcurrent int        `json:"max_concurrent"`
	Jobs          []JobStats `json:"jobs"`
}

// Worker runs fire-and-forget jobs and recurring schedules until Shutdown
type Worker struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	sem    chan struct{}

	mu        sync.Mutex
	active    int
	completed int64
	failed    int64
	byName    map[string]*JobStats
}

// NewWorker creates a worker running at most maxConcurrent jobs at once
func NewWorker(maxConcurrent int) *Worker {
	maxConcurrent = max(maxConcurrent, 1)
	ctx, cancel := context.WithCancel(context.Background())
	return &Worker{
		ctx:    ctx,
		cancel: cancel,
		sem:    make(chan struct{}, maxConcurrent),
		byName: make(map[string]*JobStats),
	}
}

// EnqueueAsync runs a job in its own goroutine. Jobs enqueued before
// Shutdown still run, with a cancelled context.
func (w *Worker) EnqueueAsync(name string, job Job) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		w.sem <- struct{}{}
		defer func() { <-w.sem }()

		w.run(w.ctx, name, job)
	}()
}

// Run executes a job on the caller's goroutine and context, recording it
// under name like any background run
func (w *Worker) Run(ctx context.Context, name string, job Job) error {
	return w.run(ctx, name, job)
}

// ScheduleEvery runs a job at fixed intervals. The first run happens after
// one interval.
func (w *Worker) ScheduleEvery(name string, interval time.Duration, job Job) {
	w.schedule(name, interval, false, job)
}

// ScheduleEveryImmediate runs a job once right away, then at fixed intervals
func (w *Worker) ScheduleEveryImmediate(name string, interval time.Duration, job Job) {
	w.schedule(name, interval, true, job)
}

func (w *Worker) schedule(name string, interval time.Duration, immediate bool, job Job) {
	w.mu.Lock()
	w.statsFor(name).Interval = interval.String()
	w.mu.Unlock()

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		if immediate {
			w.run(w.ctx, name, job)
		}

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-w.ctx.Done():
				return
			case <-ticker.C:
				w.run(w.ctx, name, job)
			}
		}
	}()
}

// run executes job and records the outcome. A panic counts as a failure.
func (w *Worker) run(ctx context.Context, name string, job Job) (err error) {
	start := w.begin()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
		w.end(name, start, err)
	}()
	return job(ctx)
}

func (w *Worker) begin() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.active++
	return time.Now()
}

func (w *Worker) end(name string, start time.Time, err error) {
	elapsed := time.Since(start)

	w.mu.Lock()
	w.active--
	w.completed++
	s := w.statsFor(name)
	s.Runs++
	s.LastRun = &start
	s.LastDuration = elapsed.String()
	s.LastError = ""
	if err != nil {
		w.failed++
		s.Failures++
		s.LastError = err.Error()
	}
	w.mu.Unlock()

	if err != nil {
		logger.Error("[Worker] Job failed", "job", name, "error", err)
		return
	}
	logger.Debug("[Worker] Job completed", "job", name, "duration", elapsed)
}

// statsFor must be called with mu held
func (w *Worker) statsFor(name string) *JobStats {
	s, ok := w.byName[name]
	if !ok {
		s = &JobStats{Name: name}
		w.byName[name] = s
	}
	return s
}

// Shutdown cancels running jobs and waits for every goroutine to return
func (w *Worker) Shutdown() {
	w.cancel()
	w.wg.Wait()
}

// Context returns the worker's context for checking cancellation
func (w *Worker) Context() context.Context {
	return w.ctx
}

// GetStats returns the current worker statistics, jobs sorted by name
func (w *Worker) GetStats() WorkerStats {
	w.mu.Lock()
	defer w.mu.Unlock()

	stats := WorkerStats{
		ActiveJobs:    w.active,
		CompletedJobs: w.completed,
		FailedJobs:    w.failed,
		MaxConcurrent: cap(w.sem),
		Jobs:          make([]JobStats, 0, len(w.byName)),
	}
	for _, s := range w.byName {
		stats.Jobs = append(stats.Jobs, *s)
	}
	slices.SortFunc(stats.Jobs, func(a, b JobStats) int { return cmp.Compare(a.Name, b.Name) })
	return stats
}
