package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/edusupply/schola-api/pkg/logger"
)

// Job is a unit of background work
type Job func(ctx context.Context) error

// Worker runs queued and scheduled background jobs. Posting workflows hand
// it their side effects (audit writes, cache invalidation, emails) so the
// HTTP response never waits on them.
type Worker struct {
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	queue    chan Job
	asyncSem chan struct{}

	mu    sync.RWMutex
	stats WorkerStats
}

// WorkerStats holds the worker pool counters
type WorkerStats struct {
	ActiveJobs    int   `json:"active_jobs"`
	CompletedJobs int64 `json:"completed_jobs"`
	FailedJobs    int64 `json:"failed_jobs"`
	QueueLength   int   `json:"queue_length"`
	MaxConcurrent int   `json:"max_concurrent"`
}

// NewWorker starts a pool of numWorkers queue processors. Fire-and-forget
// jobs get their own goroutines, capped at twice the pool size.
func NewWorker(numWorkers int) *Worker {
	if numWorkers < 1 {
		numWorkers = 1
	}
	asyncLimit := numWorkers * 2
	if asyncLimit < 10 {
		asyncLimit = 10
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Worker{
		ctx:      ctx,
		cancel:   cancel,
		queue:    make(chan Job, 100),
		asyncSem: make(chan struct{}, asyncLimit),
	}
	w.stats.MaxConcurrent = asyncLimit

	for i := 0; i < numWorkers; i++ {
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			for {
				select {
				case <-w.ctx.Done():
					return
				case job, ok := <-w.queue:
					if !ok {
						return
					}
					w.run(job, "queued")
				}
			}
		}()
	}

	return w
}

// Enqueue hands a job to the pool. A full queue runs the job inline rather
// than dropping it.
func (w *Worker) Enqueue(job Job) {
	select {
	case w.queue <- job:
	default:
		logger.Warn("Worker queue full, running job inline")
		w.run(job, "inline")
	}
}

// EnqueueAsync runs a job in its own goroutine, bounded by the semaphore
func (w *Worker) EnqueueAsync(job Job) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.asyncSem <- struct{}{}
		defer func() { <-w.asyncSem }()
		w.run(job, "async")
	}()
}

// ScheduleEvery runs a job at a fixed interval, first run one interval in
func (w *Worker) ScheduleEvery(interval time.Duration, job Job) {
	w.schedule(interval, job, false)
}

// ScheduleEveryImmediate runs a job now and then at a fixed interval. Use it
// for work that should not wait out the first interval after a deploy.
func (w *Worker) ScheduleEveryImmediate(interval time.Duration, job Job) {
	w.schedule(interval, job, true)
}

func (w *Worker) schedule(interval time.Duration, job Job, immediate bool) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		if immediate {
			w.run(job, "scheduled")
		}
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-w.ctx.Done():
				return
			case <-ticker.C:
				w.run(job, "scheduled")
			}
		}
	}()
}

// run executes one job with panic recovery and counter upkeep
func (w *Worker) run(job Job, kind string) {
	w.mu.Lock()
	w.stats.ActiveJobs++
	w.mu.Unlock()

	failed := false
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "kind", kind, "panic", r)
			failed = true
		}
		w.mu.Lock()
		w.stats.ActiveJobs--
		w.stats.CompletedJobs++
		if failed {
			// CompletedJobs counts every finished job; FailedJobs is the
			// failed subset.
			w.stats.FailedJobs++
		}
		w.mu.Unlock()
	}()

	start := time.Now()
	if err := job(w.ctx); err != nil {
		logger.Error("Job failed", "kind", kind, "error", err)
		failed = true
		return
	}
	logger.Debug("Job completed", "kind", kind, "elapsed", time.Since(start))
}

// Shutdown stops accepting work and waits for in-flight jobs
func (w *Worker) Shutdown() {
	w.cancel()
	close(w.queue)
	w.wg.Wait()
}

// GetStats returns a snapshot of the worker counters
func (w *Worker) GetStats() WorkerStats {
	w.mu.RLock()
	defer w.mu.RUnlock()
	stats := w.stats
	stats.QueueLength = len(w.queue)
	return stats
}
