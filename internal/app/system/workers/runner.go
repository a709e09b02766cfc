// internal/app/system/workers/runner.go
package workers

import (
	"context"
	"sync"
	"time"

	"github.com/dalemusser/claimdesk/internal/app/system/tasks"
	"go.uber.org/zap"
)

// Runner is a background worker that runs one job on a fixed interval.
type Runner struct {
	job     tasks.Job
	log     *zap.Logger
	timeout time.Duration
	stopCh  chan struct{}
	wg      sync.WaitGroup
	once    sync.Once
}

// NewRunner creates a worker for job. Each run gets its own context bounded
// by timeout (30s when zero). A job without an interval runs every minute.
func NewRunner(job tasks.Job, logger *zap.Logger, timeout time.Duration) *Runner {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if job.Interval <= 0 {
		job.Interval = time.Minute
	}
	return &Runner{
		job:     job,
		log:     logger.With(zap.String("job", job.Name)),
		timeout: timeout,
		stopCh:  make(chan struct{}),
	}
}

// Start begins the background loop. The first run happens after one
// interval.
func (w *Runner) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("worker started", zap.Duration("interval", w.job.Interval))
}

// Stop signals the worker to stop and waits for a run in progress to
// finish. Calling Stop more than once is safe.
func (w *Runner) Stop() {
	w.once.Do(func() {
		close(w.stopCh)
		w.wg.Wait()
		w.log.Info("worker stopped")
	})
}

// RunOnce runs the job immediately on the caller's goroutine.
func (w *Runner) RunOnce() error {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()
	return w.job.Run(ctx)
}

func (w *Runner) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.job.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			if err := w.RunOnce(); err != nil {
				w.log.Error("job failed", zap.Error(err))
			}
		}
	}
}
