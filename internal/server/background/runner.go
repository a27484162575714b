// Package background runs best-effort side effects outside the request that
// triggered them. A failing task is logged and never reported to the caller.
package background

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/contactbook/internal/logging"
)

// DefaultTimeout bounds a single task.
const DefaultTimeout = 30 * time.Second

// Runner starts fire-and-forget tasks and lets the owner wait for them on shutdown.
type Runner struct {
	logger  logging.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewRunner(logger logging.Logger, timeout time.Duration) *Runner {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Runner{logger: logger.With("module", "background"), timeout: timeout}
}

// Go runs fn in its own goroutine. The task keeps ctx values but not its
// cancellation, so it outlives the request that scheduled it.
func (r *Runner) Go(ctx context.Context, name string, fn func(context.Context) error) {
	taskCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer cancel()
		defer func() {
			if p := recover(); p != nil {
				r.logger.Error(taskCtx, "background task panicked", "task", name, "panic", fmt.Sprint(p))
			}
		}()

		start := time.Now()
		if err := fn(taskCtx); err != nil {
			r.logger.Warn(taskCtx, "background task failed", "task", name, "error", err.Error())
			return
		}
		r.logger.Debug(taskCtx, "background task done", "task", name, "duration", time.Since(start))
	}()
}

// Wait blocks until every started task has returned.
func (r *Runner) Wait() {
	r.wg.Wait()
}
