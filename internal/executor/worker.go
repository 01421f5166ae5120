package executor

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/vk/genhub/internal/ctxlog"
)

// worker is the processing loop for a single concurrent worker.
func (e *Executor) worker(ctx context.Context, jobChan <-chan Job, resultChan chan<- *Result, workerID int) {
	logger := ctxlog.FromContext(ctx).With("workerID", workerID)
	logger.Debug("Worker started.")

	for j := range jobChan {
		workerCtx := ctxlog.WithLogger(ctx, logger)
		res := e.runJob(workerCtx, j)
		if res.Err != nil {
			logger.Error("Genome build failed.", "genome", j.Label, "error", res.Err)
			e.notifier.GenomeFailed(workerCtx, j.Label, res.Err)
		} else {
			logger.Debug("Genome build succeeded.", "genome", j.Label)
		}
		resultChan <- res
	}
	logger.Debug("Worker finished.")
}

func (e *Executor) runJob(ctx context.Context, j Job) (res *Result) {
	res = &Result{Label: j.Label, Stages: j.Stages}
	defer func() {
		if r := recover(); r != nil {
			ctxlog.FromContext(ctx).Error("Genome build panicked.", "genome", j.Label, "panic", r, "stack", string(debug.Stack()))
			res.Err = &PanicError{Label: j.Label, Value: r}
		}
	}()

	g, err := e.open(j.Genome)
	if err != nil {
		res.Err = fmt.Errorf("failed to open genome %s: %w", j.Label, err)
		return res
	}
	res.Genome = g
	res.Err = e.coord.Build(ctx, g, j.Stages, j.Options, j.Announce)
	return res
}
