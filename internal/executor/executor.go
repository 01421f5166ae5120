// Package executor runs per-genome builds on a bounded pool of workers and
// blocks until every build has finished.
package executor

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/vk/genhub/internal/config"
	"github.com/vk/genhub/internal/coordinator"
	"github.com/vk/genhub/internal/ctxlog"
	"github.com/vk/genhub/internal/notify"
	"github.com/vk/genhub/internal/stage"
)

// Job is one genome's build request. It is not modified after dispatch.
type Job struct {
	Label    string
	Genome   *config.Genome
	Stages   stage.Set
	Options  coordinator.Options
	Announce bool
}

// Result is the outcome of one job.
type Result struct {
	Label  string
	Genome coordinator.Genome
	Stages stage.Set
	Err    error
}

// Results are keyed by genome label.
type Results map[string]*Result

// Succeeded returns the labels of successful builds, sorted.
func (r Results) Succeeded() []string {
	return r.labels(func(res *Result) bool { return res.Err == nil })
}

// Failed returns the labels of failed builds, sorted.
func (r Results) Failed() []string {
	return r.labels(func(res *Result) bool { return res.Err != nil })
}

func (r Results) labels(keep func(*Result) bool) []string {
	var out []string
	for label, res := range r {
		if keep(res) {
			out = append(out, label)
		}
	}
	sort.Strings(out)
	return out
}

// OpenFunc creates the genome handle a worker builds against.
type OpenFunc func(g *config.Genome) (coordinator.Genome, error)

// Option configures an Executor.
type Option func(*Executor)

// WithKeepGoing makes Run report per-genome failures through the results
// only, returning a nil error.
func WithKeepGoing() Option {
	return func(e *Executor) { e.keepGoing = true }
}

// Executor dispatches jobs to a fixed number of workers.
type Executor struct {
	workers   int
	coord     *coordinator.Coordinator
	open      OpenFunc
	notifier  notify.Notifier
	keepGoing bool
}

// New creates an executor with p workers; p below one means one.
func New(p int, coord *coordinator.Coordinator, open OpenFunc, notifier notify.Notifier, opts ...Option) *Executor {
	if p < 1 {
		p = 1
	}
	if notifier == nil {
		notifier = notify.Nop{}
	}
	e := &Executor{workers: p, coord: coord, open: open, notifier: notifier}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run builds every job and returns once all of them have finished. A
// failing job never stops the others. Unless keep-going is set, the
// returned error combines every per-genome failure.
func (e *Executor) Run(ctx context.Context, jobs []Job) (Results, error) {
	logger := ctxlog.FromContext(ctx)

	seen := make(map[string]bool, len(jobs))
	for _, j := range jobs {
		if seen[j.Label] {
			return nil, fmt.Errorf("%w: genome %q requested more than once", config.ErrInvalid, j.Label)
		}
		seen[j.Label] = true
	}

	workers := min(e.workers, len(jobs))
	logger.Info("Starting builds.", "genomes", len(jobs), "workers", workers)

	jobChan := make(chan Job, len(jobs))
	resultChan := make(chan *Result, len(jobs))
	for _, j := range jobs {
		jobChan <- j
	}
	close(jobChan)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			e.worker(ctx, jobChan, resultChan, workerID)
		}(i)
	}
	wg.Wait()
	close(resultChan)

	results := make(Results, len(jobs))
	var merr *multierror.Error
	for res := range resultChan {
		results[res.Label] = res
	}
	for _, label := range results.Failed() {
		merr = multierror.Append(merr, &BuildError{Label: label, Err: results[label].Err})
	}

	if err := merr.ErrorOrNil(); err != nil {
		if e.keepGoing {
			logger.Warn("Some genomes failed; continuing.", "failed", results.Failed(), "succeeded", len(results.Succeeded()))
			return results, nil
		}
		return results, err
	}
	logger.Info("All builds finished.", "genomes", len(results))
	return results, nil
}
