// Package pool fans out a workload across N concurrent workers and fans their
// results back in at a single join barrier.
package pool

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"stressforge/internal/budget"
	"stressforge/internal/workload"
)

// ErrScheduling marks a worker that could not be run to completion (e.g. the
// factory returned nil, or the workload panicked).
var ErrScheduling = errors.New("scheduling error")

// Factory builds the workload a given worker will run.
type Factory func(workerID int) workload.Workload

// Options configure a Pool.
type Options struct {
	Workers int
	// Stagger delays each worker's spawn after the first, to avoid a
	// connection-storm burst against a shared target.
	Stagger time.Duration
}

// Failure pairs a worker with the reason it failed.
type Failure struct {
	WorkerID int
	Reason   error
}

// Report aggregates one pool execution. Results always holds exactly
// Options.Workers entries, failed workers included.
type Report struct {
	Results  []workload.Result
	Metric   workload.Metric // summed across workers; nil if no worker produced one
	Elapsed  time.Duration
	Workers  int
	Failures []Failure // ordered by worker id
}

// Pool coordinates concurrent workload executions.
type Pool struct {
	opt Options
}

func New(opt Options) *Pool {
	if opt.Workers < 0 {
		opt.Workers = 0
	}
	if opt.Stagger < 0 {
		opt.Stagger = 0
	}
	return &Pool{opt: opt}
}

// Execute runs factory(id).Run for each worker and blocks until every worker
// has finished. A single worker's failure never cancels its siblings; the
// join barrier always sees all of them. Elapsed spans pool start to last
// worker completion.
func (p *Pool) Execute(ctx context.Context, b budget.Budget, factory Factory) Report {
	start := time.Now()
	n := p.opt.Workers

	results := make([]workload.Result, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		if i > 0 && p.opt.Stagger > 0 {
			// An interrupted stagger still spawns the worker: it will observe
			// the cancelled ctx itself, and the barrier stays complete.
			staggerWait(ctx, p.opt.Stagger)
		}
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			results[id] = runWorker(ctx, factory, id, b)
		}(i)
	}
	wg.Wait()

	report := Report{
		Results: results,
		Elapsed: time.Since(start),
		Workers: n,
	}
	for _, res := range results {
		if res.Err != nil {
			report.Failures = append(report.Failures, Failure{WorkerID: res.WorkerID, Reason: res.Err})
		}
		if res.Metric == nil {
			continue
		}
		if report.Metric == nil {
			report.Metric = res.Metric
		} else {
			report.Metric = report.Metric.Merge(res.Metric)
		}
	}
	return report
}

// runWorker isolates one worker execution, converting a panic into a
// scheduling failure instead of tearing down the whole run.
func runWorker(ctx context.Context, factory Factory, id int, b budget.Budget) (res workload.Result) {
	defer func() {
		if r := recover(); r != nil {
			res = workload.Result{
				WorkerID: id,
				Err:      fmt.Errorf("%w: worker %d panicked: %v", ErrScheduling, id, r),
			}
		}
	}()

	w := factory(id)
	if w == nil {
		return workload.Result{WorkerID: id, Err: ErrScheduling}
	}
	return w.Run(ctx, id, b)
}

func staggerWait(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
