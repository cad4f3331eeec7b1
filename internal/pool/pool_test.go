package pool_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"stressforge/internal/budget"
	"stressforge/internal/pool"
	"stressforge/internal/workload"
)

// stubWorkload adapts a function to the Workload interface.
type stubWorkload func(ctx context.Context, id int, b budget.Budget) workload.Result

func (s stubWorkload) Run(ctx context.Context, id int, b budget.Budget) workload.Result {
	return s(ctx, id, b)
}

func countingFactory() pool.Factory {
	return func(int) workload.Workload {
		return stubWorkload(func(_ context.Context, id int, _ budget.Budget) workload.Result {
			return workload.Result{WorkerID: id, Metric: workload.PrimeCount(1)}
		})
	}
}

func TestExecuteReturnsResultPerWorker(t *testing.T) {
	for _, n := range []int{0, 1, 4, 16} {
		p := pool.New(pool.Options{Workers: n})
		rep := p.Execute(context.Background(), budget.New(time.Second), countingFactory())
		if len(rep.Results) != n {
			t.Fatalf("workers=%d: got %d results", n, len(rep.Results))
		}
		if rep.Workers != n {
			t.Fatalf("workers=%d: report.Workers = %d", n, rep.Workers)
		}
		if n > 0 {
			if got := rep.Metric.(workload.PrimeCount); got != workload.PrimeCount(n) {
				t.Fatalf("workers=%d: merged metric = %d", n, got)
			}
		} else if rep.Metric != nil {
			t.Fatalf("empty pool produced a metric: %v", rep.Metric)
		}
	}
}

func TestFailureDoesNotCancelSiblings(t *testing.T) {
	failing := errors.New("boom")
	factory := func(int) workload.Workload {
		return stubWorkload(func(_ context.Context, id int, _ budget.Budget) workload.Result {
			if id == 2 {
				return workload.Result{WorkerID: id, Err: failing}
			}
			return workload.Result{WorkerID: id, Metric: workload.PrimeCount(1)}
		})
	}

	p := pool.New(pool.Options{Workers: 5})
	rep := p.Execute(context.Background(), budget.New(time.Second), factory)

	if len(rep.Results) != 5 {
		t.Fatalf("got %d results, want 5", len(rep.Results))
	}
	if len(rep.Failures) != 1 || rep.Failures[0].WorkerID != 2 {
		t.Fatalf("failures = %+v, want exactly worker 2", rep.Failures)
	}
	if got := rep.Metric.(workload.PrimeCount); got != 4 {
		t.Fatalf("merged metric = %d, want 4 from surviving workers", got)
	}
}

func TestFailuresOrderedByWorkerID(t *testing.T) {
	factory := func(int) workload.Workload {
		return stubWorkload(func(_ context.Context, id int, _ budget.Budget) workload.Result {
			if id%2 == 0 {
				return workload.Result{WorkerID: id, Err: fmt.Errorf("worker %d failed", id)}
			}
			return workload.Result{WorkerID: id}
		})
	}

	p := pool.New(pool.Options{Workers: 8})
	rep := p.Execute(context.Background(), budget.New(time.Second), factory)

	want := []int{0, 2, 4, 6}
	if len(rep.Failures) != len(want) {
		t.Fatalf("got %d failures, want %d", len(rep.Failures), len(want))
	}
	for i, f := range rep.Failures {
		if f.WorkerID != want[i] {
			t.Fatalf("failure %d from worker %d, want %d", i, f.WorkerID, want[i])
		}
	}
}

func TestPanicBecomesSchedulingError(t *testing.T) {
	factory := func(int) workload.Workload {
		return stubWorkload(func(context.Context, int, budget.Budget) workload.Result {
			panic("worker exploded")
		})
	}

	p := pool.New(pool.Options{Workers: 2})
	rep := p.Execute(context.Background(), budget.New(time.Second), factory)

	if len(rep.Results) != 2 {
		t.Fatalf("got %d results, want 2", len(rep.Results))
	}
	for _, f := range rep.Failures {
		if !errors.Is(f.Reason, pool.ErrScheduling) {
			t.Fatalf("failure reason = %v, want ErrScheduling", f.Reason)
		}
	}
	if len(rep.Failures) != 2 {
		t.Fatalf("got %d failures, want 2", len(rep.Failures))
	}
}

func TestNilWorkloadIsSchedulingError(t *testing.T) {
	p := pool.New(pool.Options{Workers: 1})
	rep := p.Execute(context.Background(), budget.New(time.Second), func(int) workload.Workload { return nil })
	if len(rep.Failures) != 1 || !errors.Is(rep.Failures[0].Reason, pool.ErrScheduling) {
		t.Fatalf("failures = %+v, want one scheduling error", rep.Failures)
	}
}

func TestStaggerDelaysSpawns(t *testing.T) {
	const stagger = 40 * time.Millisecond
	p := pool.New(pool.Options{Workers: 3, Stagger: stagger})

	start := time.Now()
	rep := p.Execute(context.Background(), budget.New(time.Second), countingFactory())
	elapsed := time.Since(start)

	// Two stagger gaps for three workers.
	if elapsed < 2*stagger {
		t.Fatalf("elapsed %s, want >= %s with staggered spawns", elapsed, 2*stagger)
	}
	if len(rep.Results) != 3 {
		t.Fatalf("got %d results, want 3", len(rep.Results))
	}
}

func TestNegativeWorkerCountNormalized(t *testing.T) {
	p := pool.New(pool.Options{Workers: -3})
	rep := p.Execute(context.Background(), budget.New(time.Second), countingFactory())
	if len(rep.Results) != 0 {
		t.Fatalf("negative worker count should run nothing, got %d results", len(rep.Results))
	}
}
