// Package runner orchestrates one stress-test invocation per mode: resolve
// config defaults, build the shared budget, fan out through the worker pool,
// and render the aggregate report.
package runner

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"time"

	"stressforge/internal/budget"
	"stressforge/internal/config"
	"stressforge/internal/metrics"
	"stressforge/internal/output"
	"stressforge/internal/pool"
	"stressforge/internal/workload"
)

// clientStagger spaces network client spawns to avoid a connection storm.
const clientStagger = 500 * time.Millisecond

// Runner executes stress-test modes and reports their results.
type Runner struct {
	status  output.StatusPrinter
	header  output.HeaderPrinter
	out     io.Writer
	jsonOut bool
}

// New creates a Runner. status and header receive operator feedback during
// the run; the final report goes to out (JSON when jsonOut is set).
func New(status output.StatusPrinter, header output.HeaderPrinter, out io.Writer, jsonOut bool) *Runner {
	if status == nil {
		status = output.Nop
	}
	if header == nil {
		header = output.Nop
	}
	if out == nil {
		out = io.Discard
	}
	return &Runner{status: status, header: header, out: out, jsonOut: jsonOut}
}

// RunCPU spawns one prime-counting worker per requested core. Cores == 0
// resolves to the host's logical core count.
func (r *Runner) RunCPU(ctx context.Context, cfg config.CPUConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	cores := cfg.Cores
	if cores == 0 {
		cores = runtime.NumCPU()
	}

	r.header.Header("CPU STRESS TEST")
	r.status.Status(output.Info, "Starting CPU stress test on %d cores for %s", cores, cfg.Duration)
	r.status.Status(output.Info, "Total CPU cores available: %d", runtime.NumCPU())

	b := budget.New(cfg.Duration)
	p := pool.New(pool.Options{Workers: cores})
	rep := p.Execute(ctx, b, func(int) workload.Workload {
		return workload.NewCPU(r.status)
	})

	r.finish(ctx, "CPU stress test", rep)
	return r.render(newSummary("cpu", rep, nil))
}

// RunRAM splits the total allocation across threads workers. Integer
// division: remainder megabytes are dropped, matching the documented
// rounding loss.
func (r *Runner) RunRAM(ctx context.Context, cfg config.RAMConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	perWorkerMB := cfg.SizeMB / cfg.Threads

	r.header.Header("RAM STRESS TEST")
	r.status.Status(output.Info, "Starting RAM stress test: %dMB total for %s", cfg.SizeMB, cfg.Duration)
	r.status.Status(output.Info, "Using %d threads (%dMB each)", cfg.Threads, perWorkerMB)

	b := budget.New(cfg.Duration)
	p := pool.New(pool.Options{Workers: cfg.Threads})
	rep := p.Execute(ctx, b, func(int) workload.Workload {
		return workload.NewMemory(perWorkerMB, r.status)
	})

	r.finish(ctx, "RAM stress test", rep)
	return r.render(newSummary("ram", rep, nil))
}

// RunNetwork branches on mode: a single echo server (a pool of one, no
// fan-out), or a staggered pool of echo clients.
func (r *Runner) RunNetwork(ctx context.Context, cfg config.NetworkConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	r.header.Header("NETWORK STRESS TEST")
	b := budget.New(cfg.Duration)

	switch cfg.Mode {
	case config.ModeServer:
		p := pool.New(pool.Options{Workers: 1})
		rep := p.Execute(ctx, b, func(int) workload.Workload {
			return workload.NewServer(cfg.Addr(), r.status)
		})
		r.finish(ctx, "Network server", rep)
		if err := r.render(newSummary("network-server", rep, nil)); err != nil {
			return err
		}
		return failedEntirely(rep)

	case config.ModeClient:
		r.status.Status(output.Info, "Starting %d client workers connecting to %s", cfg.Clients, cfg.Addr())
		collector := metrics.NewCollector()
		p := pool.New(pool.Options{Workers: cfg.Clients, Stagger: clientStagger})
		rep := p.Execute(ctx, b, func(int) workload.Workload {
			return workload.NewClient(cfg.Addr(), r.status, collector)
		})
		r.finish(ctx, "Network stress test", rep)
		stats := collector.Stats()
		if err := r.render(newSummary("network-client", rep, &stats)); err != nil {
			return err
		}
		return failedEntirely(rep)

	default:
		// Unreachable after Validate; kept so no work can ever start on a
		// bad mode string.
		return fmt.Errorf("invalid mode %q", cfg.Mode)
	}
}

// finish prints the closing status line: success normally, a warning when the
// run was interrupted. The pool has already joined by the time this runs.
func (r *Runner) finish(ctx context.Context, label string, rep pool.Report) {
	if ctx.Err() != nil {
		r.status.Status(output.Warning, "%s interrupted by user after %s", label, rep.Elapsed.Round(time.Millisecond))
		return
	}
	r.status.Status(output.Success, "%s completed in %.2f seconds", label, rep.Elapsed.Seconds())
}

func (r *Runner) render(s output.Summary) error {
	if r.jsonOut {
		return output.PrintJSONReport(r.out, s)
	}
	output.PrintReport(r.out, s)
	return nil
}

// failedEntirely returns an error when every worker of a run failed; partial
// failures are reported but do not fail the invocation.
func failedEntirely(rep pool.Report) error {
	if rep.Workers > 0 && len(rep.Failures) == rep.Workers {
		return fmt.Errorf("all %d workers failed: %v", rep.Workers, rep.Failures[0].Reason)
	}
	return nil
}

// newSummary maps a pool report into the presentation-level summary.
func newSummary(mode string, rep pool.Report, latency *metrics.Stats) output.Summary {
	s := output.Summary{
		Mode:    mode,
		Workers: rep.Workers,
		Elapsed: rep.Elapsed,
		Latency: latency,
	}
	if rep.Metric != nil {
		s.Total = rep.Metric.String()
		s.Counters = metricCounters(rep.Metric)
	}
	for _, f := range rep.Failures {
		s.Failures = append(s.Failures, output.FailureLine{WorkerID: f.WorkerID, Reason: f.Reason.Error()})
	}
	return s
}

func metricCounters(m workload.Metric) []output.Counter {
	switch v := m.(type) {
	case workload.PrimeCount:
		return []output.Counter{{Name: "total_primes", Value: uint64(v)}}
	case workload.BytesAllocated:
		return []output.Counter{{Name: "bytes_allocated", Value: uint64(v)}}
	case workload.ConnStats:
		return []output.Counter{
			{Name: "connections", Value: v.Connections},
			{Name: "bytes_received", Value: v.BytesReceived},
		}
	case workload.TransferStats:
		return []output.Counter{
			{Name: "requests", Value: v.Requests},
			{Name: "bytes_sent", Value: v.BytesSent},
		}
	default:
		return nil
	}
}
