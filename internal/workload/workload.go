// Package workload defines the resource-stressing routines executed by pool
// workers: CPU prime search, memory allocation, and the TCP echo server and
// client.
package workload

import (
	"context"
	"errors"
	"fmt"

	"stressforge/internal/budget"
)

// Workload is one unit of repeatable work. Run executes until the budget
// expires or ctx is cancelled, then returns a summary for this worker.
// Implementations poll both at bounded intervals; neither preempts a worker
// mid-operation.
type Workload interface {
	Run(ctx context.Context, id int, b budget.Budget) Result
}

// Result is the per-worker outcome. Metric may carry a partial total even
// when Err is set (e.g. memory allocated before an allocation failure).
type Result struct {
	WorkerID int
	Metric   Metric
	Err      error
}

// Metric is a summable workload measurement. Merge combines two metrics of
// the same kind; merging mismatched kinds keeps the receiver.
type Metric interface {
	Merge(other Metric) Metric
	String() string
}

// ErrAllocationFailure marks a memory worker that could not complete its
// requested allocation.
var ErrAllocationFailure = errors.New("allocation failure")

// PrimeCount is the number of primes found by a CPU worker.
type PrimeCount uint64

func (p PrimeCount) Merge(other Metric) Metric {
	if q, ok := other.(PrimeCount); ok {
		return p + q
	}
	return p
}

func (p PrimeCount) String() string {
	return fmt.Sprintf("%d primes found", uint64(p))
}

// BytesAllocated is the memory successfully allocated by a RAM worker.
type BytesAllocated uint64

func (b BytesAllocated) Merge(other Metric) Metric {
	if q, ok := other.(BytesAllocated); ok {
		return b + q
	}
	return b
}

func (b BytesAllocated) String() string {
	return fmt.Sprintf("%.2fMB allocated", mb(uint64(b)))
}

// ConnStats summarizes an echo server run.
type ConnStats struct {
	Connections   uint64
	BytesReceived uint64
}

func (c ConnStats) Merge(other Metric) Metric {
	if q, ok := other.(ConnStats); ok {
		return ConnStats{
			Connections:   c.Connections + q.Connections,
			BytesReceived: c.BytesReceived + q.BytesReceived,
		}
	}
	return c
}

func (c ConnStats) String() string {
	return fmt.Sprintf("%d connections, %.2fMB received", c.Connections, mb(c.BytesReceived))
}

// TransferStats summarizes an echo client worker's run.
type TransferStats struct {
	Requests  uint64
	BytesSent uint64
}

func (t TransferStats) Merge(other Metric) Metric {
	if q, ok := other.(TransferStats); ok {
		return TransferStats{
			Requests:  t.Requests + q.Requests,
			BytesSent: t.BytesSent + q.BytesSent,
		}
	}
	return t
}

func (t TransferStats) String() string {
	return fmt.Sprintf("%d requests, %.2fMB sent", t.Requests, mb(t.BytesSent))
}

func mb(b uint64) float64 {
	return float64(b) / (1024 * 1024)
}
