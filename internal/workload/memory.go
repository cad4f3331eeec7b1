package workload

import (
	"context"
	"fmt"
	"time"

	"stressforge/internal/budget"
	"stressforge/internal/output"
)

const (
	chunkSize = 1 << 20 // 1 MiB allocation unit
	pageStep  = 4096    // write stride that commits every page
)

// Memory allocates a target amount of RAM in 1 MiB chunks and holds it until
// the budget expires, touching pages periodically so the runtime cannot leave
// them unbacked or reclaim them as idle.
type Memory struct {
	sizeMB       int
	status       output.StatusPrinter
	alloc        func(n int) ([]byte, error)
	holdInterval time.Duration
}

// NewMemory creates a memory workload targeting sizeMB megabytes.
func NewMemory(sizeMB int, status output.StatusPrinter) *Memory {
	if status == nil {
		status = output.Nop
	}
	return &Memory{
		sizeMB:       sizeMB,
		status:       status,
		alloc:        allocChunk,
		holdInterval: 100 * time.Millisecond,
	}
}

// allocChunk is the default allocator. A true out-of-memory condition aborts
// the Go runtime before this returns, so the error path is only reachable
// through an injected allocator; keeping it lets the partial-failure contract
// be honored and tested.
func allocChunk(n int) ([]byte, error) {
	return make([]byte, n), nil
}

func (m *Memory) Run(ctx context.Context, id int, b budget.Budget) Result {
	m.status.Status(output.Success, "RAM Worker %d started - Allocating %dMB", id, m.sizeMB)

	chunks := make([][]byte, 0, m.sizeMB)
	for i := 0; i < m.sizeMB; i++ {
		if ctx.Err() != nil || b.Expired() {
			break
		}
		block, err := m.alloc(chunkSize)
		if err != nil {
			m.status.Status(output.Error, "Worker %d: Memory allocation failed at %dMB!", id, len(chunks))
			allocated := BytesAllocated(uint64(len(chunks)) * chunkSize)
			chunks = nil // release the partial allocation
			return Result{
				WorkerID: id,
				Metric:   allocated,
				Err:      fmt.Errorf("%w after %dMB: %v", ErrAllocationFailure, uint64(allocated)/chunkSize, err),
			}
		}
		// The write is mandatory: it forces physical page commitment so the
		// allocation actually lands in RAM rather than staying virtual.
		for j := 0; j < len(block); j += pageStep {
			block[j] = byte(i + j)
		}
		chunks = append(chunks, block)

		if (i+1)%100 == 0 {
			m.status.Status(output.Info, "Worker %d: Allocated %dMB", id, i+1)
		}
	}

	if len(chunks) == m.sizeMB {
		m.status.Status(output.Success, "Worker %d: Successfully allocated %dMB", id, m.sizeMB)
	}

	m.hold(ctx, b, chunks)

	m.status.Status(output.Success, "RAM Worker %d finished", id)
	return Result{WorkerID: id, Metric: BytesAllocated(uint64(len(chunks)) * chunkSize)}
}

// hold keeps the allocation resident until the budget expires, incrementing
// the first byte of every 10th chunk on each pass.
func (m *Memory) hold(ctx context.Context, b budget.Budget, chunks [][]byte) {
	ticker := time.NewTicker(m.holdInterval)
	defer ticker.Stop()

	for !b.Expired() {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for k := 0; k < len(chunks); k += 10 {
				chunks[k][0]++ // byte arithmetic wraps mod 256
			}
		}
	}
}
