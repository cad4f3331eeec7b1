package workload

import (
	"context"

	"stressforge/internal/budget"
	"stressforge/internal/output"
)

// ctxPollStride bounds how often the tight prime loop checks for external
// cancellation. The budget itself is polled every iteration.
const ctxPollStride = 1024

// CPU burns one core by counting primes via trial division. Every worker
// starts its search at 2 and overlaps its siblings' ranges: the point is
// redundant parallel load, not a partitioned sieve.
type CPU struct {
	status output.StatusPrinter
}

func NewCPU(status output.StatusPrinter) *CPU {
	if status == nil {
		status = output.Nop
	}
	return &CPU{status: status}
}

func (c *CPU) Run(ctx context.Context, id int, b budget.Budget) Result {
	c.status.Status(output.Success, "CPU Worker %d started", id)

	var count uint64
	n := uint64(2)
	for i := 0; !b.Expired(); i++ {
		if i%ctxPollStride == 0 && ctx.Err() != nil {
			break
		}
		if isPrime(n) {
			count++
		}
		n++
	}

	c.status.Status(output.Success, "CPU Worker %d finished - Found %d primes", id, count)
	return Result{WorkerID: id, Metric: PrimeCount(count)}
}

// isPrime tests n by trial division with odd divisors up to the integer
// square root.
func isPrime(n uint64) bool {
	if n < 2 {
		return false
	}
	if n == 2 {
		return true
	}
	if n%2 == 0 {
		return false
	}
	for d := uint64(3); d*d <= n; d += 2 {
		if n%d == 0 {
			return false
		}
	}
	return true
}
