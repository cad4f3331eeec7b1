package workload

import (
	"context"
	"testing"
	"time"

	"stressforge/internal/budget"
)

func TestIsPrime(t *testing.T) {
	cases := []struct {
		n    uint64
		want bool
	}{
		{0, false},
		{1, false},
		{2, true},
		{3, true},
		{4, false},
		{9, false},
		{25, false},
		{97, true},
		{7919, true},
		{7921, false}, // 89*89
	}
	for _, tc := range cases {
		if got := isPrime(tc.n); got != tc.want {
			t.Errorf("isPrime(%d) = %v, want %v", tc.n, got, tc.want)
		}
	}
}

// naiveIsPrime is trial division by definition, for cross-checking.
func naiveIsPrime(n uint64) bool {
	if n < 2 {
		return false
	}
	for d := uint64(2); d < n; d++ {
		if n%d == 0 {
			return false
		}
	}
	return true
}

func TestIsPrimeAgreesWithDefinition(t *testing.T) {
	for n := uint64(0); n < 1000; n++ {
		if isPrime(n) != naiveIsPrime(n) {
			t.Fatalf("isPrime(%d) disagrees with trial division", n)
		}
	}
}

func TestCPURunCountsPrimes(t *testing.T) {
	w := NewCPU(nil)
	res := w.Run(context.Background(), 3, budget.New(100*time.Millisecond))
	if res.WorkerID != 3 {
		t.Fatalf("worker id = %d, want 3", res.WorkerID)
	}
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	count, ok := res.Metric.(PrimeCount)
	if !ok {
		t.Fatalf("metric type = %T, want PrimeCount", res.Metric)
	}
	if count == 0 {
		t.Fatalf("expected primes found in 100ms, got 0")
	}
}

func TestCPURunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan Result, 1)
	go func() {
		done <- NewCPU(nil).Run(ctx, 0, budget.New(time.Minute))
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case res := <-done:
		if res.Metric == nil {
			t.Fatalf("cancelled worker should still report its partial count")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("CPU worker did not stop after cancellation")
	}
}
