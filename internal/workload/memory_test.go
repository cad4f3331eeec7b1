package workload

import (
	"context"
	"errors"
	"testing"
	"time"

	"stressforge/internal/budget"
)

func TestMemoryAllocatesRequestedSize(t *testing.T) {
	const sizeMB = 10
	m := NewMemory(sizeMB, nil)
	m.holdInterval = 5 * time.Millisecond

	res := m.Run(context.Background(), 0, budget.New(60*time.Millisecond))
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	got, ok := res.Metric.(BytesAllocated)
	if !ok {
		t.Fatalf("metric type = %T, want BytesAllocated", res.Metric)
	}
	if uint64(got) != sizeMB*chunkSize {
		t.Fatalf("allocated %d bytes, want %d", uint64(got), sizeMB*chunkSize)
	}
}

func TestMemoryPartialOnAllocationFailure(t *testing.T) {
	const sizeMB = 10
	m := NewMemory(sizeMB, nil)
	calls := 0
	m.alloc = func(n int) ([]byte, error) {
		calls++
		if calls > 3 {
			return nil, errors.New("cannot satisfy allocation")
		}
		return make([]byte, n), nil
	}

	res := m.Run(context.Background(), 1, budget.New(time.Second))
	if !errors.Is(res.Err, ErrAllocationFailure) {
		t.Fatalf("error = %v, want ErrAllocationFailure", res.Err)
	}
	got := res.Metric.(BytesAllocated)
	if uint64(got) != 3*chunkSize {
		t.Fatalf("partial allocation = %d bytes, want %d", uint64(got), 3*chunkSize)
	}
	if uint64(got) > sizeMB*chunkSize {
		t.Fatalf("partial allocation exceeds request")
	}
}

func TestMemoryNeverExceedsRequest(t *testing.T) {
	const sizeMB = 4
	m := NewMemory(sizeMB, nil)
	m.holdInterval = 5 * time.Millisecond
	calls := 0
	m.alloc = func(n int) ([]byte, error) {
		calls++
		return make([]byte, n), nil
	}

	res := m.Run(context.Background(), 0, budget.New(30*time.Millisecond))
	if calls > sizeMB {
		t.Fatalf("allocator called %d times for a %dMB request", calls, sizeMB)
	}
	if uint64(res.Metric.(BytesAllocated)) > sizeMB*chunkSize {
		t.Fatalf("metric exceeds requested size")
	}
}

func TestMemoryStopsOnCancelDuringHold(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	m := NewMemory(1, nil)
	m.holdInterval = 5 * time.Millisecond

	done := make(chan Result, 1)
	go func() {
		done <- m.Run(ctx, 0, budget.New(time.Minute))
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case res := <-done:
		if res.Err != nil {
			t.Fatalf("cancelled hold phase should not be an error: %v", res.Err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("memory worker did not stop after cancellation")
	}
}
