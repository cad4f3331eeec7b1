// Package metrics records round-trip latencies from network client workers in
// a thread-safe collector backed by an HDR histogram.
package metrics

import (
	"fmt"
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Collector aggregates per-connection results across workers.
type Collector struct {
	mu           sync.Mutex
	hist         *hdrhistogram.Histogram
	successes    int64
	failures     int64
	minLatency   time.Duration
	maxLatency   time.Duration
	sumLatency   time.Duration
	errorsByType map[string]int64
}

// Stats is an aggregated snapshot of the collector.
type Stats struct {
	Total      int64          `json:"total"`
	Successes  int64          `json:"successes"`
	Failures   int64          `json:"failures"`
	MinLatency time.Duration  `json:"-"`
	MaxLatency time.Duration  `json:"-"`
	Mean       time.Duration  `json:"-"`
	P50        time.Duration  `json:"-"`
	P90        time.Duration  `json:"-"`
	P99        time.Duration  `json:"-"`
	Errors     map[string]int `json:"errors,omitempty"`

	// JSON-friendly millisecond fields.
	MinLatencyMs float64 `json:"min_latency_ms"`
	MaxLatencyMs float64 `json:"max_latency_ms"`
	MeanMs       float64 `json:"mean_latency_ms"`
	P50Ms        float64 `json:"p50_latency_ms"`
	P90Ms        float64 `json:"p90_latency_ms"`
	P99Ms        float64 `json:"p99_latency_ms"`
}

func NewCollector() *Collector {
	// Track latencies from 1µs up to 60s with 3 significant figures.
	return &Collector{
		hist:         hdrhistogram.New(1, 60_000_000, 3),
		errorsByType: make(map[string]int64),
	}
}

// Record stores one connection's round-trip latency and error state.
func (c *Collector) Record(latency time.Duration, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if latency > 0 {
		us := latency.Microseconds()
		if us < c.hist.LowestTrackableValue() {
			us = c.hist.LowestTrackableValue()
		}
		if us > c.hist.HighestTrackableValue() {
			us = c.hist.HighestTrackableValue()
		}
		_ = c.hist.RecordValue(us)
	}
	c.sumLatency += latency

	if c.minLatency == 0 || latency < c.minLatency {
		c.minLatency = latency
	}
	if latency > c.maxLatency {
		c.maxLatency = latency
	}

	if err == nil {
		c.successes++
		return
	}
	c.failures++
	errorType := fmt.Sprintf("%T", err)
	if len(errorType) > 30 {
		errorType = errorType[len(errorType)-30:]
	}
	c.errorsByType[errorType]++
}

// Stats computes the current aggregated statistics.
func (c *Collector) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := c.successes + c.failures
	stats := Stats{
		Total:      total,
		Successes:  c.successes,
		Failures:   c.failures,
		MinLatency: c.minLatency,
		MaxLatency: c.maxLatency,
	}

	if total > 0 {
		stats.Mean = time.Duration(int64(c.sumLatency) / total)
	}
	if c.hist.TotalCount() > 0 {
		stats.P50 = time.Duration(c.hist.ValueAtQuantile(50)) * time.Microsecond
		stats.P90 = time.Duration(c.hist.ValueAtQuantile(90)) * time.Microsecond
		stats.P99 = time.Duration(c.hist.ValueAtQuantile(99)) * time.Microsecond
	}

	stats.MinLatencyMs = float64(stats.MinLatency) / float64(time.Millisecond)
	stats.MaxLatencyMs = float64(stats.MaxLatency) / float64(time.Millisecond)
	stats.MeanMs = float64(stats.Mean) / float64(time.Millisecond)
	stats.P50Ms = float64(stats.P50) / float64(time.Millisecond)
	stats.P90Ms = float64(stats.P90) / float64(time.Millisecond)
	stats.P99Ms = float64(stats.P99) / float64(time.Millisecond)

	if len(c.errorsByType) > 0 {
		stats.Errors = make(map[string]int, len(c.errorsByType))
		for k, v := range c.errorsByType {
			stats.Errors[k] = int(v)
		}
	}

	return stats
}
