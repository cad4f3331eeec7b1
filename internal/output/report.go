package output

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"stressforge/internal/metrics"
)

// Counter is one named numeric total in a run summary.
type Counter struct {
	Name  string `json:"name"`
	Value uint64 `json:"value"`
}

// FailureLine reports one failed worker.
type FailureLine struct {
	WorkerID int    `json:"worker_id"`
	Reason   string `json:"reason"`
}

// Summary is the presentation-level view of one run, built by the runner from
// the pool's aggregate report.
type Summary struct {
	Mode     string
	Workers  int
	Elapsed  time.Duration
	Total    string // human-readable aggregate metric
	Counters []Counter
	Failures []FailureLine
	Latency  *metrics.Stats // network client only
}

// PrintReport writes a human-readable results block.
func PrintReport(w io.Writer, s Summary) {
	fmt.Fprintf(w, "\n--- %s Results ---\n", s.Mode)
	fmt.Fprintf(w, "Workers:           %d\n", s.Workers)
	fmt.Fprintf(w, "Duration:          %s\n", s.Elapsed.Round(time.Millisecond))
	if s.Total != "" {
		fmt.Fprintf(w, "Total:             %s\n", s.Total)
	}
	for _, c := range s.Counters {
		fmt.Fprintf(w, "  %-16s %d\n", c.Name+":", c.Value)
	}

	if s.Latency != nil && s.Latency.Total > 0 {
		fmt.Fprintln(w, "\nConnection Latency:")
		fmt.Fprintf(w, "  Min:             %s\n", s.Latency.MinLatency)
		fmt.Fprintf(w, "  Max:             %s\n", s.Latency.MaxLatency)
		fmt.Fprintf(w, "  Mean:            %s\n", s.Latency.Mean)
		fmt.Fprintf(w, "  P50:             %s\n", s.Latency.P50)
		fmt.Fprintf(w, "  P90:             %s\n", s.Latency.P90)
		fmt.Fprintf(w, "  P99:             %s\n", s.Latency.P99)
	}

	if len(s.Failures) > 0 {
		fmt.Fprintln(w, "\nFailures:")
		for _, f := range s.Failures {
			fmt.Fprintf(w, "  worker %d: %s\n", f.WorkerID, f.Reason)
		}
	}
}

// jsonSummary is the machine-readable report shape.
type jsonSummary struct {
	Mode      string         `json:"mode"`
	Workers   int            `json:"workers"`
	ElapsedMs float64        `json:"elapsed_ms"`
	Total     string         `json:"total,omitempty"`
	Counters  []Counter      `json:"counters,omitempty"`
	Failures  []FailureLine  `json:"failures,omitempty"`
	Latency   *metrics.Stats `json:"latency,omitempty"`
}

// PrintJSONReport writes the summary as indented JSON.
func PrintJSONReport(w io.Writer, s Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonSummary{
		Mode:      s.Mode,
		Workers:   s.Workers,
		ElapsedMs: float64(s.Elapsed) / float64(time.Millisecond),
		Total:     s.Total,
		Counters:  s.Counters,
		Failures:  s.Failures,
		Latency:   s.Latency,
	})
}
