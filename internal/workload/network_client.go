package workload

import (
	"bytes"
	"context"
	"net"
	"time"

	"golang.org/x/time/rate"

	"stressforge/internal/budget"
	"stressforge/internal/metrics"
	"stressforge/internal/output"
)

const (
	// payloadSize bytes of 'X' are written per send; sendsPerConn sends make
	// one request (100 KiB per connection).
	payloadSize  = 1024
	sendsPerConn = 100

	dialTimeout  = 5 * time.Second
	ioTimeout    = 5 * time.Second
	errorBackoff = time.Second
	// pacingInterval spaces consecutive connections from one worker.
	pacingInterval = 100 * time.Millisecond
)

// Client opens connections against an echo server in a loop until the budget
// expires. Each connection sends the fixed payload sendsPerConn times, reading
// the echoed chunk back after every send so the exchange stays paced by the
// server (backpressure, and protocol compatibility with the raw echo wire).
type Client struct {
	addr      string
	status    output.StatusPrinter
	collector *metrics.Collector
	limiter   *rate.Limiter
	payload   []byte
}

// NewClient creates an echo client workload against addr. The collector is
// optional; when set, each connection's round-trip latency is recorded.
func NewClient(addr string, status output.StatusPrinter, collector *metrics.Collector) *Client {
	if status == nil {
		status = output.Nop
	}
	return &Client{
		addr:      addr,
		status:    status,
		collector: collector,
		limiter:   rate.NewLimiter(rate.Every(pacingInterval), 1),
		payload:   bytes.Repeat([]byte{'X'}, payloadSize),
	}
}

func (c *Client) Run(ctx context.Context, id int, b budget.Budget) Result {
	c.status.Status(output.Success, "Client Worker %d started", id)

	var stats TransferStats
	for !b.Expired() && ctx.Err() == nil {
		start := time.Now()
		sent, err := c.exchange(ctx)
		stats.BytesSent += sent
		if c.collector != nil {
			c.collector.Record(time.Since(start), err)
		}
		if err != nil {
			c.status.Status(output.Error, "Client %d error: %v", id, err)
			sleepCtx(ctx, errorBackoff)
			continue
		}

		stats.Requests++
		if stats.Requests%10 == 0 {
			c.status.Status(output.Info, "Client %d: %s", id, stats)
		}
		_ = c.limiter.Wait(ctx)
	}

	c.status.Status(output.Success, "Client Worker %d finished - %s", id, stats)
	return Result{WorkerID: id, Metric: stats}
}

// exchange performs one full connection: dial, send the payload sendsPerConn
// times reading one echo chunk after each send, close. Returns bytes sent.
func (c *Client) exchange(ctx context.Context) (uint64, error) {
	dialer := net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", c.addr)
	if err != nil {
		return 0, err
	}
	defer conn.Close()

	var sent uint64
	resp := make([]byte, echoBufferSize)
	for i := 0; i < sendsPerConn; i++ {
		if err := conn.SetDeadline(time.Now().Add(ioTimeout)); err != nil {
			return sent, err
		}
		if _, err := conn.Write(c.payload); err != nil {
			return sent, err
		}
		sent += uint64(len(c.payload))
		if _, err := conn.Read(resp); err != nil {
			return sent, err
		}
	}
	return sent, nil
}

// sleepCtx sleeps for d or until ctx is cancelled, whichever comes first.
func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
