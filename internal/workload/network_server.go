package workload

import (
	"context"
	"errors"
	"io"
	"net"
	"time"

	"stressforge/internal/budget"
	"stressforge/internal/output"
)

const (
	// echoBufferSize is the read/echo chunk size on both sides of the wire.
	echoBufferSize = 4096
	// acceptTimeout bounds each Accept call so the loop can poll the budget.
	acceptTimeout = time.Second
)

// Server runs a plain TCP echo listener: every chunk received on an accepted
// connection is written back verbatim, with no framing. Connections are
// handled one at a time; the accept loop resumes after each peer closes.
type Server struct {
	addr   string
	status output.StatusPrinter
}

// NewServer creates an echo server workload bound to addr (host:port).
func NewServer(addr string, status output.StatusPrinter) *Server {
	if status == nil {
		status = output.Nop
	}
	return &Server{addr: addr, status: status}
}

func (s *Server) Run(ctx context.Context, id int, b budget.Budget) Result {
	s.status.Status(output.Info, "Starting network server on %s", s.addr)

	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", s.addr)
	if err != nil {
		s.status.Status(output.Error, "Server failed to listen on %s: %v", s.addr, err)
		return Result{WorkerID: id, Metric: ConnStats{}, Err: err}
	}
	defer ln.Close()

	s.status.Status(output.Success, "Server listening on %s", s.addr)

	var stats ConnStats
	tl, _ := ln.(*net.TCPListener)
	for !b.Expired() && ctx.Err() == nil {
		if tl != nil {
			_ = tl.SetDeadline(time.Now().Add(acceptTimeout))
		}
		conn, err := ln.Accept()
		if err != nil {
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				continue
			}
			s.status.Status(output.Error, "Server error: %v", err)
			continue
		}

		stats.Connections++
		s.status.Status(output.Info, "Connection #%d from %s", stats.Connections, conn.RemoteAddr())

		received, err := s.echo(conn)
		stats.BytesReceived += received
		if err != nil {
			// A broken connection never aborts the server loop.
			s.status.Status(output.Error, "Server error: %v", err)
		}
	}

	s.status.Status(output.Success, "Server finished - %s", stats)
	return Result{WorkerID: id, Metric: stats}
}

// echo copies chunks back to the peer until it closes the connection or an
// error occurs, returning the total bytes received.
func (s *Server) echo(conn net.Conn) (uint64, error) {
	defer conn.Close()

	var total uint64
	buf := make([]byte, echoBufferSize)
	for {
		n, err := conn.Read(buf)
		if n > 0 {
			total += uint64(n)
			if _, werr := conn.Write(buf[:n]); werr != nil {
				return total, werr
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return total, nil
			}
			return total, err
		}
	}
}
