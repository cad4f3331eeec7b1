// Command echo_target is a standalone TCP echo server for exercising
// stressforge's network client mode by hand. Unlike the built-in server it
// can inject per-chunk latency and randomly drop connections, which makes the
// client's backoff and error accounting observable.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net"
	"time"
)

func main() {
	port := flag.Int("port", 9999, "Listening port")
	delay := flag.Duration("delay", 0, "Latency injected before each echoed chunk")
	dropRate := flag.Float64("drop-rate", 0, "Probability [0,1] of dropping a connection mid-stream")
	flag.Parse()

	if *dropRate < 0 || *dropRate > 1 {
		log.Fatalf("drop-rate must be in [0,1], got %v", *dropRate)
	}

	addr := fmt.Sprintf(":%d", *port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatalf("listen on %s: %v", addr, err)
	}
	log.Printf("echo target listening on %s (delay=%s drop-rate=%.2f)", addr, *delay, *dropRate)

	for {
		conn, err := ln.Accept()
		if err != nil {
			log.Fatalf("accept: %v", err)
		}
		go serve(conn, *delay, *dropRate)
	}
}

func serve(conn net.Conn, delay time.Duration, dropRate float64) {
	defer conn.Close()
	log.Printf("connection from %s", conn.RemoteAddr())

	buf := make([]byte, 4096)
	for {
		n, err := conn.Read(buf)
		if n > 0 {
			if dropRate > 0 && rand.Float64() < dropRate {
				log.Printf("dropping %s mid-stream", conn.RemoteAddr())
				return
			}
			if delay > 0 {
				time.Sleep(delay)
			}
			if _, werr := conn.Write(buf[:n]); werr != nil {
				log.Printf("write to %s: %v", conn.RemoteAddr(), werr)
				return
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				log.Printf("read from %s: %v", conn.RemoteAddr(), err)
			}
			return
		}
	}
}
