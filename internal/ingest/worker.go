package ingest

import (
	"context"
	"errors"
	"io"
	"net"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/obaber/berd/internal/logging"
	"github.com/obaber/berd/internal/metrics"
)

// readChunkSize is how many bytes Worker reads from a connection per
// Read call, matching spec's 32KB read size.
const readChunkSize = 32 * 1024

// idleInterval is how often Worker invokes Callbacks.Idle, matching
// spec's 250ms epoll_wait timeout.
const idleInterval = 250 * time.Millisecond

// Callbacks is the idiomatic-Go replacement for the original's C
// function-pointer-plus-user-pointer callback pair: a goroutine and an
// interface instead of a callback and an opaque context argument.
type Callbacks interface {
	// DataReceived is invoked after a read appends chunk to conn.Buf.
	// Returning false closes the connection.
	DataReceived(conn *Conn, chunk []byte) bool
	// Idle is invoked on worker on every idle tick, independent of any
	// connection activity.
	Idle(worker int)
}

// Worker owns one or more listeners, a connection pool, and the
// goroutines that accept and read from them. Workers are shared-nothing:
// no state is visible to any other Worker.
type Worker struct {
	Index     int
	listeners []net.Listener
	pool      *ConnPool
	callbacks Callbacks
	metrics   *metrics.Registry
	logger    logging.Logger
}

// NewWorker creates a Worker bound to listeners, with its own connection
// pool for connection reuse and callbacks for data/idle notification.
func NewWorker(index int, listeners []net.Listener, callbacks Callbacks, m *metrics.Registry, l logging.Logger) *Worker {
	if l == nil {
		l = logging.NewNop()
	}
	return &Worker{
		Index:     index,
		listeners: listeners,
		pool:      NewConnPool(),
		callbacks: callbacks,
		metrics:   m,
		logger:    l.WithFields("worker", index),
	}
}

// Run accepts connections on every listener and drives the idle ticker
// until ctx is cancelled, then closes all listeners so the blocked
// Accept calls return and the accept goroutines exit. It returns the
// first non-cancellation error from any listener.
func (w *Worker) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	for _, ln := range w.listeners {
		ln := ln
		g.Go(func() error {
			<-ctx.Done()
			return ln.Close()
		})
		g.Go(func() error {
			return w.acceptLoop(ctx, ln)
		})
	}

	g.Go(func() error {
		w.idleLoop(ctx)
		return nil
	})

	return g.Wait()
}

func (w *Worker) acceptLoop(ctx context.Context, ln net.Listener) error {
	for {
		nc, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				continue
			}
			w.logger.Warn("accept failed", "error", err)
			continue
		}

		conn, err := w.pool.Acquire(w.Index, nc)
		if err != nil {
			w.logger.Warn("connection pool exhausted, dropping connection", "error", err)
			nc.Close()
			continue
		}

		w.metrics.ConnectionAccepted(w.Index)
		go w.handleConn(ctx, conn)
	}
}

// handleConn is the per-connection read loop. It reads in readChunkSize
// pieces, appending each to conn.Buf and invoking DataReceived, until
// the peer closes, a read error occurs, or the callback asks for the
// connection to close.
func (w *Worker) handleConn(ctx context.Context, conn *Conn) {
	defer w.closeConn(conn)

	connLogger := w.logger.WithRequestID(logging.GenerateRequestID())
	connLogger.Debug("connection accepted", "conn_id", conn.ID, "peer", conn.PeerAddr)

	chunk := make([]byte, readChunkSize)
	for {
		if ctx.Err() != nil {
			return
		}
		n, err := conn.netConn.Read(chunk)
		if n > 0 {
			conn.Buf.Append(chunk[:n])
			conn.LastActivity = time.Now()
			if !w.callbacks.DataReceived(conn, chunk[:n]) {
				connLogger.Debug("callback closed connection", "conn_id", conn.ID)
				return
			}
		}
		if err != nil {
			if err != io.EOF {
				connLogger.Warn("connection read failed", "conn_id", conn.ID, "error", err)
			}
			return
		}
	}
}

// closeConn returns conn to the pool without affecting any other
// connection or the worker's listeners — distinct from cancelling the
// context passed to Run, which tears down the whole worker.
func (w *Worker) closeConn(conn *Conn) {
	w.metrics.ConnectionClosed(w.Index)
	w.pool.Release(conn)
}

func (w *Worker) idleLoop(ctx context.Context) {
	ticker := time.NewTicker(idleInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.callbacks.Idle(w.Index)
		}
	}
}
