package ingest

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/obaber/berd/internal/logging"
	"github.com/obaber/berd/internal/metrics"
)

// CallbacksFactory builds the Callbacks implementation for one worker.
// It is a factory rather than a single shared value because each
// worker's Callbacks typically closes over worker-local state (its
// current output file, say) that must not be shared across workers.
type CallbacksFactory func(worker int) Callbacks

// Receiver fans listen/start/stop across 1..32 independent workers, each
// with its own listener set, connection pool, and Callbacks instance.
// There is no state shared between workers; Receiver only supervises
// their lifetimes.
type Receiver struct {
	binds      []BindSpec
	numWorkers int
	factory    CallbacksFactory
	metrics    *metrics.Registry
	logger     logging.Logger
	listeners  *ListenerSet
}

// NewReceiver creates a Receiver that will bind binds independently on
// each of numWorkers workers (1..32) and hand accepted connections to
// the Callbacks factory produces returns.
func NewReceiver(binds []BindSpec, numWorkers int, factory CallbacksFactory, m *metrics.Registry, l logging.Logger) *Receiver {
	if l == nil {
		l = logging.NewNop()
	}
	return &Receiver{
		binds:      binds,
		numWorkers: numWorkers,
		factory:    factory,
		metrics:    m,
		logger:     l,
		listeners:  NewListenerSet(),
	}
}

// Run binds numWorkers independent listener sets and runs every worker
// until ctx is cancelled, then waits for all of them to finish tearing
// down. It returns the first error any worker reported, or nil on a
// clean, context-cancelled shutdown.
func (r *Receiver) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	workers := make([]*Worker, 0, r.numWorkers)
	for i := 0; i < r.numWorkers; i++ {
		listeners, err := r.listeners.Bind(ctx, r.binds)
		if err != nil {
			for _, w := range workers {
				for _, ln := range w.listeners {
					ln.Close()
				}
			}
			return fmt.Errorf("ingest: worker %d: %w", i, err)
		}

		w := NewWorker(i, listeners, r.factory(i), r.metrics, r.logger)
		workers = append(workers, w)
		r.logger.Info("worker listening", "worker", i, "binds", len(listeners))
	}

	for _, w := range workers {
		w := w
		g.Go(func() error {
			return w.Run(ctx)
		})
	}

	return g.Wait()
}
