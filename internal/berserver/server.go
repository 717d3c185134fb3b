package berserver

import (
	"errors"
	"time"

	"github.com/obaber/berd/internal/ber"
	"github.com/obaber/berd/internal/ingest"
	"github.com/obaber/berd/internal/logging"
	"github.com/obaber/berd/internal/metrics"
)

// berCallbacks implements ingest.Callbacks, treating each connection's
// aggregate buffer as a continuous BER stream and writing every
// complete top-level record to a per-worker rotating file.
type berCallbacks struct {
	worker int
	fw     *FileWriter
	m      *metrics.Registry
	logger logging.Logger
}

// NewCallbacksFactory builds the ingest.CallbacksFactory the Receiver
// needs, one berCallbacks (and one FileWriter) per worker.
func NewCallbacksFactory(cfg RotationConfig, m *metrics.Registry, l logging.Logger) ingest.CallbacksFactory {
	if l == nil {
		l = logging.NewNop()
	}
	return func(worker int) ingest.Callbacks {
		return &berCallbacks{
			worker: worker,
			fw:     NewFileWriter(worker, cfg, m, l.WithFields("worker", worker)),
			m:      m,
			logger: l.WithFields("worker", worker),
		}
	}
}

// DataReceived decodes as many complete top-level BER values as the
// connection's buffer currently holds, writes each to the rotating
// file, and drops the consumed prefix. A truncated trailing record is
// left in the buffer for the next read. Any decode or write error past
// that point closes the connection, per spec's error-propagation rule.
func (c *berCallbacks) DataReceived(conn *ingest.Conn, chunk []byte) bool {
	consumed, ok, err := frameRecords(conn.Buf.Data(), c.fw.WriteRecord)
	conn.Buf.ErasePrefix(consumed)

	if !ok {
		kind := decodeErrorKind(err)
		c.m.DecodeError(c.worker, kind)
		c.logger.Warn("closing connection after decode error", "error", err, "peer", conn.PeerAddr, "kind", kind)
		return false
	}
	return true
}

// Idle rotates the current file if it has gone stale, called on every
// worker idle tick independent of connection activity.
func (c *berCallbacks) Idle(worker int) {
	if err := c.fw.MaybeRotateForAge(time.Now()); err != nil {
		c.logger.Warn("age-based rotation failed", "error", err)
	}
}

// decodeErrorKind maps a frameRecords error to a short label for the
// decode_errors metric.
func decodeErrorKind(err error) string {
	switch {
	case err == nil:
		return "write_failed"
	case errors.Is(err, ber.ErrInvalidTagNumber):
		return "invalid_tag_number"
	case errors.Is(err, ber.ErrInvalidLength):
		return "invalid_length"
	case errors.Is(err, ber.ErrMaxDepthExceeded):
		return "max_depth_exceeded"
	case errors.Is(err, ber.ErrMaxNestedEOCExceeded):
		return "max_nested_eoc_exceeded"
	default:
		return "other"
	}
}
