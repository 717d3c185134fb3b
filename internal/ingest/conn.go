package ingest

import (
	"net"
	"time"

	"github.com/google/uuid"

	"github.com/obaber/berd/internal/ber"
)

// Conn is a pooled connection's state: the accepted socket, its peer
// address, the aggregate read buffer the BER framer consumes, and the
// bookkeeping the idle sweep needs. A Conn is reused across its pool
// lifetime; reset clears everything but the backing buffer's capacity.
type Conn struct {
	ID           string
	Worker       int
	netConn      net.Conn
	PeerAddr     string
	Buf          *ber.Buffer
	LastActivity time.Time
}

// reset reinitializes a Conn for a freshly accepted socket. The buffer
// is cleared here, on acquisition, not on release — a released Conn
// keeps its last contents until the pool hands it out again, matching
// spec behavior that only `init` clears the buffer.
func (c *Conn) reset(worker int, nc net.Conn) {
	c.ID = uuid.NewString()
	c.Worker = worker
	c.netConn = nc
	c.PeerAddr = nc.RemoteAddr().String()
	if c.Buf == nil {
		c.Buf = ber.NewBuffer(32 * 1024)
	} else {
		c.Buf.Clear()
	}
	c.LastActivity = time.Now()
}

// Close closes the underlying socket. Safe to call more than once.
func (c *Conn) Close() error {
	if c.netConn == nil {
		return nil
	}
	err := c.netConn.Close()
	c.netConn = nil
	return err
}
