package ingest

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
)

// BindSpec is a parsed `--bind` argument: a host and either a single
// port or a port range. A range lets a worker probe from MinPort to
// MaxPort and claim the first free one, instead of failing outright
// when a single port is already taken.
type BindSpec struct {
	Host    string
	MinPort int
	MaxPort int
}

// ParseBindSpec parses "host:port" or "host:minport-maxport".
func ParseBindSpec(s string) (BindSpec, error) {
	host, portPart, err := net.SplitHostPort(s)
	if err != nil {
		return BindSpec{}, fmt.Errorf("ingest: invalid bind address %q: %w", s, err)
	}

	if dash := strings.IndexByte(portPart, '-'); dash >= 0 {
		min, err := strconv.Atoi(portPart[:dash])
		if err != nil {
			return BindSpec{}, fmt.Errorf("ingest: invalid port range %q: %w", s, err)
		}
		max, err := strconv.Atoi(portPart[dash+1:])
		if err != nil {
			return BindSpec{}, fmt.Errorf("ingest: invalid port range %q: %w", s, err)
		}
		if min <= 0 || max < min {
			return BindSpec{}, fmt.Errorf("ingest: invalid port range %q", s)
		}
		return BindSpec{Host: host, MinPort: min, MaxPort: max}, nil
	}

	port, err := strconv.Atoi(portPart)
	if err != nil || port <= 0 {
		return BindSpec{}, fmt.Errorf("ingest: invalid port %q: %w", s, err)
	}
	return BindSpec{Host: host, MinPort: port, MaxPort: port}, nil
}

// ListenerSet binds one or more BindSpecs to *net.TCPListeners, probing
// port ranges from MinPort to MaxPort and claiming the first free port.
// Every socket it opens sets SO_REUSEPORT (where the platform supports
// it, see reuseport_unix.go/reuseport_other.go) so that independent
// workers can each bind the same port, matching spec's requirement that
// N workers on one port rely on SO_REUSEPORT semantics at the listener
// layer.
type ListenerSet struct {
	lc net.ListenConfig
}

// NewListenerSet creates a ListenerSet configured for SO_REUSEPORT binds.
func NewListenerSet() *ListenerSet {
	return &ListenerSet{lc: net.ListenConfig{Control: reusePortControl}}
}

// Bind opens one listener per spec, returning all of them. On any
// failure it closes every listener opened so far before returning the
// error, so callers never have to clean up a partial result.
func (ls *ListenerSet) Bind(ctx context.Context, specs []BindSpec) ([]net.Listener, error) {
	listeners := make([]net.Listener, 0, len(specs))
	for _, spec := range specs {
		ln, err := ls.bindOne(ctx, spec)
		if err != nil {
			for _, open := range listeners {
				open.Close()
			}
			return nil, err
		}
		listeners = append(listeners, ln)
	}
	return listeners, nil
}

func (ls *ListenerSet) bindOne(ctx context.Context, spec BindSpec) (net.Listener, error) {
	var lastErr error
	for port := spec.MinPort; port <= spec.MaxPort; port++ {
		addr := net.JoinHostPort(spec.Host, strconv.Itoa(port))
		ln, err := ls.lc.Listen(ctx, "tcp", addr)
		if err == nil {
			return ln, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("ingest: no free port in %s:%d-%d: %w", spec.Host, spec.MinPort, spec.MaxPort, lastErr)
}
