// Package ingest implements the TCP ingest path: binding listeners,
// pooling connections, and running the worker goroutines that read
// accepted connections and hand arriving bytes to a Callbacks
// implementation (the BER framer lives one layer up, in berserver).
//
// The original design is an epoll-based event loop shared by all
// listener and connection file descriptors on a single OS thread per
// worker. Go's netpoller already multiplexes blocking reads onto a
// small number of OS threads, so each worker here is instead a
// goroutine-per-listener accept loop plus a goroutine-per-connection
// read loop, supervised by an errgroup.Group. The observable behavior
// — per-worker isolation, bounded connection pools, a 250ms idle tick
// — is unchanged; only the mechanism is idiomatic Go.
package ingest
