//go:build !linux && !darwin

package ingest

import "syscall"

// reusePortControl is a no-op on platforms (notably Windows) where
// SO_REUSEPORT either doesn't exist or has different semantics than on
// Linux/Darwin; ListenerSet still binds, it just can't share a port
// across workers there.
func reusePortControl(network, address string, c syscall.RawConn) error {
	return nil
}
