//go:build linux || darwin

package ingest

import (
	"syscall"
)

// reusePortControl sets SO_REUSEADDR and SO_REUSEPORT on every socket
// ListenerSet opens, so independent worker goroutines can each bind the
// same port. This follows the same raw-syscall, build-tag-split idiom
// the filemap package uses for its memory mapping rather than pulling
// in a syscall wrapper library.
func reusePortControl(network, address string, c syscall.RawConn) error {
	var sockErr error
	err := c.Control(func(fd uintptr) {
		if sockErr = syscall.SetsockoptInt(int(fd), syscall.SOL_SOCKET, syscall.SO_REUSEADDR, 1); sockErr != nil {
			return
		}
		sockErr = syscall.SetsockoptInt(int(fd), syscall.SOL_SOCKET, syscall.SO_REUSEPORT, 1)
	})
	if err != nil {
		return err
	}
	return sockErr
}
