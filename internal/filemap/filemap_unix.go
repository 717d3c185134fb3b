//go:build unix || darwin || linux

package filemap

import (
	"os"
	"syscall"
)

func mapFile(f *os.File, size int64) (data []byte, handle uintptr, err error) {
	data, err = syscall.Mmap(int(f.Fd()), 0, int(size), syscall.PROT_READ, syscall.MAP_SHARED)
	return data, 0, err
}

func unmapFile(data []byte, handle uintptr) error {
	if data == nil {
		return nil
	}
	return syscall.Munmap(data)
}
