//go:build windows

package filemap

import (
	"os"
	"syscall"
	"unsafe"
)

var (
	modkernel32           = syscall.NewLazyDLL("kernel32.dll")
	procCreateFileMapping = modkernel32.NewProc("CreateFileMappingW")
	procMapViewOfFile     = modkernel32.NewProc("MapViewOfFile")
	procUnmapViewOfFile   = modkernel32.NewProc("UnmapViewOfFile")
)

const (
	pageReadonly = 0x02
	fileMapRead  = 0x04
)

func mapFile(f *os.File, size int64) (data []byte, handle uintptr, err error) {
	sizeLow := uint32(size)
	sizeHigh := uint32(size >> 32)

	mapHandle, _, callErr := procCreateFileMapping.Call(
		uintptr(syscall.Handle(f.Fd())),
		0,
		uintptr(pageReadonly),
		uintptr(sizeHigh),
		uintptr(sizeLow),
		0,
	)
	if mapHandle == 0 {
		return nil, 0, callErr
	}

	addr, _, callErr := procMapViewOfFile.Call(mapHandle, uintptr(fileMapRead), 0, 0, uintptr(size))
	if addr == 0 {
		syscall.CloseHandle(syscall.Handle(mapHandle))
		return nil, 0, callErr
	}

	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), size), mapHandle, nil
}

func unmapFile(data []byte, handle uintptr) error {
	if data == nil {
		return nil
	}
	addr := uintptr(unsafe.Pointer(&data[0]))
	ret, _, err := procUnmapViewOfFile.Call(addr)
	if ret == 0 {
		return err
	}
	if handle != 0 {
		syscall.CloseHandle(syscall.Handle(handle))
	}
	return nil
}
