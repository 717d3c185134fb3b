// Package filemap memory-maps a single file read-only, for berdecoder's
// whole-file reads: no remapping, no write support, no page alignment
// bookkeeping — just open, map, and unmap one immutable view.
package filemap

import (
	"errors"
	"os"
)

// ErrEmptyFile is returned by Open for a zero-length file, since an
// empty mmap has nothing meaningful to map.
var ErrEmptyFile = errors.New("filemap: file is empty")

// File is a read-only memory-mapped view of a file's entire contents.
type File struct {
	f      *os.File
	data   []byte
	handle uintptr // Windows file mapping handle; unused on Unix
}

// Open maps path's entire contents read-only. The caller must call
// Close when done; Data()'s slice is invalid after that.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.Size() == 0 {
		f.Close()
		return nil, ErrEmptyFile
	}

	data, handle, err := mapFile(f, info.Size())
	if err != nil {
		f.Close()
		return nil, err
	}

	return &File{f: f, data: data, handle: handle}, nil
}

// Data returns the mapped contents. The returned slice must not be
// used after Close.
func (m *File) Data() []byte {
	return m.data
}

// Close unmaps the file and closes the underlying descriptor.
func (m *File) Close() error {
	unmapErr := unmapFile(m.data, m.handle)
	closeErr := m.f.Close()
	if unmapErr != nil {
		return unmapErr
	}
	return closeErr
}
