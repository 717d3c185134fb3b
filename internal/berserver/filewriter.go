package berserver

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/renameio"

	"github.com/obaber/berd/internal/logging"
	"github.com/obaber/berd/internal/metrics"
)

// RotationConfig bounds a FileWriter's output:
// 1 <= MaxFileSize <= 4*1024*1024, 1s <= MaxFileAge <= 1h.
type RotationConfig struct {
	TempDir     string
	FinalDir    string
	MaxFileSize int64
	MaxFileAge  time.Duration
}

// FileWriter owns one worker's current output file, rotating it into
// FinalDir by size (checked after every write) or by age (checked by
// the caller's idle tick). It is not safe for concurrent use; each
// Worker's Callbacks owns exactly one FileWriter.
type FileWriter struct {
	cfg    RotationConfig
	worker int
	m      *metrics.Registry
	logger logging.Logger

	pending     *renameio.PendingFile
	finalPath   string
	bytes       int64
	lastWrite   time.Time
	secondStamp string
	seqInSecond int
}

// NewFileWriter creates a FileWriter for worker, rotating completed
// files out of cfg.TempDir into cfg.FinalDir.
func NewFileWriter(worker int, cfg RotationConfig, m *metrics.Registry, l logging.Logger) *FileWriter {
	if l == nil {
		l = logging.NewNop()
	}
	return &FileWriter{cfg: cfg, worker: worker, m: m, logger: l}
}

// WriteRecord appends record to the current file, opening one lazily
// on the first call, and rotates the file if the write crosses
// MaxFileSize.
func (fw *FileWriter) WriteRecord(record []byte) error {
	if fw.pending == nil {
		if err := fw.open(); err != nil {
			return fmt.Errorf("berserver: open output file: %w", err)
		}
	}

	if _, err := fw.pending.Write(record); err != nil {
		return fmt.Errorf("berserver: write output file: %w", err)
	}
	fw.bytes += int64(len(record))
	fw.lastWrite = time.Now()
	fw.m.RecordWritten(fw.worker, len(record))

	if fw.bytes >= fw.cfg.MaxFileSize {
		return fw.rotate("size")
	}
	return nil
}

// MaybeRotateForAge closes and rotates the current file if its last
// write is older than MaxFileAge. It is a no-op when no file is open
// or the file is still fresh. Called from the worker's idle tick.
func (fw *FileWriter) MaybeRotateForAge(now time.Time) error {
	if fw.pending == nil {
		return nil
	}
	if now.Sub(fw.lastWrite) < fw.cfg.MaxFileAge {
		return nil
	}
	return fw.rotate("age")
}

// Close finalizes any open file, renaming it into FinalDir and counting
// the rotation under the "shutdown" reason. The ingest worker does not
// call it when it stops, so a file still open when the process exits
// stays in TempDir.
func (fw *FileWriter) Close() error {
	if fw.pending == nil {
		return nil
	}
	return fw.rotate("shutdown")
}

func (fw *FileWriter) open() error {
	now := time.Now().UTC()
	stamp := now.Format("20060102-150405")
	if stamp == fw.secondStamp {
		fw.seqInSecond++
	} else {
		fw.secondStamp = stamp
		fw.seqInSecond = 0
	}

	filename := fmt.Sprintf("%s-%03d-%06d.asn1", stamp, fw.worker, fw.seqInSecond)
	fw.finalPath = filepath.Join(fw.cfg.FinalDir, filename)

	pending, err := renameio.TempFile(fw.cfg.TempDir, fw.finalPath)
	if err != nil {
		return err
	}
	fw.pending = pending
	fw.bytes = 0
	fw.lastWrite = time.Now()
	return nil
}

// rotate closes the current pending file and atomically renames it
// into FinalDir. On rename failure the temp file is left in TempDir
// for manual recovery, matching spec's rename-failure policy; the
// FileWriter drops its reference either way so the next WriteRecord
// opens a new file.
func (fw *FileWriter) rotate(reason string) error {
	pending := fw.pending
	finalPath := fw.finalPath
	fw.pending = nil
	fw.finalPath = ""
	fw.bytes = 0

	if err := pending.CloseAtomicallyReplace(); err != nil {
		fw.logger.Error("file rotation failed, left in temp dir", "error", err, "worker", fw.worker, "final_path", finalPath)
		return fmt.Errorf("berserver: rotate %s: %w", finalPath, err)
	}
	fw.m.FileRotated(fw.worker, reason)
	return nil
}
