package berserver

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/obaber/berd/internal/metrics"
)

func newTestRotationConfig(t *testing.T) RotationConfig {
	t.Helper()
	root := t.TempDir()
	tempDir := filepath.Join(root, "temp")
	finalDir := filepath.Join(root, "final")
	if err := os.MkdirAll(tempDir, 0755); err != nil {
		t.Fatalf("MkdirAll tempDir: %v", err)
	}
	if err := os.MkdirAll(finalDir, 0755); err != nil {
		t.Fatalf("MkdirAll finalDir: %v", err)
	}
	return RotationConfig{TempDir: tempDir, FinalDir: finalDir, MaxFileSize: 8, MaxFileAge: time.Hour}
}

func finalFiles(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	return names
}

func TestFileWriterRotatesBySize(t *testing.T) {
	cfg := newTestRotationConfig(t)
	reg := metrics.New()
	fw := NewFileWriter(0, cfg, reg, nil)

	if err := fw.WriteRecord([]byte("0123456789")); err != nil {
		t.Fatalf("WriteRecord: %v", err)
	}

	files := finalFiles(t, cfg.FinalDir)
	if len(files) != 1 {
		t.Fatalf("expected 1 rotated file, got %d: %v", len(files), files)
	}

	data, err := os.ReadFile(filepath.Join(cfg.FinalDir, files[0]))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "0123456789" {
		t.Errorf("unexpected file contents: %q", data)
	}
}

func TestFileWriterRotatesByAge(t *testing.T) {
	cfg := newTestRotationConfig(t)
	cfg.MaxFileSize = 1024
	reg := metrics.New()
	fw := NewFileWriter(0, cfg, reg, nil)

	if err := fw.WriteRecord([]byte("ab")); err != nil {
		t.Fatalf("WriteRecord: %v", err)
	}
	if len(finalFiles(t, cfg.FinalDir)) != 0 {
		t.Fatal("did not expect a rotation yet")
	}

	future := time.Now().Add(2 * cfg.MaxFileAge)
	if err := fw.MaybeRotateForAge(future); err != nil {
		t.Fatalf("MaybeRotateForAge: %v", err)
	}
	if len(finalFiles(t, cfg.FinalDir)) != 1 {
		t.Fatal("expected age-based rotation to produce a file")
	}
}

func TestFileWriterAppendsMultipleRecordsBeforeRotation(t *testing.T) {
	cfg := newTestRotationConfig(t)
	cfg.MaxFileSize = 100
	reg := metrics.New()
	fw := NewFileWriter(0, cfg, reg, nil)

	for i := 0; i < 3; i++ {
		if err := fw.WriteRecord([]byte("xx")); err != nil {
			t.Fatalf("WriteRecord %d: %v", i, err)
		}
	}
	if err := fw.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	files := finalFiles(t, cfg.FinalDir)
	if len(files) != 1 {
		t.Fatalf("expected 1 file after Close, got %d", len(files))
	}
	data, err := os.ReadFile(filepath.Join(cfg.FinalDir, files[0]))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "xxxxxx" {
		t.Errorf("expected concatenated records, got %q", data)
	}
}
