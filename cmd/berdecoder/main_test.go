package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/obaber/berd/internal/ber"
)

func TestRunDecodesFile(t *testing.T) {
	enc := ber.NewEncoder()
	if _, err := enc.AddInteger(314); err != nil {
		t.Fatalf("AddInteger: %v", err)
	}
	data, err := enc.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	path := filepath.Join(t.TempDir(), "record.asn1")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	var stdout, stderr bytes.Buffer
	code := run([]string{path}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d (stderr: %s)", code, stderr.String())
	}
	if !bytes.Contains(stdout.Bytes(), []byte("INTEGER")) {
		t.Errorf("expected decoded output to mention INTEGER, got:\n%s", stdout.String())
	}
}

func TestRunRequiresExactlyOneArg(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run(nil, &stdout, &stderr); code != 1 {
		t.Errorf("expected exit code 1 with no args, got %d", code)
	}
	if code := run([]string{"a", "b"}, &stdout, &stderr); code != 1 {
		t.Errorf("expected exit code 1 with two args, got %d", code)
	}
}

func TestRunMissingFile(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{filepath.Join(t.TempDir(), "missing.asn1")}, &stdout, &stderr)
	if code != 1 {
		t.Errorf("expected exit code 1 for a missing file, got %d", code)
	}
}
