package metrics

import (
	"testing"

	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, reg *Registry, name string) float64 {
	t.Helper()
	families, err := reg.Prometheus().Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	var total float64
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, m := range f.GetMetric() {
			if m.GetCounter() != nil {
				total += m.GetCounter().GetValue()
			}
			if m.GetGauge() != nil {
				total += m.GetGauge().GetValue()
			}
		}
	}
	return total
}

func TestRegistryConnectionLifecycle(t *testing.T) {
	reg := New()
	reg.ConnectionAccepted(0)
	reg.ConnectionAccepted(0)
	reg.ConnectionClosed(0)

	if got := counterValue(t, reg, "ingest_connections_total"); got != 2 {
		t.Errorf("expected connections_total 2, got %v", got)
	}
	if got := counterValue(t, reg, "ingest_connections_active"); got != 1 {
		t.Errorf("expected connections_active 1, got %v", got)
	}
}

func TestRegistryRecordsAndBytes(t *testing.T) {
	reg := New()
	reg.RecordWritten(1, 10)
	reg.RecordWritten(1, 20)

	if got := counterValue(t, reg, "ingest_records_written_total"); got != 2 {
		t.Errorf("expected records_written_total 2, got %v", got)
	}
	if got := counterValue(t, reg, "ingest_bytes_written_total"); got != 30 {
		t.Errorf("expected bytes_written_total 30, got %v", got)
	}
}

func TestRegistryFileRotationsAndDecodeErrors(t *testing.T) {
	reg := New()
	reg.FileRotated(2, "size")
	reg.FileRotated(2, "age")
	reg.DecodeError(2, "unexpected_eof")

	if got := counterValue(t, reg, "ingest_file_rotations_total"); got != 2 {
		t.Errorf("expected file_rotations_total 2, got %v", got)
	}
	if got := counterValue(t, reg, "ingest_decode_errors_total"); got != 1 {
		t.Errorf("expected decode_errors_total 1, got %v", got)
	}
}

func TestNilRegistryIsNoOp(t *testing.T) {
	var reg *Registry
	reg.ConnectionAccepted(0)
	reg.ConnectionClosed(0)
	reg.RecordWritten(0, 100)
	reg.FileRotated(0, "size")
	reg.DecodeError(0, "invalid_length")

	if p := reg.Prometheus(); p != nil {
		t.Errorf("expected nil prometheus.Registry, got %v", p)
	}
}
