// Package metrics exposes Prometheus counters and gauges for the BER
// ingest path. A nil *Registry is valid and every method on it becomes a
// no-op, so the codec, printer, and unit tests never have to construct one.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry wraps the Prometheus collectors the ingest server publishes.
type Registry struct {
	reg *prometheus.Registry

	connectionsTotal  *prometheus.CounterVec
	connectionsActive *prometheus.GaugeVec
	recordsWritten    *prometheus.CounterVec
	bytesWritten      *prometheus.CounterVec
	fileRotations     *prometheus.CounterVec
	decodeErrors      *prometheus.CounterVec
}

// New creates a Registry backed by a fresh prometheus.Registry and
// registers all of the ingest path's collectors on it.
func New() *Registry {
	reg := prometheus.NewRegistry()
	m := &Registry{
		reg: reg,
		connectionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ingest_connections_total",
			Help: "Total accepted TCP connections, by worker.",
		}, []string{"worker"}),
		connectionsActive: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "ingest_connections_active",
			Help: "Currently open TCP connections, by worker.",
		}, []string{"worker"}),
		recordsWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ingest_records_written_total",
			Help: "Total complete BER records written to disk, by worker.",
		}, []string{"worker"}),
		bytesWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ingest_bytes_written_total",
			Help: "Total bytes written to rotating files, by worker.",
		}, []string{"worker"}),
		fileRotations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ingest_file_rotations_total",
			Help: "Total file rotations, by worker and reason (size, age, shutdown).",
		}, []string{"worker", "reason"}),
		decodeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ingest_decode_errors_total",
			Help: "Total BER decode errors, by worker and error kind.",
		}, []string{"worker", "kind"}),
	}
	reg.MustRegister(
		m.connectionsTotal,
		m.connectionsActive,
		m.recordsWritten,
		m.bytesWritten,
		m.fileRotations,
		m.decodeErrors,
	)
	return m
}

// Prometheus returns the underlying registry, for wiring into
// promhttp.HandlerFor.
func (m *Registry) Prometheus() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.reg
}

func workerLabel(worker int) string { return strconv.Itoa(worker) }

// ConnectionAccepted records a newly accepted connection on worker.
func (m *Registry) ConnectionAccepted(worker int) {
	if m == nil {
		return
	}
	w := workerLabel(worker)
	m.connectionsTotal.WithLabelValues(w).Inc()
	m.connectionsActive.WithLabelValues(w).Inc()
}

// ConnectionClosed records a connection closing on worker.
func (m *Registry) ConnectionClosed(worker int) {
	if m == nil {
		return
	}
	m.connectionsActive.WithLabelValues(workerLabel(worker)).Dec()
}

// RecordWritten records one decoded top-level BER record of n bytes
// written to worker's current file.
func (m *Registry) RecordWritten(worker int, n int) {
	if m == nil {
		return
	}
	w := workerLabel(worker)
	m.recordsWritten.WithLabelValues(w).Inc()
	m.bytesWritten.WithLabelValues(w).Add(float64(n))
}

// FileRotated records a file rotation on worker, for the given reason
// ("size", "age", or "shutdown").
func (m *Registry) FileRotated(worker int, reason string) {
	if m == nil {
		return
	}
	m.fileRotations.WithLabelValues(workerLabel(worker), reason).Inc()
}

// DecodeError records a BER decode error of the given kind on worker.
func (m *Registry) DecodeError(worker int, kind string) {
	if m == nil {
		return
	}
	m.decodeErrors.WithLabelValues(workerLabel(worker), kind).Inc()
}
