// Package berserver wires the ingest package's Callbacks interface to a
// BER decoder and a rotating file writer: every byte a worker reads is
// treated as a continuous BER stream, complete top-level records are
// appended to the worker's current output file, and the file is rotated
// by size or by age into the configured final directory.
package berserver
