package berserver

import (
	"errors"
	"io"

	"github.com/obaber/berd/internal/ber"
)

// frameRecords scans data for complete top-level BER values, invoking
// emit with the exact bytes of each one (header through the last
// content or end-of-contents byte). It returns the number of leading
// bytes that were fully consumed into complete records, and whether
// the stream is still healthy.
//
// A false return means the decoder hit something other than a
// truncated trailing value — the caller must treat this as fatal and
// close the connection, per spec's "any other error" rule. An
// unexpected-EOF (the tail of data holds a partial record) is not an
// error here: it is reported by consumed < len(data) with ok == true,
// and the caller is expected to retain the unconsumed tail and retry
// once more bytes arrive.
func frameRecords(data []byte, emit func(record []byte) error) (consumed int, ok bool, err error) {
	dec := ber.NewDecoder(data)
	for {
		start := dec.Offset()
		v, decErr := dec.Next()
		if decErr == io.EOF {
			return start, true, nil
		}
		if errors.Is(decErr, ber.ErrUnexpectedEOF) {
			return start, true, nil
		}
		if decErr != nil {
			return start, false, decErr
		}

		record := data[start : start+v.TotalLength()]
		if emitErr := emit(record); emitErr != nil {
			return start, false, emitErr
		}
	}
}
