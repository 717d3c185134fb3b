package ber

import (
	"errors"
	"fmt"
)

// Decoder errors. These are first-class return values, not wrapped
// generic errors; callers switch on errors.Is against these sentinels.
var (
	// ErrUnexpectedEOF is returned when the buffer is truncated mid-value.
	ErrUnexpectedEOF = errors.New("ber: unexpected end of data")
	// ErrInvalidTagNumber is returned when a long-form tag number overflows
	// 32 bits.
	ErrInvalidTagNumber = errors.New("ber: invalid tag number")
	// ErrInvalidLength is returned for the reserved 0xFF length octet,
	// indefinite length on a primitive, a tag-0 non-EOC value surfacing
	// during end-of-contents lookahead, or a definite length using 5 or
	// more octets.
	ErrInvalidLength = errors.New("ber: invalid length encoding")
	// ErrMaxDepthExceeded is returned when EnterConstructed would exceed
	// the 128-frame constructed-value stack.
	ErrMaxDepthExceeded = errors.New("ber: maximum constructed nesting depth exceeded")
	// ErrMaxNestedEOCExceeded is returned when resolving an indefinite
	// length would recurse past 128 nested indefinite-length lookaheads.
	ErrMaxNestedEOCExceeded = errors.New("ber: maximum nested end-of-contents lookahead exceeded")
	// ErrNotConstructed is returned by EnterConstructed on a primitive value.
	ErrNotConstructed = errors.New("ber: value is not constructed")
	// ErrNoOpenConstructed is returned by LeaveConstructed at the top level.
	ErrNoOpenConstructed = errors.New("ber: no constructed value is open")
)

// Value decode errors. Each reports that the contents did not match the
// type's shape or range; none carry an offset since the caller already
// knows it from the Value that failed to decode.
var (
	ErrInvalidBoolean         = errors.New("ber: invalid boolean encoding")
	ErrInvalidInteger         = errors.New("ber: invalid integer encoding")
	ErrInvalidNull            = errors.New("ber: invalid null encoding")
	ErrInvalidOID             = errors.New("ber: invalid object identifier encoding")
	ErrInvalidUTCTime         = errors.New("ber: invalid UTCTime encoding")
	ErrInvalidGeneralizedTime = errors.New("ber: invalid GeneralizedTime encoding")
	ErrInvalidTimeRange       = errors.New("ber: time field out of range")
)

// Encoder errors.
var (
	ErrEncoderFull   = errors.New("ber: encoder value capacity exceeded")
	ErrEncoderMisuse = errors.New("ber: encoder misuse: mismatched Start/EndConstructed")
	ErrEncoderOpen   = errors.New("ber: serialize called with a constructed value still open")
)

// DecodeError reports a decoding failure at a specific byte offset.
type DecodeError struct {
	Offset  int    // byte offset where the error occurred
	Message string // human-readable description
	Err     error  // underlying sentinel error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ber: decode error at offset %d: %s: %v", e.Offset, e.Message, e.Err)
	}
	return fmt.Sprintf("ber: decode error at offset %d: %s", e.Offset, e.Message)
}

// Unwrap allows errors.Is/errors.As to see through to the sentinel.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// NewDecodeError creates a new DecodeError with the given parameters.
func NewDecodeError(offset int, message string, err error) *DecodeError {
	return &DecodeError{Offset: offset, Message: message, Err: err}
}
