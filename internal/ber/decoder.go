package ber

import "io"

// Decoder is a streaming BER parser over a byte slice. It reads successive
// top-level or sibling values with Next, and descends into constructed
// values with EnterConstructed/LeaveConstructed. The caller's backing slice
// must outlive the Decoder and every Value it produced.
type Decoder struct {
	cur    []byte
	offset int
	stack  []decoderFrame
}

type decoderFrame struct {
	data   []byte
	offset int
}

// maxConstructedDepth bounds the EnterConstructed stack, capping how
// deeply nested constructed values the decoder will follow.
const maxConstructedDepth = 128

// maxEOCLookaheadDepth bounds indefinite-length end-of-contents lookahead
// recursion, independently of maxConstructedDepth.
const maxEOCLookaheadDepth = 128

// NewDecoder creates a Decoder over data, positioned at offset 0.
func NewDecoder(data []byte) *Decoder {
	return &Decoder{cur: data}
}

// Offset returns the current read position within the innermost active
// constructed value's contents (or within the top-level buffer, if no
// constructed value is open).
func (d *Decoder) Offset() int { return d.offset }

// Remaining returns the number of unread bytes at the current nesting level.
func (d *Decoder) Remaining() int { return len(d.cur) - d.offset }

// Depth returns the number of constructed values currently entered.
func (d *Decoder) Depth() int { return len(d.stack) }

// Next reads one TLV at the current position. It returns io.EOF when the
// current nesting level has been fully consumed. On success the returned
// Value's Contents() is a borrowed slice and its TotalLength() includes
// the end-of-contents terminator for indefinite-length encodings; either
// way, the decoder's offset advances past the whole value, so a
// constructed value's children are only visited via EnterConstructed.
func (d *Decoder) Next() (Value, error) {
	if d.offset >= len(d.cur) {
		return Value{}, io.EOF
	}
	start := d.offset

	class, constructed, number, pos, err := decodeTag(d.cur, d.offset)
	if err != nil {
		return Value{}, err
	}

	length, indefinite, pos, err := decodeLength(d.cur, pos, !constructed)
	if err != nil {
		return Value{}, err
	}
	headerLen := pos - start

	var contents []byte
	var total int
	if indefinite {
		contentsLen, err := findEndOfContents(d.cur, pos, 1)
		if err != nil {
			return Value{}, err
		}
		contents = d.cur[pos : pos+contentsLen]
		total = headerLen + contentsLen + 2
	} else {
		if pos+length > len(d.cur) {
			return Value{}, NewDecodeError(start, "truncated value contents", ErrUnexpectedEOF)
		}
		contents = d.cur[pos : pos+length]
		total = headerLen + length
	}

	d.offset = start + total
	return Value{
		class:       class,
		number:      number,
		constructed: constructed,
		contents:    contents,
		totalLength: total,
	}, nil
}

// EnterConstructed descends into v's contents, which must be the value
// most recently returned by Next on this Decoder (or one of its ancestors'
// children). Subsequent calls to Next read v's children. It fails with
// ErrNotConstructed if v is primitive, or ErrMaxDepthExceeded if doing so
// would exceed the 128-frame constructed-value stack.
func (d *Decoder) EnterConstructed(v Value) error {
	if !v.constructed {
		return ErrNotConstructed
	}
	if len(d.stack) >= maxConstructedDepth {
		return ErrMaxDepthExceeded
	}
	d.stack = append(d.stack, decoderFrame{data: d.cur, offset: d.offset})
	d.cur = v.contents
	d.offset = 0
	return nil
}

// LeaveConstructed returns to the enclosing level, positioned just past
// the constructed value EnterConstructed descended into (and past its
// end-of-contents marker, for an indefinite-length encoding). It fails
// with ErrNoOpenConstructed if no constructed value is currently entered.
func (d *Decoder) LeaveConstructed() error {
	if len(d.stack) == 0 {
		return ErrNoOpenConstructed
	}
	frame := d.stack[len(d.stack)-1]
	d.stack = d.stack[:len(d.stack)-1]
	d.cur = frame.data
	d.offset = frame.offset
	return nil
}

// decodeTag parses a BER identifier octet (plus any long-form continuation
// octets) starting at pos, returning the position just past it.
func decodeTag(data []byte, pos int) (class Class, constructed bool, number uint32, newPos int, err error) {
	start := pos
	if pos >= len(data) {
		return 0, false, 0, pos, NewDecodeError(start, "cannot read tag", ErrUnexpectedEOF)
	}
	b := data[pos]
	pos++

	class = Class((b >> 6) & 0x03)
	constructed = b&0x20 != 0
	number = uint32(b & 0x1F)

	if number == 0x1F {
		// Long form: tag numbers encoded in long form below 31 are
		// tolerated, even though not canonical.
		number = 0
		for {
			if pos >= len(data) {
				return 0, false, 0, pos, NewDecodeError(start, "truncated long-form tag", ErrUnexpectedEOF)
			}
			ob := data[pos]
			pos++
			if number > (0xFFFFFFFF >> 7) {
				return 0, false, 0, pos, NewDecodeError(start, "tag number overflows 32 bits", ErrInvalidTagNumber)
			}
			number = (number << 7) | uint32(ob&0x7F)
			if ob&0x80 == 0 {
				break
			}
		}
	}
	return class, constructed, number, pos, nil
}

// decodeLength parses a BER length octet (plus any long-form continuation
// octets) starting at pos. primitive tells it whether indefinite length is
// permitted here, since that is only legal on constructed values — an
// explicit parameter rather than decoder state, since the caller already
// knows which kind of value it is decoding.
func decodeLength(data []byte, pos int, primitive bool) (length int, indefinite bool, newPos int, err error) {
	start := pos
	if pos >= len(data) {
		return 0, false, pos, NewDecodeError(start, "cannot read length", ErrUnexpectedEOF)
	}
	b := data[pos]
	pos++

	if b&lengthLongFormBit == 0 {
		return int(b), false, pos, nil
	}
	if b == 0xFF {
		return 0, false, pos, NewDecodeError(start, "reserved length octet 0xFF", ErrInvalidLength)
	}

	n := int(b & 0x7F)
	if n == 0 {
		if primitive {
			return 0, false, pos, NewDecodeError(start, "indefinite length on primitive value", ErrInvalidLength)
		}
		return 0, true, pos, nil
	}
	if n > maxLengthOctets {
		return 0, false, pos, NewDecodeError(start, "definite length uses too many octets", ErrInvalidLength)
	}
	if pos+n > len(data) {
		return 0, false, pos, NewDecodeError(start, "truncated length", ErrUnexpectedEOF)
	}

	var v uint64
	for i := 0; i < n; i++ {
		v = (v << 8) | uint64(data[pos])
		pos++
	}
	return int(v), false, pos, nil
}

// findEndOfContents resolves an indefinite-length constructed value's
// content length by scanning forward from start (the first content octet)
// through its children — recursing into any indefinite-length children —
// until it finds the 00 00 end-of-contents TLV terminating this nesting
// level. depth is the current lookahead recursion depth (the outermost
// call passes 1) and is bounded independently of the decoder's own
// EnterConstructed stack.
func findEndOfContents(data []byte, start int, depth int) (contentsLen int, err error) {
	if depth > maxEOCLookaheadDepth {
		return 0, NewDecodeError(start, "end-of-contents lookahead too deep", ErrMaxNestedEOCExceeded)
	}
	pos := start
	for {
		if pos >= len(data) {
			return 0, NewDecodeError(start, "missing end-of-contents", ErrUnexpectedEOF)
		}
		if data[pos] == 0x00 {
			if pos+1 >= len(data) {
				return 0, NewDecodeError(start, "truncated end-of-contents", ErrUnexpectedEOF)
			}
			if data[pos+1] == 0x00 {
				return pos - start, nil
			}
			return 0, NewDecodeError(pos, "reserved tag 0 with non-zero length", ErrInvalidLength)
		}

		_, constructed, _, next, err := decodeTag(data, pos)
		if err != nil {
			return 0, err
		}
		length, indefinite, next, err := decodeLength(data, next, !constructed)
		if err != nil {
			return 0, err
		}
		if indefinite {
			nested, err := findEndOfContents(data, next, depth+1)
			if err != nil {
				return 0, err
			}
			next += nested + 2
		} else {
			if next+length > len(data) {
				return 0, NewDecodeError(pos, "truncated value during end-of-contents scan", ErrUnexpectedEOF)
			}
			next += length
		}
		pos = next
	}
}
