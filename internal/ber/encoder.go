package ber

import (
	"strings"
	"time"
)

// maxEncoderValues bounds the flat value array to 256 entries per encoder.
const maxEncoderValues = 256

// encValue is one entry in the encoder's flat, parent-indexed array.
// Constructed entries carry no body: their children are the subsequent
// array entries whose parent index equals this entry's own index, and
// Serialize relies on that contiguity to emit correctly nested output
// without ever walking a tree.
type encValue struct {
	tag         []byte
	length      []byte
	body        []byte // unused (nil) for constructed entries
	bodyLen     int
	parent      int
	constructed bool
	closed      bool // constructed: whether EndConstructed has run
}

func (v *encValue) totalLength() int {
	return len(v.tag) + len(v.length) + v.bodyLen
}

// Encoder accumulates a flat array of BER values and serializes them to
// definite-length wire bytes. Leaves are appended with Add*;
// StartConstructed/EndConstructed bracket a constructed value's children.
type Encoder struct {
	values        []encValue
	currentParent int
}

// NewEncoder creates an empty Encoder.
func NewEncoder() *Encoder {
	return &Encoder{currentParent: -1}
}

// Len returns the number of values appended so far (leaves plus
// constructed entries, open or closed).
func (e *Encoder) Len() int { return len(e.values) }

func (e *Encoder) appendLeaf(class Class, constructed bool, number uint32, body []byte) (int, error) {
	if len(e.values) >= maxEncoderValues {
		return -1, ErrEncoderFull
	}
	idx := len(e.values)
	e.values = append(e.values, encValue{
		tag:         encodeTag(class, constructed, number),
		length:      encodeLength(len(body)),
		body:        body,
		bodyLen:     len(body),
		parent:      e.currentParent,
		constructed: false,
		closed:      true,
	})
	return idx, nil
}

// AddBoolean appends a BOOLEAN leaf: 0xFF if true, 0x00 if false.
func (e *Encoder) AddBoolean(v bool) (int, error) {
	b := byte(0x00)
	if v {
		b = 0xFF
	}
	return e.appendLeaf(ClassUniversal, false, uint32(TagBoolean), []byte{b})
}

// AddInteger appends an INTEGER leaf using the minimal two's-complement
// big-endian octet count.
func (e *Encoder) AddInteger(v int64) (int, error) {
	return e.appendLeaf(ClassUniversal, false, uint32(TagInteger), encodeSignedInteger(v))
}

// AddEnumerated appends an ENUMERATED leaf, encoded identically to INTEGER.
func (e *Encoder) AddEnumerated(v int64) (int, error) {
	return e.appendLeaf(ClassUniversal, false, uint32(TagEnumerated), encodeSignedInteger(v))
}

// AddNull appends a NULL leaf (zero-length content).
func (e *Encoder) AddNull() (int, error) {
	return e.appendLeaf(ClassUniversal, false, uint32(TagNull), nil)
}

// AddOID appends an OBJECT IDENTIFIER leaf for the given dotted components.
func (e *Encoder) AddOID(components []uint32) (int, error) {
	body, err := encodeOID(components)
	if err != nil {
		return -1, err
	}
	return e.appendLeaf(ClassUniversal, false, uint32(TagOID), body)
}

// AddUTCTime appends a UTCTime leaf for t (converted to UTC).
func (e *Encoder) AddUTCTime(t time.Time) (int, error) {
	return e.appendLeaf(ClassUniversal, false, uint32(TagUTCTime), encodeUTCTime(t))
}

// AddGeneralizedTime appends a GeneralizedTime leaf for t (converted to
// UTC). The fraction is omitted entirely when t has no sub-second
// component, and trailing zero digits are always trimmed.
func (e *Encoder) AddGeneralizedTime(t time.Time) (int, error) {
	return e.appendLeaf(ClassUniversal, false, uint32(TagGeneralizedTime), encodeGeneralizedTime(t))
}

// AddOctetStringCopy appends an OCTET STRING leaf, taking a heap copy of
// data (the deep-copy path: the caller's slice need not outlive the call).
func (e *Encoder) AddOctetStringCopy(data []byte) (int, error) {
	return e.AddRaw(ClassUniversal, false, uint32(TagOctetString), data, true)
}

// AddOctetString appends an OCTET STRING leaf, borrowing data (the
// shallow-copy path: data must remain valid and unmodified until
// Serialize runs).
func (e *Encoder) AddOctetString(data []byte) (int, error) {
	return e.AddRaw(ClassUniversal, false, uint32(TagOctetString), data, false)
}

// AddRaw appends a leaf with an arbitrary class and tag number, using data
// verbatim as the content. The identifier's constructed bit is taken from
// constructed; either way the entry is a leaf, so data is emitted as-is and
// EndConstructed never treats it as a parent. If deepCopy is true, data is
// copied onto the heap and the caller's slice may be reused immediately;
// otherwise the encoder borrows data and the caller must keep it valid and
// unmodified until serialization.
func (e *Encoder) AddRaw(class Class, constructed bool, number uint32, data []byte, deepCopy bool) (int, error) {
	body := data
	if deepCopy {
		body = append([]byte(nil), data...)
	}
	return e.appendLeaf(class, constructed, number, body)
}

// StartConstructed appends a constructed value with no content yet and
// makes it the current parent: subsequent Add*/StartConstructed calls
// append children of it, until a matching EndConstructed.
func (e *Encoder) StartConstructed(class Class, number uint32) (int, error) {
	if len(e.values) >= maxEncoderValues {
		return -1, ErrEncoderFull
	}
	idx := len(e.values)
	e.values = append(e.values, encValue{
		tag:         encodeTag(class, true, number),
		parent:      e.currentParent,
		constructed: true,
		closed:      false,
	})
	e.currentParent = idx
	return idx, nil
}

// EndConstructed closes the constructed value at idx (as returned by
// StartConstructed), computing its length as the sum of its direct
// children's total lengths. idx must be the innermost open constructed
// value; closing out of order is reported as ErrEncoderMisuse.
func (e *Encoder) EndConstructed(idx int) error {
	if idx < 0 || idx >= len(e.values) || !e.values[idx].constructed {
		return ErrEncoderMisuse
	}
	if e.currentParent != idx || e.values[idx].closed {
		return ErrEncoderMisuse
	}

	sum := 0
	for i := idx + 1; i < len(e.values); i++ {
		if e.values[i].parent == idx {
			sum += e.values[i].totalLength()
		}
	}
	e.values[idx].bodyLen = sum
	e.values[idx].length = encodeLength(sum)
	e.values[idx].closed = true
	e.currentParent = e.values[idx].parent
	return nil
}

// Serialize emits the wire bytes for every value appended so far, in
// array order. It fails with ErrEncoderOpen if a StartConstructed has not
// been matched by EndConstructed.
func (e *Encoder) Serialize() ([]byte, error) {
	if e.currentParent != -1 {
		return nil, ErrEncoderOpen
	}
	buf := NewBuffer(0)
	for i := range e.values {
		v := &e.values[i]
		buf.Append(v.tag)
		buf.Append(v.length)
		if !v.constructed {
			buf.Append(v.body)
		}
	}
	return buf.Data(), nil
}

// encodeTag serializes a BER identifier octet (plus long-form
// continuation octets for number > 30).
func encodeTag(class Class, constructed bool, number uint32) []byte {
	first := byte(class&0x03) << 6
	if constructed {
		first |= 0x20
	}
	if number <= 30 {
		return []byte{first | byte(number)}
	}
	out := make([]byte, 1, 6)
	out[0] = first | 0x1F
	return append(out, encodeBase128(number)...)
}

// encodeBase128 encodes v as base-128 septets, continuation bit set on
// all but the last octet.
func encodeBase128(v uint32) []byte {
	if v == 0 {
		return []byte{0}
	}
	var rev []byte
	for v > 0 {
		rev = append(rev, byte(v&0x7F))
		v >>= 7
	}
	out := make([]byte, len(rev))
	for i, b := range rev {
		if i > 0 {
			b |= 0x80
		}
		out[len(rev)-1-i] = b
	}
	return out
}

// encodeLength serializes a BER length: short form for n <= 127, minimal
// big-endian long form otherwise. BER length octets are an unsigned
// magnitude, not two's complement, so no leading zero padding is ever
// needed.
func encodeLength(n int) []byte {
	if n <= maxShortFormLength {
		return []byte{byte(n)}
	}
	var rev []byte
	v := uint64(n)
	for v > 0 {
		rev = append(rev, byte(v&0xFF))
		v >>= 8
	}
	out := make([]byte, len(rev)+1)
	out[0] = lengthLongFormBit | byte(len(rev))
	for i, b := range rev {
		out[len(rev)-i] = b
	}
	return out
}

// encodeSignedInteger serializes v as the minimal two's-complement
// big-endian octet string.
func encodeSignedInteger(v int64) []byte {
	n := 1
	for n < 8 {
		lo := -(int64(1) << uint(8*n-1))
		hi := int64(1) << uint(8*n-1)
		if v >= lo && v < hi {
			break
		}
		n++
	}
	out := make([]byte, n)
	for i := n - 1; i >= 0; i-- {
		out[i] = byte(v)
		v >>= 8
	}
	return out
}

// encodeOID serializes components as BER OBJECT IDENTIFIER content. It
// mirrors OID's decode rule exactly (the first content octet folds in
// both of the first two components), so it rejects combinations that
// can't round-trip through a single first octet.
func encodeOID(components []uint32) ([]byte, error) {
	if len(components) < 2 || len(components) > 64 {
		return nil, ErrInvalidOID
	}
	c0, c1 := components[0], components[1]
	if c0 > 2 {
		return nil, ErrInvalidOID
	}
	if c1 >= 40 {
		return nil, ErrInvalidOID
	}
	first := c0*40 + c1
	if first > 255 {
		return nil, ErrInvalidOID
	}
	out := []byte{byte(first)}
	for _, v := range components[2:] {
		out = append(out, encodeBase128(v)...)
	}
	return out, nil
}

// encodeUTCTime serializes t (converted to UTC) as YYMMDDHHMMSSZ.
func encodeUTCTime(t time.Time) []byte {
	return []byte(t.UTC().Format("060102150405") + "Z")
}

// encodeGeneralizedTime serializes t (converted to UTC) as
// YYYYMMDDHHMMSS[.ffffff]Z, omitting the fraction entirely when t has no
// sub-second component and never emitting trailing zero digits.
func encodeGeneralizedTime(t time.Time) []byte {
	u := t.UTC()
	s := u.Format("20060102150405")
	if micros := u.Nanosecond() / 1000; micros > 0 {
		frac := strings.TrimRight(padMicros(micros), "0")
		s += "." + frac
	}
	return []byte(s + "Z")
}

func padMicros(micros int) string {
	const digits = "0123456789"
	out := [6]byte{}
	for i := 5; i >= 0; i-- {
		out[i] = digits[micros%10]
		micros /= 10
	}
	return string(out[:])
}
