package ber

import (
	"time"
)

// Value is a borrowed view of one parsed TLV. It does not own its bytes:
// Contents() points into the slice the Decoder was constructed with (or,
// after EnterConstructed, into that slice's parent), and is only valid for
// as long as that backing array is unmodified.
type Value struct {
	class       Class
	number      uint32
	constructed bool
	contents    []byte
	totalLength int
}

// Class returns the value's tag class.
func (v Value) Class() Class { return v.class }

// Number returns the value's tag number.
func (v Value) Number() uint32 { return v.number }

// IsConstructed reports whether the constructed bit was set on the
// identifier octet.
func (v Value) IsConstructed() bool { return v.constructed }

// Contents returns the value's content octets. For a constructed value
// this is the region EnterConstructed will descend into; it never includes
// a trailing end-of-contents marker, even when the original encoding used
// indefinite length.
func (v Value) Contents() []byte { return v.contents }

// ContentsLength returns len(Contents()).
func (v Value) ContentsLength() int { return len(v.contents) }

// TotalLength returns the number of bytes this value occupied in the
// buffer it was parsed from, including its header and, for an
// indefinite-length encoding, its end-of-contents terminator.
func (v Value) TotalLength() int { return v.totalLength }

// IsUniversal reports whether the value's class is Universal and its
// number matches t.
func (v Value) IsUniversal(t UniversalTag) bool {
	return v.class == ClassUniversal && v.number == uint32(t)
}

// Boolean decodes the value as a BER BOOLEAN. Per X.690, FALSE is encoded
// as the single octet 0x00 and TRUE as any other single octet.
func (v Value) Boolean() (bool, error) {
	if len(v.contents) != 1 {
		return false, ErrInvalidBoolean
	}
	return v.contents[0] != 0x00, nil
}

// Integer decodes the value as a BER INTEGER: two's-complement big-endian,
// 1 to 8 content octets, sign-extended into an int64.
func (v Value) Integer() (int64, error) {
	return decodeSignedInteger(v.contents)
}

// Enumerated decodes the value as a BER ENUMERATED, which shares INTEGER's
// encoding.
func (v Value) Enumerated() (int64, error) {
	return decodeSignedInteger(v.contents)
}

func decodeSignedInteger(b []byte) (int64, error) {
	if len(b) < 1 || len(b) > 8 {
		return 0, ErrInvalidInteger
	}
	var out int64
	if b[0]&0x80 != 0 {
		out = -1
	}
	for _, c := range b {
		out = (out << 8) | int64(c)
	}
	return out, nil
}

// Null validates the value as a BER NULL, whose content must be empty.
func (v Value) Null() error {
	if len(v.contents) != 0 {
		return ErrInvalidNull
	}
	return nil
}

// OID decodes the value as a BER OBJECT IDENTIFIER, returning its
// components. The first octet yields the first two components
// (floor(b0/40), b0 mod 40); remaining octets are base-128 septets with
// the continuation bit (0x80) set on all but the last octet of each
// component. At most 64 components are accepted, and each component is
// bounded to 32 bits.
func (v Value) OID() ([]uint32, error) {
	b := v.contents
	if len(b) < 1 {
		return nil, ErrInvalidOID
	}
	first := uint32(b[0])
	c0 := first / 40
	c1 := first % 40
	if len(b) == 1 {
		// Lenient: a single content octet is accepted even if its high
		// bit is set, since there are no further octets it could be
		// continuing into.
		return []uint32{c0, c1}, nil
	}

	components := []uint32{c0, c1}
	var cur uint32
	pending := false
	for _, o := range b[1:] {
		if cur > (0xFFFFFFFF >> 7) {
			return nil, ErrInvalidOID
		}
		cur = (cur << 7) | uint32(o&0x7F)
		pending = true
		if o&0x80 == 0 {
			components = append(components, cur)
			if len(components) > 64 {
				return nil, ErrInvalidOID
			}
			cur = 0
			pending = false
		}
	}
	if pending {
		// Last octet of the contents still had its continuation bit set.
		return nil, ErrInvalidOID
	}
	return components, nil
}

// UTCTime decodes the value as a BER UTCTime: exactly 13 ASCII bytes in
// the pattern YYMMDDHHMMSSZ. YY >= 70 maps to 19YY, otherwise 20YY. The
// result is the equivalent instant in UTC.
func (v Value) UTCTime() (time.Time, error) {
	b := v.contents
	if len(b) != 13 || b[12] != 'Z' {
		return time.Time{}, ErrInvalidUTCTime
	}
	yy, ok0 := parseDigits(b[0:2])
	mm, ok1 := parseDigits(b[2:4])
	dd, ok2 := parseDigits(b[4:6])
	hh, ok3 := parseDigits(b[6:8])
	mi, ok4 := parseDigits(b[8:10])
	ss, ok5 := parseDigits(b[10:12])
	if !(ok0 && ok1 && ok2 && ok3 && ok4 && ok5) {
		return time.Time{}, ErrInvalidUTCTime
	}
	year := yy + 1900
	if yy < 70 {
		year = yy + 2000
	}
	if err := validateCivilTime(mm, dd, hh, mi, ss); err != nil {
		return time.Time{}, ErrInvalidUTCTime
	}
	return time.Date(year, time.Month(mm), dd, hh, mi, ss, 0, time.UTC), nil
}

// GeneralizedTime decodes the value as a BER GeneralizedTime: 15 to 22
// ASCII bytes in the pattern YYYYMMDDHHMMSS[.ffffff]Z. The optional
// fractional-seconds section holds 1 to 6 digits, which scale into
// microseconds (the first digit is worth 100000 microseconds). The result
// is the equivalent instant in UTC.
func (v Value) GeneralizedTime() (time.Time, error) {
	b := v.contents
	if len(b) < 15 || len(b) > 22 || b[len(b)-1] != 'Z' {
		return time.Time{}, ErrInvalidGeneralizedTime
	}
	year, ok0 := parseDigitsN(b[0:4])
	mm, ok1 := parseDigits(b[4:6])
	dd, ok2 := parseDigits(b[6:8])
	hh, ok3 := parseDigits(b[8:10])
	mi, ok4 := parseDigits(b[10:12])
	ss, ok5 := parseDigits(b[12:14])
	if !(ok0 && ok1 && ok2 && ok3 && ok4 && ok5) {
		return time.Time{}, ErrInvalidGeneralizedTime
	}
	if year < 1900 {
		return time.Time{}, ErrInvalidGeneralizedTime
	}
	if err := validateCivilTime(mm, dd, hh, mi, ss); err != nil {
		return time.Time{}, ErrInvalidGeneralizedTime
	}

	micros := 0
	if len(b) > 15 {
		frac := b[14 : len(b)-1]
		if len(frac) < 2 || frac[0] != '.' {
			return time.Time{}, ErrInvalidGeneralizedTime
		}
		digits := frac[1:]
		if len(digits) < 1 || len(digits) > 6 {
			return time.Time{}, ErrInvalidGeneralizedTime
		}
		scale := 100000
		for _, c := range digits {
			if c < '0' || c > '9' {
				return time.Time{}, ErrInvalidGeneralizedTime
			}
			micros += int(c-'0') * scale
			scale /= 10
		}
	}
	return time.Date(year, time.Month(mm), dd, hh, mi, ss, micros*1000, time.UTC), nil
}

func parseDigits(b []byte) (int, bool) {
	if len(b) != 2 {
		return 0, false
	}
	if b[0] < '0' || b[0] > '9' || b[1] < '0' || b[1] > '9' {
		return 0, false
	}
	return int(b[0]-'0')*10 + int(b[1]-'0'), true
}

func parseDigitsN(b []byte) (int, bool) {
	n := 0
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}

func validateCivilTime(mm, dd, hh, mi, ss int) error {
	if mm < 1 || mm > 12 {
		return ErrInvalidTimeRange
	}
	if dd < 1 || dd > 31 {
		return ErrInvalidTimeRange
	}
	if hh < 0 || hh > 23 {
		return ErrInvalidTimeRange
	}
	if mi < 0 || mi > 59 {
		return ErrInvalidTimeRange
	}
	if ss < 0 || ss > 59 {
		return ErrInvalidTimeRange
	}
	return nil
}
