// Package printer implements a recursive pretty-printer over a BER decoder.
package printer

import (
	"fmt"
	"io"
	"strings"

	"github.com/obaber/berd/internal/ber"
)

// defaultHexWidth matches original_source's printer.cpp dump width: 16
// bytes of hex per line with a matching ASCII gutter.
const defaultHexWidth = 16

// Printer walks a BER decoder and writes a human-readable rendering of
// every top-level value to its Writer.
type Printer struct {
	// HexWidth is the number of content bytes rendered per hex/ASCII dump
	// line. Zero means defaultHexWidth.
	HexWidth int
	// Indent is the string repeated once per nesting level. Empty means
	// two spaces.
	Indent string

	w io.Writer
}

// New creates a Printer writing to w with default formatting options.
func New(w io.Writer) *Printer {
	return &Printer{w: w}
}

func (p *Printer) hexWidth() int {
	if p.HexWidth > 0 {
		return p.HexWidth
	}
	return defaultHexWidth
}

func (p *Printer) indent() string {
	if p.Indent != "" {
		return p.Indent
	}
	return "  "
}

// Print decodes data as a sequence of top-level BER values and writes each
// one's header, body, and a footer ruler line to the Printer's Writer.
func (p *Printer) Print(data []byte) error {
	dec := ber.NewDecoder(data)
	for {
		offset := dec.Offset()
		v, err := dec.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := p.printValue(dec, v, offset, 0); err != nil {
			return err
		}
		fmt.Fprintln(p.w, strings.Repeat("-", 64))
	}
}

func (p *Printer) printValue(dec *ber.Decoder, v ber.Value, offset int, depth int) error {
	pad := strings.Repeat(p.indent(), depth)
	label := valueLabel(v)

	fmt.Fprintf(p.w, "%s[offset %d] %s %s length=%d total=%d",
		pad, offset, v.Class(), label, v.ContentsLength(), v.TotalLength())

	if v.IsConstructed() {
		fmt.Fprintln(p.w, " {")
		if err := dec.EnterConstructed(v); err != nil {
			return err
		}
		for {
			childOffset := dec.Offset()
			child, err := dec.Next()
			if err == io.EOF {
				break
			}
			if err != nil {
				return err
			}
			if err := p.printValue(dec, child, childOffset, depth+1); err != nil {
				return err
			}
		}
		if err := dec.LeaveConstructed(); err != nil {
			return err
		}
		fmt.Fprintf(p.w, "%s}\n", pad)
		return nil
	}

	fmt.Fprintln(p.w)
	if decoded := p.decodePrimitive(v); decoded != "" {
		fmt.Fprintf(p.w, "%s%svalue: %s\n", pad, p.indent(), decoded)
	}
	p.dumpASCII(v.Contents(), pad+p.indent())
	p.dumpHex(v.Contents(), pad+p.indent())
	return nil
}

func valueLabel(v ber.Value) string {
	if v.Class() == ber.ClassUniversal {
		if label := ber.UniversalTag(v.Number()).String(); label != "" {
			return label
		}
	}
	return fmt.Sprintf("tag=%d", v.Number())
}

// decodePrimitive invokes the type-specific decoder for Universal tags the
// package knows how to interpret, returning "" for anything else (raw data,
// unrecognized tag numbers, or a value whose bytes don't match its type).
func (p *Printer) decodePrimitive(v ber.Value) string {
	if v.Class() != ber.ClassUniversal {
		return ""
	}
	switch ber.UniversalTag(v.Number()) {
	case ber.TagBoolean:
		b, err := v.Boolean()
		if err != nil {
			return ""
		}
		return fmt.Sprintf("%t", b)
	case ber.TagInteger:
		n, err := v.Integer()
		if err != nil {
			return ""
		}
		return fmt.Sprintf("%d", n)
	case ber.TagEnumerated:
		n, err := v.Enumerated()
		if err != nil {
			return ""
		}
		return fmt.Sprintf("%d", n)
	case ber.TagNull:
		return "NULL"
	case ber.TagOID:
		components, err := v.OID()
		if err != nil {
			return ""
		}
		return dottedOID(components)
	case ber.TagUTCTime:
		t, err := v.UTCTime()
		if err != nil {
			return ""
		}
		return t.Format("2006-01-02 15:04:05 UTC")
	case ber.TagGeneralizedTime:
		t, err := v.GeneralizedTime()
		if err != nil {
			return ""
		}
		return t.Format("2006-01-02 15:04:05.999999 UTC")
	default:
		return ""
	}
}

func dottedOID(components []uint32) string {
	parts := make([]string, len(components))
	for i, c := range components {
		parts[i] = fmt.Sprintf("%d", c)
	}
	return strings.Join(parts, ".")
}

func (p *Printer) dumpASCII(data []byte, pad string) {
	if len(data) == 0 {
		return
	}
	width := p.hexWidth()
	var b strings.Builder
	b.WriteString(pad)
	b.WriteString("ascii: ")
	for i, c := range data {
		if i > 0 && i%width == 0 {
			b.WriteByte('\n')
			b.WriteString(pad)
			b.WriteString("       ")
		}
		if c >= 0x20 && c < 0x7F {
			b.WriteByte(c)
		} else {
			b.WriteByte('.')
		}
	}
	fmt.Fprintln(p.w, b.String())
}

func (p *Printer) dumpHex(data []byte, pad string) {
	if len(data) == 0 {
		return
	}
	width := p.hexWidth()
	for i := 0; i < len(data); i += width {
		end := i + width
		if end > len(data) {
			end = len(data)
		}
		line := data[i:end]
		hexParts := make([]string, len(line))
		for j, c := range line {
			hexParts[j] = fmt.Sprintf("%02X", c)
		}
		fmt.Fprintf(p.w, "%shex:   %s\n", pad, strings.Join(hexParts, " "))
	}
}
