// Package ber implements ASN.1 BER (Basic Encoding Rules) decoding and
// encoding as specified in ITU-T X.690.
//
// The decoder is a streaming, pull-style parser: Decoder.Next reads one
// tag-length-value at the current position; constructed values are entered
// and left explicitly with EnterConstructed/LeaveConstructed rather than
// being recursively expanded, so callers control how deep to descend.
// Indefinite-length constructed values are resolved transparently: Next
// performs a bounded look-ahead for the end-of-contents marker and returns
// a value whose Contents() already excludes it, so EnterConstructed never
// needs to know whether the original encoding was definite or indefinite.
//
// The encoder builds a flat, parent-indexed array of values: leaves are
// appended with Add*, constructed values are opened with StartConstructed
// and closed with EndConstructed once their children have been appended.
// Serialize then walks the array once to produce the wire bytes. The
// encoder always emits definite-length encodings.
//
//	dec := ber.NewDecoder(data)
//	v, err := dec.Next()
//	if err != nil {
//	    // handle error
//	}
//	if v.IsConstructed() {
//	    if err := dec.EnterConstructed(v); err != nil {
//	        // handle error
//	    }
//	}
//
//	enc := ber.NewEncoder()
//	enc.AddInteger(42)
//	data, err := enc.Serialize()
//
// # References
//
//   - ITU-T X.690: ASN.1 encoding rules
package ber
