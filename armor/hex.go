// Package armor implements the byte-to-text codecs the wire formats
// embed bytes with: uppercase hex and unpadded standard base64. The
// decoders work in place so callers can reuse the input buffer.
package armor

import "github.com/serbuf/serbuf"

const hexDigits = "0123456789ABCDEF"

// EncodeHex writes b as uppercase hex pairs.
func EncodeHex(w serbuf.Writer, b []byte) error {
	for _, c := range b {
		if err := w.WriteByte(hexDigits[c>>4]); err != nil {
			return err
		}
		if err := w.WriteByte(hexDigits[c&0x0F]); err != nil {
			return err
		}
	}
	return nil
}

// HexNibble decodes one hex digit, accepting both cases.
func HexNibble(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	}
	return 0, false
}

// DecodeHexInPlace decodes leading hex pairs of b into the front of b
// and returns the decoded and consumed lengths. Decoding stops at the
// first byte that is not a hex digit; a dangling odd digit is left
// unconsumed. The write position never passes the read position.
func DecodeHexInPlace(b []byte) (n, consumed int) {
	for consumed+1 < len(b) {
		hi, ok := HexNibble(b[consumed])
		if !ok {
			break
		}
		lo, ok := HexNibble(b[consumed+1])
		if !ok {
			break
		}
		b[n] = hi<<4 | lo
		n++
		consumed += 2
	}
	return n, consumed
}
