package armor

import "github.com/serbuf/serbuf"

const base64Digits = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

// base64Rev maps an input byte to its 6-bit value, or 0xFF.
var base64Rev [256]byte

func init() {
	for i := range base64Rev {
		base64Rev[i] = 0xFF
	}
	for i := 0; i < len(base64Digits); i++ {
		base64Rev[base64Digits[i]] = byte(i)
	}
}

// EncodeBase64 writes b in the standard base64 alphabet without padding
// and returns how many '=' pads a padded form would need (0..2).
func EncodeBase64(w serbuf.Writer, b []byte) (pads int, err error) {
	for len(b) >= 3 {
		v := uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
		if err = writeQuad(w, v, 4); err != nil {
			return 0, err
		}
		b = b[3:]
	}
	switch len(b) {
	case 1:
		v := uint32(b[0]) << 16
		if err = writeQuad(w, v, 2); err != nil {
			return 0, err
		}
		return 2, nil
	case 2:
		v := uint32(b[0])<<16 | uint32(b[1])<<8
		if err = writeQuad(w, v, 3); err != nil {
			return 0, err
		}
		return 1, nil
	}
	return 0, nil
}

func writeQuad(w serbuf.Writer, v uint32, n int) error {
	for i := 0; i < n; i++ {
		if err := w.WriteByte(base64Digits[(v>>(18-6*i))&0x3F]); err != nil {
			return err
		}
	}
	return nil
}

// DecodeBase64InPlace decodes leading base64 characters of b into the
// front of b and returns the decoded and consumed lengths. Decoding
// stops at the first byte outside the alphabet; up to two trailing '='
// are consumed. A partial final group yields its whole bits only: two
// characters produce one byte, three produce two, a single character
// produces nothing. The write position never passes the read position.
func DecodeBase64InPlace(b []byte) (n, consumed int) {
	var acc uint32
	var have int
	for consumed < len(b) {
		v := base64Rev[b[consumed]]
		if v == 0xFF {
			break
		}
		acc = acc<<6 | uint32(v)
		have++
		consumed++
		if have == 4 {
			b[n] = byte(acc >> 16)
			b[n+1] = byte(acc >> 8)
			b[n+2] = byte(acc)
			n += 3
			acc, have = 0, 0
		}
	}
	switch have {
	case 2:
		b[n] = byte(acc >> 4)
		n++
	case 3:
		b[n] = byte(acc >> 10)
		b[n+1] = byte(acc >> 2)
		n += 2
	}
	for pads := 0; pads < 2 && consumed < len(b) && b[consumed] == '='; pads++ {
		consumed++
	}
	return n, consumed
}
