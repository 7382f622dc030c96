package json

import (
	"bytes"

	"github.com/serbuf/serbuf"
	"github.com/serbuf/serbuf/armor"
)

// StringDecoder turns a quoted JSON string into bytes. It is called
// with the cursor just past the opening quote and must consume through
// the closing quote, decoding in place over the input buffer.
type StringDecoder interface {
	DecodeStringBytes(d *Deserializer) ([]byte, error)
}

// PassStringDecoder returns the unescaped string content as-is.
type PassStringDecoder struct{}

func (PassStringDecoder) DecodeStringBytes(d *Deserializer) ([]byte, error) {
	return d.parseStringContent()
}

// HexStringDecoder decodes pairs of hex digits. The count must be even
// and the closing quote must immediately follow the last pair.
type HexStringDecoder struct{}

func (HexStringDecoder) DecodeStringBytes(d *Deserializer) ([]byte, error) {
	start := d.index
	n, consumed := armor.DecodeHexInPlace(d.input[start:])
	d.index = start + consumed
	if d.index >= len(d.input) {
		return nil, ErrUnexpectedEof
	}
	switch c := d.input[d.index]; {
	case c == '"':
		d.index++
		return d.input[start : start+n], nil
	default:
		if _, ok := armor.HexNibble(c); ok {
			// odd digit left over
			return nil, ErrInvalidLength
		}
		return nil, ErrUnexpectedChar
	}
}

// Base64StringDecoder decodes unpadded standard base64, tolerating up
// to two trailing '='.
type Base64StringDecoder struct{}

func (Base64StringDecoder) DecodeStringBytes(d *Deserializer) ([]byte, error) {
	start := d.index
	n, consumed := armor.DecodeBase64InPlace(d.input[start:])
	d.index = start + consumed
	if d.index >= len(d.input) {
		return nil, ErrUnexpectedEof
	}
	if d.input[d.index] != '"' {
		return nil, ErrUnexpectedChar
	}
	d.index++
	return d.input[start : start+n], nil
}

// SniffStringDecoder unescapes the string, then picks a codec from its
// prefix: "hex," and "base64," select the matching decoder for the
// rest, anything else passes through unchanged.
type SniffStringDecoder struct{}

var (
	hexPrefix    = []byte("hex,")
	base64Prefix = []byte("base64,")
)

func (SniffStringDecoder) DecodeStringBytes(d *Deserializer) ([]byte, error) {
	s, err := d.parseStringContent()
	if err != nil {
		return nil, err
	}
	switch {
	case bytes.HasPrefix(s, hexPrefix):
		tail := s[len(hexPrefix):]
		n, consumed := armor.DecodeHexInPlace(tail)
		if consumed != len(tail) {
			if consumed+1 == len(tail) {
				return nil, ErrInvalidLength
			}
			return nil, ErrUnexpectedChar
		}
		return tail[:n], nil
	case bytes.HasPrefix(s, base64Prefix):
		tail := s[len(base64Prefix):]
		n, consumed := armor.DecodeBase64InPlace(tail)
		if consumed != len(tail) {
			return nil, ErrUnexpectedChar
		}
		return tail[:n], nil
	}
	return s, nil
}

// BytesEncoder writes a byte blob through the serializer.
type BytesEncoder interface {
	EncodeBytes(s *Serializer, b []byte) error
}

// ArrayBytes writes bytes as an array of numbers.
type ArrayBytes struct{}

func (ArrayBytes) EncodeBytes(s *Serializer, b []byte) error {
	seq, err := s.EncodeSeq(len(b))
	if err != nil {
		return err
	}
	for _, c := range b {
		if err := seq.EncodeElement(byteValue(c)); err != nil {
			return err
		}
	}
	return seq.End()
}

type byteValue byte

func (v byteValue) Encode(e serbuf.Encoder) error { return e.EncodeUint8(uint8(v)) }

// HexBytes writes bytes as an uppercase hex string, after an optional
// prefix such as "hex,".
type HexBytes struct {
	Prefix string
}

func (h HexBytes) EncodeBytes(s *Serializer, b []byte) error {
	if err := s.w.WriteByte('"'); err != nil {
		return err
	}
	if h.Prefix != "" {
		if err := s.w.WriteString(h.Prefix); err != nil {
			return err
		}
	}
	if err := armor.EncodeHex(s.w, b); err != nil {
		return err
	}
	return s.w.WriteByte('"')
}

// Base64Bytes writes bytes as an unpadded base64 string, after an
// optional prefix such as "base64,".
type Base64Bytes struct {
	Prefix string
}

func (h Base64Bytes) EncodeBytes(s *Serializer, b []byte) error {
	if err := s.w.WriteByte('"'); err != nil {
		return err
	}
	if h.Prefix != "" {
		if err := s.w.WriteString(h.Prefix); err != nil {
			return err
		}
	}
	if _, err := armor.EncodeBase64(s.w, b); err != nil {
		return err
	}
	return s.w.WriteByte('"')
}

// PassBytes writes bytes verbatim, with no quoting or escaping. The
// caller is responsible for the bytes forming a valid JSON fragment;
// this is the hook for embedding pre-encoded output.
type PassBytes struct{}

func (PassBytes) EncodeBytes(s *Serializer, b []byte) error {
	return s.w.Write(b)
}

// StringBytes writes bytes as an escaped JSON string.
type StringBytes struct{}

func (StringBytes) EncodeBytes(s *Serializer, b []byte) error {
	return s.writeQuotedBytes(b)
}
