package json

import (
	"math"

	"github.com/serbuf/serbuf"
)

// keyDecoder parses object keys. Keys are always quoted; primitives
// other than strings are parsed out of the quotes, and the closing
// quote must immediately follow the parsed value.
type keyDecoder struct {
	d *Deserializer
}

// openQuote consumes the opening quote the map access already peeked.
func (k *keyDecoder) openQuote() error {
	c, err := k.d.peekSkipWS()
	if err != nil {
		return err
	}
	if c != '"' {
		return ErrKeyMustBeAString
	}
	k.d.index++
	if k.d.index >= len(k.d.input) {
		return ErrUnexpectedEof
	}
	if isWS(k.d.input[k.d.index]) {
		return ErrInvalidType
	}
	return nil
}

func (k *keyDecoder) closeQuote() error {
	if k.d.index >= len(k.d.input) {
		return ErrUnexpectedEof
	}
	if k.d.input[k.d.index] != '"' {
		return ErrUnexpectedChar
	}
	k.d.index++
	return nil
}

func (k *keyDecoder) quotedUnsigned(max uint64) (uint64, error) {
	if err := k.openQuote(); err != nil {
		return 0, err
	}
	n, err := k.d.parseUnsigned(max)
	if err != nil {
		return 0, err
	}
	return n, k.closeQuote()
}

func (k *keyDecoder) quotedSigned(min, max int64) (int64, error) {
	if err := k.openQuote(); err != nil {
		return 0, err
	}
	n, err := k.d.parseSigned(min, max)
	if err != nil {
		return 0, err
	}
	return n, k.closeQuote()
}

func (k *keyDecoder) DecodeAny(v serbuf.Visitor) error        { return k.d.DecodeStr(v) }
func (k *keyDecoder) DecodeStr(v serbuf.Visitor) error        { return k.d.DecodeStr(v) }
func (k *keyDecoder) DecodeIdentifier(v serbuf.Visitor) error { return k.d.DecodeStr(v) }

func (k *keyDecoder) DecodeIgnored(v serbuf.Visitor) error { return k.d.DecodeIgnored(v) }

func (k *keyDecoder) DecodeBool(v serbuf.Visitor) error {
	if err := k.openQuote(); err != nil {
		return err
	}
	b, err := k.d.parseBool()
	if err != nil {
		return err
	}
	if err := k.closeQuote(); err != nil {
		return err
	}
	return v.VisitBool(b)
}

func (k *keyDecoder) DecodeInt8(v serbuf.Visitor) error {
	n, err := k.quotedSigned(math.MinInt8, math.MaxInt8)
	if err != nil {
		return err
	}
	return v.VisitInt8(int8(n))
}

func (k *keyDecoder) DecodeInt16(v serbuf.Visitor) error {
	n, err := k.quotedSigned(math.MinInt16, math.MaxInt16)
	if err != nil {
		return err
	}
	return v.VisitInt16(int16(n))
}

func (k *keyDecoder) DecodeInt32(v serbuf.Visitor) error {
	n, err := k.quotedSigned(math.MinInt32, math.MaxInt32)
	if err != nil {
		return err
	}
	return v.VisitInt32(int32(n))
}

func (k *keyDecoder) DecodeInt64(v serbuf.Visitor) error {
	n, err := k.quotedSigned(math.MinInt64, math.MaxInt64)
	if err != nil {
		return err
	}
	return v.VisitInt64(n)
}

func (k *keyDecoder) DecodeUint8(v serbuf.Visitor) error {
	n, err := k.quotedUnsigned(math.MaxUint8)
	if err != nil {
		return err
	}
	return v.VisitUint8(uint8(n))
}

func (k *keyDecoder) DecodeUint16(v serbuf.Visitor) error {
	n, err := k.quotedUnsigned(math.MaxUint16)
	if err != nil {
		return err
	}
	return v.VisitUint16(uint16(n))
}

func (k *keyDecoder) DecodeUint32(v serbuf.Visitor) error {
	n, err := k.quotedUnsigned(math.MaxUint32)
	if err != nil {
		return err
	}
	return v.VisitUint32(uint32(n))
}

func (k *keyDecoder) DecodeUint64(v serbuf.Visitor) error {
	n, err := k.quotedUnsigned(math.MaxUint64)
	if err != nil {
		return err
	}
	return v.VisitUint64(n)
}

func (k *keyDecoder) DecodeFloat32(v serbuf.Visitor) error { return ErrKeyMustBeAString }
func (k *keyDecoder) DecodeFloat64(v serbuf.Visitor) error { return ErrKeyMustBeAString }
func (k *keyDecoder) DecodeBytes(v serbuf.Visitor) error   { return ErrKeyMustBeAString }
func (k *keyDecoder) DecodeOption(v serbuf.Visitor) error  { return ErrKeyMustBeAString }
func (k *keyDecoder) DecodeNil(v serbuf.Visitor) error     { return ErrKeyMustBeAString }
func (k *keyDecoder) DecodeSeq(v serbuf.Visitor) error     { return ErrKeyMustBeAString }
func (k *keyDecoder) DecodeMap(v serbuf.Visitor) error     { return ErrKeyMustBeAString }

func (k *keyDecoder) DecodeStruct(fields []string, v serbuf.Visitor) error {
	return ErrKeyMustBeAString
}

func (k *keyDecoder) DecodeEnum(variants []string, v serbuf.Visitor) error {
	// unit variants are bare strings and are legal keys
	return k.d.DecodeEnum(variants, v)
}
