package msgpack

import (
	"encoding/binary"
	"math"
	"unicode/utf8"

	"github.com/serbuf/serbuf"
)

// Deserializer parses MessagePack from a byte buffer. Strings and
// binary blobs are handed to the visitor as subslices of the input.
// Ext values cannot be decoded but are skippable.
type Deserializer struct {
	input []byte
	index int
}

// NewDeserializer returns a Deserializer over input.
func NewDeserializer(input []byte) *Deserializer {
	return &Deserializer{input: input}
}

// End returns how many bytes remain unconsumed.
func (d *Deserializer) End() int { return len(d.input) - d.index }

// Consumed returns how many bytes have been parsed.
func (d *Deserializer) Consumed() int { return d.index }

func (d *Deserializer) peekTag() (byte, error) {
	if d.index >= len(d.input) {
		return 0, ErrUnexpectedEof
	}
	return d.input[d.index], nil
}

func (d *Deserializer) readTag() (byte, error) {
	c, err := d.peekTag()
	if err == nil {
		d.index++
	}
	return c, err
}

func (d *Deserializer) take(n int) ([]byte, error) {
	if len(d.input)-d.index < n {
		return nil, ErrUnexpectedEof
	}
	b := d.input[d.index : d.index+n]
	d.index += n
	return b, nil
}

func (d *Deserializer) readU8() (uint8, error) {
	b, err := d.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (d *Deserializer) readU16() (uint16, error) {
	b, err := d.take(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (d *Deserializer) readU32() (uint32, error) {
	b, err := d.take(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func (d *Deserializer) readU64() (uint64, error) {
	b, err := d.take(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

// readLen reads an 8, 16 or 32 bit big-endian length.
func (d *Deserializer) readLen(bits int) (int, error) {
	switch bits {
	case 8:
		n, err := d.readU8()
		return int(n), err
	case 16:
		n, err := d.readU16()
		return int(n), err
	}
	n, err := d.readU32()
	if err != nil {
		return 0, err
	}
	if uint64(n) > uint64(math.MaxInt32) {
		return 0, ErrInvalidLength
	}
	return int(n), nil
}

// readInteger consumes any integer tag. Non-negative values come back
// in u, negative ones in i with neg set.
func (d *Deserializer) readInteger() (i int64, u uint64, neg bool, err error) {
	c, err := d.readTag()
	if err != nil {
		return 0, 0, false, err
	}
	switch {
	case isPosFixint(c):
		return 0, uint64(c), false, nil
	case isNegFixint(c):
		return int64(int8(c)), 0, true, nil
	}
	switch c {
	case tagUint8:
		n, err := d.readU8()
		return 0, uint64(n), false, err
	case tagUint16:
		n, err := d.readU16()
		return 0, uint64(n), false, err
	case tagUint32:
		n, err := d.readU32()
		return 0, uint64(n), false, err
	case tagUint64:
		n, err := d.readU64()
		return 0, n, false, err
	case tagInt8:
		n, err := d.readU8()
		return signed(int64(int8(n)), err)
	case tagInt16:
		n, err := d.readU16()
		return signed(int64(int16(n)), err)
	case tagInt32:
		n, err := d.readU32()
		return signed(int64(int32(n)), err)
	case tagInt64:
		n, err := d.readU64()
		return signed(int64(n), err)
	}
	return 0, 0, false, ErrExpectedInteger
}

func signed(v int64, err error) (int64, uint64, bool, error) {
	if err != nil {
		return 0, 0, false, err
	}
	if v < 0 {
		return v, 0, true, nil
	}
	return 0, uint64(v), false, nil
}

func (d *Deserializer) decodeUnsigned(max uint64) (uint64, error) {
	_, u, neg, err := d.readInteger()
	if err != nil {
		return 0, err
	}
	if neg || u > max {
		return 0, ErrInvalidInteger
	}
	return u, nil
}

func (d *Deserializer) decodeSigned(min, max int64) (int64, error) {
	i, u, neg, err := d.readInteger()
	if err != nil {
		return 0, err
	}
	if neg {
		if i < min {
			return 0, ErrInvalidInteger
		}
		return i, nil
	}
	if u > uint64(max) {
		return 0, ErrInvalidInteger
	}
	return int64(u), nil
}

func (d *Deserializer) DecodeBool(v serbuf.Visitor) error {
	c, err := d.readTag()
	if err != nil {
		return err
	}
	switch c {
	case tagTrue:
		return v.VisitBool(true)
	case tagFalse:
		return v.VisitBool(false)
	}
	return ErrExpectedBool
}

func (d *Deserializer) DecodeInt8(v serbuf.Visitor) error {
	n, err := d.decodeSigned(math.MinInt8, math.MaxInt8)
	if err != nil {
		return err
	}
	return v.VisitInt8(int8(n))
}

func (d *Deserializer) DecodeInt16(v serbuf.Visitor) error {
	n, err := d.decodeSigned(math.MinInt16, math.MaxInt16)
	if err != nil {
		return err
	}
	return v.VisitInt16(int16(n))
}

func (d *Deserializer) DecodeInt32(v serbuf.Visitor) error {
	n, err := d.decodeSigned(math.MinInt32, math.MaxInt32)
	if err != nil {
		return err
	}
	return v.VisitInt32(int32(n))
}

func (d *Deserializer) DecodeInt64(v serbuf.Visitor) error {
	n, err := d.decodeSigned(math.MinInt64, math.MaxInt64)
	if err != nil {
		return err
	}
	return v.VisitInt64(n)
}

func (d *Deserializer) DecodeUint8(v serbuf.Visitor) error {
	n, err := d.decodeUnsigned(math.MaxUint8)
	if err != nil {
		return err
	}
	return v.VisitUint8(uint8(n))
}

func (d *Deserializer) DecodeUint16(v serbuf.Visitor) error {
	n, err := d.decodeUnsigned(math.MaxUint16)
	if err != nil {
		return err
	}
	return v.VisitUint16(uint16(n))
}

func (d *Deserializer) DecodeUint32(v serbuf.Visitor) error {
	n, err := d.decodeUnsigned(math.MaxUint32)
	if err != nil {
		return err
	}
	return v.VisitUint32(uint32(n))
}

func (d *Deserializer) DecodeUint64(v serbuf.Visitor) error {
	n, err := d.decodeUnsigned(math.MaxUint64)
	if err != nil {
		return err
	}
	return v.VisitUint64(n)
}

// decodeFloat accepts either float width, any integer and nil (NaN).
func (d *Deserializer) decodeFloat() (float64, error) {
	c, err := d.peekTag()
	if err != nil {
		return 0, err
	}
	switch c {
	case tagFloat32:
		d.index++
		bits, err := d.readU32()
		if err != nil {
			return 0, err
		}
		return float64(math.Float32frombits(bits)), nil
	case tagFloat64:
		d.index++
		bits, err := d.readU64()
		if err != nil {
			return 0, err
		}
		return math.Float64frombits(bits), nil
	case tagNil:
		d.index++
		return math.NaN(), nil
	}
	i, u, neg, err := d.readInteger()
	if err != nil {
		return 0, ErrExpectedNumber
	}
	if neg {
		return float64(i), nil
	}
	return float64(u), nil
}

func (d *Deserializer) DecodeFloat32(v serbuf.Visitor) error {
	f, err := d.decodeFloat()
	if err != nil {
		return err
	}
	return v.VisitFloat32(float32(f))
}

func (d *Deserializer) DecodeFloat64(v serbuf.Visitor) error {
	f, err := d.decodeFloat()
	if err != nil {
		return err
	}
	return v.VisitFloat64(f)
}

// strLen consumes a string header if c starts one.
func (d *Deserializer) strLen(c byte) (int, bool, error) {
	switch {
	case isFixstr(c):
		return int(c & maxFixstrLen), true, nil
	}
	switch c {
	case tagStr8:
		n, err := d.readLen(8)
		return n, true, err
	case tagStr16:
		n, err := d.readLen(16)
		return n, true, err
	case tagStr32:
		n, err := d.readLen(32)
		return n, true, err
	}
	return 0, false, nil
}

func (d *Deserializer) binLen(c byte) (int, bool, error) {
	switch c {
	case tagBin8:
		n, err := d.readLen(8)
		return n, true, err
	case tagBin16:
		n, err := d.readLen(16)
		return n, true, err
	case tagBin32:
		n, err := d.readLen(32)
		return n, true, err
	}
	return 0, false, nil
}

func (d *Deserializer) DecodeStr(v serbuf.Visitor) error {
	c, err := d.readTag()
	if err != nil {
		return err
	}
	n, ok, err := d.strLen(c)
	if err != nil {
		return err
	}
	if !ok {
		return ErrExpectedString
	}
	s, err := d.take(n)
	if err != nil {
		return err
	}
	if !utf8.Valid(s) {
		return ErrInvalidUnicodeCodePoint
	}
	return v.VisitString(s)
}

func (d *Deserializer) DecodeBytes(v serbuf.Visitor) error {
	c, err := d.readTag()
	if err != nil {
		return err
	}
	n, ok, err := d.binLen(c)
	if err != nil {
		return err
	}
	if !ok {
		// a string works as bytes too
		n, ok, err = d.strLen(c)
		if err != nil {
			return err
		}
		if !ok {
			return ErrExpectedBin
		}
	}
	b, err := d.take(n)
	if err != nil {
		return err
	}
	return v.VisitBytes(b)
}

func (d *Deserializer) DecodeOption(v serbuf.Visitor) error {
	c, err := d.peekTag()
	if err != nil {
		return err
	}
	if c == tagNil {
		d.index++
		return v.VisitNil()
	}
	return v.VisitSome(d)
}

func (d *Deserializer) DecodeNil(v serbuf.Visitor) error {
	c, err := d.readTag()
	if err != nil {
		return err
	}
	if c != tagNil {
		return ErrExpectedNil
	}
	return v.VisitNil()
}

func (d *Deserializer) arrayLen(c byte) (int, bool, error) {
	if isFixarray(c) {
		return int(c & maxFixarrayLen), true, nil
	}
	switch c {
	case tagArray16:
		n, err := d.readLen(16)
		return n, true, err
	case tagArray32:
		n, err := d.readLen(32)
		return n, true, err
	}
	return 0, false, nil
}

func (d *Deserializer) mapLen(c byte) (int, bool, error) {
	if isFixmap(c) {
		return int(c & maxFixmapLen), true, nil
	}
	switch c {
	case tagMap16:
		n, err := d.readLen(16)
		return n, true, err
	case tagMap32:
		n, err := d.readLen(32)
		return n, true, err
	}
	return 0, false, nil
}

func (d *Deserializer) DecodeSeq(v serbuf.Visitor) error {
	c, err := d.readTag()
	if err != nil {
		return err
	}
	n, ok, err := d.arrayLen(c)
	if err != nil {
		return err
	}
	if !ok {
		return ErrExpectedArray
	}
	return d.visitSeq(n, v)
}

func (d *Deserializer) visitSeq(n int, v serbuf.Visitor) error {
	a := countingSeq{d: d, n: n}
	if err := v.VisitSeq(&a); err != nil {
		return err
	}
	if a.n != 0 {
		return ErrTrailingElements
	}
	return nil
}

func (d *Deserializer) DecodeMap(v serbuf.Visitor) error {
	c, err := d.readTag()
	if err != nil {
		return err
	}
	n, ok, err := d.mapLen(c)
	if err != nil {
		return err
	}
	if !ok {
		return ErrExpectedMap
	}
	return d.visitMap(n, v)
}

func (d *Deserializer) visitMap(n int, v serbuf.Visitor) error {
	a := countingMap{d: d, n: n}
	if err := v.VisitMap(&a); err != nil {
		return err
	}
	if a.n != 0 {
		return ErrTrailingElements
	}
	return nil
}

func (d *Deserializer) DecodeStruct(fields []string, v serbuf.Visitor) error {
	c, err := d.readTag()
	if err != nil {
		return err
	}
	if n, ok, err := d.mapLen(c); err != nil {
		return err
	} else if ok {
		return d.visitMap(n, v)
	}
	if n, ok, err := d.arrayLen(c); err != nil {
		return err
	} else if ok {
		return d.visitSeq(n, v)
	}
	return ErrExpectedStruct
}

func (d *Deserializer) DecodeEnum(variants []string, v serbuf.Visitor) error {
	c, err := d.peekTag()
	if err != nil {
		return err
	}
	if isPosFixint(c) || c == tagUint8 || c == tagUint16 || c == tagUint32 || isFixstr(c) ||
		c == tagStr8 || c == tagStr16 || c == tagStr32 {
		return v.VisitVariant(&variantAccess{d: d, unit: true})
	}
	// exactly one identifier/payload pair, always a fixmap
	if c != tagFixmap|1 {
		return ErrExpectedEnum
	}
	d.index++
	return v.VisitVariant(&variantAccess{d: d})
}

func (d *Deserializer) DecodeIdentifier(v serbuf.Visitor) error {
	c, err := d.peekTag()
	if err != nil {
		return err
	}
	switch {
	case isPosFixint(c):
		d.index++
		return v.VisitUint32(uint32(c))
	case c == tagUint8:
		d.index++
		n, err := d.readU8()
		if err != nil {
			return err
		}
		return v.VisitUint32(uint32(n))
	case c == tagUint16:
		d.index++
		n, err := d.readU16()
		if err != nil {
			return err
		}
		return v.VisitUint32(uint32(n))
	case c == tagUint32:
		d.index++
		n, err := d.readU32()
		if err != nil {
			return err
		}
		return v.VisitUint32(n)
	case isFixstr(c) || c == tagStr8 || c == tagStr16 || c == tagStr32:
		return d.DecodeStr(v)
	}
	return ErrExpectedIdentifier
}

func (d *Deserializer) DecodeIgnored(v serbuf.Visitor) error {
	if err := d.Skip(); err != nil {
		return err
	}
	return v.VisitNil()
}

func (d *Deserializer) DecodeAny(v serbuf.Visitor) error {
	c, err := d.readTag()
	if err != nil {
		return err
	}
	switch {
	case isPosFixint(c):
		return v.VisitUint8(c)
	case isNegFixint(c):
		return v.VisitInt8(int8(c))
	case isFixstr(c):
		return d.anyStr(int(c&maxFixstrLen), v)
	case isFixarray(c):
		return d.visitSeq(int(c&maxFixarrayLen), v)
	case isFixmap(c):
		return d.visitMap(int(c&maxFixmapLen), v)
	}
	switch c {
	case tagNil:
		return v.VisitNil()
	case tagReserved:
		return ErrReservedCode
	case tagFalse:
		return v.VisitBool(false)
	case tagTrue:
		return v.VisitBool(true)
	case tagUint8:
		n, err := d.readU8()
		if err != nil {
			return err
		}
		return v.VisitUint8(n)
	case tagUint16:
		n, err := d.readU16()
		if err != nil {
			return err
		}
		return v.VisitUint16(n)
	case tagUint32:
		n, err := d.readU32()
		if err != nil {
			return err
		}
		return v.VisitUint32(n)
	case tagUint64:
		n, err := d.readU64()
		if err != nil {
			return err
		}
		return v.VisitUint64(n)
	case tagInt8:
		n, err := d.readU8()
		if err != nil {
			return err
		}
		return v.VisitInt8(int8(n))
	case tagInt16:
		n, err := d.readU16()
		if err != nil {
			return err
		}
		return v.VisitInt16(int16(n))
	case tagInt32:
		n, err := d.readU32()
		if err != nil {
			return err
		}
		return v.VisitInt32(int32(n))
	case tagInt64:
		n, err := d.readU64()
		if err != nil {
			return err
		}
		return v.VisitInt64(int64(n))
	case tagFloat32:
		bits, err := d.readU32()
		if err != nil {
			return err
		}
		return v.VisitFloat32(math.Float32frombits(bits))
	case tagFloat64:
		bits, err := d.readU64()
		if err != nil {
			return err
		}
		return v.VisitFloat64(math.Float64frombits(bits))
	case tagStr8, tagStr16, tagStr32:
		n, err := d.readLen(lenBits(c, tagStr8))
		if err != nil {
			return err
		}
		return d.anyStr(n, v)
	case tagBin8, tagBin16, tagBin32:
		n, err := d.readLen(lenBits(c, tagBin8))
		if err != nil {
			return err
		}
		b, err := d.take(n)
		if err != nil {
			return err
		}
		return v.VisitBytes(b)
	case tagArray16, tagArray32:
		n, err := d.readLen(lenBits16(c, tagArray16))
		if err != nil {
			return err
		}
		return d.visitSeq(n, v)
	case tagMap16, tagMap32:
		n, err := d.readLen(lenBits16(c, tagMap16))
		if err != nil {
			return err
		}
		return d.visitMap(n, v)
	}
	return ErrUnsupportedExt
}

func (d *Deserializer) anyStr(n int, v serbuf.Visitor) error {
	s, err := d.take(n)
	if err != nil {
		return err
	}
	if !utf8.Valid(s) {
		return ErrInvalidUnicodeCodePoint
	}
	return v.VisitString(s)
}

func lenBits(c, base byte) int { return 8 << (c - base) }

func lenBits16(c, base byte) int { return 16 << (c - base) }

// Skip consumes one complete message, recursing through container
// counts without interpreting the contents.
func (d *Deserializer) Skip() error {
	todo := 1
	for todo > 0 {
		todo--
		c, err := d.readTag()
		if err != nil {
			return err
		}
		switch {
		case isPosFixint(c), isNegFixint(c):
			continue
		case isFixstr(c):
			if _, err := d.take(int(c & maxFixstrLen)); err != nil {
				return err
			}
			continue
		case isFixarray(c):
			todo += int(c & maxFixarrayLen)
			continue
		case isFixmap(c):
			todo += 2 * int(c&maxFixmapLen)
			continue
		}
		switch c {
		case tagNil, tagFalse, tagTrue:
		case tagReserved:
			return ErrReservedCode
		case tagUint8, tagInt8:
			_, err = d.take(1)
		case tagUint16, tagInt16:
			_, err = d.take(2)
		case tagUint32, tagInt32, tagFloat32:
			_, err = d.take(4)
		case tagUint64, tagInt64, tagFloat64:
			_, err = d.take(8)
		case tagFixext1, tagFixext2, tagFixext4, tagFixext8, tagFixext16:
			_, err = d.take(1 + (1 << (c - tagFixext1)))
		case tagStr8, tagStr16, tagStr32:
			var n int
			if n, err = d.readLen(lenBits(c, tagStr8)); err == nil {
				_, err = d.take(n)
			}
		case tagBin8, tagBin16, tagBin32:
			var n int
			if n, err = d.readLen(lenBits(c, tagBin8)); err == nil {
				_, err = d.take(n)
			}
		case tagExt8, tagExt16, tagExt32:
			var n int
			if n, err = d.readLen(lenBits(c, tagExt8)); err == nil {
				_, err = d.take(n + 1)
			}
		case tagArray16, tagArray32:
			var n int
			if n, err = d.readLen(lenBits16(c, tagArray16)); err == nil {
				todo += n
			}
		case tagMap16, tagMap32:
			var n int
			if n, err = d.readLen(lenBits16(c, tagMap16)); err == nil {
				todo += 2 * n
			}
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// countingSeq hands out exactly the announced number of elements.
type countingSeq struct {
	d *Deserializer
	n int
}

func (a *countingSeq) NextElement(t serbuf.Target) (bool, error) {
	if a.n == 0 {
		return false, nil
	}
	a.n--
	if err := t.Decode(a.d); err != nil {
		return false, err
	}
	return true, nil
}

type countingMap struct {
	d *Deserializer
	n int
}

func (a *countingMap) NextKey(t serbuf.Target) (bool, error) {
	if a.n == 0 {
		return false, nil
	}
	a.n--
	if err := t.Decode(a.d); err != nil {
		return false, err
	}
	return true, nil
}

func (a *countingMap) NextValue(t serbuf.Target) error {
	return t.Decode(a.d)
}

type variantAccess struct {
	d    *Deserializer
	unit bool
}

func (a *variantAccess) Identifier(t serbuf.Target) error {
	return t.Decode(a.d)
}

func (a *variantAccess) Unit() error {
	if a.unit {
		return nil
	}
	c, err := a.d.readTag()
	if err != nil {
		return err
	}
	if c != tagNil {
		return ErrExpectedNil
	}
	return nil
}

func (a *variantAccess) Newtype(t serbuf.Target) error {
	if a.unit {
		return ErrExpectedEnum
	}
	return t.Decode(a.d)
}

func (a *variantAccess) Tuple(n int, v serbuf.Visitor) error {
	if a.unit {
		return ErrExpectedEnum
	}
	return a.d.DecodeSeq(v)
}

func (a *variantAccess) Struct(fields []string, v serbuf.Visitor) error {
	if a.unit {
		return ErrExpectedEnum
	}
	return a.d.DecodeStruct(fields, v)
}
