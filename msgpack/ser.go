package msgpack

import (
	"encoding/binary"
	"math"

	"github.com/serbuf/serbuf"
)

// Serializer writes MessagePack to a Writer. Integers and container
// headers always take the smallest encoding that holds the value. The
// compact profile writes structs as arrays and enum variants by index;
// the named profile writes structs as maps keyed by field name and
// variants by name.
type Serializer struct {
	w     serbuf.Writer
	named bool
}

// NewSerializer returns a compact-profile serializer.
func NewSerializer(w serbuf.Writer) *Serializer {
	return &Serializer{w: w}
}

// NewNamedSerializer returns a named-profile serializer.
func NewNamedSerializer(w serbuf.Writer) *Serializer {
	return &Serializer{w: w, named: true}
}

func (s *Serializer) tag8(tag byte, v uint8) error {
	var buf [2]byte
	buf[0], buf[1] = tag, v
	return s.w.Write(buf[:])
}

func (s *Serializer) tag16(tag byte, v uint16) error {
	var buf [3]byte
	buf[0] = tag
	binary.BigEndian.PutUint16(buf[1:], v)
	return s.w.Write(buf[:])
}

func (s *Serializer) tag32(tag byte, v uint32) error {
	var buf [5]byte
	buf[0] = tag
	binary.BigEndian.PutUint32(buf[1:], v)
	return s.w.Write(buf[:])
}

func (s *Serializer) tag64(tag byte, v uint64) error {
	var buf [9]byte
	buf[0] = tag
	binary.BigEndian.PutUint64(buf[1:], v)
	return s.w.Write(buf[:])
}

func (s *Serializer) EncodeBool(v bool) error {
	if v {
		return s.w.WriteByte(tagTrue)
	}
	return s.w.WriteByte(tagFalse)
}

func (s *Serializer) EncodeNil() error { return s.w.WriteByte(tagNil) }

// writeInt picks the narrowest signed or unsigned encoding.
func (s *Serializer) writeInt(v int64) error {
	switch {
	case v >= minNegFixint && v <= maxPosFixint:
		return s.w.WriteByte(byte(v))
	case v >= math.MinInt8 && v < minNegFixint:
		return s.tag8(tagInt8, uint8(v))
	case v > maxPosFixint && v <= math.MaxUint8:
		return s.tag8(tagUint8, uint8(v))
	case v >= math.MinInt16 && v <= math.MaxInt16:
		return s.tag16(tagInt16, uint16(v))
	case v > 0 && v <= math.MaxUint16:
		return s.tag16(tagUint16, uint16(v))
	case v >= math.MinInt32 && v <= math.MaxInt32:
		return s.tag32(tagInt32, uint32(v))
	case v > 0 && v <= math.MaxUint32:
		return s.tag32(tagUint32, uint32(v))
	}
	return s.tag64(tagInt64, uint64(v))
}

func (s *Serializer) writeUint(v uint64) error {
	switch {
	case v <= maxPosFixint:
		return s.w.WriteByte(byte(v))
	case v <= math.MaxUint8:
		return s.tag8(tagUint8, uint8(v))
	case v <= math.MaxUint16:
		return s.tag16(tagUint16, uint16(v))
	case v <= math.MaxUint32:
		return s.tag32(tagUint32, uint32(v))
	}
	return s.tag64(tagUint64, v)
}

func (s *Serializer) EncodeInt8(v int8) error   { return s.writeInt(int64(v)) }
func (s *Serializer) EncodeInt16(v int16) error { return s.writeInt(int64(v)) }
func (s *Serializer) EncodeInt32(v int32) error { return s.writeInt(int64(v)) }
func (s *Serializer) EncodeInt64(v int64) error { return s.writeInt(v) }

func (s *Serializer) EncodeUint8(v uint8) error   { return s.writeUint(uint64(v)) }
func (s *Serializer) EncodeUint16(v uint16) error { return s.writeUint(uint64(v)) }
func (s *Serializer) EncodeUint32(v uint32) error { return s.writeUint(uint64(v)) }
func (s *Serializer) EncodeUint64(v uint64) error { return s.writeUint(v) }

func (s *Serializer) EncodeFloat32(v float32) error {
	return s.tag32(tagFloat32, math.Float32bits(v))
}

func (s *Serializer) EncodeFloat64(v float64) error {
	return s.tag64(tagFloat64, math.Float64bits(v))
}

func (s *Serializer) strHead(n int) error {
	switch {
	case n <= maxFixstrLen:
		return s.w.WriteByte(tagFixstr | byte(n))
	case n <= math.MaxUint8:
		return s.tag8(tagStr8, uint8(n))
	case n <= math.MaxUint16:
		return s.tag16(tagStr16, uint16(n))
	case int64(n) <= math.MaxUint32:
		return s.tag32(tagStr32, uint32(n))
	}
	return ErrInvalidLength
}

func (s *Serializer) EncodeString(v string) error {
	if err := s.strHead(len(v)); err != nil {
		return err
	}
	return s.w.WriteString(v)
}

func (s *Serializer) EncodeBytes(b []byte) error {
	n := len(b)
	switch {
	case n <= math.MaxUint8:
		if err := s.tag8(tagBin8, uint8(n)); err != nil {
			return err
		}
	case n <= math.MaxUint16:
		if err := s.tag16(tagBin16, uint16(n)); err != nil {
			return err
		}
	case int64(n) <= math.MaxUint32:
		if err := s.tag32(tagBin32, uint32(n)); err != nil {
			return err
		}
	default:
		return ErrInvalidLength
	}
	return s.w.Write(b)
}

func (s *Serializer) arrayHead(n int) error {
	switch {
	case n <= maxFixarrayLen:
		return s.w.WriteByte(tagFixarray | byte(n))
	case n <= math.MaxUint16:
		return s.tag16(tagArray16, uint16(n))
	case int64(n) <= math.MaxUint32:
		return s.tag32(tagArray32, uint32(n))
	}
	return ErrInvalidLength
}

func (s *Serializer) mapHead(n int) error {
	switch {
	case n <= maxFixmapLen:
		return s.w.WriteByte(tagFixmap | byte(n))
	case n <= math.MaxUint16:
		return s.tag16(tagMap16, uint16(n))
	case int64(n) <= math.MaxUint32:
		return s.tag32(tagMap32, uint32(n))
	}
	return ErrInvalidLength
}

func (s *Serializer) EncodeSeq(n int) (serbuf.SeqEncoder, error) {
	if err := s.arrayHead(n); err != nil {
		return nil, err
	}
	return seqState{s}, nil
}

func (s *Serializer) EncodeMap(n int) (serbuf.MapEncoder, error) {
	if err := s.mapHead(n); err != nil {
		return nil, err
	}
	return mapState{s}, nil
}

func (s *Serializer) EncodeStruct(name string, n int) (serbuf.StructEncoder, error) {
	if s.named {
		if err := s.mapHead(n); err != nil {
			return nil, err
		}
	} else {
		if err := s.arrayHead(n); err != nil {
			return nil, err
		}
	}
	return structState{s}, nil
}

func (s *Serializer) variantHead(index uint32, variant string) error {
	if err := s.w.WriteByte(tagFixmap | 1); err != nil {
		return err
	}
	return s.variantIdent(index, variant)
}

func (s *Serializer) variantIdent(index uint32, variant string) error {
	if s.named {
		return s.EncodeString(variant)
	}
	return s.writeUint(uint64(index))
}

func (s *Serializer) EncodeUnitVariant(name string, index uint32, variant string) error {
	return s.variantIdent(index, variant)
}

func (s *Serializer) EncodeNewtypeVariant(name string, index uint32, variant string, v serbuf.Value) error {
	if err := s.variantHead(index, variant); err != nil {
		return err
	}
	return v.Encode(s)
}

func (s *Serializer) EncodeTupleVariant(name string, index uint32, variant string, n int) (serbuf.SeqEncoder, error) {
	if err := s.variantHead(index, variant); err != nil {
		return nil, err
	}
	return s.EncodeSeq(n)
}

func (s *Serializer) EncodeStructVariant(name string, index uint32, variant string, n int) (serbuf.StructEncoder, error) {
	if err := s.variantHead(index, variant); err != nil {
		return nil, err
	}
	return s.EncodeStruct(name, n)
}

// Container lengths are written up front, so the element states carry
// no bookkeeping.
type seqState struct{ s *Serializer }

func (q seqState) EncodeElement(v serbuf.Value) error { return v.Encode(q.s) }
func (q seqState) End() error                         { return nil }

type mapState struct{ s *Serializer }

func (m mapState) EncodeKey(v serbuf.Value) error   { return v.Encode(m.s) }
func (m mapState) EncodeValue(v serbuf.Value) error { return v.Encode(m.s) }
func (m mapState) End() error                       { return nil }

type structState struct{ s *Serializer }

func (t structState) EncodeField(name string, v serbuf.Value) error {
	if t.s.named {
		if err := t.s.EncodeString(name); err != nil {
			return err
		}
	}
	return v.Encode(t.s)
}

func (t structState) End() error { return nil }
