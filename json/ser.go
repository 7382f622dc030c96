package json

import (
	"math"
	"strconv"

	"github.com/serbuf/serbuf"
)

// Serializer writes JSON text to a Writer. How byte blobs are rendered
// is chosen at construction; everything else follows standard JSON with
// non-finite floats written as null.
type Serializer struct {
	w   serbuf.Writer
	enc BytesEncoder
}

// NewSerializer writes byte blobs as arrays of numbers.
func NewSerializer(w serbuf.Writer) *Serializer {
	return &Serializer{w: w, enc: ArrayBytes{}}
}

// NewSerializerWithEncoder selects how byte blobs are rendered.
func NewSerializerWithEncoder(w serbuf.Writer, enc BytesEncoder) *Serializer {
	return &Serializer{w: w, enc: enc}
}

// escapeTable names the control characters with short escapes; zero
// entries fall back to \u00XX.
var escapeTable = [32]byte{
	0x08: 'b',
	0x09: 't',
	0x0A: 'n',
	0x0C: 'f',
	0x0D: 'r',
}

func (s *Serializer) writeEscape(c byte) error {
	if err := s.w.WriteByte('\\'); err != nil {
		return err
	}
	if c == '"' || c == '\\' {
		return s.w.WriteByte(c)
	}
	if named := escapeTable[c]; named != 0 {
		return s.w.WriteByte(named)
	}
	if err := s.w.WriteString("u00"); err != nil {
		return err
	}
	if err := s.w.WriteByte(hexDigit(c >> 4)); err != nil {
		return err
	}
	return s.w.WriteByte(hexDigit(c & 0x0F))
}

func hexDigit(n byte) byte {
	if n < 10 {
		return '0' + n
	}
	return 'A' + n - 10
}

func needsEscape(c byte) bool {
	return c < 0x20 || c == '"' || c == '\\'
}

// writeQuoted writes str as a quoted JSON string, copying contiguous
// runs of clean characters in one go.
func (s *Serializer) writeQuoted(str string) error {
	if err := s.w.WriteByte('"'); err != nil {
		return err
	}
	start := 0
	for i := 0; i < len(str); i++ {
		c := str[i]
		if !needsEscape(c) {
			continue
		}
		if start < i {
			if err := s.w.WriteString(str[start:i]); err != nil {
				return err
			}
		}
		if err := s.writeEscape(c); err != nil {
			return err
		}
		start = i + 1
	}
	if start < len(str) {
		if err := s.w.WriteString(str[start:]); err != nil {
			return err
		}
	}
	return s.w.WriteByte('"')
}

func (s *Serializer) writeQuotedBytes(b []byte) error {
	if err := s.w.WriteByte('"'); err != nil {
		return err
	}
	start := 0
	for i := 0; i < len(b); i++ {
		c := b[i]
		if !needsEscape(c) {
			continue
		}
		if start < i {
			if err := s.w.Write(b[start:i]); err != nil {
				return err
			}
		}
		if err := s.writeEscape(c); err != nil {
			return err
		}
		start = i + 1
	}
	if start < len(b) {
		if err := s.w.Write(b[start:]); err != nil {
			return err
		}
	}
	return s.w.WriteByte('"')
}

func (s *Serializer) EncodeBool(v bool) error {
	if v {
		return s.w.WriteString("true")
	}
	return s.w.WriteString("false")
}

func (s *Serializer) writeInt(v int64) error {
	var buf [20]byte
	return s.w.Write(strconv.AppendInt(buf[:0], v, 10))
}

func (s *Serializer) writeUint(v uint64) error {
	var buf [20]byte
	return s.w.Write(strconv.AppendUint(buf[:0], v, 10))
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
	f := float64(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return s.w.WriteString("null")
	}
	var buf [32]byte
	return s.w.Write(strconv.AppendFloat(buf[:0], f, 'g', -1, 32))
}

func (s *Serializer) EncodeFloat64(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return s.w.WriteString("null")
	}
	var buf [32]byte
	return s.w.Write(strconv.AppendFloat(buf[:0], v, 'g', -1, 64))
}

func (s *Serializer) EncodeString(v string) error { return s.writeQuoted(v) }

func (s *Serializer) EncodeBytes(b []byte) error { return s.enc.EncodeBytes(s, b) }

func (s *Serializer) EncodeNil() error { return s.w.WriteString("null") }

func (s *Serializer) EncodeSeq(n int) (serbuf.SeqEncoder, error) {
	if err := s.w.WriteByte('['); err != nil {
		return nil, err
	}
	return &seqState{s: s, first: true}, nil
}

func (s *Serializer) EncodeMap(n int) (serbuf.MapEncoder, error) {
	if err := s.w.WriteByte('{'); err != nil {
		return nil, err
	}
	return &mapState{s: s, first: true}, nil
}

func (s *Serializer) EncodeStruct(name string, n int) (serbuf.StructEncoder, error) {
	if err := s.w.WriteByte('{'); err != nil {
		return nil, err
	}
	return &structState{s: s, first: true}, nil
}

func (s *Serializer) EncodeUnitVariant(name string, index uint32, variant string) error {
	return s.writeQuoted(variant)
}

func (s *Serializer) variantHead(variant string) error {
	if err := s.w.WriteByte('{'); err != nil {
		return err
	}
	if err := s.writeQuoted(variant); err != nil {
		return err
	}
	return s.w.WriteByte(':')
}

func (s *Serializer) EncodeNewtypeVariant(name string, index uint32, variant string, v serbuf.Value) error {
	if err := s.variantHead(variant); err != nil {
		return err
	}
	if err := v.Encode(s); err != nil {
		return err
	}
	return s.w.WriteByte('}')
}

func (s *Serializer) EncodeTupleVariant(name string, index uint32, variant string, n int) (serbuf.SeqEncoder, error) {
	if err := s.variantHead(variant); err != nil {
		return nil, err
	}
	if err := s.w.WriteByte('['); err != nil {
		return nil, err
	}
	return &seqState{s: s, first: true, variant: true}, nil
}

func (s *Serializer) EncodeStructVariant(name string, index uint32, variant string, n int) (serbuf.StructEncoder, error) {
	if err := s.variantHead(variant); err != nil {
		return nil, err
	}
	if err := s.w.WriteByte('{'); err != nil {
		return nil, err
	}
	return &structState{s: s, first: true, variant: true}, nil
}

// seqState tracks only whether the next element is the first.
type seqState struct {
	s       *Serializer
	first   bool
	variant bool
}

func (q *seqState) EncodeElement(v serbuf.Value) error {
	if !q.first {
		if err := q.s.w.WriteByte(','); err != nil {
			return err
		}
	}
	q.first = false
	return v.Encode(q.s)
}

func (q *seqState) End() error {
	if err := q.s.w.WriteByte(']'); err != nil {
		return err
	}
	if q.variant {
		return q.s.w.WriteByte('}')
	}
	return nil
}

type mapState struct {
	s     *Serializer
	first bool
}

func (m *mapState) EncodeKey(v serbuf.Value) error {
	if !m.first {
		if err := m.s.w.WriteByte(','); err != nil {
			return err
		}
	}
	m.first = false
	return v.Encode(&keyEncoder{m.s})
}

func (m *mapState) EncodeValue(v serbuf.Value) error {
	if err := m.s.w.WriteByte(':'); err != nil {
		return err
	}
	return v.Encode(m.s)
}

func (m *mapState) End() error { return m.s.w.WriteByte('}') }

type structState struct {
	s       *Serializer
	first   bool
	variant bool
}

func (t *structState) EncodeField(name string, v serbuf.Value) error {
	if !t.first {
		if err := t.s.w.WriteByte(','); err != nil {
			return err
		}
	}
	t.first = false
	if err := t.s.writeQuoted(name); err != nil {
		return err
	}
	if err := t.s.w.WriteByte(':'); err != nil {
		return err
	}
	return v.Encode(t.s)
}

func (t *structState) End() error {
	if err := t.s.w.WriteByte('}'); err != nil {
		return err
	}
	if t.variant {
		return t.s.w.WriteByte('}')
	}
	return nil
}

// keyEncoder renders primitive keys inside quotes; anything that has
// no string form is rejected.
type keyEncoder struct {
	s *Serializer
}

func (k *keyEncoder) quotedInt(v int64) error {
	if err := k.s.w.WriteByte('"'); err != nil {
		return err
	}
	if err := k.s.writeInt(v); err != nil {
		return err
	}
	return k.s.w.WriteByte('"')
}

func (k *keyEncoder) quotedUint(v uint64) error {
	if err := k.s.w.WriteByte('"'); err != nil {
		return err
	}
	if err := k.s.writeUint(v); err != nil {
		return err
	}
	return k.s.w.WriteByte('"')
}

func (k *keyEncoder) EncodeBool(v bool) error {
	if v {
		return k.s.w.WriteString(`"true"`)
	}
	return k.s.w.WriteString(`"false"`)
}

func (k *keyEncoder) EncodeInt8(v int8) error   { return k.quotedInt(int64(v)) }
func (k *keyEncoder) EncodeInt16(v int16) error { return k.quotedInt(int64(v)) }
func (k *keyEncoder) EncodeInt32(v int32) error { return k.quotedInt(int64(v)) }
func (k *keyEncoder) EncodeInt64(v int64) error { return k.quotedInt(v) }

func (k *keyEncoder) EncodeUint8(v uint8) error   { return k.quotedUint(uint64(v)) }
func (k *keyEncoder) EncodeUint16(v uint16) error { return k.quotedUint(uint64(v)) }
func (k *keyEncoder) EncodeUint32(v uint32) error { return k.quotedUint(uint64(v)) }
func (k *keyEncoder) EncodeUint64(v uint64) error { return k.quotedUint(v) }

func (k *keyEncoder) EncodeFloat32(float32) error { return ErrInvalidKeyType }
func (k *keyEncoder) EncodeFloat64(float64) error { return ErrInvalidKeyType }

func (k *keyEncoder) EncodeString(v string) error { return k.s.writeQuoted(v) }

func (k *keyEncoder) EncodeBytes([]byte) error { return ErrInvalidKeyType }
func (k *keyEncoder) EncodeNil() error         { return ErrInvalidKeyType }

func (k *keyEncoder) EncodeSeq(int) (serbuf.SeqEncoder, error) { return nil, ErrInvalidKeyType }
func (k *keyEncoder) EncodeMap(int) (serbuf.MapEncoder, error) { return nil, ErrInvalidKeyType }

func (k *keyEncoder) EncodeStruct(string, int) (serbuf.StructEncoder, error) {
	return nil, ErrInvalidKeyType
}

func (k *keyEncoder) EncodeUnitVariant(name string, index uint32, variant string) error {
	return k.s.writeQuoted(variant)
}

func (k *keyEncoder) EncodeNewtypeVariant(string, uint32, string, serbuf.Value) error {
	return ErrInvalidKeyType
}

func (k *keyEncoder) EncodeTupleVariant(string, uint32, string, int) (serbuf.SeqEncoder, error) {
	return nil, ErrInvalidKeyType
}

func (k *keyEncoder) EncodeStructVariant(string, uint32, string, int) (serbuf.StructEncoder, error) {
	return nil, ErrInvalidKeyType
}
