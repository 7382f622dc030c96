package serbuf

// The construction protocol. A format's Decoder parses exactly one wire
// value per Decode* call and hands the result to the caller's Visitor;
// a format's Encoder receives values through the symmetric Encode* calls.
// Targets and Values bridge the two directions for concrete Go types.

// Target describes a value to be built from the wire. Decode must call
// exactly one Decode* entry point on d.
type Target interface {
	Decode(d Decoder) error
}

// Value describes a value to be written to the wire. Encode must call
// exactly one Encode* entry point on e.
type Value interface {
	Encode(e Encoder) error
}

// Decoder is implemented by the wire-format deserializers. Each entry
// point consumes one complete wire value, validates its syntax and
// invokes exactly one callback on v. The requested shape is a hint: a
// format may coerce (msgpack widens integers losslessly) or reject with
// its own type error.
type Decoder interface {
	DecodeAny(v Visitor) error
	DecodeBool(v Visitor) error
	DecodeInt8(v Visitor) error
	DecodeInt16(v Visitor) error
	DecodeInt32(v Visitor) error
	DecodeInt64(v Visitor) error
	DecodeUint8(v Visitor) error
	DecodeUint16(v Visitor) error
	DecodeUint32(v Visitor) error
	DecodeUint64(v Visitor) error
	DecodeFloat32(v Visitor) error
	DecodeFloat64(v Visitor) error
	DecodeStr(v Visitor) error
	DecodeBytes(v Visitor) error
	DecodeOption(v Visitor) error
	DecodeNil(v Visitor) error
	DecodeSeq(v Visitor) error
	DecodeMap(v Visitor) error
	DecodeStruct(fields []string, v Visitor) error
	DecodeEnum(variants []string, v Visitor) error
	DecodeIdentifier(v Visitor) error
	DecodeIgnored(v Visitor) error
}

// Visitor receives the value a Decoder parsed. String and byte callbacks
// borrow subslices of the input buffer; they are valid until the buffer
// is reused.
type Visitor interface {
	VisitBool(v bool) error
	VisitInt8(v int8) error
	VisitInt16(v int16) error
	VisitInt32(v int32) error
	VisitInt64(v int64) error
	VisitUint8(v uint8) error
	VisitUint16(v uint16) error
	VisitUint32(v uint32) error
	VisitUint64(v uint64) error
	VisitFloat32(v float32) error
	VisitFloat64(v float64) error
	VisitString(b []byte) error
	VisitBytes(b []byte) error
	VisitNil() error
	VisitSome(d Decoder) error
	VisitSeq(a SeqAccess) error
	VisitMap(a MapAccess) error
	VisitVariant(a VariantAccess) error
}

// SeqAccess iterates the elements of one sequence. It is only valid
// inside the VisitSeq call that received it.
type SeqAccess interface {
	// NextElement decodes the next element into t, or reports false at
	// the end of the sequence.
	NextElement(t Target) (bool, error)
}

// MapAccess iterates the entries of one map. Calls must alternate
// NextKey / NextValue. It is only valid inside the VisitMap call that
// received it.
type MapAccess interface {
	NextKey(t Target) (bool, error)
	NextValue(t Target) error
}

// VariantAccess decodes one enum value: first Identifier, then exactly
// one of Unit, Newtype, Tuple or Struct for the payload.
type VariantAccess interface {
	Identifier(t Target) error
	Unit() error
	Newtype(t Target) error
	Tuple(n int, v Visitor) error
	Struct(fields []string, v Visitor) error
}

// Encoder is implemented by the wire-format serializers.
type Encoder interface {
	EncodeBool(v bool) error
	EncodeInt8(v int8) error
	EncodeInt16(v int16) error
	EncodeInt32(v int32) error
	EncodeInt64(v int64) error
	EncodeUint8(v uint8) error
	EncodeUint16(v uint16) error
	EncodeUint32(v uint32) error
	EncodeUint64(v uint64) error
	EncodeFloat32(v float32) error
	EncodeFloat64(v float64) error
	EncodeString(s string) error
	EncodeBytes(b []byte) error
	EncodeNil() error
	EncodeSeq(n int) (SeqEncoder, error)
	EncodeMap(n int) (MapEncoder, error)
	EncodeStruct(name string, n int) (StructEncoder, error)
	EncodeUnitVariant(name string, index uint32, variant string) error
	EncodeNewtypeVariant(name string, index uint32, variant string, v Value) error
	EncodeTupleVariant(name string, index uint32, variant string, n int) (SeqEncoder, error)
	EncodeStructVariant(name string, index uint32, variant string, n int) (StructEncoder, error)
}

// SeqEncoder writes the elements of one sequence; End closes it.
type SeqEncoder interface {
	EncodeElement(v Value) error
	End() error
}

// MapEncoder writes the entries of one map. Calls must alternate
// EncodeKey / EncodeValue.
type MapEncoder interface {
	EncodeKey(v Value) error
	EncodeValue(v Value) error
	End() error
}

// StructEncoder writes the fields of one struct.
type StructEncoder interface {
	EncodeField(name string, v Value) error
	End() error
}

// CustomError carries a free-form message through the protocol, for
// Visitors and Targets that fail for reasons the wire formats cannot
// name.
type CustomError struct{ Msg string }

func (e *CustomError) Error() string { return "serbuf: " + e.Msg }

// UnexpectedVisit is returned by BaseVisitor for callbacks the embedding
// visitor does not override.
type UnexpectedVisit struct{ Kind string }

func (e *UnexpectedVisit) Error() string { return "serbuf: unexpected " + e.Kind }

// BaseVisitor rejects every callback. Embed it to implement only the
// callbacks a Target expects.
type BaseVisitor struct{}

func (BaseVisitor) VisitBool(bool) error            { return &UnexpectedVisit{"bool"} }
func (BaseVisitor) VisitInt8(int8) error            { return &UnexpectedVisit{"int8"} }
func (BaseVisitor) VisitInt16(int16) error          { return &UnexpectedVisit{"int16"} }
func (BaseVisitor) VisitInt32(int32) error          { return &UnexpectedVisit{"int32"} }
func (BaseVisitor) VisitInt64(int64) error          { return &UnexpectedVisit{"int64"} }
func (BaseVisitor) VisitUint8(uint8) error          { return &UnexpectedVisit{"uint8"} }
func (BaseVisitor) VisitUint16(uint16) error        { return &UnexpectedVisit{"uint16"} }
func (BaseVisitor) VisitUint32(uint32) error        { return &UnexpectedVisit{"uint32"} }
func (BaseVisitor) VisitUint64(uint64) error        { return &UnexpectedVisit{"uint64"} }
func (BaseVisitor) VisitFloat32(float32) error      { return &UnexpectedVisit{"float32"} }
func (BaseVisitor) VisitFloat64(float64) error      { return &UnexpectedVisit{"float64"} }
func (BaseVisitor) VisitString([]byte) error        { return &UnexpectedVisit{"string"} }
func (BaseVisitor) VisitBytes([]byte) error         { return &UnexpectedVisit{"bytes"} }
func (BaseVisitor) VisitNil() error                 { return &UnexpectedVisit{"nil"} }
func (BaseVisitor) VisitSome(Decoder) error         { return &UnexpectedVisit{"option"} }
func (BaseVisitor) VisitSeq(SeqAccess) error        { return &UnexpectedVisit{"sequence"} }
func (BaseVisitor) VisitMap(MapAccess) error        { return &UnexpectedVisit{"map"} }
func (BaseVisitor) VisitVariant(VariantAccess) error { return &UnexpectedVisit{"variant"} }

// IgnoredTarget discards one wire value of any shape.
type IgnoredTarget struct{}

func (IgnoredTarget) Decode(d Decoder) error { return d.DecodeIgnored(nopVisitor{}) }

type nopVisitor struct{ BaseVisitor }

func (nopVisitor) VisitNil() error { return nil }
