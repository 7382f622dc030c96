package msgpack

import (
	"bytes"
	"encoding/hex"
	"math"
	"reflect"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/serbuf/serbuf"
)

var encodings = []struct {
	v    interface{}
	wire string
}{
	{nil, "c0"},
	{true, "c3"},
	{false, "c2"},
	{uint8(0), "00"},
	{uint8(127), "7f"},
	{uint8(128), "cc80"},
	{int8(-1), "ff"},
	{int8(-32), "e0"},
	{int8(-33), "d0df"},
	{uint32(300), "cd012c"},
	{int32(300), "d1012c"},
	{uint16(65535), "cdffff"},
	{uint32(65536), "ce00010000"},
	{int64(-2613115362782646504), "d3dbbc596c24396f18"},
	{uint64(0xdbbc596c24396f18), "cfdbbc596c24396f18"},
	{"hello", "a568656c6c6f"},
	{float32(1.5), "ca3fc00000"},
	{1.5, "cb3ff8000000000000"},
	{[]byte{1, 2, 3}, "c403010203"},
	{[]interface{}{uint8(1), uint8(2)}, "920102"},
	{map[string]interface{}{"a": uint8(1)}, "81a16101"},
}

func TestMarshal(t *testing.T) {
	for _, tc := range encodings {
		b, err := Marshal(tc.v)
		if err != nil {
			t.Errorf("marshal %#v: %s", tc.v, err)
			continue
		}
		if got := hex.EncodeToString(b); got != tc.wire {
			t.Errorf("marshal %#v: got %s want %s", tc.v, got, tc.wire)
		}
	}
}

var roundtrips = []interface{}{
	true,
	false,
	uint8(1),
	uint8(200),
	uint16(300),
	int8(-1),
	int8(-15),
	int16(-300),
	int64(-2613115362782646504),
	uint64(0xdbbc596c24396f18),
	"hello",
	"twas brillig and the slithy toves and gyre and gimble in the wabe",
	float32(2.2),
	float64(9891234567890.098),
	[]byte{0, 1, 2, 3},
	[]interface{}{uint8(0), uint8(1), uint8(2), "three"},
	map[string]interface{}{"foo": uint8(1), "bar": "baz"},
}

func TestRoundtrip(t *testing.T) {
	for _, v := range roundtrips {
		b, err := Marshal(v)
		if err != nil {
			t.Fatalf("marshal %#v: %s", v, err)
		}
		var got interface{}
		n, err := Unmarshal(b, &got)
		if err != nil {
			t.Fatalf("unmarshal %x: %s", b, err)
		}
		if n != len(b) {
			t.Errorf("unmarshal %x: consumed %d of %d", b, n, len(b))
		}
		if !reflect.DeepEqual(v, got) {
			t.Errorf("roundtrip %#v: got %s", v, spew.Sdump(got))
		}
	}
}

type point struct {
	X uint32 `serbuf:"x"`
	Y uint32 `serbuf:"y"`
	L string `serbuf:"label"`
}

func TestStructProfiles(t *testing.T) {
	in := point{X: 3, Y: 4, L: "p"}

	compact, err := Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	if got := hex.EncodeToString(compact); got != "930304a170" {
		t.Fatalf("compact: got %s", got)
	}

	named, err := MarshalNamed(in)
	if err != nil {
		t.Fatal(err)
	}
	if got := hex.EncodeToString(named); got != "83a17803a17904a56c6162656ca170" {
		t.Fatalf("named: got %s", got)
	}

	var out point
	if _, err := Unmarshal(compact, &out); err != nil {
		t.Fatal(err)
	}
	if out != in {
		t.Errorf("compact: got %#v", out)
	}

	out = point{}
	if _, err := Unmarshal(named, &out); err != nil {
		t.Fatal(err)
	}
	if out != in {
		t.Errorf("named: got %#v", out)
	}
}

func TestNamedStructToInterface(t *testing.T) {
	b, err := MarshalNamed(point{X: 1, Y: 2, L: "q"})
	if err != nil {
		t.Fatal(err)
	}
	var m interface{}
	if _, err := Unmarshal(b, &m); err != nil {
		t.Fatal(err)
	}
	want := map[string]interface{}{"x": uint8(1), "y": uint8(2), "label": "q"}
	if !reflect.DeepEqual(m, want) {
		t.Errorf("got %s", spew.Sdump(m))
	}
}

func TestIntegerCoercion(t *testing.T) {
	// uint16 wire into wider targets
	wire, _ := hex.DecodeString("cd012c")
	var u64 uint64
	if _, err := Unmarshal(wire, &u64); err != nil || u64 != 300 {
		t.Errorf("got %d, %v", u64, err)
	}
	var i32 int32
	if _, err := Unmarshal(wire, &i32); err != nil || i32 != 300 {
		t.Errorf("got %d, %v", i32, err)
	}

	// negative into unsigned fails
	wire, _ = hex.DecodeString("d0ff")
	var u8 uint8
	if _, err := Unmarshal(wire, &u8); err != ErrInvalidInteger {
		t.Errorf("got %v", err)
	}

	// out of range fails
	wire, _ = hex.DecodeString("cd0100")
	if _, err := Unmarshal(wire, &u8); err != ErrInvalidInteger {
		t.Errorf("got %v", err)
	}
}

func TestFloatCoercion(t *testing.T) {
	var f float64

	wire, _ := hex.DecodeString("ca3fc00000") // float32 1.5
	if _, err := Unmarshal(wire, &f); err != nil || f != 1.5 {
		t.Errorf("got %v, %v", f, err)
	}

	wire, _ = hex.DecodeString("d0fb") // int8 -5
	if _, err := Unmarshal(wire, &f); err != nil || f != -5 {
		t.Errorf("got %v, %v", f, err)
	}

	wire = []byte{0xC0} // nil
	if _, err := Unmarshal(wire, &f); err != nil || !math.IsNaN(f) {
		t.Errorf("got %v, %v", f, err)
	}

	var f32 float32
	wire, _ = hex.DecodeString("cb3ff8000000000000") // float64 1.5
	if _, err := Unmarshal(wire, &f32); err != nil || f32 != 1.5 {
		t.Errorf("got %v, %v", f32, err)
	}
}

func TestNegativeZeroFloat(t *testing.T) {
	b, err := Marshal(math.Copysign(0, -1))
	if err != nil {
		t.Fatal(err)
	}
	var f float64
	if _, err := Unmarshal(b, &f); err != nil {
		t.Fatal(err)
	}
	if math.Signbit(f) != true || f != 0 {
		t.Errorf("got %v", f)
	}
}

func TestReservedCode(t *testing.T) {
	var m interface{}
	if _, err := Unmarshal([]byte{0xC1}, &m); err != ErrReservedCode {
		t.Errorf("got %v", err)
	}
}

func TestExtRejectedButSkippable(t *testing.T) {
	var m interface{}
	wire := []byte{0xD4, 0x01, 0xAA} // fixext1
	if _, err := Unmarshal(wire, &m); err != ErrUnsupportedExt {
		t.Errorf("got %v", err)
	}

	d := NewDeserializer(wire)
	if err := d.Skip(); err != nil {
		t.Fatal(err)
	}
	if d.End() != 0 {
		t.Errorf("%d bytes left", d.End())
	}
}

func TestTruncated(t *testing.T) {
	b, err := Marshal(map[string]interface{}{"key": "value", "k2": []interface{}{uint8(1)}})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < len(b); i++ {
		var m interface{}
		if _, err := Unmarshal(b[:i], &m); err == nil {
			t.Errorf("no error on prefix of length %d", i)
		}
	}
}

func TestTrailingElements(t *testing.T) {
	wire, _ := hex.DecodeString("93010203") // 3 elements
	var arr [2]uint16
	if _, err := Unmarshal(wire, &arr); err != ErrTrailingElements {
		t.Errorf("got %v", err)
	}
}

func TestStreamSplitting(t *testing.T) {
	var stream []byte
	msgs := []interface{}{uint8(5), "two", []interface{}{uint8(1), uint8(2)}}
	for _, m := range msgs {
		b, err := Marshal(m)
		if err != nil {
			t.Fatal(err)
		}
		stream = append(stream, b...)
	}

	var got []interface{}
	for len(stream) > 0 {
		var m interface{}
		n, err := Unmarshal(stream, &m)
		if err != nil {
			t.Fatal(err)
		}
		got = append(got, m)
		stream = stream[n:]
	}
	if !reflect.DeepEqual(msgs, got) {
		t.Errorf("got %s", spew.Sdump(got))
	}
}

func TestSkipNested(t *testing.T) {
	b, err := Marshal(map[string]interface{}{
		"a": []interface{}{uint8(1), []byte{2, 3}, "four"},
		"b": map[string]interface{}{"c": nil},
	})
	if err != nil {
		t.Fatal(err)
	}
	d := NewDeserializer(b)
	if err := d.Skip(); err != nil {
		t.Fatal(err)
	}
	if d.End() != 0 {
		t.Errorf("%d bytes left", d.End())
	}
}

func TestInvalidUTF8String(t *testing.T) {
	wire := []byte{0xA2, 0xFF, 0xFE}
	var s string
	if _, err := Unmarshal(wire, &s); err != ErrInvalidUnicodeCodePoint {
		t.Errorf("got %v", err)
	}
}

func TestStringAsBytes(t *testing.T) {
	wire := []byte{0xA3, 'a', 'b', 'c'}
	var b []byte
	if _, err := Unmarshal(wire, &b); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(b, []byte("abc")) {
		t.Errorf("got %q", b)
	}
}

// shape is a hand-written enum exercising the variant protocol.
type shape struct {
	kind   string
	radius float64
	w, h   uint32
}

func (s shape) Encode(e serbuf.Encoder) error {
	switch s.kind {
	case "Dot":
		return e.EncodeUnitVariant("Shape", 0, "Dot")
	case "Circle":
		return e.EncodeNewtypeVariant("Shape", 1, "Circle", serbuf.ReflectValue{V: s.radius})
	}
	st, err := e.EncodeStructVariant("Shape", 2, "Rect", 2)
	if err != nil {
		return err
	}
	if err := st.EncodeField("w", serbuf.ReflectValue{V: s.w}); err != nil {
		return err
	}
	if err := st.EncodeField("h", serbuf.ReflectValue{V: s.h}); err != nil {
		return err
	}
	return st.End()
}

var shapeVariants = []string{"Dot", "Circle", "Rect"}

func (s *shape) Decode(d serbuf.Decoder) error {
	return d.DecodeEnum(shapeVariants, shapeVisitor{s: s})
}

type shapeVisitor struct {
	serbuf.BaseVisitor
	s *shape
}

// keep the literal style consistent with the encoder side
func (v shapeVisitor) VisitVariant(a serbuf.VariantAccess) error {
	var id serbuf.Identifier
	if err := a.Identifier(&id); err != nil {
		return err
	}
	name := string(id.Name)
	if id.IsIndex {
		if int(id.Index) >= len(shapeVariants) {
			return &serbuf.CustomError{Msg: "unknown variant"}
		}
		name = shapeVariants[id.Index]
	}
	v.s.kind = name
	switch name {
	case "Dot":
		return a.Unit()
	case "Circle":
		return a.Newtype(serbuf.ReflectTarget{V: &v.s.radius})
	case "Rect":
		return a.Struct([]string{"w", "h"}, rectVisitor{s: v.s})
	}
	return &serbuf.CustomError{Msg: "unknown variant " + name}
}

type rectVisitor struct {
	serbuf.BaseVisitor
	s *shape
}

func (v rectVisitor) VisitMap(a serbuf.MapAccess) error {
	for {
		var id serbuf.Identifier
		ok, err := a.NextKey(&id)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		var dst *uint32
		switch string(id.Name) {
		case "w":
			dst = &v.s.w
		default:
			dst = &v.s.h
		}
		if err := a.NextValue(serbuf.ReflectTarget{V: dst}); err != nil {
			return err
		}
	}
}

func (v rectVisitor) VisitSeq(a serbuf.SeqAccess) error {
	if _, err := a.NextElement(serbuf.ReflectTarget{V: &v.s.w}); err != nil {
		return err
	}
	if _, err := a.NextElement(serbuf.ReflectTarget{V: &v.s.h}); err != nil {
		return err
	}
	return nil
}

func TestEnumErrors(t *testing.T) {
	wires := []string{
		"c3",                           // bool is not an enum value
		"8201cb3ff8000000000000a16100", // fixmap with two pairs
		"de000101cb3ff8000000000000",   // map16 header, even declaring one pair
	}
	for _, w := range wires {
		wire, _ := hex.DecodeString(w)
		var s shape
		if err := s.Decode(NewDeserializer(wire)); err != ErrExpectedEnum {
			t.Errorf("%s: got %v", w, err)
		}
	}
}

func TestEnumVariants(t *testing.T) {
	cases := []struct {
		s     shape
		wire  string // compact profile
		named string
	}{
		{shape{kind: "Dot"}, "00", "a3446f74"},
		{shape{kind: "Circle", radius: 1.5}, "8101cb3ff8000000000000", "81a6436972636c65cb3ff8000000000000"},
		{shape{kind: "Rect", w: 3, h: 4}, "8102920304", "81a4526563748261770361680468"},
	}
	for _, tc := range cases {
		var buf serbuf.Buffer
		if err := tc.s.Encode(NewSerializer(&buf)); err != nil {
			t.Fatalf("%#v: %s", tc.s, err)
		}
		if got := hex.EncodeToString(buf.Bytes()); got != tc.wire {
			t.Errorf("%#v: got %s want %s", tc.s, got, tc.wire)
		}

		var got shape
		d := NewDeserializer(buf.Bytes())
		if err := got.Decode(d); err != nil {
			t.Fatalf("%s: %s", tc.wire, err)
		}
		if d.End() != 0 {
			t.Errorf("%s: %d bytes left", tc.wire, d.End())
		}
		if got != tc.s {
			t.Errorf("%s: got %#v want %#v", tc.wire, got, tc.s)
		}

		buf.Reset()
		if err := tc.s.Encode(NewNamedSerializer(&buf)); err != nil {
			t.Fatalf("%#v named: %s", tc.s, err)
		}
		if got := hex.EncodeToString(buf.Bytes()); got != tc.named {
			t.Errorf("%#v named: got %s want %s", tc.s, got, tc.named)
		}

		got = shape{}
		d = NewDeserializer(buf.Bytes())
		if err := got.Decode(d); err != nil {
			t.Fatalf("%s named: %s", tc.named, err)
		}
		if got != tc.s {
			t.Errorf("%s named: got %#v want %#v", tc.named, got, tc.s)
		}
	}
}
