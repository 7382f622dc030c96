package json

import (
	"math"
	"strconv"
	"unicode/utf8"
	"unsafe"

	"github.com/serbuf/serbuf"
	"github.com/serbuf/serbuf/armor"
)

// Deserializer parses one JSON value from a mutable byte buffer. String
// unescaping and embedded byte decoding happen in place: the buffer is
// rewritten and the spans handed to the visitor alias it. After any
// error the buffer contents are unspecified.
type Deserializer struct {
	input []byte
	index int
	str   StringDecoder
}

// NewDeserializer returns a Deserializer over input with byte strings
// decoded as raw string content.
func NewDeserializer(input []byte) *Deserializer {
	return &Deserializer{input: input, str: PassStringDecoder{}}
}

// NewDeserializerWithDecoder selects how quoted strings requested as
// bytes are decoded.
func NewDeserializerWithDecoder(input []byte, str StringDecoder) *Deserializer {
	return &Deserializer{input: input, str: str}
}

// End fails unless only whitespace remains.
func (d *Deserializer) End() error {
	for d.index < len(d.input) {
		if !isWS(d.input[d.index]) {
			return ErrTrailingCharacters
		}
		d.index++
	}
	return nil
}

func isWS(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// peekSkipWS skips whitespace and returns the next byte unconsumed.
func (d *Deserializer) peekSkipWS() (byte, error) {
	for d.index < len(d.input) {
		c := d.input[d.index]
		if !isWS(c) {
			return c, nil
		}
		d.index++
	}
	return 0, ErrUnexpectedEof
}

func (d *Deserializer) expect(lit string, err error) error {
	if d.index+len(lit) > len(d.input) {
		return ErrUnexpectedEof
	}
	for i := 0; i < len(lit); i++ {
		if d.input[d.index+i] != lit[i] {
			return err
		}
	}
	d.index += len(lit)
	return nil
}

func (d *Deserializer) parseNull() error {
	return d.expect("null", ErrExpectedNull)
}

func (d *Deserializer) parseBool() (bool, error) {
	c, err := d.peekSkipWS()
	if err != nil {
		return false, err
	}
	switch c {
	case 't':
		return true, d.expect("true", ErrExpectedToken)
	case 'f':
		return false, d.expect("false", ErrExpectedToken)
	}
	return false, ErrExpectedToken
}

// unescapeTable maps the escape letters between 'b' and 't' to their
// bytes; zero entries are invalid escapes.
var unescapeTable = [19]byte{
	'b' - 'b': 0x08,
	'f' - 'b': 0x0C,
	'n' - 'b': 0x0A,
	'r' - 'b': 0x0D,
	't' - 'b': 0x09,
}

// parseStringContent unescapes the string content starting at the
// cursor, writing over the input. The write position trails the read
// position, so the returned span never overlaps unparsed input. The
// cursor ends just past the closing quote.
func (d *Deserializer) parseStringContent() ([]byte, error) {
	b := d.input
	start := d.index
	r, w := d.index, d.index
	for r < len(b) {
		c := b[r]
		switch {
		case c == '"':
			d.index = r + 1
			return b[start:w], nil
		case c == '\\':
			r++
			if r >= len(b) {
				return nil, ErrUnexpectedEof
			}
			e := b[r]
			switch {
			case e == '"' || e == '\\' || e == '/':
				b[w] = e
				w++
				r++
			case e == 'u':
				r++
				if r+4 > len(b) {
					return nil, ErrUnexpectedEof
				}
				var cp uint32
				for i := 0; i < 4; i++ {
					n, ok := armor.HexNibble(b[r+i])
					if !ok {
						return nil, ErrInvalidEscapeSequence
					}
					cp = cp<<4 | uint32(n)
				}
				r += 4
				// each \uXXXX stands alone; surrogate halves are
				// not combined and are rejected outright
				if cp >= 0xD800 && cp <= 0xDFFF {
					return nil, ErrInvalidUnicodeCodePoint
				}
				w += utf8.EncodeRune(b[w:r], rune(cp))
			default:
				if e < 'b' || e > 't' {
					return nil, ErrInvalidEscapeSequence
				}
				u := unescapeTable[e-'b']
				if u == 0 {
					return nil, ErrInvalidEscapeSequence
				}
				b[w] = u
				w++
				r++
			}
		case c < 0x20:
			return nil, ErrStringControlChar
		default:
			b[w] = c
			w++
			r++
		}
	}
	return nil, ErrUnexpectedEof
}

// skipString advances past a string without rewriting it.
func (d *Deserializer) skipString() error {
	b := d.input
	r := d.index
	for r < len(b) {
		switch c := b[r]; {
		case c == '"':
			d.index = r + 1
			return nil
		case c == '\\':
			r += 2
		case c < 0x20:
			return ErrStringControlChar
		default:
			r++
		}
	}
	return ErrUnexpectedEof
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// parseUnsigned accumulates digits with a running range check against
// max.
func (d *Deserializer) parseUnsigned(max uint64) (uint64, error) {
	c, err := d.peekSkipWS()
	if err != nil {
		return 0, err
	}
	if c == '-' {
		return 0, ErrInvalidNumber
	}
	if !isDigit(c) {
		return 0, ErrInvalidType
	}
	n, err := d.parseDigits(max)
	if err != nil {
		return 0, err
	}
	return n, d.rejectFloatTail()
}

// parseSigned accumulates the magnitude and applies the sign, so the
// full two's-complement range is reachable and "-0" parses as zero.
func (d *Deserializer) parseSigned(min, max int64) (int64, error) {
	c, err := d.peekSkipWS()
	if err != nil {
		return 0, err
	}
	neg := false
	if c == '-' {
		neg = true
		d.index++
		if d.index >= len(d.input) {
			return 0, ErrUnexpectedEof
		}
		c = d.input[d.index]
	}
	if !isDigit(c) {
		return 0, ErrInvalidType
	}
	limit := uint64(max)
	if neg {
		limit = uint64(-(min + 1)) + 1
	}
	mag, err := d.parseDigits(limit)
	if err != nil {
		return 0, err
	}
	if err := d.rejectFloatTail(); err != nil {
		return 0, err
	}
	if neg {
		return -int64(mag - 1) - 1, nil
	}
	return int64(mag), nil
}

func (d *Deserializer) parseDigits(max uint64) (uint64, error) {
	b := d.input
	if b[d.index] == '0' && d.index+1 < len(b) && isDigit(b[d.index+1]) {
		return 0, ErrInvalidNumber
	}
	var n uint64
	for d.index < len(b) && isDigit(b[d.index]) {
		dig := uint64(b[d.index] - '0')
		if n > max/10 || (n == max/10 && dig > max%10) {
			return 0, ErrInvalidNumber
		}
		n = n*10 + dig
		d.index++
	}
	return n, nil
}

func (d *Deserializer) rejectFloatTail() error {
	if d.index < len(d.input) {
		switch d.input[d.index] {
		case '.', 'e', 'E':
			return ErrInvalidType
		}
	}
	return nil
}

// scanNumberRun returns the maximal run of number characters at the
// cursor and advances past it.
func (d *Deserializer) scanNumberRun() []byte {
	start := d.index
	for d.index < len(d.input) {
		switch c := d.input[d.index]; {
		case isDigit(c), c == '-', c == '+', c == '.', c == 'e', c == 'E':
			d.index++
		default:
			return d.input[start:d.index]
		}
	}
	return d.input[start:]
}

func bytesToString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(&b[0], len(b))
}

func (d *Deserializer) parseFloat(bits int) (float64, error) {
	c, err := d.peekSkipWS()
	if err != nil {
		return 0, err
	}
	if c == 'n' {
		if err := d.parseNull(); err != nil {
			return 0, err
		}
		return math.NaN(), nil
	}
	if c != '-' && !isDigit(c) {
		return 0, ErrInvalidType
	}
	run := d.scanNumberRun()
	f, err := strconv.ParseFloat(bytesToString(run), bits)
	if err != nil {
		return 0, ErrInvalidNumber
	}
	return f, nil
}

func (d *Deserializer) DecodeAny(v serbuf.Visitor) error {
	c, err := d.peekSkipWS()
	if err != nil {
		return err
	}
	switch {
	case c == 'n':
		if err := d.parseNull(); err != nil {
			return err
		}
		return v.VisitNil()
	case c == 't' || c == 'f':
		b, err := d.parseBool()
		if err != nil {
			return err
		}
		return v.VisitBool(b)
	case c == '"':
		d.index++
		s, err := d.parseStringContent()
		if err != nil {
			return err
		}
		return v.VisitString(s)
	case c == '[':
		d.index++
		return d.visitSeq(v)
	case c == '{':
		d.index++
		return d.visitMap(v)
	case c == '-' || isDigit(c):
		return d.anyNumber(v)
	}
	return ErrExpectedToken
}

func (d *Deserializer) anyNumber(v serbuf.Visitor) error {
	run := d.scanNumberRun()
	if len(run) == 0 {
		return ErrExpectedToken
	}
	float := false
	for _, c := range run {
		if c == '.' || c == 'e' || c == 'E' {
			float = true
			break
		}
	}
	if !float {
		if run[0] == '-' {
			if n, err := strconv.ParseInt(bytesToString(run), 10, 64); err == nil {
				return v.VisitInt64(n)
			}
		} else {
			if n, err := strconv.ParseUint(bytesToString(run), 10, 64); err == nil {
				return v.VisitUint64(n)
			}
		}
	}
	f, err := strconv.ParseFloat(bytesToString(run), 64)
	if err != nil {
		return ErrInvalidNumber
	}
	return v.VisitFloat64(f)
}

func (d *Deserializer) DecodeBool(v serbuf.Visitor) error {
	b, err := d.parseBool()
	if err != nil {
		return err
	}
	return v.VisitBool(b)
}

func (d *Deserializer) DecodeInt8(v serbuf.Visitor) error {
	n, err := d.parseSigned(math.MinInt8, math.MaxInt8)
	if err != nil {
		return err
	}
	return v.VisitInt8(int8(n))
}

func (d *Deserializer) DecodeInt16(v serbuf.Visitor) error {
	n, err := d.parseSigned(math.MinInt16, math.MaxInt16)
	if err != nil {
		return err
	}
	return v.VisitInt16(int16(n))
}

func (d *Deserializer) DecodeInt32(v serbuf.Visitor) error {
	n, err := d.parseSigned(math.MinInt32, math.MaxInt32)
	if err != nil {
		return err
	}
	return v.VisitInt32(int32(n))
}

func (d *Deserializer) DecodeInt64(v serbuf.Visitor) error {
	n, err := d.parseSigned(math.MinInt64, math.MaxInt64)
	if err != nil {
		return err
	}
	return v.VisitInt64(n)
}

func (d *Deserializer) DecodeUint8(v serbuf.Visitor) error {
	n, err := d.parseUnsigned(math.MaxUint8)
	if err != nil {
		return err
	}
	return v.VisitUint8(uint8(n))
}

func (d *Deserializer) DecodeUint16(v serbuf.Visitor) error {
	n, err := d.parseUnsigned(math.MaxUint16)
	if err != nil {
		return err
	}
	return v.VisitUint16(uint16(n))
}

func (d *Deserializer) DecodeUint32(v serbuf.Visitor) error {
	n, err := d.parseUnsigned(math.MaxUint32)
	if err != nil {
		return err
	}
	return v.VisitUint32(uint32(n))
}

func (d *Deserializer) DecodeUint64(v serbuf.Visitor) error {
	n, err := d.parseUnsigned(math.MaxUint64)
	if err != nil {
		return err
	}
	return v.VisitUint64(n)
}

func (d *Deserializer) DecodeFloat32(v serbuf.Visitor) error {
	f, err := d.parseFloat(32)
	if err != nil {
		return err
	}
	return v.VisitFloat32(float32(f))
}

func (d *Deserializer) DecodeFloat64(v serbuf.Visitor) error {
	f, err := d.parseFloat(64)
	if err != nil {
		return err
	}
	return v.VisitFloat64(f)
}

func (d *Deserializer) DecodeStr(v serbuf.Visitor) error {
	c, err := d.peekSkipWS()
	if err != nil {
		return err
	}
	if c != '"' {
		return ErrExpectedString
	}
	d.index++
	s, err := d.parseStringContent()
	if err != nil {
		return err
	}
	return v.VisitString(s)
}

func (d *Deserializer) DecodeBytes(v serbuf.Visitor) error {
	c, err := d.peekSkipWS()
	if err != nil {
		return err
	}
	switch c {
	case '[':
		d.index++
		return d.parseByteArray(v)
	case '"':
		d.index++
		s, err := d.str.DecodeStringBytes(d)
		if err != nil {
			return err
		}
		return v.VisitBytes(s)
	}
	return ErrExpectedString
}

// parseByteArray parses an array of numbers 0..255, writing the bytes
// over the array text. Every element takes at least one character, so
// the write position trails the cursor.
func (d *Deserializer) parseByteArray(v serbuf.Visitor) error {
	b := d.input
	start := d.index - 1
	w := start
	first := true
	for {
		c, err := d.peekSkipWS()
		if err != nil {
			return err
		}
		if c == ']' {
			d.index++
			return v.VisitBytes(b[start:w])
		}
		if first {
			first = false
			if c == ',' {
				return ErrLeadingArrayComma
			}
		} else {
			if c != ',' {
				return ErrExpectedArrayCommaOrEnd
			}
			d.index++
			c, err = d.peekSkipWS()
			if err != nil {
				return err
			}
			if c == ']' {
				return ErrTrailingArrayComma
			}
		}
		n, err := d.parseUnsigned(math.MaxUint8)
		if err != nil {
			return err
		}
		b[w] = byte(n)
		w++
	}
}

func (d *Deserializer) DecodeOption(v serbuf.Visitor) error {
	c, err := d.peekSkipWS()
	if err != nil {
		return err
	}
	if c == 'n' {
		if err := d.parseNull(); err != nil {
			return err
		}
		return v.VisitNil()
	}
	return v.VisitSome(d)
}

func (d *Deserializer) DecodeNil(v serbuf.Visitor) error {
	if _, err := d.peekSkipWS(); err != nil {
		return err
	}
	if err := d.parseNull(); err != nil {
		return err
	}
	return v.VisitNil()
}

func (d *Deserializer) DecodeSeq(v serbuf.Visitor) error {
	c, err := d.peekSkipWS()
	if err != nil {
		return err
	}
	if c != '[' {
		return ErrExpectedArray
	}
	d.index++
	return d.visitSeq(v)
}

func (d *Deserializer) visitSeq(v serbuf.Visitor) error {
	a := seqAccess{d: d, first: true}
	if err := v.VisitSeq(&a); err != nil {
		return err
	}
	if !a.done {
		return ErrExpectedArrayEnd
	}
	return nil
}

func (d *Deserializer) DecodeMap(v serbuf.Visitor) error {
	c, err := d.peekSkipWS()
	if err != nil {
		return err
	}
	if c != '{' {
		return ErrExpectedObject
	}
	d.index++
	return d.visitMap(v)
}

func (d *Deserializer) visitMap(v serbuf.Visitor) error {
	a := mapAccess{d: d, first: true}
	if err := v.VisitMap(&a); err != nil {
		return err
	}
	if !a.done {
		return ErrExpectedObjectCommaOrEnd
	}
	return nil
}

func (d *Deserializer) DecodeStruct(fields []string, v serbuf.Visitor) error {
	c, err := d.peekSkipWS()
	if err != nil {
		return err
	}
	switch c {
	case '{':
		d.index++
		return d.visitMap(v)
	case '[':
		// positional encoding
		d.index++
		return d.visitSeq(v)
	}
	return ErrExpectedObject
}

func (d *Deserializer) DecodeEnum(variants []string, v serbuf.Visitor) error {
	c, err := d.peekSkipWS()
	if err != nil {
		return err
	}
	switch c {
	case '"':
		return v.VisitVariant(&variantAccess{d: d, unit: true})
	case '{':
		d.index++
		if err := v.VisitVariant(&variantAccess{d: d}); err != nil {
			return err
		}
		c, err := d.peekSkipWS()
		if err != nil {
			return err
		}
		if c != '}' {
			return ErrExpectedEnumObjectEnd
		}
		d.index++
		return nil
	}
	return ErrExpectedEnumValue
}

func (d *Deserializer) DecodeIdentifier(v serbuf.Visitor) error {
	return d.DecodeStr(v)
}

func (d *Deserializer) DecodeIgnored(v serbuf.Visitor) error {
	if err := d.skipValue(); err != nil {
		return err
	}
	return v.VisitNil()
}

func (d *Deserializer) skipValue() error {
	c, err := d.peekSkipWS()
	if err != nil {
		return err
	}
	switch {
	case c == 'n':
		return d.parseNull()
	case c == 't' || c == 'f':
		_, err := d.parseBool()
		return err
	case c == '"':
		d.index++
		return d.skipString()
	case c == '[':
		d.index++
		a := seqAccess{d: d, first: true}
		for {
			ok, err := a.NextElement(serbuf.IgnoredTarget{})
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
		}
	case c == '{':
		d.index++
		a := mapAccess{d: d, first: true}
		for {
			ok, err := a.NextKey(serbuf.IgnoredTarget{})
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
			if err := a.NextValue(serbuf.IgnoredTarget{}); err != nil {
				return err
			}
		}
	case c == '-' || isDigit(c):
		d.scanNumberRun()
		return nil
	}
	return ErrExpectedToken
}

type seqAccess struct {
	d     *Deserializer
	first bool
	done  bool
}

func (a *seqAccess) NextElement(t serbuf.Target) (bool, error) {
	d := a.d
	c, err := d.peekSkipWS()
	if err != nil {
		return false, err
	}
	if c == ']' {
		d.index++
		a.done = true
		return false, nil
	}
	if a.first {
		a.first = false
		if c == ',' {
			return false, ErrLeadingArrayComma
		}
	} else {
		if c != ',' {
			return false, ErrExpectedArrayCommaOrEnd
		}
		d.index++
		c, err = d.peekSkipWS()
		if err != nil {
			return false, err
		}
		if c == ']' {
			return false, ErrTrailingArrayComma
		}
	}
	if err := t.Decode(d); err != nil {
		return false, err
	}
	return true, nil
}

type mapAccess struct {
	d     *Deserializer
	first bool
	done  bool
}

func (a *mapAccess) NextKey(t serbuf.Target) (bool, error) {
	d := a.d
	c, err := d.peekSkipWS()
	if err != nil {
		return false, err
	}
	if c == '}' {
		d.index++
		a.done = true
		return false, nil
	}
	if a.first {
		a.first = false
		if c == ',' {
			return false, ErrLeadingObjectComma
		}
	} else {
		if c != ',' {
			return false, ErrExpectedObjectCommaOrEnd
		}
		d.index++
		c, err = d.peekSkipWS()
		if err != nil {
			return false, err
		}
		if c == '}' {
			return false, ErrTrailingObjectComma
		}
	}
	if c != '"' {
		return false, ErrKeyMustBeAString
	}
	if err := t.Decode(&keyDecoder{d}); err != nil {
		return false, err
	}
	return true, nil
}

func (a *mapAccess) NextValue(t serbuf.Target) error {
	d := a.d
	c, err := d.peekSkipWS()
	if err != nil {
		return err
	}
	if c != ':' {
		return ErrExpectedColon
	}
	d.index++
	return t.Decode(d)
}

type variantAccess struct {
	d    *Deserializer
	unit bool
}

func (a *variantAccess) expectColon() error {
	c, err := a.d.peekSkipWS()
	if err != nil {
		return err
	}
	if c != ':' {
		return ErrExpectedColon
	}
	a.d.index++
	return nil
}

func (a *variantAccess) Identifier(t serbuf.Target) error {
	return t.Decode(a.d)
}

func (a *variantAccess) Unit() error {
	if a.unit {
		return nil
	}
	if err := a.expectColon(); err != nil {
		return err
	}
	return a.d.parseNull()
}

func (a *variantAccess) Newtype(t serbuf.Target) error {
	if a.unit {
		return ErrExpectedEnumValue
	}
	if err := a.expectColon(); err != nil {
		return err
	}
	return t.Decode(a.d)
}

func (a *variantAccess) Tuple(n int, v serbuf.Visitor) error {
	if a.unit {
		return ErrExpectedEnumValue
	}
	if err := a.expectColon(); err != nil {
		return err
	}
	return a.d.DecodeSeq(v)
}

func (a *variantAccess) Struct(fields []string, v serbuf.Visitor) error {
	if a.unit {
		return ErrExpectedEnumValue
	}
	if err := a.expectColon(); err != nil {
		return err
	}
	return a.d.DecodeStruct(fields, v)
}
