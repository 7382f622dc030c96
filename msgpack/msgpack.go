// Package msgpack implements a MessagePack codec. Serialization
// appends to a Writer, always choosing the smallest integer and header
// encodings; deserialization borrows strings and binary blobs from the
// input buffer and coerces integers losslessly between widths.
package msgpack

import "github.com/serbuf/serbuf"

// Marshal returns the compact-profile encoding of v: structs become
// arrays of field values.
func Marshal(v any) ([]byte, error) {
	var buf serbuf.Buffer
	if err := serbuf.EncodeValue(NewSerializer(&buf), v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalNamed returns the named-profile encoding of v: structs become
// maps keyed by field name.
func MarshalNamed(v any) ([]byte, error) {
	var buf serbuf.Buffer
	if err := serbuf.EncodeValue(NewNamedSerializer(&buf), v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Encode writes the compact-profile encoding of v to w.
func Encode(w serbuf.Writer, v any) error {
	return serbuf.EncodeValue(NewSerializer(w), v)
}

// Unmarshal parses one message from data into the value pointed to by
// v and returns how many bytes it consumed, so a concatenated stream
// can be split by re-invoking on the tail.
func Unmarshal(data []byte, v any) (int, error) {
	d := NewDeserializer(data)
	if err := serbuf.DecodeValue(d, v); err != nil {
		return d.Consumed(), err
	}
	return d.Consumed(), nil
}
