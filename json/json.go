// Package json implements a JSON codec over a mutable byte buffer.
// Serialization appends to a Writer and never allocates; deserialization
// rewrites the input in place, so parsed strings and byte blobs alias
// the buffer instead of copying out of it.
package json

import "github.com/serbuf/serbuf"

// Marshal returns the JSON encoding of v, with byte slices written as
// arrays of numbers.
func Marshal(v any) ([]byte, error) {
	return marshal(v, ArrayBytes{})
}

// MarshalHex writes byte slices as uppercase hex strings.
func MarshalHex(v any) ([]byte, error) {
	return marshal(v, HexBytes{})
}

// MarshalBase64 writes byte slices as unpadded base64 strings.
func MarshalBase64(v any) ([]byte, error) {
	return marshal(v, Base64Bytes{})
}

// MarshalPass writes byte slices verbatim, as pre-encoded JSON
// fragments.
func MarshalPass(v any) ([]byte, error) {
	return marshal(v, PassBytes{})
}

// MarshalString writes byte slices as escaped JSON strings.
func MarshalString(v any) ([]byte, error) {
	return marshal(v, StringBytes{})
}

func marshal(v any, enc BytesEncoder) ([]byte, error) {
	var buf serbuf.Buffer
	if err := serbuf.EncodeValue(NewSerializerWithEncoder(&buf, enc), v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Encode writes the JSON encoding of v to w.
func Encode(w serbuf.Writer, v any) error {
	return serbuf.EncodeValue(NewSerializer(w), v)
}

// Unmarshal parses data into the value pointed to by v, rewriting data
// in place. Decoded strings and byte slices alias data.
func Unmarshal(data []byte, v any) error {
	return unmarshal(data, v, PassStringDecoder{})
}

// UnmarshalHex decodes quoted byte blobs as hex.
func UnmarshalHex(data []byte, v any) error {
	return unmarshal(data, v, HexStringDecoder{})
}

// UnmarshalBase64 decodes quoted byte blobs as base64.
func UnmarshalBase64(data []byte, v any) error {
	return unmarshal(data, v, Base64StringDecoder{})
}

// UnmarshalSniff picks the byte-blob codec from a "hex," or "base64,"
// prefix inside the string.
func UnmarshalSniff(data []byte, v any) error {
	return unmarshal(data, v, SniffStringDecoder{})
}

func unmarshal(data []byte, v any, str StringDecoder) error {
	d := NewDeserializerWithDecoder(data, str)
	if err := serbuf.DecodeValue(d, v); err != nil {
		return err
	}
	return d.End()
}
