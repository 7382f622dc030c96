//go:build gofuzz
// +build gofuzz

package json

import (
	"bytes"

	"github.com/google/go-cmp/cmp"
)

func Fuzz(data []byte) int {
	var m interface{}

	buf := append([]byte(nil), data...)
	if err := Unmarshal(buf, &m); err != nil {
		return 0
	}

	enc, err := Marshal(m)
	if err != nil {
		panic("unable to marshal")
	}

	// whole floats re-parse as integers, so compare re-encodings
	// instead of values
	var m2 interface{}
	if err := Unmarshal(append([]byte(nil), enc...), &m2); err != nil {
		panic("unmarshalling marshalled data: " + err.Error())
	}

	enc2, err := Marshal(m2)
	if err != nil {
		panic("unable to re-marshal")
	}

	if !bytes.Equal(enc, enc2) {
		panic("failed to roundtrip: " + cmp.Diff(string(enc), string(enc2)))
	}

	return 1
}
