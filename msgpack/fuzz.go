//go:build gofuzz
// +build gofuzz

package msgpack

import (
	"bytes"

	"github.com/google/go-cmp/cmp"
)

func Fuzz(data []byte) int {
	var m interface{}

	if _, err := Unmarshal(data, &m); err != nil {
		return 0
	}

	enc, err := Marshal(m)
	if err != nil {
		panic("unable to marshal")
	}

	// NaN breaks value comparison, so compare re-encodings
	var m2 interface{}
	if _, err := Unmarshal(enc, &m2); err != nil {
		panic("unmarshalling marshalled data: " + err.Error())
	}

	enc2, err := Marshal(m2)
	if err != nil {
		panic("unable to re-marshal")
	}

	if !bytes.Equal(enc, enc2) {
		panic("failed to roundtrip: " + cmp.Diff(enc, enc2))
	}

	return 1
}
