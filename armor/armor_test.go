package armor

import (
	"bytes"
	"testing"

	"github.com/serbuf/serbuf"
)

func TestEncodeHex(t *testing.T) {
	var buf serbuf.Buffer
	if err := EncodeHex(&buf, []byte{0xDE, 0xAD, 0x01}); err != nil {
		t.Fatal(err)
	}
	if string(buf.Bytes()) != "DEAD01" {
		t.Errorf("got %q", buf.Bytes())
	}
}

func TestDecodeHexInPlace(t *testing.T) {
	cases := []struct {
		in       string
		out      []byte
		consumed int
	}{
		{"DEAD01", []byte{0xDE, 0xAD, 0x01}, 6},
		{"beef", []byte{0xBE, 0xEF}, 4},
		{"ABC", []byte{0xAB}, 2},     // dangling odd digit stays
		{`BE"x`, []byte{0xBE}, 2},    // stops at the quote
		{"", nil, 0},
		{"xx", nil, 0},
	}
	for _, tc := range cases {
		b := []byte(tc.in)
		n, consumed := DecodeHexInPlace(b)
		if consumed != tc.consumed || !bytes.Equal(b[:n], tc.out) {
			t.Errorf("%q: got % 02x consumed %d", tc.in, b[:n], consumed)
		}
	}
}

func TestEncodeBase64(t *testing.T) {
	cases := []struct {
		in   []byte
		out  string
		pads int
	}{
		{nil, "", 0},
		{[]byte{1, 2, 3}, "AQID", 0},
		{[]byte{0, 1}, "AAE", 1},
		{[]byte{0xFF}, "/w", 2},
		{[]byte("hello world"), "aGVsbG8gd29ybGQ", 1},
	}
	for _, tc := range cases {
		var buf serbuf.Buffer
		pads, err := EncodeBase64(&buf, tc.in)
		if err != nil {
			t.Fatal(err)
		}
		if string(buf.Bytes()) != tc.out || pads != tc.pads {
			t.Errorf("% 02x: got %q pads %d", tc.in, buf.Bytes(), pads)
		}
	}
}

func TestDecodeBase64InPlace(t *testing.T) {
	cases := []struct {
		in       string
		out      []byte
		consumed int
	}{
		{"AQID", []byte{1, 2, 3}, 4},
		{"QQ==", []byte{'A'}, 4},   // pads are consumed
		{"QQ", []byte{'A'}, 2},     // and optional
		{"AAE=", []byte{0, 1}, 4},
		{"aGVsbG8gd29ybGQ", []byte("hello world"), 15},
		{`AQID"rest`, []byte{1, 2, 3}, 4},
		{"Q", nil, 1}, // a lone character carries no whole byte
		{"", nil, 0},
	}
	for _, tc := range cases {
		b := []byte(tc.in)
		n, consumed := DecodeBase64InPlace(b)
		if consumed != tc.consumed || !bytes.Equal(b[:n], tc.out) {
			t.Errorf("%q: got % 02x consumed %d", tc.in, b[:n], consumed)
		}
	}
}

func TestBase64Roundtrip(t *testing.T) {
	data := []byte("The quick brown fox jumps over the lazy dog.")
	for i := 0; i <= len(data); i++ {
		var buf serbuf.Buffer
		if _, err := EncodeBase64(&buf, data[:i]); err != nil {
			t.Fatal(err)
		}
		b := append([]byte(nil), buf.Bytes()...)
		n, consumed := DecodeBase64InPlace(b)
		if consumed != buf.Len() {
			t.Fatalf("len %d: consumed %d of %d", i, consumed, buf.Len())
		}
		if !bytes.Equal(b[:n], data[:i]) {
			t.Errorf("len %d: got %q", i, b[:n])
		}
	}
}
