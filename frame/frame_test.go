package frame

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

var testKey = []byte("0123456789abcdef")

func testPayload() []byte {
	// repetitive enough that every codec actually shrinks it
	return bytes.Repeat([]byte("wire format payload "), 50)
}

func TestRoundtrip(t *testing.T) {
	compressors := map[string]Compressor{
		"none":   nil,
		"snappy": SnappyCompressor{},
		"zlib":   ZlibCompressor{},
		"zstd":   ZstdCompressor{},
	}
	payload := testPayload()

	for name, c := range compressors {
		for _, key := range [][]byte{nil, testKey} {
			e := Encoder{Compression: c, ChecksumKey: key}
			b, err := e.Encode(payload)
			if !assert.NoError(t, err, name) {
				continue
			}
			if c != nil {
				assert.True(t, len(b) < len(payload), "%s did not compress", name)
			}

			d := Decoder{ChecksumKey: key}
			got, err := d.Decode(b)
			assert.NoError(t, err, name)
			assert.Equal(t, payload, got, name)
		}
	}
}

func TestEmptyPayload(t *testing.T) {
	e := Encoder{}
	b, err := e.Encode(nil)
	assert.NoError(t, err)

	d := Decoder{}
	got, err := d.Decode(b)
	assert.NoError(t, err)
	assert.Len(t, got, 0)
}

func TestChecksumTamper(t *testing.T) {
	e := Encoder{Compression: SnappyCompressor{}, ChecksumKey: testKey}
	b, err := e.Encode(testPayload())
	assert.NoError(t, err)

	b[len(b)-1] ^= 0x01

	d := Decoder{ChecksumKey: testKey}
	_, err = d.Decode(b)
	assert.Equal(t, ErrBadChecksum, err)
}

func TestChecksumKeyRequired(t *testing.T) {
	e := Encoder{ChecksumKey: testKey}
	b, err := e.Encode([]byte("x"))
	assert.NoError(t, err)

	d := Decoder{}
	_, err = d.Decode(b)
	assert.Equal(t, ErrBadKeySize, err)

	e.ChecksumKey = []byte("short")
	_, err = e.Encode([]byte("x"))
	assert.Equal(t, ErrBadKeySize, err)
}

func TestBadMagic(t *testing.T) {
	d := Decoder{}
	_, err := d.Decode([]byte("XXF1\x00\x01a"))
	assert.Equal(t, ErrBadMagic, err)
}

func TestUnknownCodec(t *testing.T) {
	d := Decoder{}
	_, err := d.Decode([]byte("SBF1\x0F\x01a"))
	assert.Equal(t, ErrUnknownCodec, err)
}

func TestTruncated(t *testing.T) {
	e := Encoder{ChecksumKey: testKey}
	b, err := e.Encode(testPayload())
	assert.NoError(t, err)

	d := Decoder{ChecksumKey: testKey}
	for _, i := range []int{0, 3, 5, 6, 10} {
		_, err := d.Decode(b[:i])
		assert.Error(t, err, "prefix of length %d", i)
	}
}

func TestLengthMismatch(t *testing.T) {
	e := Encoder{}
	b, err := e.Encode([]byte("abc"))
	assert.NoError(t, err)

	// claim four bytes but store three
	b[5] = 4
	d := Decoder{}
	_, err = d.Decode(b)
	assert.Equal(t, ErrBadLength, err)
}

func TestVarint(t *testing.T) {
	for _, n := range []uint{0, 1, 0x7F, 0x80, 300, 1 << 20, 1<<31 - 1} {
		b := varint(nil, n)
		got, sz, err := varintdecode(b)
		assert.NoError(t, err)
		assert.Equal(t, len(b), sz)
		assert.Equal(t, int(n), got)
	}

	_, _, err := varintdecode([]byte{0x80, 0x80})
	assert.Equal(t, ErrTruncated, err)
}
