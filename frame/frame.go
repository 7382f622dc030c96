// Package frame wraps encoded messages in a small envelope for storage
// or transport: a magic header, an optional compression codec and an
// optional SipHash-2-4 checksum over the stored payload.
//
// Layout:
//
//	"SBF1" <flags> <varint uncompressed length> [8-byte checksum] <payload>
//
// The low nibble of the flags byte holds the codec id, bit 7 marks a
// checksum as present.
package frame

import (
	"encoding/binary"
	"errors"
	"math"

	"github.com/dchest/siphash"
)

const magic = "SBF1"

const (
	codecNone   = 0
	codecSnappy = 1
	codecZlib   = 2
	codecZstd   = 3

	flagChecksum = 0x80
)

// Errors
var (
	ErrBadMagic     = errors.New("frame: bad magic")
	ErrBadChecksum  = errors.New("frame: checksum mismatch")
	ErrUnknownCodec = errors.New("frame: unknown compression codec")
	ErrBadKeySize   = errors.New("frame: checksum key must be 16 bytes")
	ErrNoChecksum   = errors.New("frame: frame carries no checksum")
	ErrTruncated    = errors.New("frame: truncated frame")
	ErrBadLength    = errors.New("frame: bad length")
)

// Compressor compresses and decompresses frame payloads.
type Compressor interface {
	codecID() byte
	compress(b []byte) ([]byte, error)
	decompress(b []byte, uln int) ([]byte, error)
}

// Encoder builds frames. The zero value stores payloads verbatim with
// no checksum.
type Encoder struct {
	Compression Compressor // nil stores the payload uncompressed
	ChecksumKey []byte     // 16 bytes; enables the checksum
}

// Encode wraps payload in a frame.
func (e *Encoder) Encode(payload []byte) ([]byte, error) {
	if len(payload) >= math.MaxUint32 {
		return nil, ErrBadLength
	}

	codec := byte(codecNone)
	stored := payload
	if e.Compression != nil {
		var err error
		stored, err = e.Compression.compress(payload)
		if err != nil {
			return nil, err
		}
		codec = e.Compression.codecID()
	}

	flags := codec
	if e.ChecksumKey != nil {
		if len(e.ChecksumKey) != 16 {
			return nil, ErrBadKeySize
		}
		flags |= flagChecksum
	}

	b := make([]byte, 0, len(magic)+1+5+8+len(stored))
	b = append(b, magic...)
	b = append(b, flags)
	b = varint(b, uint(len(payload)))
	if flags&flagChecksum != 0 {
		k0 := binary.LittleEndian.Uint64(e.ChecksumKey[:8])
		k1 := binary.LittleEndian.Uint64(e.ChecksumKey[8:])
		b = binary.LittleEndian.AppendUint64(b, siphash.Hash(k0, k1, stored))
	}
	return append(b, stored...), nil
}

// Decoder unwraps frames.
type Decoder struct {
	ChecksumKey []byte // 16 bytes; required for frames with a checksum
}

// Decode verifies and unwraps one frame, returning the payload.
func (d *Decoder) Decode(b []byte) ([]byte, error) {
	if len(b) < len(magic)+1 {
		return nil, ErrTruncated
	}
	if string(b[:len(magic)]) != magic {
		return nil, ErrBadMagic
	}
	flags := b[len(magic)]
	b = b[len(magic)+1:]

	uln, sz, err := varintdecode(b)
	if err != nil {
		return nil, err
	}
	b = b[sz:]

	if flags&flagChecksum != 0 {
		if len(d.ChecksumKey) != 16 {
			return nil, ErrBadKeySize
		}
		if len(b) < 8 {
			return nil, ErrTruncated
		}
		want := binary.LittleEndian.Uint64(b)
		b = b[8:]
		k0 := binary.LittleEndian.Uint64(d.ChecksumKey[:8])
		k1 := binary.LittleEndian.Uint64(d.ChecksumKey[8:])
		if siphash.Hash(k0, k1, b) != want {
			return nil, ErrBadChecksum
		}
	}

	var payload []byte
	switch flags &^ flagChecksum {
	case codecNone:
		payload = b
	case codecSnappy:
		payload, err = SnappyCompressor{}.decompress(b, uln)
	case codecZlib:
		payload, err = ZlibCompressor{}.decompress(b, uln)
	case codecZstd:
		payload, err = ZstdCompressor{}.decompress(b, uln)
	default:
		return nil, ErrUnknownCodec
	}
	if err != nil {
		return nil, err
	}
	if len(payload) != uln {
		return nil, ErrBadLength
	}
	return payload, nil
}

func varint(by []byte, n uint) []byte {
	for n >= 0x80 {
		by = append(by, byte(n)|0x80)
		n >>= 7
	}
	return append(by, byte(n))
}

func varintdecode(by []byte) (n int, sz int, err error) {
	s := uint(0)
	for i, b := range by {
		if b < 0x80 {
			if i > 9 || i == 9 && b > 1 {
				return 0, i + 1, ErrBadLength
			}
			return n | int(b)<<s, i + 1, nil
		}
		n |= int(b&0x7F) << s
		s += 7
	}
	return 0, len(by), ErrTruncated
}
