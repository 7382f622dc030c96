package frame

import "github.com/golang/snappy"

// SnappyCompressor compresses frame payloads with snappy.
type SnappyCompressor struct{}

func (SnappyCompressor) codecID() byte { return codecSnappy }

func (SnappyCompressor) compress(b []byte) ([]byte, error) {
	return snappy.Encode(nil, b), nil
}

func (SnappyCompressor) decompress(b []byte, uln int) ([]byte, error) {
	return snappy.Decode(nil, b)
}
