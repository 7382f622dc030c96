package frame

import (
	"bytes"

	"github.com/klauspost/compress/zlib"
)

// ZlibCompressor compresses frame payloads with zlib.
type ZlibCompressor struct {
	Level int // compression level
}

// Zlib constants
const (
	ZlibNoCompression      = zlib.NoCompression
	ZlibBestSpeed          = zlib.BestSpeed
	ZlibBestCompression    = zlib.BestCompression
	ZlibDefaultCompression = zlib.DefaultCompression
)

func (ZlibCompressor) codecID() byte { return codecZlib }

func (c ZlibCompressor) compress(buf []byte) ([]byte, error) {
	level := c.Level
	if level == 0 {
		level = ZlibDefaultCompression
	}

	var comp bytes.Buffer
	zw, err := zlib.NewWriterLevel(&comp, level)
	if err != nil {
		return nil, err
	}
	if _, err = zw.Write(buf); err != nil {
		return nil, err
	}
	if err = zw.Close(); err != nil {
		return nil, err
	}
	return comp.Bytes(), nil
}

func (ZlibCompressor) decompress(buf []byte, uln int) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(buf))
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	dec := bytes.NewBuffer(make([]byte, 0, uln))
	if _, err = dec.ReadFrom(zr); err != nil {
		return nil, err
	}
	return dec.Bytes(), nil
}
