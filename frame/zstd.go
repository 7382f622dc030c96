package frame

// ZstdCompressor compresses frame payloads with zstd.
type ZstdCompressor struct {
	Level int // compression level, ZstdDefaultCompression when zero
}

// Zstd constants
const (
	ZstdBestSpeed          = 1
	ZstdBestCompression    = 20
	ZstdDefaultCompression = 3
)

func (ZstdCompressor) codecID() byte { return codecZstd }

func (c ZstdCompressor) compress(buf []byte) ([]byte, error) {
	level := c.Level
	if level == 0 {
		level = ZstdDefaultCompression
	}
	return zstdEncode(buf, level)
}

func (ZstdCompressor) decompress(buf []byte, uln int) ([]byte, error) {
	return zstdDecode(make([]byte, 0, uln), buf)
}
