package msgpack

// Wire tag bytes.
const (
	maxPosFixint = 0x7F
	negFixint    = 0xE0
	minNegFixint = -32

	tagNil      = 0xC0
	tagReserved = 0xC1
	tagFalse    = 0xC2
	tagTrue     = 0xC3

	tagFixmap      = 0x80 // 1000xxxx
	maxFixmapLen   = 0x0F
	tagFixarray    = 0x90 // 1001xxxx
	maxFixarrayLen = 0x0F
	tagFixstr      = 0xA0 // 101xxxxx
	maxFixstrLen   = 0x1F

	tagBin8  = 0xC4
	tagBin16 = 0xC5
	tagBin32 = 0xC6

	tagExt8  = 0xC7
	tagExt16 = 0xC8
	tagExt32 = 0xC9

	tagFloat32 = 0xCA
	tagFloat64 = 0xCB

	tagUint8  = 0xCC
	tagUint16 = 0xCD
	tagUint32 = 0xCE
	tagUint64 = 0xCF

	tagInt8  = 0xD0
	tagInt16 = 0xD1
	tagInt32 = 0xD2
	tagInt64 = 0xD3

	tagFixext1  = 0xD4
	tagFixext2  = 0xD5
	tagFixext4  = 0xD6
	tagFixext8  = 0xD7
	tagFixext16 = 0xD8

	tagStr8  = 0xD9
	tagStr16 = 0xDA
	tagStr32 = 0xDB

	tagArray16 = 0xDC
	tagArray32 = 0xDD

	tagMap16 = 0xDE
	tagMap32 = 0xDF
)

func isFixmap(c byte) bool   { return c&0xF0 == tagFixmap }
func isFixarray(c byte) bool { return c&0xF0 == tagFixarray }
func isFixstr(c byte) bool   { return c&0xE0 == tagFixstr }
func isPosFixint(c byte) bool { return c <= maxPosFixint }
func isNegFixint(c byte) bool { return c >= negFixint }
