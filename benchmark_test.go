package serbuf_test

import (
	"testing"

	"github.com/serbuf/serbuf/frame"
	"github.com/serbuf/serbuf/json"
	"github.com/serbuf/serbuf/msgpack"
)

type planet struct {
	Pos               int      `serbuf:"pos"`
	Name              string   `serbuf:"name"`
	MassEarths        float64  `serbuf:"mass_earths"`
	NotableSatellites []string `serbuf:"notable_satellites"`
}

var solarSystem = map[string]interface{}{
	"galaxy": "Milky Way",
	"age":    4568,
	"stars":  []string{"Sun"},
	"planets": []planet{
		{1, "Mercury", 0.055, []string{}},
		{2, "Venus", 0.815, []string{}},
		{3, "Earth", 1.0, []string{"Moon"}},
		{4, "Mars", 0.107, []string{"Phobos", "Deimos"}},
		{5, "Jupiter", 317.83, []string{"Io", "Europa", "Ganymede", "Callisto"}},
		{6, "Saturn", 95.16, []string{"Titan", "Rhea", "Enceladus"}},
		{7, "Uranus", 14.536, []string{"Oberon", "Titania", "Miranda", "Ariel", "Umbriel"}},
		{8, "Neptune", 17.15, []string{"Tritan"}},
	},
}

func BenchmarkJSONEncodeComplexData(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, err := json.Marshal(solarSystem)
		if err != nil {
			b.FailNow()
		}
	}
}

func BenchmarkJSONDecodeComplexData(b *testing.B) {
	enc, err := json.Marshal(solarSystem)
	if err != nil {
		b.FailNow()
	}
	buf := make([]byte, len(enc))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		copy(buf, enc) // decoding unescapes in place
		var m interface{}
		if err := json.Unmarshal(buf, &m); err != nil {
			b.FailNow()
		}
	}
}

func BenchmarkMsgpackEncodeComplexData(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, err := msgpack.Marshal(solarSystem)
		if err != nil {
			b.FailNow()
		}
	}
}

func BenchmarkMsgpackDecodeComplexData(b *testing.B) {
	enc, err := msgpack.Marshal(solarSystem)
	if err != nil {
		b.FailNow()
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var m interface{}
		if _, err := msgpack.Unmarshal(enc, &m); err != nil {
			b.FailNow()
		}
	}
}

func BenchmarkFrameSnappyComplexData(b *testing.B) {
	enc, err := msgpack.Marshal(solarSystem)
	if err != nil {
		b.FailNow()
	}
	e := frame.Encoder{Compression: frame.SnappyCompressor{}}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := e.Encode(enc); err != nil {
			b.FailNow()
		}
	}
}

func BenchmarkFrameZlibComplexData(b *testing.B) {
	enc, err := msgpack.Marshal(solarSystem)
	if err != nil {
		b.FailNow()
	}
	e := frame.Encoder{Compression: frame.ZlibCompressor{}}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := e.Encode(enc); err != nil {
			b.FailNow()
		}
	}
}
