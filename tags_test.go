package serbuf

import (
	"reflect"
	"testing"
)

type tagged struct {
	A string `serbuf:"a"`
	B int    `serbuf:"b,omitempty"`
	C bool   // untagged, keeps its Go name
	D string `serbuf:"-"`
	e string // unexported
}

func TestTagsCache(t *testing.T) {
	want := []fieldTag{
		{"a", 0, false},
		{"b", 1, true},
		{"C", 2, false},
	}

	got := tagsCache.Get(reflect.TypeOf(tagged{}))
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v", got)
	}

	// second lookup is served from the cache
	got = tagsCache.Get(reflect.TypeOf(tagged{}))
	if !reflect.DeepEqual(got, want) {
		t.Errorf("cached: got %v", got)
	}

	if m := tagsCache.Get(reflect.TypeOf(0)); m != nil {
		t.Errorf("non-struct: got %v", m)
	}
}

func TestIsEmptyValue(t *testing.T) {
	empties := []interface{}{"", 0, uint(0), false, 0.0, []int(nil), map[string]int(nil), (*int)(nil)}
	for _, v := range empties {
		if !isEmptyValue(reflect.ValueOf(v)) {
			t.Errorf("%#v not empty", v)
		}
	}
	one := 1
	full := []interface{}{"x", 1, uint(1), true, 0.5, []int{0}, map[string]int{"": 0}, &one}
	for _, v := range full {
		if isEmptyValue(reflect.ValueOf(v)) {
			t.Errorf("%#v empty", v)
		}
	}
}
