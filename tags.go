package serbuf

import (
	"reflect"
	"strings"
	"sync"
)

// structTags caches the wire layout of struct types. Field names come
// from `serbuf:"name"` tags; "-" skips a field, ",omitempty" drops zero
// values on encode.
type structTags struct {
	mu   sync.RWMutex
	cmap map[reflect.Type][]fieldTag
}

type fieldTag struct {
	name      string
	index     int
	omitEmpty bool
}

var tagsCache structTags

func (tc *structTags) Get(t reflect.Type) []fieldTag {
	if t.Kind() != reflect.Struct {
		return nil
	}

	tc.mu.RLock()
	m, ok := tc.cmap[t]
	tc.mu.RUnlock()
	if ok {
		return m
	}

	l := t.NumField()
	m = make([]fieldTag, 0, l)
	for i := 0; i < l; i++ {
		f := t.Field(i)
		name, opts := parseTag(f.Tag.Get("serbuf"))
		if name == "-" {
			continue
		}
		if name == "" {
			if f.PkgPath != "" {
				// field not exported -- skip
				continue
			}
			name = f.Name
		}
		m = append(m, fieldTag{name, i, opts.Contains("omitempty")})
	}
	if len(m) == 0 {
		m = nil
	}

	tc.mu.Lock()
	if tc.cmap == nil {
		tc.cmap = make(map[reflect.Type][]fieldTag)
	}
	tc.cmap[t] = m
	tc.mu.Unlock()
	return m
}

type tagOptions string

func parseTag(tag string) (string, tagOptions) {
	if idx := strings.Index(tag, ","); idx != -1 {
		return tag[:idx], tagOptions(tag[idx+1:])
	}
	return tag, tagOptions("")
}

func (o tagOptions) Contains(optionName string) bool {
	if len(o) == 0 {
		return false
	}
	s := string(o)
	for s != "" {
		var next string
		i := strings.Index(s, ",")
		if i >= 0 {
			s, next = s[:i], s[i+1:]
		}
		if s == optionName {
			return true
		}
		s = next
	}
	return false
}

func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Interface, reflect.Ptr:
		return v.IsNil()
	}
	return false
}
