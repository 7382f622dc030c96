package serbuf

import (
	"reflect"
)

// EncodeValue writes v through e using reflection. Struct fields follow
// the serbuf tag; nil pointers, nil interfaces, nil maps and nil slices
// encode as nil.
func EncodeValue(e Encoder, v any) error {
	if v == nil {
		return e.EncodeNil()
	}
	if val, ok := v.(Value); ok {
		return val.Encode(e)
	}
	return encodeValue(e, reflect.ValueOf(v))
}

// ReflectValue adapts an arbitrary Go value to the Value interface.
type ReflectValue struct{ V any }

func (r ReflectValue) Encode(e Encoder) error { return EncodeValue(e, r.V) }

type reflectValue struct{ rv reflect.Value }

func (r reflectValue) Encode(e Encoder) error { return encodeValue(e, r.rv) }

func encodeValue(e Encoder, rv reflect.Value) error {
	if !rv.IsValid() {
		return e.EncodeNil()
	}

	switch rv.Kind() {
	case reflect.Bool:
		return e.EncodeBool(rv.Bool())
	case reflect.Int8:
		return e.EncodeInt8(int8(rv.Int()))
	case reflect.Int16:
		return e.EncodeInt16(int16(rv.Int()))
	case reflect.Int32:
		return e.EncodeInt32(int32(rv.Int()))
	case reflect.Int, reflect.Int64:
		return e.EncodeInt64(rv.Int())
	case reflect.Uint8:
		return e.EncodeUint8(uint8(rv.Uint()))
	case reflect.Uint16:
		return e.EncodeUint16(uint16(rv.Uint()))
	case reflect.Uint32:
		return e.EncodeUint32(uint32(rv.Uint()))
	case reflect.Uint, reflect.Uint64, reflect.Uintptr:
		return e.EncodeUint64(rv.Uint())
	case reflect.Float32:
		return e.EncodeFloat32(float32(rv.Float()))
	case reflect.Float64:
		return e.EncodeFloat64(rv.Float())
	case reflect.String:
		return e.EncodeString(rv.String())
	case reflect.Slice:
		if rv.IsNil() {
			return e.EncodeNil()
		}
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return e.EncodeBytes(rv.Bytes())
		}
		return encodeSeq(e, rv)
	case reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			if !rv.CanAddr() {
				tmp := reflect.New(rv.Type()).Elem()
				tmp.Set(rv)
				rv = tmp
			}
			return e.EncodeBytes(rv.Slice(0, rv.Len()).Bytes())
		}
		return encodeSeq(e, rv)
	case reflect.Map:
		if rv.IsNil() {
			return e.EncodeNil()
		}
		return encodeMap(e, rv)
	case reflect.Struct:
		return encodeStruct(e, rv)
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return e.EncodeNil()
		}
		return encodeValue(e, rv.Elem())
	}
	return &CustomError{"unsupported type: " + rv.Type().String()}
}

func encodeSeq(e Encoder, rv reflect.Value) error {
	n := rv.Len()
	seq, err := e.EncodeSeq(n)
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := seq.EncodeElement(reflectValue{rv.Index(i)}); err != nil {
			return err
		}
	}
	return seq.End()
}

func encodeMap(e Encoder, rv reflect.Value) error {
	m, err := e.EncodeMap(rv.Len())
	if err != nil {
		return err
	}
	iter := rv.MapRange()
	for iter.Next() {
		if err := m.EncodeKey(reflectValue{iter.Key()}); err != nil {
			return err
		}
		if err := m.EncodeValue(reflectValue{iter.Value()}); err != nil {
			return err
		}
	}
	return m.End()
}

func encodeStruct(e Encoder, rv reflect.Value) error {
	t := rv.Type()
	tags := tagsCache.Get(t)

	n := 0
	for _, ft := range tags {
		if ft.omitEmpty && isEmptyValue(rv.Field(ft.index)) {
			continue
		}
		n++
	}

	st, err := e.EncodeStruct(t.Name(), n)
	if err != nil {
		return err
	}
	for _, ft := range tags {
		f := rv.Field(ft.index)
		if ft.omitEmpty && isEmptyValue(f) {
			continue
		}
		if err := st.EncodeField(ft.name, reflectValue{f}); err != nil {
			return err
		}
	}
	return st.End()
}
