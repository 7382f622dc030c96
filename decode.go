package serbuf

import (
	"math"
	"reflect"
)

// DecodeValue parses one wire value from d into the value pointed to by
// v. Strings and byte slices borrow the decoder's input buffer where the
// format allows it; they alias the buffer until it is reused.
func DecodeValue(d Decoder, v any) error {
	if t, ok := v.(Target); ok {
		return t.Decode(d)
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return &CustomError{"target must be a non-nil pointer"}
	}
	return decodeValue(d, rv.Elem())
}

// ReflectTarget adapts a pointer to an arbitrary Go value to the Target
// interface.
type ReflectTarget struct{ V any }

func (r ReflectTarget) Decode(d Decoder) error { return DecodeValue(d, r.V) }

type targetValue struct{ rv reflect.Value }

func (t targetValue) Decode(d Decoder) error { return decodeValue(d, t.rv) }

func decodeValue(d Decoder, rv reflect.Value) error {
	vis := valueVisitor{rv}
	switch rv.Kind() {
	case reflect.Bool:
		return d.DecodeBool(vis)
	case reflect.Int8:
		return d.DecodeInt8(vis)
	case reflect.Int16:
		return d.DecodeInt16(vis)
	case reflect.Int32:
		return d.DecodeInt32(vis)
	case reflect.Int, reflect.Int64:
		return d.DecodeInt64(vis)
	case reflect.Uint8:
		return d.DecodeUint8(vis)
	case reflect.Uint16:
		return d.DecodeUint16(vis)
	case reflect.Uint32:
		return d.DecodeUint32(vis)
	case reflect.Uint, reflect.Uint64, reflect.Uintptr:
		return d.DecodeUint64(vis)
	case reflect.Float32:
		return d.DecodeFloat32(vis)
	case reflect.Float64:
		return d.DecodeFloat64(vis)
	case reflect.String:
		return d.DecodeStr(vis)
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return d.DecodeBytes(vis)
		}
		return d.DecodeSeq(vis)
	case reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return d.DecodeBytes(vis)
		}
		return d.DecodeSeq(vis)
	case reflect.Map:
		return d.DecodeMap(vis)
	case reflect.Struct:
		tags := tagsCache.Get(rv.Type())
		fields := make([]string, len(tags))
		for i, ft := range tags {
			fields[i] = ft.name
		}
		return d.DecodeStruct(fields, vis)
	case reflect.Ptr:
		return d.DecodeOption(vis)
	case reflect.Interface:
		if rv.NumMethod() != 0 {
			return &CustomError{"cannot decode into non-empty interface " + rv.Type().String()}
		}
		return d.DecodeAny(vis)
	}
	return &CustomError{"unsupported type: " + rv.Type().String()}
}

// valueVisitor assigns whatever the decoder produced into rv, with
// overflow checks on narrowing assignments.
type valueVisitor struct{ rv reflect.Value }

func (v valueVisitor) assignInt(n int64) error {
	rv := v.rv
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if rv.OverflowInt(n) {
			return &CustomError{"integer overflows " + rv.Type().String()}
		}
		rv.SetInt(n)
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if n < 0 || rv.OverflowUint(uint64(n)) {
			return &CustomError{"integer overflows " + rv.Type().String()}
		}
		rv.SetUint(uint64(n))
		return nil
	case reflect.Interface:
		rv.Set(reflect.ValueOf(n))
		return nil
	}
	return &UnexpectedVisit{"integer"}
}

func (v valueVisitor) assignUint(n uint64) error {
	rv := v.rv
	switch rv.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if rv.OverflowUint(n) {
			return &CustomError{"integer overflows " + rv.Type().String()}
		}
		rv.SetUint(n)
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if n > math.MaxInt64 || rv.OverflowInt(int64(n)) {
			return &CustomError{"integer overflows " + rv.Type().String()}
		}
		rv.SetInt(int64(n))
		return nil
	case reflect.Interface:
		rv.Set(reflect.ValueOf(n))
		return nil
	}
	return &UnexpectedVisit{"integer"}
}

func (v valueVisitor) VisitBool(b bool) error {
	switch v.rv.Kind() {
	case reflect.Bool:
		v.rv.SetBool(b)
		return nil
	case reflect.Interface:
		v.rv.Set(reflect.ValueOf(b))
		return nil
	}
	return &UnexpectedVisit{"bool"}
}

func (v valueVisitor) VisitInt8(n int8) error   { return v.visitI(int64(n), n) }
func (v valueVisitor) VisitInt16(n int16) error { return v.visitI(int64(n), n) }
func (v valueVisitor) VisitInt32(n int32) error { return v.visitI(int64(n), n) }
func (v valueVisitor) VisitInt64(n int64) error { return v.visitI(n, n) }

func (v valueVisitor) VisitUint8(n uint8) error   { return v.visitU(uint64(n), n) }
func (v valueVisitor) VisitUint16(n uint16) error { return v.visitU(uint64(n), n) }
func (v valueVisitor) VisitUint32(n uint32) error { return v.visitU(uint64(n), n) }
func (v valueVisitor) VisitUint64(n uint64) error { return v.visitU(n, n) }

// interface targets get the exact visited width; everything else goes
// through the checked assign helpers.
func (v valueVisitor) visitI(wide int64, exact any) error {
	if v.rv.Kind() == reflect.Interface {
		v.rv.Set(reflect.ValueOf(exact))
		return nil
	}
	return v.assignInt(wide)
}

func (v valueVisitor) visitU(wide uint64, exact any) error {
	if v.rv.Kind() == reflect.Interface {
		v.rv.Set(reflect.ValueOf(exact))
		return nil
	}
	return v.assignUint(wide)
}

func (v valueVisitor) VisitFloat32(f float32) error {
	switch v.rv.Kind() {
	case reflect.Float32, reflect.Float64:
		v.rv.SetFloat(float64(f))
		return nil
	case reflect.Interface:
		v.rv.Set(reflect.ValueOf(f))
		return nil
	}
	return &UnexpectedVisit{"float32"}
}

func (v valueVisitor) VisitFloat64(f float64) error {
	switch v.rv.Kind() {
	case reflect.Float32:
		v.rv.SetFloat(f)
		return nil
	case reflect.Float64:
		v.rv.SetFloat(f)
		return nil
	case reflect.Interface:
		v.rv.Set(reflect.ValueOf(f))
		return nil
	}
	return &UnexpectedVisit{"float64"}
}

func (v valueVisitor) VisitString(b []byte) error {
	rv := v.rv
	switch rv.Kind() {
	case reflect.String:
		rv.SetString(string(b))
		return nil
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			rv.SetBytes(b)
			return nil
		}
	case reflect.Interface:
		rv.Set(reflect.ValueOf(string(b)))
		return nil
	}
	return &UnexpectedVisit{"string"}
}

func (v valueVisitor) VisitBytes(b []byte) error {
	rv := v.rv
	switch rv.Kind() {
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			rv.SetBytes(b)
			return nil
		}
	case reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			if len(b) != rv.Len() {
				return &CustomError{"wrong length for " + rv.Type().String()}
			}
			reflect.Copy(rv, reflect.ValueOf(b))
			return nil
		}
	case reflect.String:
		rv.SetString(string(b))
		return nil
	case reflect.Interface:
		rv.Set(reflect.ValueOf(b))
		return nil
	}
	return &UnexpectedVisit{"bytes"}
}

func (v valueVisitor) VisitNil() error {
	v.rv.Set(reflect.Zero(v.rv.Type()))
	return nil
}

func (v valueVisitor) VisitSome(d Decoder) error {
	rv := v.rv
	if rv.Kind() != reflect.Ptr {
		return &UnexpectedVisit{"option"}
	}
	if rv.IsNil() {
		rv.Set(reflect.New(rv.Type().Elem()))
	}
	return decodeValue(d, rv.Elem())
}

func (v valueVisitor) VisitSeq(a SeqAccess) error {
	rv := v.rv
	switch rv.Kind() {
	case reflect.Slice:
		t := rv.Type()
		s := reflect.MakeSlice(t, 0, 8)
		for {
			ev := reflect.New(t.Elem()).Elem()
			ok, err := a.NextElement(targetValue{ev})
			if err != nil {
				return err
			}
			if !ok {
				break
			}
			s = reflect.Append(s, ev)
		}
		rv.Set(s)
		return nil
	case reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			ok, err := a.NextElement(targetValue{rv.Index(i)})
			if err != nil {
				return err
			}
			if !ok {
				return &CustomError{"not enough elements for " + rv.Type().String()}
			}
		}
		return nil
	case reflect.Struct:
		// positional encoding: fields in declaration order
		tags := tagsCache.Get(rv.Type())
		for _, ft := range tags {
			ok, err := a.NextElement(targetValue{rv.Field(ft.index)})
			if err != nil {
				return err
			}
			if !ok {
				break
			}
		}
		return nil
	case reflect.Interface:
		s := []any{}
		for {
			var e any
			ok, err := a.NextElement(targetValue{reflect.ValueOf(&e).Elem()})
			if err != nil {
				return err
			}
			if !ok {
				break
			}
			s = append(s, e)
		}
		rv.Set(reflect.ValueOf(s))
		return nil
	}
	return &UnexpectedVisit{"sequence"}
}

func (v valueVisitor) VisitMap(a MapAccess) error {
	rv := v.rv
	switch rv.Kind() {
	case reflect.Map:
		t := rv.Type()
		if rv.IsNil() {
			rv.Set(reflect.MakeMap(t))
		}
		for {
			kv := reflect.New(t.Key()).Elem()
			ok, err := a.NextKey(targetValue{kv})
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
			vv := reflect.New(t.Elem()).Elem()
			if err := a.NextValue(targetValue{vv}); err != nil {
				return err
			}
			rv.SetMapIndex(kv, vv)
		}
	case reflect.Struct:
		tags := tagsCache.Get(rv.Type())
		for {
			var id Identifier
			ok, err := a.NextKey(&id)
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
			f := fieldByIdentifier(rv, tags, &id)
			if !f.IsValid() {
				if err := a.NextValue(IgnoredTarget{}); err != nil {
					return err
				}
				continue
			}
			if err := a.NextValue(targetValue{f}); err != nil {
				return err
			}
		}
	case reflect.Interface:
		m := map[string]any{}
		for {
			var k any
			ok, err := a.NextKey(targetValue{reflect.ValueOf(&k).Elem()})
			if err != nil {
				return err
			}
			if !ok {
				break
			}
			var e any
			if err := a.NextValue(targetValue{reflect.ValueOf(&e).Elem()}); err != nil {
				return err
			}
			switch ks := k.(type) {
			case string:
				m[ks] = e
			case []byte:
				m[string(ks)] = e
			default:
				return &CustomError{"unsupported map key for interface target"}
			}
		}
		rv.Set(reflect.ValueOf(m))
		return nil
	}
	return &UnexpectedVisit{"map"}
}

func (v valueVisitor) VisitVariant(VariantAccess) error {
	// Go has no sum types; enum values need a hand-written Target.
	return &UnexpectedVisit{"variant"}
}

func fieldByIdentifier(rv reflect.Value, tags []fieldTag, id *Identifier) reflect.Value {
	if id.IsIndex {
		if int(id.Index) < len(tags) {
			return rv.Field(tags[id.Index].index)
		}
		return reflect.Value{}
	}
	name := string(id.Name)
	for _, ft := range tags {
		if ft.name == name {
			return rv.Field(ft.index)
		}
	}
	return reflect.Value{}
}

// Identifier is a Target for struct-field and enum-variant identifiers.
// Formats deliver either a borrowed name or a numeric index.
type Identifier struct {
	Name    []byte
	Index   uint32
	IsIndex bool
}

func (t *Identifier) Decode(d Decoder) error { return d.DecodeIdentifier(idVisitor{t: t}) }

type idVisitor struct {
	BaseVisitor
	t *Identifier
}

func (v idVisitor) VisitString(b []byte) error {
	v.t.Name, v.t.IsIndex = b, false
	return nil
}

func (v idVisitor) VisitBytes(b []byte) error { return v.VisitString(b) }

func (v idVisitor) VisitUint8(n uint8) error   { return v.VisitUint32(uint32(n)) }
func (v idVisitor) VisitUint16(n uint16) error { return v.VisitUint32(uint32(n)) }
func (v idVisitor) VisitUint32(n uint32) error {
	v.t.Index, v.t.IsIndex = n, true
	return nil
}
func (v idVisitor) VisitUint64(n uint64) error {
	if n > math.MaxUint32 {
		return &CustomError{"identifier index out of range"}
	}
	return v.VisitUint32(uint32(n))
}
