// Package convert moves values between the ziproto model and Go, JSON and
// YAML. Validation of host data (unsupported Go types, cycles, documents
// that cannot be represented) happens here, never in the codec.
package convert

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"

	"ziproto/codec"
	"ziproto/value"
)

var ErrUnsupportedType = errors.New("unsupported type")

// maxNesting bounds the recursion of every conversion in this package.
const maxNesting = codec.DefaultMaxDepth

// FromNative builds a value from a Go value. Structs become maps keyed by
// lowercased field name, or by the `ziproto` struct tag when present (`-`
// skips the field). Go maps are emitted with their keys sorted so the result
// is deterministic.
func FromNative(x interface{}) (value.Value, error) {
	return fromNative(reflect.ValueOf(x), 0)
}

func fromNative(v reflect.Value, depth int) (value.Value, error) {
	if depth > maxNesting {
		return nil, errors.Wrapf(codec.ErrDepthExceeded, "nesting deeper than %d", maxNesting)
	}
	if !v.IsValid() {
		return value.Nil{}, nil
	}

	if v.CanInterface() {
		switch x := v.Interface().(type) {
		case value.Value:
			return x, nil
		case time.Duration:
			return value.Int(x.Nanoseconds()), nil
		case time.Time:
			return value.Str(x.Format(time.RFC3339Nano)), nil
		}
	}

	switch v.Kind() {
	case reflect.Ptr, reflect.Interface:
		if v.IsNil() {
			return value.Nil{}, nil
		}
		return fromNative(v.Elem(), depth+1)
	case reflect.Bool:
		return value.Bool(v.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return value.Int(v.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return value.Uint(v.Uint()), nil
	case reflect.Float32:
		return value.Float32(float32(v.Float())), nil
	case reflect.Float64:
		return value.Float64(v.Float()), nil
	case reflect.String:
		return value.Str(v.String()), nil
	case reflect.Slice:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			if v.IsNil() {
				return value.Nil{}, nil
			}
			return value.Bin(append([]byte(nil), v.Bytes()...)), nil
		}
		if v.IsNil() {
			return value.Nil{}, nil
		}
		return fromSequence(v, depth)
	case reflect.Array:
		return fromSequence(v, depth)
	case reflect.Map:
		if v.IsNil() {
			return value.Nil{}, nil
		}
		return fromMap(v, depth)
	case reflect.Struct:
		return fromStruct(v, depth)
	}

	return nil, errors.Wrapf(ErrUnsupportedType, "%s", v.Type())
}

func fromSequence(v reflect.Value, depth int) (value.Value, error) {
	arr := make(value.Array, v.Len())
	for i := range arr {
		e, err := fromNative(v.Index(i), depth+1)
		if err != nil {
			return nil, errors.Wrapf(err, "index %d", i)
		}
		arr[i] = e
	}
	return arr, nil
}

func fromMap(v reflect.Value, depth int) (value.Value, error) {
	m := make(value.Map, 0, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		k, err := fromNative(iter.Key(), depth+1)
		if err != nil {
			return nil, errors.Wrap(err, "map key")
		}
		e, err := fromNative(iter.Value(), depth+1)
		if err != nil {
			return nil, errors.Wrapf(err, "map value for %s", value.String(k))
		}
		m = append(m, value.P(k, e))
	}
	sort.SliceStable(m, func(i, j int) bool {
		return value.String(m[i].Key) < value.String(m[j].Key)
	})
	return m, nil
}

func fromStruct(v reflect.Value, depth int) (value.Value, error) {
	m := value.NewMap()
	tp := v.Type()
	for i := 0; i < v.NumField(); i++ {
		sf := tp.Field(i)
		f := v.Field(i)

		if sf.Anonymous && f.Kind() == reflect.Struct {
			inner, err := fromStruct(f, depth)
			if err != nil {
				return nil, err
			}
			m = append(m, inner.(value.Map)...)
			continue
		}
		if sf.PkgPath != "" {
			continue
		}

		name := strings.ToLower(sf.Name)
		if tag, ok := sf.Tag.Lookup("ziproto"); ok {
			if tag == "-" {
				continue
			}
			name = tag
		}

		e, err := fromNative(f, depth+1)
		if err != nil {
			return nil, errors.Wrapf(err, "field %s", sf.Name)
		}
		m = append(m, value.P(value.Str(name), e))
	}
	return m, nil
}

// ToNative returns the plain Go form of v: nil, bool, int64, uint64, float32,
// float64, string, []byte, []interface{} and maps. A map whose keys are all
// Str becomes map[string]interface{}; any other map becomes
// map[interface{}]interface{}, with Bin, Array and Map keys replaced by their
// diagnostic notation since they are not comparable in Go. On duplicate keys
// the last pair wins.
func ToNative(v value.Value) interface{} {
	switch x := v.(type) {
	case nil, value.Nil:
		return nil
	case value.Bool:
		return bool(x)
	case value.Int:
		return int64(x)
	case value.Uint:
		return uint64(x)
	case value.Float32:
		return float32(x)
	case value.Float64:
		return float64(x)
	case value.Str:
		return string(x)
	case value.Bin:
		return []byte(x)
	case value.Array:
		out := make([]interface{}, len(x))
		for i, e := range x {
			out[i] = ToNative(e)
		}
		return out
	case value.Map:
		if allStrKeys(x) {
			out := make(map[string]interface{}, len(x))
			for _, p := range x {
				out[string(p.Key.(value.Str))] = ToNative(p.Value)
			}
			return out
		}
		out := make(map[interface{}]interface{}, len(x))
		for _, p := range x {
			out[nativeKey(p.Key)] = ToNative(p.Value)
		}
		return out
	}

	panic(fmt.Sprintf("convert: unknown value implementation %T", v))
}

func allStrKeys(m value.Map) bool {
	for _, p := range m {
		if _, ok := p.Key.(value.Str); !ok {
			return false
		}
	}
	return true
}

func nativeKey(k value.Value) interface{} {
	switch value.KindOf(k) {
	case value.KindBin, value.KindArray, value.KindMap:
		return value.String(k)
	}
	return ToNative(k)
}
