// Package value defines the in-memory model shared by the encoder and the
// decoder: a closed set of kinds, each backed by a small concrete type.
//
// Every Value implementation lives in this package. Code that switches over
// a Value can therefore list the ten kinds and treat anything else as a
// programming error.
package value

import (
	"fmt"
	"math"
	"unicode/utf8"
)

// Kind identifies which member of the union a Value is.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindNil
	KindBool
	KindInt
	KindUint
	KindFloat32
	KindFloat64
	KindStr
	KindBin
	KindArray
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindFloat32:
		return "float32"
	case KindFloat64:
		return "float64"
	case KindStr:
		return "str"
	case KindBin:
		return "bin"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	default:
		return "invalid"
	}
}

// IsContainer reports whether values of kind k hold other values.
func (k Kind) IsContainer() bool {
	return k == KindArray || k == KindMap
}

// Value is one node of a value tree.
type Value interface {
	Kind() Kind
	value()
}

type (
	Nil     struct{}
	Bool    bool
	Int     int64
	Uint    uint64
	Float32 float32
	Float64 float64
	// Str is text as carried on the wire. The bytes are not checked for
	// UTF-8 validity; see ValidUTF8.
	Str string
	Bin []byte
	// Array is an ordered sequence of values.
	Array []Value
	// Map is an ordered association list. Keys may be any Value and may
	// repeat; order is preserved exactly.
	Map []Pair
)

// Pair is one key/value entry of a Map.
type Pair struct {
	Key   Value
	Value Value
}

var (
	_ Value = Nil{}
	_ Value = Bool(false)
	_ Value = Int(0)
	_ Value = Uint(0)
	_ Value = Float32(0)
	_ Value = Float64(0)
	_ Value = Str("")
	_ Value = Bin(nil)
	_ Value = Array(nil)
	_ Value = Map(nil)
)

func (Nil) Kind() Kind     { return KindNil }
func (Bool) Kind() Kind    { return KindBool }
func (Int) Kind() Kind     { return KindInt }
func (Uint) Kind() Kind    { return KindUint }
func (Float32) Kind() Kind { return KindFloat32 }
func (Float64) Kind() Kind { return KindFloat64 }
func (Str) Kind() Kind     { return KindStr }
func (Bin) Kind() Kind     { return KindBin }
func (Array) Kind() Kind   { return KindArray }
func (Map) Kind() Kind     { return KindMap }

func (Nil) value()     {}
func (Bool) value()    {}
func (Int) value()     {}
func (Uint) value()    {}
func (Float32) value() {}
func (Float64) value() {}
func (Str) value()     {}
func (Bin) value()     {}
func (Array) value()   {}
func (Map) value()     {}

// NewArray returns an Array holding vs. A call with no arguments returns an
// empty, non-nil array.
func NewArray(vs ...Value) Array {
	if vs == nil {
		return Array{}
	}
	return Array(vs)
}

// NewMap returns a Map holding pairs in the given order.
func NewMap(pairs ...Pair) Map {
	if pairs == nil {
		return Map{}
	}
	return Map(pairs)
}

// P builds a Pair.
func P(key, val Value) Pair {
	return Pair{Key: key, Value: val}
}

// Len returns the number of pairs.
func (m Map) Len() int {
	return len(m)
}

// Get returns the value of the first pair whose key is Equal to key.
func (m Map) Get(key Value) (Value, bool) {
	for _, p := range m {
		if Equal(p.Key, key) {
			return p.Value, true
		}
	}
	return nil, false
}

// Keys returns the keys in wire order.
func (m Map) Keys() []Value {
	keys := make([]Value, len(m))
	for i, p := range m {
		keys[i] = p.Key
	}
	return keys
}

// KindOf returns the kind of v, treating a nil interface as KindNil.
func KindOf(v Value) Kind {
	if v == nil {
		return KindNil
	}
	return v.Kind()
}

// Equal reports whether a and b are the same kind and hold the same data,
// recursively. Floats compare by bit pattern, so a NaN equals the same NaN.
// A nil interface equals Nil{}.
func Equal(a, b Value) bool {
	if KindOf(a) != KindOf(b) {
		return false
	}

	switch x := a.(type) {
	case nil, Nil:
		return true
	case Bool:
		return x == b.(Bool)
	case Int:
		return x == b.(Int)
	case Uint:
		return x == b.(Uint)
	case Float32:
		return math.Float32bits(float32(x)) == math.Float32bits(float32(b.(Float32)))
	case Float64:
		return math.Float64bits(float64(x)) == math.Float64bits(float64(b.(Float64)))
	case Str:
		return x == b.(Str)
	case Bin:
		return string(x) == string(b.(Bin))
	case Array:
		y := b.(Array)
		if len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	case Map:
		y := b.(Map)
		if len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i].Key, y[i].Key) || !Equal(x[i].Value, y[i].Value) {
				return false
			}
		}
		return true
	}

	panic(fmt.Sprintf("value: unknown implementation %T", a))
}

// ValidUTF8 reports whether every Str in the tree rooted at v, map keys
// included, holds valid UTF-8.
func ValidUTF8(v Value) bool {
	switch x := v.(type) {
	case Str:
		return utf8.ValidString(string(x))
	case Array:
		for _, e := range x {
			if !ValidUTF8(e) {
				return false
			}
		}
	case Map:
		for _, p := range x {
			if !ValidUTF8(p.Key) || !ValidUTF8(p.Value) {
				return false
			}
		}
	}
	return true
}
