package value

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKind_String(t *testing.T) {
	tests := []struct {
		v    Value
		kind Kind
		name string
	}{
		{Nil{}, KindNil, "nil"},
		{Bool(true), KindBool, "bool"},
		{Int(-1), KindInt, "int"},
		{Uint(1), KindUint, "uint"},
		{Float32(1), KindFloat32, "float32"},
		{Float64(1), KindFloat64, "float64"},
		{Str("x"), KindStr, "str"},
		{Bin{0x01}, KindBin, "bin"},
		{NewArray(), KindArray, "array"},
		{NewMap(), KindMap, "map"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.kind, tt.v.Kind())
			require.Equal(t, tt.name, tt.kind.String())
		})
	}
	require.Equal(t, "invalid", KindInvalid.String())
	require.True(t, KindArray.IsContainer())
	require.True(t, KindMap.IsContainer())
	require.False(t, KindStr.IsContainer())
}

func TestEqual(t *testing.T) {
	nan32 := Float32(float32(math.NaN()))
	nan64 := Float64(math.NaN())

	assert.True(t, Equal(Nil{}, nil))
	assert.True(t, Equal(nil, Nil{}))
	assert.True(t, Equal(nan32, nan32))
	assert.True(t, Equal(nan64, nan64))
	assert.True(t, Equal(Bin(nil), Bin{}))
	assert.True(t, Equal(
		NewMap(P(Str("a"), Int(1)), P(Str("b"), NewArray(Bool(true), Nil{}))),
		NewMap(P(Str("a"), Int(1)), P(Str("b"), NewArray(Bool(true), Nil{}))),
	))

	assert.False(t, Equal(Int(1), Uint(1)))
	assert.False(t, Equal(Float32(1), Float64(1)))
	assert.False(t, Equal(Str("ab"), Bin("ab")))
	assert.False(t, Equal(Float64(0), Float64(math.Copysign(0, -1))))
	assert.False(t, Equal(NewArray(Int(1)), NewArray(Int(1), Int(2))))
	// order is significant for maps
	assert.False(t, Equal(
		NewMap(P(Str("a"), Int(1)), P(Str("b"), Int(2))),
		NewMap(P(Str("b"), Int(2)), P(Str("a"), Int(1))),
	))
}

func TestMap_GetKeys(t *testing.T) {
	m := NewMap(
		P(Str("a"), Int(1)),
		P(Int(7), Str("seven")),
		P(Str("a"), Int(2)),
	)

	v, ok := m.Get(Str("a"))
	require.True(t, ok)
	require.Equal(t, Int(1), v)

	v, ok = m.Get(Int(7))
	require.True(t, ok)
	require.Equal(t, Str("seven"), v)

	_, ok = m.Get(Uint(7))
	require.False(t, ok)

	require.Equal(t, []Value{Str("a"), Int(7), Str("a")}, m.Keys())
	require.Equal(t, 3, m.Len())
}

func TestValidUTF8(t *testing.T) {
	require.True(t, ValidUTF8(NewMap(P(Str("ключ"), NewArray(Str("ok"))))))
	require.False(t, ValidUTF8(NewArray(Str("\xff\xfe"))))
	require.False(t, ValidUTF8(NewMap(P(Str("\xc3"), Nil{}))))
	// bin payloads are never inspected
	require.True(t, ValidUTF8(Bin{0xff}))
}

func TestString(t *testing.T) {
	v := NewMap(
		P(Str("a"), Int(1)),
		P(Str("b"), NewArray(Bool(true), Nil{})),
		P(Str("c"), Uint(7)),
		P(Str("d"), Float32(1.5)),
		P(Str("e"), Float64(2)),
		P(Str("f"), Bin{0x00, 0xff}),
		P(Str("g"), Float64(math.Inf(-1))),
	)
	require.Equal(t,
		`{"a": 1, "b": [true, nil], "c": 7u, "d": 1.5f32, "e": 2.0, "f": h'00ff', "g": -Infinity}`,
		String(v),
	)
	require.Equal(t, `"x"`, Str("x").String())
}
