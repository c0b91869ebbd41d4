package codec

import (
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"ziproto/value"
)

// corpus covers every tag family at least once.
func corpus() map[string]value.Value {
	return map[string]value.Value{
		"nil":              value.Nil{},
		"true":             value.Bool(true),
		"false":            value.Bool(false),
		"fixint max":       value.Int(127),
		"negative fixint":  value.Int(-32),
		"int8":             value.Int(-100),
		"int16":            value.Int(1000),
		"int32":            value.Int(-100000),
		"int64":            value.Int(math.MinInt64),
		"uint8 zero":       value.Uint(0),
		"uint8 small":      value.Uint(5),
		"uint8":            value.Uint(200),
		"uint16":           value.Uint(60000),
		"uint32":           value.Uint(math.MaxUint32),
		"uint64":           value.Uint(math.MaxUint64),
		"float32":          value.Float32(-0.375),
		"float64":          value.Float64(math.Pi),
		"float64 inf":      value.Float64(math.Inf(1)),
		"empty str":        value.Str(""),
		"fixstr":           value.Str("hello"),
		"str8":             value.Str(strings.Repeat("s", 200)),
		"str16":            value.Str(strings.Repeat("t", 70000)),
		"invalid utf8 str": value.Str("\xff\xfe"),
		"empty bin":        value.Bin{},
		"bin8":             value.Bin{0x00, 0x01, 0xff},
		"bin16":            value.Bin(make([]byte, 300)),
		"empty array":      value.NewArray(),
		"fixarray":         value.NewArray(value.Int(1), value.Str("two"), value.Nil{}),
		"array16":          value.Array(repeat(value.Bool(true), 16)),
		"empty map":        value.NewMap(),
		"fixmap":           value.NewMap(value.P(value.Str("k"), value.Float32(1))),
		"map16": value.Map(func() []value.Pair {
			pairs := make([]value.Pair, 20)
			for i := range pairs {
				pairs[i] = value.P(value.Int(i), value.Int(-i))
			}
			return pairs
		}()),
		"duplicate keys": value.NewMap(
			value.P(value.Str("a"), value.Int(1)),
			value.P(value.Str("a"), value.Int(2)),
		),
		"nested": value.NewMap(
			value.P(value.Str("a"), value.Int(1)),
			value.P(value.Str("b"), value.NewArray(value.Bool(true), value.Nil{})),
			value.P(value.NewArray(value.Int(1)), value.NewMap(value.P(value.Nil{}, value.Bin{0x01}))),
		),
	}
}

func repeat(v value.Value, n int) []value.Value {
	out := make([]value.Value, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// genValue builds a random tree. Containers stop appearing below maxDepth.
func genValue(r *rand.Rand, depth, maxDepth int) value.Value {
	choices := 10
	if depth >= maxDepth {
		choices = 8
	}
	switch r.Intn(choices) {
	case 0:
		return value.Nil{}
	case 1:
		return value.Bool(r.Intn(2) == 0)
	case 2:
		return value.Int(genInt(r))
	case 3:
		return value.Uint(uint64(genInt(r)) >> uint(r.Intn(64)))
	case 4:
		return value.Float32(float32(r.NormFloat64()))
	case 5:
		return value.Float64(r.NormFloat64() * 1e6)
	case 6:
		b := make([]byte, genLen(r))
		r.Read(b)
		return value.Str(b)
	case 7:
		b := make([]byte, genLen(r))
		r.Read(b)
		return value.Bin(b)
	case 8:
		arr := make(value.Array, r.Intn(20))
		for i := range arr {
			arr[i] = genValue(r, depth+1, maxDepth)
		}
		return arr
	default:
		m := make(value.Map, r.Intn(20))
		for i := range m {
			m[i] = value.P(genValue(r, depth+1, maxDepth), genValue(r, depth+1, maxDepth))
		}
		return m
	}
}

func genInt(r *rand.Rand) int64 {
	n := r.Int63() >> uint(r.Intn(63))
	if r.Intn(2) == 0 {
		return -n
	}
	return n
}

func genLen(r *rand.Rand) int {
	switch r.Intn(10) {
	case 0:
		return 0
	case 1:
		return 32 + r.Intn(300)
	default:
		return r.Intn(32)
	}
}

func requireValueEqual(t *testing.T, expected, actual value.Value) {
	t.Helper()
	require.True(t, value.Equal(expected, actual),
		"expected %s\nactual   %s", abbreviate(expected), abbreviate(actual))
}

func abbreviate(v value.Value) string {
	s := value.String(v)
	if len(s) > 512 {
		return s[:512] + "..."
	}
	return s
}

func nested(depth int, leaf value.Value) value.Value {
	v := leaf
	for i := 0; i < depth; i++ {
		v = value.NewArray(v)
	}
	return v
}
