package value

import (
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// String renders v in diagnostic notation:
//
//	nil  true  -3  7u  1.5f32  1.5  "text"  h'00ff'  [1, 2]  {"a": 1}
//
// Unsigned integers carry a "u" suffix and float32 values an "f32" suffix so
// that the notation distinguishes every kind.
func String(v Value) string {
	var sb strings.Builder
	format(&sb, v)
	return sb.String()
}

func format(sb *strings.Builder, v Value) {
	switch x := v.(type) {
	case nil, Nil:
		sb.WriteString("nil")
	case Bool:
		sb.WriteString(strconv.FormatBool(bool(x)))
	case Int:
		sb.WriteString(strconv.FormatInt(int64(x), 10))
	case Uint:
		sb.WriteString(strconv.FormatUint(uint64(x), 10))
		sb.WriteByte('u')
	case Float32:
		sb.WriteString(formatFloat(float64(x), 32))
		sb.WriteString("f32")
	case Float64:
		sb.WriteString(formatFloat(float64(x), 64))
	case Str:
		sb.WriteString(strconv.Quote(string(x)))
	case Bin:
		sb.WriteString("h'")
		sb.WriteString(hex.EncodeToString(x))
		sb.WriteByte('\'')
	case Array:
		sb.WriteByte('[')
		for i, e := range x {
			if i > 0 {
				sb.WriteString(", ")
			}
			format(sb, e)
		}
		sb.WriteByte(']')
	case Map:
		sb.WriteByte('{')
		for i, p := range x {
			if i > 0 {
				sb.WriteString(", ")
			}
			format(sb, p.Key)
			sb.WriteString(": ")
			format(sb, p.Value)
		}
		sb.WriteByte('}')
	default:
		panic(fmt.Sprintf("value: unknown implementation %T", v))
	}
}

func formatFloat(f float64, bits int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	s := strconv.FormatFloat(f, 'g', -1, bits)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func (v Nil) String() string     { return String(v) }
func (v Bool) String() string    { return String(v) }
func (v Int) String() string     { return String(v) }
func (v Uint) String() string    { return String(v) }
func (v Float32) String() string { return String(v) }
func (v Float64) String() string { return String(v) }
func (v Str) String() string     { return String(v) }
func (v Bin) String() string     { return String(v) }
func (v Array) String() string   { return String(v) }
func (v Map) String() string     { return String(v) }
