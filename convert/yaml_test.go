package convert

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"ziproto/value"
)

func TestParseYAML(t *testing.T) {
	doc := `
name: ziproto
count: 3
big: 18446744073709551615
ratio: 0.25
on: true
none: ~
raw: !!binary 3q0=
list: [1, two]
1: numeric key
anchor: &a {x: 1}
alias: *a
`
	v, err := ParseYAML([]byte(doc))
	require.NoError(t, err)
	expected := value.NewMap(
		value.P(value.Str("name"), value.Str("ziproto")),
		value.P(value.Str("count"), value.Int(3)),
		value.P(value.Str("big"), value.Uint(math.MaxUint64)),
		value.P(value.Str("ratio"), value.Float64(0.25)),
		value.P(value.Str("on"), value.Bool(true)),
		value.P(value.Str("none"), value.Nil{}),
		value.P(value.Str("raw"), value.Bin{0xde, 0xad}),
		value.P(value.Str("list"), value.NewArray(value.Int(1), value.Str("two"))),
		value.P(value.Int(1), value.Str("numeric key")),
		value.P(value.Str("anchor"), value.NewMap(value.P(value.Str("x"), value.Int(1)))),
		value.P(value.Str("alias"), value.NewMap(value.P(value.Str("x"), value.Int(1)))),
	)
	require.True(t, value.Equal(expected, v), value.String(v))
}

func TestParseYAML_Invalid(t *testing.T) {
	for _, in := range []string{"", "a: [1", "a: !!binary not*base64"} {
		_, err := ParseYAML([]byte(in))
		require.Error(t, err, in)
	}
}

func TestParseYAML_AliasExpansion(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("a0: &a0 [x, x, x, x, x, x, x, x, x, x]\n")
	for i := 1; i < 8; i++ {
		sb.WriteString("a")
		sb.WriteString(string(rune('0' + i)))
		sb.WriteString(": &a")
		sb.WriteString(string(rune('0' + i)))
		sb.WriteString(" [")
		for j := 0; j < 10; j++ {
			if j > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString("*a")
			sb.WriteString(string(rune('0' + i - 1)))
		}
		sb.WriteString("]\n")
	}
	_, err := ParseYAML([]byte(sb.String()))
	require.Error(t, err)
}

func TestMarshalYAML(t *testing.T) {
	v := value.NewMap(
		value.P(value.Str("name"), value.Str("ziproto")),
		value.P(value.Str("digits"), value.Str("123")),
		value.P(value.Str("n"), value.Int(-4)),
		value.P(value.Str("f"), value.Float64(2)),
		value.P(value.Str("inf"), value.Float32(float32(math.Inf(-1)))),
		value.P(value.Str("raw"), value.Bin{0xde, 0xad}),
		value.P(value.Str("list"), value.NewArray(value.Nil{}, value.Bool(false))),
		value.P(value.Str("empty"), value.NewArray()),
	)
	out, err := MarshalYAML(v)
	require.NoError(t, err)
	lines := strings.Split(string(out), "\n")
	require.Equal(t, "name: ziproto", lines[0])
	for _, line := range []string{
		`digits: "123"`,
		"n: -4",
		"f: 2.0",
		"inf: -.inf",
		"raw: !!binary 3q0=",
		"empty: []",
	} {
		require.Contains(t, lines, line)
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	v := value.NewMap(
		value.P(value.Str("s"), value.Str("multi\nline")),
		value.P(value.Int(5), value.NewArray(value.Uint(math.MaxUint64), value.Float64(-0.5))),
		value.P(value.NewArray(value.Int(1)), value.NewMap()),
		value.P(value.Str("b"), value.Bin{0, 1, 2}),
	)
	out, err := MarshalYAML(v)
	require.NoError(t, err)
	back, err := ParseYAML(out)
	require.NoError(t, err)
	require.True(t, value.Equal(v, back), "%s\n%s", out, value.String(back))
}
