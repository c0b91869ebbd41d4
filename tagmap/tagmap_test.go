package tagmap

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ziproto/value"
)

func TestLookup_Total(t *testing.T) {
	reserved := map[byte]bool{
		0xc1: true,
		0xc7: true, 0xc8: true, 0xc9: true,
		0xd4: true, 0xd5: true, 0xd6: true, 0xd7: true, 0xd8: true,
	}

	for i := 0; i < 256; i++ {
		e := Lookup(byte(i))
		require.Equal(t, byte(i), e.Tag)
		if reserved[byte(i)] {
			require.False(t, e.Known(), "0x%02x should be reserved", i)
			require.Equal(t, value.KindInvalid, e.Kind)
			continue
		}
		require.True(t, e.Known(), "0x%02x should be assigned", i)
		require.NotEqual(t, value.KindInvalid, e.Kind)
		if e.Layout == LayoutInline {
			require.Zero(t, e.Width)
		} else {
			require.Contains(t, []int{1, 2, 4, 8}, e.Width)
		}
	}
}

func TestLookup_Inline(t *testing.T) {
	e := Lookup(0x7f)
	assert.Equal(t, value.KindInt, e.Kind)
	assert.EqualValues(t, 127, e.InlineInt())

	e = Lookup(0xe0)
	assert.Equal(t, value.KindInt, e.Kind)
	assert.EqualValues(t, -32, e.InlineInt())

	e = Lookup(0xff)
	assert.EqualValues(t, -1, e.InlineInt())

	e = Lookup(0x8f)
	assert.Equal(t, value.KindMap, e.Kind)
	assert.EqualValues(t, 15, e.Inline)

	e = Lookup(0x93)
	assert.Equal(t, value.KindArray, e.Kind)
	assert.EqualValues(t, 3, e.Inline)

	e = Lookup(0xbf)
	assert.Equal(t, value.KindStr, e.Kind)
	assert.EqualValues(t, 31, e.Inline)

	assert.EqualValues(t, 1, Lookup(True).Inline)
	assert.EqualValues(t, 0, Lookup(False).Inline)
	assert.Equal(t, "0xc1 reserved", Lookup(0xc1).String())
	assert.Equal(t, "0xdc array16", Lookup(Array16).String())
}

func TestTable_IsCopy(t *testing.T) {
	tbl := Table()
	tbl[0] = Entry{}
	require.True(t, Lookup(0).Known())
}

func TestIntHeader(t *testing.T) {
	tests := []struct {
		n     int64
		tag   byte
		width int
	}{
		{0, 0x00, 0},
		{127, 0x7f, 0},
		{-1, 0xff, 0},
		{-32, 0xe0, 0},
		{-33, Int8, 1},
		{math.MinInt8, Int8, 1},
		{128, Int16, 2},
		{math.MinInt8 - 1, Int16, 2},
		{math.MaxInt16, Int16, 2},
		{math.MaxInt16 + 1, Int32, 4},
		{math.MinInt32, Int32, 4},
		{math.MaxInt32 + 1, Int64, 8},
		{math.MinInt64, Int64, 8},
	}
	for _, tt := range tests {
		tag, width := IntHeader(tt.n)
		assert.Equal(t, tt.tag, tag, "n=%d", tt.n)
		assert.Equal(t, tt.width, width, "n=%d", tt.n)
	}
}

func TestUintHeader(t *testing.T) {
	tests := []struct {
		n     uint64
		tag   byte
		width int
	}{
		{0, Uint8, 1},
		{127, Uint8, 1},
		{128, Uint8, 1},
		{math.MaxUint8, Uint8, 1},
		{math.MaxUint8 + 1, Uint16, 2},
		{math.MaxUint16 + 1, Uint32, 4},
		{math.MaxUint32, Uint32, 4},
		{math.MaxUint32 + 1, Uint64, 8},
		{math.MaxUint64, Uint64, 8},
	}
	for _, tt := range tests {
		tag, width := UintHeader(tt.n)
		assert.Equal(t, tt.tag, tag, "n=%d", tt.n)
		assert.Equal(t, tt.width, width, "n=%d", tt.n)
	}
}

func TestLengthHeaders(t *testing.T) {
	type headerFunc func(int) (byte, int, error)
	tests := []struct {
		name  string
		fn    headerFunc
		n     int
		tag   byte
		width int
	}{
		{"str fix empty", StrHeader, 0, 0xa0, 0},
		{"str fix max", StrHeader, 31, 0xbf, 0},
		{"str8", StrHeader, 32, Str8, 1},
		{"str16", StrHeader, 256, Str16, 2},
		{"str32", StrHeader, 1 << 16, Str32, 4},
		{"bin8 empty", BinHeader, 0, Bin8, 1},
		{"bin8", BinHeader, 255, Bin8, 1},
		{"bin16", BinHeader, 256, Bin16, 2},
		{"bin32", BinHeader, 1 << 16, Bin32, 4},
		{"fixarray", ArrayHeader, 15, 0x9f, 0},
		{"array16", ArrayHeader, 16, Array16, 2},
		{"array32", ArrayHeader, 1 << 16, Array32, 4},
		{"fixmap", MapHeader, 0, 0x80, 0},
		{"map16", MapHeader, 65535, Map16, 2},
		{"map32", MapHeader, 65536, Map32, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tag, width, err := tt.fn(tt.n)
			require.NoError(t, err)
			require.Equal(t, tt.tag, tag)
			require.Equal(t, tt.width, width)
		})
	}
}

func TestLengthHeaders_Overflow(t *testing.T) {
	if math.MaxInt == math.MaxInt32 {
		t.Skip("lengths above 32 bits are unrepresentable on this platform")
	}
	limit := uint64(MaxLength)
	n := int(limit + 1)
	for _, fn := range []func(int) (byte, int, error){StrHeader, BinHeader, ArrayHeader, MapHeader} {
		_, _, err := fn(n)
		require.Error(t, err)
		require.True(t, errors.Is(err, ErrLengthOverflow))
	}
}

func TestPutHeaderReadField(t *testing.T) {
	require.Equal(t, []byte{0xcd, 0x01, 0x2c}, PutHeader(nil, Uint16, 2, 300))
	require.Equal(t, []byte{0xc0}, PutHeader(nil, Nil, 0, 0))
	require.Equal(t,
		[]byte{0xcf, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08},
		PutHeader(nil, Uint64, 8, 0x0102030405060708),
	)

	for _, width := range []int{1, 2, 4, 8} {
		field := uint64(0x8877665544332211) >> uint(64-8*width)
		b := PutHeader(nil, 0, width, field)
		require.Equal(t, field, ReadField(b[1:], width))
	}

	assert.EqualValues(t, -1, SignExtend(0xff, 1))
	assert.EqualValues(t, -2, SignExtend(0xfffe, 2))
	assert.EqualValues(t, math.MinInt32, SignExtend(0x80000000, 4))
	assert.EqualValues(t, -3, SignExtend(0xfffffffffffffffd, 8))
	assert.Panics(t, func() { PutHeader(nil, 0, 3, 0) })
}
