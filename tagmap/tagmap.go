// Package tagmap holds the dispatch table that maps every possible leading
// byte of an encoded value to its kind and layout, and the inverse rules the
// encoder uses to pick the narrowest header for a value.
//
// Byte layout:
//
//	0x00-0x7f  positive fixint      value in the tag
//	0x80-0x8f  fixmap               pair count in the low 4 bits
//	0x90-0x9f  fixarray             element count in the low 4 bits
//	0xa0-0xbf  fixstr               byte length in the low 5 bits
//	0xc0       nil
//	0xc1       reserved
//	0xc2 0xc3  false, true
//	0xc4-0xc6  bin8, bin16, bin32   1/2/4 byte length, then payload
//	0xc7-0xc9  reserved
//	0xca 0xcb  float32, float64     4/8 byte IEEE 754 value
//	0xcc-0xcf  uint8..uint64        1/2/4/8 byte value
//	0xd0-0xd3  int8..int64          1/2/4/8 byte two's complement value
//	0xd4-0xd8  reserved
//	0xd9-0xdb  str8, str16, str32   1/2/4 byte length, then payload
//	0xdc 0xdd  array16, array32     2/4 byte element count
//	0xde 0xdf  map16, map32         2/4 byte pair count
//	0xe0-0xff  negative fixint      value is int8(tag)
//
// All fields are big-endian. The layout is a subset of MessagePack; the
// reserved bytes are MessagePack's extension types, which this format does
// not carry.
package tagmap

import (
	"fmt"

	"ziproto/value"
)

const (
	PositiveFixIntMin byte = 0x00
	PositiveFixIntMax byte = 0x7f
	FixMap            byte = 0x80
	FixArray          byte = 0x90
	FixStr            byte = 0xa0
	Nil               byte = 0xc0
	False             byte = 0xc2
	True              byte = 0xc3
	Bin8              byte = 0xc4
	Bin16             byte = 0xc5
	Bin32             byte = 0xc6
	Float32           byte = 0xca
	Float64           byte = 0xcb
	Uint8             byte = 0xcc
	Uint16            byte = 0xcd
	Uint32            byte = 0xce
	Uint64            byte = 0xcf
	Int8              byte = 0xd0
	Int16             byte = 0xd1
	Int32             byte = 0xd2
	Int64             byte = 0xd3
	Str8              byte = 0xd9
	Str16             byte = 0xda
	Str32             byte = 0xdb
	Array16           byte = 0xdc
	Array32           byte = 0xdd
	Map16             byte = 0xde
	Map32             byte = 0xdf
	NegativeFixIntMin byte = 0xe0
)

// MinFixInt is the smallest integer a negative fixint tag carries.
const MinFixInt = -32


const (
	fixMapMask   = 0x0f
	fixArrayMask = 0x0f
	fixStrMask   = 0x1f

	// MaxFixContainer is the largest element or pair count packed into a
	// fixarray or fixmap tag.
	MaxFixContainer = fixArrayMask
	// MaxFixStr is the largest byte length packed into a fixstr tag.
	MaxFixStr = fixStrMask
	// MaxLength is the largest length or count any header can declare.
	MaxLength = 1<<32 - 1
)

// Layout describes what follows a tag byte.
type Layout uint8

const (
	// LayoutInvalid marks a reserved byte.
	LayoutInvalid Layout = iota
	// LayoutInline means the tag alone carries the value, count or length.
	LayoutInline
	// LayoutValue means Width bytes of scalar value follow the tag.
	LayoutValue
	// LayoutLength means a Width byte length or count follows the tag. For
	// Str and Bin that many payload bytes follow; for Array and Map that
	// many encoded elements or pairs follow.
	LayoutLength
)

func (l Layout) String() string {
	switch l {
	case LayoutInline:
		return "inline"
	case LayoutValue:
		return "value"
	case LayoutLength:
		return "length"
	default:
		return "invalid"
	}
}

// Entry is the table row for one tag byte.
type Entry struct {
	Tag    byte
	Kind   value.Kind
	Family string
	Layout Layout
	// Width is the size in bytes of the field following the tag. It is zero
	// for inline layouts.
	Width int
	// Inline is the count, length or raw scalar bits carried by the tag
	// itself. For negative fixints it holds the two's complement bits; use
	// InlineInt to read the signed value.
	Inline uint64
}

// Known reports whether the tag is assigned.
func (e Entry) Known() bool {
	return e.Layout != LayoutInvalid
}

// InlineInt returns the integer packed into a fixint tag.
func (e Entry) InlineInt() int64 {
	return int64(int8(e.Tag))
}

// Signed reports whether a LayoutValue integer entry is two's complement.
func (e Entry) Signed() bool {
	return e.Tag >= Int8 && e.Tag <= Int64
}

func (e Entry) String() string {
	if !e.Known() {
		return fmt.Sprintf("0x%02x reserved", e.Tag)
	}
	return fmt.Sprintf("0x%02x %s", e.Tag, e.Family)
}

var table [256]Entry

// Lookup returns the table entry for b. Every byte has an entry; reserved
// bytes report Known() == false.
func Lookup(b byte) Entry {
	return table[b]
}

// Table returns a copy of the whole dispatch table.
func Table() [256]Entry {
	return table
}

func init() {
	for i := range table {
		table[i] = Entry{Tag: byte(i), Family: "reserved"}
	}

	inline := func(lo, hi byte, kind value.Kind, family string, mask byte) {
		for b := int(lo); b <= int(hi); b++ {
			table[b] = Entry{
				Tag:    byte(b),
				Kind:   kind,
				Family: family,
				Layout: LayoutInline,
				Inline: uint64(byte(b) & mask),
			}
		}
	}
	fixed := func(tag byte, kind value.Kind, family string, layout Layout, width int) {
		table[tag] = Entry{Tag: tag, Kind: kind, Family: family, Layout: layout, Width: width}
	}

	inline(PositiveFixIntMin, PositiveFixIntMax, value.KindInt, "positive fixint", 0xff)
	inline(FixMap, FixMap|fixMapMask, value.KindMap, "fixmap", fixMapMask)
	inline(FixArray, FixArray|fixArrayMask, value.KindArray, "fixarray", fixArrayMask)
	inline(FixStr, FixStr|fixStrMask, value.KindStr, "fixstr", fixStrMask)
	inline(NegativeFixIntMin, 0xff, value.KindInt, "negative fixint", 0xff)
	inline(Nil, Nil, value.KindNil, "nil", 0)
	inline(False, False, value.KindBool, "false", 0)
	inline(True, True, value.KindBool, "true", 1)

	fixed(Bin8, value.KindBin, "bin8", LayoutLength, 1)
	fixed(Bin16, value.KindBin, "bin16", LayoutLength, 2)
	fixed(Bin32, value.KindBin, "bin32", LayoutLength, 4)
	fixed(Float32, value.KindFloat32, "float32", LayoutValue, 4)
	fixed(Float64, value.KindFloat64, "float64", LayoutValue, 8)
	fixed(Uint8, value.KindUint, "uint8", LayoutValue, 1)
	fixed(Uint16, value.KindUint, "uint16", LayoutValue, 2)
	fixed(Uint32, value.KindUint, "uint32", LayoutValue, 4)
	fixed(Uint64, value.KindUint, "uint64", LayoutValue, 8)
	fixed(Int8, value.KindInt, "int8", LayoutValue, 1)
	fixed(Int16, value.KindInt, "int16", LayoutValue, 2)
	fixed(Int32, value.KindInt, "int32", LayoutValue, 4)
	fixed(Int64, value.KindInt, "int64", LayoutValue, 8)
	fixed(Str8, value.KindStr, "str8", LayoutLength, 1)
	fixed(Str16, value.KindStr, "str16", LayoutLength, 2)
	fixed(Str32, value.KindStr, "str32", LayoutLength, 4)
	fixed(Array16, value.KindArray, "array16", LayoutLength, 2)
	fixed(Array32, value.KindArray, "array32", LayoutLength, 4)
	fixed(Map16, value.KindMap, "map16", LayoutLength, 2)
	fixed(Map32, value.KindMap, "map32", LayoutLength, 4)
}
