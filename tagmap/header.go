package tagmap

import (
	"math"

	"github.com/pkg/errors"
)

// ErrLengthOverflow is returned when a length or count does not fit the
// widest header family.
var ErrLengthOverflow = errors.New("length exceeds the widest header")

// IntHeader returns the tag and field width for a signed integer. Values in
// [-32, 127] are packed into the tag; anything else uses the narrowest signed
// family, so the value decodes back as an Int.
func IntHeader(n int64) (byte, int) {
	switch {
	case n >= 0 && n <= int64(PositiveFixIntMax):
		return byte(n), 0
	case n < 0 && n >= MinFixInt:
		return byte(n), 0
	case n >= math.MinInt8 && n <= math.MaxInt8:
		return Int8, 1
	case n >= math.MinInt16 && n <= math.MaxInt16:
		return Int16, 2
	case n >= math.MinInt32 && n <= math.MaxInt32:
		return Int32, 4
	default:
		return Int64, 8
	}
}

// UintHeader returns the tag and field width for an unsigned integer. Fixints
// decode as signed, so the narrowest form is always a uint family.
func UintHeader(n uint64) (byte, int) {
	switch {
	case n <= math.MaxUint8:
		return Uint8, 1
	case n <= math.MaxUint16:
		return Uint16, 2
	case n <= math.MaxUint32:
		return Uint32, 4
	default:
		return Uint64, 8
	}
}

// StrHeader returns the header for a text payload of n bytes.
func StrHeader(n int) (byte, int, error) {
	switch {
	case n < 0:
		return 0, 0, errors.Errorf("negative length %d", n)
	case n <= MaxFixStr:
		return FixStr | byte(n), 0, nil
	}
	return lengthHeader(n, Str8, Str16, Str32)
}

// BinHeader returns the header for a binary payload of n bytes.
func BinHeader(n int) (byte, int, error) {
	if n < 0 {
		return 0, 0, errors.Errorf("negative length %d", n)
	}
	return lengthHeader(n, Bin8, Bin16, Bin32)
}

// ArrayHeader returns the header for an array of n elements.
func ArrayHeader(n int) (byte, int, error) {
	switch {
	case n < 0:
		return 0, 0, errors.Errorf("negative length %d", n)
	case n <= MaxFixContainer:
		return FixArray | byte(n), 0, nil
	}
	return lengthHeader(n, 0, Array16, Array32)
}

// MapHeader returns the header for a map of n pairs.
func MapHeader(n int) (byte, int, error) {
	switch {
	case n < 0:
		return 0, 0, errors.Errorf("negative length %d", n)
	case n <= MaxFixContainer:
		return FixMap | byte(n), 0, nil
	}
	return lengthHeader(n, 0, Map16, Map32)
}

// lengthHeader picks among the 8, 16 and 32 bit length families. A zero
// tag8 means the family has no 8 bit form.
func lengthHeader(n int, tag8, tag16, tag32 byte) (byte, int, error) {
	switch {
	case tag8 != 0 && n <= math.MaxUint8:
		return tag8, 1, nil
	case n <= math.MaxUint16:
		return tag16, 2, nil
	case uint64(n) <= MaxLength:
		return tag32, 4, nil
	}
	return 0, 0, errors.Wrapf(ErrLengthOverflow, "length %d", n)
}

// PutHeader appends tag followed by the low width bytes of field in
// big-endian order.
func PutHeader(dst []byte, tag byte, width int, field uint64) []byte {
	dst = append(dst, tag)
	switch width {
	case 0:
	case 1:
		dst = append(dst, byte(field))
	case 2:
		dst = append(dst, byte(field>>8), byte(field))
	case 4:
		dst = append(dst, byte(field>>24), byte(field>>16), byte(field>>8), byte(field))
	case 8:
		dst = append(dst,
			byte(field>>56), byte(field>>48), byte(field>>40), byte(field>>32),
			byte(field>>24), byte(field>>16), byte(field>>8), byte(field))
	default:
		panic("tagmap: invalid field width")
	}
	return dst
}

// ReadField reads a width byte big-endian field from b. The caller must
// ensure len(b) >= width.
func ReadField(b []byte, width int) uint64 {
	switch width {
	case 1:
		return uint64(b[0])
	case 2:
		return uint64(b[0])<<8 | uint64(b[1])
	case 4:
		return uint64(b[0])<<24 | uint64(b[1])<<16 | uint64(b[2])<<8 | uint64(b[3])
	case 8:
		return uint64(b[0])<<56 | uint64(b[1])<<48 | uint64(b[2])<<40 | uint64(b[3])<<32 |
			uint64(b[4])<<24 | uint64(b[5])<<16 | uint64(b[6])<<8 | uint64(b[7])
	default:
		panic("tagmap: invalid field width")
	}
}

// SignExtend interprets the low width bytes of field as a two's complement
// integer.
func SignExtend(field uint64, width int) int64 {
	switch width {
	case 1:
		return int64(int8(field))
	case 2:
		return int64(int16(field))
	case 4:
		return int64(int32(field))
	default:
		return int64(field)
	}
}
