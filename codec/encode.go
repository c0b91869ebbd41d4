package codec

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"ziproto/tagmap"
	"ziproto/value"
)

// Encode returns the encoding of v.
func Encode(v value.Value) ([]byte, error) {
	n, err := EncodedLen(v)
	if err != nil {
		return nil, err
	}
	return Append(make([]byte, 0, n), v)
}

// Append appends the encoding of v to dst. On error dst is returned
// unchanged.
func Append(dst []byte, v value.Value) ([]byte, error) {
	out, f := appendValue(dst, v, 0)
	if f != nil {
		return dst, f.toError()
	}
	return out, nil
}

// EncodedLen returns the exact number of bytes Encode would produce for v.
func EncodedLen(v value.Value) (int, error) {
	n, f := sizeOf(v, 0)
	if f != nil {
		return 0, f.toError()
	}
	return n, nil
}

func appendValue(dst []byte, v value.Value, depth int) ([]byte, *encodeFailure) {
	switch x := v.(type) {
	case nil, value.Nil:
		return append(dst, tagmap.Nil), nil
	case value.Bool:
		if x {
			return append(dst, tagmap.True), nil
		}
		return append(dst, tagmap.False), nil
	case value.Int:
		tag, width := tagmap.IntHeader(int64(x))
		return tagmap.PutHeader(dst, tag, width, uint64(x)), nil
	case value.Uint:
		tag, width := tagmap.UintHeader(uint64(x))
		return tagmap.PutHeader(dst, tag, width, uint64(x)), nil
	case value.Float32:
		return tagmap.PutHeader(dst, tagmap.Float32, 4, uint64(math.Float32bits(float32(x)))), nil
	case value.Float64:
		return tagmap.PutHeader(dst, tagmap.Float64, 8, math.Float64bits(float64(x))), nil
	case value.Str:
		tag, width, err := tagmap.StrHeader(len(x))
		if err != nil {
			return dst, overflow(len(x))
		}
		dst = tagmap.PutHeader(dst, tag, width, uint64(len(x)))
		return append(dst, x...), nil
	case value.Bin:
		tag, width, err := tagmap.BinHeader(len(x))
		if err != nil {
			return dst, overflow(len(x))
		}
		dst = tagmap.PutHeader(dst, tag, width, uint64(len(x)))
		return append(dst, x...), nil
	case value.Array:
		if depth >= maxEncodeDepth {
			return dst, tooDeep()
		}
		tag, width, err := tagmap.ArrayHeader(len(x))
		if err != nil {
			return dst, overflow(len(x))
		}
		dst = tagmap.PutHeader(dst, tag, width, uint64(len(x)))
		for i, e := range x {
			var f *encodeFailure
			if dst, f = appendValue(dst, e, depth+1); f != nil {
				return dst, f.at("[" + strconv.Itoa(i) + "]")
			}
		}
		return dst, nil
	case value.Map:
		if depth >= maxEncodeDepth {
			return dst, tooDeep()
		}
		tag, width, err := tagmap.MapHeader(len(x))
		if err != nil {
			return dst, overflow(len(x))
		}
		dst = tagmap.PutHeader(dst, tag, width, uint64(len(x)))
		for i, p := range x {
			var f *encodeFailure
			if dst, f = appendValue(dst, p.Key, depth+1); f != nil {
				return dst, f.at("{key " + strconv.Itoa(i) + "}")
			}
			if dst, f = appendValue(dst, p.Value, depth+1); f != nil {
				return dst, f.at(pairSegment(p.Key, i))
			}
		}
		return dst, nil
	}

	panic(fmt.Sprintf("codec: unknown value implementation %T", v))
}

func sizeOf(v value.Value, depth int) (int, *encodeFailure) {
	switch x := v.(type) {
	case nil, value.Nil, value.Bool:
		return 1, nil
	case value.Int:
		_, width := tagmap.IntHeader(int64(x))
		return 1 + width, nil
	case value.Uint:
		_, width := tagmap.UintHeader(uint64(x))
		return 1 + width, nil
	case value.Float32:
		return 5, nil
	case value.Float64:
		return 9, nil
	case value.Str:
		_, width, err := tagmap.StrHeader(len(x))
		if err != nil {
			return 0, overflow(len(x))
		}
		return 1 + width + len(x), nil
	case value.Bin:
		_, width, err := tagmap.BinHeader(len(x))
		if err != nil {
			return 0, overflow(len(x))
		}
		return 1 + width + len(x), nil
	case value.Array:
		if depth >= maxEncodeDepth {
			return 0, tooDeep()
		}
		_, width, err := tagmap.ArrayHeader(len(x))
		if err != nil {
			return 0, overflow(len(x))
		}
		total := 1 + width
		for i, e := range x {
			n, f := sizeOf(e, depth+1)
			if f != nil {
				return 0, f.at("[" + strconv.Itoa(i) + "]")
			}
			total += n
		}
		return total, nil
	case value.Map:
		if depth >= maxEncodeDepth {
			return 0, tooDeep()
		}
		_, width, err := tagmap.MapHeader(len(x))
		if err != nil {
			return 0, overflow(len(x))
		}
		total := 1 + width
		for i, p := range x {
			kn, f := sizeOf(p.Key, depth+1)
			if f != nil {
				return 0, f.at("{key " + strconv.Itoa(i) + "}")
			}
			vn, f := sizeOf(p.Value, depth+1)
			if f != nil {
				return 0, f.at(pairSegment(p.Key, i))
			}
			total += kn + vn
		}
		return total, nil
	}

	panic(fmt.Sprintf("codec: unknown value implementation %T", v))
}

func pairSegment(key value.Value, i int) string {
	if s, ok := key.(value.Str); ok {
		return "[" + strconv.Quote(string(s)) + "]"
	}
	return "{value " + strconv.Itoa(i) + "}"
}

func overflow(n int) *encodeFailure {
	return &encodeFailure{
		err:    ErrLengthOverflow,
		detail: fmt.Sprintf("length %d exceeds %d", n, uint64(tagmap.MaxLength)),
	}
}

func tooDeep() *encodeFailure {
	return &encodeFailure{
		err:    ErrDepthExceeded,
		detail: fmt.Sprintf("nesting deeper than %d, the tree may contain itself", maxEncodeDepth),
	}
}

// Encoder writes a sequence of encoded values to a stream. It reuses one
// buffer between calls and is not safe for concurrent use.
type Encoder struct {
	w   io.Writer
	buf []byte
	n   int64
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// Encode writes the encoding of v. Nothing is written when v cannot be
// encoded.
func (e *Encoder) Encode(v value.Value) error {
	buf, err := Append(e.buf[:0], v)
	if err != nil {
		return err
	}
	e.buf = buf
	n, err := e.w.Write(buf)
	e.n += int64(n)
	return err
}

// Written returns the number of bytes written so far.
func (e *Encoder) Written() int64 {
	return e.n
}
