package codec

import (
	"math"

	"ziproto/tagmap"
	"ziproto/value"
)

// Decode parses the first value in b using the default limits. It returns
// the value and the number of bytes it occupied; bytes after it are left
// alone, so consecutive values can be read by re-slicing b.
func Decode(b []byte) (value.Value, int, error) {
	return DecodeWithLimits(b, DefaultLimits())
}

// DecodeWithLimits is Decode with caller supplied limits. On error no value
// is returned.
func DecodeWithLimits(b []byte, limits Limits) (value.Value, int, error) {
	r := newReader(b, limits)
	v, err := r.decodeOne()
	if err != nil {
		return nil, 0, err
	}
	return v, r.off, nil
}

func (r *reader) decodeOne() (value.Value, error) {
	bld := builder{reserve: r.remaining()}
	if err := r.traverse(&bld); err != nil {
		return nil, err
	}
	return bld.root, nil
}

// frame is a container under construction.
type frame struct {
	arr     value.Array
	m       value.Map
	isMap   bool
	key     value.Value
	haveKey bool
}

func (f *frame) add(v value.Value) {
	switch {
	case !f.isMap:
		f.arr = append(f.arr, v)
	case !f.haveKey:
		f.key = v
		f.haveKey = true
	default:
		f.m = append(f.m, value.Pair{Key: f.key, Value: v})
		f.key = nil
		f.haveKey = false
	}
}

func (f *frame) value() value.Value {
	if f.isMap {
		return f.m
	}
	return f.arr
}

// builder assembles values from tokens.
type builder struct {
	stack []*frame
	root  value.Value
	// reserve is the number of element slots containers may still
	// preallocate. It starts at the input length and is shared by every
	// container of the value, so preallocation stays linear in the input
	// however the headers are nested. Past it slices grow by append.
	reserve int
}

var _ visitor = (*builder)(nil)

func (b *builder) token(tok Token) error {
	switch tok.Entry.Kind {
	case value.KindArray:
		n := b.preallocate(tok.Length, 1)
		b.stack = append(b.stack, &frame{arr: make(value.Array, 0, n)})
	case value.KindMap:
		n := b.preallocate(tok.Length, 2)
		b.stack = append(b.stack, &frame{m: make(value.Map, 0, n), isMap: true})
	default:
		b.add(scalar(tok))
	}
	return nil
}

// preallocate takes up to count entries of the given slot cost from the
// reserve and returns how many were granted.
func (b *builder) preallocate(count, cost int) int {
	n := b.reserve / cost
	if count < n {
		n = count
	}
	b.reserve -= n * cost
	return n
}

func (b *builder) close() {
	top := len(b.stack) - 1
	f := b.stack[top]
	b.stack[top] = nil
	b.stack = b.stack[:top]
	b.add(f.value())
}

func (b *builder) add(v value.Value) {
	if len(b.stack) == 0 {
		b.root = v
		return
	}
	b.stack[len(b.stack)-1].add(v)
}

// scalar converts a non-container token into its value. Payloads are
// copied so the result never aliases the input buffer.
func scalar(tok Token) value.Value {
	switch tok.Entry.Kind {
	case value.KindNil:
		return value.Nil{}
	case value.KindBool:
		return value.Bool(tok.Field == 1)
	case value.KindInt:
		return value.Int(tok.Int())
	case value.KindUint:
		return value.Uint(tok.Field)
	case value.KindFloat32:
		return value.Float32(math.Float32frombits(uint32(tok.Field)))
	case value.KindFloat64:
		return value.Float64(math.Float64frombits(tok.Field))
	case value.KindStr:
		return value.Str(tok.Payload)
	case value.KindBin:
		out := make([]byte, len(tok.Payload))
		copy(out, tok.Payload)
		return value.Bin(out)
	}

	panic("codec: no scalar for " + tagmap.Lookup(tok.Entry.Tag).String())
}
