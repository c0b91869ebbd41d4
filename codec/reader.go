package codec

import (
	"ziproto/tagmap"
	"ziproto/value"
)

// Token is one header read from an encoded buffer.
type Token struct {
	// Offset of the tag byte from the start of the buffer.
	Offset int
	Entry  tagmap.Entry
	// Depth is the number of containers enclosing the token.
	Depth int
	// Length is the payload byte length of a Str or Bin, the element count
	// of an Array or the pair count of a Map.
	Length int
	// Field holds the raw scalar bits of Bool, Int, Uint and float tokens.
	Field uint64
	// Payload aliases the input buffer for Str and Bin tokens.
	Payload []byte
	// Size is the number of bytes taken by the tag, its field and, for Str
	// and Bin, the payload. Container elements are not included.
	Size int
}

// Kind is shorthand for t.Entry.Kind.
func (t Token) Kind() value.Kind {
	return t.Entry.Kind
}

// Int returns the signed value of an Int token.
func (t Token) Int() int64 {
	if t.Entry.Layout == tagmap.LayoutInline {
		return t.Entry.InlineInt()
	}
	return tagmap.SignExtend(t.Field, t.Entry.Width)
}

// visitor receives the tokens of one value in wire order. close is called
// once per container after its last child, or right after the container
// token when it is empty.
type visitor interface {
	token(tok Token) error
	close()
}

// reader walks one buffer. It owns every bounds check: a token handed to a
// visitor has its fields and payload inside the buffer and has been charged
// against the limits.
type reader struct {
	b       []byte
	off     int
	limits  Limits
	payload int
}

func newReader(b []byte, limits Limits) *reader {
	return &reader{b: b, limits: limits.withDefaults()}
}

func (r *reader) remaining() int {
	return len(r.b) - r.off
}

// next reads the header at r.off. depth is the number of open containers.
func (r *reader) next(depth int) (Token, error) {
	off := r.off
	if off >= len(r.b) {
		if depth == 0 {
			return Token{}, decodeErr(ErrEmptyInput, off, "")
		}
		return Token{}, decodeErr(ErrTruncatedInput, off, "buffer ended inside a container")
	}

	tag := r.b[off]
	e := tagmap.Lookup(tag)
	if !e.Known() {
		return Token{}, tagErr(ErrUnknownTag, off, tag, "")
	}

	tok := Token{Offset: off, Entry: e, Depth: depth}
	body := r.b[off+1:]

	var n uint64
	switch e.Layout {
	case tagmap.LayoutInline:
		n = e.Inline
		tok.Field = e.Inline
	case tagmap.LayoutValue, tagmap.LayoutLength:
		if len(body) < e.Width {
			return Token{}, tagErr(ErrTruncatedInput, off, tag,
				"%s needs %d field bytes, %d remain", e.Family, e.Width, len(body))
		}
		n = tagmap.ReadField(body, e.Width)
		tok.Field = n
		body = body[e.Width:]
	}
	hdr := 1 + e.Width

	switch e.Kind {
	case value.KindStr, value.KindBin:
		if n > uint64(len(body)) {
			return Token{}, tagErr(ErrTruncatedInput, off, tag,
				"%s declares %d payload bytes, %d remain", e.Family, n, len(body))
		}
		if err := r.charge(off, tag, n); err != nil {
			return Token{}, err
		}
		tok.Length = int(n)
		tok.Payload = body[:n:n]
		tok.Field = 0
		tok.Size = hdr + int(n)
	case value.KindArray, value.KindMap:
		// every element takes at least one byte, so a count larger than
		// the rest of the buffer can never be satisfied
		minBytes := n
		if e.Kind == value.KindMap {
			minBytes = 2 * n
		}
		if minBytes > uint64(len(body)) {
			return Token{}, tagErr(ErrTruncatedInput, off, tag,
				"%s declares %d entries, only %d bytes remain", e.Family, n, len(body))
		}
		if depth+1 > r.limits.MaxDepth {
			return Token{}, tagErr(ErrDepthExceeded, off, tag,
				"container at depth %d, limit %d", depth+1, r.limits.MaxDepth)
		}
		if err := r.charge(off, tag, n); err != nil {
			return Token{}, err
		}
		tok.Length = int(n)
		tok.Field = 0
		tok.Size = hdr
	default:
		tok.Size = hdr
	}

	r.off = off + tok.Size
	return tok, nil
}

// charge adds n to the cumulative payload, failing before the limit is
// crossed.
func (r *reader) charge(off int, tag byte, n uint64) error {
	if n > uint64(r.limits.MaxPayload-r.payload) {
		return tagErr(ErrLengthOverflow, off, tag,
			"cumulative payload would reach %d, limit %d", uint64(r.payload)+n, r.limits.MaxPayload)
	}
	r.payload += int(n)
	return nil
}

// traverse reads exactly one complete value, feeding its tokens to v.
// Nesting is tracked with an explicit stack of remaining child counts, so
// the Go call stack stays flat no matter how deep the input is.
func (r *reader) traverse(v visitor) error {
	var pending []uint64
	for {
		tok, err := r.next(len(pending))
		if err != nil {
			return err
		}
		if err := v.token(tok); err != nil {
			return err
		}

		if tok.Entry.Kind.IsContainer() {
			children := uint64(tok.Length)
			if tok.Entry.Kind == value.KindMap {
				children *= 2
			}
			if children > 0 {
				pending = append(pending, children)
				continue
			}
			v.close()
		}

		for {
			if len(pending) == 0 {
				return nil
			}
			top := len(pending) - 1
			pending[top]--
			if pending[top] > 0 {
				break
			}
			pending = pending[:top]
			v.close()
		}
	}
}
