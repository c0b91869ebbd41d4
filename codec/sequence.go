package codec

import (
	"ziproto/value"
)

// Unmarshal decodes b, which must hold exactly one value.
func Unmarshal(b []byte) (value.Value, error) {
	return UnmarshalWithLimits(b, DefaultLimits())
}

func UnmarshalWithLimits(b []byte, limits Limits) (value.Value, error) {
	v, n, err := DecodeWithLimits(b, limits)
	if err != nil {
		return nil, err
	}
	if n != len(b) {
		return nil, decodeErr(ErrTrailingData, n, "%d bytes follow the value", len(b)-n)
	}
	return v, nil
}

// DecodeAll decodes every value of a concatenated sequence. The limits
// apply to each value separately. An empty buffer yields an empty sequence.
func DecodeAll(b []byte, limits Limits) ([]value.Value, error) {
	var out []value.Value
	s := NewScanner(b, limits)
	for s.Scan() {
		out = append(out, s.Value())
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Scanner iterates over a buffer of concatenated values.
//
//	s := codec.NewScanner(buf, codec.DefaultLimits())
//	for s.Scan() {
//		use(s.Value())
//	}
//	if err := s.Err(); err != nil {
//		...
//	}
type Scanner struct {
	b      []byte
	off    int
	limits Limits
	cur    value.Value
	start  int
	err    error
}

func NewScanner(b []byte, limits Limits) *Scanner {
	return &Scanner{b: b, limits: limits}
}

// Scan decodes the next value. It returns false at the end of the buffer or
// on the first error.
func (s *Scanner) Scan() bool {
	if s.err != nil || s.off >= len(s.b) {
		return false
	}
	v, n, err := DecodeWithLimits(s.b[s.off:], s.limits)
	if err != nil {
		s.err = rebase(err, s.off)
		s.cur = nil
		return false
	}
	s.cur = v
	s.start = s.off
	s.off += n
	return true
}

// Value returns the value read by the last successful Scan.
func (s *Scanner) Value() value.Value {
	return s.cur
}

// Offset returns where the current value starts.
func (s *Scanner) Offset() int {
	return s.start
}

func (s *Scanner) Err() error {
	return s.err
}

// rebase shifts the offset of a decode error by base so it refers to the
// whole buffer.
func rebase(err error, base int) error {
	if de, ok := err.(*DecodeError); ok {
		cp := *de
		cp.Offset += base
		return &cp
	}
	return err
}
