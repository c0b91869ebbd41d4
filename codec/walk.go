package codec

// Walk calls fn for every header of the first value in b, in wire order,
// without building the value. It applies the same checks as Decode and
// returns the number of bytes the value occupies. Token payloads alias b.
// An error returned by fn stops the walk and is returned as is.
func Walk(b []byte, limits Limits, fn func(Token) error) (int, error) {
	r := newReader(b, limits)
	if err := r.traverse(funcVisitor(fn)); err != nil {
		return 0, err
	}
	return r.off, nil
}

// Validate reports whether b starts with a well formed value, returning its
// size. Nothing is allocated for the value itself.
func Validate(b []byte, limits Limits) (int, error) {
	return Walk(b, limits, nil)
}

type funcVisitor func(Token) error

func (f funcVisitor) token(tok Token) error {
	if f == nil {
		return nil
	}
	return f(tok)
}

func (f funcVisitor) close() {}
