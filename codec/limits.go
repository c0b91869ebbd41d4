package codec

const (
	// DefaultMaxDepth is the deepest container nesting Decode accepts. A
	// top-level array or map is at depth 1.
	DefaultMaxDepth = 512

	// DefaultMaxPayload caps the cumulative declared size of a decode: the
	// sum of every string and binary length plus every array element count
	// and map pair count.
	DefaultMaxPayload = 64 << 20

	// maxEncodeDepth bounds recursion in the encoder. It only trips on
	// trees that contain themselves.
	maxEncodeDepth = DefaultMaxDepth * 8

	// maxHeaderLen is a tag followed by an eight byte field.
	maxHeaderLen = 9
)

// Limits bound the resources a single decode may use. A zero or negative
// field selects the default.
type Limits struct {
	MaxDepth   int
	MaxPayload int
}

func DefaultLimits() Limits {
	return Limits{
		MaxDepth:   DefaultMaxDepth,
		MaxPayload: DefaultMaxPayload,
	}
}

func (l Limits) withDefaults() Limits {
	if l.MaxDepth <= 0 {
		l.MaxDepth = DefaultMaxDepth
	}
	if l.MaxPayload <= 0 {
		l.MaxPayload = DefaultMaxPayload
	}
	return l
}

// MaxEncodedLen bounds the encoded size of any value these limits accept.
// Every token costs at most maxHeaderLen bytes plus its payload, and every
// token past the root is paid for by an array count or half a map pair.
func (l Limits) MaxEncodedLen() int {
	l = l.withDefaults()
	return 2*maxHeaderLen*l.MaxPayload + maxHeaderLen
}
