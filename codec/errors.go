package codec

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"ziproto/tagmap"
)

// Sentinel errors. Every error returned by this package wraps exactly one
// of them; match with errors.Is or retrieve it with Kind.
var (
	ErrEmptyInput     = errors.New("empty input")
	ErrUnknownTag     = errors.New("unknown tag")
	ErrTruncatedInput = errors.New("truncated input")
	ErrLengthOverflow = tagmap.ErrLengthOverflow
	ErrDepthExceeded  = errors.New("depth exceeded")
	ErrTrailingData   = errors.New("trailing data")
)

var sentinels = []error{
	ErrEmptyInput,
	ErrUnknownTag,
	ErrTruncatedInput,
	ErrLengthOverflow,
	ErrDepthExceeded,
	ErrTrailingData,
}

// Kind returns the sentinel err wraps, or nil when err did not come from
// this package.
func Kind(err error) error {
	if err == nil {
		return nil
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s
		}
	}
	return nil
}

// DecodeError reports why a buffer was rejected and where.
type DecodeError struct {
	Err    error
	Offset int
	Tag    byte
	// HasTag is false when the failure happened before a tag was read.
	HasTag bool
	Detail string
}

func (e *DecodeError) Error() string {
	var sb strings.Builder
	sb.WriteString("ziproto: decode: ")
	sb.WriteString(e.Err.Error())
	fmt.Fprintf(&sb, " at offset %d", e.Offset)
	if e.HasTag {
		fmt.Fprintf(&sb, " (tag 0x%02x)", e.Tag)
	}
	if e.Detail != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Detail)
	}
	return sb.String()
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Cause lets github.com/pkg/errors.Cause reach the sentinel.
func (e *DecodeError) Cause() error { return e.Err }

func decodeErr(sentinel error, offset int, detail string, args ...interface{}) *DecodeError {
	if len(args) > 0 {
		detail = fmt.Sprintf(detail, args...)
	}
	return &DecodeError{Err: sentinel, Offset: offset, Detail: detail}
}

func tagErr(sentinel error, offset int, tag byte, detail string, args ...interface{}) *DecodeError {
	e := decodeErr(sentinel, offset, detail, args...)
	e.Tag = tag
	e.HasTag = true
	return e
}

// EncodeError reports a value that has no representation. Path locates the
// offending node, e.g. `$[2]["name"]`.
type EncodeError struct {
	Err    error
	Path   string
	Detail string
}

func (e *EncodeError) Error() string {
	msg := fmt.Sprintf("ziproto: encode: %s at %s", e.Err.Error(), e.Path)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *EncodeError) Unwrap() error { return e.Err }

func (e *EncodeError) Cause() error { return e.Err }

// encodeFailure carries the path segments of an error on its way back to the
// root. Segments are collected innermost first.
type encodeFailure struct {
	err      error
	detail   string
	segments []string
}

func (f *encodeFailure) Error() string { return f.err.Error() }

func (f *encodeFailure) at(segment string) *encodeFailure {
	f.segments = append(f.segments, segment)
	return f
}

func (f *encodeFailure) toError() *EncodeError {
	var sb strings.Builder
	sb.WriteByte('$')
	for i := len(f.segments) - 1; i >= 0; i-- {
		sb.WriteString(f.segments[i])
	}
	return &EncodeError{Err: f.err, Path: sb.String(), Detail: f.detail}
}
