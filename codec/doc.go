// Package codec encodes value trees into the compact tagged format described
// in package tagmap and decodes them back.
//
// Encoding always picks the narrowest header that represents a value
// exactly. Decoding accepts any valid header regardless of width and treats
// its input as untrusted: every declared length is checked against the
// remaining buffer before anything is read or allocated, container nesting
// is bounded by Limits.MaxDepth and the total declared payload by
// Limits.MaxPayload. Decoding never recurses on the Go stack.
//
// Text is carried as opaque bytes: the decoder does not check UTF-8
// validity, callers that need it can use value.ValidUTF8.
//
// Integers decode by tag: fixints and int8..int64 yield value.Int, uint8..
// uint64 yield value.Uint. A value.Uint is never packed into a fixint, so
// every integer comes back with the kind it was encoded with.
//
// All functions are safe for concurrent use; they share no mutable state.
package codec
