// Package compress wraps encoded buffers in a small self-describing frame:
//
//	[algorithm byte][uvarint uncompressed length][payload]
//
// The frame records the original length so a reader can refuse oversized
// input before allocating for it.
package compress

import (
	"encoding/binary"
	"fmt"
	"strings"
	"sync"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/pkg/errors"

	"ziproto/log"
)

type Algorithm uint8

const (
	None Algorithm = iota
	Snappy
	LZ4
	Zstd
)

var algorithmNames = map[Algorithm]string{
	None:   "none",
	Snappy: "snappy",
	LZ4:    "lz4",
	Zstd:   "zstd",
}

var (
	ErrUnknownAlgorithm = errors.New("unknown compression algorithm")
	ErrInvalidFrame     = errors.New("invalid compression frame")
	ErrTooLarge         = errors.New("decompressed size exceeds limit")

	errIncompressible = errors.New("data is incompressible")
)

var logger = log.WithModule("compress")

func (a Algorithm) String() string {
	if name, ok := algorithmNames[a]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", uint8(a))
}

func (a Algorithm) Valid() bool {
	_, ok := algorithmNames[a]
	return ok
}

func ParseAlgorithm(name string) (Algorithm, error) {
	for alg, n := range algorithmNames {
		if n == strings.ToLower(name) {
			return alg, nil
		}
	}
	return None, errors.Wrapf(ErrUnknownAlgorithm, "%q", name)
}

// Algorithms lists the supported algorithms in tag order.
func Algorithms() []Algorithm {
	return []Algorithm{None, Snappy, LZ4, Zstd}
}

// Compress frames data with alg at the default level.
func Compress(data []byte, alg Algorithm) ([]byte, error) {
	return CompressLevel(data, alg, 0)
}

// CompressLevel is Compress with a zstd level (1 fastest to 4 best; 0 means
// the default). Other algorithms ignore the level. When compression would
// not shrink data the frame is written with None instead.
func CompressLevel(data []byte, alg Algorithm, level int) ([]byte, error) {
	var payload []byte
	var err error
	switch alg {
	case None:
		payload = data
	case Snappy:
		payload, err = compressSnappy(data)
	case LZ4:
		payload, err = compressLZ4(data)
	case Zstd:
		payload, err = compressZstd(data, level)
	default:
		return nil, errors.Wrapf(ErrUnknownAlgorithm, "%d", uint8(alg))
	}
	if err == errIncompressible {
		logger.Trace("storing incompressible data raw", "algorithm", alg.String(), "size", len(data))
		alg, payload, err = None, data, nil
	}
	if err != nil {
		return nil, err
	}

	frame := make([]byte, 1+binary.MaxVarintLen64, 1+binary.MaxVarintLen64+len(payload))
	frame[0] = byte(alg)
	n := binary.PutUvarint(frame[1:], uint64(len(data)))
	frame = append(frame[:1+n], payload...)
	return frame, nil
}

// FrameInfo reads the header of a frame.
func FrameInfo(frame []byte) (Algorithm, int, error) {
	alg, size, _, err := parseHeader(frame)
	return alg, size, err
}

func parseHeader(frame []byte) (Algorithm, int, []byte, error) {
	if len(frame) == 0 {
		return None, 0, nil, errors.Wrap(ErrInvalidFrame, "empty frame")
	}
	alg := Algorithm(frame[0])
	if !alg.Valid() {
		return None, 0, nil, errors.Wrapf(ErrUnknownAlgorithm, "%d", frame[0])
	}
	size, n := binary.Uvarint(frame[1:])
	if n <= 0 {
		return None, 0, nil, errors.Wrap(ErrInvalidFrame, "bad length header")
	}
	if size > uint64(maxInt) {
		return None, 0, nil, errors.Wrapf(ErrTooLarge, "declared size %d", size)
	}
	return alg, int(size), frame[1+n:], nil
}

const maxInt = int(^uint(0) >> 1)

// Decompress returns the data held by frame. A frame declaring more than
// maxSize bytes is rejected before anything is allocated; maxSize <= 0
// disables the check. Whatever the limit, no codec allocates or produces more
// than the declared size. A None frame returns a slice of frame.
func Decompress(frame []byte, maxSize int) ([]byte, error) {
	alg, size, payload, err := parseHeader(frame)
	if err != nil {
		return nil, err
	}
	if maxSize > 0 && size > maxSize {
		return nil, errors.Wrapf(ErrTooLarge, "frame declares %d bytes, limit %d", size, maxSize)
	}

	var out []byte
	switch alg {
	case None:
		out = payload
	case Snappy:
		out, err = decompressSnappy(payload, size)
	case LZ4:
		out, err = decompressLZ4(payload, size)
	case Zstd:
		out, err = decompressZstd(payload, size)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "%s frame", alg)
	}
	if len(out) != size {
		return nil, errors.Wrapf(ErrInvalidFrame, "%s frame holds %d bytes, header says %d", alg, len(out), size)
	}
	return out, nil
}

func compressSnappy(data []byte) ([]byte, error) {
	out := snappy.Encode(nil, data)
	if len(out) >= len(data) {
		return nil, errIncompressible
	}
	return out, nil
}

func decompressSnappy(payload []byte, size int) ([]byte, error) {
	n, err := snappy.DecodedLen(payload)
	if err != nil {
		return nil, err
	}
	if n != size {
		return nil, errors.Wrapf(ErrInvalidFrame, "snappy block holds %d bytes, header says %d", n, size)
	}
	return snappy.Decode(make([]byte, size), payload)
}

func compressLZ4(data []byte) ([]byte, error) {
	dst := make([]byte, lz4.CompressBlockBound(len(data)))
	written, err := lz4.CompressBlock(data, dst, nil)
	if err != nil {
		return nil, errors.Wrap(err, "lz4 compress")
	}
	// CompressBlock reports 0 for data it cannot shrink
	if written == 0 || written >= len(data) {
		return nil, errIncompressible
	}
	return dst[:written], nil
}

// lz4MaxRatio bounds how many bytes one byte of an lz4 block can expand to.
// A match of length 255 costs at least one byte of the block.
const lz4MaxRatio = 255

func decompressLZ4(payload []byte, size int) ([]byte, error) {
	if size/lz4MaxRatio > len(payload) {
		return nil, errors.Wrapf(ErrInvalidFrame, "lz4 block of %d bytes cannot hold %d bytes", len(payload), size)
	}
	dst := make([]byte, size)
	read, err := lz4.UncompressBlock(payload, dst)
	if err != nil {
		return nil, errors.Wrap(err, "lz4 decompress")
	}
	return dst[:read], nil
}

var (
	zstdMu       sync.Mutex
	zstdEncoders = make(map[zstd.EncoderLevel]*zstd.Encoder)
)

func zstdEncoder(level int) (*zstd.Encoder, error) {
	lvl := zstd.SpeedDefault
	if level > 0 {
		lvl = zstd.EncoderLevel(level)
		if lvl > zstd.SpeedBestCompression {
			lvl = zstd.SpeedBestCompression
		}
	}

	zstdMu.Lock()
	defer zstdMu.Unlock()
	if enc, ok := zstdEncoders[lvl]; ok {
		return enc, nil
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(lvl))
	if err != nil {
		return nil, errors.Wrap(err, "zstd encoder")
	}
	zstdEncoders[lvl] = enc
	return enc, nil
}

func compressZstd(data []byte, level int) ([]byte, error) {
	enc, err := zstdEncoder(level)
	if err != nil {
		return nil, err
	}
	out := enc.EncodeAll(data, nil)
	if len(out) >= len(data) {
		return nil, errIncompressible
	}
	return out, nil
}

func decompressZstd(payload []byte, size int) ([]byte, error) {
	var h zstd.Header
	if err := h.Decode(payload); err != nil {
		return nil, errors.Wrap(ErrInvalidFrame, err.Error())
	}
	if h.HasFCS && h.FrameContentSize != uint64(size) {
		return nil, errors.Wrapf(ErrInvalidFrame, "zstd frame holds %d bytes, header says %d", h.FrameContentSize, size)
	}
	dec, err := newZstdDecoder(size)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	out, err := dec.DecodeAll(payload, make([]byte, 0, size))
	if err != nil {
		return nil, errors.Wrap(err, "zstd decompress")
	}
	return out, nil
}

// newZstdDecoder returns a decoder whose window and output stay within twice
// the declared size. The encoder rounds a frame's window up to the next power
// of two, so a legitimate frame never needs more. DecodeAll is capped at the
// capacity of its destination.
func newZstdDecoder(size int) (*zstd.Decoder, error) {
	limit := 2 * uint64(size)
	if limit < 2*zstd.MinWindowSize {
		limit = 2 * zstd.MinWindowSize
	}
	if limit > zstd.MaxWindowSize {
		limit = zstd.MaxWindowSize
	}
	dec, err := zstd.NewReader(nil,
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderLowmem(true),
		zstd.WithDecoderMaxMemory(limit),
		zstd.WithDecoderMaxWindow(limit),
		zstd.WithDecodeAllCapLimit(true),
	)
	if err != nil {
		return nil, errors.Wrap(err, "zstd decoder")
	}
	return dec, nil
}
