package store

import (
	"github.com/pkg/errors"

	"ziproto/codec"
	"ziproto/compress"
	"ziproto/crypto"
	"ziproto/value"
)

// A record is the checksum of the compression frame followed by the frame:
//
//	[32 byte blake2b-256][algorithm][uvarint length][payload]
type record struct {
	sum   crypto.Hash
	frame []byte
	// encodedLen is the size of the value before compression.
	encodedLen int
}

func (r *record) bytes() []byte {
	out := make([]byte, 0, crypto.HashSize+len(r.frame))
	out = append(out, r.sum[:]...)
	return append(out, r.frame...)
}

func (s *Store) newRecord(v value.Value) (*record, error) {
	encoded, err := codec.Encode(v)
	if err != nil {
		return nil, err
	}
	frame, err := compress.CompressLevel(encoded, s.opts.Compression, s.opts.CompressionLevel)
	if err != nil {
		return nil, errors.Wrap(err, "error compressing value")
	}
	return &record{
		sum:        crypto.Blake2B256(frame),
		frame:      frame,
		encodedLen: len(encoded),
	}, nil
}

func parseRecord(b []byte) (*record, error) {
	if len(b) < crypto.HashSize+1 {
		return nil, errors.Wrapf(ErrCorruptRecord, "record of %d bytes is too short", len(b))
	}
	r := &record{frame: b[crypto.HashSize:]}
	copy(r.sum[:], b[:crypto.HashSize])
	if !crypto.Blake2B256(r.frame).Equal(r.sum) {
		return nil, errors.Wrap(ErrCorruptRecord, "checksum mismatch")
	}
	return r, nil
}

func (s *Store) decodeRecord(b []byte) (value.Value, *record, error) {
	r, err := parseRecord(b)
	if err != nil {
		return nil, nil, err
	}
	encoded, err := compress.Decompress(r.frame, s.opts.Limits.MaxEncodedLen())
	if err != nil {
		return nil, nil, errors.Wrap(ErrCorruptRecord, err.Error())
	}
	r.encodedLen = len(encoded)
	v, err := codec.UnmarshalWithLimits(encoded, s.opts.Limits)
	if err != nil {
		return nil, nil, errors.Wrap(err, "error decoding record")
	}
	return v, r, nil
}
