// Package crypto holds the checksum used to detect corrupted records.
package crypto

import (
	"crypto/subtle"
	"encoding/hex"

	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"
)

const HashSize = blake2b.Size256

type Hash [HashSize]byte

var ZeroHash Hash

var ErrInvalidHash = errors.New("invalid hash")

func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

func (h Hash) Bytes() []byte {
	return h[:]
}

// Equal compares in constant time.
func (h Hash) Equal(other Hash) bool {
	return subtle.ConstantTimeCompare(h[:], other[:]) == 1
}

func (h Hash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

func (h *Hash) UnmarshalText(b []byte) error {
	parsed, err := NewHashFromHex(string(b))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

func Blake2B256(data ...[]byte) Hash {
	// never returns an error if key is nil
	h, _ := blake2b.New256(nil)
	for _, chunk := range data {
		h.Write(chunk)
	}
	var out Hash
	copy(out[:], h.Sum(nil))
	return out
}

func NewHashFromBytes(b []byte) (Hash, error) {
	if len(b) != HashSize {
		return ZeroHash, errors.Wrapf(ErrInvalidHash, "need %d bytes, got %d", HashSize, len(b))
	}
	var h Hash
	copy(h[:], b)
	return h, nil
}

func NewHashFromHex(in string) (Hash, error) {
	b, err := hex.DecodeString(in)
	if err != nil {
		return ZeroHash, errors.Wrap(ErrInvalidHash, err.Error())
	}
	return NewHashFromBytes(b)
}
