package protocol

import (
	"encoding/hex"

	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"
)

// Hash is a Blake2b-512 content hash.
type Hash [blake2b.Size]byte

// HashOf hashes the concatenation of data.
func HashOf(data ...[]byte) Hash {
	h, _ := blake2b.New512(nil)
	for _, d := range data {
		h.Write(d)
	}
	var out Hash
	copy(out[:], h.Sum(nil))
	return out
}

// String returns the first eight bytes in hex, enough for logs.
func (h Hash) String() string {
	return hex.EncodeToString(h[:8])
}

// MarshalText encodes the full hash in hex.
func (h Hash) MarshalText() ([]byte, error) {
	return []byte(hex.EncodeToString(h[:])), nil
}

// UnmarshalText decodes the output of MarshalText.
func (h *Hash) UnmarshalText(text []byte) error {
	b, err := hex.DecodeString(string(text))
	if err != nil {
		return errors.Wrap(err, "decode hash")
	}
	if len(b) != len(h) {
		return errors.Errorf("hash must be %d bytes, got %d", len(h), len(b))
	}
	copy(h[:], b)
	return nil
}
