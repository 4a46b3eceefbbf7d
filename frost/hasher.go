package frost

import (
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/blake2b"

	"github.com/f3rmion/trusteeboard/group"
)

// Hasher derives the Fiat-Shamir challenges used by board signatures and
// decryption proofs. Implementations differ in hash function and domain
// separation; signer and verifier must agree on one.
type Hasher interface {
	// Name identifies the hasher inside a suite name.
	Name() string

	// Challenge computes the Schnorr challenge for commitment R, public
	// key Y and message msg.
	Challenge(g group.Group, R, Y, msg []byte) group.Scalar

	// ProofChallenge computes the challenge of a Chaum-Pedersen proof
	// over the ordered transcript parts.
	ProofChallenge(g group.Group, parts ...[]byte) group.Scalar
}

// HasherByName returns the hasher registered under name.
func HasherByName(name string) (Hasher, error) {
	switch name {
	case "sha256":
		return &SHA256Hasher{}, nil
	case "blake2b":
		return NewBlake2bHasher(), nil
	default:
		return nil, fmt.Errorf("unknown hasher %q", name)
	}
}

// SHA256Hasher implements Hasher with SHA-256 and short ASCII tags.
type SHA256Hasher struct{}

// Name implements Hasher.Name.
func (h *SHA256Hasher) Name() string {
	return "sha256"
}

func (h *SHA256Hasher) hashToScalar(g group.Group, data ...[]byte) group.Scalar {
	hasher := sha256.New()
	for _, d := range data {
		hasher.Write(d)
	}
	s, _ := g.NewScalar().SetBytes(hasher.Sum(nil))
	return s
}

// Challenge implements Hasher.Challenge.
func (h *SHA256Hasher) Challenge(g group.Group, R, Y, msg []byte) group.Scalar {
	return h.hashToScalar(g, []byte("chal"), R, Y, msg)
}

// ProofChallenge implements Hasher.ProofChallenge.
func (h *SHA256Hasher) ProofChallenge(g group.Group, parts ...[]byte) group.Scalar {
	return h.hashToScalar(g, append([][]byte{[]byte("dleq")}, parts...)...)
}

// Blake2bHasher implements Hasher with Blake2b-512 and a domain separation
// prefix. The 64-byte output is read little-endian before reduction.
type Blake2bHasher struct {
	// Prefix is written before the tag of every hash.
	Prefix string
}

// NewBlake2bHasher returns a Blake2bHasher with the default prefix.
func NewBlake2bHasher() *Blake2bHasher {
	return &Blake2bHasher{
		Prefix: "TRUSTEEBOARD-EDBABYJUJUB-BLAKE512-v1",
	}
}

// Name implements Hasher.Name.
func (h *Blake2bHasher) Name() string {
	return "blake2b"
}

func (h *Blake2bHasher) hash(tag string, data ...[]byte) []byte {
	hasher, _ := blake2b.New512(nil)
	hasher.Write([]byte(h.Prefix))
	hasher.Write([]byte(tag))
	for _, d := range data {
		hasher.Write(d)
	}
	return hasher.Sum(nil)
}

func (h *Blake2bHasher) hashToScalar(g group.Group, tag string, data ...[]byte) group.Scalar {
	digest := h.hash(tag, data...)

	reversed := make([]byte, len(digest))
	for i := range digest {
		reversed[i] = digest[len(digest)-1-i]
	}

	s, _ := g.NewScalar().SetBytes(reversed)
	return s
}

// Challenge implements Hasher.Challenge.
func (h *Blake2bHasher) Challenge(g group.Group, R, Y, msg []byte) group.Scalar {
	return h.hashToScalar(g, "chal", R, Y, msg)
}

// ProofChallenge implements Hasher.ProofChallenge.
func (h *Blake2bHasher) ProofChallenge(g group.Group, parts ...[]byte) group.Scalar {
	return h.hashToScalar(g, "dleq", parts...)
}
