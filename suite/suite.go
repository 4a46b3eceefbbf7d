// Package suite binds a group, a plaintext encoding and a challenge hasher
// under one name. The name is the crypto-context tag a session
// configuration records, so every party of a session derives the same
// primitives from it.
package suite

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/f3rmion/trusteeboard/bjj"
	"github.com/f3rmion/trusteeboard/elgamal"
	"github.com/f3rmion/trusteeboard/frost"
	"github.com/f3rmion/trusteeboard/group"
)

// PlaintextSize is the length of a ballot plaintext.
const PlaintextSize = bjj.PlaintextSize

// DefaultName is the suite used when none is configured.
const DefaultName = "bjj-blake2b"

// Plaintext is one ballot's content.
type Plaintext [PlaintextSize]byte

// String returns p in hex.
func (p Plaintext) String() string {
	return hex.EncodeToString(p[:])
}

// MarshalText encodes p as hex.
func (p Plaintext) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText decodes hex produced by MarshalText.
func (p *Plaintext) UnmarshalText(text []byte) error {
	b, err := hex.DecodeString(string(text))
	if err != nil {
		return err
	}
	if len(b) != PlaintextSize {
		return fmt.Errorf("plaintext must be %d bytes, got %d", PlaintextSize, len(b))
	}
	copy(p[:], b)
	return nil
}

// Suite is the crypto context of a session. A Suite is immutable and safe
// for concurrent use.
type Suite struct {
	name    string
	group   group.Group
	encoder group.PlaintextEncoder
	hasher  frost.Hasher
	rand    io.Reader
}

// New returns the suite called name. Names have the form
// "<group>-<hasher>"; the only group is "bjj" and the hashers are those
// known to [frost.HasherByName].
func New(name string) (*Suite, error) {
	curve, hasherName, ok := strings.Cut(name, "-")
	if !ok || curve != "bjj" {
		return nil, fmt.Errorf("unknown suite %q", name)
	}
	h, err := frost.HasherByName(hasherName)
	if err != nil {
		return nil, fmt.Errorf("suite %q: %w", name, err)
	}
	g := &bjj.BJJ{}
	return &Suite{
		name:    name,
		group:   g,
		encoder: g,
		hasher:  h,
		rand:    rand.Reader,
	}, nil
}

// Default returns the default suite.
func Default() *Suite {
	s, err := New(DefaultName)
	if err != nil {
		panic(err)
	}
	return s
}

// Name returns the suite's tag.
func (s *Suite) Name() string { return s.name }

// Group returns the suite's group.
func (s *Suite) Group() group.Group { return s.group }

// Hasher returns the suite's challenge hasher.
func (s *Suite) Hasher() frost.Hasher { return s.hasher }

// Rand returns the process-wide secure random source.
func (s *Suite) Rand() io.Reader { return s.rand }

// RandomPlaintext samples a uniformly random plaintext.
func (s *Suite) RandomPlaintext() (Plaintext, error) {
	var p Plaintext
	if _, err := io.ReadFull(s.rand, p[:]); err != nil {
		return p, err
	}
	return p, nil
}

// Encode maps p to a group element.
func (s *Suite) Encode(p Plaintext) (group.Point, error) {
	return s.encoder.EncodePlaintext(p[:])
}

// Decode recovers the plaintext of a point produced by Encode.
func (s *Suite) Decode(pt group.Point) (Plaintext, error) {
	var p Plaintext
	b, err := s.encoder.DecodePlaintext(pt)
	if err != nil {
		return p, err
	}
	copy(p[:], b)
	return p, nil
}

// Encrypt encodes p and encrypts it under pk.
func (s *Suite) Encrypt(pk group.Point, p Plaintext) (*elgamal.Ciphertext, error) {
	m, err := s.Encode(p)
	if err != nil {
		return nil, fmt.Errorf("encode plaintext: %w", err)
	}
	return elgamal.Encrypt(s.group, s.rand, pk, m)
}

// ParsePoint decodes a point serialized with Bytes.
func (s *Suite) ParsePoint(b []byte) (group.Point, error) {
	return s.group.NewPoint().SetBytes(b)
}

// ParseScalar decodes a scalar serialized with Bytes. Non-canonical
// encodings are rejected.
func (s *Suite) ParseScalar(b []byte) (group.Scalar, error) {
	return frost.ScalarFromCanonical(s.group, b)
}
