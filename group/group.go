package group

import (
	"io"
)

// Scalar is an element of the scalar field of a [Group]: an integer modulo
// the group order. Trustee key shares, polynomial coefficients, encryption
// randomness and Schnorr nonces are all scalars.
//
// Arithmetic stores its result in the receiver and returns it.
type Scalar interface {
	// Add sets the receiver to a+b and returns it.
	Add(a, b Scalar) Scalar
	// Sub sets the receiver to a-b and returns it.
	Sub(a, b Scalar) Scalar
	// Mul sets the receiver to a*b and returns it.
	Mul(a, b Scalar) Scalar
	// Negate sets the receiver to -a and returns it.
	Negate(a Scalar) Scalar
	// Invert sets the receiver to a^{-1} and returns it.
	// Returns an error if a is zero.
	Invert(a Scalar) (Scalar, error)
	// Set sets the receiver to a and returns it.
	Set(a Scalar) Scalar
	// Bytes returns the canonical byte representation of the scalar.
	Bytes() []byte
	// SetBytes sets the receiver from a byte slice and returns it.
	SetBytes(data []byte) (Scalar, error)
	// Equal reports whether the receiver equals b.
	Equal(b Scalar) bool
	// IsZero reports whether the receiver is zero.
	IsZero() bool
}

// Point is an element of a [Group]. Public keys, Feldman commitments,
// decryption factors and both halves of an ElGamal ciphertext are points.
//
// Arithmetic stores its result in the receiver and returns it.
type Point interface {
	// Add sets the receiver to a+b and returns it.
	Add(a, b Point) Point
	// Sub sets the receiver to a-b and returns it.
	Sub(a, b Point) Point
	// Negate sets the receiver to -a and returns it.
	Negate(a Point) Point
	// ScalarMult sets the receiver to s*p and returns it.
	ScalarMult(s Scalar, p Point) Point
	// Set sets the receiver to a and returns it.
	Set(a Point) Point
	// Bytes returns the canonical (compressed) encoding of the point.
	Bytes() []byte
	// SetBytes sets the receiver from an encoding produced by Bytes.
	// Returns an error if the data is not a valid group element.
	SetBytes(data []byte) (Point, error)
	// Equal reports whether the receiver equals b.
	Equal(b Point) bool
	// IsIdentity reports whether the receiver is the identity element.
	IsIdentity() bool
}

// Group is a prime-order group together with its scalar field.
//
//	g := &bjj.BJJ{}
//	sk, _ := g.RandomScalar(rand.Reader)
//	pk := g.NewPoint().ScalarMult(sk, g.Generator())
type Group interface {
	// NewScalar returns a new zero scalar.
	NewScalar() Scalar
	// NewPoint returns a new identity point.
	NewPoint() Point
	// Generator returns the group's base point.
	Generator() Point
	// RandomScalar returns a uniformly random scalar read from r.
	RandomScalar(r io.Reader) (Scalar, error)
	// HashToScalar hashes the input data to a scalar.
	HashToScalar(data ...[]byte) (Scalar, error)
	// Order returns the group order as a big-endian byte slice.
	Order() []byte
}

// PlaintextEncoder maps fixed-size plaintexts into the prime-order subgroup
// and back, so that they can be ElGamal-encrypted as points.
type PlaintextEncoder interface {
	// PlaintextSize is the exact length in bytes accepted by EncodePlaintext.
	PlaintextSize() int
	// EncodePlaintext returns a point that DecodePlaintext maps back to p.
	EncodePlaintext(p []byte) (Point, error)
	// DecodePlaintext recovers the plaintext embedded by EncodePlaintext.
	DecodePlaintext(pt Point) ([]byte, error)
}
