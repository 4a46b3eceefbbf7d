package frost

import (
	"errors"
	"io"

	"github.com/f3rmion/trusteeboard/group"
)

// Signature is a Schnorr signature (R, z) with z*G = R + c*Y.
type Signature struct {
	R group.Point
	Z group.Scalar
}

// Sign produces a single-signer Schnorr signature on msg.
func Sign(g group.Group, h Hasher, r io.Reader, sk group.Scalar, msg []byte) (*Signature, error) {
	k, err := g.RandomScalar(r)
	if err != nil {
		return nil, err
	}
	if k.IsZero() {
		return nil, errors.New("zero nonce")
	}

	R := g.NewPoint().ScalarMult(k, g.Generator())
	Y := g.NewPoint().ScalarMult(sk, g.Generator())
	c := h.Challenge(g, R.Bytes(), Y.Bytes(), msg)

	// z = k + c*x
	z := g.NewScalar().Mul(c, sk)
	z = g.NewScalar().Add(k, z)

	return &Signature{R: R, Z: z}, nil
}

// Verify checks sig on msg against public key Y.
func Verify(g group.Group, h Hasher, msg []byte, sig *Signature, Y group.Point) bool {
	if sig == nil || sig.R == nil || sig.Z == nil {
		return false
	}
	c := h.Challenge(g, sig.R.Bytes(), Y.Bytes(), msg)

	// z*G == R + c*Y
	lhs := g.NewPoint().ScalarMult(sig.Z, g.Generator())
	cY := g.NewPoint().ScalarMult(c, Y)
	rhs := g.NewPoint().Add(sig.R, cY)

	return lhs.Equal(rhs)
}

// Bytes returns R || z.
func (s *Signature) Bytes() []byte {
	out := append([]byte{}, s.R.Bytes()...)
	return append(out, s.Z.Bytes()...)
}

// SignatureFromBytes parses the output of [Signature.Bytes].
func SignatureFromBytes(g group.Group, data []byte) (*Signature, error) {
	pointSize := len(g.Generator().Bytes())
	if len(data) != pointSize+len(g.NewScalar().Bytes()) {
		return nil, errors.New("malformed signature")
	}
	R, err := g.NewPoint().SetBytes(data[:pointSize])
	if err != nil {
		return nil, err
	}
	z, err := ScalarFromCanonical(g, data[pointSize:])
	if err != nil {
		return nil, err
	}
	return &Signature{R: R, Z: z}, nil
}
