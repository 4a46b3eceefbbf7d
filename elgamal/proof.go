package elgamal

import (
	"io"

	"github.com/f3rmion/trusteeboard/frost"
	"github.com/f3rmion/trusteeboard/group"
)

// Proof is a Chaum-Pedersen proof of equal discrete logarithms, stored as
// challenge and response.
type Proof struct {
	C group.Scalar
	Z group.Scalar
}

// DecryptionFactor is x_i*C1 together with the proof that it used the
// secret behind the trustee's verification key.
type DecryptionFactor struct {
	Factor group.Point
	Proof  *Proof
}

// PartialDecrypt computes the decryption factor of c under the key share
// secret with verification key vk. label binds the proof to its context
// (session, batch, position) so it cannot be replayed elsewhere.
func PartialDecrypt(g group.Group, h frost.Hasher, rng io.Reader, secret group.Scalar, vk group.Point, c *Ciphertext, label []byte) (*DecryptionFactor, error) {
	w, err := g.RandomScalar(rng)
	if err != nil {
		return nil, err
	}
	d := g.NewPoint().ScalarMult(secret, c.C1)
	a := g.NewPoint().ScalarMult(w, g.Generator())
	b := g.NewPoint().ScalarMult(w, c.C1)

	ch := proofChallenge(g, h, vk, c.C1, d, a, b, label)

	// z = w + c*x
	z := g.NewScalar().Mul(ch, secret)
	z = g.NewScalar().Add(w, z)

	return &DecryptionFactor{Factor: d, Proof: &Proof{C: ch, Z: z}}, nil
}

// VerifyFactor checks the proof attached to f.
func VerifyFactor(g group.Group, h frost.Hasher, vk group.Point, c *Ciphertext, f *DecryptionFactor, label []byte) bool {
	if f == nil || f.Proof == nil || f.Factor == nil {
		return false
	}
	// a = z*G - c*vk, b = z*C1 - c*D
	zG := g.NewPoint().ScalarMult(f.Proof.Z, g.Generator())
	cVK := g.NewPoint().ScalarMult(f.Proof.C, vk)
	a := g.NewPoint().Sub(zG, cVK)

	zC1 := g.NewPoint().ScalarMult(f.Proof.Z, c.C1)
	cD := g.NewPoint().ScalarMult(f.Proof.C, f.Factor)
	b := g.NewPoint().Sub(zC1, cD)

	return proofChallenge(g, h, vk, c.C1, f.Factor, a, b, label).Equal(f.Proof.C)
}

func proofChallenge(g group.Group, h frost.Hasher, vk, c1, d, a, b group.Point, label []byte) group.Scalar {
	return h.ProofChallenge(g,
		g.Generator().Bytes(), vk.Bytes(), c1.Bytes(), d.Bytes(), a.Bytes(), b.Bytes(), label)
}
