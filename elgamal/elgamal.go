package elgamal

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/f3rmion/trusteeboard/frost"
	"github.com/f3rmion/trusteeboard/group"
)

// Ciphertext is an ElGamal ciphertext (r*G, m + r*Y).
type Ciphertext struct {
	C1 group.Point
	C2 group.Point
}

// Encrypt encrypts the point m under public key pk.
func Encrypt(g group.Group, rng io.Reader, pk, m group.Point) (*Ciphertext, error) {
	r, err := g.RandomScalar(rng)
	if err != nil {
		return nil, err
	}
	c1 := g.NewPoint().ScalarMult(r, g.Generator())
	c2 := g.NewPoint().ScalarMult(r, pk)
	c2 = g.NewPoint().Add(m, c2)
	return &Ciphertext{C1: c1, C2: c2}, nil
}

// Decrypt decrypts c with the full secret key. Only tests and single-key
// setups hold the full secret.
func Decrypt(g group.Group, sk group.Scalar, c *Ciphertext) group.Point {
	d := g.NewPoint().ScalarMult(sk, c.C1)
	return g.NewPoint().Sub(c.C2, d)
}

// ReEncrypt adds fresh randomness to c without changing its plaintext.
func ReEncrypt(g group.Group, rng io.Reader, pk group.Point, c *Ciphertext) (*Ciphertext, error) {
	zero, err := Encrypt(g, rng, pk, g.NewPoint())
	if err != nil {
		return nil, err
	}
	return &Ciphertext{
		C1: g.NewPoint().Add(c.C1, zero.C1),
		C2: g.NewPoint().Add(c.C2, zero.C2),
	}, nil
}

// Shuffle re-encrypts every ciphertext and returns them in a uniformly
// random order.
func Shuffle(g group.Group, rng io.Reader, pk group.Point, cs []*Ciphertext) ([]*Ciphertext, error) {
	out := make([]*Ciphertext, len(cs))
	for i, c := range cs {
		re, err := ReEncrypt(g, rng, pk, c)
		if err != nil {
			return nil, err
		}
		out[i] = re
	}
	for i := len(out) - 1; i > 0; i-- {
		j, err := randIndex(rng, i+1)
		if err != nil {
			return nil, err
		}
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func randIndex(rng io.Reader, n int) (int, error) {
	v, err := rand.Int(rng, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}

// Share identifies one trustee's contribution to a threshold decryption.
type Share struct {
	ID     group.Scalar // trustee identifier used in the DKG
	Factor group.Point  // x_i * C1
}

// Combine recovers the plaintext point of c from exactly the decryption
// factors of an interpolation set. Duplicate IDs are an error.
func Combine(g group.Group, c *Ciphertext, shares []Share) (group.Point, error) {
	if len(shares) == 0 {
		return nil, errors.New("no decryption factors")
	}
	ids := make([]group.Scalar, len(shares))
	for i, s := range shares {
		ids[i] = s.ID
	}

	d := g.NewPoint()
	for _, s := range shares {
		lambda, err := frost.LagrangeCoefficient(g, s.ID, ids)
		if err != nil {
			return nil, fmt.Errorf("combine: %w", err)
		}
		term := g.NewPoint().ScalarMult(lambda, s.Factor)
		d = g.NewPoint().Add(d, term)
	}
	return g.NewPoint().Sub(c.C2, d), nil
}
