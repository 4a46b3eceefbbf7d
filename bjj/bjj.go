package bjj

import (
	"crypto/sha256"
	"io"

	"github.com/consensys/gnark-crypto/ecc/bn254/twistededwards"

	"github.com/f3rmion/trusteeboard/group"
)

// BJJ is the Baby Jubjub group. It implements [group.Group] and
// [group.PlaintextEncoder]. The zero value is ready to use.
type BJJ struct{}

// NewScalar returns a zero scalar.
func (g *BJJ) NewScalar() group.Scalar {
	return newScalar()
}

// NewPoint returns the identity point.
func (g *BJJ) NewPoint() group.Point {
	var p Point
	p.inner.X.SetZero()
	p.inner.Y.SetOne()
	return &p
}

// Generator returns the base point of the prime-order subgroup.
func (g *BJJ) Generator() group.Point {
	return &Point{inner: twistededwards.GetEdwardsCurve().Base}
}

// RandomScalar reads 64 bytes from r and reduces them modulo the subgroup
// order, which keeps the modulo bias negligible.
func (g *BJJ) RandomScalar(r io.Reader) (group.Scalar, error) {
	var buf [64]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, err
	}
	s := newScalar()
	s.inner.SetBytes(buf[:])
	return s.reduce(), nil
}

// HashToScalar hashes the concatenation of data with SHA-256 and reduces
// the digest modulo the subgroup order.
func (g *BJJ) HashToScalar(data ...[]byte) (group.Scalar, error) {
	h := sha256.New()
	for _, d := range data {
		h.Write(d)
	}
	s := newScalar()
	s.inner.SetBytes(h.Sum(nil))
	return s.reduce(), nil
}

// Order returns the subgroup order, big-endian.
func (g *BJJ) Order() []byte {
	return curveOrder.Bytes()
}
