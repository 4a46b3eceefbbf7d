package bjj

import (
	"errors"

	"github.com/consensys/gnark-crypto/ecc/bn254/twistededwards"

	"github.com/f3rmion/trusteeboard/group"
)

var (
	errOffCurve    = errors.New("bjj: point is not on the curve")
	errNotSubgroup = errors.New("bjj: point is not in the prime-order subgroup")
)

// Point is a Baby Jubjub point in affine coordinates. It implements
// [group.Point]; the identity is (0, 1).
type Point struct {
	inner twistededwards.PointAffine
}

func pointFrom(p group.Point) *Point {
	return p.(*Point)
}

// Add sets p to a + b and returns p.
func (p *Point) Add(a, b group.Point) group.Point {
	p.inner.Add(&pointFrom(a).inner, &pointFrom(b).inner)
	return p
}

// Sub sets p to a - b and returns p.
func (p *Point) Sub(a, b group.Point) group.Point {
	var negB twistededwards.PointAffine
	negB.Neg(&pointFrom(b).inner)
	p.inner.Add(&pointFrom(a).inner, &negB)
	return p
}

// Negate sets p to -a and returns p.
func (p *Point) Negate(a group.Point) group.Point {
	p.inner.Neg(&pointFrom(a).inner)
	return p
}

// ScalarMult sets p to s * q and returns p.
func (p *Point) ScalarMult(s group.Scalar, q group.Point) group.Point {
	p.inner.ScalarMultiplication(&pointFrom(q).inner, scalarFrom(s).inner)
	return p
}

// Set copies a into p and returns p.
func (p *Point) Set(a group.Point) group.Point {
	p.inner.Set(&pointFrom(a).inner)
	return p
}

// Bytes returns the 32-byte compressed encoding of p.
func (p *Point) Bytes() []byte {
	b := p.inner.Bytes()
	return b[:]
}

// SetBytes decodes a compressed point. Keys, commitments and ciphertexts
// read back from board artifacts pass through here, so anything outside
// the prime-order subgroup is rejected.
func (p *Point) SetBytes(data []byte) (group.Point, error) {
	var q twistededwards.PointAffine
	if err := q.Unmarshal(data); err != nil {
		return nil, err
	}
	if !q.IsOnCurve() {
		return nil, errOffCurve
	}
	if !inSubgroup(&q) {
		return nil, errNotSubgroup
	}
	p.inner = q
	return p, nil
}

// Equal reports whether p and b are the same point.
func (p *Point) Equal(b group.Point) bool {
	return p.inner.Equal(&pointFrom(b).inner)
}

// IsIdentity reports whether p is (0, 1).
func (p *Point) IsIdentity() bool {
	return p.inner.IsZero()
}
