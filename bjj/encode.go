package bjj

import (
	"errors"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/twistededwards"

	"github.com/f3rmion/trusteeboard/group"
)

// PlaintextSize is the number of plaintext bytes carried by one point.
const PlaintextSize = 30

// maxCounter bounds the try-and-increment search. Each candidate y lands in
// the subgroup with probability about 1/16.
const maxCounter = 256

var (
	errNoEncoding    = errors.New("bjj: no subgroup point for plaintext")
	errNotEncoded    = errors.New("bjj: point does not carry an encoded plaintext")
	errForeignPoint  = errors.New("bjj: point is not a Baby Jubjub point")
	errPlaintextSize = fmt.Errorf("bjj: plaintext must be %d bytes", PlaintextSize)
)

// PlaintextSize implements [group.PlaintextEncoder].
func (g *BJJ) PlaintextSize() int {
	return PlaintextSize
}

// EncodePlaintext embeds p in the y coordinate of a subgroup point.
//
// The y coordinate is built big-endian as 0x00 | counter | p, and the
// counter is incremented until y belongs to a point of the prime-order
// subgroup. The leading zero byte keeps y below the field modulus.
func (g *BJJ) EncodePlaintext(p []byte) (group.Point, error) {
	if len(p) != PlaintextSize {
		return nil, errPlaintextSize
	}
	curve := twistededwards.GetEdwardsCurve()

	var buf [fr.Bytes]byte
	copy(buf[2:], p)
	for counter := 0; counter < maxCounter; counter++ {
		buf[1] = byte(counter)

		var y fr.Element
		y.SetBytes(buf[:])
		x, ok := recoverX(&curve, &y)
		if !ok {
			continue
		}
		q := twistededwards.PointAffine{X: *x, Y: y}
		if !inSubgroup(&q) {
			continue
		}
		return &Point{inner: q}, nil
	}
	return nil, errNoEncoding
}

// DecodePlaintext recovers the bytes embedded by [BJJ.EncodePlaintext].
func (g *BJJ) DecodePlaintext(pt group.Point) ([]byte, error) {
	p, ok := pt.(*Point)
	if !ok {
		return nil, errForeignPoint
	}
	y := p.inner.Y.Bytes()
	if y[0] != 0 {
		return nil, errNotEncoded
	}
	out := make([]byte, PlaintextSize)
	copy(out, y[2:])
	return out, nil
}

// recoverX solves a*x^2 + y^2 = 1 + d*x^2*y^2 for x.
func recoverX(curve *twistededwards.CurveParams, y *fr.Element) (*fr.Element, bool) {
	var one, y2, num, den fr.Element
	one.SetOne()
	y2.Square(y)
	num.Sub(&one, &y2)
	den.Mul(&curve.D, &y2)
	den.Sub(&curve.A, &den)
	if den.IsZero() {
		return nil, false
	}
	den.Inverse(&den)
	num.Mul(&num, &den)

	var x fr.Element
	if x.Sqrt(&num) == nil {
		return nil, false
	}
	return &x, true
}

// inSubgroup reports whether order*q is the identity.
func inSubgroup(q *twistededwards.PointAffine) bool {
	var r twistededwards.PointAffine
	r.ScalarMultiplication(q, curveOrder)
	return r.IsZero()
}
