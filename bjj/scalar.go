package bjj

import (
	"errors"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/twistededwards"

	"github.com/f3rmion/trusteeboard/group"
)

// scalarSize is the fixed length of a serialized scalar.
const scalarSize = 32

// curveOrder is the order of the Baby Jubjub prime-order subgroup, which is
// not the BN254 scalar field modulus.
var curveOrder *big.Int

func init() {
	curve := twistededwards.GetEdwardsCurve()
	curveOrder = new(big.Int).Set(&curve.Order)
}

var errZeroInverse = errors.New("bjj: cannot invert zero scalar")

// Scalar is an integer modulo the subgroup order. It implements
// [group.Scalar]; every operation leaves the value reduced.
type Scalar struct {
	inner *big.Int
}

func newScalar() *Scalar {
	return &Scalar{inner: new(big.Int)}
}

// scalarFrom unwraps a group.Scalar produced by this package.
func scalarFrom(s group.Scalar) *Scalar {
	return s.(*Scalar)
}

func (s *Scalar) reduce() *Scalar {
	s.inner.Mod(s.inner, curveOrder)
	return s
}

// Add sets s to a + b and returns s.
func (s *Scalar) Add(a, b group.Scalar) group.Scalar {
	s.inner.Add(scalarFrom(a).inner, scalarFrom(b).inner)
	return s.reduce()
}

// Sub sets s to a - b and returns s.
func (s *Scalar) Sub(a, b group.Scalar) group.Scalar {
	s.inner.Sub(scalarFrom(a).inner, scalarFrom(b).inner)
	return s.reduce()
}

// Mul sets s to a * b and returns s.
func (s *Scalar) Mul(a, b group.Scalar) group.Scalar {
	s.inner.Mul(scalarFrom(a).inner, scalarFrom(b).inner)
	return s.reduce()
}

// Negate sets s to -a and returns s.
func (s *Scalar) Negate(a group.Scalar) group.Scalar {
	s.inner.Neg(scalarFrom(a).inner)
	return s.reduce()
}

// Invert sets s to a^-1 and returns s.
func (s *Scalar) Invert(a group.Scalar) (group.Scalar, error) {
	as := scalarFrom(a)
	if as.IsZero() {
		return nil, errZeroInverse
	}
	s.inner.ModInverse(as.inner, curveOrder)
	return s, nil
}

// Set copies a into s and returns s.
func (s *Scalar) Set(a group.Scalar) group.Scalar {
	s.inner.Set(scalarFrom(a).inner)
	return s
}

// Bytes returns s as a 32-byte big-endian value.
func (s *Scalar) Bytes() []byte {
	out := make([]byte, scalarSize)
	s.inner.FillBytes(out)
	return out
}

// SetBytes reads a big-endian value of any length and reduces it modulo
// the subgroup order.
func (s *Scalar) SetBytes(data []byte) (group.Scalar, error) {
	s.inner.SetBytes(data)
	return s.reduce(), nil
}

// Equal reports whether s and b hold the same value.
func (s *Scalar) Equal(b group.Scalar) bool {
	return s.inner.Cmp(scalarFrom(b).inner) == 0
}

// IsZero reports whether s is zero.
func (s *Scalar) IsZero() bool {
	return s.inner.Sign() == 0
}
