package frost

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/f3rmion/trusteeboard/group"
)

var (
	errDuplicateID  = errors.New("duplicate identifiers in interpolation set")
	errNonCanonical = errors.New("non-canonical scalar encoding")
)

// FROST holds the group and the t-of-n parameters of one key generation.
type FROST struct {
	group     group.Group
	threshold int // t - shares needed to use the key
	total     int // n - participants holding a share
}

// KeyShare is one participant's output of a completed DKG.
type KeyShare struct {
	ID        group.Scalar // participant identifier, 1..n
	SecretKey group.Scalar // x_i, the participant's share of the group secret
	PublicKey group.Point  // x_i * G, the participant's verification key
	GroupKey  group.Point  // sum of every participant's constant commitment
}

// New returns a FROST instance for a t-of-n key. A threshold of 1 is
// allowed: every participant then holds enough to use the key alone.
func New(g group.Group, threshold, total int) (*FROST, error) {
	if threshold < 1 {
		return nil, errors.New("threshold must be at least 1")
	}
	if total < threshold {
		return nil, errors.New("total must be >= threshold")
	}
	if total > 255 {
		return nil, fmt.Errorf("total must be at most 255, got %d", total)
	}

	return &FROST{
		group:     g,
		threshold: threshold,
		total:     total,
	}, nil
}

// Group returns the group the key lives in.
func (f *FROST) Group() group.Group {
	return f.group
}

// Threshold returns t.
func (f *FROST) Threshold() int {
	return f.threshold
}

// Total returns n.
func (f *FROST) Total() int {
	return f.total
}

// ScalarFromInt returns n as a scalar. Participant identifiers are small
// positive integers, so a single byte is enough.
func ScalarFromInt(g group.Group, n int) group.Scalar {
	buf := make([]byte, 32)
	buf[31] = byte(n) // big-endian: value goes at the end
	s, _ := g.NewScalar().SetBytes(buf)
	return s
}

// ScalarFromCanonical parses data as written by Scalar.Bytes. Encodings of
// values at or above the group order are rejected, so every scalar has
// exactly one accepted encoding.
func ScalarFromCanonical(g group.Group, data []byte) (group.Scalar, error) {
	s, err := g.NewScalar().SetBytes(data)
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(s.Bytes(), data) {
		return nil, errNonCanonical
	}
	return s, nil
}

func (f *FROST) scalarFromInt(n int) group.Scalar {
	return ScalarFromInt(f.group, n)
}

// evalPolynomial evaluates coeffs at x with Horner's rule.
func (f *FROST) evalPolynomial(coeffs []group.Scalar, x group.Scalar) group.Scalar {
	result := f.group.NewScalar().Set(coeffs[len(coeffs)-1])
	for i := len(coeffs) - 2; i >= 0; i-- {
		result = f.group.NewScalar().Mul(result, x)
		result = f.group.NewScalar().Add(result, coeffs[i])
	}
	return result
}

// LagrangeCoefficient returns the coefficient of id when interpolating at
// zero over ids. ids must be distinct and contain id.
func LagrangeCoefficient(g group.Group, id group.Scalar, ids []group.Scalar) (group.Scalar, error) {
	seen := make(map[string]bool, len(ids))
	for _, other := range ids {
		key := string(other.Bytes())
		if seen[key] {
			return nil, errDuplicateID
		}
		seen[key] = true
	}
	if !seen[string(id.Bytes())] {
		return nil, errors.New("identifier not in interpolation set")
	}

	// lambda_id = prod over j != id of j / (j - id)
	num := ScalarFromInt(g, 1)
	den := ScalarFromInt(g, 1)
	for _, other := range ids {
		if other.Equal(id) {
			continue
		}
		num = g.NewScalar().Mul(num, other)
		diff := g.NewScalar().Sub(other, id)
		den = g.NewScalar().Mul(den, diff)
	}

	denInv, err := g.NewScalar().Invert(den)
	if err != nil {
		return nil, errDuplicateID
	}
	return g.NewScalar().Mul(num, denInv), nil
}
