package protocol

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// Selection is the ordered set of trustees active for a batch, as 1-based
// positions. Order matters: it is the mixing order.
type Selection struct {
	positions []int
}

// NewSelection returns a selection of the given 1-based positions. It is
// not validated; see [Selection.Validate].
func NewSelection(positions ...int) Selection {
	return Selection{positions: append([]int(nil), positions...)}
}

// SelectFirst selects the first threshold candidates of 1..MaxTrustees and
// validates the result against n trustees.
func SelectFirst(threshold, n int) (Selection, error) {
	if threshold < 1 || threshold > MaxTrustees {
		return Selection{}, errors.Wrapf(ErrInvalidSelection, "threshold %d outside [1, %d]", threshold, MaxTrustees)
	}
	positions := make([]int, threshold)
	for i := range positions {
		positions[i] = i + 1
	}
	s := Selection{positions: positions}
	if err := s.Validate(n, threshold); err != nil {
		return Selection{}, err
	}
	return s, nil
}

// Validate checks that s holds exactly threshold distinct positions in
// [1, n].
func (s Selection) Validate(n, threshold int) error {
	if len(s.positions) != threshold {
		return errors.Wrapf(ErrInvalidSelection, "%d trustees selected, threshold is %d", len(s.positions), threshold)
	}
	seen := make(map[int]bool, len(s.positions))
	for _, p := range s.positions {
		if p < 1 || p > n {
			return errors.Wrapf(ErrInvalidSelection, "position %d outside [1, %d]", p, n)
		}
		if seen[p] {
			return errors.Wrapf(ErrInvalidSelection, "position %d selected twice", p)
		}
		seen[p] = true
	}
	return nil
}

// Len returns the number of selected trustees.
func (s Selection) Len() int { return len(s.positions) }

// Positions returns a copy of the 1-based positions.
func (s Selection) Positions() []int {
	return append([]int(nil), s.positions...)
}

// Indices returns the selected trustees as 0-based indices.
func (s Selection) Indices() []int {
	out := make([]int, len(s.positions))
	for i, p := range s.positions {
		out[i] = p - 1
	}
	return out
}

// Contains reports whether the trustee at 0-based index is selected.
func (s Selection) Contains(index int) bool {
	_, ok := s.Rank(index)
	return ok
}

// Rank returns where the trustee at 0-based index sits in the selection.
func (s Selection) Rank(index int) (int, bool) {
	for i, p := range s.positions {
		if p == index+1 {
			return i, true
		}
	}
	return 0, false
}

// MarshalJSON encodes s as a list of 1-based positions.
func (s Selection) MarshalJSON() ([]byte, error) {
	if s.positions == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.positions)
}

// UnmarshalJSON decodes the output of MarshalJSON.
func (s *Selection) UnmarshalJSON(b []byte) error {
	return json.Unmarshal(b, &s.positions)
}
