package session

import (
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

var (
	// ErrInvalidParameters is returned for trustee counts, thresholds or
	// ballot counts out of range.
	ErrInvalidParameters = errors.New("invalid session parameters")
	// ErrInvalidSelector is returned for step selectors that are neither
	// "all" nor a trustee index.
	ErrInvalidSelector = errors.New("invalid trustee selector")
)

// TrusteeError is the failure of one trustee's step.
type TrusteeError struct {
	Trustee int
	Err     error
}

func (e *TrusteeError) Error() string {
	return fmt.Sprintf("trustee %d: %v", e.Trustee, e.Err)
}

func (e *TrusteeError) Unwrap() error { return e.Err }

// StepError reports the trustees whose step failed. The messages of the
// other trustees were posted.
type StepError struct {
	err error
}

func (e *StepError) add(trustee int, err error) {
	e.err = multierr.Append(e.err, &TrusteeError{Trustee: trustee, Err: err})
}

// Failures returns one error per failed trustee, in step order.
func (e *StepError) Failures() []*TrusteeError {
	errs := multierr.Errors(e.err)
	out := make([]*TrusteeError, 0, len(errs))
	for _, err := range errs {
		var te *TrusteeError
		if errors.As(err, &te) {
			out = append(out, te)
		}
	}
	return out
}

func (e *StepError) Error() string {
	return "step failed: " + e.err.Error()
}

func (e *StepError) Unwrap() error { return e.err }

func (e *StepError) orNil() error {
	if e.err == nil {
		return nil
	}
	return e
}
