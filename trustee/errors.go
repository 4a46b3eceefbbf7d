package trustee

import "github.com/pkg/errors"

var (
	// ErrNotConfigured is returned when the first message a trustee sees is
	// not a Configuration.
	ErrNotConfigured = errors.New("no configuration seen")
	// ErrNotATrustee is returned when the configuration does not list the
	// trustee's key.
	ErrNotATrustee = errors.New("configuration does not list this trustee")
	// ErrWrongSession is returned for messages of another session.
	ErrWrongSession = errors.New("message belongs to another session")
	// ErrConflict is returned when a party posts two different messages for
	// the same statement.
	ErrConflict = errors.New("conflicting messages")
	// ErrBadShare is returned when a received key share does not match its
	// sender's commitments.
	ErrBadShare = errors.New("invalid key share")
	// ErrBadProof is returned when a decryption factor's proof fails.
	ErrBadProof = errors.New("invalid decryption proof")
	// ErrMismatch is returned when another trustee's result differs from
	// the local computation.
	ErrMismatch = errors.New("result does not match local computation")
)
