package protocol

import "github.com/pkg/errors"

var (
	// ErrInvalidConfiguration is returned for configurations that break the
	// session invariants (key count, threshold, duplicate keys).
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrInvalidSelection is returned for trustee selections that are not a
	// threshold-sized set of distinct, in-range positions.
	ErrInvalidSelection = errors.New("invalid trustee selection")
	// ErrUnknownSigner is returned when a message is signed by a key that is
	// neither a trustee nor the protocol manager.
	ErrUnknownSigner = errors.New("unknown signer")
	// ErrWrongAuthor is returned when a statement type is signed by the
	// wrong kind of party.
	ErrWrongAuthor = errors.New("statement signed by wrong party")
	// ErrBadSignature is returned when a message signature does not verify.
	ErrBadSignature = errors.New("bad signature")
	// ErrArtifactMismatch is returned when an artifact does not match the
	// hash in its statement.
	ErrArtifactMismatch = errors.New("artifact does not match statement")
	// ErrWrongConfiguration is returned when a message refers to another
	// configuration than the one it is verified against.
	ErrWrongConfiguration = errors.New("message refers to another configuration")
)
