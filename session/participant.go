package session

import (
	"github.com/pkg/errors"

	"github.com/f3rmion/trusteeboard/elgamal"
	"github.com/f3rmion/trusteeboard/group"
	"github.com/f3rmion/trusteeboard/protocol"
	"github.com/f3rmion/trusteeboard/suite"
	"github.com/f3rmion/trusteeboard/trustee"
)

// Participant is a trustee as the orchestrator sees it.
type Participant interface {
	PublicKey() protocol.VerifyingKey
	Step(messages []*protocol.Message) ([]*protocol.Message, []trustee.Action, error)
	DKGPublicKey() (group.Point, bool)
	Plaintexts(batch int) ([]suite.Plaintext, bool)
	LocalBoard() []trustee.Entry
}

// ParticipantFactory creates the trustee at a position of a new session.
type ParticipantFactory func(s *suite.Suite, position int) (Participant, error)

// NewTrustee creates a [trustee.Trustee] with fresh signing and
// encryption keys.
func NewTrustee(s *suite.Suite, _ int) (Participant, error) {
	key, err := protocol.GenerateSigningKey(s)
	if err != nil {
		return nil, err
	}
	encKey, err := trustee.GenerateEncryptionKey(s)
	if err != nil {
		return nil, err
	}
	t, err := trustee.New(s, key, encKey)
	if err != nil {
		return nil, errors.Wrap(err, "create trustee")
	}
	return t, nil
}

// Crypto produces the ballots the orchestrator casts.
type Crypto interface {
	RandomPlaintext() (suite.Plaintext, error)
	Encrypt(pk group.Point, p suite.Plaintext) (*elgamal.Ciphertext, error)
}

var _ Crypto = (*suite.Suite)(nil)
var _ Participant = (*trustee.Trustee)(nil)
