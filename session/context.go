package session

import (
	"github.com/pkg/errors"

	"github.com/f3rmion/trusteeboard/board"
	"github.com/f3rmion/trusteeboard/protocol"
	"github.com/f3rmion/trusteeboard/suite"
)

// Context is the state of one session. It is owned by an [Orchestrator]
// and only touched under its lock.
type Context struct {
	suite       *suite.Suite
	cfg         *protocol.Configuration
	sessionID   uint64
	manager     *protocol.ProtocolManager
	trustees    []Participant
	selection   protocol.Selection
	trusteeKeys []protocol.VerifyingKey
	board       *board.Board

	// plaintexts is what the orchestrator encrypted. It is set once.
	plaintexts   []suite.Plaintext
	lastMessages []*protocol.Message
}

// Params are the parameters of a new session.
type Params struct {
	Trustees  int
	Threshold int
}

// Validate checks 1 <= Threshold <= Trustees <= protocol.MaxTrustees.
func (p Params) Validate() error {
	if p.Trustees < 1 || p.Trustees > protocol.MaxTrustees {
		return errors.Wrapf(ErrInvalidParameters, "trustees = %d, must be in [1, %d]", p.Trustees, protocol.MaxTrustees)
	}
	if p.Threshold < 1 || p.Threshold > p.Trustees {
		return errors.Wrapf(ErrInvalidParameters, "threshold = %d, must be in [1, %d]", p.Threshold, p.Trustees)
	}
	return nil
}

// newContext bootstraps a session: it creates the protocol manager and
// the trustees, assembles the configuration and posts it as the first
// board message.
func newContext(s *suite.Suite, factory ParticipantFactory, p Params, sessionID uint64) (*Context, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	selection, err := protocol.SelectFirst(p.Threshold, p.Trustees)
	if err != nil {
		return nil, err
	}
	manager, err := protocol.NewProtocolManager(s)
	if err != nil {
		return nil, err
	}

	trustees := make([]Participant, p.Trustees)
	keys := make([]protocol.VerifyingKey, p.Trustees)
	for i := range trustees {
		if trustees[i], err = factory(s, i); err != nil {
			return nil, errors.Wrapf(err, "trustee %d", i)
		}
		keys[i] = trustees[i].PublicKey()
	}

	cfg, err := protocol.NewConfiguration(manager.PublicKey(), keys, p.Threshold, s.Name())
	if err != nil {
		return nil, err
	}
	bootstrap, err := manager.BootstrapMessage(cfg, sessionID)
	if err != nil {
		return nil, err
	}
	b := board.New(sessionID)
	b.Add(bootstrap)

	return &Context{
		suite:        s,
		cfg:          cfg,
		sessionID:    sessionID,
		manager:      manager,
		trustees:     trustees,
		selection:    selection,
		trusteeKeys:  keys,
		board:        b,
		lastMessages: []*protocol.Message{bootstrap},
	}, nil
}
