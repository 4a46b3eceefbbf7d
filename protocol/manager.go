package protocol

import (
	"github.com/pkg/errors"

	"github.com/f3rmion/trusteeboard/suite"
)

// BallotsBatch is the batch that ballot messages are posted in.
const BallotsBatch = 1

// ProtocolManager is the session authority. It posts the configuration
// that starts a session and, in this simulation, the ballot batches.
type ProtocolManager struct {
	key *SigningKey
}

// NewProtocolManager generates a manager with a fresh signing key.
func NewProtocolManager(s *suite.Suite) (*ProtocolManager, error) {
	key, err := GenerateSigningKey(s)
	if err != nil {
		return nil, errors.Wrap(err, "protocol manager")
	}
	return &ProtocolManager{key: key}, nil
}

// PublicKey returns the manager's verifying key.
func (pm *ProtocolManager) PublicKey() VerifyingKey {
	return pm.key.Public()
}

// BootstrapMessage returns the Configuration message that opens session
// sessionID. The configuration itself is the artifact.
func (pm *ProtocolManager) BootstrapMessage(cfg *Configuration, sessionID uint64) (*Message, error) {
	if !cfg.ProtocolManager.Equal(pm.PublicKey()) {
		return nil, errors.Wrap(ErrInvalidConfiguration, "configuration names another protocol manager")
	}
	return NewMessage(pm.key, Statement{
		Type:              TypeConfiguration,
		SessionID:         sessionID,
		ConfigurationHash: cfg.Hash(),
	}, cfg)
}

// BallotsMessage returns the message posting ballots for batch, addressed
// by the hash of the public key they were encrypted under.
func (pm *ProtocolManager) BallotsMessage(cfg *Configuration, sessionID uint64, batch int, ballots *BallotsArtifact, pkHash Hash) (*Message, error) {
	if err := ballots.Selection.Validate(len(cfg.Trustees), cfg.Threshold); err != nil {
		return nil, err
	}
	return NewMessage(pm.key, Statement{
		Type:              TypeBallots,
		SessionID:         sessionID,
		ConfigurationHash: cfg.Hash(),
		Batch:             batch,
		Data:              []Hash{pkHash},
	}, ballots)
}
