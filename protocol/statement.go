package protocol

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// StatementType tags what a statement asserts.
type StatementType uint8

// Statement types, in the order a round produces them.
const (
	TypeConfiguration StatementType = iota
	TypeConfigurationSigned
	TypeChannel
	TypeShares
	TypePublicKey
	TypePublicKeySigned
	TypeBallots
	TypeMix
	TypeDecryptionFactors
	TypePlaintexts
	TypePlaintextsSigned
)

var statementNames = [...]string{
	TypeConfiguration:       "Configuration",
	TypeConfigurationSigned: "ConfigurationSigned",
	TypeChannel:             "Channel",
	TypeShares:              "Shares",
	TypePublicKey:           "PublicKey",
	TypePublicKeySigned:     "PublicKeySigned",
	TypeBallots:             "Ballots",
	TypeMix:                 "Mix",
	TypeDecryptionFactors:   "DecryptionFactors",
	TypePlaintexts:          "Plaintexts",
	TypePlaintextsSigned:    "PlaintextsSigned",
}

func (t StatementType) String() string {
	if int(t) < len(statementNames) {
		return statementNames[t]
	}
	return "Unknown"
}

// ManagerAuthored reports whether statements of type t are signed by the
// protocol manager rather than a trustee.
func (t StatementType) ManagerAuthored() bool {
	return t == TypeConfiguration || t == TypeBallots
}

// MarshalText encodes t by name.
func (t StatementType) MarshalText() ([]byte, error) {
	if int(t) >= len(statementNames) {
		return nil, errors.Errorf("unknown statement type %d", t)
	}
	return []byte(t.String()), nil
}

// UnmarshalText decodes a name produced by MarshalText.
func (t *StatementType) UnmarshalText(text []byte) error {
	for i, name := range statementNames {
		if name == string(text) {
			*t = StatementType(i)
			return nil
		}
	}
	return errors.Errorf("unknown statement type %q", text)
}

// Statement is the signed part of a message.
type Statement struct {
	Type              StatementType `json:"type"`
	SessionID         uint64        `json:"session_id"`
	ConfigurationHash Hash          `json:"configuration_hash"`
	Batch             int           `json:"batch"`
	// ArtifactHash is set iff the message carries an artifact.
	ArtifactHash *Hash `json:"artifact_hash,omitempty"`
	// Data holds the hashes the statement endorses, such as the artifact of
	// the message a Signed statement agrees with.
	Data []Hash `json:"data,omitempty"`
}

func (s *Statement) encode() ([]byte, error) {
	b, err := json.Marshal(s)
	return b, errors.Wrap(err, "encode statement")
}
