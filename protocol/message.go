package protocol

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/f3rmion/trusteeboard/suite"
)

// Message is a signed statement with an optional artifact.
type Message struct {
	Statement Statement    `json:"statement"`
	SignerKey VerifyingKey `json:"signer_key"`
	Signature []byte       `json:"signature"`
	Artifact  []byte       `json:"artifact,omitempty"`
}

// NewMessage signs stmt with key. A non-nil artifact is JSON-encoded and
// bound to the statement through its hash.
func NewMessage(key *SigningKey, stmt Statement, artifact any) (*Message, error) {
	m := &Message{SignerKey: key.Public()}
	if artifact != nil {
		raw, err := json.Marshal(artifact)
		if err != nil {
			return nil, errors.Wrapf(err, "encode %s artifact", stmt.Type)
		}
		h := HashOf(raw)
		stmt.ArtifactHash = &h
		m.Artifact = raw
	} else {
		stmt.ArtifactHash = nil
	}
	m.Statement = stmt

	payload, err := m.signingBytes()
	if err != nil {
		return nil, err
	}
	if m.Signature, err = key.Sign(payload); err != nil {
		return nil, errors.Wrapf(err, "sign %s", stmt.Type)
	}
	return m, nil
}

func (m *Message) signingBytes() ([]byte, error) {
	stmt, err := m.Statement.encode()
	if err != nil {
		return nil, err
	}
	return append(stmt, m.SignerKey...), nil
}

// HasArtifact reports whether m carries an artifact.
func (m *Message) HasArtifact() bool {
	return m.Artifact != nil
}

// Hash identifies m by its full content, signature included.
func (m *Message) Hash() Hash {
	payload, _ := m.signingBytes()
	return HashOf(payload, m.Signature, m.Artifact)
}

// Verify checks m against cfg and returns the signer's position: the
// signer must be a party of cfg allowed to author the statement type, the
// statement must refer to cfg, the signature must verify and the artifact
// must match its hash.
func (m *Message) Verify(cfg *Configuration, s *suite.Suite) (int, error) {
	pos, ok := cfg.Position(m.SignerKey)
	if !ok {
		return 0, errors.Wrapf(ErrUnknownSigner, "%s signed by %s", m.Statement.Type, m.SignerKey)
	}
	if m.Statement.Type.ManagerAuthored() != (pos == ManagerPosition) {
		return 0, errors.Wrapf(ErrWrongAuthor, "%s signed by position %d", m.Statement.Type, pos)
	}
	if m.Statement.ConfigurationHash != cfg.Hash() {
		return 0, errors.Wrapf(ErrWrongConfiguration, "%s from position %d", m.Statement.Type, pos)
	}

	payload, err := m.signingBytes()
	if err != nil {
		return 0, err
	}
	if err := VerifySignature(s, m.SignerKey, payload, m.Signature); err != nil {
		return 0, errors.Wrapf(err, "%s from position %d", m.Statement.Type, pos)
	}

	switch h := m.Statement.ArtifactHash; {
	case h == nil && m.Artifact != nil:
		return 0, errors.Wrap(ErrArtifactMismatch, "unexpected artifact")
	case h != nil && (m.Artifact == nil || HashOf(m.Artifact) != *h):
		return 0, errors.Wrapf(ErrArtifactMismatch, "%s from position %d", m.Statement.Type, pos)
	}
	return pos, nil
}

// DecodeArtifact decodes the artifact of m into a T.
func DecodeArtifact[T any](m *Message) (*T, error) {
	if m.Artifact == nil {
		return nil, errors.Errorf("%s message has no artifact", m.Statement.Type)
	}
	out := new(T)
	if err := json.Unmarshal(m.Artifact, out); err != nil {
		return nil, errors.Wrapf(err, "decode %s artifact", m.Statement.Type)
	}
	return out, nil
}
