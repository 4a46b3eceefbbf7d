package trustee

import (
	"fmt"
	"slices"

	"github.com/pkg/errors"

	"github.com/f3rmion/trusteeboard/frost"
	"github.com/f3rmion/trusteeboard/group"
	"github.com/f3rmion/trusteeboard/protocol"
	"github.com/f3rmion/trusteeboard/suite"
)

// Action is something a trustee did during a step.
type Action struct {
	Type  protocol.StatementType
	Batch int
}

func (a Action) String() string {
	return fmt.Sprintf("%s/%d", a.Type, a.Batch)
}

// Entry describes one message on a trustee's local board.
type Entry struct {
	Type        protocol.StatementType
	Signer      int
	Batch       int
	HasArtifact bool
}

// Trustee is one participant of a session. It is not safe for concurrent
// use.
type Trustee struct {
	suite         *suite.Suite
	key           *protocol.SigningKey
	encryptionKey []byte
	st            *state
}

// New returns a trustee that signs with key and protects its own secrets
// with the symmetric encryptionKey.
func New(s *suite.Suite, key *protocol.SigningKey, encryptionKey []byte) (*Trustee, error) {
	if len(encryptionKey) != EncryptionKeySize {
		return nil, errors.Errorf("encryption key must be %d bytes, got %d", EncryptionKeySize, len(encryptionKey))
	}
	return &Trustee{
		suite:         s,
		key:           key,
		encryptionKey: slices.Clone(encryptionKey),
		st:            newState(),
	}, nil
}

// PublicKey returns the trustee's verifying key.
func (t *Trustee) PublicKey() protocol.VerifyingKey {
	return t.key.Public()
}

// Step ingests a board snapshot and performs every action it enables. It
// returns the messages to post: those produced now and those produced
// earlier that are not on the board yet. On error the trustee is left as
// it was before the call.
func (t *Trustee) Step(messages []*protocol.Message) ([]*protocol.Message, []Action, error) {
	st := t.st.clone()
	for i, m := range messages {
		if err := t.ingest(st, m); err != nil {
			return nil, nil, errors.Wrapf(err, "ingest message %d", i)
		}
	}
	actions, err := t.act(st)
	if err != nil {
		return nil, nil, err
	}
	t.st = st
	return st.pendingMessages(), actions, nil
}

func (t *Trustee) ingest(st *state, m *protocol.Message) error {
	if st.cfg == nil {
		if err := t.configure(st, m); err != nil {
			return err
		}
	}
	pos, err := m.Verify(st.cfg, t.suite)
	if err != nil {
		return err
	}
	stmt := m.Statement
	if stmt.SessionID != st.sessionID {
		return errors.Wrapf(ErrWrongSession, "%s from position %d in session %d", stmt.Type, pos, stmt.SessionID)
	}

	sl := slot{stmt.Type, pos, stmt.Batch}
	if prev, ok := st.messages[sl]; ok {
		if prev.Hash() != m.Hash() {
			return errors.Wrapf(ErrConflict, "%s from position %d batch %d", stmt.Type, pos, stmt.Batch)
		}
		return nil
	}
	if err := checkBatch(stmt.Type, stmt.Batch); err != nil {
		return err
	}
	if stmt.Type == protocol.TypeBallots {
		if err := t.openBatch(st, m); err != nil {
			return err
		}
	}

	st.messages[sl] = m
	st.log = append(st.log, m)
	if pos == st.position {
		st.delivered(sl)
	}
	return nil
}

// configure adopts the configuration carried by the first message. The
// message itself is verified against it by the caller.
func (t *Trustee) configure(st *state, m *protocol.Message) error {
	if m.Statement.Type != protocol.TypeConfiguration {
		return errors.Wrapf(ErrNotConfigured, "first message is %s", m.Statement.Type)
	}
	cfg, err := protocol.DecodeArtifact[protocol.Configuration](m)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Suite != t.suite.Name() {
		return errors.Errorf("configuration uses suite %q, trustee runs %q", cfg.Suite, t.suite.Name())
	}
	pos, ok := cfg.Position(t.key.Public())
	if !ok || pos == protocol.ManagerPosition {
		return ErrNotATrustee
	}
	f, err := frost.New(t.suite.Group(), cfg.Threshold, len(cfg.Trustees))
	if err != nil {
		return errors.Wrap(err, "configure dkg")
	}

	st.cfg = cfg
	st.cfgHash = cfg.Hash()
	st.sessionID = m.Statement.SessionID
	st.position = pos
	st.frost = f
	return nil
}

func checkBatch(typ protocol.StatementType, batch int) error {
	if typ < protocol.TypeBallots {
		if batch != 0 {
			return errors.Errorf("%s must be in batch 0, got %d", typ, batch)
		}
		return nil
	}
	if batch < 1 {
		return errors.Errorf("%s must be in a batch >= 1, got %d", typ, batch)
	}
	return nil
}

func (t *Trustee) openBatch(st *state, m *protocol.Message) error {
	art, err := protocol.DecodeArtifact[protocol.BallotsArtifact](m)
	if err != nil {
		return err
	}
	if err := art.Selection.Validate(st.trustees(), st.cfg.Threshold); err != nil {
		return err
	}
	if len(art.Ciphertexts) == 0 {
		return errors.New("empty ballot batch")
	}
	if len(m.Statement.Data) != 1 {
		return errors.New("ballots must name the public key they are encrypted under")
	}
	cs, err := protocol.DecodeCiphertexts(t.suite, art.Ciphertexts)
	if err != nil {
		return errors.Wrap(err, "ballots")
	}
	st.batches[m.Statement.Batch] = &batchState{
		selection:    art.Selection,
		ballots:      cs,
		artifactHash: *m.Statement.ArtifactHash,
		pkHash:       m.Statement.Data[0],
	}
	return nil
}

// DKGPublicKey returns the group public key once the PublicKey statement
// and every trustee's endorsement of it are on the local board.
func (t *Trustee) DKGPublicKey() (group.Point, bool) {
	st := t.st
	if st.cfg == nil {
		return nil, false
	}
	m, ok := st.seen(protocol.TypePublicKey, 0, 0)
	if !ok {
		return nil, false
	}
	for i := 1; i < st.trustees(); i++ {
		if _, ok := st.seen(protocol.TypePublicKeySigned, i, 0); !ok {
			return nil, false
		}
	}
	art, err := protocol.DecodeArtifact[protocol.DKGPublicKey](m)
	if err != nil {
		return nil, false
	}
	pk, err := t.suite.ParsePoint(art.GroupKey)
	if err != nil {
		return nil, false
	}
	return pk, true
}

// Plaintexts returns the decryption of batch once the first selected
// trustee has posted it and it matches the local combination.
func (t *Trustee) Plaintexts(batch int) ([]suite.Plaintext, bool) {
	st := t.st
	b, ok := st.batches[batch]
	if !ok || b.plaintexts == nil {
		return nil, false
	}
	m, ok := st.seen(protocol.TypePlaintexts, b.selection.Indices()[0], batch)
	if !ok {
		return nil, false
	}
	art, err := protocol.DecodeArtifact[protocol.PlaintextsArtifact](m)
	if err != nil || !slices.Equal(art.Plaintexts, b.plaintexts) {
		return nil, false
	}
	return slices.Clone(b.plaintexts), true
}

// Position returns the trustee's 0-based position, once configured.
func (t *Trustee) Position() (int, bool) {
	if t.st.cfg == nil {
		return 0, false
	}
	return t.st.position, true
}

// LocalBoard lists the messages the trustee has verified, in the order it
// saw them.
func (t *Trustee) LocalBoard() []Entry {
	st := t.st
	out := make([]Entry, 0, len(st.log))
	for _, m := range st.log {
		pos, ok := st.cfg.Position(m.SignerKey)
		if !ok {
			continue
		}
		out = append(out, Entry{
			Type:        m.Statement.Type,
			Signer:      pos,
			Batch:       m.Statement.Batch,
			HasArtifact: m.HasArtifact(),
		})
	}
	return out
}
