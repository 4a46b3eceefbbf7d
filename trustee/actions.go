package trustee

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/pkg/errors"

	"github.com/f3rmion/trusteeboard/elgamal"
	"github.com/f3rmion/trusteeboard/frost"
	"github.com/f3rmion/trusteeboard/group"
	"github.com/f3rmion/trusteeboard/protocol"
	"github.com/f3rmion/trusteeboard/suite"
)

// action produces this trustee's message of one statement type, or nil
// when the board does not enable it yet.
type action struct {
	typ protocol.StatementType
	run func(t *Trustee, st *state, batch int) (*protocol.Message, error)
}

var keygenActions = []action{
	{protocol.TypeConfigurationSigned, (*Trustee).signConfiguration},
	{protocol.TypeChannel, (*Trustee).postChannel},
	{protocol.TypeShares, (*Trustee).postShares},
	{protocol.TypePublicKey, (*Trustee).postPublicKey},
	{protocol.TypePublicKeySigned, (*Trustee).signPublicKey},
}

var batchActions = []action{
	{protocol.TypeMix, (*Trustee).postMix},
	{protocol.TypeDecryptionFactors, (*Trustee).postFactors},
	{protocol.TypePlaintexts, (*Trustee).postPlaintexts},
	{protocol.TypePlaintextsSigned, (*Trustee).signPlaintexts},
}

// act evaluates every action against the staged board. Only messages on
// the board enable actions, so a message produced here is acted upon by
// everyone, its author included, on a later step.
func (t *Trustee) act(st *state) ([]Action, error) {
	if st.cfg == nil {
		return nil, nil
	}
	var done []Action
	perform := func(a action, batch int) error {
		if st.performed(a.typ, batch) {
			return nil
		}
		m, err := a.run(t, st, batch)
		if err != nil {
			return errors.Wrapf(err, "%s batch %d", a.typ, batch)
		}
		if m != nil {
			st.queue(slot{a.typ, st.position, batch}, m)
			done = append(done, Action{Type: a.typ, Batch: batch})
		}
		return nil
	}

	if err := t.finalizeKey(st); err != nil {
		return nil, err
	}
	for _, a := range keygenActions {
		if err := perform(a, 0); err != nil {
			return nil, err
		}
	}
	for _, n := range st.batchNumbers() {
		if err := t.combine(st, n); err != nil {
			return nil, errors.Wrapf(err, "combine batch %d", n)
		}
		for _, a := range batchActions {
			if err := perform(a, n); err != nil {
				return nil, err
			}
		}
	}
	return done, nil
}

func (t *Trustee) sign(st *state, typ protocol.StatementType, batch int, artifact any, data ...protocol.Hash) (*protocol.Message, error) {
	return protocol.NewMessage(t.key, protocol.Statement{
		Type:              typ,
		SessionID:         st.sessionID,
		ConfigurationHash: st.cfgHash,
		Batch:             batch,
		Data:              data,
	}, artifact)
}

func (t *Trustee) signConfiguration(st *state, _ int) (*protocol.Message, error) {
	return t.sign(st, protocol.TypeConfigurationSigned, 0, nil, st.cfgHash)
}

func (t *Trustee) postChannel(st *state, _ int) (*protocol.Message, error) {
	if !st.seenFromAll(protocol.TypeConfigurationSigned, 0) {
		return nil, nil
	}
	g := t.suite.Group()
	sk, err := g.RandomScalar(t.suite.Rand())
	if err != nil {
		return nil, err
	}
	sealed, err := seal(t.suite.Rand(), t.encryptionKey, sk.Bytes(), st.cfgHash[:])
	if err != nil {
		return nil, errors.Wrap(err, "seal channel secret")
	}
	return t.sign(st, protocol.TypeChannel, 0, &protocol.ChannelArtifact{
		PublicKey:    g.NewPoint().ScalarMult(sk, g.Generator()).Bytes(),
		SealedSecret: sealed,
	})
}

// channelSecret recovers the trustee's channel secret from its own Channel
// artifact.
func (t *Trustee) channelSecret(st *state) (group.Scalar, error) {
	m, ok := st.own(protocol.TypeChannel, 0)
	if !ok {
		return nil, errors.New("no channel posted")
	}
	art, err := protocol.DecodeArtifact[protocol.ChannelArtifact](m)
	if err != nil {
		return nil, err
	}
	raw, err := open(t.encryptionKey, art.SealedSecret, st.cfgHash[:])
	if err != nil {
		return nil, errors.Wrap(err, "open channel secret")
	}
	return t.suite.ParseScalar(raw)
}

// channelPeer returns the channel public key trustee pos posted.
func (t *Trustee) channelPeer(st *state, pos int) (group.Point, error) {
	m, ok := st.seen(protocol.TypeChannel, pos, 0)
	if !ok {
		return nil, errors.Errorf("no channel from position %d", pos)
	}
	art, err := protocol.DecodeArtifact[protocol.ChannelArtifact](m)
	if err != nil {
		return nil, err
	}
	pk, err := t.suite.ParsePoint(art.PublicKey)
	if err != nil {
		return nil, errors.Wrapf(err, "channel key of position %d", pos)
	}
	return pk, nil
}

func (t *Trustee) postShares(st *state, _ int) (*protocol.Message, error) {
	if !st.seenFromAll(protocol.TypeChannel, 0) {
		return nil, nil
	}
	secret, err := t.channelSecret(st)
	if err != nil {
		return nil, err
	}
	d, err := newDKGRound(st.frost, t.suite.Rand(), st.position+1)
	if err != nil {
		return nil, err
	}
	out := d.generateRound1()

	g := t.suite.Group()
	art := &protocol.SharesArtifact{
		Commitments:     make([][]byte, len(out.Broadcast.Commitments)),
		EncryptedShares: make([][]byte, st.trustees()),
	}
	for i, c := range out.Broadcast.Commitments {
		art.Commitments[i] = c.Bytes()
	}
	for j := 0; j < st.trustees(); j++ {
		if j == st.position {
			continue
		}
		peer, err := t.channelPeer(st, j)
		if err != nil {
			return nil, err
		}
		key, err := channelKey(g, secret, peer, st.cfgHash[:], st.position, j)
		if err != nil {
			return nil, err
		}
		if art.EncryptedShares[j], err = seal(t.suite.Rand(), key, out.PrivateShares[j+1].Share.Bytes(), st.cfgHash[:]); err != nil {
			return nil, errors.Wrapf(err, "seal share for position %d", j)
		}
	}
	st.dkg = d
	return t.sign(st, protocol.TypeShares, 0, art)
}

// finalizeKey opens the shares addressed to this trustee once every
// trustee's Shares are on the board and completes the key generation.
func (t *Trustee) finalizeKey(st *state) error {
	if st.result != nil || !st.seenFromAll(protocol.TypeShares, 0) {
		return nil
	}
	if st.dkg == nil {
		return errors.New("shares seen before this trustee posted its own")
	}
	secret, err := t.channelSecret(st)
	if err != nil {
		return err
	}

	g := t.suite.Group()
	n := st.trustees()
	me := frost.ScalarFromInt(g, st.position+1)
	input := &round1Input{Broadcasts: make([]*frost.Round1Data, n)}
	for j := 0; j < n; j++ {
		m, _ := st.seen(protocol.TypeShares, j, 0)
		art, err := protocol.DecodeArtifact[protocol.SharesArtifact](m)
		if err != nil {
			return err
		}
		commitments, err := parseCommitments(g, art.Commitments, st.cfg.Threshold)
		if err != nil {
			return errors.Wrapf(err, "shares of position %d", j)
		}
		from := frost.ScalarFromInt(g, j+1)
		input.Broadcasts[j] = &frost.Round1Data{ID: from, Commitments: commitments}
		if j == st.position {
			continue
		}
		if len(art.EncryptedShares) != n {
			return errors.Errorf("position %d sealed %d shares for %d trustees", j, len(art.EncryptedShares), n)
		}
		peer, err := t.channelPeer(st, j)
		if err != nil {
			return err
		}
		key, err := channelKey(g, secret, peer, st.cfgHash[:], j, st.position)
		if err != nil {
			return err
		}
		raw, err := open(key, art.EncryptedShares[st.position], st.cfgHash[:])
		if err != nil {
			return errors.Wrapf(ErrBadShare, "open share from position %d: %v", j, err)
		}
		share, err := t.suite.ParseScalar(raw)
		if err != nil {
			return errors.Wrapf(ErrBadShare, "share from position %d: %v", j, err)
		}
		input.PrivateShares = append(input.PrivateShares, &frost.Round1PrivateData{FromID: from, ToID: me, Share: share})
	}

	result, err := st.dkg.processRound1(input)
	if err != nil {
		return err
	}
	st.result = result
	st.dkg = nil
	return nil
}

func (t *Trustee) postPublicKey(st *state, _ int) (*protocol.Message, error) {
	if st.position != 0 || st.result == nil {
		return nil, nil
	}
	return t.sign(st, protocol.TypePublicKey, 0, st.result.artifact())
}

func (t *Trustee) signPublicKey(st *state, _ int) (*protocol.Message, error) {
	if st.position == 0 || st.result == nil {
		return nil, nil
	}
	m, ok := st.seen(protocol.TypePublicKey, 0, 0)
	if !ok {
		return nil, nil
	}
	if *m.Statement.ArtifactHash != artifactHash(st.result.artifact()) {
		return nil, errors.Wrap(ErrMismatch, "public key")
	}
	return t.sign(st, protocol.TypePublicKeySigned, 0, nil, *m.Statement.ArtifactHash)
}

// stage returns the ciphertexts the trustee at rank in the selection
// mixes, with the artifact hash of the message they come from.
func (t *Trustee) stage(st *state, b *batchState, batch, rank int) ([]*elgamal.Ciphertext, protocol.Hash, bool, error) {
	if rank == 0 {
		return b.ballots, b.artifactHash, true, nil
	}
	m, ok := st.seen(protocol.TypeMix, b.selection.Indices()[rank-1], batch)
	if !ok {
		return nil, protocol.Hash{}, false, nil
	}
	art, err := protocol.DecodeArtifact[protocol.MixArtifact](m)
	if err != nil {
		return nil, protocol.Hash{}, false, err
	}
	cs, err := protocol.DecodeCiphertexts(t.suite, art.Ciphertexts)
	if err != nil {
		return nil, protocol.Hash{}, false, err
	}
	if len(cs) != len(b.ballots) {
		return nil, protocol.Hash{}, false, errors.Errorf("mix has %d ciphertexts, batch has %d", len(cs), len(b.ballots))
	}
	return cs, *m.Statement.ArtifactHash, true, nil
}

// finalMix returns the output of the last selected mixer.
func (t *Trustee) finalMix(st *state, b *batchState, batch int) ([]*elgamal.Ciphertext, protocol.Hash, bool, error) {
	return t.stage(st, b, batch, b.selection.Len())
}

func (t *Trustee) postMix(st *state, batch int) (*protocol.Message, error) {
	b := st.batches[batch]
	rank, ok := b.selection.Rank(st.position)
	if !ok || st.result == nil {
		return nil, nil
	}
	if b.pkHash != protocol.HashOf(st.result.GroupKey.Bytes()) {
		return nil, errors.Wrap(ErrMismatch, "ballots encrypted under another public key")
	}
	cs, from, ok, err := t.stage(st, b, batch, rank)
	if err != nil || !ok {
		return nil, err
	}
	mixed, err := elgamal.Shuffle(t.suite.Group(), t.suite.Rand(), st.result.GroupKey, cs)
	if err != nil {
		return nil, errors.Wrap(err, "shuffle")
	}
	return t.sign(st, protocol.TypeMix, batch, &protocol.MixArtifact{
		Ciphertexts: protocol.EncodeCiphertexts(mixed),
	}, from)
}

func decryptionLabel(st *state, batch, position int) []byte {
	label := fmt.Appendf(nil, "trusteeboard-decryption-v1/%d/%d/%d/", st.sessionID, batch, position)
	return append(label, st.cfgHash[:]...)
}

func (t *Trustee) postFactors(st *state, batch int) (*protocol.Message, error) {
	b := st.batches[batch]
	if !b.selection.Contains(st.position) || st.result == nil {
		return nil, nil
	}
	cs, from, ok, err := t.finalMix(st, b, batch)
	if err != nil || !ok {
		return nil, err
	}
	g := t.suite.Group()
	ks := st.result.KeyShare
	label := decryptionLabel(st, batch, st.position)
	art := &protocol.FactorsArtifact{Factors: make([]protocol.FactorData, len(cs))}
	for i, c := range cs {
		df, err := elgamal.PartialDecrypt(g, t.suite.Hasher(), t.suite.Rand(), ks.SecretKey, ks.PublicKey, c, label)
		if err != nil {
			return nil, errors.Wrapf(err, "decrypt ciphertext %d", i)
		}
		art.Factors[i] = protocol.EncodeFactor(df)
	}
	return t.sign(st, protocol.TypeDecryptionFactors, batch, art, from)
}

// combine verifies every selected trustee's decryption factors and
// recovers the batch's plaintexts into the local state.
func (t *Trustee) combine(st *state, batch int) error {
	b := st.batches[batch]
	if b.plaintexts != nil || st.result == nil || !st.seenFromSelected(protocol.TypeDecryptionFactors, b, batch) {
		return nil
	}
	cs, _, ok, err := t.finalMix(st, b, batch)
	if err != nil || !ok {
		return err
	}

	g := t.suite.Group()
	shares := make([][]elgamal.Share, len(cs))
	for _, j := range b.selection.Indices() {
		m, _ := st.seen(protocol.TypeDecryptionFactors, j, batch)
		art, err := protocol.DecodeArtifact[protocol.FactorsArtifact](m)
		if err != nil {
			return err
		}
		if len(art.Factors) != len(cs) {
			return errors.Errorf("position %d posted %d factors for %d ciphertexts", j, len(art.Factors), len(cs))
		}
		id := frost.ScalarFromInt(g, j+1)
		vk := st.result.VerificationKeys[j]
		label := decryptionLabel(st, batch, j)
		for i, data := range art.Factors {
			df, err := data.Decode(t.suite)
			if err != nil {
				return errors.Wrapf(ErrBadProof, "position %d factor %d: %v", j, i, err)
			}
			if !elgamal.VerifyFactor(g, t.suite.Hasher(), vk, cs[i], df, label) {
				return errors.Wrapf(ErrBadProof, "position %d factor %d", j, i)
			}
			shares[i] = append(shares[i], elgamal.Share{ID: id, Factor: df.Factor})
		}
	}

	out := make([]suite.Plaintext, len(cs))
	for i, c := range cs {
		pt, err := elgamal.Combine(g, c, shares[i])
		if err != nil {
			return err
		}
		if out[i], err = t.suite.Decode(pt); err != nil {
			return errors.Wrapf(err, "decode plaintext %d", i)
		}
	}
	b.plaintexts = out
	return nil
}

func (t *Trustee) postPlaintexts(st *state, batch int) (*protocol.Message, error) {
	b := st.batches[batch]
	if rank, ok := b.selection.Rank(st.position); !ok || rank != 0 || b.plaintexts == nil {
		return nil, nil
	}
	return t.sign(st, protocol.TypePlaintexts, batch, &protocol.PlaintextsArtifact{
		Plaintexts: slices.Clone(b.plaintexts),
	})
}

func (t *Trustee) signPlaintexts(st *state, batch int) (*protocol.Message, error) {
	b := st.batches[batch]
	if rank, ok := b.selection.Rank(st.position); !ok || rank == 0 || b.plaintexts == nil {
		return nil, nil
	}
	m, ok := st.seen(protocol.TypePlaintexts, b.selection.Indices()[0], batch)
	if !ok {
		return nil, nil
	}
	art, err := protocol.DecodeArtifact[protocol.PlaintextsArtifact](m)
	if err != nil {
		return nil, err
	}
	if !slices.Equal(art.Plaintexts, b.plaintexts) {
		return nil, errors.Wrap(ErrMismatch, "plaintexts")
	}
	return t.sign(st, protocol.TypePlaintextsSigned, batch, nil, *m.Statement.ArtifactHash)
}

func artifactHash(artifact any) protocol.Hash {
	raw, _ := json.Marshal(artifact)
	return protocol.HashOf(raw)
}
