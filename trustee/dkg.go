package trustee

import (
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/f3rmion/trusteeboard/frost"
	"github.com/f3rmion/trusteeboard/group"
	"github.com/f3rmion/trusteeboard/protocol"
)

// dkgRound is one trustee's side of the key generation. It lives from the
// moment the trustee posts its Shares until every share addressed to it has
// been verified.
type dkgRound struct {
	id    int
	frost *frost.FROST
	state *frost.Participant
}

// dkgResult is the output of a completed key generation.
type dkgResult struct {
	// KeyShare is this trustee's share of the decryption key.
	KeyShare *frost.KeyShare

	// GroupKey is the public key ballots are encrypted under.
	GroupKey group.Point

	// VerificationKeys holds x_j*G for every trustee, indexed by position.
	// Decryption factors are checked against them.
	VerificationKeys []group.Point
}

// round1Output is everything a trustee publishes in its Shares statement,
// before encryption.
type round1Output struct {
	// Broadcast holds the commitments to the secret polynomial.
	Broadcast *frost.Round1Data

	// PrivateShares maps recipient ID to the share it must receive over
	// its channel.
	PrivateShares map[int]*frost.Round1PrivateData
}

// round1Input is what a trustee collects from every Shares statement.
type round1Input struct {
	// Broadcasts holds every trustee's commitments, this trustee's
	// included, ordered by position.
	Broadcasts []*frost.Round1Data

	// PrivateShares holds the decrypted shares addressed to this trustee by
	// every other trustee.
	PrivateShares []*frost.Round1PrivateData
}

// newDKGRound samples the secret polynomial of the trustee with 1-based id.
func newDKGRound(f *frost.FROST, rng io.Reader, id int) (*dkgRound, error) {
	participant, err := f.NewParticipant(rng, id)
	if err != nil {
		return nil, errors.Wrap(err, "create dkg participant")
	}
	return &dkgRound{id: id, frost: f, state: participant}, nil
}

func (d *dkgRound) clone() *dkgRound {
	return &dkgRound{id: d.id, frost: d.frost, state: d.state.Clone()}
}

// generateRound1 returns the commitments and one share per other trustee.
func (d *dkgRound) generateRound1() *round1Output {
	shares := make(map[int]*frost.Round1PrivateData, d.frost.Total()-1)
	for id := 1; id <= d.frost.Total(); id++ {
		if id == d.id {
			continue
		}
		shares[id] = d.frost.Round1PrivateSend(d.state, id)
	}
	return &round1Output{
		Broadcast:     d.state.Round1Broadcast(),
		PrivateShares: shares,
	}
}

// processRound1 verifies every received share against its sender's
// commitments and derives the key share and the public key material.
func (d *dkgRound) processRound1(input *round1Input) (*dkgResult, error) {
	broadcastByID := make(map[string]*frost.Round1Data, len(input.Broadcasts))
	for _, b := range input.Broadcasts {
		key := string(b.ID.Bytes())
		if _, exists := broadcastByID[key]; exists {
			return nil, errors.New("duplicate commitments from one trustee")
		}
		broadcastByID[key] = b
	}

	for _, share := range input.PrivateShares {
		sender, ok := broadcastByID[string(share.FromID.Bytes())]
		if !ok {
			return nil, errors.New("share from a trustee without commitments")
		}
		if err := d.frost.Round2ReceiveShare(d.state, share, sender.Commitments); err != nil {
			return nil, errors.Wrap(ErrBadShare, err.Error())
		}
	}

	keyShare, err := d.frost.Finalize(d.state, input.Broadcasts)
	if err != nil {
		return nil, errors.Wrap(err, "finalize dkg")
	}

	vks := make([]group.Point, d.frost.Total())
	for i := range vks {
		vks[i] = d.frost.VerificationKey(i+1, input.Broadcasts)
	}
	return &dkgResult{
		KeyShare:         keyShare,
		GroupKey:         keyShare.GroupKey,
		VerificationKeys: vks,
	}, nil
}

// artifact renders r as the PublicKey artifact.
func (r *dkgResult) artifact() *protocol.DKGPublicKey {
	vks := make([][]byte, len(r.VerificationKeys))
	for i, vk := range r.VerificationKeys {
		vks[i] = vk.Bytes()
	}
	return &protocol.DKGPublicKey{GroupKey: r.GroupKey.Bytes(), VerificationKeys: vks}
}

// parseCommitments decodes a Shares artifact's commitments, which must
// number exactly threshold.
func parseCommitments(g group.Group, raw [][]byte, threshold int) ([]group.Point, error) {
	if len(raw) != threshold {
		return nil, fmt.Errorf("expected %d commitments, got %d", threshold, len(raw))
	}
	out := make([]group.Point, len(raw))
	for i, b := range raw {
		p, err := g.NewPoint().SetBytes(b)
		if err != nil {
			return nil, errors.Wrapf(err, "commitment %d", i)
		}
		out[i] = p
	}
	return out, nil
}
