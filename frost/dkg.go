package frost

import (
	"errors"
	"fmt"
	"io"

	"github.com/f3rmion/trusteeboard/group"
)

// Round1Data is the public part of a participant's contribution.
type Round1Data struct {
	ID          group.Scalar  // participant identifier
	Commitments []group.Point // commitments to polynomial coefficients
}

// Round1PrivateData is the share a participant owes one recipient. It must
// only travel over a confidential channel.
type Round1PrivateData struct {
	FromID group.Scalar // sender's ID
	ToID   group.Scalar // recipient's ID
	Share  group.Scalar // sender's polynomial evaluated at the recipient's ID
}

// Participant holds one participant's DKG state until Finalize.
type Participant struct {
	id             group.Scalar
	coefficients   []group.Scalar          // secret polynomial of degree t-1
	commitments    []group.Point           // coefficient * G
	receivedShares map[string]group.Scalar // by sender ID bytes
}

// NewParticipant samples a secret polynomial for participant id (1..n).
func (f *FROST) NewParticipant(r io.Reader, id int) (*Participant, error) {
	if id < 1 || id > f.total {
		return nil, fmt.Errorf("participant ID must be between 1 and %d, got %d", f.total, id)
	}

	// Random polynomial of degree t-1; coeffs[0] is this participant's
	// contribution to the group secret.
	coeffs := make([]group.Scalar, f.threshold)
	for i := 0; i < f.threshold; i++ {
		c, err := f.group.RandomScalar(r)
		if err != nil {
			return nil, err
		}
		coeffs[i] = c
	}

	// Feldman commitments: C_k = coeffs[k] * G
	commits := make([]group.Point, f.threshold)
	for i, c := range coeffs {
		commits[i] = f.group.NewPoint().ScalarMult(c, f.group.Generator())
	}

	return &Participant{
		id:             f.scalarFromInt(id),
		coefficients:   coeffs,
		commitments:    commits,
		receivedShares: make(map[string]group.Scalar),
	}, nil
}

// ID returns the participant's identifier as a scalar.
func (p *Participant) ID() group.Scalar {
	return p.id
}

// Clone returns a copy of p whose received shares can diverge from p's.
func (p *Participant) Clone() *Participant {
	shares := make(map[string]group.Scalar, len(p.receivedShares))
	for k, v := range p.receivedShares {
		shares[k] = v
	}
	return &Participant{
		id:             p.id,
		coefficients:   p.coefficients,
		commitments:    p.commitments,
		receivedShares: shares,
	}
}

// Round1Broadcast returns the commitments every participant must see.
func (p *Participant) Round1Broadcast() *Round1Data {
	return &Round1Data{
		ID:          p.id,
		Commitments: p.commitments,
	}
}

// Round1PrivateSend evaluates p's polynomial for recipientID.
func (f *FROST) Round1PrivateSend(p *Participant, recipientID int) *Round1PrivateData {
	toID := f.scalarFromInt(recipientID)
	return &Round1PrivateData{
		FromID: p.id,
		ToID:   toID,
		Share:  f.evalPolynomial(p.coefficients, toID),
	}
}

// Round2ReceiveShare checks share*G against the sender's commitments and
// stores the share.
func (f *FROST) Round2ReceiveShare(p *Participant, data *Round1PrivateData, senderCommitments []group.Point) error {
	if !data.ToID.Equal(p.id) {
		return errors.New("share is addressed to another participant")
	}
	if len(senderCommitments) != f.threshold {
		return fmt.Errorf("expected %d commitments, got %d", f.threshold, len(senderCommitments))
	}

	// Verify: share * G == sum(commitments[k] * recipientID^k)
	lhs := f.group.NewPoint().ScalarMult(data.Share, f.group.Generator())
	rhs := f.evalCommitments(senderCommitments, data.ToID)
	if !lhs.Equal(rhs) {
		return errors.New("invalid share from participant")
	}

	p.receivedShares[string(data.FromID.Bytes())] = data.Share
	return nil
}

// Finalize sums the received shares with p's own evaluation. It requires a
// verified share from every other participant and every broadcast.
func (f *FROST) Finalize(p *Participant, allBroadcasts []*Round1Data) (*KeyShare, error) {
	if len(allBroadcasts) != f.total {
		return nil, fmt.Errorf("expected %d broadcasts, got %d", f.total, len(allBroadcasts))
	}
	if len(p.receivedShares) != f.total-1 {
		return nil, fmt.Errorf("expected %d shares, got %d", f.total-1, len(p.receivedShares))
	}

	// x_i = f_i(i) + sum over j != i of f_j(i)
	secretKey := f.evalPolynomial(p.coefficients, p.id)
	for _, share := range p.receivedShares {
		secretKey = f.group.NewScalar().Add(secretKey, share)
	}

	// Public key share: x_i * G
	return &KeyShare{
		ID:        p.id,
		SecretKey: secretKey,
		PublicKey: f.group.NewPoint().ScalarMult(secretKey, f.group.Generator()),
		GroupKey:  f.GroupKey(allBroadcasts),
	}, nil
}

// GroupKey sums the constant-term commitments of every broadcast.
func (f *FROST) GroupKey(allBroadcasts []*Round1Data) group.Point {
	groupKey := f.group.NewPoint()
	for _, b := range allBroadcasts {
		groupKey = f.group.NewPoint().Add(groupKey, b.Commitments[0])
	}
	return groupKey
}

// VerificationKey computes x_id * G for any participant from the public
// broadcasts alone, so that partial results of that participant can be
// checked by everyone.
func (f *FROST) VerificationKey(id int, allBroadcasts []*Round1Data) group.Point {
	// x_id * G = sum over j of f_j(id) * G, and each f_j(id) * G follows
	// from j's commitments.
	x := f.scalarFromInt(id)
	vk := f.group.NewPoint()
	for _, b := range allBroadcasts {
		vk = f.group.NewPoint().Add(vk, f.evalCommitments(b.Commitments, x))
	}
	return vk
}

// evalCommitments returns sum(commitments[k] * x^k).
func (f *FROST) evalCommitments(commitments []group.Point, x group.Scalar) group.Point {
	acc := f.group.NewPoint()
	xPower := f.scalarFromInt(1)
	for _, commit := range commitments {
		term := f.group.NewPoint().ScalarMult(xPower, commit)
		acc = f.group.NewPoint().Add(acc, term)
		xPower = f.group.NewScalar().Mul(xPower, x)
	}
	return acc
}
