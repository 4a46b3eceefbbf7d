package frost

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"testing"

	"github.com/f3rmion/trusteeboard/bjj"
	"github.com/f3rmion/trusteeboard/group"
)

// runDKG runs a complete in-memory DKG and returns the key shares and the
// broadcasts.
func runDKG(t *testing.T, f *FROST) ([]*KeyShare, []*Round1Data) {
	t.Helper()
	total := f.Total()

	participants := make([]*Participant, total)
	for i := 0; i < total; i++ {
		p, err := f.NewParticipant(rand.Reader, i+1)
		if err != nil {
			t.Fatalf("failed to create participant %d: %v", i+1, err)
		}
		participants[i] = p
	}

	broadcasts := make([]*Round1Data, total)
	for i, p := range participants {
		broadcasts[i] = p.Round1Broadcast()
	}

	for i, sender := range participants {
		for j := 0; j < total; j++ {
			if i == j {
				continue
			}
			privateData := f.Round1PrivateSend(sender, j+1)
			if err := f.Round2ReceiveShare(participants[j], privateData, broadcasts[i].Commitments); err != nil {
				t.Fatalf("participant %d failed to verify share from %d: %v", j+1, i+1, err)
			}
		}
	}

	keyShares := make([]*KeyShare, total)
	for i, p := range participants {
		ks, err := f.Finalize(p, broadcasts)
		if err != nil {
			t.Fatalf("participant %d failed to finalize: %v", i+1, err)
		}
		keyShares[i] = ks
	}
	return keyShares, broadcasts
}

// reconstruct interpolates the secret at zero from the given shares.
func reconstruct(g group.Group, shares []*KeyShare) group.Scalar {
	ids := make([]group.Scalar, len(shares))
	for i, s := range shares {
		ids[i] = s.ID
	}
	secret := g.NewScalar()
	for _, s := range shares {
		lambda, _ := LagrangeCoefficient(g, s.ID, ids)
		term := g.NewScalar().Mul(lambda, s.SecretKey)
		secret = g.NewScalar().Add(secret, term)
	}
	return secret
}

func TestDKG(t *testing.T) {
	g := &bjj.BJJ{}

	configs := []struct {
		threshold int
		total     int
	}{
		{1, 1},
		{1, 3},
		{2, 2},
		{2, 3},
		{3, 5},
		{4, 7},
	}

	for _, cfg := range configs {
		t.Run(fmt.Sprintf("%d_of_%d", cfg.threshold, cfg.total), func(t *testing.T) {
			f, err := New(g, cfg.threshold, cfg.total)
			if err != nil {
				t.Fatal(err)
			}
			keyShares, broadcasts := runDKG(t, f)

			for i := 1; i < cfg.total; i++ {
				if !keyShares[i].GroupKey.Equal(keyShares[0].GroupKey) {
					t.Fatal("participants have different group keys")
				}
			}

			for i, ks := range keyShares {
				vk := f.VerificationKey(i+1, broadcasts)
				if !vk.Equal(ks.PublicKey) {
					t.Errorf("verification key of participant %d does not match its share", i+1)
				}
			}

			// Any t shares recover the group secret.
			secret := reconstruct(g, keyShares[len(keyShares)-cfg.threshold:])
			pk := g.NewPoint().ScalarMult(secret, g.Generator())
			if !pk.Equal(keyShares[0].GroupKey) {
				t.Error("interpolated secret does not match group key")
			}
		})
	}
}

func TestReceiveShareRejectsTampering(t *testing.T) {
	g := &bjj.BJJ{}
	f, err := New(g, 2, 3)
	if err != nil {
		t.Fatal(err)
	}

	p1, _ := f.NewParticipant(rand.Reader, 1)
	p2, _ := f.NewParticipant(rand.Reader, 2)
	p3, _ := f.NewParticipant(rand.Reader, 3)

	share := f.Round1PrivateSend(p1, 2)
	share.Share = g.NewScalar().Add(share.Share, ScalarFromInt(g, 1))
	if err := f.Round2ReceiveShare(p2, share, p1.Round1Broadcast().Commitments); err == nil {
		t.Error("tampered share should be rejected")
	}

	misaddressed := f.Round1PrivateSend(p1, 3)
	if err := f.Round2ReceiveShare(p2, misaddressed, p1.Round1Broadcast().Commitments); err == nil {
		t.Error("share for participant 3 should be rejected by participant 2")
	}

	// Finalize refuses to run without every share.
	if _, err := f.Finalize(p3, []*Round1Data{p1.Round1Broadcast(), p2.Round1Broadcast(), p3.Round1Broadcast()}); err == nil {
		t.Error("finalize should require a share from every other participant")
	}
}

func TestParticipantClone(t *testing.T) {
	g := &bjj.BJJ{}
	f, err := New(g, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	p1, _ := f.NewParticipant(rand.Reader, 1)
	p2, _ := f.NewParticipant(rand.Reader, 2)

	clone := p2.Clone()
	if err := f.Round2ReceiveShare(clone, f.Round1PrivateSend(p1, 2), p1.Round1Broadcast().Commitments); err != nil {
		t.Fatal(err)
	}

	broadcasts := []*Round1Data{p1.Round1Broadcast(), p2.Round1Broadcast()}
	if _, err := f.Finalize(clone, broadcasts); err != nil {
		t.Fatalf("clone should finalize: %v", err)
	}
	if _, err := f.Finalize(p2, broadcasts); err == nil {
		t.Error("share received by the clone leaked into the original")
	}
}

func TestParameterValidation(t *testing.T) {
	g := &bjj.BJJ{}

	if _, err := New(g, 0, 3); err == nil {
		t.Error("should reject threshold 0")
	}
	if _, err := New(g, 4, 3); err == nil {
		t.Error("should reject threshold above total")
	}

	f, _ := New(g, 2, 3)
	if _, err := f.NewParticipant(rand.Reader, 0); err == nil {
		t.Error("should reject ID of 0")
	}
	if _, err := f.NewParticipant(rand.Reader, 4); err == nil {
		t.Error("should reject ID greater than total")
	}
}

func TestLagrangeDuplicateIDs(t *testing.T) {
	g := &bjj.BJJ{}
	one, two, three := ScalarFromInt(g, 1), ScalarFromInt(g, 2), ScalarFromInt(g, 3)

	tests := []struct {
		name string
		id   group.Scalar
		ids  []group.Scalar
	}{
		{"duplicate other", one, []group.Scalar{one, two, two}},
		{"duplicate self", one, []group.Scalar{one, one, two}},
		{"missing self", three, []group.Scalar{one, two}},
	}
	for _, tc := range tests {
		if _, err := LagrangeCoefficient(g, tc.id, tc.ids); err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}

	// lambda_1 + lambda_2 over {1, 2} interpolates the constant 1.
	l1, err := LagrangeCoefficient(g, one, []group.Scalar{one, two})
	if err != nil {
		t.Fatal(err)
	}
	l2, err := LagrangeCoefficient(g, two, []group.Scalar{one, two})
	if err != nil {
		t.Fatal(err)
	}
	if !g.NewScalar().Add(l1, l2).Equal(one) {
		t.Error("coefficients over {1, 2} should sum to one")
	}
}

func TestScalarFromCanonical(t *testing.T) {
	g := &bjj.BJJ{}
	s, _ := g.RandomScalar(rand.Reader)

	parsed, err := ScalarFromCanonical(g, s.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if !parsed.Equal(s) {
		t.Error("canonical encoding did not round trip")
	}

	if _, err := ScalarFromCanonical(g, addOrder(g, s.Bytes())); err == nil {
		t.Error("s + order should be rejected")
	}
	if _, err := ScalarFromCanonical(g, s.Bytes()[1:]); err == nil {
		t.Error("short encoding should be rejected")
	}
}

// addOrder returns the 32-byte big-endian encoding of v + order.
func addOrder(g group.Group, v []byte) []byte {
	sum := new(big.Int).SetBytes(v)
	sum.Add(sum, new(big.Int).SetBytes(g.Order()))
	return sum.FillBytes(make([]byte, len(v)))
}

func TestSchnorr(t *testing.T) {
	g := &bjj.BJJ{}

	for _, h := range []Hasher{&SHA256Hasher{}, NewBlake2bHasher()} {
		t.Run(h.Name(), func(t *testing.T) {
			sk, _ := g.RandomScalar(rand.Reader)
			pk := g.NewPoint().ScalarMult(sk, g.Generator())
			message := []byte("board message")

			sig, err := Sign(g, h, rand.Reader, sk, message)
			if err != nil {
				t.Fatal(err)
			}
			if !Verify(g, h, message, sig, pk) {
				t.Fatal("signature verification failed")
			}
			if Verify(g, h, []byte("wrong message"), sig, pk) {
				t.Error("signature should not verify with wrong message")
			}

			other, _ := g.RandomScalar(rand.Reader)
			otherPK := g.NewPoint().ScalarMult(other, g.Generator())
			if Verify(g, h, message, sig, otherPK) {
				t.Error("signature should not verify under another key")
			}

			parsed, err := SignatureFromBytes(g, sig.Bytes())
			if err != nil {
				t.Fatal(err)
			}
			if !Verify(g, h, message, parsed, pk) {
				t.Error("parsed signature failed to verify")
			}

			raw := sig.Bytes()
			pointSize := len(raw) - len(sig.Z.Bytes())
			malleated := append(append([]byte{}, raw[:pointSize]...), addOrder(g, raw[pointSize:])...)
			if _, err := SignatureFromBytes(g, malleated); err == nil {
				t.Error("signature with z + order should be rejected")
			}
		})
	}
}

func TestHashersDisagree(t *testing.T) {
	g := &bjj.BJJ{}
	sk, _ := g.RandomScalar(rand.Reader)
	pk := g.NewPoint().ScalarMult(sk, g.Generator())
	message := []byte("domain separation")

	sig, _ := Sign(g, &SHA256Hasher{}, rand.Reader, sk, message)
	if Verify(g, NewBlake2bHasher(), message, sig, pk) {
		t.Error("signature made with sha256 should not verify with blake2b")
	}
}

func TestHasherByName(t *testing.T) {
	for _, name := range []string{"sha256", "blake2b"} {
		h, err := HasherByName(name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if h.Name() != name {
			t.Errorf("got hasher %q, want %q", h.Name(), name)
		}
	}
	if _, err := HasherByName("md5"); err == nil {
		t.Error("unknown hasher should be rejected")
	}
}
