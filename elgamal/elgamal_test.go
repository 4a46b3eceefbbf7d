package elgamal

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f3rmion/trusteeboard/bjj"
	"github.com/f3rmion/trusteeboard/frost"
	"github.com/f3rmion/trusteeboard/group"
)

func dealKeyShares(t *testing.T, g group.Group, threshold, total int) []*frost.KeyShare {
	t.Helper()
	f, err := frost.New(g, threshold, total)
	require.NoError(t, err)

	participants := make([]*frost.Participant, total)
	broadcasts := make([]*frost.Round1Data, total)
	for i := range participants {
		participants[i], err = f.NewParticipant(rand.Reader, i+1)
		require.NoError(t, err)
		broadcasts[i] = participants[i].Round1Broadcast()
	}
	for i, sender := range participants {
		for j := range participants {
			if i == j {
				continue
			}
			share := f.Round1PrivateSend(sender, j+1)
			require.NoError(t, f.Round2ReceiveShare(participants[j], share, broadcasts[i].Commitments))
		}
	}
	shares := make([]*frost.KeyShare, total)
	for i, p := range participants {
		shares[i], err = f.Finalize(p, broadcasts)
		require.NoError(t, err)
	}
	return shares
}

func encodeRandom(t *testing.T, g *bjj.BJJ) ([]byte, group.Point) {
	t.Helper()
	p := make([]byte, bjj.PlaintextSize)
	_, err := rand.Read(p)
	require.NoError(t, err)
	m, err := g.EncodePlaintext(p)
	require.NoError(t, err)
	return p, m
}

func TestThresholdDecryption(t *testing.T) {
	g := &bjj.BJJ{}
	h := frost.NewBlake2bHasher()
	keyShares := dealKeyShares(t, g, 2, 3)
	pk := keyShares[0].GroupKey
	label := []byte("batch-1")

	plaintext, m := encodeRandom(t, g)
	c, err := Encrypt(g, rand.Reader, pk, m)
	require.NoError(t, err)

	for _, subset := range [][]int{{0, 1}, {0, 2}, {1, 2}, {0, 1, 2}} {
		var shares []Share
		for _, idx := range subset {
			ks := keyShares[idx]
			df, err := PartialDecrypt(g, h, rand.Reader, ks.SecretKey, ks.PublicKey, c, label)
			require.NoError(t, err)
			require.True(t, VerifyFactor(g, h, ks.PublicKey, c, df, label), "factor of trustee %d", idx+1)
			shares = append(shares, Share{ID: ks.ID, Factor: df.Factor})
		}

		recovered, err := Combine(g, c, shares)
		require.NoError(t, err)
		decoded, err := g.DecodePlaintext(recovered)
		require.NoError(t, err)
		assert.True(t, bytes.Equal(plaintext, decoded), "subset %v", subset)
	}
}

func TestVerifyFactorRejects(t *testing.T) {
	g := &bjj.BJJ{}
	h := frost.NewBlake2bHasher()
	keyShares := dealKeyShares(t, g, 2, 2)

	_, m := encodeRandom(t, g)
	c, err := Encrypt(g, rand.Reader, keyShares[0].GroupKey, m)
	require.NoError(t, err)

	ks := keyShares[0]
	df, err := PartialDecrypt(g, h, rand.Reader, ks.SecretKey, ks.PublicKey, c, []byte("a"))
	require.NoError(t, err)

	assert.False(t, VerifyFactor(g, h, ks.PublicKey, c, df, []byte("b")), "wrong label")
	assert.False(t, VerifyFactor(g, h, keyShares[1].PublicKey, c, df, []byte("a")), "wrong verification key")

	forged := &DecryptionFactor{
		Factor: g.NewPoint().Add(df.Factor, g.Generator()),
		Proof:  df.Proof,
	}
	assert.False(t, VerifyFactor(g, h, ks.PublicKey, c, forged, []byte("a")), "altered factor")
	assert.False(t, VerifyFactor(g, h, ks.PublicKey, c, nil, []byte("a")), "nil factor")
}

func TestShufflePreservesPlaintexts(t *testing.T) {
	g := &bjj.BJJ{}
	sk, err := g.RandomScalar(rand.Reader)
	require.NoError(t, err)
	pk := g.NewPoint().ScalarMult(sk, g.Generator())

	var want [][]byte
	var cs []*Ciphertext
	for i := 0; i < 6; i++ {
		p, m := encodeRandom(t, g)
		c, err := Encrypt(g, rand.Reader, pk, m)
		require.NoError(t, err)
		want = append(want, p)
		cs = append(cs, c)
	}

	mixed, err := Shuffle(g, rand.Reader, pk, cs)
	require.NoError(t, err)
	require.Len(t, mixed, len(cs))

	var got [][]byte
	for i, c := range mixed {
		assert.False(t, c.C1.Equal(cs[i].C1), "ciphertext %d was not re-randomized", i)
		p, err := g.DecodePlaintext(Decrypt(g, sk, c))
		require.NoError(t, err)
		got = append(got, p)
	}
	assert.ElementsMatch(t, want, got)
}

func TestCombineRequiresFactors(t *testing.T) {
	g := &bjj.BJJ{}
	_, err := Combine(g, &Ciphertext{C1: g.Generator(), C2: g.Generator()}, nil)
	assert.Error(t, err)
}

func TestCombineRejectsDuplicateIDs(t *testing.T) {
	g := &bjj.BJJ{}
	h := frost.NewBlake2bHasher()
	keyShares := dealKeyShares(t, g, 2, 3)

	_, m := encodeRandom(t, g)
	c, err := Encrypt(g, rand.Reader, keyShares[0].GroupKey, m)
	require.NoError(t, err)

	ks := keyShares[0]
	df, err := PartialDecrypt(g, h, rand.Reader, ks.SecretKey, ks.PublicKey, c, []byte("batch-1"))
	require.NoError(t, err)
	share := Share{ID: ks.ID, Factor: df.Factor}

	_, err = Combine(g, c, []Share{share, share})
	assert.Error(t, err)
}
