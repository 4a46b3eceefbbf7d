package trustee

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f3rmion/trusteeboard/bjj"
	"github.com/f3rmion/trusteeboard/frost"
)

func TestDKGRound(t *testing.T) {
	g := &bjj.BJJ{}
	const threshold, total = 2, 3
	f, err := frost.New(g, threshold, total)
	require.NoError(t, err)

	rounds := make([]*dkgRound, total)
	outputs := make([]*round1Output, total)
	broadcasts := make([]*frost.Round1Data, total)
	for i := range rounds {
		rounds[i], err = newDKGRound(f, rand.Reader, i+1)
		require.NoError(t, err)
		outputs[i] = rounds[i].generateRound1()
		broadcasts[i] = outputs[i].Broadcast
		assert.Len(t, outputs[i].PrivateShares, total-1)
	}

	results := make([]*dkgResult, total)
	for i, d := range rounds {
		var shares []*frost.Round1PrivateData
		for j, out := range outputs {
			if i == j {
				continue
			}
			shares = append(shares, out.PrivateShares[i+1])
		}
		results[i], err = d.processRound1(&round1Input{Broadcasts: broadcasts, PrivateShares: shares})
		require.NoError(t, err, "trustee %d", i)
	}

	for i, r := range results {
		assert.True(t, r.GroupKey.Equal(results[0].GroupKey), "trustee %d group key", i)
		require.Len(t, r.VerificationKeys, total)
		for j, vk := range r.VerificationKeys {
			assert.True(t, vk.Equal(results[j].KeyShare.PublicKey), "trustee %d view of vk %d", i, j)
		}
	}
	assert.Equal(t, results[0].artifact(), results[2].artifact())
}

func TestDKGRoundRejectsBadShare(t *testing.T) {
	g := &bjj.BJJ{}
	f, err := frost.New(g, 2, 2)
	require.NoError(t, err)

	a, err := newDKGRound(f, rand.Reader, 1)
	require.NoError(t, err)
	b, err := newDKGRound(f, rand.Reader, 2)
	require.NoError(t, err)
	outA, outB := a.generateRound1(), b.generateRound1()

	share := *outA.PrivateShares[2]
	share.Share = g.NewScalar().Add(share.Share, frost.ScalarFromInt(g, 1))
	_, err = b.processRound1(&round1Input{
		Broadcasts:    []*frost.Round1Data{outA.Broadcast, outB.Broadcast},
		PrivateShares: []*frost.Round1PrivateData{&share},
	})
	assert.ErrorIs(t, err, ErrBadShare)

	_, err = b.processRound1(&round1Input{
		Broadcasts:    []*frost.Round1Data{outA.Broadcast, outA.Broadcast},
		PrivateShares: []*frost.Round1PrivateData{outA.PrivateShares[2]},
	})
	assert.Error(t, err)
}

func TestParseCommitments(t *testing.T) {
	g := &bjj.BJJ{}
	_, err := parseCommitments(g, [][]byte{g.Generator().Bytes()}, 2)
	assert.Error(t, err)
	_, err = parseCommitments(g, [][]byte{{1, 2}, g.Generator().Bytes()}, 2)
	assert.Error(t, err)
	pts, err := parseCommitments(g, [][]byte{g.Generator().Bytes(), g.Generator().Bytes()}, 2)
	require.NoError(t, err)
	assert.Len(t, pts, 2)
}
