package protocol

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f3rmion/trusteeboard/elgamal"
	"github.com/f3rmion/trusteeboard/suite"
)

type fixture struct {
	suite    *suite.Suite
	manager  *ProtocolManager
	trustees []*SigningKey
	cfg      *Configuration
}

func newFixture(t *testing.T, n, threshold int) *fixture {
	t.Helper()
	s := suite.Default()
	pm, err := NewProtocolManager(s)
	require.NoError(t, err)

	keys := make([]*SigningKey, n)
	pks := make([]VerifyingKey, n)
	for i := range keys {
		keys[i], err = GenerateSigningKey(s)
		require.NoError(t, err)
		pks[i] = keys[i].Public()
	}
	cfg, err := NewConfiguration(pm.PublicKey(), pks, threshold, s.Name())
	require.NoError(t, err)
	return &fixture{suite: s, manager: pm, trustees: keys, cfg: cfg}
}

func TestConfigurationValidate(t *testing.T) {
	f := newFixture(t, 3, 2)
	require.NoError(t, f.cfg.Validate())

	tests := []struct {
		name   string
		mutate func(c *Configuration)
	}{
		{"zero threshold", func(c *Configuration) { c.Threshold = 0 }},
		{"threshold above n", func(c *Configuration) { c.Threshold = 4 }},
		{"no trustees", func(c *Configuration) { c.Trustees = nil }},
		{"duplicate trustee", func(c *Configuration) { c.Trustees[1] = c.Trustees[0] }},
		{"manager is trustee", func(c *Configuration) { c.Trustees[2] = c.ProtocolManager }},
		{"no suite", func(c *Configuration) { c.Suite = "" }},
		{"too many trustees", func(c *Configuration) {
			for len(c.Trustees) <= MaxTrustees {
				c.Trustees = append(c.Trustees, VerifyingKey{byte(len(c.Trustees))})
			}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := *f.cfg
			c.Trustees = append([]VerifyingKey(nil), f.cfg.Trustees...)
			tt.mutate(&c)
			assert.ErrorIs(t, c.Validate(), ErrInvalidConfiguration)
		})
	}
}

func TestConfigurationPosition(t *testing.T) {
	f := newFixture(t, 3, 2)

	pos, ok := f.cfg.Position(f.manager.PublicKey())
	require.True(t, ok)
	assert.Equal(t, ManagerPosition, pos)

	for i, k := range f.trustees {
		pos, ok := f.cfg.Position(k.Public())
		require.True(t, ok)
		assert.Equal(t, i, pos)
	}

	stranger, err := GenerateSigningKey(f.suite)
	require.NoError(t, err)
	pos, ok = f.cfg.Position(stranger.Public())
	assert.False(t, ok)
	assert.Equal(t, UnknownPosition, pos)
}

func TestConfigurationHashStable(t *testing.T) {
	f := newFixture(t, 2, 1)
	b, err := json.Marshal(f.cfg)
	require.NoError(t, err)

	var decoded Configuration
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, f.cfg.Hash(), decoded.Hash())

	decoded.Threshold = 2
	assert.NotEqual(t, f.cfg.Hash(), decoded.Hash())
}

func TestSelection(t *testing.T) {
	sel, err := SelectFirst(2, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, sel.Positions())
	assert.Equal(t, []int{0, 1}, sel.Indices())
	assert.True(t, sel.Contains(1))
	assert.False(t, sel.Contains(2))

	rank, ok := sel.Rank(1)
	require.True(t, ok)
	assert.Equal(t, 1, rank)

	_, err = SelectFirst(3, 2)
	assert.ErrorIs(t, err, ErrInvalidSelection)
	_, err = SelectFirst(0, 2)
	assert.ErrorIs(t, err, ErrInvalidSelection)

	assert.ErrorIs(t, NewSelection(1, 1).Validate(3, 2), ErrInvalidSelection)
	assert.ErrorIs(t, NewSelection(1, 4).Validate(3, 2), ErrInvalidSelection)
	assert.ErrorIs(t, NewSelection(0, 1).Validate(3, 2), ErrInvalidSelection)
	assert.ErrorIs(t, NewSelection(1).Validate(3, 2), ErrInvalidSelection)
	assert.NoError(t, NewSelection(3, 1).Validate(3, 2))

	b, err := json.Marshal(NewSelection(3, 1))
	require.NoError(t, err)
	assert.JSONEq(t, `[3, 1]`, string(b))
}

func TestBootstrapMessage(t *testing.T) {
	f := newFixture(t, 2, 2)
	msg, err := f.manager.BootstrapMessage(f.cfg, 7)
	require.NoError(t, err)

	assert.Equal(t, TypeConfiguration, msg.Statement.Type)
	assert.EqualValues(t, 7, msg.Statement.SessionID)
	assert.True(t, msg.HasArtifact())

	pos, err := msg.Verify(f.cfg, f.suite)
	require.NoError(t, err)
	assert.Equal(t, ManagerPosition, pos)

	cfg, err := DecodeArtifact[Configuration](msg)
	require.NoError(t, err)
	assert.Equal(t, f.cfg.Hash(), cfg.Hash())
}

func TestBootstrapRequiresOwnConfiguration(t *testing.T) {
	f := newFixture(t, 2, 2)
	other, err := NewProtocolManager(f.suite)
	require.NoError(t, err)
	_, err = other.BootstrapMessage(f.cfg, 1)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestMessageVerifyRejects(t *testing.T) {
	f := newFixture(t, 2, 2)
	stmt := Statement{Type: TypeConfigurationSigned, ConfigurationHash: f.cfg.Hash()}

	t.Run("valid", func(t *testing.T) {
		m, err := NewMessage(f.trustees[1], stmt, nil)
		require.NoError(t, err)
		pos, err := m.Verify(f.cfg, f.suite)
		require.NoError(t, err)
		assert.Equal(t, 1, pos)
		assert.False(t, m.HasArtifact())
	})

	t.Run("unknown signer", func(t *testing.T) {
		stranger, err := GenerateSigningKey(f.suite)
		require.NoError(t, err)
		m, err := NewMessage(stranger, stmt, nil)
		require.NoError(t, err)
		_, err = m.Verify(f.cfg, f.suite)
		assert.ErrorIs(t, err, ErrUnknownSigner)
	})

	t.Run("trustee posts manager statement", func(t *testing.T) {
		m, err := NewMessage(f.trustees[0], Statement{Type: TypeBallots, ConfigurationHash: f.cfg.Hash()}, nil)
		require.NoError(t, err)
		_, err = m.Verify(f.cfg, f.suite)
		assert.ErrorIs(t, err, ErrWrongAuthor)
	})

	t.Run("other configuration", func(t *testing.T) {
		m, err := NewMessage(f.trustees[0], Statement{Type: TypeConfigurationSigned}, nil)
		require.NoError(t, err)
		_, err = m.Verify(f.cfg, f.suite)
		assert.ErrorIs(t, err, ErrWrongConfiguration)
	})

	t.Run("tampered statement", func(t *testing.T) {
		m, err := NewMessage(f.trustees[0], stmt, nil)
		require.NoError(t, err)
		m.Statement.Batch = 3
		_, err = m.Verify(f.cfg, f.suite)
		assert.ErrorIs(t, err, ErrBadSignature)
	})

	t.Run("tampered artifact", func(t *testing.T) {
		m, err := NewMessage(f.trustees[0], Statement{Type: TypeMix, ConfigurationHash: f.cfg.Hash()}, &MixArtifact{})
		require.NoError(t, err)
		_, err = m.Verify(f.cfg, f.suite)
		require.NoError(t, err)

		m.Artifact = []byte(`{"ciphertexts":[]}`)
		_, err = m.Verify(f.cfg, f.suite)
		assert.ErrorIs(t, err, ErrArtifactMismatch)

		m.Artifact = nil
		_, err = m.Verify(f.cfg, f.suite)
		assert.ErrorIs(t, err, ErrArtifactMismatch)
	})
}

func TestBallotsMessage(t *testing.T) {
	f := newFixture(t, 3, 2)

	sk, err := f.suite.Group().RandomScalar(f.suite.Rand())
	require.NoError(t, err)
	pk := f.suite.Group().NewPoint().ScalarMult(sk, f.suite.Group().Generator())

	var cs []*elgamal.Ciphertext
	for i := 0; i < 3; i++ {
		p, err := f.suite.RandomPlaintext()
		require.NoError(t, err)
		c, err := f.suite.Encrypt(pk, p)
		require.NoError(t, err)
		cs = append(cs, c)
	}

	_, err = NewBallotsArtifact(f.cfg, cs, NewSelection(1, 2, 3))
	assert.ErrorIs(t, err, ErrInvalidSelection)

	sel, err := SelectFirst(2, 3)
	require.NoError(t, err)
	ballots, err := NewBallotsArtifact(f.cfg, cs, sel)
	require.NoError(t, err)

	pkHash := HashOf(pk.Bytes())
	msg, err := f.manager.BallotsMessage(f.cfg, 7, BallotsBatch, ballots, pkHash)
	require.NoError(t, err)
	assert.Equal(t, BallotsBatch, msg.Statement.Batch)
	assert.Equal(t, []Hash{pkHash}, msg.Statement.Data)

	_, err = msg.Verify(f.cfg, f.suite)
	require.NoError(t, err)

	// The message survives a JSON round trip through the board encoding.
	b, err := json.Marshal(msg)
	require.NoError(t, err)
	var decodedMsg Message
	require.NoError(t, json.Unmarshal(b, &decodedMsg))
	_, err = decodedMsg.Verify(f.cfg, f.suite)
	require.NoError(t, err)
	assert.Equal(t, msg.Hash(), decodedMsg.Hash())

	decoded, err := DecodeArtifact[BallotsArtifact](&decodedMsg)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, decoded.Selection.Positions())

	parsed, err := DecodeCiphertexts(f.suite, decoded.Ciphertexts)
	require.NoError(t, err)
	require.Len(t, parsed, len(cs))
	for i := range cs {
		assert.True(t, cs[i].C1.Equal(parsed[i].C1))
		assert.True(t, cs[i].C2.Equal(parsed[i].C2))
	}
}

func TestDecodeCiphertextsRejectsGarbage(t *testing.T) {
	s := suite.Default()
	_, err := DecodeCiphertexts(s, []CiphertextData{{C1: []byte{1, 2, 3}, C2: []byte{4}}})
	assert.Error(t, err)
}

func TestFactorDataRoundTrip(t *testing.T) {
	s := suite.Default()
	g := s.Group()
	sk, err := g.RandomScalar(s.Rand())
	require.NoError(t, err)
	vk := g.NewPoint().ScalarMult(sk, g.Generator())

	p, err := s.RandomPlaintext()
	require.NoError(t, err)
	c, err := s.Encrypt(vk, p)
	require.NoError(t, err)

	df, err := elgamal.PartialDecrypt(g, s.Hasher(), s.Rand(), sk, vk, c, []byte("label"))
	require.NoError(t, err)

	decoded, err := EncodeFactor(df).Decode(s)
	require.NoError(t, err)
	assert.True(t, elgamal.VerifyFactor(g, s.Hasher(), vk, c, decoded, []byte("label")))

	// z + order verifies the same way, so only the canonical form is accepted.
	data := EncodeFactor(df)
	z := new(big.Int).SetBytes(data.Response)
	z.Add(z, new(big.Int).SetBytes(g.Order()))
	data.Response = z.FillBytes(make([]byte, len(data.Response)))
	_, err = data.Decode(s)
	assert.Error(t, err)
}

func TestStatementTypeText(t *testing.T) {
	for typ := TypeConfiguration; typ <= TypePlaintextsSigned; typ++ {
		b, err := typ.MarshalText()
		require.NoError(t, err)
		var back StatementType
		require.NoError(t, back.UnmarshalText(b))
		assert.Equal(t, typ, back)
	}
	var bad StatementType
	assert.Error(t, bad.UnmarshalText([]byte("Nope")))
	assert.True(t, TypeBallots.ManagerAuthored())
	assert.False(t, TypeMix.ManagerAuthored())
}
