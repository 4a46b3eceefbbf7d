package protocol

import (
	"github.com/pkg/errors"

	"github.com/f3rmion/trusteeboard/elgamal"
	"github.com/f3rmion/trusteeboard/suite"
)

// ChannelArtifact publishes a trustee's key for receiving shares. The
// secret half is sealed under the trustee's own symmetric key so the
// trustee can recover it from the board.
type ChannelArtifact struct {
	PublicKey    []byte `json:"public_key"`
	SealedSecret []byte `json:"sealed_secret"`
}

// SharesArtifact carries a trustee's Feldman commitments and its sealed
// shares. EncryptedShares is indexed by recipient position; the sender's
// own slot is empty.
type SharesArtifact struct {
	Commitments     [][]byte `json:"commitments"`
	EncryptedShares [][]byte `json:"encrypted_shares"`
}

// DKGPublicKey is the outcome of key generation: the group key and the
// verification key of every trustee, indexed by position.
type DKGPublicKey struct {
	GroupKey         []byte   `json:"group_key"`
	VerificationKeys [][]byte `json:"verification_keys"`
}

// CiphertextData is a serialized ElGamal ciphertext.
type CiphertextData struct {
	C1 []byte `json:"c1"`
	C2 []byte `json:"c2"`
}

// BallotsArtifact is a batch of encrypted ballots and the trustees that
// will mix and decrypt it.
type BallotsArtifact struct {
	Ciphertexts []CiphertextData `json:"ciphertexts"`
	Selection   Selection        `json:"selection"`
}

// NewBallotsArtifact bundles cs for the trustees in sel.
func NewBallotsArtifact(cfg *Configuration, cs []*elgamal.Ciphertext, sel Selection) (*BallotsArtifact, error) {
	if err := sel.Validate(len(cfg.Trustees), cfg.Threshold); err != nil {
		return nil, err
	}
	if len(cs) == 0 {
		return nil, errors.New("empty ballot batch")
	}
	return &BallotsArtifact{Ciphertexts: EncodeCiphertexts(cs), Selection: sel}, nil
}

// MixArtifact is a re-encrypted permutation of the previous stage.
type MixArtifact struct {
	Ciphertexts []CiphertextData `json:"ciphertexts"`
}

// FactorData is a serialized decryption factor with its proof.
type FactorData struct {
	Factor    []byte `json:"factor"`
	Challenge []byte `json:"challenge"`
	Response  []byte `json:"response"`
}

// FactorsArtifact holds one decryption factor per ciphertext of the final
// mix.
type FactorsArtifact struct {
	Factors []FactorData `json:"factors"`
}

// PlaintextsArtifact holds the decrypted plaintexts of a batch.
type PlaintextsArtifact struct {
	Plaintexts []suite.Plaintext `json:"plaintexts"`
}

// EncodeCiphertexts serializes cs.
func EncodeCiphertexts(cs []*elgamal.Ciphertext) []CiphertextData {
	out := make([]CiphertextData, len(cs))
	for i, c := range cs {
		out[i] = CiphertextData{C1: c.C1.Bytes(), C2: c.C2.Bytes()}
	}
	return out
}

// DecodeCiphertexts parses data, rejecting points outside the group.
func DecodeCiphertexts(s *suite.Suite, data []CiphertextData) ([]*elgamal.Ciphertext, error) {
	out := make([]*elgamal.Ciphertext, len(data))
	for i, d := range data {
		c1, err := s.ParsePoint(d.C1)
		if err != nil {
			return nil, errors.Wrapf(err, "ciphertext %d", i)
		}
		c2, err := s.ParsePoint(d.C2)
		if err != nil {
			return nil, errors.Wrapf(err, "ciphertext %d", i)
		}
		out[i] = &elgamal.Ciphertext{C1: c1, C2: c2}
	}
	return out, nil
}

// EncodeFactor serializes f.
func EncodeFactor(f *elgamal.DecryptionFactor) FactorData {
	return FactorData{
		Factor:    f.Factor.Bytes(),
		Challenge: f.Proof.C.Bytes(),
		Response:  f.Proof.Z.Bytes(),
	}
}

// Decode parses d.
func (d FactorData) Decode(s *suite.Suite) (*elgamal.DecryptionFactor, error) {
	factor, err := s.ParsePoint(d.Factor)
	if err != nil {
		return nil, errors.Wrap(err, "factor")
	}
	c, err := s.ParseScalar(d.Challenge)
	if err != nil {
		return nil, errors.Wrap(err, "challenge")
	}
	z, err := s.ParseScalar(d.Response)
	if err != nil {
		return nil, errors.Wrap(err, "response")
	}
	return &elgamal.DecryptionFactor{Factor: factor, Proof: &elgamal.Proof{C: c, Z: z}}, nil
}
