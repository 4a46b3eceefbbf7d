package protocol

import (
	"bytes"
	"encoding/hex"

	"github.com/pkg/errors"

	"github.com/f3rmion/trusteeboard/frost"
	"github.com/f3rmion/trusteeboard/group"
	"github.com/f3rmion/trusteeboard/suite"
)

// VerifyingKey is the compressed public point of a [SigningKey].
type VerifyingKey []byte

// Equal reports whether k and o are the same key.
func (k VerifyingKey) Equal(o VerifyingKey) bool {
	return bytes.Equal(k, o)
}

// String returns a short hex prefix of the key.
func (k VerifyingKey) String() string {
	if len(k) > 8 {
		return hex.EncodeToString(k[:8])
	}
	return hex.EncodeToString(k)
}

// SigningKey signs board messages with Schnorr signatures over the suite's
// group.
type SigningKey struct {
	suite  *suite.Suite
	secret group.Scalar
	public group.Point
}

// GenerateSigningKey samples a fresh key from the suite's random source.
func GenerateSigningKey(s *suite.Suite) (*SigningKey, error) {
	g := s.Group()
	sk, err := g.RandomScalar(s.Rand())
	if err != nil {
		return nil, errors.Wrap(err, "generate signing key")
	}
	if sk.IsZero() {
		return nil, errors.New("generate signing key: zero scalar")
	}
	return &SigningKey{
		suite:  s,
		secret: sk,
		public: g.NewPoint().ScalarMult(sk, g.Generator()),
	}, nil
}

// Public returns the verifying key.
func (k *SigningKey) Public() VerifyingKey {
	return k.public.Bytes()
}

// Sign signs msg.
func (k *SigningKey) Sign(msg []byte) ([]byte, error) {
	sig, err := frost.Sign(k.suite.Group(), k.suite.Hasher(), k.suite.Rand(), k.secret, msg)
	if err != nil {
		return nil, errors.Wrap(err, "sign")
	}
	return sig.Bytes(), nil
}

// VerifySignature checks sig on msg under vk.
func VerifySignature(s *suite.Suite, vk VerifyingKey, msg, sig []byte) error {
	pk, err := s.ParsePoint(vk)
	if err != nil {
		return errors.Wrap(ErrBadSignature, "malformed verifying key")
	}
	parsed, err := frost.SignatureFromBytes(s.Group(), sig)
	if err != nil {
		return errors.Wrap(ErrBadSignature, err.Error())
	}
	if !frost.Verify(s.Group(), s.Hasher(), msg, parsed, pk) {
		return ErrBadSignature
	}
	return nil
}
