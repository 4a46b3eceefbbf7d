package trustee

import (
	"crypto/sha256"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"

	"github.com/f3rmion/trusteeboard/group"
	"github.com/f3rmion/trusteeboard/suite"
)

// EncryptionKeySize is the length of a trustee's symmetric key.
const EncryptionKeySize = chacha20poly1305.KeySize

// GenerateEncryptionKey samples a trustee's symmetric key.
func GenerateEncryptionKey(s *suite.Suite) ([]byte, error) {
	key := make([]byte, EncryptionKeySize)
	if _, err := io.ReadFull(s.Rand(), key); err != nil {
		return nil, errors.Wrap(err, "generate encryption key")
	}
	return key, nil
}

// seal encrypts plaintext under key with a random nonce, which is
// prepended to the result.
func seal(rng io.Reader, key, plaintext, ad []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(plaintext)+aead.Overhead())
	if _, err := io.ReadFull(rng, nonce); err != nil {
		return nil, err
	}
	return aead.Seal(nonce, nonce, plaintext, ad), nil
}

// open reverses seal.
func open(key, sealed, ad []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}
	if len(sealed) < aead.NonceSize() {
		return nil, errors.New("sealed data too short")
	}
	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	return aead.Open(nil, nonce, ciphertext, ad)
}

// channelKey derives the key protecting the share that trustee from sends
// to trustee to. Both ends compute the same Diffie-Hellman point from
// their own channel secret and the other's channel public key.
func channelKey(g group.Group, secret group.Scalar, peer group.Point, salt []byte, from, to int) ([]byte, error) {
	dh := g.NewPoint().ScalarMult(secret, peer)
	if dh.IsIdentity() {
		return nil, errors.New("degenerate channel key")
	}
	info := []byte(fmt.Sprintf("trusteeboard-share-v1/%d/%d", from, to))

	kdf := hkdf.New(sha256.New, dh.Bytes(), salt, info)
	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, err
	}
	return key, nil
}
