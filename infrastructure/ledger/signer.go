package ledger

import (
	"chat-relay/errors"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"strings"
)

// KeySigner is an ed25519 keypair. Its address is the hex encoded public key.
type KeySigner struct {
	private ed25519.PrivateKey
	address string
}

// NewSigner builds a signer from a 32 bytes hex encoded seed.
func NewSigner(seedHex string) (*KeySigner, error) {
	seed, err := hex.DecodeString(strings.TrimSpace(seedHex))
	if err != nil || len(seed) != ed25519.SeedSize {
		return nil, errors.ErrInvalidSignerSeed
	}
	return fromPrivate(ed25519.NewKeyFromSeed(seed)), nil
}

func GenerateSigner() (*KeySigner, error) {
	_, private, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	return fromPrivate(private), nil
}

func fromPrivate(private ed25519.PrivateKey) *KeySigner {
	public := private.Public().(ed25519.PublicKey)
	return &KeySigner{private: private, address: hex.EncodeToString(public)}
}

func (s *KeySigner) Address() string {
	return s.address
}

func (s *KeySigner) Sign(payload []byte) []byte {
	return ed25519.Sign(s.private, payload)
}

// Seed returns the hex seed, so a generated signer can be persisted.
func (s *KeySigner) Seed() string {
	return hex.EncodeToString(s.private.Seed())
}

// Verify checks a signature against a hex encoded address.
func Verify(address string, payload, signature []byte) bool {
	public, err := hex.DecodeString(address)
	if err != nil || len(public) != ed25519.PublicKeySize {
		return false
	}
	return ed25519.Verify(public, payload, signature)
}
