/*
Package crypto holds the ed25519 keys used to sign drip transactions.

A public key is turned into a drip.Condition, whose address is the account
identity used by the cash wallets and the stream ledger.
*/
package crypto

import (
	"github.com/iov-one/drip"
	"github.com/iov-one/drip/codec"
	"github.com/iov-one/drip/errors"
	"golang.org/x/crypto/ed25519"
)

const (
	// ExtensionName is used for the Conditions we get from signatures
	ExtensionName = "sigs"

	typeEd25519 = "ed25519"
)

// PublicKey is the public part of an ed25519 key pair.
type PublicKey struct {
	Ed25519 []byte `json:"ed25519"`
}

// PrivateKey holds the 64 byte ed25519 private key (seed and public key).
type PrivateKey struct {
	Ed25519 []byte `json:"ed25519"`
}

// Signature is an ed25519 signature.
type Signature struct {
	Ed25519 []byte `json:"ed25519"`
}

// Verify verifies the signature was created with this message and public key
func (p *PublicKey) Verify(message []byte, sig *Signature) bool {
	if p == nil || sig == nil || len(p.Ed25519) != ed25519.PublicKeySize {
		return false
	}
	if len(sig.Ed25519) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(p.Ed25519), message, sig.Ed25519)
}

// Condition encodes the public key into a drip condition. An empty key
// has no condition.
func (p *PublicKey) Condition() drip.Condition {
	if p == nil || len(p.Ed25519) == 0 {
		return nil
	}
	return drip.NewCondition(ExtensionName, typeEd25519, p.Ed25519)
}

// Address returns the address of the condition represented by this key.
func (p *PublicKey) Address() drip.Address {
	return p.Condition().Address()
}

func (p *PublicKey) Marshal() ([]byte, error) {
	return codec.Marshal(p)
}

func (p *PublicKey) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, p)
}

// Sign returns a matching signature for this private key
func (p *PrivateKey) Sign(message []byte) (*Signature, error) {
	if p == nil || len(p.Ed25519) != ed25519.PrivateKeySize {
		return nil, errors.Wrap(errors.ErrState, "invalid private key")
	}
	bz := ed25519.Sign(ed25519.PrivateKey(p.Ed25519), message)
	return &Signature{Ed25519: bz}, nil
}

// PublicKey returns the corresponding PublicKey
func (p *PrivateKey) PublicKey() *PublicKey {
	pub := ed25519.PrivateKey(p.Ed25519).Public().(ed25519.PublicKey)
	return &PublicKey{Ed25519: pub}
}

func (s *Signature) Marshal() ([]byte, error) {
	return codec.Marshal(s)
}

func (s *Signature) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, s)
}

// GenPrivKeyEd25519 returns a random new private key
func GenPrivKeyEd25519() *PrivateKey {
	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		panic(err)
	}
	return &PrivateKey{Ed25519: priv}
}

// PrivKeyEd25519FromSeed will deterministically generate a private key from
// a given seed. Use if you have a strong source of external randomness,
// or for deterministic keys in test cases.
func PrivKeyEd25519FromSeed(seed []byte) *PrivateKey {
	return &PrivateKey{Ed25519: ed25519.NewKeyFromSeed(seed)}
}
