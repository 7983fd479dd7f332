package crypto

import (
	"github.com/iov-one/drip/errors"
	"github.com/stellar/go/exp/crypto/derivation"
)

// DefaultDerivationPath is the SLIP-0010 path used for the first account.
const DefaultDerivationPath = "m/44'/234'/0'"

// DeriveKey returns the ed25519 private key found at given SLIP-0010
// derivation path of the master seed. Only hardened paths are supported.
func DeriveKey(seed []byte, path string) (*PrivateKey, error) {
	if len(seed) < 16 {
		return nil, errors.Wrap(errors.ErrInput, "seed too short")
	}
	k, err := derivation.DeriveForPath(path, seed)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "derive %q: %s", path, err)
	}
	return PrivKeyEd25519FromSeed(k.Key), nil
}
