package sigs

import (
	"crypto/sha512"
	"encoding/binary"

	"github.com/iov-one/drip"
	"github.com/iov-one/drip/crypto"
	"github.com/iov-one/drip/errors"
)

// signPrefix versions the signed payload layout.
var signPrefix = []byte("drip\x01")

/*
BuildSignBytes returns the digest a signer commits to:

	sha512(prefix | len(chainID) | chainID | sequence | tx sign bytes)

The chain id length is a single byte and the sequence is a big endian
uint64. Binding the chain id and the sequence makes a signature useless on
another chain and for a replay on this one.
*/
func BuildSignBytes(signBytes []byte, chainID string, seq int64) ([]byte, error) {
	if seq < 0 {
		return nil, errors.Wrap(ErrInvalidSequence, "negative")
	}
	if !drip.IsValidChainID(chainID) {
		return nil, errors.Wrapf(errors.ErrInput, "chain id %q", chainID)
	}
	payload := make([]byte, 0, len(signPrefix)+1+len(chainID)+8+len(signBytes))
	payload = append(payload, signPrefix...)
	payload = append(payload, byte(len(chainID)))
	payload = append(payload, chainID...)
	var seqBytes [8]byte
	binary.BigEndian.PutUint64(seqBytes[:], uint64(seq))
	payload = append(payload, seqBytes[:]...)
	payload = append(payload, signBytes...)

	digest := sha512.Sum512(payload)
	return digest[:], nil
}

// BuildSignBytesTx is BuildSignBytes for the sign bytes of tx.
func BuildSignBytesTx(tx SignedTx, chainID string, seq int64) ([]byte, error) {
	signBytes, err := tx.GetSignBytes()
	if err != nil {
		return nil, errors.Wrap(err, "sign bytes")
	}
	return BuildSignBytes(signBytes, chainID, seq)
}

// SignTx signs tx with the signer's sequence seq.
func SignTx(signer *crypto.PrivateKey, tx SignedTx, chainID string, seq int64) (*StdSignature, error) {
	digest, err := BuildSignBytesTx(tx, chainID, seq)
	if err != nil {
		return nil, err
	}
	sig, err := signer.Sign(digest)
	if err != nil {
		return nil, errors.Wrap(err, "sign")
	}
	return &StdSignature{Pubkey: signer.PublicKey(), Signature: sig, Sequence: seq}, nil
}

// VerifyTxSignatures verifies every signature of tx and returns the
// signers in order. A single invalid signature rejects the transaction.
func VerifyTxSignatures(db drip.KVStore, tx SignedTx, chainID string) ([]drip.Condition, error) {
	signBytes, err := tx.GetSignBytes()
	if err != nil {
		return nil, errors.Wrap(err, "sign bytes")
	}
	sigs := tx.GetSignatures()
	signers := make([]drip.Condition, len(sigs))
	for i, sig := range sigs {
		if signers[i], err = VerifySignature(db, sig, signBytes, chainID); err != nil {
			return nil, errors.Wrapf(err, "signature %d", i)
		}
	}
	return signers, nil
}

// VerifySignature checks a single signature and advances the sequence of
// its signer. The signer account is created on first use.
func VerifySignature(db drip.KVStore, sig *StdSignature, signBytes []byte, chainID string) (drip.Condition, error) {
	if err := sig.Validate(); err != nil {
		return nil, err
	}
	digest, err := BuildSignBytes(signBytes, chainID, sig.Sequence)
	if err != nil {
		return nil, err
	}

	bucket := NewBucket()
	obj, err := bucket.GetOrCreate(db, sig.Pubkey)
	if err != nil {
		return nil, err
	}
	user := AsUser(obj)
	if !user.Pubkey.Verify(digest, sig.Signature) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "invalid signature")
	}
	if err := user.CheckAndIncrementSequence(sig.Sequence); err != nil {
		return nil, err
	}
	if err := bucket.Save(db, obj); err != nil {
		return nil, err
	}
	return user.Pubkey.Condition(), nil
}
