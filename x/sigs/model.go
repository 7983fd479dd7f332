package sigs

import (
	"github.com/iov-one/drip"
	"github.com/iov-one/drip/codec"
	"github.com/iov-one/drip/crypto"
	"github.com/iov-one/drip/errors"
	"github.com/iov-one/drip/orm"
)

const BucketName = "sigs"

// maxSequenceValue is Number.MAX_SAFE_INTEGER, the largest nonce a
// javascript client can sign.
const maxSequenceValue = 1<<53 - 1

// UserData is the replay protection state of a key. It is stored under the
// key's address once the key signed its first transaction.
type UserData struct {
	Pubkey   *crypto.PublicKey
	Sequence int64
}

var _ orm.Model = (*UserData)(nil)

func (u *UserData) Validate() error {
	switch {
	case u.Sequence < 0:
		return errors.Field("Sequence", ErrInvalidSequence, "negative")
	case u.Sequence > 0 && u.Pubkey == nil:
		return errors.Field("Pubkey", errors.ErrEmpty, "required once sequence is used")
	}
	return nil
}

func (u *UserData) Copy() orm.Model {
	cp := *u
	return &cp
}

func (u *UserData) Marshal() ([]byte, error)   { return codec.Marshal(u) }
func (u *UserData) Unmarshal(raw []byte) error { return codec.Unmarshal(raw, u) }

// CheckAndIncrementSequence accepts a signature made with the expected
// sequence and advances it by one.
func (u *UserData) CheckAndIncrementSequence(expected int64) error {
	if u.Sequence != expected {
		return errors.Wrapf(ErrInvalidSequence, "signed %d, account at %d", expected, u.Sequence)
	}
	if u.Sequence >= maxSequenceValue {
		return errors.Wrap(errors.ErrOverflow, "sequence exhausted")
	}
	u.Sequence++
	return nil
}

// AsUser returns nil for a missing object.
func AsUser(obj orm.Object) *UserData {
	if obj == nil || obj.Value() == nil {
		return nil
	}
	return obj.Value().(*UserData)
}

type Bucket struct {
	orm.Bucket
}

func NewBucket() Bucket {
	return Bucket{Bucket: orm.NewBucket(BucketName, new(UserData))}
}

// GetOrCreate loads the account of pubkey, or returns a fresh one with
// sequence zero. Nothing is written until Save.
func (b Bucket) GetOrCreate(db drip.KVStore, pubkey *crypto.PublicKey) (orm.Object, error) {
	addr := pubkey.Address()
	obj, err := b.Get(db, addr)
	if err != nil || obj != nil {
		return obj, err
	}
	return orm.NewSimpleObj(addr, &UserData{Pubkey: pubkey}), nil
}

// NextNonce is the sequence the next signature of signer must carry.
func NextNonce(db drip.ReadOnlyKVStore, signer drip.Address) (int64, error) {
	obj, err := NewBucket().Get(db, signer)
	if err != nil {
		return 0, errors.Wrap(err, "sigs bucket")
	}
	if u := AsUser(obj); u != nil {
		return u.Sequence, nil
	}
	return 0, nil
}
