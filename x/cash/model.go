package cash

import (
	"github.com/iov-one/drip"
	"github.com/iov-one/drip/codec"
	"github.com/iov-one/drip/coin"
	"github.com/iov-one/drip/errors"
	"github.com/iov-one/drip/orm"
)

// BucketName is where we store the balances
const BucketName = "cash"

// Set is the content of a wallet: a normalized set of coins.
type Set struct {
	Coins coin.Coins `json:"coins"`
}

var _ orm.Model = (*Set)(nil)

// Validate requires that all coins are in alphabetical order
// and have a non-zero amount.
func (s *Set) Validate() error {
	return s.Coins.Validate()
}

// Copy makes a new set with the same coins
func (s *Set) Copy() orm.Model {
	return &Set{Coins: s.Coins.Clone()}
}

func (s *Set) Marshal() ([]byte, error) {
	return codec.Marshal(s)
}

func (s *Set) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, s)
}

// Contains returns true if the set holds at least given amount.
func (s *Set) Contains(c coin.Coin) bool {
	return s.Coins.Contains(c)
}

// IsEmpty returns true if there are no coins in the set.
func (s *Set) IsEmpty() bool {
	return s.Coins.IsEmpty()
}

// Add modifies the set to add Coin c
func (s *Set) Add(c coin.Coin) error {
	cs, err := s.Coins.Add(c)
	if err != nil {
		return err
	}
	s.Coins = cs
	return nil
}

// Subtract modifies the set to remove Coin c
func (s *Set) Subtract(c coin.Coin) error {
	cs, err := s.Coins.Subtract(c)
	if err != nil {
		return err
	}
	s.Coins = cs
	return nil
}

// AsSet will safely type-cast any value from Bucket to a Set
func AsSet(obj orm.Object) *Set {
	if obj == nil || obj.Value() == nil {
		return nil
	}
	return obj.Value().(*Set)
}

// NewWallet creates an empty wallet with this address
func NewWallet(key drip.Address) orm.Object {
	return orm.NewSimpleObj(key, new(Set))
}

// WalletWith creates an wallet with a balance
func WalletWith(key drip.Address, coins ...*coin.Coin) (orm.Object, error) {
	obj := NewWallet(key)
	set := AsSet(obj)
	for _, c := range coins {
		if c == nil {
			return nil, errors.Wrap(errors.ErrEmpty, "nil coin")
		}
		if err := set.Add(*c); err != nil {
			return nil, err
		}
	}
	if err := set.Validate(); err != nil {
		return nil, err
	}
	return obj, nil
}

// Bucket is a type-safe wrapper around orm.Bucket
type Bucket struct {
	orm.Bucket
}

// NewBucket initializes a cash.Bucket with default name
func NewBucket() Bucket {
	return Bucket{
		Bucket: orm.NewBucket(BucketName, new(Set)),
	}
}

// GetOrCreate will return the wallet if found, or create one
// if not.
func (b Bucket) GetOrCreate(db drip.KVStore, key drip.Address) (orm.Object, error) {
	obj, err := b.Get(db, key)
	if err == nil && obj == nil {
		obj = NewWallet(key)
	}
	return obj, err
}

// Save enforces the proper type
func (b Bucket) Save(db drip.KVStore, obj orm.Object) error {
	if _, ok := obj.Value().(*Set); !ok {
		return errors.WithType(errors.ErrModel, obj.Value())
	}
	return b.Bucket.Save(db, obj)
}
