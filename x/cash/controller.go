package cash

import (
	"github.com/iov-one/drip"
	"github.com/iov-one/drip/coin"
	"github.com/iov-one/drip/errors"
)

// CoinMover is an interface for moving coins between accounts.
type CoinMover interface {
	// MoveCoins removes funds from the source account and adds them to the
	// destination account. This operation is atomic.
	MoveCoins(drip.KVStore, drip.Address, drip.Address, coin.Coin) error
}

// CoinMinter is an interface to create new coins.
type CoinMinter interface {
	// CoinMint increases the number of funds on given account by a
	// specified amount.
	CoinMint(drip.KVStore, drip.Address, coin.Coin) error
}

// Balancer is an interface to query the amount of coins.
type Balancer interface {
	// Balance returns the amount of funds stored under given account
	// address.
	Balance(drip.ReadOnlyKVStore, drip.Address) (coin.Coins, error)
}

// Controller is the functionality needed by cash.Handler and cash.Decorator.
// BaseController should work plenty fine, but you can add other logic if so
// desired
type Controller interface {
	CoinMover
	CoinMinter
	Balancer
}

// BaseController is a simple implementation of controller wallet must return
// something that supports AsSet
type BaseController struct {
	bucket Bucket
}

var _ Controller = BaseController{}

// NewController returns a basic controller implementation
func NewController(bucket Bucket) BaseController {
	return BaseController{bucket: bucket}
}

// Balance returns the amount of funds stored under given account address.
// ErrNotFound is returned if the account does not exist.
func (c BaseController) Balance(db drip.ReadOnlyKVStore, addr drip.Address) (coin.Coins, error) {
	obj, err := c.bucket.Get(db, addr)
	if err != nil {
		return nil, errors.Wrap(err, "cannot get account state")
	}
	if obj == nil {
		return nil, errors.Wrap(errors.ErrNotFound, "no wallet")
	}
	return AsSet(obj).Coins, nil
}

// MoveCoins moves the given amount from src to dest.
// If src doesn't exist, or doesn't have sufficient
// coins, it fails.
func (c BaseController) MoveCoins(db drip.KVStore, src, dest drip.Address, amount coin.Coin) error {
	if !amount.IsPositive() {
		return errors.Wrapf(errors.ErrAmount, "non-positive amount: %s", amount)
	}
	if err := amount.Validate(); err != nil {
		return err
	}

	sender, err := c.bucket.Get(db, src)
	if err != nil {
		return errors.Wrap(err, "cannot get sender")
	}
	if sender == nil {
		return errors.Wrapf(errors.ErrEmpty, "empty account %s", src)
	}
	if !AsSet(sender).Contains(amount) {
		return errors.Wrapf(errors.ErrInsufficientAmount, "%s wants %s", src, amount)
	}
	if src.Equals(dest) {
		return nil
	}

	recipient, err := c.bucket.GetOrCreate(db, dest)
	if err != nil {
		return errors.Wrap(err, "cannot get recipient")
	}
	if err := AsSet(sender).Subtract(amount); err != nil {
		return errors.Wrap(err, "cannot subtract")
	}
	if err := AsSet(recipient).Add(amount); err != nil {
		return errors.Wrap(err, "cannot add")
	}
	if err := c.bucket.Save(db, sender); err != nil {
		return errors.Wrap(err, "save sender")
	}
	return c.bucket.Save(db, recipient)
}

// CoinMint attempts to add the given amount of coins to the destination
// address. Fails if it overflows the wallet.
//
// Note the amount may also be negative:
// "the lord giveth and the lord taketh away"
func (c BaseController) CoinMint(db drip.KVStore, dest drip.Address, amount coin.Coin) error {
	if err := amount.Validate(); err != nil {
		return err
	}
	recipient, err := c.bucket.GetOrCreate(db, dest)
	if err != nil {
		return err
	}
	set := AsSet(recipient)
	if err := set.Add(amount); err != nil {
		return err
	}
	if !set.Coins.IsNonNegative() {
		return errors.Wrap(errors.ErrInsufficientAmount, "negative balance")
	}
	return c.bucket.Save(db, recipient)
}
