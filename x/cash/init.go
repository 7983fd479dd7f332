package cash

import (
	"github.com/iov-one/drip"
	"github.com/iov-one/drip/coin"
	"github.com/iov-one/drip/errors"
)

// GenesisAccount is a wallet funded at genesis, listed under "cash":
//
//	"cash": [{"address": "<hex>", "coins": ["1000 DRP"]}]
type GenesisAccount struct {
	Address drip.Address `json:"address"`
	Coins   coin.Coins   `json:"coins"`
}

// Initializer creates the genesis wallets.
type Initializer struct{}

var _ drip.Initializer = Initializer{}

func (Initializer) FromGenesis(opts drip.Options, db drip.KVStore) error {
	var accounts []GenesisAccount
	if err := opts.ReadOptions("cash", &accounts); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	bucket := NewBucket()
	for i, a := range accounts {
		if err := a.Address.Validate(); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
		wallet, err := WalletWith(a.Address, a.Coins...)
		if err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
		if err := bucket.Save(db, wallet); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
	}
	return nil
}
