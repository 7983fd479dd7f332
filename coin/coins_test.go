package coin

import (
	"testing"

	"github.com/iov-one/drip/driptest/assert"
	"github.com/iov-one/drip/errors"
)

func TestCombineCoins(t *testing.T) {
	cs, err := CombineCoins(NewCoin(5, "ETH"), NewCoin(3, "DRP"), NewCoin(2, "ETH"))
	assert.Nil(t, err)
	assert.Equal(t, Coins{NewCoinp(3, "DRP"), NewCoinp(7, "ETH")}, cs)
	assert.Nil(t, cs.Validate())

	_, err = CombineCoins(NewCoin(5, "eth"))
	assert.IsErr(t, errors.ErrCurrency, err)
}

func TestCoinsAddSubtract(t *testing.T) {
	cs, err := CombineCoins(NewCoin(10, "DRP"))
	assert.Nil(t, err)

	more, err := cs.Add(NewCoin(5, "ABC"))
	assert.Nil(t, err)
	assert.Equal(t, Coins{NewCoinp(5, "ABC"), NewCoinp(10, "DRP")}, more)
	// The original set is not modified.
	assert.Equal(t, Coins{NewCoinp(10, "DRP")}, cs)

	less, err := more.Subtract(NewCoin(10, "DRP"))
	assert.Nil(t, err)
	assert.Equal(t, Coins{NewCoinp(5, "ABC")}, less)

	neg, err := less.Subtract(NewCoin(6, "ABC"))
	assert.Nil(t, err)
	assert.Equal(t, false, neg.IsNonNegative())
}

func TestCoinsContains(t *testing.T) {
	cs, err := CombineCoins(NewCoin(10, "DRP"), NewCoin(1, "ETH"))
	assert.Nil(t, err)

	cases := map[string]struct {
		coin Coin
		want bool
	}{
		"exact amount":   {coin: NewCoin(10, "DRP"), want: true},
		"less":           {coin: NewCoin(3, "ETH"), want: false},
		"more":           {coin: NewCoin(1, "DRP"), want: true},
		"unknown ticker": {coin: NewCoin(1, "BTC"), want: false},
		"zero of any":    {coin: NewCoin(0, "BTC"), want: true},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.want, cs.Contains(tc.coin))
		})
	}
	assert.Equal(t, NewCoin(10, "DRP"), cs.Balance("DRP"))
	assert.Equal(t, NewCoin(0, "BTC"), cs.Balance("BTC"))
}

func TestCoinsValidate(t *testing.T) {
	cases := map[string]struct {
		coins   Coins
		wantErr *errors.Error
	}{
		"empty":        {coins: nil},
		"sorted":       {coins: Coins{NewCoinp(1, "ABC"), NewCoinp(1, "DRP")}},
		"not sorted":   {coins: Coins{NewCoinp(1, "DRP"), NewCoinp(1, "ABC")}, wantErr: errors.ErrCurrency},
		"duplicate":    {coins: Coins{NewCoinp(1, "DRP"), NewCoinp(1, "DRP")}, wantErr: errors.ErrCurrency},
		"zero":         {coins: Coins{NewCoinp(0, "DRP")}, wantErr: errors.ErrCurrency},
		"nil coin":     {coins: Coins{nil}, wantErr: errors.ErrEmpty},
		"invalid name": {coins: Coins{NewCoinp(1, "D")}, wantErr: errors.ErrCurrency},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.coins.Validate()
			if tc.wantErr == nil {
				assert.Nil(t, err)
				return
			}
			assert.IsErr(t, tc.wantErr, err)
		})
	}
}
