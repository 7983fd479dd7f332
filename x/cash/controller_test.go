package cash

import (
	"testing"

	"github.com/iov-one/drip"
	"github.com/iov-one/drip/coin"
	"github.com/iov-one/drip/driptest"
	"github.com/iov-one/drip/errors"
	"github.com/iov-one/drip/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getWallet(t testing.TB, kv drip.ReadOnlyKVStore, addr drip.Address) *Set {
	t.Helper()
	res, err := NewBucket().Get(kv, addr)
	require.NoError(t, err)
	return AsSet(res)
}

func TestCoinMint(t *testing.T) {
	kv := store.MemStore()
	addr := driptest.NewCondition().Address()
	addr2 := driptest.NewCondition().Address()

	controller := NewController(NewBucket())

	plus := coin.NewCoin(500, "FOO")
	minus := coin.NewCoin(-400, "FOO")
	total := coin.NewCoin(100, "FOO")
	other := coin.NewCoin(1, "DING")

	assert.Nil(t, getWallet(t, kv, addr))

	require.NoError(t, controller.CoinMint(kv, addr, plus))
	w := getWallet(t, kv, addr)
	require.NotNil(t, w)
	assert.True(t, w.Contains(plus))
	assert.False(t, w.Contains(other))
	assert.Nil(t, getWallet(t, kv, addr2))

	require.NoError(t, controller.CoinMint(kv, addr, minus))
	w = getWallet(t, kv, addr)
	assert.False(t, w.Contains(plus))
	assert.True(t, w.Contains(total))

	// cannot take more than there is
	err := controller.CoinMint(kv, addr, coin.NewCoin(-101, "FOO"))
	assert.True(t, errors.ErrInsufficientAmount.Is(err))

	// overflow is rejected
	err = controller.CoinMint(kv, addr, coin.NewCoin(1<<62, "FOO"))
	require.NoError(t, err)
	err = controller.CoinMint(kv, addr, coin.NewCoin(1<<62, "FOO"))
	assert.True(t, errors.ErrOverflow.Is(err))

	balance, err := controller.Balance(kv, addr)
	require.NoError(t, err)
	assert.Equal(t, coin.Coins{coin.NewCoinp(100+1<<62, "FOO")}, balance)

	_, err = controller.Balance(kv, addr2)
	assert.True(t, errors.ErrNotFound.Is(err))
}

func TestMoveCoins(t *testing.T) {
	src := driptest.NewCondition().Address()
	dst := driptest.NewCondition().Address()
	nobody := driptest.NewCondition().Address()

	cases := map[string]struct {
		from, to    drip.Address
		amount      coin.Coin
		wantErr     *errors.Error
		wantSrc     coin.Coins
		wantDst     coin.Coins
		dstNotFound bool
	}{
		"partial amount": {
			from:    src,
			to:      dst,
			amount:  coin.NewCoin(30, "DRP"),
			wantSrc: coin.Coins{coin.NewCoinp(70, "DRP")},
			wantDst: coin.Coins{coin.NewCoinp(30, "DRP")},
		},
		"whole balance": {
			from:    src,
			to:      dst,
			amount:  coin.NewCoin(100, "DRP"),
			wantSrc: nil,
			wantDst: coin.Coins{coin.NewCoinp(100, "DRP")},
		},
		"to self": {
			from:        src,
			to:          src,
			amount:      coin.NewCoin(100, "DRP"),
			wantSrc:     coin.Coins{coin.NewCoinp(100, "DRP")},
			dstNotFound: true,
		},
		"too much": {
			from:    src,
			to:      dst,
			amount:  coin.NewCoin(101, "DRP"),
			wantErr: errors.ErrInsufficientAmount,
		},
		"other ticker": {
			from:    src,
			to:      dst,
			amount:  coin.NewCoin(1, "ETH"),
			wantErr: errors.ErrInsufficientAmount,
		},
		"zero amount": {
			from:    src,
			to:      dst,
			amount:  coin.NewCoin(0, "DRP"),
			wantErr: errors.ErrAmount,
		},
		"sender without wallet": {
			from:    nobody,
			to:      dst,
			amount:  coin.NewCoin(1, "DRP"),
			wantErr: errors.ErrEmpty,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			kv := store.MemStore()
			controller := NewController(NewBucket())
			require.NoError(t, controller.CoinMint(kv, src, coin.NewCoin(100, "DRP")))

			err := controller.MoveCoins(kv, tc.from, tc.to, tc.amount)
			if tc.wantErr != nil {
				require.True(t, tc.wantErr.Is(err), "got %+v", err)
				return
			}
			require.NoError(t, err)

			got, err := controller.Balance(kv, src)
			require.NoError(t, err)
			assert.Equal(t, tc.wantSrc, got)

			got, err = controller.Balance(kv, dst)
			if tc.dstNotFound {
				assert.True(t, errors.ErrNotFound.Is(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantDst, got)
		})
	}
}
