package sigs

import (
	"context"
	"testing"

	"github.com/iov-one/drip"
	"github.com/iov-one/drip/crypto"
	"github.com/iov-one/drip/driptest"
	"github.com/iov-one/drip/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecorator(t *testing.T) {
	kv := store.MemStore()
	checkKv := kv.CacheWrap()
	signers := new(SigCheckHandler)
	d := NewDecorator()
	chainID := "deco-rate"
	ctx := drip.WithChainID(context.Background(), chainID)

	priv := crypto.GenPrivKeyEd25519()
	perms := []drip.Condition{priv.PublicKey().Condition()}

	tx := NewStdTx([]byte("art"))
	sig, err := SignTx(priv, tx, chainID, 0)
	require.NoError(t, err)

	deliver := func(dec drip.Decorator, my drip.Tx) error {
		_, err := dec.Deliver(ctx, kv, my, signers)
		return err
	}
	check := func(dec drip.Decorator, my drip.Tx) error {
		_, err := dec.Check(ctx, checkKv, my, signers)
		return err
	}

	for i, fn := range []func(drip.Decorator, drip.Tx) error{check, deliver} {
		// no signatures
		tx.Signatures = nil
		assert.Error(t, fn(d, tx), "%d", i)

		// one signature
		tx.Signatures = []*StdSignature{sig}
		assert.NoError(t, fn(d, tx), "%d", i)
		assert.Equal(t, perms, signers.Signers)

		// replay
		assert.Error(t, fn(d, tx), "%d", i)
	}

	// transactions that cannot carry signatures pass through
	plain := &driptest.Tx{Msg: &driptest.Msg{RoutePath: "test/plain"}}
	assert.NoError(t, check(d, plain))
	assert.Empty(t, signers.Signers)
}

func TestDecoratorChargesGas(t *testing.T) {
	kv := store.MemStore()
	chainID := "gas-chain"
	ctx := drip.WithChainID(context.Background(), chainID)
	priv := crypto.GenPrivKeyEd25519()

	tx := NewStdTx([]byte("pay me"))
	sig, err := SignTx(priv, tx, chainID, 0)
	require.NoError(t, err)
	tx.Signatures = []*StdSignature{sig}

	res, err := NewDecorator().Check(ctx, kv, tx, new(SigCheckHandler))
	require.NoError(t, err)
	assert.EqualValues(t, signatureVerifyCost, res.GasAllocated)
}

func TestAuthenticate(t *testing.T) {
	priv := crypto.GenPrivKeyEd25519()
	cond := priv.PublicKey().Condition()

	var auth Authenticate
	ctx := context.Background()
	assert.False(t, auth.HasAddress(ctx, cond.Address()))

	ctx = context.WithValue(ctx, signersKey{}, []drip.Condition{cond})
	assert.True(t, auth.HasAddress(ctx, cond.Address()))
	assert.False(t, auth.HasAddress(ctx, crypto.GenPrivKeyEd25519().PublicKey().Address()))
}
