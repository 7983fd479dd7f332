package sigs

import (
	"testing"

	"github.com/iov-one/drip/crypto"
	"github.com/iov-one/drip/errors"
	"github.com/iov-one/drip/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignBytes(t *testing.T) {
	const chainID = "test-sign-bytes"
	payload := []byte("foobar")

	base, err := BuildSignBytes(payload, chainID, 17)
	require.NoError(t, err)
	assert.NotEqual(t, payload, base)
	fromTx, err := BuildSignBytesTx(NewStdTx(payload), chainID, 17)
	require.NoError(t, err)
	assert.Equal(t, base, fromTx)

	cases := map[string]struct {
		payload []byte
		chainID string
		seq     int64
		wantErr *errors.Error
	}{
		"other payload":     {payload: []byte("blast"), chainID: chainID, seq: 17},
		"other chain":       {payload: payload, chainID: chainID + "2", seq: 17},
		"other sequence":    {payload: payload, chainID: chainID, seq: 18},
		"negative sequence": {payload: payload, chainID: chainID, seq: -1, wantErr: ErrInvalidSequence},
		"invalid chain id":  {payload: payload, chainID: "x", seq: 1, wantErr: errors.ErrInput},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := BuildSignBytes(tc.payload, tc.chainID, tc.seq)
			if tc.wantErr != nil {
				assert.True(t, tc.wantErr.Is(err), "got %+v", err)
				return
			}
			require.NoError(t, err)
			assert.NotEqual(t, base, got)
		})
	}
}

func TestVerifySignature(t *testing.T) {
	kv := store.MemStore()
	priv := crypto.GenPrivKeyEd25519()
	pub := priv.PublicKey()

	const chainID = "emo-music-2345"
	tx := NewStdTx([]byte("my special valentine"))
	signBytes, err := tx.GetSignBytes()
	require.NoError(t, err)
	sign := func(seq int64) *StdSignature {
		sig, err := SignTx(priv, tx, chainID, seq)
		require.NoError(t, err)
		return sig
	}

	// steps share the store, so sequence checks depend on the order
	steps := []struct {
		name      string
		sig       *StdSignature
		signBytes []byte
		chainID   string
		wantErr   *errors.Error
	}{
		{"empty signature", new(StdSignature), signBytes, chainID, errors.ErrUnauthorized},
		{"first must be zero", sign(1), signBytes, chainID, ErrInvalidSequence},
		{"wrong chain", sign(0), signBytes, "metal-chain", errors.ErrUnauthorized},
		{"wrong message", sign(0), []byte("other"), chainID, errors.ErrUnauthorized},
		{"first", sign(0), signBytes, chainID, nil},
		{"replay", sign(0), signBytes, chainID, ErrInvalidSequence},
		{"second", sign(1), signBytes, chainID, nil},
		{"gap", sign(13), signBytes, chainID, ErrInvalidSequence},
		{"third", sign(2), signBytes, chainID, nil},
	}
	for _, step := range steps {
		got, err := VerifySignature(kv, step.sig, step.signBytes, step.chainID)
		if step.wantErr != nil {
			assert.True(t, step.wantErr.Is(err), "%s: got %+v", step.name, err)
			continue
		}
		require.NoError(t, err, step.name)
		assert.Equal(t, pub.Condition(), got, step.name)
	}

	nonce, err := NextNonce(kv, pub.Address())
	require.NoError(t, err)
	assert.EqualValues(t, 3, nonce)

	fresh, err := NextNonce(kv, crypto.GenPrivKeyEd25519().PublicKey().Address())
	require.NoError(t, err)
	assert.EqualValues(t, 0, fresh)
}

func TestVerifyTxSignatures(t *testing.T) {
	kv := store.MemStore()
	priv := crypto.GenPrivKeyEd25519()
	priv2 := crypto.GenPrivKeyEd25519()
	chainID := "hot_summer_days"

	tx := NewStdTx([]byte("one more time"))
	sig, err := SignTx(priv, tx, chainID, 0)
	require.NoError(t, err)
	sig2, err := SignTx(priv2, tx, chainID, 0)
	require.NoError(t, err)

	tx.Signatures = nil
	signers, err := VerifyTxSignatures(kv, tx, chainID)
	require.NoError(t, err)
	assert.Empty(t, signers)

	tx.Signatures = []*StdSignature{sig, sig2}
	signers, err = VerifyTxSignatures(kv, tx, chainID)
	require.NoError(t, err)
	assert.Len(t, signers, 2)
	assert.Equal(t, priv.PublicKey().Condition(), signers[0])
	assert.Equal(t, priv2.PublicKey().Condition(), signers[1])

	// both sequences were bumped, so the same transaction cannot be replayed
	_, err = VerifyTxSignatures(kv, tx, chainID)
	assert.True(t, ErrInvalidSequence.Is(err))
}

func TestUserDataSequence(t *testing.T) {
	u := UserData{Pubkey: crypto.GenPrivKeyEd25519().PublicKey()}
	require.NoError(t, u.CheckAndIncrementSequence(0))
	assert.EqualValues(t, 1, u.Sequence)
	assert.True(t, ErrInvalidSequence.Is(u.CheckAndIncrementSequence(0)))

	u.Sequence = maxSequenceValue
	assert.True(t, errors.ErrOverflow.Is(u.CheckAndIncrementSequence(maxSequenceValue)))

	assert.NoError(t, u.Validate())
	bad := UserData{Sequence: 3}
	assert.Error(t, bad.Validate())
}
