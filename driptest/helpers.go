/*
Package driptest provides mocks and helpers shared by the drip tests.
*/
package driptest

import (
	"context"
	"encoding/binary"
	"sync/atomic"
	"time"

	"github.com/iov-one/drip"
	"github.com/iov-one/drip/crypto"
)

var condSeq uint64

// NewCondition returns a new, unique condition. Conditions are not backed
// by a key, use NewKey when a signature is required.
func NewCondition() drip.Condition {
	n := atomic.AddUint64(&condSeq, 1)
	return drip.NewCondition("test", "mock", SequenceID(n))
}

// NewKey returns a new random private key.
func NewKey() *crypto.PrivateKey {
	return crypto.GenPrivKeyEd25519()
}

// SequenceID returns the binary representation of a sequence value, as used
// by the ORM sequences to build keys.
func SequenceID(n uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, n)
	return b
}

// BlockCtx returns a context declaring given block height and time, with
// the chain id set to "test-chain".
func BlockCtx(height int64, now time.Time) drip.Context {
	ctx := drip.WithHeight(context.Background(), height)
	ctx = drip.WithChainID(ctx, "test-chain")
	return drip.WithBlockTime(ctx, now)
}
