/*
Package sigs authenticates transactions by their ed25519 signatures. Each
signer has a sequence stored under "/auth" that must be used exactly once,
which protects against replays.
*/
package sigs

import (
	"context"

	"github.com/iov-one/drip"
	"github.com/iov-one/drip/errors"
	"github.com/iov-one/drip/x"
)

// signatureVerifyCost is the gas charged for every verified signature.
const signatureVerifyCost = 500

// RegisterQuery exposes the signer accounts under "/auth".
func RegisterQuery(qr drip.QueryRouter) {
	NewBucket().Register("auth", qr)
}

// Decorator verifies all signatures of a transaction and makes the
// signers available to Authenticate. A transaction without a signature is
// rejected.
type Decorator struct{}

var _ drip.Decorator = Decorator{}

func NewDecorator() Decorator {
	return Decorator{}
}

func (d Decorator) Check(ctx drip.Context, db drip.KVStore, tx drip.Tx, next drip.Checker) (*drip.CheckResult, error) {
	ctx, n, err := d.authenticate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	res, err := next.Check(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	res.GasAllocated += int64(n * signatureVerifyCost)
	return res, nil
}

func (d Decorator) Deliver(ctx drip.Context, db drip.KVStore, tx drip.Tx, next drip.Deliverer) (*drip.DeliverResult, error) {
	ctx, _, err := d.authenticate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	return next.Deliver(ctx, db, tx)
}

// authenticate returns the context carrying the verified signers and
// their count. Transactions that cannot carry signatures pass unchanged.
func (Decorator) authenticate(ctx drip.Context, db drip.KVStore, tx drip.Tx) (drip.Context, int, error) {
	stx, ok := tx.(SignedTx)
	if !ok {
		return ctx, 0, nil
	}
	signers, err := VerifyTxSignatures(db, stx, drip.GetChainID(ctx))
	if err != nil {
		return nil, 0, errors.Wrap(err, "cannot verify signatures")
	}
	if len(signers) == 0 {
		return nil, 0, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return context.WithValue(ctx, signersKey{}, signers), len(signers), nil
}

type signersKey struct{}

// Authenticate reports the signers verified by the Decorator.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

func (Authenticate) GetConditions(ctx drip.Context) []drip.Condition {
	signers, _ := ctx.Value(signersKey{}).([]drip.Condition)
	return signers
}

func (a Authenticate) HasAddress(ctx drip.Context, addr drip.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}
