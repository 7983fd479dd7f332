package utils

import (
	"github.com/iov-one/drip"
	"github.com/iov-one/drip/errors"
)

// Recovery turns a panic in any later decorator or handler into ErrPanic,
// so a single broken transaction cannot halt the node. The panic is logged
// together with the transaction phase.
type Recovery struct{}

var _ drip.Decorator = Recovery{}

func NewRecovery() Recovery {
	return Recovery{}
}

func (Recovery) Check(ctx drip.Context, db drip.KVStore, tx drip.Tx, next drip.Checker) (res *drip.CheckResult, err error) {
	defer logPanic(ctx, "check", &err)
	defer errors.Recover(&err)
	return next.Check(ctx, db, tx)
}

func (Recovery) Deliver(ctx drip.Context, db drip.KVStore, tx drip.Tx, next drip.Deliverer) (res *drip.DeliverResult, err error) {
	defer logPanic(ctx, "deliver", &err)
	defer errors.Recover(&err)
	return next.Deliver(ctx, db, tx)
}

func logPanic(ctx drip.Context, phase string, err *error) {
	if errors.ErrPanic.Is(*err) {
		drip.GetLogger(ctx).Error("recovered from panic", "phase", phase, "err", *err)
	}
}
