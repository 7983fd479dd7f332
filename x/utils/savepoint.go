package utils

import (
	"github.com/iov-one/drip"
	"github.com/iov-one/drip/errors"
)

// Savepoint runs the rest of the stack on a cache wrap of the store. The
// cache is written back only when the call succeeds. Each phase has to be
// enabled explicitly with OnCheck or OnDeliver.
type Savepoint struct {
	onCheck   bool
	onDeliver bool
}

var _ drip.Decorator = Savepoint{}

func NewSavepoint() Savepoint {
	return Savepoint{}
}

func (s Savepoint) OnCheck() Savepoint {
	s.onCheck = true
	return s
}

func (s Savepoint) OnDeliver() Savepoint {
	s.onDeliver = true
	return s
}

func (s Savepoint) Check(ctx drip.Context, store drip.KVStore, tx drip.Tx, next drip.Checker) (*drip.CheckResult, error) {
	var res *drip.CheckResult
	err := s.isolate(s.onCheck, store, func(db drip.KVStore) (err error) {
		res, err = next.Check(ctx, db, tx)
		return err
	})
	return res, err
}

func (s Savepoint) Deliver(ctx drip.Context, store drip.KVStore, tx drip.Tx, next drip.Deliverer) (*drip.DeliverResult, error) {
	var res *drip.DeliverResult
	err := s.isolate(s.onDeliver, store, func(db drip.KVStore) (err error) {
		res, err = next.Deliver(ctx, db, tx)
		return err
	})
	return res, err
}

// isolate calls fn directly if disabled or if the store cannot be wrapped.
func (Savepoint) isolate(enabled bool, store drip.KVStore, fn func(drip.KVStore) error) error {
	cstore, ok := store.(drip.CacheableKVStore)
	if !enabled || !ok {
		return fn(store)
	}
	cache := cstore.CacheWrap()
	if err := fn(cache); err != nil {
		cache.Discard()
		return err
	}
	return errors.Wrap(cache.Write(), "savepoint write")
}
