package app

import (
	"reflect"

	"github.com/iov-one/drip"
)

// Decorators is an ordered stack of decorators waiting for the handler
// they wrap. The first decorator sees a transaction first.
type Decorators struct {
	chain []drip.Decorator
}

/*
ChainDecorators starts a stack. Nil decorators are skipped so optional ones
can be passed unconditionally:

	app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		sigs.NewDecorator(),
		utils.NewSavepoint().OnDeliver(),
	).WithHandler(router)
*/
func ChainDecorators(chain ...drip.Decorator) Decorators {
	return Decorators{}.Chain(chain...)
}

// Chain returns a new stack with more decorators appended. The receiver is
// not modified.
func (d Decorators) Chain(chain ...drip.Decorator) Decorators {
	next := make([]drip.Decorator, len(d.chain), len(d.chain)+len(chain))
	copy(next, d.chain)
	for _, dec := range chain {
		if !isNilDecorator(dec) {
			next = append(next, dec)
		}
	}
	return Decorators{chain: next}
}

func isNilDecorator(d drip.Decorator) bool {
	if d == nil {
		return true
	}
	v := reflect.ValueOf(d)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// WithHandler closes the stack with h.
func (d Decorators) WithHandler(h drip.Handler) drip.Handler {
	for i := len(d.chain) - 1; i >= 0; i-- {
		h = decorated{decorator: d.chain[i], next: h}
	}
	return h
}

// decorated runs one decorator around the rest of the stack.
type decorated struct {
	decorator drip.Decorator
	next      drip.Handler
}

var _ drip.Handler = decorated{}

func (s decorated) Check(ctx drip.Context, db drip.KVStore, tx drip.Tx) (*drip.CheckResult, error) {
	return s.decorator.Check(ctx, db, tx, s.next)
}

func (s decorated) Deliver(ctx drip.Context, db drip.KVStore, tx drip.Tx) (*drip.DeliverResult, error) {
	return s.decorator.Deliver(ctx, db, tx, s.next)
}
