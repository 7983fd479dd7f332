package drip

import (
	"encoding/json"
)

// Handler processes the messages routed to it, such as creating or
// cancelling a stream.
type Handler interface {
	Checker
	Deliverer
}

// Checker validates a transaction against the mempool state and estimates
// its cost.
type Checker interface {
	Check(ctx Context, store KVStore, tx Tx) (*CheckResult, error)
}

// Deliverer executes a transaction against the block state.
type Deliverer interface {
	Deliver(ctx Context, store KVStore, tx Tx) (*DeliverResult, error)
}

// Decorator runs around every handler. It must call next to continue the
// stack, or return without calling it to abort.
type Decorator interface {
	Check(ctx Context, store KVStore, tx Tx, next Checker) (*CheckResult, error)
	Deliver(ctx Context, store KVStore, tx Tx, next Deliverer) (*DeliverResult, error)
}

// Registry binds handlers to message paths.
type Registry interface {
	Handle(path string, h Handler)
}

// Options is the genesis app_state, one raw JSON document per extension.
type Options map[string]json.RawMessage

// ReadOptions decodes the document under key into obj. A missing key is not
// an error and leaves obj untouched.
func (o Options) ReadOptions(key string, obj interface{}) error {
	raw, ok := o[key]
	if !ok || len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, obj)
}

// Initializer loads an extension's genesis state.
type Initializer interface {
	FromGenesis(Options, KVStore) error
}

// ChainInitializers runs inits in order and stops at the first error.
func ChainInitializers(inits ...Initializer) Initializer {
	return initializers(inits)
}

type initializers []Initializer

func (l initializers) FromGenesis(opts Options, db KVStore) error {
	for _, init := range l {
		if err := init.FromGenesis(opts, db); err != nil {
			return err
		}
	}
	return nil
}
