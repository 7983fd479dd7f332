package app

import (
	"github.com/iov-one/drip"
	"github.com/iov-one/drip/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// BaseApp is a complete ABCI application. It decodes transactions and
// passes them to the handler. Everything else is provided by StoreApp.
type BaseApp struct {
	*StoreApp
	decoder drip.TxDecoder
	handler drip.Handler
	// debug exposes full error messages and stack traces in responses.
	debug bool
}

var _ abci.Application = BaseApp{}

func NewBaseApp(store *StoreApp, decoder drip.TxDecoder, handler drip.Handler, debug bool) BaseApp {
	return BaseApp{
		StoreApp: store,
		decoder:  decoder,
		handler:  handler,
		debug:    debug,
	}
}

// CheckTx validates a mempool transaction against the check state.
func (b BaseApp) CheckTx(raw []byte) abci.ResponseCheckTx {
	tx, err := b.decode(raw)
	if err != nil {
		return drip.CheckTxError(err, b.debug)
	}
	res, err := b.handler.Check(b.txContext("check_tx", tx), b.CheckStore(), tx)
	return drip.CheckOrError(res, err, b.debug)
}

// DeliverTx executes a block transaction against the deliver state.
func (b BaseApp) DeliverTx(raw []byte) abci.ResponseDeliverTx {
	tx, err := b.decode(raw)
	if err != nil {
		return drip.DeliverTxError(err, b.debug)
	}
	res, err := b.handler.Deliver(b.txContext("deliver_tx", tx), b.DeliverStore(), tx)
	return drip.DeliverOrError(res, err, b.debug)
}

func (b BaseApp) txContext(call string, tx drip.Tx) drip.Context {
	return drip.WithLogInfo(b.BlockContext(), "call", call, "path", drip.GetPath(tx))
}

// decode never panics. Malformed input is reported as ErrPanic.
func (b BaseApp) decode(raw []byte) (tx drip.Tx, err error) {
	defer errors.Recover(&err)
	return b.decoder(raw)
}
