package cash

import (
	"github.com/iov-one/drip"
	"github.com/iov-one/drip/errors"
	"github.com/iov-one/drip/x"
	"github.com/tendermint/tendermint/libs/common"
)

// RegisterRoutes registers the send handler.
func RegisterRoutes(r drip.Registry, auth x.Authenticator, control Controller) {
	r.Handle(SendMsg{}.Path(), NewSendHandler(auth, control))
}

// RegisterQuery exposes wallets under "/wallets".
func RegisterQuery(qr drip.QueryRouter) {
	NewBucket().Register("wallets", qr)
}

// SendHandler transfers coins between two wallets. The source must have
// signed the transaction.
type SendHandler struct {
	auth  x.Authenticator
	mover CoinMover
}

var _ drip.Handler = SendHandler{}

func NewSendHandler(auth x.Authenticator, mover CoinMover) SendHandler {
	return SendHandler{auth: auth, mover: mover}
}

func (h SendHandler) Check(ctx drip.Context, db drip.KVStore, tx drip.Tx) (*drip.CheckResult, error) {
	if _, err := h.authorized(ctx, tx); err != nil {
		return nil, err
	}
	return &drip.CheckResult{GasAllocated: sendTxCost}, nil
}

func (h SendHandler) Deliver(ctx drip.Context, db drip.KVStore, tx drip.Tx) (*drip.DeliverResult, error) {
	msg, err := h.authorized(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := h.mover.MoveCoins(db, msg.Source, msg.Destination, *msg.Amount); err != nil {
		return nil, err
	}
	tags := []common.KVPair{
		{Key: []byte("sender"), Value: []byte(msg.Source.String())},
		{Key: []byte("recipient"), Value: []byte(msg.Destination.String())},
	}
	return &drip.DeliverResult{Tags: tags}, nil
}

// authorized loads and validates the message and requires the source
// signature.
func (h SendHandler) authorized(ctx drip.Context, tx drip.Tx) (*SendMsg, error) {
	var msg SendMsg
	if err := drip.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Source) {
		return nil, errors.Wrapf(errors.ErrUnauthorized, "source %s did not sign", msg.Source)
	}
	return &msg, nil
}
