package stream

import (
	"encoding/binary"
	"strconv"

	"github.com/iov-one/drip"
	"github.com/iov-one/drip/errors"
	"github.com/iov-one/drip/x"
	"github.com/iov-one/drip/x/cash"
	"github.com/tendermint/tendermint/libs/common"
)

const (
	configCost   int64 = 50
	createCost   int64 = 300
	topUpCost    int64 = 200
	withdrawCost int64 = 200
	cancelCost   int64 = 200
)

// TagStreamID is the deliver tag carrying the decimal ID of the affected
// stream.
const TagStreamID = "stream_id"

// RegisterRoutes registers handlers for all stream messages.
func RegisterRoutes(r drip.Registry, auth x.Authenticator, mover cash.CoinMover, events Publisher) {
	ctrl := NewController(NewConfigStore(), mover, events)
	r.Handle(pathInitialize, configHandler{auth: auth, ctrl: ctrl})
	r.Handle(pathUpdateFeeConfig, configHandler{auth: auth, ctrl: ctrl})
	r.Handle(pathCreate, createHandler{auth: auth, ctrl: ctrl})
	r.Handle(pathTopUp, topUpHandler{auth: auth, ctrl: ctrl})
	r.Handle(pathWithdraw, withdrawHandler{auth: auth, ctrl: ctrl})
	r.Handle(pathCancel, cancelHandler{auth: auth, ctrl: ctrl})
}

// RegisterQuery exposes streams under "/streams", with "/streams/sender"
// and "/streams/recipient" index queries, and the protocol configuration
// under "/streamconf".
func RegisterQuery(qr drip.QueryRouter) {
	NewStreamBucket().Register("streams", qr)
	qr.Register("/streamconf", configQuery{})
}

// configHandler handles both the protocol initialization and the fee
// configuration update.
type configHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ drip.Handler = configHandler{}

func (h configHandler) Check(ctx drip.Context, db drip.KVStore, tx drip.Tx) (*drip.CheckResult, error) {
	if _, err := h.validate(tx); err != nil {
		return nil, err
	}
	return &drip.CheckResult{GasAllocated: configCost}, nil
}

func (h configHandler) Deliver(ctx drip.Context, db drip.KVStore, tx drip.Tx) (*drip.DeliverResult, error) {
	msg, err := h.validate(tx)
	if err != nil {
		return nil, err
	}
	switch msg := msg.(type) {
	case *InitializeMsg:
		err = h.ctrl.Initialize(ctx, db, h.auth, msg.Admin, msg.Treasury, msg.FeeRateBps)
	case *UpdateFeeConfigMsg:
		err = h.ctrl.UpdateFeeConfig(ctx, db, h.auth, msg.Admin, msg.Treasury, msg.FeeRateBps)
	}
	if err != nil {
		return nil, err
	}
	return &drip.DeliverResult{}, nil
}

func (h configHandler) validate(tx drip.Tx) (drip.Msg, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	switch msg.(type) {
	case *InitializeMsg, *UpdateFeeConfigMsg:
	default:
		return nil, errors.WithType(errors.ErrMsg, msg)
	}
	if err := msg.Validate(); err != nil {
		return nil, errors.Wrap(err, "validate msg")
	}
	return msg, nil
}

type createHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ drip.Handler = createHandler{}

func (h createHandler) Check(ctx drip.Context, db drip.KVStore, tx drip.Tx) (*drip.CheckResult, error) {
	var msg CreateStreamMsg
	if err := drip.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	return &drip.CheckResult{GasAllocated: createCost}, nil
}

// Deliver creates the stream and returns its ID as the result data.
func (h createHandler) Deliver(ctx drip.Context, db drip.KVStore, tx drip.Tx) (*drip.DeliverResult, error) {
	var msg CreateStreamMsg
	if err := drip.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	id, err := h.ctrl.CreateStream(ctx, db, h.auth, msg.Sender, msg.Recipient, msg.Token, msg.Amount, msg.DurationSeconds)
	if err != nil {
		return nil, err
	}
	return &drip.DeliverResult{
		Data: encodeUint64(id),
		Tags: streamTags(id),
	}, nil
}

type topUpHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ drip.Handler = topUpHandler{}

func (h topUpHandler) Check(ctx drip.Context, db drip.KVStore, tx drip.Tx) (*drip.CheckResult, error) {
	var msg TopUpStreamMsg
	if err := drip.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	return &drip.CheckResult{GasAllocated: topUpCost}, nil
}

func (h topUpHandler) Deliver(ctx drip.Context, db drip.KVStore, tx drip.Tx) (*drip.DeliverResult, error) {
	var msg TopUpStreamMsg
	if err := drip.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := h.ctrl.TopUpStream(ctx, db, h.auth, msg.Sender, msg.StreamID, msg.Amount); err != nil {
		return nil, err
	}
	return &drip.DeliverResult{Tags: streamTags(msg.StreamID)}, nil
}

type withdrawHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ drip.Handler = withdrawHandler{}

func (h withdrawHandler) Check(ctx drip.Context, db drip.KVStore, tx drip.Tx) (*drip.CheckResult, error) {
	var msg WithdrawMsg
	if err := drip.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	return &drip.CheckResult{GasAllocated: withdrawCost}, nil
}

// Deliver pays out the accrued tokens and returns the withdrawn amount as
// the result data.
func (h withdrawHandler) Deliver(ctx drip.Context, db drip.KVStore, tx drip.Tx) (*drip.DeliverResult, error) {
	var msg WithdrawMsg
	if err := drip.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	amount, err := h.ctrl.Withdraw(ctx, db, h.auth, msg.Recipient, msg.StreamID)
	if err != nil {
		return nil, err
	}
	return &drip.DeliverResult{
		Data: encodeUint64(uint64(amount)),
		Tags: streamTags(msg.StreamID),
	}, nil
}

type cancelHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ drip.Handler = cancelHandler{}

func (h cancelHandler) Check(ctx drip.Context, db drip.KVStore, tx drip.Tx) (*drip.CheckResult, error) {
	var msg CancelStreamMsg
	if err := drip.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	return &drip.CheckResult{GasAllocated: cancelCost}, nil
}

func (h cancelHandler) Deliver(ctx drip.Context, db drip.KVStore, tx drip.Tx) (*drip.DeliverResult, error) {
	var msg CancelStreamMsg
	if err := drip.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := h.ctrl.CancelStream(ctx, db, h.auth, msg.Sender, msg.StreamID); err != nil {
		return nil, err
	}
	return &drip.DeliverResult{Tags: streamTags(msg.StreamID)}, nil
}

// configQuery returns the protocol configuration. It ignores the query
// data.
type configQuery struct{}

func (configQuery) Query(db drip.ReadOnlyKVStore, mod string, data []byte) ([]drip.Model, error) {
	key := ConfigKey().Bytes()
	value, err := db.Get(key)
	if err != nil {
		return nil, err
	}
	if value == nil {
		return nil, nil
	}
	return []drip.Model{drip.Pair(key, value)}, nil
}

func streamTags(id uint64) []common.KVPair {
	return []common.KVPair{
		{Key: []byte(TagStreamID), Value: []byte(strconv.FormatUint(id, 10))},
	}
}

func encodeUint64(n uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, n)
	return b
}
