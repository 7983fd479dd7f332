package stream

import (
	"github.com/iov-one/drip"
	"github.com/iov-one/drip/coin"
	"github.com/iov-one/drip/errors"
	"github.com/iov-one/drip/x"
	"github.com/iov-one/drip/x/cash"
)

// custodyCondition owns all tokens deposited into streams.
var custodyCondition = drip.NewCondition("stream", "custody", []byte("escrow"))

// CustodyAddress returns the address of the account holding all stream
// deposits.
func CustodyAddress() drip.Address {
	return custodyCondition.Address()
}

// Controller implements all stream operations. Every operation either
// fully succeeds or returns an error, in which case the caller must discard
// all writes done to the store.
type Controller struct {
	streams StreamBucket
	config  ConfigStore
	mover   cash.CoinMover
	events  Publisher
}

// NewController returns a controller using given configuration store,
// moving tokens with given mover and publishing events to given publisher.
func NewController(config ConfigStore, mover cash.CoinMover, events Publisher) Controller {
	return Controller{
		streams: NewStreamBucket(),
		config:  config,
		mover:   mover,
		events:  events,
	}
}

// Initialize creates the protocol configuration. It can succeed only once.
func (c Controller) Initialize(ctx drip.Context, db drip.KVStore, auth x.Authenticator, admin, treasury drip.Address, feeRateBps uint32) error {
	if !auth.HasAddress(ctx, admin) {
		return errors.Wrap(ErrUnauthorized, "admin signature required")
	}
	switch exists, err := c.config.Exists(db); {
	case err != nil:
		return err
	case exists:
		return ErrAlreadyInitialized
	}
	if feeRateBps > MaxFeeRateBps {
		return errors.Wrapf(ErrInvalidFeeRate, "%d bps", feeRateBps)
	}
	conf := ProtocolConfig{Admin: admin, Treasury: treasury, FeeRateBps: feeRateBps}
	if err := c.config.Put(db, &conf); err != nil {
		return errors.Wrap(err, "save protocol config")
	}
	drip.GetLogger(ctx).Debug("protocol initialized", "fee_rate_bps", feeRateBps)
	return nil
}

// UpdateFeeConfig changes the treasury and the fee rate. The admin never
// changes.
func (c Controller) UpdateFeeConfig(ctx drip.Context, db drip.KVStore, auth x.Authenticator, admin, treasury drip.Address, feeRateBps uint32) error {
	if !auth.HasAddress(ctx, admin) {
		return errors.Wrap(ErrUnauthorized, "admin signature required")
	}
	conf, err := c.config.Get(db)
	if err != nil {
		return err
	}
	if conf == nil {
		return ErrNotInitialized
	}
	if !conf.Admin.Equals(admin) {
		return ErrNotAdmin
	}
	if feeRateBps > MaxFeeRateBps {
		return errors.Wrapf(ErrInvalidFeeRate, "%d bps", feeRateBps)
	}
	conf.Treasury = treasury
	conf.FeeRateBps = feeRateBps
	if err := c.config.Put(db, conf); err != nil {
		return errors.Wrap(err, "save protocol config")
	}
	drip.GetLogger(ctx).Debug("protocol fee updated", "fee_rate_bps", feeRateBps)
	return nil
}

// FeeConfig returns the protocol configuration or nil if the protocol was
// not initialized.
func (c Controller) FeeConfig(db drip.ReadOnlyKVStore) (*ProtocolConfig, error) {
	return c.config.Get(db)
}

// Stream returns the stream with given ID or nil if it does not exist.
func (c Controller) Stream(db drip.ReadOnlyKVStore, id uint64) (*Stream, error) {
	return c.streams.GetStream(db, id)
}

// CreateStream moves amount from the sender to custody, takes the
// protocol fee and starts streaming the rest to the recipient over
// duration seconds. It returns the ID of the new stream.
func (c Controller) CreateStream(ctx drip.Context, db drip.KVStore, auth x.Authenticator, sender, recipient drip.Address, token string, amount int64, duration uint64) (uint64, error) {
	if !auth.HasAddress(ctx, sender) {
		return 0, errors.Wrap(ErrUnauthorized, "sender signature required")
	}
	if amount <= 0 {
		return 0, errors.Wrapf(ErrInvalidAmount, "amount %d", amount)
	}
	if duration == 0 {
		return 0, ErrInvalidDuration
	}
	now, err := drip.BlockUnixTime(ctx)
	if err != nil {
		return 0, err
	}

	id, err := c.streams.NextID(db)
	if err != nil {
		return 0, errors.Wrap(err, "stream id")
	}
	if err := c.mover.MoveCoins(db, sender, CustodyAddress(), coin.NewCoin(amount, token)); err != nil {
		return 0, errors.Wrap(err, "deposit")
	}
	net, err := c.collectFee(ctx, db, id, token, amount)
	if err != nil {
		return 0, err
	}

	s := Stream{
		Sender:          sender,
		Recipient:       recipient,
		Token:           token,
		RatePerSecond:   RatePerSecond(net, duration),
		DepositedAmount: net,
		StartTime:       now,
		LastUpdateTime:  now,
		IsActive:        true,
	}
	if err := c.streams.SaveStream(db, id, &s); err != nil {
		return 0, errors.Wrap(err, "save stream")
	}
	err = c.events.Publish(ctx, db, NewEvent(id, &StreamCreated{
		Sender:          sender,
		Recipient:       recipient,
		Token:           token,
		RatePerSecond:   s.RatePerSecond,
		DepositedAmount: net,
		StartTime:       now,
	}))
	if err != nil {
		return 0, err
	}
	drip.GetLogger(ctx).Debug("stream created", "stream_id", id, "rate", s.RatePerSecond, "deposited", net)
	return id, nil
}

// TopUpStream adds amount, less the protocol fee, to the deposit of an
// active stream. Accrual restarts from now, without settling the accrued
// amount.
func (c Controller) TopUpStream(ctx drip.Context, db drip.KVStore, auth x.Authenticator, sender drip.Address, id uint64, amount int64) error {
	if !auth.HasAddress(ctx, sender) {
		return errors.Wrap(ErrUnauthorized, "sender signature required")
	}
	if amount <= 0 {
		return errors.Wrapf(ErrInvalidAmount, "amount %d", amount)
	}
	s, err := c.loadActive(db, id, sender, func(s *Stream) drip.Address { return s.Sender })
	if err != nil {
		return err
	}
	now, err := drip.BlockUnixTime(ctx)
	if err != nil {
		return err
	}

	if err := c.mover.MoveCoins(db, sender, CustodyAddress(), coin.NewCoin(amount, s.Token)); err != nil {
		return errors.Wrap(err, "deposit")
	}
	net, err := c.collectFee(ctx, db, id, s.Token, amount)
	if err != nil {
		return err
	}
	deposited, err := coin.NewCoin(s.DepositedAmount, s.Token).Add(coin.NewCoin(net, s.Token))
	if err != nil {
		return errors.Wrap(err, "deposited amount")
	}
	s.DepositedAmount = deposited.Amount
	s.LastUpdateTime = now
	if err := c.streams.SaveStream(db, id, s); err != nil {
		return errors.Wrap(err, "save stream")
	}
	err = c.events.Publish(ctx, db, NewEvent(id, &StreamToppedUp{
		Sender:             sender,
		Amount:             net,
		NewDepositedAmount: s.DepositedAmount,
	}))
	if err != nil {
		return err
	}
	drip.GetLogger(ctx).Debug("stream topped up", "stream_id", id, "amount", net)
	return nil
}

// Withdraw moves everything claimable at block time to the recipient and
// returns the withdrawn amount. A stream is deactivated once drained.
func (c Controller) Withdraw(ctx drip.Context, db drip.KVStore, auth x.Authenticator, recipient drip.Address, id uint64) (int64, error) {
	if !auth.HasAddress(ctx, recipient) {
		return 0, errors.Wrap(ErrUnauthorized, "recipient signature required")
	}
	s, err := c.loadActive(db, id, recipient, func(s *Stream) drip.Address { return s.Recipient })
	if err != nil {
		return 0, err
	}
	now, err := drip.BlockUnixTime(ctx)
	if err != nil {
		return 0, err
	}

	claimable := Claimable(s, now)
	if claimable <= 0 {
		return 0, errors.Wrap(ErrInvalidAmount, "nothing to claim")
	}
	if err := c.mover.MoveCoins(db, CustodyAddress(), recipient, coin.NewCoin(claimable, s.Token)); err != nil {
		return 0, errors.Wrap(err, "payout")
	}
	s.WithdrawnAmount += claimable
	if now > s.LastUpdateTime {
		s.LastUpdateTime = now
	}
	if s.WithdrawnAmount >= s.DepositedAmount {
		s.IsActive = false
	}
	if err := c.streams.SaveStream(db, id, s); err != nil {
		return 0, errors.Wrap(err, "save stream")
	}
	err = c.events.Publish(ctx, db, NewEvent(id, &TokensWithdrawn{
		Recipient: recipient,
		Amount:    claimable,
		Timestamp: s.LastUpdateTime,
	}))
	if err != nil {
		return 0, err
	}
	drip.GetLogger(ctx).Debug("tokens withdrawn", "stream_id", id, "amount", claimable, "active", s.IsActive)
	return claimable, nil
}

// CancelStream deactivates the stream and refunds everything that was not
// withdrawn yet to the sender.
func (c Controller) CancelStream(ctx drip.Context, db drip.KVStore, auth x.Authenticator, sender drip.Address, id uint64) error {
	if !auth.HasAddress(ctx, sender) {
		return errors.Wrap(ErrUnauthorized, "sender signature required")
	}
	s, err := c.loadActive(db, id, sender, func(s *Stream) drip.Address { return s.Sender })
	if err != nil {
		return err
	}
	now, err := drip.BlockUnixTime(ctx)
	if err != nil {
		return err
	}

	refund := s.DepositedAmount - s.WithdrawnAmount
	if refund > 0 {
		if err := c.mover.MoveCoins(db, CustodyAddress(), sender, coin.NewCoin(refund, s.Token)); err != nil {
			return errors.Wrap(err, "refund")
		}
	}
	s.IsActive = false
	if now > s.LastUpdateTime {
		s.LastUpdateTime = now
	}
	if err := c.streams.SaveStream(db, id, s); err != nil {
		return errors.Wrap(err, "save stream")
	}
	err = c.events.Publish(ctx, db, NewEvent(id, &StreamCancelled{
		Sender:          sender,
		Recipient:       s.Recipient,
		AmountWithdrawn: s.WithdrawnAmount,
		RefundedAmount:  refund,
	}))
	if err != nil {
		return err
	}
	drip.GetLogger(ctx).Debug("stream cancelled", "stream_id", id, "refund", refund)
	return nil
}

// loadActive returns the stream if it exists, belongs to the caller and
// is active. owner selects the participant that must match the caller.
func (c Controller) loadActive(db drip.ReadOnlyKVStore, id uint64, caller drip.Address, owner func(*Stream) drip.Address) (*Stream, error) {
	s, err := c.streams.GetStream(db, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, errors.Wrapf(ErrStreamNotFound, "stream %d", id)
	}
	if !owner(s).Equals(caller) {
		return nil, errors.Wrapf(ErrUnauthorized, "stream %d", id)
	}
	if !s.IsActive {
		return nil, errors.Wrapf(ErrStreamInactive, "stream %d", id)
	}
	return s, nil
}

// collectFee moves the protocol fee from custody to the treasury and
// returns what is left of amount. Nothing is taken when the protocol is
// not initialized or the fee rate is zero.
func (c Controller) collectFee(ctx drip.Context, db drip.KVStore, id uint64, token string, amount int64) (int64, error) {
	conf, err := c.config.Get(db)
	if err != nil {
		return 0, err
	}
	if conf == nil || conf.FeeRateBps == 0 {
		return amount, nil
	}
	fee := FeeAmount(amount, conf.FeeRateBps)
	if fee > 0 {
		if err := c.mover.MoveCoins(db, CustodyAddress(), conf.Treasury, coin.NewCoin(fee, token)); err != nil {
			return 0, errors.Wrap(err, "fee")
		}
		err := c.events.Publish(ctx, db, NewEvent(id, &FeeCollected{
			Treasury:  conf.Treasury,
			FeeAmount: fee,
			Token:     token,
		}))
		if err != nil {
			return 0, err
		}
	}
	return amount - fee, nil
}
