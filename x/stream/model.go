package stream

import (
	"github.com/iov-one/drip"
	"github.com/iov-one/drip/codec"
	"github.com/iov-one/drip/coin"
	"github.com/iov-one/drip/errors"
	"github.com/iov-one/drip/orm"
)

// MaxFeeRateBps is the highest accepted protocol fee: 1000 bps = 10%.
const MaxFeeRateBps = 1000

// Stream is the state of a single payment stream. All amounts are in base
// units of Token.
type Stream struct {
	Sender    drip.Address
	Recipient drip.Address
	Token     string
	// RatePerSecond is the amount that becomes claimable every second.
	RatePerSecond   int64
	DepositedAmount int64
	WithdrawnAmount int64
	StartTime       drip.UnixTime
	// LastUpdateTime is the moment accrual is counted from.
	LastUpdateTime drip.UnixTime
	// IsActive is false once the stream was drained or cancelled. An
	// inactive stream never becomes active again.
	IsActive bool
}

var _ orm.Model = (*Stream)(nil)

// Validate ensures the stream is in a consistent state.
func (s *Stream) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Sender", s.Sender.Validate())
	errs = errors.AppendField(errs, "Recipient", s.Recipient.Validate())
	if !coin.IsTicker(s.Token) {
		errs = errors.Append(errs, errors.Field("Token", errors.ErrCurrency, "invalid ticker %q", s.Token))
	}
	if s.RatePerSecond < 0 {
		errs = errors.Append(errs, errors.Field("RatePerSecond", errors.ErrAmount, "negative"))
	}
	if s.WithdrawnAmount < 0 {
		errs = errors.Append(errs, errors.Field("WithdrawnAmount", errors.ErrAmount, "negative"))
	}
	if s.WithdrawnAmount > s.DepositedAmount {
		errs = errors.Append(errs, errors.Field("WithdrawnAmount", errors.ErrAmount, "greater than deposited"))
	}
	errs = errors.AppendField(errs, "StartTime", s.StartTime.Validate())
	if s.LastUpdateTime < s.StartTime {
		errs = errors.Append(errs, errors.Field("LastUpdateTime", errors.ErrState, "before start time"))
	}
	return errs
}

// Copy returns an independent copy of the stream.
func (s *Stream) Copy() orm.Model {
	cpy := *s
	cpy.Sender = append(drip.Address(nil), s.Sender...)
	cpy.Recipient = append(drip.Address(nil), s.Recipient...)
	return &cpy
}

func (s *Stream) Marshal() ([]byte, error) {
	return codec.Marshal(s)
}

func (s *Stream) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, s)
}

// Remaining returns the part of the deposit that was not withdrawn yet.
func (s *Stream) Remaining() int64 {
	if r := s.DepositedAmount - s.WithdrawnAmount; r > 0 {
		return r
	}
	return 0
}

// ProtocolConfig is the protocol wide fee configuration.
type ProtocolConfig struct {
	// Admin is the only one allowed to change the configuration. It
	// never changes.
	Admin drip.Address `json:"admin"`
	// Treasury receives all collected fees.
	Treasury drip.Address `json:"treasury"`
	// FeeRateBps is the fee in basis points (1 bps = 0.01%).
	FeeRateBps uint32 `json:"fee_rate_bps"`
}

func (c *ProtocolConfig) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Admin", c.Admin.Validate())
	errs = errors.AppendField(errs, "Treasury", c.Treasury.Validate())
	if c.FeeRateBps > MaxFeeRateBps {
		errs = errors.Append(errs, errors.Field("FeeRateBps", ErrInvalidFeeRate, "%d exceeds %d", c.FeeRateBps, MaxFeeRateBps))
	}
	return errs
}

func (c *ProtocolConfig) Marshal() ([]byte, error) {
	return codec.Marshal(c)
}

func (c *ProtocolConfig) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, c)
}
