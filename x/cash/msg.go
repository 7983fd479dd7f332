package cash

import (
	"github.com/iov-one/drip"
	"github.com/iov-one/drip/codec"
	"github.com/iov-one/drip/coin"
	"github.com/iov-one/drip/errors"
)

func init() {
	codec.RegisterConcrete(&SendMsg{}, "cash/SendMsg")
}

const (
	sendTxCost int64 = 100

	maxMemoSize int = 128
)

// SendMsg moves tokens from the source to the destination wallet.
type SendMsg struct {
	Source      drip.Address
	Destination drip.Address
	Amount      *coin.Coin
	Memo        string
}

// Ensure we implement the Msg interface
var _ drip.Msg = (*SendMsg)(nil)

// Path returns the routing path for this message
func (SendMsg) Path() string {
	return "cash/send"
}

func (m *SendMsg) Marshal() ([]byte, error) {
	return codec.Marshal(m)
}

func (m *SendMsg) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, m)
}

// Validate makes sure that this is sensible
func (m *SendMsg) Validate() error {
	var errs error
	if m.Amount == nil || !m.Amount.IsPositive() {
		errs = errors.AppendField(errs, "Amount", errors.ErrAmount)
	} else {
		errs = errors.AppendField(errs, "Amount", m.Amount.Validate())
	}
	errs = errors.AppendField(errs, "Source", m.Source.Validate())
	errs = errors.AppendField(errs, "Destination", m.Destination.Validate())
	if len(m.Memo) > maxMemoSize {
		errs = errors.Append(errs, errors.Field("Memo", errors.ErrInput, "memo too long"))
	}
	return errs
}
