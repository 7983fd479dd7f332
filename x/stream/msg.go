package stream

import (
	"github.com/iov-one/drip"
	"github.com/iov-one/drip/codec"
	"github.com/iov-one/drip/coin"
	"github.com/iov-one/drip/errors"
)

func init() {
	codec.RegisterConcrete(&InitializeMsg{}, "stream/InitializeMsg")
	codec.RegisterConcrete(&UpdateFeeConfigMsg{}, "stream/UpdateFeeConfigMsg")
	codec.RegisterConcrete(&CreateStreamMsg{}, "stream/CreateStreamMsg")
	codec.RegisterConcrete(&TopUpStreamMsg{}, "stream/TopUpStreamMsg")
	codec.RegisterConcrete(&WithdrawMsg{}, "stream/WithdrawMsg")
	codec.RegisterConcrete(&CancelStreamMsg{}, "stream/CancelStreamMsg")
}

const (
	pathInitialize      = "stream/initialize"
	pathUpdateFeeConfig = "stream/update_fee_config"
	pathCreate          = "stream/create"
	pathTopUp           = "stream/top_up"
	pathWithdraw        = "stream/withdraw"
	pathCancel          = "stream/cancel"
)

var (
	_ drip.Msg = (*InitializeMsg)(nil)
	_ drip.Msg = (*UpdateFeeConfigMsg)(nil)
	_ drip.Msg = (*CreateStreamMsg)(nil)
	_ drip.Msg = (*TopUpStreamMsg)(nil)
	_ drip.Msg = (*WithdrawMsg)(nil)
	_ drip.Msg = (*CancelStreamMsg)(nil)
)

// InitializeMsg creates the protocol configuration. It must be signed by
// the admin.
type InitializeMsg struct {
	Admin      drip.Address
	Treasury   drip.Address
	FeeRateBps uint32
}

func (InitializeMsg) Path() string { return pathInitialize }

func (m *InitializeMsg) Marshal() ([]byte, error) { return codec.Marshal(m) }

func (m *InitializeMsg) Unmarshal(raw []byte) error { return codec.Unmarshal(raw, m) }

func (m *InitializeMsg) Validate() error {
	return validateFeeConfig(m.Admin, m.Treasury)
}

// UpdateFeeConfigMsg replaces the treasury and the fee rate. It must be
// signed by the admin.
type UpdateFeeConfigMsg struct {
	Admin      drip.Address
	Treasury   drip.Address
	FeeRateBps uint32
}

func (UpdateFeeConfigMsg) Path() string { return pathUpdateFeeConfig }

func (m *UpdateFeeConfigMsg) Marshal() ([]byte, error) { return codec.Marshal(m) }

func (m *UpdateFeeConfigMsg) Unmarshal(raw []byte) error { return codec.Unmarshal(raw, m) }

func (m *UpdateFeeConfigMsg) Validate() error {
	return validateFeeConfig(m.Admin, m.Treasury)
}

// Message validation covers the shape of a message only. Amounts,
// durations and fee rates are checked by the Controller once the signature
// and the protocol state are known.
func validateFeeConfig(admin, treasury drip.Address) error {
	var errs error
	errs = errors.AppendField(errs, "Admin", admin.Validate())
	return errors.AppendField(errs, "Treasury", treasury.Validate())
}

// CreateStreamMsg deposits Amount of Token and streams it, less the
// protocol fee, to the recipient over DurationSeconds.
type CreateStreamMsg struct {
	Sender          drip.Address
	Recipient       drip.Address
	Token           string
	Amount          int64
	DurationSeconds uint64
}

func (CreateStreamMsg) Path() string { return pathCreate }

func (m *CreateStreamMsg) Marshal() ([]byte, error) { return codec.Marshal(m) }

func (m *CreateStreamMsg) Unmarshal(raw []byte) error { return codec.Unmarshal(raw, m) }

func (m *CreateStreamMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Sender", m.Sender.Validate())
	errs = errors.AppendField(errs, "Recipient", m.Recipient.Validate())
	if !coin.IsTicker(m.Token) {
		errs = errors.Append(errs, errors.Field("Token", errors.ErrCurrency, "invalid ticker %q", m.Token))
	}
	return errs
}

// TopUpStreamMsg adds Amount, less the protocol fee, to the deposit of a
// stream.
type TopUpStreamMsg struct {
	Sender   drip.Address
	StreamID uint64
	Amount   int64
}

func (TopUpStreamMsg) Path() string { return pathTopUp }

func (m *TopUpStreamMsg) Marshal() ([]byte, error) { return codec.Marshal(m) }

func (m *TopUpStreamMsg) Unmarshal(raw []byte) error { return codec.Unmarshal(raw, m) }

func (m *TopUpStreamMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Sender", m.Sender.Validate())
	if m.StreamID == 0 {
		errs = errors.Append(errs, errors.Field("StreamID", errors.ErrEmpty, "required"))
	}
	return errs
}

// WithdrawMsg pays everything accrued so far to the recipient.
type WithdrawMsg struct {
	Recipient drip.Address
	StreamID  uint64
}

func (WithdrawMsg) Path() string { return pathWithdraw }

func (m *WithdrawMsg) Marshal() ([]byte, error) { return codec.Marshal(m) }

func (m *WithdrawMsg) Unmarshal(raw []byte) error { return codec.Unmarshal(raw, m) }

func (m *WithdrawMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Recipient", m.Recipient.Validate())
	if m.StreamID == 0 {
		errs = errors.Append(errs, errors.Field("StreamID", errors.ErrEmpty, "required"))
	}
	return errs
}

// CancelStreamMsg stops a stream and refunds the sender.
type CancelStreamMsg struct {
	Sender   drip.Address
	StreamID uint64
}

func (CancelStreamMsg) Path() string { return pathCancel }

func (m *CancelStreamMsg) Marshal() ([]byte, error) { return codec.Marshal(m) }

func (m *CancelStreamMsg) Unmarshal(raw []byte) error { return codec.Unmarshal(raw, m) }

func (m *CancelStreamMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Sender", m.Sender.Validate())
	if m.StreamID == 0 {
		errs = errors.Append(errs, errors.Field("StreamID", errors.ErrEmpty, "required"))
	}
	return errs
}
