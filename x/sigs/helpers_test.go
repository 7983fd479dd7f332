package sigs

import (
	"github.com/iov-one/drip"
)

// StdTx implements SignedTx with raw bytes as the signed message.
type StdTx struct {
	Raw        []byte
	Signatures []*StdSignature
}

var _ SignedTx = (*StdTx)(nil)
var _ drip.Tx = (*StdTx)(nil)

func NewStdTx(payload []byte) *StdTx {
	return &StdTx{Raw: payload}
}

func (tx StdTx) GetMsg() (drip.Msg, error) {
	return nil, nil
}

func (tx StdTx) GetSignatures() []*StdSignature {
	return tx.Signatures
}

func (tx StdTx) GetSignBytes() ([]byte, error) {
	return tx.Raw, nil
}

func (tx StdTx) Marshal() ([]byte, error) {
	return tx.Raw, nil
}

func (tx *StdTx) Unmarshal(raw []byte) error {
	tx.Raw = raw
	return nil
}

// SigCheckHandler stores the seen signers on each call
type SigCheckHandler struct {
	Signers []drip.Condition
}

var _ drip.Handler = (*SigCheckHandler)(nil)

func (s *SigCheckHandler) Check(ctx drip.Context, store drip.KVStore, tx drip.Tx) (*drip.CheckResult, error) {
	s.Signers = Authenticate{}.GetConditions(ctx)
	return &drip.CheckResult{}, nil
}

func (s *SigCheckHandler) Deliver(ctx drip.Context, store drip.KVStore, tx drip.Tx) (*drip.DeliverResult, error) {
	s.Signers = Authenticate{}.GetConditions(ctx)
	return &drip.DeliverResult{}, nil
}
