package driptest

import "github.com/iov-one/drip"

// Tx carries a single message. When Err is set GetMsg fails with it,
// simulating a transaction that cannot be decoded.
type Tx struct {
	Msg drip.Msg
	Err error
}

var _ drip.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (drip.Msg, error) {
	return tx.Msg, tx.Err
}

// Marshal and Unmarshal are never called by handlers, test transactions
// do not travel over the wire.
func (tx *Tx) Marshal() ([]byte, error) { panic("test tx cannot be marshaled") }
func (tx *Tx) Unmarshal([]byte) error   { panic("test tx cannot be unmarshaled") }

// Msg is routed by RoutePath. Err is returned by Validate so a router or
// decorator can be tested with an invalid message.
type Msg struct {
	RoutePath string
	Err       error
}

var _ drip.Msg = (*Msg)(nil)

func (m *Msg) Path() string             { return m.RoutePath }
func (m *Msg) Validate() error          { return m.Err }
func (m *Msg) Marshal() ([]byte, error) { return []byte(m.RoutePath), m.Err }
func (m *Msg) Unmarshal(raw []byte) error {
	m.RoutePath = string(raw)
	return m.Err
}
