package drip

import (
	"reflect"

	"github.com/iov-one/drip/errors"
)

// Msg requests one state transition, such as creating a stream. It carries
// no authentication. Signatures live in the enclosing Tx.
type Msg interface {
	Persistent

	// Path routes the message to its handler. It matches [0-9A-Za-z_\-/]+.
	Path() string

	// Validate checks the message on its own, without reading state.
	Validate() error
}

type Marshaller interface {
	Marshal() ([]byte, error)
}

// Persistent is implemented by pointer types that round trip through the
// codec.
type Persistent interface {
	Marshaller
	Unmarshal([]byte) error
}

// Tx is what a client submits: one message plus whatever the decorators
// need to authenticate it.
type Tx interface {
	Persistent
	GetMsg() (Msg, error)
}

// TxDecoder parses raw transaction bytes received from tendermint.
type TxDecoder func(txBytes []byte) (Tx, error)

// GetPath is the message path of tx, or "(missing)".
func GetPath(tx Tx) string {
	if msg, err := tx.GetMsg(); err == nil && msg != nil {
		return msg.Path()
	}
	return "(missing)"
}

// LoadMsg copies the message of tx into dst, which points to the expected
// message type, and validates it.
func LoadMsg(tx Tx, dst interface{}) error {
	msg, err := tx.GetMsg()
	switch {
	case err != nil:
		return errors.Wrap(err, "tx message")
	case msg == nil:
		return errors.Wrap(errors.ErrState, "tx without message")
	}
	if err := assignMsg(msg, dst); err != nil {
		return err
	}
	return errors.Wrap(msg.Validate(), "invalid message")
}

// assignMsg accepts dst pointing at either the message pointer type or the
// message value type.
func assignMsg(msg Msg, dst interface{}) error {
	to := reflect.ValueOf(dst)
	if to.Kind() != reflect.Ptr || to.IsNil() {
		return errors.Wrap(errors.ErrHuman, "destination must be a non nil pointer")
	}
	target := to.Elem()
	from := reflect.ValueOf(msg)
	for {
		if from.Type().AssignableTo(target.Type()) {
			target.Set(from)
			return nil
		}
		if from.Kind() != reflect.Ptr || from.IsNil() {
			return errors.Wrapf(errors.ErrType, "want %T message, got %T", dst, msg)
		}
		from = from.Elem()
	}
}
