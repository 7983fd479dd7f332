/*
Package codec is the single binary serialization point of drip.

All persisted models, messages and transactions are encoded with go-amino.
Interface values (such as the message carried by a transaction) must be
registered together with all their concrete implementations before they are
first encoded.
*/
package codec

import (
	"github.com/iov-one/drip/errors"
	amino "github.com/tendermint/go-amino"
)

var cdc = amino.NewCodec()

// RegisterInterface declares an interface whose values may be encoded.
// ptr must be a nil pointer to the interface, for example (*drip.Msg)(nil).
func RegisterInterface(ptr interface{}) {
	cdc.RegisterInterface(ptr, nil)
}

// RegisterConcrete declares a concrete type under a stable name.
// Names are part of the wire format and must never change.
func RegisterConcrete(o interface{}, name string) {
	cdc.RegisterConcrete(o, name, nil)
}

// Marshal returns the binary representation of given object. A zero value
// is encoded as an empty, non nil slice so that it can be stored.
func Marshal(o interface{}) ([]byte, error) {
	bz, err := cdc.MarshalBinaryBare(o)
	if err != nil {
		return nil, errors.Wrap(errors.ErrType, err.Error())
	}
	if bz == nil {
		bz = []byte{}
	}
	return bz, nil
}

// MustMarshal is like Marshal but panics on error. Use only with values you
// fully control.
func MustMarshal(o interface{}) []byte {
	bz, err := Marshal(o)
	if err != nil {
		panic(err)
	}
	return bz
}

// Unmarshal decodes given binary representation into ptr.
func Unmarshal(bz []byte, ptr interface{}) error {
	if err := cdc.UnmarshalBinaryBare(bz, ptr); err != nil {
		return errors.Wrap(errors.ErrType, err.Error())
	}
	return nil
}

// MarshalJSON returns the amino JSON representation. Unlike the standard
// library encoding, interface values are tagged with their registered name.
func MarshalJSON(o interface{}) ([]byte, error) {
	bz, err := cdc.MarshalJSONIndent(o, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrType, err.Error())
	}
	return bz, nil
}

// UnmarshalJSON is the reverse of MarshalJSON.
func UnmarshalJSON(bz []byte, ptr interface{}) error {
	if err := cdc.UnmarshalJSON(bz, ptr); err != nil {
		return errors.Wrap(errors.ErrType, err.Error())
	}
	return nil
}
