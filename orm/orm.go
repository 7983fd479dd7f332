/*
Package orm stores typed models in a KVStore. A Bucket owns a key prefix
and keeps its secondary indexes up to date on every write. A Sequence
hands out monotonic IDs.
*/
package orm

import (
	"reflect"

	"github.com/iov-one/drip"
	"github.com/iov-one/drip/errors"
	"github.com/iov-one/drip/x"
)

// orm reserves error codes 100 ~ 109.
var ErrInvalidIndex = errors.Register(100, "invalid index")

// Model is any value a bucket can persist.
type Model interface {
	x.Validater
	drip.Persistent
	Copy() Model
}

// Object is a model together with the key it is stored under. The key is
// relative to the bucket prefix.
type Object interface {
	x.Validater
	Key() []byte
	Value() Model
}

// SimpleObj is the Object implementation used by all buckets.
type SimpleObj struct {
	key   []byte
	value Model
}

var _ Object = (*SimpleObj)(nil)

func NewSimpleObj(key []byte, value Model) *SimpleObj {
	return &SimpleObj{key: key, value: value}
}

func (o SimpleObj) Key() []byte  { return o.key }
func (o SimpleObj) Value() Model { return o.value }

// Validate requires a key and a value and then validates the value.
func (o SimpleObj) Validate() error {
	if len(o.key) == 0 {
		return errors.Field("Key", errors.ErrEmpty, "missing key")
	}
	if o.value == nil {
		return errors.Field("Value", errors.ErrEmpty, "missing value")
	}
	return o.value.Validate()
}

// newModel returns a zero value of the same model type as proto, ready to
// be unmarshaled into.
func newModel(proto Model) Model {
	return reflect.New(reflect.TypeOf(proto).Elem()).Interface().(Model)
}
