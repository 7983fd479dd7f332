package orm

import (
	"github.com/iov-one/drip/codec"
	"github.com/iov-one/drip/errors"
)

// Owned is a minimal model used to exercise buckets and indexes.
type Owned struct {
	Owner []byte
	Tags  []string
	Count int64
}

var _ Model = (*Owned)(nil)

func (o *Owned) Validate() error {
	if len(o.Owner) == 0 {
		return errors.Field("Owner", errors.ErrEmpty, "required")
	}
	return nil
}

func (o *Owned) Copy() Model {
	cpy := *o
	return &cpy
}

func (o *Owned) Marshal() ([]byte, error) {
	return codec.Marshal(o)
}

func (o *Owned) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, o)
}

func ownerIndex(obj Object) ([]byte, error) {
	o, ok := obj.Value().(*Owned)
	if !ok {
		return nil, errors.WithType(errors.ErrModel, obj.Value())
	}
	return o.Owner, nil
}

func tagsIndex(obj Object) ([][]byte, error) {
	o, ok := obj.Value().(*Owned)
	if !ok {
		return nil, errors.WithType(errors.ErrModel, obj.Value())
	}
	keys := make([][]byte, len(o.Tags))
	for i, t := range o.Tags {
		keys[i] = []byte(t)
	}
	return keys, nil
}
