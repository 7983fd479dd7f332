package stream

import (
	"github.com/iov-one/drip"
	"github.com/iov-one/drip/errors"
	"github.com/iov-one/drip/orm"
)

// StreamBucket keeps stream records together with the ID counter and
// indexes by sender and recipient.
type StreamBucket struct {
	orm.Bucket
	ids orm.Sequence
}

// NewStreamBucket returns a bucket for managing streams.
func NewStreamBucket() StreamBucket {
	b := orm.NewBucket(BucketName, &Stream{}).
		WithIndex("sender", senderIndex, false).
		WithIndex("recipient", recipientIndex, false)
	return StreamBucket{
		Bucket: b,
		ids:    b.Sequence(counterName),
	}
}

// NextID returns the ID for a new stream. The first ID is 1 and no ID is
// ever returned twice.
func (b StreamBucket) NextID(db drip.KVStore) (uint64, error) {
	return b.ids.NextInt(db)
}

// LastID returns the most recently issued ID, or zero.
func (b StreamBucket) LastID(db drip.ReadOnlyKVStore) (uint64, error) {
	return b.ids.Latest(db)
}

// GetStream returns the stream with given ID or nil if it does not exist.
func (b StreamBucket) GetStream(db drip.ReadOnlyKVStore, id uint64) (*Stream, error) {
	obj, err := b.Get(db, orm.EncodeSequence(id))
	if err != nil {
		return nil, errors.Wrapf(err, "stream %d", id)
	}
	return asStream(obj)
}

// SaveStream writes the stream under given ID.
func (b StreamBucket) SaveStream(db drip.KVStore, id uint64, s *Stream) error {
	return b.Save(db, orm.NewSimpleObj(orm.EncodeSequence(id), s))
}

// BySender returns all streams funded by given address, by ascending ID.
func (b StreamBucket) BySender(db drip.ReadOnlyKVStore, sender drip.Address) ([]*Stream, error) {
	return b.byIndex(db, "sender", sender)
}

// ByRecipient returns all streams paying given address, by ascending ID.
func (b StreamBucket) ByRecipient(db drip.ReadOnlyKVStore, recipient drip.Address) ([]*Stream, error) {
	return b.byIndex(db, "recipient", recipient)
}

func (b StreamBucket) byIndex(db drip.ReadOnlyKVStore, index string, addr drip.Address) ([]*Stream, error) {
	objs, err := b.GetIndexed(db, index, addr)
	if err != nil {
		return nil, err
	}
	res := make([]*Stream, 0, len(objs))
	for _, obj := range objs {
		s, err := asStream(obj)
		if err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	return res, nil
}

func asStream(obj orm.Object) (*Stream, error) {
	if obj == nil || obj.Value() == nil {
		return nil, nil
	}
	s, ok := obj.Value().(*Stream)
	if !ok {
		return nil, errors.WithType(errors.ErrModel, obj.Value())
	}
	return s, nil
}

func senderIndex(obj orm.Object) ([]byte, error) {
	s, err := asStream(obj)
	if err != nil || s == nil {
		return nil, err
	}
	return s.Sender, nil
}

func recipientIndex(obj orm.Object) ([]byte, error) {
	s, err := asStream(obj)
	if err != nil || s == nil {
		return nil, err
	}
	return s.Recipient, nil
}
