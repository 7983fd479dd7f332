package orm

import (
	"encoding/binary"
	"math"

	"github.com/iov-one/drip"
	"github.com/iov-one/drip/errors"
)

const sequenceSize = 8

// Sequence is a persistent counter stored under "_s.<bucket>:<name>".
// Issued values start at one and grow by one. Their encoded form sorts the
// same way as the numbers, so they make good primary keys.
type Sequence struct {
	id []byte
}

func NewSequence(bucket, name string) Sequence {
	return Sequence{id: []byte("_s." + bucket + ":" + name)}
}

// ID is the db key of the counter.
func (s Sequence) ID() []byte { return s.id }

// NextVal issues the next value in its encoded form.
func (s Sequence) NextVal(db drip.KVStore) ([]byte, error) {
	n, err := s.NextInt(db)
	if err != nil {
		return nil, err
	}
	return EncodeSequence(n), nil
}

func (s Sequence) NextInt(db drip.KVStore) (uint64, error) {
	n, err := s.Latest(db)
	if err != nil {
		return 0, err
	}
	if n == math.MaxUint64 {
		return 0, errors.Wrap(errors.ErrOverflow, "sequence exhausted")
	}
	n++
	return n, db.Set(s.id, EncodeSequence(n))
}

// Latest is the last issued value, or zero before the first one. It never
// writes.
func (s Sequence) Latest(db drip.ReadOnlyKVStore) (uint64, error) {
	raw, err := db.Get(s.id)
	if err != nil {
		return 0, err
	}
	return DecodeSequence(raw)
}

// DecodeSequence treats nil as zero.
func DecodeSequence(raw []byte) (uint64, error) {
	switch len(raw) {
	case 0:
		if raw == nil {
			return 0, nil
		}
	case sequenceSize:
		return binary.BigEndian.Uint64(raw), nil
	}
	return 0, errors.Wrapf(errors.ErrDatabase, "invalid sequence value length %d", len(raw))
}

func EncodeSequence(n uint64) []byte {
	raw := make([]byte, sequenceSize)
	binary.BigEndian.PutUint64(raw, n)
	return raw
}
