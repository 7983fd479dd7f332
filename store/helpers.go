package store

import (
	"github.com/iov-one/drip/errors"
)

// SliceIterator walks a pre-sorted slice of models.
type SliceIterator struct {
	data []Model
	pos  int
}

var _ Iterator = (*SliceIterator)(nil)

func NewSliceIterator(data []Model) *SliceIterator {
	return &SliceIterator{data: data}
}

func (s *SliceIterator) Valid() bool { return s.pos < len(s.data) }

func (s *SliceIterator) Next() error {
	if !s.Valid() {
		return errors.Wrap(errors.ErrDatabase, "slice iterator exhausted")
	}
	s.pos++
	return nil
}

func (s *SliceIterator) Key() []byte   { return s.current().Key }
func (s *SliceIterator) Value() []byte { return s.current().Value }
func (s *SliceIterator) Close()        { s.data, s.pos = nil, 0 }

func (s *SliceIterator) current() Model {
	if !s.Valid() {
		panic("slice iterator exhausted")
	}
	return s.data[s.pos]
}

// EmptyKVStore holds nothing and ignores writes. MemStore caches on top of it.
type EmptyKVStore struct{}

var _ KVStore = EmptyKVStore{}

func (EmptyKVStore) Get([]byte) ([]byte, error) { return nil, nil }
func (EmptyKVStore) Has([]byte) (bool, error)   { return false, nil }
func (EmptyKVStore) Set(_, _ []byte) error      { return nil }
func (EmptyKVStore) Delete([]byte) error        { return nil }
func (e EmptyKVStore) NewBatch() Batch          { return NewNonAtomicBatch(e) }

func (EmptyKVStore) Iterator(_, _ []byte) (Iterator, error) {
	return NewSliceIterator(nil), nil
}

func (EmptyKVStore) ReverseIterator(_, _ []byte) (Iterator, error) {
	return NewSliceIterator(nil), nil
}

// Op is a single queued write. A nil value means delete.
type Op struct {
	key    []byte
	value  []byte
	delete bool
}

// Apply replays the write on out.
func (o Op) Apply(out SetDeleter) error {
	if o.delete {
		return out.Delete(o.key)
	}
	return out.Set(o.key, o.value)
}

// NonAtomicBatch queues writes and replays them in order on Write. A failure
// halfway leaves the earlier ops applied, so only in-memory stores use it.
type NonAtomicBatch struct {
	out SetDeleter
	ops []Op
}

var _ Batch = (*NonAtomicBatch)(nil)

func NewNonAtomicBatch(out SetDeleter) *NonAtomicBatch {
	return &NonAtomicBatch{out: out}
}

func (b *NonAtomicBatch) Set(key, value []byte) error {
	b.ops = append(b.ops, Op{key: key, value: value})
	return nil
}

func (b *NonAtomicBatch) Delete(key []byte) error {
	b.ops = append(b.ops, Op{key: key, delete: true})
	return nil
}

func (b *NonAtomicBatch) Write() error {
	for i, op := range b.ops {
		if err := op.Apply(b.out); err != nil {
			return errors.Wrapf(err, "batch op %d", i)
		}
	}
	b.ops = nil
	return nil
}

// ShowOps exposes the pending ops to tests.
func (b *NonAtomicBatch) ShowOps() []Op { return b.ops }
