package orm

import (
	"bytes"
	"sort"

	"github.com/iov-one/drip"
	"github.com/iov-one/drip/codec"
	"github.com/iov-one/drip/errors"
)

// Index maps values derived from an object back to the primary keys of the
// objects that produced them, for example sender address to stream ids.
type Index interface {
	drip.QueryHandler

	Name() string

	// Update moves the index entries of prev to next. A nil prev inserts, a
	// nil next deletes. Both must share the primary key.
	Update(db drip.KVStore, prev Object, next Object) error

	// Keys lists the primary keys indexed under value in ascending order.
	Keys(db drip.ReadOnlyKVStore, value []byte) ([][]byte, error)
}

// Indexer derives the index value of an object. A nil value is not indexed.
type Indexer func(Object) ([]byte, error)

// MultiKeyIndexer derives any number of index values of an object.
type MultiKeyIndexer func(Object) ([][]byte, error)

// MultiRef is the stored form of one index entry: the sorted primary keys.
type MultiRef struct {
	Refs [][]byte
}

// compactIndex keeps every primary key for one value under a single db key
// "_i.<name>:<value>". It suits values shared by a moderate number of
// objects, such as the streams of one sender.
type compactIndex struct {
	name   string
	prefix []byte
	unique bool
	values MultiKeyIndexer
	refKey func([]byte) []byte
}

var _ Index = compactIndex{}

// NewMultiKeyIndex builds an index. refKey turns a primary key into the db
// key of the indexed object.
func NewMultiKeyIndex(name string, indexer MultiKeyIndexer, unique bool, refKey func([]byte) []byte) Index {
	return compactIndex{
		name:   name,
		prefix: []byte("_i." + name + ":"),
		unique: unique,
		values: indexer,
		refKey: refKey,
	}
}

func asMultiKeyIndexer(indexer Indexer) MultiKeyIndexer {
	return func(obj Object) ([][]byte, error) {
		v, err := indexer(obj)
		if err != nil || v == nil {
			return nil, err
		}
		return [][]byte{v}, nil
	}
}

func (i compactIndex) Name() string { return i.name }

func (i compactIndex) dbKey(value []byte) []byte {
	out := make([]byte, 0, len(i.prefix)+len(value))
	return append(append(out, i.prefix...), value...)
}

func (i compactIndex) Update(db drip.KVStore, prev Object, next Object) error {
	if prev == nil && next == nil {
		return errors.Wrap(errors.ErrHuman, "update requires at least one non-nil object")
	}
	if prev != nil && next != nil && !bytes.Equal(prev.Key(), next.Key()) {
		return errors.Wrap(errors.ErrHuman, "cannot change the primary key")
	}
	before, err := i.valuesOf(prev)
	if err != nil {
		return err
	}
	after, err := i.valuesOf(next)
	if err != nil {
		return err
	}
	for _, v := range before {
		if !containsKey(after, v) {
			if err := i.remove(db, v, prev.Key()); err != nil {
				return err
			}
		}
	}
	for _, v := range after {
		if !containsKey(before, v) {
			if err := i.insert(db, v, next.Key()); err != nil {
				return err
			}
		}
	}
	return nil
}

func (i compactIndex) valuesOf(obj Object) ([][]byte, error) {
	if obj == nil {
		return nil, nil
	}
	return i.values(obj)
}

func (i compactIndex) insert(db drip.KVStore, value, pk []byte) error {
	refs, err := i.Keys(db, value)
	if err != nil {
		return err
	}
	if i.unique && len(refs) > 0 {
		return errors.Wrapf(errors.ErrDuplicate, "index %s %X", i.name, value)
	}
	pos := sort.Search(len(refs), func(n int) bool { return bytes.Compare(refs[n], pk) >= 0 })
	if pos < len(refs) && bytes.Equal(refs[pos], pk) {
		return nil
	}
	refs = append(refs[:pos], append([][]byte{pk}, refs[pos:]...)...)
	return i.store(db, value, refs)
}

func (i compactIndex) remove(db drip.KVStore, value, pk []byte) error {
	refs, err := i.Keys(db, value)
	if err != nil {
		return err
	}
	for n := range refs {
		if bytes.Equal(refs[n], pk) {
			return i.store(db, value, append(refs[:n], refs[n+1:]...))
		}
	}
	return errors.Wrapf(errors.ErrNotFound, "index %s has no %X reference", i.name, pk)
}

// store deletes the entry once no reference is left.
func (i compactIndex) store(db drip.KVStore, value []byte, refs [][]byte) error {
	if len(refs) == 0 {
		return db.Delete(i.dbKey(value))
	}
	raw, err := codec.Marshal(MultiRef{Refs: refs})
	if err != nil {
		return err
	}
	return db.Set(i.dbKey(value), raw)
}

func (i compactIndex) Keys(db drip.ReadOnlyKVStore, value []byte) ([][]byte, error) {
	raw, err := db.Get(i.dbKey(value))
	if err != nil || raw == nil {
		return nil, err
	}
	return i.decode(raw)
}

func (i compactIndex) decode(raw []byte) ([][]byte, error) {
	var ref MultiRef
	if err := codec.Unmarshal(raw, &ref); err != nil {
		return nil, errors.Wrapf(err, "index %s", i.name)
	}
	return ref.Refs, nil
}

// Query resolves index entries to the indexed objects. With the prefix
// modifier every value starting with data matches.
func (i compactIndex) Query(db drip.ReadOnlyKVStore, mod string, data []byte) ([]drip.Model, error) {
	var refs [][]byte
	switch mod {
	case drip.KeyQueryMod:
		keys, err := i.Keys(db, data)
		if err != nil {
			return nil, err
		}
		refs = keys
	case drip.PrefixQueryMod:
		entries, err := queryPrefix(db, i.dbKey(data))
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			keys, err := i.decode(e.Value)
			if err != nil {
				return nil, err
			}
			refs = append(refs, keys...)
		}
	default:
		return nil, errors.Wrapf(errors.ErrInput, "query mod %q", mod)
	}

	res := make([]drip.Model, len(refs))
	for n, ref := range refs {
		key := i.refKey(ref)
		val, err := db.Get(key)
		if err != nil {
			return nil, err
		}
		if val == nil {
			return nil, errors.Wrapf(errors.ErrDatabase, "dangling %s reference %X", i.name, ref)
		}
		res[n] = drip.Pair(key, val)
	}
	return res, nil
}

func containsKey(keys [][]byte, k []byte) bool {
	for _, x := range keys {
		if bytes.Equal(x, k) {
			return true
		}
	}
	return false
}
