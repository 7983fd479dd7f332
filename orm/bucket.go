package orm

import (
	"fmt"
	"regexp"

	"github.com/iov-one/drip"
	"github.com/iov-one/drip/errors"
)

var isBucketName = regexp.MustCompile(`^[a-z_]{3,16}$`).MatchString

// Bucket stores objects of a single type under "<name>:" and keeps its
// secondary indexes in sync. Domain packages embed it in a typed wrapper.
type Bucket struct {
	name    string
	prefix  []byte
	proto   Model
	indexes map[string]Index
}

var _ drip.QueryHandler = Bucket{}

// NewBucket panics on an invalid name. proto must be a pointer.
func NewBucket(name string, proto Model) Bucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("invalid bucket name %q", name))
	}
	return Bucket{name: name, prefix: []byte(name + ":"), proto: proto}
}

// Register mounts the bucket at "/<name>" and every index below it. An
// empty name falls back to the bucket name.
func (b Bucket) Register(name string, r drip.QueryRouter) {
	if name == "" {
		name = b.name
	}
	r.Register("/"+name, b)
	for idxName, idx := range b.indexes {
		r.Register("/"+name+"/"+idxName, idx)
	}
}

func (b Bucket) Query(db drip.ReadOnlyKVStore, mod string, data []byte) ([]drip.Model, error) {
	switch mod {
	case drip.PrefixQueryMod:
		return queryPrefix(db, b.DBKey(data))
	case drip.KeyQueryMod:
	default:
		return nil, errors.Wrapf(errors.ErrInput, "query mod %q", mod)
	}
	key := b.DBKey(data)
	value, err := db.Get(key)
	if err != nil || value == nil {
		return nil, err
	}
	return []drip.Model{drip.Pair(key, value)}, nil
}

// DBKey prefixes key with the bucket name. The result never aliases key.
func (b Bucket) DBKey(key []byte) []byte {
	out := make([]byte, 0, len(b.prefix)+len(key))
	return append(append(out, b.prefix...), key...)
}

// Get returns nil, nil when nothing is stored under key.
func (b Bucket) Get(db drip.ReadOnlyKVStore, key []byte) (Object, error) {
	raw, err := db.Get(b.DBKey(key))
	if err != nil || raw == nil {
		return nil, err
	}
	m := newModel(b.proto)
	if err := m.Unmarshal(raw); err != nil {
		return nil, errors.Wrapf(err, "cannot parse %s %X", b.name, key)
	}
	return NewSimpleObj(key, m), nil
}

// Save validates obj, updates the indexes and writes the value.
func (b Bucket) Save(db drip.KVStore, obj Object) error {
	if err := obj.Validate(); err != nil {
		return errors.Wrapf(err, "invalid %s", b.name)
	}
	raw, err := obj.Value().Marshal()
	if err != nil {
		return err
	}
	if err := b.reindex(db, obj.Key(), obj); err != nil {
		return err
	}
	return db.Set(b.DBKey(obj.Key()), raw)
}

func (b Bucket) Delete(db drip.KVStore, key []byte) error {
	if err := b.reindex(db, key, nil); err != nil {
		return err
	}
	return db.Delete(b.DBKey(key))
}

// reindex moves every index entry from the stored object to next. A nil
// next removes them.
func (b Bucket) reindex(db drip.KVStore, key []byte, next Object) error {
	if len(b.indexes) == 0 {
		return nil
	}
	prev, err := b.Get(db, key)
	switch {
	case err != nil:
		return err
	case prev == nil && next == nil:
		return errors.Wrapf(errors.ErrNotFound, "%s %X", b.name, key)
	}
	for name, idx := range b.indexes {
		if err := idx.Update(db, prev, next); err != nil {
			return errors.Wrapf(err, "index %s", name)
		}
	}
	return nil
}

func (b Bucket) Sequence(name string) Sequence {
	return NewSequence(b.name, name)
}

// WithIndex returns a copy of the bucket with one more index. It panics if
// the name is taken.
func (b Bucket) WithIndex(name string, indexer Indexer, unique bool) Bucket {
	return b.WithMultiKeyIndex(name, asMultiKeyIndexer(indexer), unique)
}

// WithMultiKeyIndex is WithIndex for indexers yielding several keys per
// object.
func (b Bucket) WithMultiKeyIndex(name string, indexer MultiKeyIndexer, unique bool) Bucket {
	if _, ok := b.indexes[name]; ok {
		panic(fmt.Sprintf("index %s registered twice on %s", name, b.name))
	}
	indexes := map[string]Index{
		name: NewMultiKeyIndex(b.name+"_"+name, indexer, unique, b.DBKey),
	}
	for n, idx := range b.indexes {
		indexes[n] = idx
	}
	b.indexes = indexes
	return b
}

// GetIndexed loads all objects referenced by key in the named index.
func (b Bucket) GetIndexed(db drip.ReadOnlyKVStore, name string, key []byte) ([]Object, error) {
	idx, ok := b.indexes[name]
	if !ok {
		return nil, errors.Wrap(ErrInvalidIndex, name)
	}
	refs, err := idx.Keys(db, key)
	if err != nil || len(refs) == 0 {
		return nil, err
	}
	objs := make([]Object, len(refs))
	for i, ref := range refs {
		if objs[i], err = b.Get(db, ref); err != nil {
			return nil, err
		}
		if objs[i] == nil {
			return nil, errors.Wrapf(errors.ErrDatabase, "dangling %s reference %X", b.name, ref)
		}
	}
	return objs, nil
}
