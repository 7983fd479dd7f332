package app

import (
	"github.com/iov-one/drip"
	"github.com/iov-one/drip/errors"
)

// CommitStore keeps the committed state and two cache layers on top of it.
// Delivered transactions write to the deliver cache, which is flushed on
// Commit. The check cache only validates the mempool and is dropped on
// every Commit.
type CommitStore struct {
	committed drip.CommitKVStore
	deliver   drip.KVCacheWrap
	check     drip.KVCacheWrap
}

// NewCommitStore loads the latest version of given store. It panics when
// the state cannot be loaded, since the node cannot run without it.
func NewCommitStore(store drip.CommitKVStore) *CommitStore {
	if err := store.LoadLatestVersion(); err != nil {
		panic(err)
	}
	cs := &CommitStore{committed: store}
	cs.resetCaches()
	return cs
}

func (cs *CommitStore) resetCaches() {
	cs.deliver = cs.committed.CacheWrap()
	cs.check = cs.committed.CacheWrap()
}

// CommitInfo returns the version and hash of the last commit.
func (cs *CommitStore) CommitInfo() (drip.CommitID, error) {
	return cs.committed.LatestVersion()
}

// Commit writes all delivered changes and persists a new version.
func (cs *CommitStore) Commit() (drip.CommitID, error) {
	if err := cs.deliver.Write(); err != nil {
		return drip.CommitID{}, errors.Wrap(err, "flush deliver cache")
	}
	cs.check.Discard()
	id, err := cs.committed.Commit()
	if err != nil {
		return id, errors.Wrap(err, "commit")
	}
	cs.resetCaches()
	return id, nil
}

// CheckStore is the state mempool transactions are checked against.
func (cs *CommitStore) CheckStore() drip.CacheableKVStore {
	return cs.check
}

// DeliverStore is the state block transactions are executed against.
func (cs *CommitStore) DeliverStore() drip.CacheableKVStore {
	return cs.deliver
}

// ReadStore returns a throw away view of the last committed state.
func (cs *CommitStore) ReadStore() drip.KVCacheWrap {
	return cs.committed.CacheWrap()
}

// chainIDKey is reserved for the application, no bucket is named _drip.
var chainIDKey = []byte("_drip:chain_id")

func loadChainID(db drip.ReadOnlyKVStore) (string, error) {
	raw, err := db.Get(chainIDKey)
	if err != nil {
		return "", errors.Wrap(err, "load chain id")
	}
	return string(raw), nil
}

// saveChainID writes the chain id once. It cannot be changed afterwards.
func saveChainID(db drip.KVStore, chainID string) error {
	if !drip.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInput, "chain id %q", chainID)
	}
	switch exists, err := db.Has(chainIDKey); {
	case err != nil:
		return errors.Wrap(err, "load chain id")
	case exists:
		return errors.Wrap(errors.ErrState, "chain id is set at genesis only")
	}
	return errors.Wrap(db.Set(chainIDKey, []byte(chainID)), "save chain id")
}
