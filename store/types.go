package store

import "github.com/iov-one/drip"

// Move references for all storage types into this package
// for shorter names everywhere

type (
	ReadOnlyKVStore  = drip.ReadOnlyKVStore
	SetDeleter       = drip.SetDeleter
	KVStore          = drip.KVStore
	Batch            = drip.Batch
	Iterator         = drip.Iterator
	CacheableKVStore = drip.CacheableKVStore
	KVCacheWrap      = drip.KVCacheWrap
	CommitKVStore    = drip.CommitKVStore
	CommitID         = drip.CommitID
	Model            = drip.Model
)
