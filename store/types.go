package store

import multisig "github.com/iov-one/multisig"

// Aliases for all storage types into this package for shorter names
// everywhere.

type ReadOnlyKVStore = multisig.ReadOnlyKVStore
type KVStore = multisig.KVStore
type SetDeleter = multisig.SetDeleter
type Batch = multisig.Batch
type Iterator = multisig.Iterator
type CacheableKVStore = multisig.CacheableKVStore
type KVCacheWrap = multisig.KVCacheWrap
type CommitKVStore = multisig.CommitKVStore
type CommitID = multisig.CommitID

// Model groups a key-value pair, for iteration over preloaded data.
type Model struct {
	Key   []byte
	Value []byte
}
