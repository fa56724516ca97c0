package multisig

// ReadOnlyKVStore is the subset of store functionality that queries and
// approval counting need.
type ReadOnlyKVStore interface {
	// Get returns nil iff key doesn't exist. Panics on nil key.
	Get(key []byte) ([]byte, error)

	// Has checks if a key exists. Panics on nil key.
	Has(key []byte) (bool, error)

	// Iterator over a domain of keys in ascending order. End is exclusive.
	// Start must be less than end, or the Iterator is invalid.
	// CONTRACT: No writes may happen within a domain while an iterator
	// exists over it.
	Iterator(start, end []byte) (Iterator, error)

	// ReverseIterator walks the same [start, end) domain as Iterator but
	// in descending key order.
	ReverseIterator(start, end []byte) (Iterator, error)
}

// KVStore is a simple interface to get/set data.
type KVStore interface {
	ReadOnlyKVStore

	// Set sets the key. Panics on nil key.
	Set(key, value []byte) error

	// Delete deletes the key. Panics on nil key.
	Delete(key []byte) error

	// NewBatch returns a batch that can write to this store later.
	NewBatch() Batch
}

// SetDeleter is the subset of KVStore a batch flushes into.
type SetDeleter interface {
	Set(key, value []byte) error
	Delete(key []byte) error
}

// Batch groups writes so they may be applied together.
type Batch interface {
	SetDeleter
	Write() error
}

// Iterator walks over a range of keys. Usage:
//
//   var itr Iterator = ...
//   defer itr.Release()
//
//   for ; itr.Valid(); itr.Next() {
//     k, v := itr.Key(), itr.Value()
//     ...
//   }
type Iterator interface {
	// Valid returns whether the current position is valid. Once invalid,
	// an Iterator is forever invalid.
	Valid() bool

	// Next moves the iterator to the next sequential key, as defined by
	// order of iteration. Panics if Valid returns false.
	Next() error

	// Key returns the key of the cursor. Panics if Valid returns false.
	// CONTRACT: key is read only.
	Key() []byte

	// Value returns the value of the cursor. Panics if Valid returns
	// false. CONTRACT: value is read only.
	Value() []byte

	// Release frees the iterator.
	Release()
}

// CacheableKVStore is a KVStore that supports cache wrapping. A cache
// wrap is the all-or-nothing unit every privileged operation runs in:
// validate and mutate inside the wrap, then Write on success or Discard
// on any failed requirement.
type CacheableKVStore interface {
	KVStore
	CacheWrap() KVCacheWrap
}

// KVCacheWrap is a scratch pad of uncommitted writes layered over a
// backing store. At the end call Write to apply the cached data, or
// Discard to drop it.
type KVCacheWrap interface {
	// CacheableKVStore allows recursive wrapping.
	CacheableKVStore

	// Write syncs with the underlying store.
	Write() error

	// Discard invalidates this cache wrap and releases all data.
	Discard()
}

// CommitKVStore can persist state to disk, load it on start up and keep
// some history.
type CommitKVStore interface {
	Get(key []byte) ([]byte, error)

	// CacheWrap returns a scratch pad to perform actions on.
	CacheWrap() KVCacheWrap

	// Commit the next version to disk and return info on it.
	Commit() (CommitID, error)

	// LoadLatestVersion loads the latest persisted version. If there was
	// a crash during the last commit it is guaranteed to return a stable
	// state, even if older.
	LoadLatestVersion() error

	// LatestVersion returns info on the latest version saved to disk.
	LatestVersion() CommitID
}

// CommitID contains the tree version number and its merkle root.
type CommitID struct {
	Version int64
	Hash    []byte
}
