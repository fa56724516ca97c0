// Package iavl provides a durable CommitKVStore for the engine state,
// backed by a versioned merkle tree. Every Commit persists a new tree
// version, so the latest committed state survives a crash even when the
// last commit attempt did not complete.
package iavl

import (
	"github.com/tendermint/iavl"
	dbm "github.com/tendermint/tendermint/libs/db"

	"github.com/iov-one/multisig/errors"
	"github.com/iov-one/multisig/store"
)

const defaultCacheSize = 10000

// CommitStore manages an iavl committed state.
type CommitStore struct {
	tree *iavl.MutableTree
}

var _ store.CommitKVStore = (*CommitStore)(nil)

// NewCommitStore creates a new store with disk backing under the given
// directory.
func NewCommitStore(dir, name string) (*CommitStore, error) {
	db, err := dbm.NewGoLevelDB(name, dir)
	if err != nil {
		return nil, errors.Wrap(err, "open leveldb")
	}
	return &CommitStore{
		tree: iavl.NewMutableTree(db, defaultCacheSize),
	}, nil
}

// MockCommitStore returns a commit store that never writes to disk.
func MockCommitStore() *CommitStore {
	return &CommitStore{
		tree: iavl.NewMutableTree(dbm.NewMemDB(), defaultCacheSize),
	}
}

// Get returns the value at the current working state. Returns nil iff
// the key doesn't exist.
func (s *CommitStore) Get(key []byte) ([]byte, error) {
	_, value := s.tree.Get(key)
	return value, nil
}

// CacheWrap returns a scratch pad whose Write applies the changes to the
// working tree. They become durable on the next Commit.
func (s *CommitStore) CacheWrap() store.KVCacheWrap {
	adapter := treeStore{tree: s.tree}
	return store.NewBTreeCacheWrap(adapter, adapter.NewBatch(), nil)
}

// Commit persists the working tree as the next version and returns info
// on it.
func (s *CommitStore) Commit() (store.CommitID, error) {
	hash, version, err := s.tree.SaveVersion()
	if err != nil {
		return store.CommitID{}, errors.Wrap(err, "save version")
	}
	return store.CommitID{
		Version: version,
		Hash:    hash,
	}, nil
}

// LoadLatestVersion loads the latest persisted version. If there was a
// crash during the last commit, it is guaranteed to return a stable
// state, even if older.
func (s *CommitStore) LoadLatestVersion() error {
	_, err := s.tree.Load()
	return errors.Wrap(err, "load tree")
}

// LatestVersion returns info on the latest version saved to disk.
func (s *CommitStore) LatestVersion() store.CommitID {
	return store.CommitID{
		Version: s.tree.Version(),
		Hash:    s.tree.Hash(),
	}
}

// treeStore exposes the mutable working tree through the KVStore
// interface, so a btree cache wrap can layer on top of it.
type treeStore struct {
	tree *iavl.MutableTree
}

var _ store.KVStore = treeStore{}

func (t treeStore) Get(key []byte) ([]byte, error) {
	_, value := t.tree.Get(key)
	return value, nil
}

func (t treeStore) Has(key []byte) (bool, error) {
	return t.tree.Has(key), nil
}

func (t treeStore) Set(key, value []byte) error {
	t.tree.Set(key, value)
	return nil
}

func (t treeStore) Delete(key []byte) error {
	t.tree.Remove(key)
	return nil
}

// Iterator snapshots the requested range. The engine state is small (a
// singleton record plus one record per registered user), so an eager
// copy is fine.
func (t treeStore) Iterator(start, end []byte) (store.Iterator, error) {
	return t.rangeIterator(start, end, true), nil
}

func (t treeStore) ReverseIterator(start, end []byte) (store.Iterator, error) {
	return t.rangeIterator(start, end, false), nil
}

func (t treeStore) rangeIterator(start, end []byte, ascending bool) store.Iterator {
	var models []store.Model
	t.tree.IterateRange(start, end, ascending, func(key, value []byte) bool {
		models = append(models, store.Model{Key: key, Value: value})
		return false
	})
	return store.NewSliceIterator(models)
}

func (t treeStore) NewBatch() store.Batch {
	return store.NewNonAtomicBatch(t)
}
