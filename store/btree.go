package store

import (
	"bytes"

	"github.com/google/btree"
)

// DefaultFreeListSize is the size we hold for free nodes in the btree.
const DefaultFreeListSize = btree.DefaultFreeListSize

// BTreeCacheable adds a btree-based CacheWrap strategy to a KVStore.
type BTreeCacheable struct {
	KVStore
}

var _ CacheableKVStore = BTreeCacheable{}

// CacheWrap returns a BTreeCacheWrap that can be later written to this
// store, or rolled back.
func (b BTreeCacheable) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b.KVStore, b.NewBatch(), nil)
}

// MemStore returns a simple implementation useful for tests. There is no
// persistence here.
func MemStore() CacheableKVStore {
	e := EmptyKVStore{}
	return NewBTreeCacheWrap(e, e.NewBatch(), nil)
}

// BTreeCacheWrap places a btree cache over a KVStore. Writes go to both
// the btree overlay and the batch; reads prefer the overlay. Write
// flushes the batch into the backing store, Discard drops everything.
type BTreeCacheWrap struct {
	bt    *btree.BTree
	free  *btree.FreeList
	back  ReadOnlyKVStore
	batch Batch
}

var _ KVCacheWrap = BTreeCacheWrap{}

// NewBTreeCacheWrap initializes a BTree to cache around this kv store.
// Use ReadOnlyKVStore to emphasize that all writes must go through the
// Batch.
//
// free may be nil, but set to an existing list to reuse it for memory
// savings.
func NewBTreeCacheWrap(kv ReadOnlyKVStore, batch Batch, free *btree.FreeList) BTreeCacheWrap {
	if free == nil {
		free = btree.NewFreeList(DefaultFreeListSize)
	}
	return BTreeCacheWrap{
		bt:    btree.NewWithFreeList(2, free),
		free:  free,
		back:  kv,
		batch: batch,
	}
}

// CacheWrap layers another BTree on top of this one.
func (b BTreeCacheWrap) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b, b.NewBatch(), b.free)
}

// NewBatch returns a non-atomic batch that eventually may write to our
// cache wrap.
func (b BTreeCacheWrap) NewBatch() Batch {
	return NewNonAtomicBatch(b)
}

// Write syncs with the underlying store and then cleans up.
func (b BTreeCacheWrap) Write() error {
	err := b.batch.Write()
	b.Discard()
	return err
}

// Discard invalidates this cache wrap and releases all data.
func (b BTreeCacheWrap) Discard() {
	for stop := false; !stop; {
		rem := b.bt.DeleteMin()
		stop = rem == nil
	}
}

// Set writes to the BTree and to the batch.
func (b BTreeCacheWrap) Set(key, value []byte) error {
	b.bt.ReplaceOrInsert(setItem(key, value))
	return b.batch.Set(key, value)
}

// Delete deletes from the BTree and the batch.
func (b BTreeCacheWrap) Delete(key []byte) error {
	b.bt.ReplaceOrInsert(deleteItem(key))
	return b.batch.Delete(key)
}

// Get reads from the btree if there, else the backing store.
func (b BTreeCacheWrap) Get(key []byte) ([]byte, error) {
	if res, ok := b.bt.Get(lookupItem(key)).(overlayItem); ok {
		if res.deleted {
			return nil, nil
		}
		return res.value, nil
	}
	return b.back.Get(key)
}

// Has reads from the btree if there, else the backing store.
func (b BTreeCacheWrap) Has(key []byte) (bool, error) {
	if res, ok := b.bt.Get(lookupItem(key)).(overlayItem); ok {
		return !res.deleted, nil
	}
	return b.back.Has(key)
}

// Iterator over a domain of keys in ascending order. Combines results
// from the btree overlay and the backing store.
func (b BTreeCacheWrap) Iterator(start, end []byte) (Iterator, error) {
	parent, err := b.back.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	return newMergeIter(b.collectRange(start, end), parent, false)
}

// ReverseIterator over a domain of keys in descending order. Combines
// results from the btree overlay and the backing store.
func (b BTreeCacheWrap) ReverseIterator(start, end []byte) (Iterator, error) {
	parent, err := b.back.ReverseIterator(start, end)
	if err != nil {
		return nil, err
	}
	overlay := b.collectRange(start, end)
	for i, j := 0, len(overlay)-1; i < j; i, j = i+1, j-1 {
		overlay[i], overlay[j] = overlay[j], overlay[i]
	}
	return newMergeIter(overlay, parent, true)
}

// collectRange snapshots the overlay entries within [start, end) in
// ascending order. The overlay holds only this transaction's writes, so
// the copy stays small.
func (b BTreeCacheWrap) collectRange(start, end []byte) []overlayItem {
	var items []overlayItem
	insert := func(item btree.Item) bool {
		items = append(items, item.(overlayItem))
		return true
	}
	switch {
	case start == nil && end == nil:
		b.bt.Ascend(insert)
	case start == nil:
		b.bt.AscendLessThan(lookupItem(end), insert)
	case end == nil:
		b.bt.AscendGreaterOrEqual(lookupItem(start), insert)
	default:
		b.bt.AscendRange(lookupItem(start), lookupItem(end), insert)
	}
	return items
}

// overlayItem is a single uncommitted write: either a pending value or a
// tombstone.
type overlayItem struct {
	key     []byte
	value   []byte
	deleted bool
}

var _ btree.Item = overlayItem{}

func setItem(key, value []byte) overlayItem {
	return overlayItem{key: key, value: value}
}

func deleteItem(key []byte) overlayItem {
	return overlayItem{key: key, deleted: true}
}

func lookupItem(key []byte) overlayItem {
	return overlayItem{key: key}
}

// Less orders overlay items by key.
func (o overlayItem) Less(item btree.Item) bool {
	return bytes.Compare(o.key, item.(overlayItem).key) < 0
}
