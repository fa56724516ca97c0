package store

import "bytes"

// source marks where the current item comes from when merging the
// overlay with the parent iterator.
type source int32

const (
	us source = iota
	parent
	both
	none
)

// mergeIter combines a snapshot of overlay writes with the backing
// store's iterator, honoring overwrites and tombstones.
type mergeIter struct {
	overlay []overlayItem
	idx     int
	parent  Iterator
	reverse bool
}

var _ Iterator = (*mergeIter)(nil)

func newMergeIter(overlay []overlayItem, parent Iterator, reverse bool) (*mergeIter, error) {
	m := &mergeIter{
		overlay: overlay,
		parent:  parent,
		reverse: reverse,
	}
	if err := m.skipAllDeleted(); err != nil {
		return nil, err
	}
	return m, nil
}

// Valid implements Iterator and returns true iff it can be read.
func (m *mergeIter) Valid() bool {
	return m.overlayValid() || m.parentValid()
}

// Next moves the iterator to the next sequential key, as defined by
// order of iteration. Panics when read past the end.
func (m *mergeIter) Next() error {
	switch m.firstKey() {
	case us:
		m.idx++
	case both:
		m.idx++
		fallthrough
	case parent:
		if err := m.parent.Next(); err != nil {
			return err
		}
	default:
		panic("advanced past the end")
	}
	return m.skipAllDeleted()
}

// Key returns the key of the cursor.
func (m *mergeIter) Key() []byte {
	switch m.firstKey() {
	case us, both:
		return m.overlay[m.idx].key
	case parent:
		return m.parent.Key()
	default:
		panic("advanced past the end")
	}
}

// Value returns the value of the cursor.
func (m *mergeIter) Value() []byte {
	switch m.firstKey() {
	case us, both:
		return m.overlay[m.idx].value
	case parent:
		return m.parent.Value()
	default:
		panic("advanced past the end")
	}
}

// Release frees the iterator.
func (m *mergeIter) Release() {
	m.parent.Release()
	m.overlay = nil
}

// skipAllDeleted loops and skips any number of tombstoned entries.
func (m *mergeIter) skipAllDeleted() error {
	for {
		skipped, err := m.skipDeleted()
		if err != nil {
			return err
		}
		if !skipped {
			return nil
		}
	}
}

// skipDeleted jumps over one tombstone if the cursor points at one,
// advancing the parent as well when it carries the same key.
func (m *mergeIter) skipDeleted() (bool, error) {
	src := m.firstKey()
	if src != us && src != both {
		return false, nil
	}
	if !m.overlay[m.idx].deleted {
		return false, nil
	}
	m.idx++
	if src == both {
		if err := m.parent.Next(); err != nil {
			return false, err
		}
	}
	return true, nil
}

// firstKey selects the side holding the lowest key (highest when
// iterating in reverse).
func (m *mergeIter) firstKey() source {
	if !m.parentValid() {
		if !m.overlayValid() {
			return none
		}
		return us
	}
	if !m.overlayValid() {
		return parent
	}

	cmp := bytes.Compare(m.parent.Key(), m.overlay[m.idx].key)
	if m.reverse {
		cmp = -cmp
	}
	switch {
	case cmp < 0:
		return parent
	case cmp > 0:
		return us
	default:
		return both
	}
}

func (m *mergeIter) overlayValid() bool {
	return m.idx < len(m.overlay)
}

func (m *mergeIter) parentValid() bool {
	return m.parent != nil && m.parent.Valid()
}
