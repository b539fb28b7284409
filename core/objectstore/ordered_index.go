package objectstore

import "sort"

// OrderedIndex maintains IDs sorted by a derived key K, the shape every
// secondary index in spec §3/§6 needs (by_expiration, by_price,
// by_collateral, by_next_update, by_feed_expiration, by_cer_update). It is
// a thin sorted-slice structure, not a balanced tree: the core's working
// sets (open orders, pending tickets) are small enough that insertion
// cost is dominated by the comparison, not the shift.
type OrderedIndex[K any, ID comparable] struct {
	less    func(a, b K) bool
	keys    []K
	ids     []ID
}

// NewOrderedIndex builds an empty index ordered by less.
func NewOrderedIndex[K any, ID comparable](less func(a, b K) bool) *OrderedIndex[K, ID] {
	return &OrderedIndex[K, ID]{less: less}
}

// Len returns the number of entries currently indexed.
func (idx *OrderedIndex[K, ID]) Len() int { return len(idx.ids) }

func (idx *OrderedIndex[K, ID]) search(key K) int {
	return sort.Search(len(idx.keys), func(i int) bool {
		return !idx.less(idx.keys[i], key)
	})
}

// Insert adds id under key, preserving sort order. Duplicate keys are
// placed in insertion order relative to each other.
func (idx *OrderedIndex[K, ID]) Insert(key K, id ID) {
	i := sort.Search(len(idx.keys), func(i int) bool {
		return idx.less(key, idx.keys[i])
	})
	idx.keys = append(idx.keys, key)
	idx.ids = append(idx.ids, id)
	copy(idx.keys[i+1:], idx.keys[i:len(idx.keys)-1])
	copy(idx.ids[i+1:], idx.ids[i:len(idx.ids)-1])
	idx.keys[i] = key
	idx.ids[i] = id
}

// Remove deletes the first entry whose key and id both match. It is a
// no-op if no such entry exists.
func (idx *OrderedIndex[K, ID]) Remove(key K, id ID) {
	for i := idx.search(key); i < len(idx.keys); i++ {
		if idx.ids[i] == id {
			idx.keys = append(idx.keys[:i], idx.keys[i+1:]...)
			idx.ids = append(idx.ids[:i], idx.ids[i+1:]...)
			return
		}
		if idx.less(key, idx.keys[i]) {
			break
		}
	}
}

// Front returns the smallest-keyed entry and true, or the zero values and
// false when the index is empty.
func (idx *OrderedIndex[K, ID]) Front() (id ID, ok bool) {
	if len(idx.ids) == 0 {
		return id, false
	}
	return idx.ids[0], true
}

// UpperBound returns every id whose key is not greater than key, in
// ascending key order — the set the expiration sweeper and the
// settlement matcher both walk (spec §4.5/§4.6).
func (idx *OrderedIndex[K, ID]) UpperBound(key K) []ID {
	i := idx.search(key)
	for i < len(idx.keys) && !idx.less(key, idx.keys[i]) {
		i++
	}
	out := make([]ID, i)
	copy(out, idx.ids[:i])
	return out
}

// Iterate calls fn for every entry in ascending key order, stopping early
// if fn returns false.
func (idx *OrderedIndex[K, ID]) Iterate(fn func(id ID) bool) {
	for _, id := range idx.ids {
		if !fn(id) {
			return
		}
	}
}
