// Package radix implements a compressed prefix tree (radix trie) keyed by
// strings, with live prefix-subtree views and bounded-edit-distance fuzzy
// lookup sharing a single reused DP matrix across a traversal.
package radix

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

const fuzzyCacheSize = 256

// Map is a string-keyed compressed prefix tree holding values of type V.
// The zero value is not usable; construct with New.
type Map[V any] struct {
	root *node[V]

	size      int
	sizeValid bool

	// generation increments on every mutation and is folded into fuzzy
	// cache keys so a cache hit can only ever be served against the tree
	// state it was computed from.
	generation uint64
	fuzzy      *lru.Cache[fuzzyCacheKey, map[string]FuzzyMatch[V]]
}

// New returns an empty Map.
func New[V any]() *Map[V] {
	cache, _ := lru.New[fuzzyCacheKey, map[string]FuzzyMatch[V]](fuzzyCacheSize)
	return &Map[V]{root: &node[V]{}, fuzzy: cache}
}

func (m *Map[V]) touch() {
	m.sizeValid = false
	m.generation++
}

// Get returns the value stored at key, if any.
func (m *Map[V]) Get(key string) (V, bool) {
	var zero V
	n := descend(m.root, key)
	if n == nil || n.leaf == nil {
		return zero, false
	}
	return n.leaf.value, true
}

// Has reports whether key has a value in the map.
func (m *Map[V]) Has(key string) bool {
	n := descend(m.root, key)
	return n != nil && n.leaf != nil
}

// descend walks from n following the unique child edge whose label is a
// prefix of the remaining key, returning the node at which key terminates,
// or nil if key is not present as an exact path in the tree.
func descend[V any](n *node[V], key string) *node[V] {
	for key != "" {
		e, ok := n.childFor(key[0])
		if !ok || len(key) < len(e.label) || key[:len(e.label)] != e.label {
			return nil
		}
		key = key[len(e.label):]
		n = e.node
	}
	return n
}

// Set stores value at key, splitting or creating edges as needed.
func (m *Map[V]) Set(key string, value V) {
	setRec(m.root, key, value)
	m.touch()
}

// Update applies fn to the current value at key (existed is false and the
// passed value is the zero value if key is absent) and stores the result.
func (m *Map[V]) Update(key string, fn func(current V, existed bool) V) {
	n := setPath(m.root, key)
	var cur V
	existed := false
	if n.leaf != nil {
		cur, existed = n.leaf.value, true
	}
	n.leaf = &leaf[V]{value: fn(cur, existed)}
	m.touch()
}

// Fetch returns a pointer to the value at key, inserting init() first if
// the key is absent. The returned pointer aliases the map's storage.
func (m *Map[V]) Fetch(key string, init func() V) *V {
	n := setPath(m.root, key)
	if n.leaf == nil {
		n.leaf = &leaf[V]{value: init()}
		m.touch()
	}
	return &n.leaf.value
}

// setPath walks/creates the path for key, returning the terminal node
// without touching its leaf marker.
func setPath[V any](n *node[V], key string) *node[V] {
	for key != "" {
		c := key[0]
		e, ok := n.childFor(c)
		if !ok {
			child := &node[V]{}
			n.setChild(c, &edge[V]{label: key, node: child})
			return child
		}
		cp := commonPrefixLen(e.label, key)
		if cp < len(e.label) {
			splitEdge(e, cp)
		}
		if cp == len(key) {
			return e.node
		}
		key = key[cp:]
		n = e.node
	}
	return n
}

func setRec[V any](n *node[V], key string, value V) {
	terminal := setPath(n, key)
	terminal.leaf = &leaf[V]{value: value}
}

// splitEdge splits e at offset cp into e (shortened to e.label[:cp]) whose
// child is a fresh intermediate node carrying the remainder of the old
// edge as its own single child.
func splitEdge[V any](e *edge[V], cp int) {
	mid := &node[V]{}
	mid.setChild(e.label[cp], &edge[V]{label: e.label[cp:], node: e.node})
	e.label = e.label[:cp]
	e.node = mid
}

// Delete removes key from the map, reporting whether it was present.
// Deletion compresses any node left with exactly one non-leaf child back
// into its parent edge.
func (m *Map[V]) Delete(key string) bool {
	deleted := deleteRec(m.root, key)
	if deleted {
		m.touch()
	}
	return deleted
}

func deleteRec[V any](n *node[V], key string) bool {
	if key == "" {
		if n.leaf == nil {
			return false
		}
		n.leaf = nil
		return true
	}
	c := key[0]
	e, ok := n.childFor(c)
	if !ok || len(key) < len(e.label) || key[:len(e.label)] != e.label {
		return false
	}
	deleted := deleteRec(e.node, key[len(e.label):])
	if !deleted {
		return false
	}
	if e.node.isEmpty() {
		n.removeChild(c)
	} else {
		compress(e)
	}
	return true
}

// Len reports the number of keys stored in the map. The count is computed
// lazily on first access after a mutation and cached until the next one.
func (m *Map[V]) Len() int {
	if !m.sizeValid {
		m.size = countLeaves(m.root)
		m.sizeValid = true
	}
	return m.size
}

func countLeaves[V any](n *node[V]) int {
	count := 0
	if n.leaf != nil {
		count++
	}
	for c := 0; c < 256; c++ {
		if e, ok := n.childFor(byte(c)); ok {
			count += countLeaves(e.node)
		}
	}
	return count
}
