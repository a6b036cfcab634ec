package radix

// View is a read-only, live window onto the subtree of a Map reachable
// through a given prefix. It shares structure with the Map it was derived
// from; it does not support mutation.
type View[V any] struct {
	root   *node[V]
	prefix string
}

// AtPrefix returns the View of every key in m that begins with prefix. If
// no key has that prefix, the returned View is simply empty: locating (or
// synthesizing) the subtree node never fails.
func (m *Map[V]) AtPrefix(prefix string) *View[V] {
	return &View[V]{root: viewNode(m.root, prefix), prefix: prefix}
}

// viewNode locates the node that roots the subtree of every key with the
// given prefix, synthesizing an intermediate node when the prefix ends in
// the middle of an edge label.
func viewNode[V any](n *node[V], prefix string) *node[V] {
	for prefix != "" {
		e, ok := n.childFor(prefix[0])
		if !ok {
			return &node[V]{}
		}
		switch {
		case len(prefix) >= len(e.label):
			if prefix[:len(e.label)] != e.label {
				return &node[V]{}
			}
			prefix = prefix[len(e.label):]
			n = e.node
		case e.label[:len(prefix)] == prefix:
			synth := &node[V]{}
			synth.setChild(e.label[len(prefix)], &edge[V]{label: e.label[len(prefix):], node: e.node})
			return synth
		default:
			return &node[V]{}
		}
	}
	return n
}

// Get returns the value stored at key within the view (key is relative to
// the view's prefix).
func (v *View[V]) Get(key string) (V, bool) {
	var zero V
	n := descend(v.root, key)
	if n == nil || n.leaf == nil {
		return zero, false
	}
	return n.leaf.value, true
}

// Has reports whether key (relative to the view's prefix) has a value.
func (v *View[V]) Has(key string) bool {
	n := descend(v.root, key)
	return n != nil && n.leaf != nil
}

// Len counts the keys reachable through this view. Unlike Map.Len this is
// not cached: views are typically short-lived.
func (v *View[V]) Len() int {
	return countLeaves(v.root)
}

// Entries returns every (suffix, value) pair reachable through the view,
// in depth-first order. The full key of an entry is the view's prefix
// concatenated with its suffix.
func (v *View[V]) Entries() []Entry[V] {
	return collect(v.root, "")
}

// Keys returns every key suffix reachable through the view, in the same
// order as Entries.
func (v *View[V]) Keys() []string {
	entries := v.Entries()
	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = e.Key
	}
	return keys
}

// Values returns every value reachable through the view, in the same
// order as Entries.
func (v *View[V]) Values() []V {
	entries := v.Entries()
	values := make([]V, len(entries))
	for i, e := range entries {
		values[i] = e.Value
	}
	return values
}
