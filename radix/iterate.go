package radix

// Entry is a single (key, value) pair produced by iteration.
type Entry[V any] struct {
	Key   string
	Value V
}

// Entries returns every (key, value) pair in the map, in depth-first
// order over the tree (children visited in byte order of their edge's
// first character).
func (m *Map[V]) Entries() []Entry[V] {
	return collect(m.root, "")
}

// Keys returns every key in the map, in the same order as Entries.
func (m *Map[V]) Keys() []string {
	entries := m.Entries()
	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = e.Key
	}
	return keys
}

// Values returns every value in the map, in the same order as Entries.
func (m *Map[V]) Values() []V {
	entries := m.Entries()
	values := make([]V, len(entries))
	for i, e := range entries {
		values[i] = e.Value
	}
	return values
}

func collect[V any](n *node[V], prefix string) []Entry[V] {
	var out []Entry[V]
	if n.leaf != nil {
		out = append(out, Entry[V]{Key: prefix, Value: n.leaf.value})
	}
	for c := 0; c < 256; c++ {
		if e, ok := n.childFor(byte(c)); ok {
			out = append(out, collect(e.node, prefix+e.label)...)
		}
	}
	return out
}
