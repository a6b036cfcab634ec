package radix

import (
	"testing"

	"github.com/hashicorp/go-uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slices"
)

func TestMapGetSetHas(t *testing.T) {
	m := New[int]()
	_, ok := m.Get("hello")
	require.False(t, ok)

	m.Set("hello", 1)
	m.Set("help", 2)
	m.Set("helicopter", 3)

	v, ok := m.Get("hello")
	require.True(t, ok)
	require.Equal(t, 1, v)

	require.True(t, m.Has("help"))
	require.False(t, m.Has("he"))
	require.False(t, m.Has("hell"))
	require.Equal(t, 3, m.Len())
}

func TestMapSplitsSharedEdges(t *testing.T) {
	m := New[string]()
	m.Set("romane", "a")
	m.Set("romanus", "b")
	m.Set("romulus", "c")
	m.Set("rom", "d")

	for _, k := range []string{"romane", "romanus", "romulus", "rom"} {
		require.True(t, m.Has(k), k)
	}
	require.False(t, m.Has("roman"))
	require.Equal(t, 4, m.Len())
}

func TestMapUpdateAndFetch(t *testing.T) {
	m := New[int]()
	m.Update("count", func(cur int, existed bool) int {
		require.False(t, existed)
		return cur + 1
	})
	m.Update("count", func(cur int, existed bool) int {
		require.True(t, existed)
		return cur + 1
	})
	v, _ := m.Get("count")
	require.Equal(t, 2, v)

	p := m.Fetch("lazy", func() int { return 41 })
	*p++
	v, ok := m.Get("lazy")
	require.True(t, ok)
	require.Equal(t, 42, v)
}

func TestMapDeleteCompresses(t *testing.T) {
	m := New[int]()
	m.Set("test", 1)
	m.Set("team", 2)
	m.Set("toast", 3)

	require.True(t, m.Delete("team"))
	require.False(t, m.Delete("team"))
	require.True(t, m.Has("test"))
	require.True(t, m.Has("toast"))
	require.Equal(t, 2, m.Len())

	require.True(t, m.Delete("test"))
	require.True(t, m.Delete("toast"))
	require.Equal(t, 0, m.Len())
	require.True(t, m.root.isEmpty())
}

func TestMapEntriesOrderDeterministic(t *testing.T) {
	m := New[int]()
	words := []string{"delta", "alpha", "charlie", "bravo"}
	for i, w := range words {
		m.Set(w, i)
	}
	keys1 := m.Keys()
	keys2 := m.Keys()
	require.Equal(t, keys1, keys2)

	sorted := append([]string{}, words...)
	slices.Sort(sorted)
	actual := append([]string{}, keys1...)
	slices.Sort(actual)
	require.Equal(t, sorted, actual)
}

func TestMapRandomKeysRoundTrip(t *testing.T) {
	m := New[string]()
	want := map[string]string{}
	for i := 0; i < 200; i++ {
		k, err := uuid.GenerateUUID()
		require.NoError(t, err)
		m.Set(k, k)
		want[k] = k
	}
	require.Equal(t, len(want), m.Len())
	for k, v := range want {
		got, ok := m.Get(k)
		require.True(t, ok)
		require.Equal(t, v, got)
	}
}

func TestAtPrefix(t *testing.T) {
	m := New[int]()
	m.Set("car", 1)
	m.Set("carbon", 2)
	m.Set("cart", 3)
	m.Set("dog", 4)

	view := m.AtPrefix("car")
	require.Equal(t, 3, view.Len())
	keys := view.Keys()
	slices.Sort(keys)
	require.Equal(t, []string{"", "bon", "t"}, keys)

	require.Equal(t, 0, m.AtPrefix("xyz").Len())
	require.Equal(t, 4, m.AtPrefix("").Len())
}

func TestAtPrefixMidEdgeSynthesizesNode(t *testing.T) {
	m := New[int]()
	m.Set("application", 1)
	m.Set("apple", 2)

	view := m.AtPrefix("app")
	require.Equal(t, 2, view.Len())
	keys := view.Keys()
	slices.Sort(keys)
	require.Equal(t, []string{"le", "lication"}, keys)
}
