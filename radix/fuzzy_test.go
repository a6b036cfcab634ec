package radix

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFuzzyGetExactAndNear(t *testing.T) {
	m := New[int]()
	m.Set("gente", 1)
	m.Set("gentes", 2)
	m.Set("genuine", 3)
	m.Set("cat", 4)

	got := m.FuzzyGet("gente", 0)
	require.Len(t, got, 1)
	require.Equal(t, 0, got["gente"].Distance)

	got = m.FuzzyGet("gente", 1)
	require.Contains(t, got, "gente")
	require.Contains(t, got, "gentes")
	require.Equal(t, 1, got["gentes"].Distance)
	require.NotContains(t, got, "genuine")
	require.NotContains(t, got, "cat")
}

func TestFuzzyGetPrunesFarBranches(t *testing.T) {
	m := New[int]()
	m.Set("hello", 1)
	m.Set("xxxxxxxxxxxxxxxxxxxx", 2)

	got := m.FuzzyGet("hello", 1)
	require.Len(t, got, 1)
	require.Contains(t, got, "hello")
}

func TestFuzzyGetCacheInvalidatesOnMutation(t *testing.T) {
	m := New[int]()
	m.Set("alpha", 1)

	got := m.FuzzyGet("alpha", 1)
	require.Len(t, got, 1)

	m.Set("alphb", 2)
	got = m.FuzzyGet("alpha", 1)
	require.Len(t, got, 2)
}

func TestFuzzyGetEmptyQuery(t *testing.T) {
	m := New[int]()
	m.Set("a", 1)
	m.Set("ab", 2)

	got := m.FuzzyGet("", 1)
	require.Contains(t, got, "a")
	require.NotContains(t, got, "ab")
}
