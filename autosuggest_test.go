package fulltext

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAutoSuggestGroupsByMatchedTerms(t *testing.T) {
	idx := newCorpus(t)
	suggestions, err := idx.AutoSuggest("cro", SearchOptions[string]{})
	require.NoError(t, err)
	require.NotEmpty(t, suggestions)
	for _, s := range suggestions {
		require.NotEmpty(t, s.Suggestion)
		require.Greater(t, s.Score, 0.0)
	}
}

func TestAutoSuggestOrderedByScoreDescending(t *testing.T) {
	idx := newCorpus(t)
	suggestions, err := idx.AutoSuggest("crow season", SearchOptions[string]{})
	require.NoError(t, err)
	for i := 1; i < len(suggestions); i++ {
		require.GreaterOrEqual(t, suggestions[i-1].Score, suggestions[i].Score)
	}
}

func TestAutoSuggestEmptyCorpusYieldsNoSuggestions(t *testing.T) {
	idx := newTestIndex(t)
	suggestions, err := idx.AutoSuggest("anything", SearchOptions[string]{})
	require.NoError(t, err)
	require.Empty(t, suggestions)
}
