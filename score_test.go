package fulltext

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func mustAdd[ID comparable](t *testing.T, idx *Index[ID], doc Document) {
	t.Helper()
	require.NoError(t, idx.Add(doc))
}

func newCorpus(t *testing.T) *Index[string] {
	t.Helper()
	idx, err := New(Config[string]{
		Fields:             []string{"title", "body"},
		StoreFields:        []string{"title"},
		AutoVacuumDisabled: true,
	})
	require.NoError(t, err)
	mustAdd(t, idx, Document{"id": "1", "title": "The Old Crow", "body": "a raven sits on the old fence post"})
	mustAdd(t, idx, Document{"id": "2", "title": "Crow Season", "body": "hunters gather every crow season"})
	mustAdd(t, idx, Document{"id": "3", "title": "Quiet Pond", "body": "nothing here mentions birds at all"})
	return idx
}

func TestSearchRanksByBM25(t *testing.T) {
	idx := newCorpus(t)
	results, err := idx.Search(StringQuery("crow"), SearchOptions[string]{})
	require.NoError(t, err)
	require.Len(t, results, 2)
	ids := []string{results[0].ID, results[1].ID}
	require.ElementsMatch(t, []string{"1", "2"}, ids)
	for _, r := range results {
		require.Greater(t, r.Score, 0.0)
	}
}

func TestSearchDefaultCombineIsOR(t *testing.T) {
	idx := newCorpus(t)
	results, err := idx.Search(StringQuery("crow pond"), SearchOptions[string]{})
	require.NoError(t, err)
	require.Len(t, results, 3)
}

func TestSearchCombineWithAndRequiresAllTerms(t *testing.T) {
	idx := newCorpus(t)
	results, err := idx.Search(StringQuery("crow season"), SearchOptions[string]{}.withCombineWith("AND"))
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "2", results[0].ID)
}

func TestSearchInvalidCombinator(t *testing.T) {
	idx := newCorpus(t)
	_, err := idx.Search(StringQuery("crow"), SearchOptions[string]{}.withCombineWith("XOR"))
	require.ErrorIs(t, err, ErrInvalidCombinator)
}

func TestSearchPrefixExpansion(t *testing.T) {
	idx := newCorpus(t)
	results, err := idx.Search(StringQuery("cro"), SearchOptions[string]{}.withPrefix(PrefixOption(true)))
	require.NoError(t, err)
	require.Len(t, results, 2)
}

func TestSearchFuzzyExpansion(t *testing.T) {
	idx := newCorpus(t)
	results, err := idx.Search(StringQuery("craw"), SearchOptions[string]{}.withFuzzy(FuzzyOption(1)))
	require.NoError(t, err)
	require.Len(t, results, 2)
}

func TestSearchFilterPredicate(t *testing.T) {
	idx := newCorpus(t)
	onlyOne := func(r Result[string]) bool { return r.ID == "1" }
	results, err := idx.Search(StringQuery("crow"), SearchOptions[string]{}.withFilter(onlyOne))
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "1", results[0].ID)
}

func TestSearchFieldRestriction(t *testing.T) {
	idx := newCorpus(t)
	results, err := idx.Search(StringQuery("season"), SearchOptions[string]{}.withFields([]string{"title"}))
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "2", results[0].ID)
}

func TestSearchBoostDocumentVetoesMatch(t *testing.T) {
	idx := newCorpus(t)
	veto := func(id string, _ string, _ Document) float64 {
		if id == "2" {
			return 0
		}
		return 1
	}
	results, err := idx.Search(StringQuery("crow"), SearchOptions[string]{}.withBoostDocument(veto))
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "1", results[0].ID)
}

func TestSearchWildcardReturnsEveryLiveDocument(t *testing.T) {
	idx := newCorpus(t)
	results, err := idx.Search(Wildcard[string](), SearchOptions[string]{})
	require.NoError(t, err)
	require.Len(t, results, 3)
	for _, r := range results {
		require.Equal(t, 1.0, r.Score)
	}
}

func TestSearchTreeQueryAndNot(t *testing.T) {
	idx := newCorpus(t)
	tree := TreeQuery[string]{
		CombineWith: "AND_NOT",
		Queries: []Query[string]{
			Wildcard[string](),
			StringQuery("crow"),
		},
	}
	results, err := idx.Search(tree, SearchOptions[string]{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "3", results[0].ID)
}

func TestSearchTreeQueryChildOptionsWinOverParent(t *testing.T) {
	idx := newCorpus(t)
	tree := TreeQuery[string]{
		CombineWith: "OR",
		Queries: []Query[string]{
			StringQuery("crow"),
			StringQuery("pond"),
		},
		Options: SearchOptions[string]{}.withFields([]string{"title"}),
	}
	results, err := idx.Search(tree, SearchOptions[string]{}.withFields([]string{"body"}))
	require.NoError(t, err)
	ids := make([]string, len(results))
	for i, r := range results {
		ids[i] = r.ID
	}
	require.ElementsMatch(t, []string{"1", "2", "3"}, ids)
}

func TestSearchAfterDiscardExcludesDiscarded(t *testing.T) {
	idx := newCorpus(t)
	require.NoError(t, idx.Discard("1"))
	results, err := idx.Search(StringQuery("crow"), SearchOptions[string]{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "2", results[0].ID)
}

func TestSearchStoredFieldsReturned(t *testing.T) {
	idx := newCorpus(t)
	results, err := idx.Search(StringQuery("pond"), SearchOptions[string]{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "Quiet Pond", results[0].Stored["title"])
	_, hasBody := results[0].Stored["body"]
	require.False(t, hasBody)
}
