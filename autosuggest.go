package fulltext

import (
	"sort"
	"strings"
)

// Suggestion is one ranked completion returned by AutoSuggest: the
// space-joined, sorted set of derived terms that a group of matching
// documents shared, with an averaged score.
type Suggestion struct {
	Suggestion string
	Terms      []string
	Score      float64
}

type suggestionGroup struct {
	terms []string
	sum   float64
	count int
}

// AutoSuggest runs queryText against idx.autoSuggestDefaults (merged
// with opts), then groups the resulting documents by the sorted,
// space-joined set of derived terms they matched on, scoring each group
// by its average document score.
func (idx *Index[ID]) AutoSuggest(queryText string, opts SearchOptions[ID]) ([]Suggestion, error) {
	merged := idx.autoSuggestDefaults.merge(opts)
	results, err := idx.Search(StringQuery(queryText), merged)
	if err != nil {
		return nil, err
	}

	groups := make(map[string]*suggestionGroup)
	var order []string
	for _, r := range results {
		terms := append([]string(nil), r.Terms...)
		sort.Strings(terms)
		key := strings.Join(terms, " ")
		if key == "" {
			continue
		}
		g, ok := groups[key]
		if !ok {
			g = &suggestionGroup{terms: terms}
			groups[key] = g
			order = append(order, key)
		}
		g.sum += r.Score
		g.count++
	}

	suggestions := make([]Suggestion, 0, len(order))
	for _, key := range order {
		g := groups[key]
		suggestions = append(suggestions, Suggestion{
			Suggestion: key,
			Terms:      g.terms,
			Score:      g.sum / float64(g.count),
		})
	}
	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Score > suggestions[j].Score
	})
	return suggestions, nil
}
