package fulltext

import "github.com/go-fulltext/fulltext/radix"

// fieldPostings is the value type stored per term in the postings radix
// tree: field-id -> short-id -> term frequency.
type fieldPostings = map[FieldID]map[ShortID]uint32

// postingsStore is the postings store (C2): a radix.Map keyed by
// processed term.
type postingsStore struct {
	tree *radix.Map[fieldPostings]
}

func newPostingsStore() *postingsStore {
	return &postingsStore{tree: radix.New[fieldPostings]()}
}

// index adds one occurrence of term in (field, doc), creating submaps as
// needed.
func (p *postingsStore) index(term string, field FieldID, doc ShortID) {
	byField := p.tree.Fetch(term, func() fieldPostings { return make(fieldPostings) })
	byDoc, ok := (*byField)[field]
	if !ok {
		byDoc = make(map[ShortID]uint32)
		(*byField)[field] = byDoc
	}
	byDoc[doc]++
}

// deindex removes one occurrence of term in (field, doc), pruning empty
// submaps eagerly. It reports whether the posting existed at all, so
// callers can raise the version_conflict warning when it didn't.
func (p *postingsStore) deindex(term string, field FieldID, doc ShortID) bool {
	byField, ok := p.tree.Get(term)
	if !ok {
		return false
	}
	byDoc, ok := byField[field]
	if !ok {
		return false
	}
	freq, ok := byDoc[doc]
	if !ok {
		return false
	}
	if freq <= 1 {
		delete(byDoc, doc)
	} else {
		byDoc[doc] = freq - 1
	}
	if len(byDoc) == 0 {
		delete(byField, field)
	}
	if len(byField) == 0 {
		p.tree.Delete(term)
	}
	return true
}

func (p *postingsStore) get(term string) (fieldPostings, bool) {
	return p.tree.Get(term)
}

func (p *postingsStore) atPrefix(term string) *radix.View[fieldPostings] {
	return p.tree.AtPrefix(term)
}

func (p *postingsStore) fuzzyGet(term string, maxDistance int) map[string]radix.FuzzyMatch[fieldPostings] {
	return p.tree.FuzzyGet(term, maxDistance)
}

// terms returns every term currently posted, a snapshot safe to range
// over while the postings themselves are mutated concurrently (used by
// the vacuum scheduler).
func (p *postingsStore) terms() []string {
	return p.tree.Keys()
}
