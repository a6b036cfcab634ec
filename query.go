package fulltext

// Query is either a free-form string or a recursive Boolean tree of
// sub-queries.
type Query[ID comparable] interface {
	isQuery()
}

// StringQuery is a plain-text query, tokenized and processed with the
// search-time tokenizer/term processor.
type StringQuery string

func (StringQuery) isQuery() {}

// TreeQuery combines several sub-queries with a Boolean operator,
// layering its own SearchOptions atop whatever the caller passed to
// Search (child-wins union when the tree itself is re-merged with the
// subqueries).
type TreeQuery[ID comparable] struct {
	CombineWith string
	Queries     []Query[ID]
	Options     SearchOptions[ID]
}

func (TreeQuery[ID]) isQuery() {}

type wildcardQuery struct{}

func (wildcardQuery) isQuery() {}

// Wildcard is the opaque sentinel query value that matches every live
// document with score 1 before filtering and boosting. It is a distinct
// type, never confusable with the ordinary string "*".
func Wildcard[ID comparable]() Query[ID] { return wildcardQuery{} }

func isWildcard[ID comparable](q Query[ID]) bool {
	_, ok := q.(wildcardQuery)
	return ok
}

// TermSpec is a single derived query term together with its expansion
// flags, as produced by the query compiler.
type TermSpec struct {
	Term   string
	Source string
	Prefix bool
	// Fuzzy is nil (no expansion), a bool, or a number (float64/int).
	Fuzzy any
}

// deriveTermSpecs tokenizes and processes text with the search-time
// pipeline (no field name in scope), then resolves the prefix/fuzzy
// flag for every resulting term.
func deriveTermSpecs[ID comparable](text string, opts SearchOptions[ID]) []TermSpec {
	tokenizer := opts.Tokenize
	if tokenizer == nil {
		tokenizer = defaultTokenize
	}
	processor := opts.ProcessTerm
	if processor == nil {
		processor = defaultProcessTerm
	}

	var terms []string
	for _, tok := range tokenizer(text, "") {
		res := processor(tok, "")
		if res.isDrop() {
			continue
		}
		terms = append(terms, res.terms...)
	}

	specs := make([]TermSpec, len(terms))
	for i, term := range terms {
		specs[i] = TermSpec{
			Term:   term,
			Source: term,
			Prefix: resolvePrefix(opts.Prefix, term, i, terms),
			Fuzzy:  resolveFuzzy(opts.Fuzzy, term, i, terms),
		}
	}
	return specs
}

func resolvePrefix(opt PrefixOption, term string, index int, all []string) bool {
	switch v := opt.(type) {
	case nil:
		return false
	case bool:
		return v
	case func(string, int, []string) bool:
		return v(term, index, all)
	default:
		return false
	}
}

func resolveFuzzy(opt FuzzyOption, term string, index int, all []string) any {
	switch v := opt.(type) {
	case nil:
		return nil
	case func(string, int, []string) any:
		return v(term, index, all)
	default:
		return v
	}
}

// autoSuggestPrefixLastTerm implements the "prefix true for the last term
// only" default used by auto-suggest.
func autoSuggestPrefixLastTerm(_ string, index int, all []string) bool {
	return index == len(all)-1
}
