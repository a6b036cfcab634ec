package fulltext

// ShortID is the dense, monotonically increasing internal document
// identifier assigned on insertion. It is never reused, even after the
// document it names is removed.
type ShortID uint64

// FieldID is the dense 0..F-1 identifier assigned to a configured field
// name once, at construction time.
type FieldID int

// Document is the opaque record the engine ingests. Only the configured
// FieldExtractor and Tokenizer ever look inside it.
type Document map[string]any

// TermResult is what a TermProcessor returns for a single raw token: drop
// it, index it as one term, or expand it into several.
type TermResult struct {
	drop  bool
	terms []string
}

// DropTerm discards a token entirely.
func DropTerm() TermResult { return TermResult{drop: true} }

// OneTerm indexes token as the single processed term.
func OneTerm(term string) TermResult { return TermResult{terms: []string{term}} }

// ManyTerms expands a token into several processed terms, each indexed.
func ManyTerms(terms ...string) TermResult { return TermResult{terms: terms} }

func (r TermResult) isDrop() bool { return r.drop || (len(r.terms) == 0) }
