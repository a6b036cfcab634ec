package fulltext

import "unicode"

// FieldExtractor reads a single primitive field value out of a document.
type FieldExtractor func(doc Document, field string) any

// Tokenizer splits text into an ordered sequence of raw tokens. field is
// set to the field name being indexed during ingestion and left empty
// during query-time tokenization.
type Tokenizer func(text string, field string) []string

// TermProcessor normalizes a single raw token, optionally dropping it or
// expanding it into several terms.
type TermProcessor func(term string, field string) TermResult

// BoostDocument lets a caller scale or veto (score 0) a single document's
// contribution to a single term spec's match.
type BoostDocument[ID comparable] func(id ID, derivedTerm string, stored Document) float64

// BM25Params are the three tunables of the BM25+ formula.
type BM25Params struct {
	K float64
	B float64
	D float64
}

// DefaultBM25Params returns the standard BM25+ tuning (K=1.2, B=0.7, D=0.5).
func DefaultBM25Params() BM25Params {
	return BM25Params{K: 1.2, B: 0.7, D: 0.5}
}

// VacuumConfig controls batching of a single vacuum pass.
type VacuumConfig struct {
	BatchSize int
	BatchWait_ms int
}

// VacuumConditions gates whether a scheduled vacuum actually walks the
// postings. A nil *VacuumConditions is "unconditional": always run.
type VacuumConditions struct {
	MinDirtCount  int
	MinDirtFactor float64
}

// AutoVacuumConfig configures the automatic vacuuming triggered by
// Discard. A nil AutoVacuumConfig on Config enables auto-vacuum with
// DefaultAutoVacuumConfig(); Config.AutoVacuumDisabled turns it off.
type AutoVacuumConfig struct {
	BatchSize     int
	BatchWait_ms  int
	MinDirtCount  int
	MinDirtFactor float64
}

// DefaultAutoVacuumConfig returns the standard auto-vacuum thresholds
// (B=1000, W=10ms, Dmin=20, Fmin=0.1).
func DefaultAutoVacuumConfig() *AutoVacuumConfig {
	return &AutoVacuumConfig{BatchSize: 1000, BatchWait_ms: 10, MinDirtCount: 20, MinDirtFactor: 0.1}
}

// Config configures construction of an Index.
type Config[ID comparable] struct {
	Fields      []string
	IDField     string
	StoreFields []string

	ExtractField FieldExtractor
	Tokenize     Tokenizer
	ProcessTerm  TermProcessor
	Logger       Logger

	// AutoVacuum holds the thresholds auto-vacuum runs with; nil means
	// "enabled with defaults", matching DefaultAutoVacuumConfig(). Set
	// AutoVacuumDisabled to turn it off entirely.
	AutoVacuum         *AutoVacuumConfig
	AutoVacuumDisabled bool

	SearchOptions      SearchOptions[ID]
	AutoSuggestOptions SearchOptions[ID]
}

// PrefixOption is either a bool, or a func(term string, index int, all
// []string) bool — the effective value is resolved per-term.
type PrefixOption any

// FuzzyOption is either a bool, a number (int or float64), or a
// func(term string, index int, all []string) any returning one of those.
type FuzzyOption any

// SearchOptions configures one search (or auto-suggest) call. Zero values
// mean "not set"; merging with defaults is field-by-field, right-most
// wins.
type SearchOptions[ID comparable] struct {
	Fields       []string
	Filter       func(Result[ID]) bool
	Boost        map[string]float64
	WeightFuzzy  float64
	WeightPrefix float64
	BoostDocument BoostDocument[ID]
	Prefix       PrefixOption
	Fuzzy        FuzzyOption
	MaxFuzzy     int
	CombineWith  string
	Tokenize     Tokenizer
	ProcessTerm  TermProcessor
	BM25         BM25Params

	set fieldSet
}

// fieldSet tracks which SearchOptions fields were explicitly assigned, so
// mergeSearchOptions can implement right-most-wins without a defined zero
// value colliding with an intentional zero (e.g. WeightFuzzy: 0).
type fieldSet struct {
	fields, boost, weightFuzzy, weightPrefix, boostDocument bool
	prefix, fuzzy, maxFuzzy, combineWith, tokenize          bool
	processTerm, bm25, filter                               bool
}

func (o SearchOptions[ID]) withFields(v []string) SearchOptions[ID] {
	o.Fields, o.set.fields = v, true
	return o
}
func (o SearchOptions[ID]) withFilter(v func(Result[ID]) bool) SearchOptions[ID] {
	o.Filter, o.set.filter = v, true
	return o
}
func (o SearchOptions[ID]) withBoost(v map[string]float64) SearchOptions[ID] {
	o.Boost, o.set.boost = v, true
	return o
}
func (o SearchOptions[ID]) withWeightFuzzy(v float64) SearchOptions[ID] {
	o.WeightFuzzy, o.set.weightFuzzy = v, true
	return o
}
func (o SearchOptions[ID]) withWeightPrefix(v float64) SearchOptions[ID] {
	o.WeightPrefix, o.set.weightPrefix = v, true
	return o
}
func (o SearchOptions[ID]) withBoostDocument(v BoostDocument[ID]) SearchOptions[ID] {
	o.BoostDocument, o.set.boostDocument = v, true
	return o
}
func (o SearchOptions[ID]) withPrefix(v PrefixOption) SearchOptions[ID] {
	o.Prefix, o.set.prefix = v, true
	return o
}
func (o SearchOptions[ID]) withFuzzy(v FuzzyOption) SearchOptions[ID] {
	o.Fuzzy, o.set.fuzzy = v, true
	return o
}
func (o SearchOptions[ID]) withMaxFuzzy(v int) SearchOptions[ID] {
	o.MaxFuzzy, o.set.maxFuzzy = v, true
	return o
}
func (o SearchOptions[ID]) withCombineWith(v string) SearchOptions[ID] {
	o.CombineWith, o.set.combineWith = v, true
	return o
}
func (o SearchOptions[ID]) withTokenize(v Tokenizer) SearchOptions[ID] {
	o.Tokenize, o.set.tokenize = v, true
	return o
}
func (o SearchOptions[ID]) withProcessTerm(v TermProcessor) SearchOptions[ID] {
	o.ProcessTerm, o.set.processTerm = v, true
	return o
}
func (o SearchOptions[ID]) withBM25(v BM25Params) SearchOptions[ID] {
	o.BM25, o.set.bm25 = v, true
	return o
}

// merge overlays override atop o, right-most (override) wins per set field.
func (o SearchOptions[ID]) merge(override SearchOptions[ID]) SearchOptions[ID] {
	s := &override.set
	s.fields = s.fields || override.Fields != nil
	s.filter = s.filter || override.Filter != nil
	s.boost = s.boost || override.Boost != nil
	s.weightFuzzy = s.weightFuzzy || override.WeightFuzzy != 0
	s.weightPrefix = s.weightPrefix || override.WeightPrefix != 0
	s.boostDocument = s.boostDocument || override.BoostDocument != nil
	s.prefix = s.prefix || override.Prefix != nil
	s.fuzzy = s.fuzzy || override.Fuzzy != nil
	s.maxFuzzy = s.maxFuzzy || override.MaxFuzzy != 0
	s.combineWith = s.combineWith || override.CombineWith != ""
	s.tokenize = s.tokenize || override.Tokenize != nil
	s.processTerm = s.processTerm || override.ProcessTerm != nil
	s.bm25 = s.bm25 || override.BM25 != (BM25Params{})
	result := o
	if override.set.fields {
		result = result.withFields(override.Fields)
	}
	if override.set.filter {
		result = result.withFilter(override.Filter)
	}
	if override.set.boost {
		result = result.withBoost(override.Boost)
	}
	if override.set.weightFuzzy {
		result = result.withWeightFuzzy(override.WeightFuzzy)
	}
	if override.set.weightPrefix {
		result = result.withWeightPrefix(override.WeightPrefix)
	}
	if override.set.boostDocument {
		result = result.withBoostDocument(override.BoostDocument)
	}
	if override.set.prefix {
		result = result.withPrefix(override.Prefix)
	}
	if override.set.fuzzy {
		result = result.withFuzzy(override.Fuzzy)
	}
	if override.set.maxFuzzy {
		result = result.withMaxFuzzy(override.MaxFuzzy)
	}
	if override.set.combineWith {
		result = result.withCombineWith(override.CombineWith)
	}
	if override.set.tokenize {
		result = result.withTokenize(override.Tokenize)
	}
	if override.set.processTerm {
		result = result.withProcessTerm(override.ProcessTerm)
	}
	if override.set.bm25 {
		result = result.withBM25(override.BM25)
	}
	return result
}

// defaultTokenize splits on runs of Unicode letters and ASCII digits,
// treating everything else as a separator.
func defaultTokenize(text string, _ string) []string {
	var tokens []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			tokens = append(tokens, string(cur))
			cur = cur[:0]
		}
	}
	for _, r := range text {
		if unicode.IsLetter(r) || (r >= '0' && r <= '9') {
			cur = append(cur, r)
		} else {
			flush()
		}
	}
	flush()
	return tokens
}

func defaultProcessTerm(term string, _ string) TermResult {
	return OneTerm(toLower(term))
}

func toLower(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		out = append(out, unicode.ToLower(r))
	}
	return string(out)
}

func defaultExtractField(doc Document, field string) any {
	return doc[field]
}
