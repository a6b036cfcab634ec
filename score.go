package fulltext

import (
	"math"
	"sort"
	"strings"

	"golang.org/x/exp/slices"
)

// Result is a single ranked hit returned by Search.
type Result[ID comparable] struct {
	ID         ID
	Score      float64
	Terms      []string            // derived terms actually matched
	QueryTerms []string            // source (query) terms that contributed
	Match      map[string][]string // derived term -> field names it matched in
	Stored     Document
}

// rawResult accumulates the still-unranked contribution of every matching
// term spec for a single document, before quality scaling and
// materialization.
type rawResult[ID comparable] struct {
	short       ShortID
	score       float64
	sourceTerms []string
	sourceSeen  map[string]bool
	matchOrder  []string
	match       map[string]map[string]bool
}

// resultAccumulator is an insertion-ordered map[ShortID]*rawResult. The
// insertion order it records is what the final ranking's stable sort
// breaks score ties with.
type resultAccumulator[ID comparable] struct {
	byShort map[ShortID]*rawResult[ID]
	order   []ShortID
}

func newResultAccumulator[ID comparable]() *resultAccumulator[ID] {
	return &resultAccumulator[ID]{byShort: make(map[ShortID]*rawResult[ID])}
}

func (a *resultAccumulator[ID]) entry(short ShortID) *rawResult[ID] {
	r, ok := a.byShort[short]
	if !ok {
		r = &rawResult[ID]{short: short, sourceSeen: make(map[string]bool), match: make(map[string]map[string]bool)}
		a.byShort[short] = r
		a.order = append(a.order, short)
	}
	return r
}

func (a *resultAccumulator[ID]) add(short ShortID, score float64, sourceTerm, derivedTerm, field string) {
	r := a.entry(short)
	r.score += score
	if sourceTerm != "" && !r.sourceSeen[sourceTerm] {
		r.sourceSeen[sourceTerm] = true
		r.sourceTerms = append(r.sourceTerms, sourceTerm)
	}
	fields, ok := r.match[derivedTerm]
	if !ok {
		fields = make(map[string]bool)
		r.match[derivedTerm] = fields
		r.matchOrder = append(r.matchOrder, derivedTerm)
	}
	fields[field] = true
}

// mergeFrom copies src's accumulated contribution for short into a,
// summing scores and unioning match/source-term sets (the rule shared by
// every Boolean combiner).
func (a *resultAccumulator[ID]) mergeFrom(src *rawResult[ID]) {
	dst := a.entry(src.short)
	dst.score += src.score
	for _, term := range src.sourceTerms {
		if !dst.sourceSeen[term] {
			dst.sourceSeen[term] = true
			dst.sourceTerms = append(dst.sourceTerms, term)
		}
	}
	for _, derived := range src.matchOrder {
		fields, ok := dst.match[derived]
		if !ok {
			fields = make(map[string]bool)
			dst.match[derived] = fields
			dst.matchOrder = append(dst.matchOrder, derived)
		}
		for f := range src.match[derived] {
			fields[f] = true
		}
	}
}

func combineOR[ID comparable](left, right *resultAccumulator[ID]) *resultAccumulator[ID] {
	out := newResultAccumulator[ID]()
	for _, short := range left.order {
		out.mergeFrom(left.byShort[short])
	}
	for _, short := range right.order {
		out.mergeFrom(right.byShort[short])
	}
	return out
}

func combineAND[ID comparable](left, right *resultAccumulator[ID]) *resultAccumulator[ID] {
	out := newResultAccumulator[ID]()
	for _, short := range left.order {
		if r, ok := right.byShort[short]; ok {
			out.mergeFrom(left.byShort[short])
			out.mergeFrom(r)
		}
	}
	return out
}

func combineANDNOT[ID comparable](left, right *resultAccumulator[ID]) *resultAccumulator[ID] {
	out := newResultAccumulator[ID]()
	for _, short := range left.order {
		if _, ok := right.byShort[short]; !ok {
			out.mergeFrom(left.byShort[short])
		}
	}
	return out
}

func normalizeCombinator(s string) (string, error) {
	switch strings.ToUpper(s) {
	case "", "OR":
		return "OR", nil
	case "AND":
		return "AND", nil
	case "AND_NOT":
		return "AND_NOT", nil
	default:
		return "", ErrInvalidCombinator
	}
}

func combineSeq[ID comparable](results []*resultAccumulator[ID], op string) (*resultAccumulator[ID], error) {
	normalized, err := normalizeCombinator(op)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return newResultAccumulator[ID](), nil
	}
	combined := results[0]
	for _, next := range results[1:] {
		switch normalized {
		case "AND":
			combined = combineAND(combined, next)
		case "AND_NOT":
			combined = combineANDNOT(combined, next)
		default:
			combined = combineOR(combined, next)
		}
	}
	return combined, nil
}

// bm25Plus computes the BM25+ score of a single (term, field, doc)
// posting.
func bm25Plus(params BM25Params, n, df int, tf uint32, length int, avgLength float64) float64 {
	idf := math.Log(1 + (float64(n)-float64(df)+0.5)/(float64(df)+0.5))
	ratio := 1.0
	if avgLength > 0 {
		ratio = float64(length) / avgLength
	}
	tfComponent := (float64(tf) * (params.K + 1)) / (float64(tf) + params.K*(1-params.B+params.B*ratio))
	return idf * (params.D + tfComponent)
}

func fieldBoost[ID comparable](opts SearchOptions[ID], field string) float64 {
	if opts.Boost == nil {
		return 1
	}
	if b, ok := opts.Boost[field]; ok {
		return b
	}
	return 1
}

func fieldAllowed[ID comparable](opts SearchOptions[ID], field string) bool {
	if len(opts.Fields) == 0 {
		return true
	}
	for _, f := range opts.Fields {
		if f == field {
			return true
		}
	}
	return false
}

// scorePosting scores every live (doc, field) entry of postings against
// derivedTerm, scrubbing
// stale short-id references opportunistically, and accumulates
// weight*bm25Plus under sourceTerm/derivedTerm into acc. idx.mu is held
// by the caller.
func scorePosting[ID comparable](idx *Index[ID], postings fieldPostings, sourceTerm, derivedTerm string, weight float64, opts SearchOptions[ID], acc *resultAccumulator[ID]) {
	for fieldID, byDoc := range postings {
		fieldName := idx.fields[fieldID]
		if !fieldAllowed(opts, fieldName) {
			continue
		}

		live := make([]ShortID, 0, len(byDoc))
		for short := range byDoc {
			if idx.registry.isLive(short) {
				live = append(live, short)
			} else {
				delete(byDoc, short)
			}
		}
		if len(byDoc) == 0 {
			delete(postings, fieldID)
		}
		df := len(live)
		if df == 0 {
			continue
		}

		for _, short := range live {
			tf := byDoc[short]
			length := idx.registry.fieldLen(short, fieldID)
			avgLen := idx.registry.avgFieldLength[fieldID]
			base := bm25Plus(opts.BM25, idx.registry.liveCount, df, tf, length, avgLen)

			docBoost := 1.0
			if opts.BoostDocument != nil {
				extID := idx.registry.extOf[short]
				docBoost = opts.BoostDocument(extID, derivedTerm, idx.registry.storedFields[short])
				if docBoost == 0 {
					continue
				}
			}

			score := base * fieldBoost(opts, fieldName) * docBoost * weight
			acc.add(short, score, sourceTerm, derivedTerm, fieldName)
		}
	}
	if len(postings) == 0 {
		idx.postings.tree.Delete(derivedTerm)
	}
}

// scoreTermSpec executes one term spec's exact/prefix/fuzzy expansion
// into a fresh accumulator.
func scoreTermSpec[ID comparable](idx *Index[ID], spec TermSpec, opts SearchOptions[ID]) *resultAccumulator[ID] {
	acc := newResultAccumulator[ID]()

	if postings, ok := idx.postings.get(spec.Term); ok {
		scorePosting(idx, postings, spec.Source, spec.Term, 1.0, opts, acc)
	}

	prefixMatched := make(map[string]bool)
	if spec.Prefix {
		for _, entry := range idx.postings.atPrefix(spec.Term).Entries() {
			candidate := spec.Term + entry.Key
			distance := len(entry.Key)
			if distance <= 0 {
				continue
			}
			prefixMatched[candidate] = true
			weight := opts.WeightPrefix * float64(len(candidate)) / (float64(len(candidate)) + 0.3*float64(distance))
			scorePosting(idx, entry.Value, spec.Source, candidate, weight, opts, acc)
		}
	}

	if spec.Fuzzy != nil {
		if maxDistance, ok := effectiveFuzzyDistance(spec.Fuzzy, spec.Term, opts.MaxFuzzy); ok {
			for candidate, match := range idx.postings.fuzzyGet(spec.Term, maxDistance) {
				if prefixMatched[candidate] || match.Distance <= 0 {
					continue
				}
				weight := opts.WeightFuzzy * float64(len(candidate)) / (float64(len(candidate)) + float64(match.Distance))
				scorePosting(idx, match.Value, spec.Source, candidate, weight, opts, acc)
			}
		}
	}

	return acc
}

// effectiveFuzzyDistance resolves the fuzzy option into a concrete max
// edit distance. ok is false when fuzzy is explicitly disabled (a bool
// false).
func effectiveFuzzyDistance(fuzzy any, term string, maxFuzzy int) (int, bool) {
	if maxFuzzy <= 0 {
		maxFuzzy = 6
	}
	ratio := -1.0
	switch v := fuzzy.(type) {
	case bool:
		if !v {
			return 0, false
		}
		ratio = 0.2
	case float64:
		if v >= 1 {
			return int(v), true
		}
		ratio = v
	case int:
		if v >= 1 {
			return v, true
		}
		ratio = float64(v)
	default:
		return 0, false
	}
	d := int(math.Round(float64(len(term)) * ratio))
	if d > maxFuzzy {
		d = maxFuzzy
	}
	if d < 0 {
		d = 0
	}
	return d, true
}

func wildcardResults[ID comparable](idx *Index[ID]) *resultAccumulator[ID] {
	acc := newResultAccumulator[ID]()
	for short := ShortID(0); short < idx.registry.nextShortID; short++ {
		if idx.registry.isLive(short) {
			acc.entry(short).score = 1
		}
	}
	return acc
}

// executeQuery recursively evaluates q, merging options down the query
// tree child-wins, and returns the combined, unranked result set.
func executeQuery[ID comparable](idx *Index[ID], q Query[ID], opts SearchOptions[ID]) (*resultAccumulator[ID], error) {
	switch v := q.(type) {
	case wildcardQuery:
		return wildcardResults(idx), nil

	case StringQuery:
		specs := deriveTermSpecs(string(v), opts)
		parts := make([]*resultAccumulator[ID], len(specs))
		for i, spec := range specs {
			parts[i] = scoreTermSpec(idx, spec, opts)
		}
		return combineSeq(parts, opts.CombineWith)

	case TreeQuery[ID]:
		childOpts := opts.merge(v.Options)
		parts := make([]*resultAccumulator[ID], len(v.Queries))
		for i, sub := range v.Queries {
			part, err := executeQuery(idx, sub, childOpts)
			if err != nil {
				return nil, err
			}
			parts[i] = part
		}
		return combineSeq(parts, v.CombineWith)

	default:
		return newResultAccumulator[ID](), nil
	}
}

// Search executes q and returns ranked results, score descending, ties
// broken by insertion order via a stable sort.
func (idx *Index[ID]) Search(q Query[ID], opts SearchOptions[ID]) ([]Result[ID], error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	effective, err := idx.finalizeSearchOptionsLocked(opts)
	if err != nil {
		return nil, err
	}

	acc, err := executeQuery(idx, q, effective)
	if err != nil {
		return nil, err
	}

	results := make([]Result[ID], 0, len(acc.order))
	for _, short := range acc.order {
		r := acc.byShort[short]
		quality := float64(len(r.sourceTerms))
		if quality < 1 {
			quality = 1
		}
		result := Result[ID]{
			ID:         idx.registry.extOf[short],
			Score:      r.score * quality,
			Terms:      append([]string(nil), r.matchOrder...),
			QueryTerms: append([]string(nil), r.sourceTerms...),
			Match:      make(map[string][]string, len(r.match)),
			Stored:     shallowCopyDocument(idx.registry.storedFields[short]),
		}
		for derived, fields := range r.match {
			names := make([]string, 0, len(fields))
			for f := range fields {
				names = append(names, f)
			}
			sort.Strings(names)
			result.Match[derived] = names
		}
		if effective.Filter != nil && !effective.Filter(result) {
			continue
		}
		results = append(results, result)
	}

	slices.SortStableFunc(results, func(a, b Result[ID]) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return 0
		}
	})
	return results, nil
}

func (idx *Index[ID]) finalizeSearchOptionsLocked(opts SearchOptions[ID]) (SearchOptions[ID], error) {
	merged := SearchOptions[ID]{}.merge(idx.searchDefaults).merge(opts)
	if !merged.set.fields {
		merged = merged.withFields(idx.fields)
	}
	if !merged.set.boost {
		merged = merged.withBoost(map[string]float64{})
	}
	if !merged.set.weightFuzzy {
		merged = merged.withWeightFuzzy(0.45)
	}
	if !merged.set.weightPrefix {
		merged = merged.withWeightPrefix(0.375)
	}
	if !merged.set.maxFuzzy {
		merged = merged.withMaxFuzzy(6)
	}
	if !merged.set.combineWith {
		merged = merged.withCombineWith("OR")
	}
	if !merged.set.tokenize {
		merged = merged.withTokenize(idx.tokenize)
	}
	if !merged.set.processTerm {
		merged = merged.withProcessTerm(idx.processTerm)
	}
	if !merged.set.bm25 {
		merged = merged.withBM25(DefaultBM25Params())
	}
	normalized, err := normalizeCombinator(merged.CombineWith)
	if err != nil {
		return merged, err
	}
	return merged.withCombineWith(normalized), nil
}

func shallowCopyDocument(d Document) Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}
