// Package fulltext is an embeddable, in-memory full-text search engine.
// It ingests documents into an inverted index keyed by processed terms
// and answers ranked queries with BM25+ scoring, optional prefix
// expansion and optional bounded-edit-distance fuzzy expansion. It
// supports incremental updates with lazy compaction ("vacuuming") and
// round-trip serialization to a portable plain-data form.
package fulltext

import (
	"sync"

	"go.uber.org/zap"
)

// Index is a full-text index over documents identified by ID. The zero
// value is not usable; construct with New.
type Index[ID comparable] struct {
	mu sync.Mutex

	fields     []string
	fieldID    map[string]FieldID
	idField    string
	storeField map[string]bool

	extractField FieldExtractor
	tokenize     Tokenizer
	processTerm  TermProcessor
	logger       Logger

	registry *docRegistry[ID]
	postings *postingsStore

	dirtCount int

	searchDefaults      SearchOptions[ID]
	autoSuggestDefaults SearchOptions[ID]

	scheduler *vacuumScheduler[ID]
}

// New constructs an Index from cfg. ErrMissingFieldsOption is returned if
// cfg.Fields is empty.
func New[ID comparable](cfg Config[ID]) (*Index[ID], error) {
	if len(cfg.Fields) == 0 {
		return nil, ErrMissingFieldsOption
	}

	idx := &Index[ID]{
		fields:     append([]string(nil), cfg.Fields...),
		fieldID:    make(map[string]FieldID, len(cfg.Fields)),
		idField:    cfg.IDField,
		storeField: make(map[string]bool, len(cfg.StoreFields)),

		extractField: cfg.ExtractField,
		tokenize:     cfg.Tokenize,
		processTerm:  cfg.ProcessTerm,
		logger:       cfg.Logger,

		registry: newDocRegistry[ID](len(cfg.Fields)),
		postings: newPostingsStore(),

		searchDefaults:      cfg.SearchOptions,
		autoSuggestDefaults: defaultAutoSuggestOptions[ID]().merge(cfg.AutoSuggestOptions),
	}

	if idx.idField == "" {
		idx.idField = "id"
	}
	if idx.extractField == nil {
		idx.extractField = defaultExtractField
	}
	if idx.tokenize == nil {
		idx.tokenize = defaultTokenize
	}
	if idx.processTerm == nil {
		idx.processTerm = defaultProcessTerm
	}
	if idx.logger == nil {
		idx.logger = NewZapLogger(nil)
	}
	for i, f := range cfg.Fields {
		idx.fieldID[f] = FieldID(i)
	}
	for _, f := range cfg.StoreFields {
		idx.storeField[f] = true
	}

	autoVacuum := cfg.AutoVacuum
	if autoVacuum == nil {
		autoVacuum = DefaultAutoVacuumConfig()
	}
	idx.scheduler = newVacuumScheduler(idx, !cfg.AutoVacuumDisabled, autoVacuum)
	return idx, nil
}

func defaultAutoSuggestOptions[ID comparable]() SearchOptions[ID] {
	return SearchOptions[ID]{}.
		withCombineWith("AND").
		withPrefix(PrefixOption(func(_ string, i int, all []string) bool {
			return autoSuggestPrefixLastTerm("", i, all)
		}))
}

// IsVacuuming reports whether a vacuum pass is currently in flight.
func (idx *Index[ID]) IsVacuuming() bool {
	return idx.scheduler.isRunning()
}

// DocCount returns the number of live (not removed, not discarded)
// documents.
func (idx *Index[ID]) DocCount() int {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return idx.registry.liveCount
}

// DirtCount returns the number of documents discarded since the last
// completed vacuum.
func (idx *Index[ID]) DirtCount() int {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return idx.dirtCount
}

func (idx *Index[ID]) dirtFactorLocked() float64 {
	return float64(idx.dirtCount) / (1 + float64(idx.registry.liveCount) + float64(idx.dirtCount))
}

func (idx *Index[ID]) warnVersionConflict(id ID, term, field string) {
	idx.logger.Log(LevelWarn, "stale posting encountered while removing document",
		zap.String("code", "version_conflict"),
		zap.Any("document_id", id),
		zap.String("term", term),
		zap.String("field", field),
	)
}
