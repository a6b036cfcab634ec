package fulltext

import (
	"fmt"
	"reflect"
	"strings"
)

// Add ingests a new document. It fails with ErrMissingIdField if the
// configured id field is absent, or ErrDuplicateId if the extracted id
// is already live.
func (idx *Index[ID]) Add(doc Document) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return idx.addLocked(doc)
}

func (idx *Index[ID]) addLocked(doc Document) error {
	rawID := idx.extractField(doc, idx.idField)
	id, ok := rawID.(ID)
	if !ok {
		return ErrMissingIdField
	}
	if _, exists := idx.registry.shortIDFor(id); exists {
		return ErrDuplicateId
	}

	short := idx.registry.allocate(id)

	stored := make(Document, len(idx.storeField))
	for field := range idx.storeField {
		if v := idx.extractField(doc, field); v != nil {
			stored[field] = v
		}
	}
	idx.registry.storedFields[short] = stored

	lengths := make([]int, len(idx.fields))
	priorLive := idx.registry.liveCount - 1

	for _, field := range idx.fields {
		fieldID := idx.fieldID[field]
		raw := idx.extractField(doc, field)
		if isNilOrEmpty(raw) {
			continue
		}
		text := stringifyFieldValue(raw)
		tokens := idx.tokenize(text, field)

		seen := make(map[string]bool)
		for _, tok := range tokens {
			result := idx.processTerm(tok, field)
			if result.isDrop() {
				continue
			}
			for _, term := range result.terms {
				idx.postings.index(term, fieldID, short)
				seen[term] = true
			}
		}
		lengths[fieldID] = len(seen)
	}

	idx.registry.recordLength(short, lengths, priorLive)
	return nil
}

// Remove removes a previously-added document. Removal is tolerant of documents that mutated since indexing: a mismatched term
// logs a version_conflict warning and removal continues best-effort.
func (idx *Index[ID]) Remove(doc Document) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	rawID := idx.extractField(doc, idx.idField)
	id, ok := rawID.(ID)
	if !ok {
		return ErrMissingIdField
	}
	short, exists := idx.registry.shortIDFor(id)
	if !exists {
		return ErrUnknownDocument
	}

	for _, field := range idx.fields {
		fieldID := idx.fieldID[field]
		raw := idx.extractField(doc, field)
		if isNilOrEmpty(raw) {
			continue
		}
		text := stringifyFieldValue(raw)
		tokens := idx.tokenize(text, field)
		for _, tok := range tokens {
			result := idx.processTerm(tok, field)
			if result.isDrop() {
				continue
			}
			for _, term := range result.terms {
				if !idx.postings.deindex(term, fieldID, short) {
					idx.warnVersionConflict(id, term, field)
				}
			}
		}
	}

	priorLive := idx.registry.liveCount
	idx.registry.forget(short, priorLive)
	return nil
}

// Discard marks id non-searchable without re-tokenizing it: stale
// postings remain until a vacuum pass, or a search that scores them,
// drops them.
func (idx *Index[ID]) Discard(id ID) error {
	idx.mu.Lock()
	short, exists := idx.registry.shortIDFor(id)
	if !exists {
		idx.mu.Unlock()
		return ErrUnknownDocument
	}
	priorLive := idx.registry.liveCount
	idx.registry.forget(short, priorLive)
	idx.dirtCount++
	idx.mu.Unlock()

	idx.scheduler.maybeAutoVacuum()
	return nil
}

// Replace discards the document matching doc's id, then adds doc back.
// Failure semantics are inherited from Discard.
func (idx *Index[ID]) Replace(doc Document) error {
	rawID := idx.extractField(doc, idx.idField)
	id, ok := rawID.(ID)
	if !ok {
		return ErrMissingIdField
	}
	if err := idx.Discard(id); err != nil {
		return err
	}
	return idx.Add(doc)
}

// RemoveAll removes every document in docs, in order. Passing nil clears
// the index entirely (reset to empty state); passing an empty, non-nil
// slice is a no-op identical to calling Remove zero times.
func (idx *Index[ID]) RemoveAll(docs []Document) error {
	if docs == nil {
		idx.resetAll()
		return nil
	}
	for _, doc := range docs {
		if err := idx.Remove(doc); err != nil {
			return err
		}
	}
	return nil
}

func (idx *Index[ID]) resetAll() {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.postings = newPostingsStore()
	idx.registry = newDocRegistry[ID](len(idx.fields))
	idx.dirtCount = 0
}

// DiscardAll discards every id in ids, suppressing per-call auto-vacuum
// until the loop completes, then runs exactly one auto-vacuum check.
// If a discard fails partway through, auto-vacuum is restored
// before the error propagates, but the pending dirt is still flushed
// through one final maybe_auto_vacuum so it is never stranded.
func (idx *Index[ID]) DiscardAll(ids []ID) error {
	wasEnabled := idx.scheduler.autoVacuumEnabled()
	idx.scheduler.setAutoVacuum(false)

	var firstErr error
	for _, id := range ids {
		idx.mu.Lock()
		short, exists := idx.registry.shortIDFor(id)
		if !exists {
			idx.mu.Unlock()
			firstErr = ErrUnknownDocument
			break
		}
		priorLive := idx.registry.liveCount
		idx.registry.forget(short, priorLive)
		idx.dirtCount++
		idx.mu.Unlock()
	}

	idx.scheduler.setAutoVacuum(wasEnabled)
	idx.scheduler.maybeAutoVacuum()
	return firstErr
}

func isNilOrEmpty(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}

// stringifyFieldValue renders an extracted primitive field value as the
// text handed to the tokenizer. Sequence values are comma-joined.
func stringifyFieldValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		parts := make([]string, rv.Len())
		for i := range parts {
			parts[i] = stringifyFieldValue(rv.Index(i).Interface())
		}
		return strings.Join(parts, ",")
	}
	return fmt.Sprint(v)
}
