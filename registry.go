package fulltext

// docRegistry is the document registry (C3): the external-id/short-id
// bimap, the per-document field-length table, the stored-field
// snapshots, and the running per-field average length.
type docRegistry[ID comparable] struct {
	shortOf map[ID]ShortID
	extOf   map[ShortID]ID

	fieldLength  map[ShortID][]int
	storedFields map[ShortID]Document

	avgFieldLength []float64
	nextShortID    ShortID
	liveCount      int
}

func newDocRegistry[ID comparable](numFields int) *docRegistry[ID] {
	return &docRegistry[ID]{
		shortOf:        make(map[ID]ShortID),
		extOf:          make(map[ShortID]ID),
		fieldLength:    make(map[ShortID][]int),
		storedFields:   make(map[ShortID]Document),
		avgFieldLength: make([]float64, numFields),
	}
}

func (r *docRegistry[ID]) isLive(short ShortID) bool {
	_, ok := r.extOf[short]
	return ok
}

func (r *docRegistry[ID]) shortIDFor(id ID) (ShortID, bool) {
	s, ok := r.shortOf[id]
	return s, ok
}

// allocate assigns the next short id and binds both halves of the bimap.
// It does not touch field-length or average-length bookkeeping; the
// caller fills those in once per-field lengths are known.
func (r *docRegistry[ID]) allocate(id ID) ShortID {
	short := r.nextShortID
	r.nextShortID++
	r.shortOf[id] = short
	r.extOf[short] = id
	r.liveCount++
	return short
}

// recordLength stores field-length for short and folds it into the
// running average using the prior live-document count.
func (r *docRegistry[ID]) recordLength(short ShortID, lengths []int, priorLiveCount int) {
	r.fieldLength[short] = lengths
	for f, l := range lengths {
		r.avgFieldLength[f] = (r.avgFieldLength[f]*float64(priorLiveCount) + float64(l)) / float64(priorLiveCount+1)
	}
}

// forget drops every registry entry for short (used by both remove and
// discard) and unwinds the average-length contribution, using the live
// count *before* this removal.
func (r *docRegistry[ID]) forget(short ShortID, priorLiveCount int) {
	lengths := r.fieldLength[short]
	for f, l := range lengths {
		if priorLiveCount <= 1 {
			r.avgFieldLength[f] = 0
		} else {
			r.avgFieldLength[f] = (r.avgFieldLength[f]*float64(priorLiveCount) - float64(l)) / float64(priorLiveCount-1)
		}
	}
	id, ok := r.extOf[short]
	if ok {
		delete(r.shortOf, id)
	}
	delete(r.extOf, short)
	delete(r.fieldLength, short)
	delete(r.storedFields, short)
	r.liveCount--
}

func (r *docRegistry[ID]) fieldLen(short ShortID, field FieldID) int {
	lengths := r.fieldLength[short]
	if field < 0 || int(field) >= len(lengths) {
		return 0
	}
	return lengths[field]
}
