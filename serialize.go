package fulltext

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// currentSerializationVersion is written by Export. Load also accepts
// version 1 payloads; LoadJSON unwraps the legacy {"ds": {...}} envelope
// first.
const currentSerializationVersion = 2

// serializedPostings is one (term, field-id -> short-id -> frequency)
// entry of the exported index, with every numeric key rendered as a
// string so the whole structure round-trips through encoding/json
// (which only supports string object keys).
type serializedPostings struct {
	Term     string                      `json:"term"`
	Postings map[string]map[string]uint32 `json:"postings"`
}

// SerializedIndex is the plain-data export of an Index, suitable for
// json.Marshal or storage in any other document format.
type SerializedIndex struct {
	SerializationVersion int                 `json:"serialization_version"`
	DocumentCount        int                 `json:"document_count"`
	NextShortID          uint64              `json:"next_short_id"`
	DirtCount            int                 `json:"dirt_count"`
	DocumentIDs          map[string]string   `json:"document_ids"`
	FieldIDs             map[string]int      `json:"field_ids"`
	FieldLength          map[string][]int    `json:"field_length"`
	AverageFieldLength   []float64           `json:"average_field_length"`
	StoredFields         map[string]Document `json:"stored_fields"`
	Index                []serializedPostings `json:"index"`
}

type v1Envelope struct {
	DS *json.RawMessage `json:"ds"`
}

// Export renders idx into a SerializedIndex. The result shares no
// state with idx: mutating it afterward is safe.
func (idx *Index[ID]) Export() *SerializedIndex {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	out := &SerializedIndex{
		SerializationVersion: currentSerializationVersion,
		DocumentCount:        idx.registry.liveCount,
		NextShortID:          uint64(idx.registry.nextShortID),
		DirtCount:            idx.dirtCount,
		DocumentIDs:          make(map[string]string, len(idx.registry.extOf)),
		FieldIDs:             make(map[string]int, len(idx.fieldID)),
		FieldLength:          make(map[string][]int, len(idx.registry.fieldLength)),
		AverageFieldLength:   append([]float64(nil), idx.registry.avgFieldLength...),
		StoredFields:         make(map[string]Document, len(idx.registry.storedFields)),
	}

	for short, id := range idx.registry.extOf {
		out.DocumentIDs[shortKey(short)] = fmt.Sprint(id)
	}
	for name, fid := range idx.fieldID {
		out.FieldIDs[name] = int(fid)
	}
	for short, lengths := range idx.registry.fieldLength {
		out.FieldLength[shortKey(short)] = append([]int(nil), lengths...)
	}
	for short, doc := range idx.registry.storedFields {
		out.StoredFields[shortKey(short)] = shallowCopyDocument(doc)
	}

	for _, term := range idx.postings.terms() {
		byField, ok := idx.postings.get(term)
		if !ok || len(byField) == 0 {
			continue
		}
		entry := serializedPostings{Term: term, Postings: make(map[string]map[string]uint32, len(byField))}
		for field, byDoc := range byField {
			docs := make(map[string]uint32, len(byDoc))
			for short, freq := range byDoc {
				docs[shortKey(short)] = freq
			}
			entry.Postings[strconv.Itoa(int(field))] = docs
		}
		out.Index = append(out.Index, entry)
	}
	return out
}

// ExportJSON is Export followed by json.Marshal.
func (idx *Index[ID]) ExportJSON() ([]byte, error) {
	return json.Marshal(idx.Export())
}

// LoadOptions supplies everything Load needs to reconstruct a live Index
// from plain data: the same configuration New would take, plus DecodeID
// to turn a serialized id string back into ID.
type LoadOptions[ID comparable] struct {
	Config[ID]
	DecodeID func(string) (ID, error)
}

// Load reconstructs an Index from data previously produced by Export.
// It returns ErrMissingLoadOptions if opts.Fields or opts.DecodeID is
// unset, and ErrIncompatibleIndexVersion if data's serialization version
// is neither 1 nor 2.
func Load[ID comparable](data *SerializedIndex, opts LoadOptions[ID]) (*Index[ID], error) {
	if len(opts.Fields) == 0 || opts.DecodeID == nil {
		return nil, ErrMissingLoadOptions
	}
	if data.SerializationVersion != 1 && data.SerializationVersion != currentSerializationVersion {
		return nil, ErrIncompatibleIndexVersion
	}

	idx, err := New(opts.Config)
	if err != nil {
		return nil, err
	}

	idx.registry.nextShortID = ShortID(data.NextShortID)
	idx.registry.liveCount = data.DocumentCount
	idx.dirtCount = data.DirtCount
	if len(data.AverageFieldLength) == len(idx.registry.avgFieldLength) {
		copy(idx.registry.avgFieldLength, data.AverageFieldLength)
	}

	for key, extIDStr := range data.DocumentIDs {
		short, err := parseShortKey(key)
		if err != nil {
			return nil, errorf(ErrInvalidArgument, "document_ids: %v", err)
		}
		id, err := opts.DecodeID(extIDStr)
		if err != nil {
			return nil, errorf(ErrInvalidArgument, "document_ids: decoding id %q: %v", extIDStr, err)
		}
		idx.registry.shortOf[id] = short
		idx.registry.extOf[short] = id
	}
	for key, lengths := range data.FieldLength {
		short, err := parseShortKey(key)
		if err != nil {
			return nil, errorf(ErrInvalidArgument, "field_length: %v", err)
		}
		idx.registry.fieldLength[short] = append([]int(nil), lengths...)
	}
	for key, doc := range data.StoredFields {
		short, err := parseShortKey(key)
		if err != nil {
			return nil, errorf(ErrInvalidArgument, "stored_fields: %v", err)
		}
		idx.registry.storedFields[short] = shallowCopyDocument(doc)
	}

	// field ids in the serialized postings must line up with the field
	// order Load was configured with; postings under a field id beyond the
	// fields configured in opts are silently ignored rather than rejected,
	// since a caller may load the same index with a narrowed field list.
	for _, entry := range data.Index {
		byField := make(fieldPostings, len(entry.Postings))
		for fieldKey, byDocRaw := range entry.Postings {
			fid, err := strconv.Atoi(fieldKey)
			if err != nil {
				return nil, errorf(ErrInvalidArgument, "index: field id %q: %v", fieldKey, err)
			}
			if fid < 0 || fid >= len(idx.fields) {
				continue
			}
			byDoc := make(map[ShortID]uint32, len(byDocRaw))
			for key, freq := range byDocRaw {
				short, err := parseShortKey(key)
				if err != nil {
					return nil, errorf(ErrInvalidArgument, "index: %v", err)
				}
				byDoc[short] = freq
			}
			byField[FieldID(fid)] = byDoc
		}
		idx.postings.tree.Set(entry.Term, byField)
	}

	return idx, nil
}

// LoadJSON unmarshals raw (either current-version or the legacy v1
// {"ds": ...} envelope) and calls Load.
func LoadJSON[ID comparable](raw []byte, opts LoadOptions[ID]) (*Index[ID], error) {
	var envelope v1Envelope
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.DS != nil {
		raw = *envelope.DS
	}
	var data SerializedIndex
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, errorf(ErrInvalidArgument, "decoding serialized index: %v", err)
	}
	return Load(&data, opts)
}

func shortKey(short ShortID) string {
	return strconv.FormatUint(uint64(short), 10)
}

func parseShortKey(key string) (ShortID, error) {
	v, err := strconv.ParseUint(key, 10, 64)
	if err != nil {
		return 0, err
	}
	return ShortID(v), nil
}

func errorf(base *Error, format string, args ...any) error {
	return newError(base.Kind, format, args...)
}
