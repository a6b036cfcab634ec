package fulltext

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestIndex(t *testing.T) *Index[string] {
	t.Helper()
	idx, err := New(Config[string]{
		Fields:             []string{"title", "body"},
		StoreFields:        []string{"title"},
		AutoVacuumDisabled: true,
	})
	require.NoError(t, err)
	return idx
}

func TestNewRequiresFields(t *testing.T) {
	_, err := New(Config[string]{})
	require.ErrorIs(t, err, ErrMissingFieldsOption)
}

func TestAddRemoveRoundTrip(t *testing.T) {
	idx := newTestIndex(t)
	require.NoError(t, idx.Add(Document{"id": "1", "title": "old crow", "body": "a raven on a fence"}))
	require.Equal(t, 1, idx.DocCount())

	require.NoError(t, idx.Remove(Document{"id": "1", "title": "old crow", "body": "a raven on a fence"}))
	require.Equal(t, 0, idx.DocCount())
}

func TestAddDuplicateIdRejected(t *testing.T) {
	idx := newTestIndex(t)
	require.NoError(t, idx.Add(Document{"id": "1", "title": "a"}))
	err := idx.Add(Document{"id": "1", "title": "b"})
	require.ErrorIs(t, err, ErrDuplicateId)
}

func TestAddMissingIdFieldRejected(t *testing.T) {
	idx := newTestIndex(t)
	err := idx.Add(Document{"title": "no id here"})
	require.ErrorIs(t, err, ErrMissingIdField)
}

func TestAddAllowsZeroValueId(t *testing.T) {
	idx, err := New(Config[int]{Fields: []string{"title"}, AutoVacuumDisabled: true})
	require.NoError(t, err)
	require.NoError(t, idx.Add(Document{"id": 0, "title": "first"}))
	require.Equal(t, 1, idx.DocCount())
}

func TestRemoveUnknownDocument(t *testing.T) {
	idx := newTestIndex(t)
	err := idx.Remove(Document{"id": "missing", "title": "x"})
	require.ErrorIs(t, err, ErrUnknownDocument)
}

func TestDiscardMarksDirtWithoutReindexing(t *testing.T) {
	idx := newTestIndex(t)
	require.NoError(t, idx.Add(Document{"id": "1", "title": "a"}))
	require.NoError(t, idx.Discard("1"))
	require.Equal(t, 0, idx.DocCount())
	require.Equal(t, 1, idx.DirtCount())
}

func TestReplaceSwapsDocument(t *testing.T) {
	idx := newTestIndex(t)
	require.NoError(t, idx.Add(Document{"id": "1", "title": "old", "body": "stale"}))
	require.NoError(t, idx.Replace(Document{"id": "1", "title": "new", "body": "fresh"}))

	results, err := idx.Search(StringQuery("fresh"), SearchOptions[string]{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "1", results[0].ID)
}

func TestReplaceMissingIdFieldRejected(t *testing.T) {
	idx := newTestIndex(t)
	err := idx.Replace(Document{"title": "no id"})
	require.ErrorIs(t, err, ErrMissingIdField)
}

func TestRemoveAllNilResetsIndex(t *testing.T) {
	idx := newTestIndex(t)
	require.NoError(t, idx.Add(Document{"id": "1", "title": "a"}))
	require.NoError(t, idx.Add(Document{"id": "2", "title": "b"}))
	require.NoError(t, idx.RemoveAll(nil))
	require.Equal(t, 0, idx.DocCount())
	require.Equal(t, 0, idx.DirtCount())
}

func TestDiscardAllFlushesOneAutoVacuum(t *testing.T) {
	idx, err := New(Config[string]{
		Fields: []string{"title"},
		AutoVacuum: &AutoVacuumConfig{
			BatchSize: 1000, BatchWait_ms: 1, MinDirtCount: 1, MinDirtFactor: 0,
		},
	})
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		require.NoError(t, idx.Add(Document{"id": string(rune('a' + i)), "title": "x"}))
	}
	err = idx.DiscardAll([]string{"a", "b", "c"})
	require.NoError(t, err)
	require.Equal(t, 2, idx.DocCount())
}

func TestDiscardAllStopsOnUnknownId(t *testing.T) {
	idx := newTestIndex(t)
	require.NoError(t, idx.Add(Document{"id": "1", "title": "a"}))
	err := idx.DiscardAll([]string{"1", "missing"})
	require.ErrorIs(t, err, ErrUnknownDocument)
}
