package index

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamr-launcher/hamrd/internal/types"
)

func TestUpdateFullPreservesFrecencyOnMatchingIDs(t *testing.T) {
	s := New()
	s.UpdateFull("apps", []types.ResultItem{{ID: "firefox", Name: "Firefox"}})
	s.RecordExecution("apps", "firefox", types.ExecutionContext{Now: time.Now()}, types.FrecencyModeItem)
	s.RecordExecution("apps", "firefox", types.ExecutionContext{Now: time.Now()}, types.FrecencyModeItem)
	s.RecordExecution("apps", "firefox", types.ExecutionContext{Now: time.Now()}, types.FrecencyModeItem)

	s.UpdateFull("apps", []types.ResultItem{{ID: "firefox", Name: "Firefox (ESR)"}})

	item, ok := s.GetItem("apps", "firefox")
	require.True(t, ok)
	assert.EqualValues(t, 3, item.Frecency.Count)
	assert.Equal(t, "Firefox (ESR)", item.Item.Name)
}

func TestUpdateFullDropsFrecencyForRemovedIDs(t *testing.T) {
	s := New()
	s.UpdateFull("apps", []types.ResultItem{{ID: "a", Name: "A"}})
	s.RecordExecution("apps", "a", types.ExecutionContext{Now: time.Now()}, types.FrecencyModeItem)

	s.UpdateFull("apps", []types.ResultItem{{ID: "b", Name: "B"}})

	_, ok := s.GetItem("apps", "a")
	assert.False(t, ok)
	item, ok := s.GetItem("apps", "b")
	require.True(t, ok)
	assert.Zero(t, item.Frecency.Count)
}

func TestUpdateFullIDSetMatchesInput(t *testing.T) {
	s := New()
	s.UpdateFull("apps", []types.ResultItem{{ID: "a"}, {ID: "b"}, {ID: "c"}})

	ids := map[string]bool{}
	for _, id := range []string{"a", "b", "c"} {
		_, ok := s.GetItem("apps", id)
		ids[id] = ok
	}
	assert.True(t, ids["a"] && ids["b"] && ids["c"])
	_, ok := s.GetItem("apps", "d")
	assert.False(t, ok)
}

func TestUpdateIncrementalUpsertsAndRemoves(t *testing.T) {
	s := New()
	s.UpdateFull("apps", []types.ResultItem{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}})
	s.RecordExecution("apps", "a", types.ExecutionContext{Now: time.Now()}, types.FrecencyModeItem)

	s.UpdateIncremental("apps", []types.ResultItem{{ID: "a", Name: "A2"}, {ID: "c", Name: "C"}}, []string{"b"})

	a, ok := s.GetItem("apps", "a")
	require.True(t, ok)
	assert.Equal(t, "A2", a.Item.Name)
	assert.EqualValues(t, 1, a.Frecency.Count, "frecency preserved across incremental upsert")

	_, ok = s.GetItem("apps", "b")
	assert.False(t, ok, "removed id should be gone")

	c, ok := s.GetItem("apps", "c")
	require.True(t, ok)
	assert.Zero(t, c.Frecency.Count)
}

func TestRecordExecutionInvariants(t *testing.T) {
	s := New()
	s.UpdateFull("apps", []types.ResultItem{{ID: "a"}})

	base := time.Now()
	for i := 0; i < 5; i++ {
		ok := s.RecordExecution("apps", "a", types.ExecutionContext{Now: base.Add(time.Duration(i) * time.Second)}, types.FrecencyModeItem)
		require.True(t, ok)
	}

	item, _ := s.GetItem("apps", "a")
	assert.EqualValues(t, 5, item.Frecency.Count)
	assert.Equal(t, base.Add(4*time.Second).UnixMilli(), item.Frecency.LastUsedMs)
}

func TestRecordExecutionUnknownItemReturnsFalse(t *testing.T) {
	s := New()
	ok := s.RecordExecution("apps", "ghost", types.ExecutionContext{}, types.FrecencyModeItem)
	assert.False(t, ok)
}

func TestRecordExecutionWithItemInsertsFallback(t *testing.T) {
	s := New()
	fallback := &types.ResultItem{ID: "new-item", Name: "New Item"}
	s.RecordExecutionWithItem("apps", "new-item", types.ExecutionContext{Now: time.Now()}, types.FrecencyModeItem, fallback)

	item, ok := s.GetItem("apps", "new-item")
	require.True(t, ok)
	assert.EqualValues(t, 1, item.Frecency.Count)
	assert.Equal(t, "New Item", item.Item.Name)
}

func TestRecordExecutionWithItemNoFallbackNoOp(t *testing.T) {
	s := New()
	s.RecordExecutionWithItem("apps", "ghost", types.ExecutionContext{}, types.FrecencyModeItem, nil)
	_, ok := s.GetItem("apps", "ghost")
	assert.False(t, ok)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.json")

	s := New()
	s.UpdateFull("apps", []types.ResultItem{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}})
	s.RecordExecution("apps", "a", types.ExecutionContext{Now: time.Now()}, types.FrecencyModeItem)
	require.NoError(t, s.Save(path))
	assert.False(t, s.IsDirty())

	loaded, err := Load(path)
	require.NoError(t, err)

	a, ok := loaded.GetItem("apps", "a")
	require.True(t, ok)
	assert.EqualValues(t, 1, a.Frecency.Count)
	assert.Equal(t, "A", a.Item.Name)

	b, ok := loaded.GetItem("apps", "b")
	require.True(t, ok)
	assert.Equal(t, "B", b.Item.Name)
}

func TestLoadMissingFileYieldsEmptyStore(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "does-not-exist.json"))
	require.NoError(t, err)
	assert.Empty(t, s.PluginIDs())
}

func TestLoadCorruptFileYieldsEmptyStoreWithoutDeleting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.json")
	require.NoError(t, os.WriteFile(path, []byte("{not valid json"), 0o644))

	s, err := Load(path)
	assert.Error(t, err)
	assert.Empty(t, s.PluginIDs())

	raw, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, "{not valid json", string(raw))
}
