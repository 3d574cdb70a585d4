package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamr-launcher/hamrd/internal/types"
)

func TestReplayIndexedItemForwardsStoredActionFromEntryPoint(t *testing.T) {
	e := newTestEngineWithEchoPlugin(t)
	e.idx.UpdateFull("calc", []types.ResultItem{{ID: "history-item", Name: "history item"}})
	entryPoint, err := jsonMarshal(map[string]any{
		"step":     "action",
		"selected": map[string]string{"id": "result-42"},
		"action":   "open_in_browser",
	})
	require.NoError(t, err)
	e.idx.WithItem("calc", "history-item", func(ii *types.IndexItem) {
		ii.Item.EntryPoint = entryPoint
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	updates := e.Process(ctx, ItemSelected{ID: "history-item", PluginID: "calc"})
	require.NotEmpty(t, updates)
	status, ok := updates[len(updates)-1].(PluginStatusUpdate)
	require.True(t, ok, "expected a PluginStatusUpdate echoing the replayed request")
	assert.Equal(t, "action:result-42", status.Description)
}

func TestReplayIndexedItemWithoutEntryPointExecutesLocally(t *testing.T) {
	e := newTestEngineWithPlugin(t)
	e.idx.UpdateFull("calc", []types.ResultItem{{
		ID: "no-entry-point", Name: "plain item",
		Actions: []types.Action{{ID: "launch"}},
	}})

	updates := e.Process(context.Background(), ItemSelected{ID: "no-entry-point", PluginID: "calc"})
	require.Len(t, updates, 1)
	exec, ok := updates[0].(Execute)
	require.True(t, ok)
	assert.Equal(t, "launch", exec.Action.ID)
}

func TestReplayIndexedItemWithAppIDStillReplaysEntryPoint(t *testing.T) {
	e := newTestEngineWithEchoPlugin(t)
	entryPoint, err := jsonMarshal(map[string]any{
		"step":     "action",
		"selected": map[string]string{"id": "app-item"},
		"action":   "open",
	})
	require.NoError(t, err)
	e.idx.UpdateFull("calc", []types.ResultItem{{ID: "app-item", Name: "an app", AppID: "org.example.App"}})
	e.idx.WithItem("calc", "app-item", func(ii *types.IndexItem) {
		ii.Item.EntryPoint = entryPoint
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	updates := e.Process(ctx, ItemSelected{ID: "app-item", PluginID: "calc"})
	require.NotEmpty(t, updates)
	status, ok := updates[len(updates)-1].(PluginStatusUpdate)
	require.True(t, ok, "an AppID-bearing item with a stored entry_point must still be replayed against the plugin, not executed locally")
	assert.Equal(t, "action:app-item", status.Description)
}
