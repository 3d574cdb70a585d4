package rpc

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamr-launcher/hamrd/internal/engine"
)

func TestDecodeEventQueryChanged(t *testing.T) {
	ev, err := decodeEvent("query_changed", json.RawMessage(`{"query":"firefox"}`))
	require.NoError(t, err)
	assert.Equal(t, engine.QueryChanged{Query: "firefox"}, ev)
}

func TestDecodeEventItemSelectedWithPluginHint(t *testing.T) {
	ev, err := decodeEvent("item_selected", json.RawMessage(`{"id":"x","action":"open","pluginId":"apps"}`))
	require.NoError(t, err)
	assert.Equal(t, engine.ItemSelected{ID: "x", Action: "open", PluginID: "apps"}, ev)
}

func TestDecodeEventNoParamEvents(t *testing.T) {
	cases := map[string]engine.Event{
		"back":             engine.Back{},
		"cancel":           engine.Cancel{},
		"close_plugin":     engine.ClosePlugin{},
		"launcher_opened":  engine.LauncherOpened{},
		"launcher_closed":  engine.LauncherClosed{},
		"refresh_index":    engine.RefreshIndex{},
		"form_cancelled":   engine.FormCancelled{},
		"dismiss_ambient":  engine.DismissAmbient{},
	}
	for method, want := range cases {
		ev, err := decodeEvent(method, nil)
		require.NoError(t, err, method)
		assert.Equal(t, want, ev, method)
	}
}

func TestDecodeEventUnknownMethodErrors(t *testing.T) {
	_, err := decodeEvent("not_a_real_event", nil)
	assert.Error(t, err)
}

func TestDecodeEventMalformedParamsErrors(t *testing.T) {
	_, err := decodeEvent("query_changed", json.RawMessage(`{not json`))
	assert.Error(t, err)
}

func TestDecodeEventFormSubmittedCarriesFormData(t *testing.T) {
	ev, err := decodeEvent("form_submitted", json.RawMessage(`{"formData":{"a":"1"}}`))
	require.NoError(t, err)
	fs, ok := ev.(engine.FormSubmitted)
	require.True(t, ok)
	assert.Equal(t, json.RawMessage(`"1"`), fs.FormData["a"])
}
