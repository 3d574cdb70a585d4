package search

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchableRoundTripsIndexedItemSource(t *testing.T) {
	s := Searchable{
		ID:       "apps:firefox",
		Name:     "Firefox",
		Keywords: []string{"browser"},
		Source:   IndexedItemSource{PluginID: "apps", ItemID: "firefox"},
		Frecency: 3.5,
	}
	data, err := json.Marshal(s)
	require.NoError(t, err)

	var back Searchable
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, s.ID, back.ID)
	assert.Equal(t, s.Source, back.Source)
	assert.Equal(t, s.Frecency, back.Frecency)
}

func TestSearchableRoundTripsPluginSource(t *testing.T) {
	s := Searchable{ID: "__plugin__", Name: "Apps", Source: PluginSource{PluginID: "apps"}}
	data, err := json.Marshal(s)
	require.NoError(t, err)

	var generic map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &generic))
	var kind string
	require.NoError(t, json.Unmarshal(generic["source_kind"], &kind))
	assert.Equal(t, "plugin", kind)

	var back Searchable
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, PluginSource{PluginID: "apps"}, back.Source)
}
