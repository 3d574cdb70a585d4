package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultMatchesDocumentedValues(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 0.7, cfg.Search.DiversityDecay)
	assert.Equal(t, 8, cfg.Search.MaxResultsPerPlugin)
	assert.Equal(t, 40, cfg.Search.MaxDisplayedResults)
	assert.Equal(t, int64(5000), cfg.Behavior.StateRestoreWindowMs)
	assert.Equal(t, ClickOutsideClose, cfg.Behavior.ClickOutsideAction)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.True(t, cfg.Plugins.ManifestYAML)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.json"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadMergesOverFileOntoDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	body := `{"search":{"max_displayed_results":10},"log":{"level":"debug"}}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Search.MaxDisplayedResults)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Fields absent from the file keep their documented default.
	assert.Equal(t, 0.7, cfg.Search.DiversityDecay)
	assert.Equal(t, int64(5000), cfg.Behavior.StateRestoreWindowMs)
}

func TestLoadCorruptFileReturnsErrorAndDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	cfg, err := Load(path)
	assert.Error(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestActionBarHintsRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.ActionBarHints = []ActionBarHint{{Prefix: "=", Plugin: "calc"}}
	data, err := json.Marshal(cfg)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Len(t, loaded.ActionBarHints, 1)
	assert.Equal(t, "=", loaded.ActionBarHints[0].Prefix)
	assert.Equal(t, "calc", loaded.ActionBarHints[0].Plugin)
}
