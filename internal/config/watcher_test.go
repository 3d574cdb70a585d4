package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherDeliversReloadOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"log":{"level":"info"}}`), 0o644))

	w, err := NewWatcher(path)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte(`{"log":{"level":"debug"}}`), 0o644))

	select {
	case cfg := <-w.Changes():
		assert.Equal(t, "debug", cfg.Log.Level)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
}

func TestWatcherDropsUnparsableReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"log":{"level":"info"}}`), 0o644))

	w, err := NewWatcher(path)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o644))

	select {
	case cfg := <-w.Changes():
		t.Fatalf("expected no reload for unparsable file, got %+v", cfg)
	case <-time.After(600 * time.Millisecond):
		// Debounce window is 300ms; waiting twice that without a delivery
		// confirms the bad reload was dropped rather than merely delayed.
	}
}
