package pluginmgr

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func TestDiscoverParsesJSONManifest(t *testing.T) {
	builtin := t.TempDir()
	writeManifest(t, filepath.Join(builtin, "apps"), "manifest.json",
		`{"name":"Apps","prefix":"a","inputMode":"realtime"}`)

	m := NewManager(builtin, "", true)
	m.Discover()

	p, ok := m.Get("apps")
	require.True(t, ok)
	assert.Equal(t, "Apps", p.Manifest.Name)
	assert.Equal(t, "a", p.Manifest.Prefix)
}

func TestDiscoverParsesYAMLManifestWhenAllowed(t *testing.T) {
	builtin := t.TempDir()
	writeManifest(t, filepath.Join(builtin, "notes"), "manifest.yaml",
		"name: Notes\nprefix: n\n")

	m := NewManager(builtin, "", true)
	m.Discover()

	p, ok := m.Get("notes")
	require.True(t, ok)
	assert.Equal(t, "Notes", p.Manifest.Name)
}

func TestDiscoverIgnoresYAMLWhenDisallowed(t *testing.T) {
	builtin := t.TempDir()
	writeManifest(t, filepath.Join(builtin, "notes"), "manifest.yaml", "name: Notes\n")

	m := NewManager(builtin, "", false)
	m.Discover()

	_, ok := m.Get("notes")
	assert.False(t, ok)
}

func TestDiscoverUserDirectoryOverridesBuiltin(t *testing.T) {
	builtin := t.TempDir()
	user := t.TempDir()
	writeManifest(t, filepath.Join(builtin, "apps"), "manifest.json", `{"name":"Apps (builtin)"}`)
	writeManifest(t, filepath.Join(user, "apps"), "manifest.json", `{"name":"Apps (user)"}`)

	m := NewManager(builtin, user, true)
	m.Discover()

	p, ok := m.Get("apps")
	require.True(t, ok)
	assert.Equal(t, "Apps (user)", p.Manifest.Name)
	assert.True(t, p.UserOverride)
}

func TestDiscoverSkipsDirectoriesWithoutManifest(t *testing.T) {
	builtin := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(builtin, "not-a-plugin"), 0o755))

	m := NewManager(builtin, "", true)
	m.Discover()

	assert.Empty(t, m.All())
}

func TestRetryPlatformDetectionLeavesFailingGateUnavailable(t *testing.T) {
	builtin := t.TempDir()
	writeManifest(t, filepath.Join(builtin, "linuxonly"), "manifest.json",
		`{"name":"Linux Only","platforms":["not-a-real-goos"]}`)

	m := NewManager(builtin, "", true)
	m.Discover()

	p, _ := m.Get("linuxonly")
	require.False(t, p.Available)

	changed := m.RetryPlatformDetection()
	assert.False(t, changed, "platform gate still fails, nothing should change")
}
