// Package pluginmgr discovers, verifies, and indexes plugin manifests, per
// spec §4.2. It never spawns a plugin process -- that is internal/broker's
// job -- it only answers "what plugins exist and what do their manifests
// say," the same narrow responsibility the teacher's discovery.go carries
// for its built-in/dynamic plugin split (adapted here from a compiled-in
// registry to an on-disk directory scan, since this daemon's plugins are
// separate OS processes, not .so files loaded into the daemon).
package pluginmgr

import (
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/hamr-launcher/hamrd/internal/logging"
	"github.com/hamr-launcher/hamrd/internal/types"
)

// Manager owns the discovered plugin set and supports hot-reload via
// RescanWithPlugins. All exported methods are safe to call from any goroutine; the
// underlying map is swapped atomically on each (re)discovery, never
// mutated in place, so a concurrent All()/Get() never observes a partial
// scan.
type Manager struct {
	builtinDir string
	userDir    string
	allowYAML  bool

	mu      sync.RWMutex
	plugins map[string]*types.Plugin
}

func NewManager(builtinDir, userDir string, allowYAML bool) *Manager {
	return &Manager{
		builtinDir: builtinDir,
		userDir:    userDir,
		allowYAML:  allowYAML,
		plugins:    make(map[string]*types.Plugin),
	}
}

// Discover scans the built-in directory then the user directory, parsing
// each subdirectory's manifest and verifying against an optional sibling
// checksums.json (built-in directory only, per spec §4.2). User-directory
// plugins override built-in ones of the same id ("last-seen wins within the
// user directory overriding built-in").
func (m *Manager) Discover() {
	found := make(map[string]*types.Plugin)

	m.scanDir(m.builtinDir, false, found)
	m.scanDir(m.userDir, true, found)

	for _, p := range found {
		p.Available = platformAvailable(p.Manifest)
	}

	m.mu.Lock()
	m.plugins = found
	m.mu.Unlock()
	logging.PluginMgr().Info().Int("count", len(found)).Msg("plugin discovery complete")
}

func (m *Manager) scanDir(dir string, userOverride bool, out map[string]*types.Plugin) {
	if dir == "" {
		return
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			logging.PluginMgr().Warn().Err(err).Str("dir", dir).Msg("failed to read plugin directory")
		}
		return
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		pluginDir := filepath.Join(dir, entry.Name())
		manifestPath, ok := findManifest(pluginDir, m.allowYAML)
		if !ok {
			continue
		}
		manifest, err := parseManifest(manifestPath)
		if err != nil {
			logging.PluginMgr().Warn().Err(err).Str("dir", pluginDir).Msg("failed to parse manifest")
			continue
		}

		id := entry.Name()
		plugin := &types.Plugin{
			ID:           id,
			Manifest:     manifest,
			WorkingDir:   pluginDir,
			ManifestPath: manifestPath,
			UserOverride: userOverride,
			Verify:       types.VerifyUnknown,
		}

		if !userOverride {
			checksumsPath := filepath.Join(pluginDir, "checksums.json")
			if _, err := os.Stat(checksumsPath); err == nil {
				status, modified := verify(pluginDir, checksumsPath)
				plugin.Verify = status
				plugin.ModifiedFiles = modified
				if status == types.VerifyModified {
					logging.PluginMgr().Warn().Str("plugin", id).Strs("files", modified).
						Msg("plugin files modified since checksums.json was recorded")
				}
			}
		}

		out[id] = plugin
	}
}

func findManifest(dir string, allowYAML bool) (string, bool) {
	for _, name := range manifestFilenames(allowYAML) {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p, true
		}
	}
	return "", false
}

// platformAvailable reports whether manifest.Platforms is empty (available
// everywhere) or contains the running GOOS.
func platformAvailable(manifest types.Manifest) bool {
	if len(manifest.Platforms) == 0 {
		return true
	}
	for _, p := range manifest.Platforms {
		if p == runtime.GOOS {
			return true
		}
	}
	return false
}

// RetryPlatformDetection idempotently re-tests the platform gate for every
// plugin and flips Available from false to true where conditions are now
// met (e.g. a runtime dependency was installed after startup). It returns
// whether anything changed, per spec §4.2.
func (m *Manager) RetryPlatformDetection() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	changed := false
	for _, p := range m.plugins {
		if !p.Available && platformAvailable(p.Manifest) {
			p.Available = true
			changed = true
		}
	}
	return changed
}
