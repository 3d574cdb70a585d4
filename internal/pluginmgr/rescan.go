package pluginmgr

import (
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/hamr-launcher/hamrd/internal/types"
)

// RescanDiff reports how a rescan changed the discovered plugin set, so the
// engine can turn it into PluginStatusUpdate notifications without diffing
// two full plugin lists itself.
type RescanDiff struct {
	Added   []string
	Removed []string
	Changed []string // same id present before and after, but ManifestPath or Verify status differs
}

// RescanWithPlugins re-discovers the plugin set and returns the diff
// against what was loaded before, per spec §4.2. The before/after id sets
// are compared with golang-set rather than two nested loops -- the same
// set-algebra approach the pack's model-registry service uses for
// comparing installed-vs-desired resource sets.
func (m *Manager) RescanWithPlugins() RescanDiff {
	before := m.All()
	beforeByID := make(map[string]*types.Plugin, len(before))
	beforeSet := mapset.NewThreadUnsafeSet[string]()
	for _, p := range before {
		beforeByID[p.ID] = p
		beforeSet.Add(p.ID)
	}

	m.Discover()

	after := m.All()
	afterByID := make(map[string]*types.Plugin, len(after))
	afterSet := mapset.NewThreadUnsafeSet[string]()
	for _, p := range after {
		afterByID[p.ID] = p
		afterSet.Add(p.ID)
	}

	diff := RescanDiff{
		Added:   afterSet.Difference(beforeSet).ToSlice(),
		Removed: beforeSet.Difference(afterSet).ToSlice(),
	}
	for id := range afterByID {
		prev, ok := beforeByID[id]
		if !ok {
			continue
		}
		cur := afterByID[id]
		if prev.Verify != cur.Verify || prev.ManifestPath != cur.ManifestPath {
			diff.Changed = append(diff.Changed, id)
		}
	}
	return diff
}
