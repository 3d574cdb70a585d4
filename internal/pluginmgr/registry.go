package pluginmgr

import (
	"strings"

	"github.com/hamr-launcher/hamrd/internal/types"
)

// Get returns the plugin with the given id, if discovered.
func (m *Manager) Get(id string) (*types.Plugin, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.plugins[id]
	return p, ok
}

// All returns every discovered plugin, in no particular order.
func (m *Manager) All() []*types.Plugin {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*types.Plugin, 0, len(m.plugins))
	for _, p := range m.plugins {
		out = append(out, p)
	}
	return out
}

// BackgroundDaemons returns plugins flagged Daemon && Background in their
// manifest -- these are spawned at startup and kept alive across sessions
// (spec §3 "Active Plugin Process").
func (m *Manager) BackgroundDaemons() []*types.Plugin {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*types.Plugin
	for _, p := range m.plugins {
		if p.Manifest.Daemon && p.Manifest.Background {
			out = append(out, p)
		}
	}
	return out
}

// FindMatching implements spec §4.2's prefix rule: the query begins with
// the plugin's prefix followed by whitespace, or equals the prefix exactly.
// It returns the plugin and the remainder with the prefix (and exactly one
// separating space, if present) stripped.
func (m *Manager) FindMatching(query string) (*types.Plugin, string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.plugins {
		prefix := p.Prefix()
		if prefix == "" {
			continue
		}
		if query == prefix {
			return p, "", true
		}
		if strings.HasPrefix(query, prefix) {
			rest := query[len(prefix):]
			if len(rest) > 0 && (rest[0] == ' ' || rest[0] == '\t') {
				return p, strings.TrimPrefix(rest, string(rest[0])), true
			}
		}
	}
	return nil, "", false
}
