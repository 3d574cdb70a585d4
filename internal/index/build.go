package index

import (
	"context"

	"github.com/hamr-launcher/hamrd/internal/search"
	"github.com/hamr-launcher/hamrd/internal/types"
)

// BuildSearchables enumerates every Searchable the search engine should
// rank against: one per indexed item, one synthetic "__plugin__" entry per
// non-hidden plugin, and -- for plugins whose frecency mode is "plugin" --
// one further synthetic entry per recent search term recorded against that
// plugin's own __plugin__ frecency (spec §4.4/§4.5). In plugin-management
// mode the result is filtered down to plugin entries only, since that mode
// never searches indexed items.
func (s *Store) BuildSearchables(ctx context.Context, plugins []*types.Plugin, pluginManagementMode bool) []search.Searchable {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]search.Searchable, 0, len(plugins))

	for _, p := range plugins {
		if p.Manifest.Hidden {
			continue
		}

		pluginFrecency := 0.0
		var recentTerms []string
		if bucket, ok := s.byPlugin[p.ID]; ok {
			if entry, ok := bucket["__plugin__"]; ok {
				pluginFrecency = CalculateFrecency(*entry)
				recentTerms = entry.Frecency.RecentSearchTerms
			}
		}

		out = append(out, search.Searchable{
			ID:       "__plugin__",
			Name:     p.Manifest.Name,
			Keywords: []string{p.Manifest.Prefix},
			Source:   search.PluginSource{PluginID: p.ID},
			Frecency: pluginFrecency,
		})

		if p.EffectiveFrecencyMode() == types.FrecencyModePlugin {
			for _, term := range recentTerms {
				out = append(out, search.Searchable{
					ID:            "__plugin__:recent:" + term,
					Name:          term,
					Source:        search.PluginSource{PluginID: p.ID},
					IsHistoryTerm: true,
					Frecency:      pluginFrecency,
				})
			}
		}

		if pluginManagementMode {
			continue
		}

		bucket := s.byPlugin[p.ID]
		build := func() []search.Searchable { return buildIndexedItemSearchables(p.ID, bucket) }
		if s.cache != nil && s.cache.Enabled() {
			out = append(out, s.cache.GetOrBuild(ctx, p.ID, build)...)
		} else {
			out = append(out, build()...)
		}
	}

	return out
}

// buildIndexedItemSearchables converts one plugin's indexed-item bucket into
// Searchables. Pulled out of BuildSearchables so it can be passed as the
// build func to SearchablesCache.GetOrBuild.
func buildIndexedItemSearchables(pluginID string, bucket map[string]*types.IndexItem) []search.Searchable {
	out := make([]search.Searchable, 0, len(bucket))
	for id, item := range bucket {
		if id == "__plugin__" {
			continue
		}
		out = append(out, search.Searchable{
			ID:       id,
			Name:     item.Item.Name,
			Keywords: item.Item.Keywords,
			Source:   search.IndexedItemSource{PluginID: pluginID, ItemID: id},
			Frecency: CalculateFrecency(*item),
		})
	}
	return out
}
