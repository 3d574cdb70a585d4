package index

import "github.com/hamr-launcher/hamrd/internal/types"

// RecordExecution bumps the named item's Frecency in place. mode is kept on
// the signature for call-site symmetry with RecordExecutionWithItem and
// because plugin-mode frecency is attributed at the search-engine layer
// (the synthetic __plugin__ searchable), not here; item-mode is the only
// mode that changes this function's behavior today, and it changes
// nothing -- the histograms are folded identically either way.
func (s *Store) RecordExecution(plugin, id string, ctx types.ExecutionContext, mode types.FrecencyMode) bool {
	return s.WithItem(plugin, id, func(item *types.IndexItem) {
		item.Frecency.Record(ctx)
	})
}

// RecordExecutionWithItem records execution for (plugin, id), inserting
// fallbackItem first if the item is not yet indexed. This is what lets a
// plugin that emits a result without ever pushing it through UpdateFull /
// UpdateIncremental still accrue frecency (spec §4.4) -- for example a
// __pattern_match__ result whose entry_point alone carries enough state to
// replay the action later.
func (s *Store) RecordExecutionWithItem(plugin, id string, ctx types.ExecutionContext, mode types.FrecencyMode, fallbackItem *types.ResultItem) {
	s.mu.Lock()
	bucket, ok := s.byPlugin[plugin]
	if !ok {
		bucket = make(map[string]*types.IndexItem)
		s.byPlugin[plugin] = bucket
	}
	item, ok := bucket[id]
	if !ok {
		if fallbackItem == nil {
			s.mu.Unlock()
			return
		}
		item = s.upsertMinimalLocked(plugin, *fallbackItem)
	}
	item.Frecency.Record(ctx)
	s.markDirty()
	s.mu.Unlock()
}
