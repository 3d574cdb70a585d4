package index

import (
	"context"

	"github.com/hamr-launcher/hamrd/internal/types"
)

// UpdateFull replaces every item for plugin with items, preserving the
// Frecency record of any item whose id matches an existing one and
// zero-initializing Frecency for new ids, per spec §4.4. Ids not present in
// items are dropped along with their frecency.
func (s *Store) UpdateFull(plugin string, items []types.ResultItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing := s.byPlugin[plugin]
	next := make(map[string]*types.IndexItem, len(items))
	for _, item := range items {
		frecency := types.NewFrecency()
		if existing != nil {
			if prev, ok := existing[item.ID]; ok {
				frecency = prev.Frecency
			}
		}
		next[item.ID] = &types.IndexItem{Item: item, Frecency: frecency}
	}
	s.byPlugin[plugin] = next
	s.markDirty()
	if s.cache != nil {
		s.cache.Invalidate(context.Background(), plugin)
	}
}

// UpdateIncremental upserts items (preserving frecency on ids that already
// exist) and then deletes every id named in remove, per spec §4.4. The
// two id sets in a well-formed call are disjoint; if they are not, remove
// wins for a given id since it is applied last.
func (s *Store) UpdateIncremental(plugin string, items []types.ResultItem, remove []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bucket, ok := s.byPlugin[plugin]
	if !ok {
		bucket = make(map[string]*types.IndexItem)
		s.byPlugin[plugin] = bucket
	}
	for _, item := range items {
		frecency := types.NewFrecency()
		if prev, ok := bucket[item.ID]; ok {
			frecency = prev.Frecency
		}
		bucket[item.ID] = &types.IndexItem{Item: item, Frecency: frecency}
	}
	for _, id := range remove {
		delete(bucket, id)
	}
	s.markDirty()
	if s.cache != nil {
		s.cache.Invalidate(context.Background(), plugin)
	}
}

// upsertMinimalLocked inserts item, as given and with a zero Frecency, if
// no item with its id exists yet, and returns the stored entry. This backs
// RecordExecutionWithItem's fallback_item parameter from spec §4.4.
func (s *Store) upsertMinimalLocked(plugin string, item types.ResultItem) *types.IndexItem {
	bucket, ok := s.byPlugin[plugin]
	if !ok {
		bucket = make(map[string]*types.IndexItem)
		s.byPlugin[plugin] = bucket
	}
	if existing, ok := bucket[item.ID]; ok {
		return existing
	}
	entry := &types.IndexItem{Item: item, Frecency: types.NewFrecency()}
	bucket[item.ID] = entry
	return entry
}
