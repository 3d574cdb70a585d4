// Package search ranks a query against the set of Searchables the index
// and plugin manager expose, combining fuzzy text matching with frecency
// and a handful of ordering-preserving bonuses (spec §4.5/§8).
package search

import "encoding/json"

// Source is the closed sum type over where a Searchable came from. It is
// expressed as a marker-method interface rather than a tagged struct,
// following the same pattern as types.Widget (spec §9 design note): Go has
// no closed unions, and a private marker method is the idiomatic
// substitute for "the only implementations are the ones in this package".
type Source interface {
	sourceKind()
}

// PluginSource marks a Searchable as the synthetic "open this plugin"
// entry, identified by item id "__plugin__" in spec terms.
type PluginSource struct {
	PluginID string `json:"plugin_id"`
}

func (PluginSource) sourceKind() {}

// IndexedItemSource marks a Searchable as a concrete item drawn from the
// index store.
type IndexedItemSource struct {
	PluginID string `json:"plugin_id"`
	ItemID   string `json:"item_id"`
}

func (IndexedItemSource) sourceKind() {}

// Searchable is one row considered by Rank: a plugin entry, an indexed
// item, or a recent-search-term history entry (spec §4.5).
type Searchable struct {
	ID            string
	Name          string
	Keywords      []string
	Source        Source
	IsHistoryTerm bool

	// Frecency is the score index.CalculateFrecency already computed for
	// this searchable's backing item, or 0 for entries with none. Kept as
	// a plain float rather than importing the index package, which would
	// create an import cycle (index.BuildSearchables depends on search).
	Frecency float64
}

// searchableWire is the JSON transport form of Searchable, needed only
// because Source is a closed-interface sum type (see the comment on
// Source above). It is what index.SearchablesCache actually marshals.
type searchableWire struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Keywords      []string `json:"keywords"`
	IsHistoryTerm bool     `json:"is_history_term"`
	Frecency      float64  `json:"frecency"`

	SourceKind     string `json:"source_kind"`
	SourcePluginID string `json:"source_plugin_id"`
	SourceItemID   string `json:"source_item_id,omitempty"`
}

func (s Searchable) MarshalJSON() ([]byte, error) {
	wire := searchableWire{
		ID:            s.ID,
		Name:          s.Name,
		Keywords:      s.Keywords,
		IsHistoryTerm: s.IsHistoryTerm,
		Frecency:      s.Frecency,
	}
	switch src := s.Source.(type) {
	case PluginSource:
		wire.SourceKind = "plugin"
		wire.SourcePluginID = src.PluginID
	case IndexedItemSource:
		wire.SourceKind = "indexed_item"
		wire.SourcePluginID = src.PluginID
		wire.SourceItemID = src.ItemID
	}
	return json.Marshal(&wire)
}

func (s *Searchable) UnmarshalJSON(data []byte) error {
	var wire searchableWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	s.ID = wire.ID
	s.Name = wire.Name
	s.Keywords = wire.Keywords
	s.IsHistoryTerm = wire.IsHistoryTerm
	s.Frecency = wire.Frecency
	switch wire.SourceKind {
	case "plugin":
		s.Source = PluginSource{PluginID: wire.SourcePluginID}
	case "indexed_item":
		s.Source = IndexedItemSource{PluginID: wire.SourcePluginID, ItemID: wire.SourceItemID}
	}
	return nil
}
