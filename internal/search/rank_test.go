package search

import "testing"

func TestRankExactBeatsFuzzy(t *testing.T) {
	searchables := []Searchable{
		{ID: "a", Name: "Firefox", Source: IndexedItemSource{PluginID: "apps", ItemID: "a"}},
		{ID: "b", Name: "fire", Source: IndexedItemSource{PluginID: "apps", ItemID: "b"}},
	}
	ranked := Rank("fire", searchables, Config{})
	if len(ranked) != 2 {
		t.Fatalf("expected 2 results, got %d", len(ranked))
	}
	if ranked[0].Searchable.ID != "b" {
		t.Fatalf("expected exact match %q to rank first, got %q", "b", ranked[0].Searchable.ID)
	}
}

func TestRankHistoryTermDominatesEqualFuzzy(t *testing.T) {
	searchables := []Searchable{
		{ID: "fresh", Name: "calc", Source: IndexedItemSource{PluginID: "p", ItemID: "fresh"}},
		{ID: "history", Name: "calc", IsHistoryTerm: true, Source: PluginSource{PluginID: "p"}},
	}
	ranked := Rank("calc", searchables, Config{})
	if ranked[0].Searchable.ID != "history" {
		t.Fatalf("expected history term to dominate, got %q first", ranked[0].Searchable.ID)
	}
}

func TestRankFiltersNonMatches(t *testing.T) {
	searchables := []Searchable{
		{ID: "a", Name: "Terminal", Source: IndexedItemSource{PluginID: "p", ItemID: "a"}},
	}
	ranked := Rank("zzz-no-match", searchables, Config{})
	if len(ranked) != 0 {
		t.Fatalf("expected no matches, got %d", len(ranked))
	}
}

func TestRankDeduplicatesByID(t *testing.T) {
	searchables := []Searchable{
		{ID: "dup", Name: "Files", Frecency: 1, Source: IndexedItemSource{PluginID: "p", ItemID: "dup"}},
		{ID: "dup", Name: "Files", Frecency: 99, Source: IndexedItemSource{PluginID: "p", ItemID: "dup"}},
	}
	ranked := Rank("files", searchables, Config{})
	if len(ranked) != 1 {
		t.Fatalf("expected dedup to leave exactly 1 result, got %d", len(ranked))
	}
	if ranked[0].Searchable.Frecency != 1 {
		t.Fatalf("expected first-seen occurrence to win, got frecency %v", ranked[0].Searchable.Frecency)
	}
}

func TestRankMaxResultsPerPluginCap(t *testing.T) {
	var searchables []Searchable
	for i := 0; i < 5; i++ {
		searchables = append(searchables, Searchable{
			ID:     string(rune('a' + i)),
			Name:   "term",
			Source: IndexedItemSource{PluginID: "p", ItemID: string(rune('a' + i))},
		})
	}
	ranked := Rank("term", searchables, Config{MaxResultsPerPlugin: 2, DiversityDecay: 0.5})
	if len(ranked) != 2 {
		t.Fatalf("expected per-plugin cap to limit to 2, got %d", len(ranked))
	}
}

func TestRankMaxDisplayedResultsTruncates(t *testing.T) {
	var searchables []Searchable
	for i := 0; i < 10; i++ {
		searchables = append(searchables, Searchable{
			ID:     string(rune('a' + i)),
			Name:   "term",
			Source: IndexedItemSource{PluginID: string(rune('a' + i)), ItemID: "x"},
		})
	}
	ranked := Rank("term", searchables, Config{MaxDisplayedResults: 3})
	if len(ranked) != 3 {
		t.Fatalf("expected truncation to 3, got %d", len(ranked))
	}
}

func TestRankPluginEntryOutranksHighFrecencyItemOnShortPrefix(t *testing.T) {
	searchables := []Searchable{
		{ID: "__plugin__", Name: "Calculator", Source: PluginSource{PluginID: "calc"}},
		// 80 is close to the largest value index.CalculateFrecency can return.
		{ID: "item", Name: "Calculate tip", Frecency: 80, Source: IndexedItemSource{PluginID: "calc", ItemID: "item"}},
	}
	ranked := Rank("c", searchables, Config{})
	if ranked[0].Searchable.ID != "__plugin__" {
		t.Fatalf("expected plugin entry bonus to win a short-prefix tie, got %q first", ranked[0].Searchable.ID)
	}
}
