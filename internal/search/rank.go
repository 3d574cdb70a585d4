package search

import "sort"

// Config is the subset of config.SearchConfig that Rank needs. Kept as its
// own small struct rather than importing internal/config, which would
// create an import cycle (config has no reason to import search, but
// keeping the dependency edge one-directional -- config and engine both
// depend on search, search depends on neither -- keeps the package graph
// a DAG rooted at the leaves).
type Config struct {
	DiversityDecay       float64
	MaxResultsPerPlugin  int
	MaxDisplayedResults  int
	PluginRankingBonus   map[string]float64
}

// Rank scores every searchable against query, sorts by composite score
// descending, applies per-plugin diversity decay and the per-plugin cap,
// then truncates to MaxDisplayedResults. Searchables are deduplicated by
// id, keeping the first occurrence encountered in the input slice, before
// scoring -- spec §4.5 treats a plugin's own re-submission of an id it
// already owns as the same searchable, not two competing ones.
func Rank(query string, searchables []Searchable, cfg Config) []Scored {
	seen := make(map[string]struct{}, len(searchables))
	scored := make([]Scored, 0, len(searchables))
	for _, s := range searchables {
		if _, dup := seen[s.ID]; dup {
			continue
		}
		seen[s.ID] = struct{}{}

		composite, ok := score(query, s)
		if !ok {
			continue
		}
		composite += cfg.PluginRankingBonus[pluginOf(s.Source)]
		scored = append(scored, Scored{Searchable: s, CompositeScore: composite})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].CompositeScore > scored[j].CompositeScore
	})

	decay := cfg.DiversityDecay
	if decay <= 0 {
		decay = 1
	}
	perPluginCount := make(map[string]int)
	out := make([]Scored, 0, len(scored))
	for _, sc := range scored {
		plugin := pluginOf(sc.Searchable.Source)
		n := perPluginCount[plugin]
		if cfg.MaxResultsPerPlugin > 0 && n >= cfg.MaxResultsPerPlugin {
			continue
		}
		if n > 0 {
			sc.CompositeScore *= pow(decay, n)
		}
		perPluginCount[plugin] = n + 1
		out = append(out, sc)
	}

	// Decay can reorder the tail (an N-th-from-plugin-A result may now
	// score below an M-th-from-plugin-B result that was originally
	// lower), so re-sort once more before truncating.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CompositeScore > out[j].CompositeScore
	})

	if cfg.MaxDisplayedResults > 0 && len(out) > cfg.MaxDisplayedResults {
		out = out[:cfg.MaxDisplayedResults]
	}
	return out
}

func pluginOf(src Source) string {
	switch s := src.(type) {
	case PluginSource:
		return s.PluginID
	case IndexedItemSource:
		return s.PluginID
	default:
		return ""
	}
}

// pow is integer-exponent float power; math.Pow is overkill for the small
// non-negative integer exponents diversity decay ever uses (rank position
// within a plugin), so this avoids importing math here too.
func pow(base float64, exp int) float64 {
	result := 1.0
	for i := 0; i < exp; i++ {
		result *= base
	}
	return result
}
