package search

const (
	// nameMatchWeight scales how much a name-prefix match adds on top of
	// the raw fuzzy/exact score (spec §4.5: "0.6 x name_match_bonus").
	nameMatchWeight = 0.6

	// pluginEntryBonus is added when the searchable's source is a plugin
	// entry, so a short prefix match still surfaces the plugin itself
	// above items with a much higher frecency (spec §4.5 ordering
	// property: "the plugin entry bonus prevents high-frecency items from
	// outranking their own plugin entry for a short prefix").
	pluginEntryBonus = 150
)

// Scored pairs a Searchable with its computed composite score, the form
// Rank's callers (the engine) actually consume.
type Scored struct {
	Searchable     Searchable
	CompositeScore float64
}

// nameMatchBonus rewards a query that prefixes the searchable's name,
// scaled by how much of the name the query covers -- a query that is
// almost the whole name scores close to 1, a one-character prefix of a
// long name scores close to 0.
func nameMatchBonus(query, name string) float64 {
	q := len(query)
	n := len(name)
	if q == 0 || n == 0 {
		return 0
	}
	if q > n {
		return 0
	}
	lowerName := toLowerASCII(name)
	lowerQuery := toLowerASCII(query)
	if lowerName[:q] != lowerQuery {
		return 0
	}
	return float64(q) / float64(n)
}

func toLowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

// exactTierBonus is added to a history-term searchable's raw text score so
// that it dominates a fresh fuzzy match of equal textual overlap, per the
// §8 ordering property ("an exact match dominates a fuzzy match of equal
// textual overlap").
const exactTierBonus = 500

// score computes the composite for one searchable against query, or
// (0, false) if the searchable does not match at all and must be
// discarded per spec §4.5. An empty query matches every searchable with a
// text score of 0.
func score(query string, s Searchable) (float64, bool) {
	textScore := bestFieldScore(query, s.Name, s.Keywords)
	if textScore <= 0 && query != "" {
		return 0, false
	}
	if s.IsHistoryTerm {
		textScore += exactTierBonus
	}

	composite := s.Frecency + nameMatchWeight*nameMatchBonus(query, s.Name) + textScore
	if _, isPlugin := s.Source.(PluginSource); isPlugin {
		composite += pluginEntryBonus
	}
	return composite, true
}
