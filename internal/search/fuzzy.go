package search

import "strings"

// matchKind distinguishes an exact (history-term) hit from a fuzzy one for
// the composite-score step; spec §4.5 requires exact matches to dominate
// fuzzy matches of equal textual overlap.
type matchKind int

const (
	matchFuzzy matchKind = iota
	matchExact
)

// fuzzyScore is a hand-rolled substring/subsequence scorer: no example repo
// in the corpus vendors a fuzzy-matching library (they all do exact
// substring or ORM-level LIKE matching), so this is the one component
// deliberately built on the standard library rather than a third-party dep
// — see DESIGN.md. Case-insensitive; returns 0 for no match at all.
//
// Scoring, highest to lowest: exact equality, prefix match, substring
// match (earlier position scores higher), in-order subsequence match
// (denser run scores higher). Each tier is scaled to never overlap the
// tier above it, so tier always dominates position-within-tier.
func fuzzyScore(query, target string) float64 {
	q := strings.ToLower(strings.TrimSpace(query))
	t := strings.ToLower(target)
	if q == "" {
		return 0
	}
	if q == t {
		return 400
	}
	if strings.HasPrefix(t, q) {
		return 300
	}
	if idx := strings.Index(t, q); idx >= 0 {
		// Earlier substrings score a little higher; scale kept well inside
		// the [200, 300) band.
		return 200 + 99*(1-float64(idx)/float64(len(t)+1))
	}
	if score, ok := subsequenceScore(q, t); ok {
		return score
	}
	return 0
}

// subsequenceScore matches q's characters against t in order, allowing
// gaps, and rewards fewer/smaller gaps (a denser run reads as a closer
// match). Returns ok=false if q is not a subsequence of t at all.
func subsequenceScore(q, t string) (float64, bool) {
	qi := 0
	lastMatch := -1
	gapPenalty := 0
	for ti := 0; ti < len(t) && qi < len(q); ti++ {
		if t[ti] == q[qi] {
			if lastMatch >= 0 {
				gapPenalty += ti - lastMatch - 1
			}
			lastMatch = ti
			qi++
		}
	}
	if qi < len(q) {
		return 0, false
	}
	score := 150 - float64(gapPenalty)
	if score < 1 {
		score = 1
	}
	return score, true
}

// bestFieldScore scores query against name and every keyword, returning the
// best hit.
func bestFieldScore(query, name string, keywords []string) float64 {
	best := fuzzyScore(query, name)
	for _, kw := range keywords {
		if s := fuzzyScore(query, kw); s > best {
			best = s
		}
	}
	return best
}
