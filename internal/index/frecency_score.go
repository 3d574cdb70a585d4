package index

import (
	"math"
	"time"

	"github.com/hamr-launcher/hamrd/internal/types"
)

// halfLife controls how fast recency decays: an item used exactly halfLife
// ago contributes half the recency weight of one used right now.
const halfLife = 72 * time.Hour

// CalculateFrecency combines usage count and recency into a single scalar,
// satisfying the §8 ordering property ("a non-zero frecency breaks ties
// among equal textual scores") without claiming to reproduce any specific
// formula from the original implementation -- spec §9 open question (a)
// leaves the exact weighting unspecified and asks only for the ordering
// property to hold.
//
// log1p(count) gives diminishing returns per additional use (the 50th
// launch of an app matters less than the 2nd); the exponential recency
// term means an item untouched for several half-lives contributes almost
// nothing, so a single accidental selection months ago doesn't permanently
// outrank something used yesterday.
func CalculateFrecency(item types.IndexItem) float64 {
	f := item.Frecency
	if f.Count == 0 {
		return 0
	}
	countScore := math.Log1p(float64(f.Count))

	ageMs := time.Now().UnixMilli() - f.LastUsedMs
	if ageMs < 0 {
		ageMs = 0
	}
	age := time.Duration(ageMs) * time.Millisecond
	recencyWeight := math.Exp(-math.Ln2 * float64(age) / float64(halfLife))

	streakBonus := 1.0 + 0.05*math.Min(float64(f.ConsecutiveDays), 20)

	return countScore * recencyWeight * streakBonus
}
