// Package suggest finds the closest candidate string to an unrecognized
// name, for "did you mean" diagnostics.
package suggest

import "github.com/lithammer/fuzzysearch/fuzzy"

// Closest returns the candidate nearest to target, or "" if candidates is
// empty or nothing ranks as a plausible match.
func Closest(target string, candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}
	ranks := fuzzy.RankFindFold(target, candidates)
	if len(ranks) == 0 {
		return ""
	}
	best := ranks[0]
	for _, r := range ranks[1:] {
		if r.Distance < best.Distance {
			best = r
		}
	}
	return best.Target
}
