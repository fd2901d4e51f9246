package sema

import "github.com/lithammer/fuzzysearch/fuzzy"

// fuzzySuggest returns the best fuzzy match for name among the keys of
// declared, or "" if nothing scores as a plausible typo.
func fuzzySuggest(name string, declared map[string]string) string {
	candidates := make([]string, 0, len(declared))
	for k := range declared {
		candidates = append(candidates, k)
	}
	ranks := fuzzy.RankFindNormalizedFold(name, candidates)
	if len(ranks) == 0 {
		return ""
	}
	best := ranks[0]
	for _, r := range ranks[1:] {
		if r.Distance < best.Distance {
			best = r
		}
	}
	if best.Distance > len(name)/2+2 {
		return ""
	}
	return best.Target
}
