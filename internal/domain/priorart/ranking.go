package priorart

import "sort"

// Rank orders results by combined score, highest first, and assigns ranks
// starting at 1. Ties keep their input order.
func Rank(results []*Result) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].CombinedScore > results[j].CombinedScore
	})
	for i, r := range results {
		r.Rank = i + 1
	}
}
