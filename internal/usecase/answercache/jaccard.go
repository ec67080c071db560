package answercache

import "strings"

// SimilarityThreshold is the Jaccard score above which two questions count as
// near-duplicates.
const SimilarityThreshold = 0.8

// Similarity computes the Jaccard similarity of the normalized word sets of
// two questions. Lookup does not use it: cache hits require an exact
// normalized match. The helper exists for near-duplicate detection.
func Similarity(a, b string) float64 {
	setA := wordSet(a)
	setB := wordSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	intersection := 0
	for w := range setA {
		if setB[w] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union)
}

func wordSet(s string) map[string]bool {
	words := strings.Fields(Normalize(s))
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
