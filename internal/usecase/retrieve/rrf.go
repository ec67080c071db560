package retrieve

import (
	"sort"

	"github.com/pandect-io/pandect/internal/domain"
)

// defaultFusionConstant is the Reciprocal Rank Fusion constant (standard
// value from Cormack et al. 2009).
const defaultFusionConstant = 60

// fuseRRF merges the lexical and semantic lists via weighted Reciprocal Rank
// Fusion: score(d) = sum of w_i/(k + rank_i(d) + 1) for each ranking where d
// appears. The weights need not sum to 1.
//
// The lexical list is merged first, so when a document appears in both lists
// its metadata comes from the lexical result, and score ties resolve in
// first-seen order.
func fuseRRF(lexical, semantic []domain.Candidate, k int, wLexical, wSemantic float64) []domain.Candidate {
	if k <= 0 {
		k = defaultFusionConstant
	}

	type scored struct {
		cand  domain.Candidate
		score float64
	}

	merged := make(map[string]*scored, len(lexical)+len(semantic))
	order := make([]string, 0, len(lexical)+len(semantic))

	addList := func(list []domain.Candidate, weight float64) {
		for rank, c := range list {
			contribution := weight / float64(k+rank+1)
			if existing, ok := merged[c.ID]; ok {
				existing.score += contribution
				// Metadata from the first list that produced the id.
				continue
			}
			merged[c.ID] = &scored{cand: c, score: contribution}
			order = append(order, c.ID)
		}
	}

	addList(lexical, wLexical)
	addList(semantic, wSemantic)

	results := make([]domain.Candidate, 0, len(merged))
	for _, id := range order {
		s := merged[id]
		c := s.cand
		c.Score = s.score
		results = append(results, c)
	}

	// Stable over first-seen order, so equal fused scores keep it.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	return results
}
