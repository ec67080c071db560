package rerank

import (
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/pandect-io/pandect/internal/domain"
)

// Options holds heuristic rescoring settings.
type Options struct {
	TopK                int
	MinScore            float64
	KeywordWeight       float64
	RecencyWeight       float64
	RecencyHorizonYears int
}

// Reranker rescores fused candidates with a keyword-overlap bonus and a
// recency bonus. It is a cheap, explainable heuristic layer, not a learned
// model.
type Reranker struct {
	opts Options
	now  func() time.Time
}

// New creates a reranker.
func New(opts Options) *Reranker {
	if opts.TopK <= 0 {
		opts.TopK = 5
	}
	if opts.KeywordWeight <= 0 {
		opts.KeywordWeight = 0.3
	}
	if opts.RecencyWeight <= 0 {
		opts.RecencyWeight = 0.1
	}
	if opts.RecencyHorizonYears <= 0 {
		opts.RecencyHorizonYears = 50
	}
	return &Reranker{opts: opts, now: time.Now}
}

// Rerank rescores the candidates, drops everything below MinScore, sorts by
// the new score descending, and truncates to TopK.
func (r *Reranker) Rerank(question string, candidates []domain.Candidate) []domain.Candidate {
	if len(candidates) == 0 {
		return candidates
	}

	keywords := extractKeywords(question)

	out := make([]domain.Candidate, 0, len(candidates))
	for _, c := range candidates {
		c.Score += r.keywordBonus(keywords, c) + r.recencyBonus(c)
		if c.Score < r.opts.MinScore {
			continue
		}
		out = append(out, c)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})

	if len(out) > r.opts.TopK {
		out = out[:r.opts.TopK]
	}
	return out
}

// keywordBonus is matched/total keywords scaled by KeywordWeight.
func (r *Reranker) keywordBonus(keywords []string, c domain.Candidate) float64 {
	if len(keywords) == 0 {
		return 0
	}
	haystack := strings.ToLower(c.Content + " " + c.TitleFR + " " + c.TitleDE + " " + c.TitleEN)
	matched := 0
	for _, kw := range keywords {
		if strings.Contains(haystack, kw) {
			matched++
		}
	}
	return float64(matched) / float64(len(keywords)) * r.opts.KeywordWeight
}

// recencyBonus decays linearly from RecencyWeight to 0 over the configured
// horizon, based on publication year. Undated candidates get nothing.
func (r *Reranker) recencyBonus(c domain.Candidate) float64 {
	if c.Date.IsZero() {
		return 0
	}
	age := r.now().Year() - c.Date.Year()
	if age < 0 {
		age = 0
	}
	horizon := r.opts.RecencyHorizonYears
	if age >= horizon {
		return 0
	}
	return r.opts.RecencyWeight * (1 - float64(age)/float64(horizon))
}

// extractKeywords lowercases the question, splits on non-letter/digit runes,
// and drops stop words and single-rune tokens.
func extractKeywords(question string) []string {
	fields := strings.FieldsFunc(strings.ToLower(question), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	seen := make(map[string]bool, len(fields))
	keywords := make([]string, 0, len(fields))
	for _, f := range fields {
		if len([]rune(f)) < 2 || stopWords[f] || seen[f] {
			continue
		}
		seen[f] = true
		keywords = append(keywords, f)
	}
	return keywords
}
