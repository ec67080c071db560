package rerank

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/pandect-io/pandect/internal/domain"
)

func fixedNow() time.Time {
	return time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
}

func newTestReranker(opts Options) *Reranker {
	r := New(opts)
	r.now = fixedNow
	return r
}

func TestRerank_KeywordBonus(t *testing.T) {
	r := newTestReranker(Options{TopK: 5, KeywordWeight: 0.3, RecencyWeight: 0.1})

	matching := domain.Candidate{ID: "match", Content: "le préavis en cas de licenciement"}
	unrelated := domain.Candidate{ID: "other", Content: "la taxe sur la valeur ajoutée"}

	got := r.Rerank("Quel préavis de licenciement ?", []domain.Candidate{unrelated, matching})

	if got[0].ID != "match" {
		t.Fatalf("top candidate = %q, want match", got[0].ID)
	}

	// Keywords: préavis, licenciement (quel/de are stop words); both
	// match, full bonus.
	if math.Abs(got[0].Score-0.3) > 1e-12 {
		t.Errorf("score = %g, want 0.3", got[0].Score)
	}
	if got[1].Score != 0 {
		t.Errorf("unrelated score = %g, want 0", got[1].Score)
	}
}

func TestRerank_KeywordBonusMatchesTitles(t *testing.T) {
	r := newTestReranker(Options{TopK: 5, KeywordWeight: 0.3})

	cand := domain.Candidate{ID: "a", TitleFR: "Du licenciement collectif", Content: "autre chose"}
	got := r.Rerank("licenciement", []domain.Candidate{cand})

	if math.Abs(got[0].Score-0.3) > 1e-12 {
		t.Errorf("score = %g, want 0.3 from title match", got[0].Score)
	}
}

func TestRerank_RecencyBonus(t *testing.T) {
	r := newTestReranker(Options{TopK: 5, RecencyWeight: 0.1, RecencyHorizonYears: 50})

	cases := []struct {
		name string
		date time.Time
		want float64
	}{
		{"current year", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), 0.1},
		{"25 years old", time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC), 0.05},
		{"beyond horizon", time.Date(1950, 1, 1, 0, 0, 0, 0, time.UTC), 0},
		{"undated", time.Time{}, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := r.Rerank("zzz", []domain.Candidate{{ID: "a", Date: tc.date, Content: "x"}})
			if math.Abs(got[0].Score-tc.want) > 1e-12 {
				t.Errorf("score = %g, want %g", got[0].Score, tc.want)
			}
		})
	}
}

func TestRerank_DropsBelowMinScore(t *testing.T) {
	r := newTestReranker(Options{TopK: 5, MinScore: 0.2, KeywordWeight: 0.3})

	keep := domain.Candidate{ID: "keep", Score: 0.1, Content: "préavis"}
	drop := domain.Candidate{ID: "drop", Score: 0.1, Content: "rien à voir"}

	got := r.Rerank("préavis", []domain.Candidate{keep, drop})

	if len(got) != 1 || got[0].ID != "keep" {
		t.Errorf("kept = %v, want [keep]", idsOf(got))
	}
}

func TestRerank_TruncatesToTopK(t *testing.T) {
	r := newTestReranker(Options{TopK: 2})

	in := []domain.Candidate{
		{ID: "a", Score: 0.3, Content: "x"},
		{ID: "b", Score: 0.2, Content: "x"},
		{ID: "c", Score: 0.1, Content: "x"},
	}
	got := r.Rerank("zzz", in)

	if want := []string{"a", "b"}; !reflect.DeepEqual(idsOf(got), want) {
		t.Errorf("kept = %v, want %v", idsOf(got), want)
	}
}

func TestRerank_Empty(t *testing.T) {
	r := newTestReranker(Options{})
	if got := r.Rerank("question", nil); len(got) != 0 {
		t.Errorf("got %v, want empty", got)
	}
}

func TestExtractKeywords(t *testing.T) {
	got := extractKeywords("Quel est le délai de préavis, et le préavis s'applique-t-il ?")

	want := []string{"délai", "préavis", "applique"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("keywords = %v, want %v", got, want)
	}
}

func idsOf(candidates []domain.Candidate) []string {
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.ID)
	}
	return out
}
