package retrieve

import (
	"context"

	"github.com/pandect-io/pandect/internal/domain"
)

// Searcher is the external search engine contract. Both methods return
// candidates in rank order (best first).
type Searcher interface {
	Lexical(ctx context.Context, query string, filters map[string]string, limit int) ([]domain.Candidate, error)
	Semantic(ctx context.Context, query string, filters map[string]string, limit int) ([]domain.Candidate, error)
}
