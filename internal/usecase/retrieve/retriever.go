package retrieve

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/pandect-io/pandect/internal/domain"
	"github.com/pandect-io/pandect/internal/metrics"
)

// Options holds retrieval and fusion settings.
type Options struct {
	OverfetchLimit int
	FusionConstant int
	LexicalWeight  float64
	SemanticWeight float64
}

// Retriever runs hybrid retrieval: lexical and semantic search concurrently,
// fused into one ranked list via Reciprocal Rank Fusion.
type Retriever struct {
	searcher Searcher
	opts     Options
	logger   *zap.Logger
}

// New creates a retriever.
func New(searcher Searcher, opts Options, logger *zap.Logger) *Retriever {
	if opts.OverfetchLimit <= 0 {
		opts.OverfetchLimit = 50
	}
	if opts.FusionConstant <= 0 {
		opts.FusionConstant = defaultFusionConstant
	}
	if opts.LexicalWeight <= 0 {
		opts.LexicalWeight = 0.6
	}
	if opts.SemanticWeight <= 0 {
		opts.SemanticWeight = 0.4
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Retriever{searcher: searcher, opts: opts, logger: logger}
}

// Retrieve issues both search branches concurrently and fuses the results.
// A failed branch degrades to an empty list and is logged; it never fails the
// call. Both branches empty (failure or no hits) yields an empty fused list.
func (r *Retriever) Retrieve(
	ctx context.Context, query string, filters map[string]string,
) []domain.Candidate {
	var (
		wg       sync.WaitGroup
		lexical  []domain.Candidate
		semantic []domain.Candidate
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		res, err := r.searcher.Lexical(ctx, query, filters, r.opts.OverfetchLimit)
		if err != nil {
			metrics.RetrievalErrorsTotal.WithLabelValues("lexical").Inc()
			r.logger.Warn("lexical retrieval failed", zap.Error(err))
			return
		}
		lexical = res
	}()
	go func() {
		defer wg.Done()
		res, err := r.searcher.Semantic(ctx, query, filters, r.opts.OverfetchLimit)
		if err != nil {
			metrics.RetrievalErrorsTotal.WithLabelValues("semantic").Inc()
			r.logger.Warn("semantic retrieval failed", zap.Error(err))
			return
		}
		semantic = res
	}()
	wg.Wait()

	fused := fuseRRF(lexical, semantic, r.opts.FusionConstant, r.opts.LexicalWeight, r.opts.SemanticWeight)
	metrics.RetrievalCandidates.WithLabelValues("fused").Observe(float64(len(fused)))
	return fused
}
