package metrics

import "github.com/prometheus/client_golang/prometheus"

// Query pipeline Prometheus metrics.
var (
	QueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pandect",
			Name:      "queries_total",
			Help:      "Total number of answered questions",
		},
		[]string{"language", "domain", "intent", "source"}, // source: "generated" / "cache"
	)

	QueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "pandect",
			Name:      "query_duration_seconds",
			Help:      "End-to-end query duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"source"},
	)

	AnswerCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pandect",
			Name:      "answer_cache_total",
			Help:      "Answer cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	RetrievalErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pandect",
			Name:      "retrieval_errors_total",
			Help:      "Failed retrieval branches",
		},
		[]string{"branch"}, // "lexical" / "semantic"
	)

	RetrievalCandidates = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "pandect",
			Name:      "retrieval_candidates",
			Help:      "Candidate count after rank fusion",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50, 100},
		},
		[]string{"branch"}, // "fused"
	)

	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pandect",
			Name:      "search_requests_total",
			Help:      "Total number of search engine calls",
		},
		[]string{"endpoint", "status"}, // endpoint: "lexical" / "semantic" / "document"
	)

	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "pandect",
			Name:      "search_duration_seconds",
			Help:      "Search engine call duration in seconds",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"endpoint"},
	)

	GenerationRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pandect",
			Name:      "generation_requests_total",
			Help:      "Total number of model completions",
		},
		[]string{"model", "mode", "status"}, // mode: "sync" / "stream"
	)

	GenerationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "pandect",
			Name:      "generation_duration_seconds",
			Help:      "Model completion duration in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"model", "mode"},
	)
)

var ragMetricsRegistered bool

// RegisterRAGMetrics registers query pipeline metrics. Must be called once from main.
func RegisterRAGMetrics() {
	if ragMetricsRegistered {
		return
	}
	prometheus.MustRegister(QueriesTotal)
	prometheus.MustRegister(QueryDuration)
	prometheus.MustRegister(AnswerCacheTotal)
	prometheus.MustRegister(RetrievalErrorsTotal)
	prometheus.MustRegister(RetrievalCandidates)
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(GenerationRequestsTotal)
	prometheus.MustRegister(GenerationDuration)
	ragMetricsRegistered = true
}
