package searchapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pandect-io/pandect/internal/domain"
	"github.com/pandect-io/pandect/internal/metrics"
)

// Client talks to the external search engine over its JSON API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

// Config holds search engine connection settings.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	Logger  *zap.Logger
}

// New creates a search engine client.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type searchRequest struct {
	Query   string            `json:"query"`
	Filters map[string]string `json:"filters,omitempty"`
	Limit   int               `json:"limit"`
}

type searchResponse struct {
	Results []domain.Candidate `json:"results"`
}

// Lexical runs a keyword query and returns a ranked candidate list.
func (c *Client) Lexical(
	ctx context.Context, query string, filters map[string]string, limit int,
) ([]domain.Candidate, error) {
	return c.search(ctx, "lexical", query, filters, limit)
}

// Semantic runs an embedding similarity query and returns a ranked candidate list.
func (c *Client) Semantic(
	ctx context.Context, query string, filters map[string]string, limit int,
) ([]domain.Candidate, error) {
	return c.search(ctx, "semantic", query, filters, limit)
}

func (c *Client) search(
	ctx context.Context, endpoint, query string, filters map[string]string, limit int,
) ([]domain.Candidate, error) {
	body, err := json.Marshal(searchRequest{Query: query, Filters: filters, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("marshal search request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.baseURL+"/search/"+endpoint, bytes.NewReader(body),
	)
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	c.setHeaders(req)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		return nil, fmt.Errorf("%w: %w", domain.ErrSearchUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		metrics.SearchRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		return nil, fmt.Errorf("%w: %s returned status %d", domain.ErrSearchUnavailable, endpoint, resp.StatusCode)
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		metrics.SearchRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	metrics.SearchRequestsTotal.WithLabelValues(endpoint, "success").Inc()
	metrics.SearchDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())

	return parsed.Results, nil
}

// GetDocument fetches a single document by id. A missing document maps to
// domain.ErrDocumentNotFound, not a generic error.
func (c *Client) GetDocument(ctx context.Context, id string) (*domain.Candidate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/documents/"+id, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build document request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues("document", "error").Inc()
		return nil, fmt.Errorf("%w: %w", domain.ErrSearchUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
		metrics.SearchRequestsTotal.WithLabelValues("document", "success").Inc()
	case http.StatusNotFound:
		metrics.SearchRequestsTotal.WithLabelValues("document", "not_found").Inc()
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("document %s: %w", id, domain.ErrDocumentNotFound)
	default:
		metrics.SearchRequestsTotal.WithLabelValues("document", "error").Inc()
		return nil, fmt.Errorf("%w: documents returned status %d", domain.ErrSearchUnavailable, resp.StatusCode)
	}

	var cand domain.Candidate
	if err := json.NewDecoder(resp.Body).Decode(&cand); err != nil {
		return nil, fmt.Errorf("decode document response: %w", err)
	}
	return &cand, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}
