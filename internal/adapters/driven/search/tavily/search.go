// Package tavily provides a web search adapter using the Tavily API.
package tavily

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/khanhduydev/portfolio-rag/internal/core/domain"
	"github.com/khanhduydev/portfolio-rag/internal/core/ports/driven"
)

// Ensure SearchService implements the interface.
var _ driven.WebSearchService = (*SearchService)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.tavily.com"
	DefaultTimeout = 10 * time.Second

	// Tavily free tier is quota-limited per month; keep bursts small.
	defaultRequestsPerSecond = 1.0
	defaultBurstSize         = 3
)

// Config holds configuration for the Tavily search service.
type Config struct {
	// APIKey is the Tavily API key (required).
	APIKey string

	// BaseURL is the Tavily API base URL (default: https://api.tavily.com).
	BaseURL string

	// Timeout is the request timeout (default: 10s).
	Timeout time.Duration
}

// SearchService performs web searches using the Tavily API.
type SearchService struct {
	client  *http.Client
	limiter *rate.Limiter
	baseURL string
	apiKey  string
}

// searchRequest is the Tavily /search request format.
type searchRequest struct {
	APIKey      string `json:"api_key"`
	Query       string `json:"query"`
	MaxResults  int    `json:"max_results"`
	SearchDepth string `json:"search_depth"`
}

// searchResponse is the Tavily /search response format.
type searchResponse struct {
	Results []searchResult `json:"results"`
}

type searchResult struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

// NewSearchService creates a new Tavily search service.
func NewSearchService(cfg Config) (*SearchService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("tavily: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &SearchService{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(defaultRequestsPerSecond), defaultBurstSize),
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
	}, nil
}

// Search runs a web search and returns up to maxResults results.
func (s *SearchService) Search(ctx context.Context, query string, maxResults int) ([]domain.WebResult, error) {
	if maxResults <= 0 {
		maxResults = 3
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	reqBody := searchRequest{
		APIKey:      s.apiKey,
		Query:       query,
		MaxResults:  maxResults,
		SearchDepth: "basic",
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.baseURL+"/search",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("tavily error (status %d): failed to read response", resp.StatusCode)
		}
		return nil, fmt.Errorf("tavily error (status %d): %s", resp.StatusCode, string(body))
	}

	var searchResp searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	results := make([]domain.WebResult, 0, len(searchResp.Results))
	for _, r := range searchResp.Results {
		results = append(results, domain.WebResult{
			Title:   r.Title,
			URL:     r.URL,
			Content: r.Content,
			Score:   r.Score,
		})
	}

	return results, nil
}

// Close releases resources.
func (s *SearchService) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}
