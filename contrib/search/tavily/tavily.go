package tavily

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"legalassist/websearch"
)

const tavilyAPIURL = "https://api.tavily.com/search"

// Config holds Tavily search configuration
type Config struct {
	APIKey  string
	BaseURL string
}

// DefaultConfig returns default Tavily configuration
func DefaultConfig(apiKey string) *Config {
	return &Config{
		APIKey:  apiKey,
		BaseURL: tavilyAPIURL,
	}
}

// Client implements the websearch.Client interface for Tavily
type Client struct {
	config *Config
	client *http.Client
}

// New creates a new Tavily client
func New(config *Config) *Client {
	if config == nil {
		config = DefaultConfig("")
	}
	if config.BaseURL == "" {
		config.BaseURL = tavilyAPIURL
	}

	return &Client{
		config: config,
		client: &http.Client{},
	}
}

// tavilyRequest represents a Tavily API request
type tavilyRequest struct {
	APIKey      string `json:"api_key"`
	Query       string `json:"query"`
	SearchDepth string `json:"search_depth,omitempty"`
	MaxResults  int    `json:"max_results,omitempty"`
}

// tavilyResult represents one hit in a Tavily API response
type tavilyResult struct {
	URL     string  `json:"url"`
	Title   string  `json:"title"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

// tavilyResponse represents a Tavily API response
type tavilyResponse struct {
	Results []tavilyResult `json:"results"`
}

// Search implements websearch.Client
func (c *Client) Search(ctx context.Context, query string, opts websearch.Options) ([]websearch.Result, error) {
	if c.config.APIKey == "" {
		return nil, fmt.Errorf("Tavily API key not configured")
	}

	req := tavilyRequest{
		APIKey:     c.config.APIKey,
		Query:      query,
		MaxResults: opts.MaxResults,
	}
	if opts.Depth != "" {
		req.SearchDepth = string(opts.Depth)
	}

	reqBody, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.config.BaseURL, bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Tavily API error (status %d): %s", httpResp.StatusCode, string(respBody))
	}

	var resp tavilyResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	results := make([]websearch.Result, 0, len(resp.Results))
	for _, r := range resp.Results {
		results = append(results, websearch.Result{
			URL:     r.URL,
			Title:   r.Title,
			Content: CleanContent(r.Content),
			Score:   r.Score,
		})
	}
	return results, nil
}
