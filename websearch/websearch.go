// Package websearch defines the public web-search collaborator contract.
package websearch

import "context"

// Depth controls how aggressively a provider crawls for a query.
type Depth string

const (
	DepthBasic    Depth = "basic"
	DepthAdvanced Depth = "advanced"
)

// Result is one web search hit.
type Result struct {
	URL     string  `json:"url"`
	Title   string  `json:"title,omitempty"`
	Content string  `json:"content"`
	Score   float64 `json:"score,omitempty"`
}

// Options tunes a single search call.
type Options struct {
	MaxResults int
	Depth      Depth
}

// Client is the web-search collaborator. Implementations must be safe for
// concurrent use; callers treat search as best-effort and absorb errors
// themselves where appropriate.
type Client interface {
	Search(ctx context.Context, query string, opts Options) ([]Result, error)
}
