package inmemory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"legalassist/vector"
)

// entry pairs a stored passage with its embedding
type entry struct {
	match vector.Match
	vec   []float32
}

// Index implements vector.Indexer with in-memory storage. Passages are
// embedded at ingestion time and searched by cosine similarity.
type Index struct {
	embedder vector.Embedder
	entries  []entry
	mu       sync.RWMutex
}

// New creates a new in-memory index
func New(embedder vector.Embedder) *Index {
	return &Index{embedder: embedder}
}

// Add embeds and stores passages
func (s *Index) Add(ctx context.Context, matches ...vector.Match) error {
	if len(matches) == 0 {
		return nil
	}

	texts := make([]string, len(matches))
	for i, m := range matches {
		if m.Content == "" {
			return fmt.Errorf("passage content cannot be empty")
		}
		texts[i] = m.Content
	}

	vecs, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to embed passages: %w", err)
	}
	if len(vecs) != len(matches) {
		return fmt.Errorf("embedder returned %d vectors for %d passages", len(vecs), len(matches))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, m := range matches {
		s.entries = append(s.entries, entry{match: m, vec: vector.Normalize(vecs[i])})
	}
	return nil
}

// Search finds the passages most similar to the query
func (s *Index) Search(ctx context.Context, query string, topK int) ([]vector.Match, error) {
	if query == "" {
		return nil, fmt.Errorf("query cannot be empty")
	}
	if topK <= 0 {
		topK = 10
	}

	queryVec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	type scored struct {
		match vector.Match
		sim   float32
	}

	results := make([]scored, 0, len(s.entries))
	for _, e := range s.entries {
		if len(e.vec) != len(queryVec) {
			continue
		}
		sim := vector.CosineSimilarity(queryVec, e.vec)
		results = append(results, scored{match: e.match, sim: sim})
	}

	// Sort by similarity (highest first)
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].sim > results[j].sim
	})

	limit := topK
	if limit > len(results) {
		limit = len(results)
	}

	matches := make([]vector.Match, limit)
	for i := 0; i < limit; i++ {
		matches[i] = results[i].match
		matches[i].Score = float64(results[i].sim)
	}
	return matches, nil
}

// Clear removes all passages
func (s *Index) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	return nil
}

// Count returns the number of stored passages
func (s *Index) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries), nil
}
