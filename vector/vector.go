// Package vector defines the document similarity-search collaborator contract
// and the embedding primitives its implementations share.
package vector

import (
	"context"
	"math"
)

// Match is one scored passage returned by an index search.
type Match struct {
	Content string  `json:"content"`
	Source  string  `json:"source"`
	Page    int     `json:"page"`
	Score   float64 `json:"score"`
}

// Index is the similarity-search collaborator: given a query string, return
// the top-K scored passages with their source metadata, ordered by descending
// relevance. Implementations must be safe for concurrent use.
type Index interface {
	Search(ctx context.Context, query string, topK int) ([]Match, error)
}

// Indexer is implemented by indexes that also accept passage ingestion.
type Indexer interface {
	Index

	// Add stores passages so later searches can match them.
	Add(ctx context.Context, matches ...Match) error

	// Count returns the number of stored passages.
	Count(ctx context.Context) (int, error)
}

// Embedder defines the interface for creating embeddings from text
type Embedder interface {
	// Embed converts text to a vector embedding
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch converts multiple texts to embeddings
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension return number of embedding dimensions
	Dimension() int
}

// CosineSimilarity calculates the cosine similarity between two vectors
func CosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) {
		return 0
	}

	var dotProduct, normA, normB float32
	for i := 0; i < len(a); i++ {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / float32(math.Sqrt(float64(normA))*math.Sqrt(float64(normB))+1e-8)
}

// Normalize scales the vector to unit length (L2 norm).
func Normalize(vec []float32) []float32 {
	if len(vec) == 0 {
		return vec
	}
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return vec
	}
	inv := float32(1 / math.Sqrt(sum))
	for i := range vec {
		vec[i] *= inv
	}
	return vec
}
