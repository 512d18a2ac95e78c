package inmemory

import (
	"context"
	"math"
	"strings"
	"testing"

	"legalassist/vector"
)

// axisEmbedder maps known keywords onto fixed axes so similarity ordering
// in tests is deterministic.
type axisEmbedder struct {
	axes []string
}

func (e *axisEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vec := make([]float32, len(e.axes))
	for i, axis := range e.axes {
		if strings.Contains(strings.ToLower(text), axis) {
			vec[i] = 1
		}
	}
	return vec, nil
}

func (e *axisEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, _ := e.Embed(ctx, t)
		out[i] = v
	}
	return out, nil
}

func (e *axisEmbedder) Dimension() int { return len(e.axes) }

func TestIndexSearchOrdering(t *testing.T) {
	ctx := context.Background()
	idx := New(&axisEmbedder{axes: []string{"tenancy", "contract", "patent"}})

	err := idx.Add(ctx,
		vector.Match{Content: "tenancy agreements and notice periods", Source: "housing_act.pdf", Page: 4},
		vector.Match{Content: "contract formation requires offer and acceptance", Source: "contracts.pdf", Page: 1},
		vector.Match{Content: "patent claims must be novel", Source: "ip_law.pdf", Page: 12},
	)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	results, err := idx.Search(ctx, "tenancy eviction rules", 2)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Source != "housing_act.pdf" || results[0].Page != 4 {
		t.Fatalf("expected housing_act.pdf page 4 first, got %+v", results[0])
	}
	if results[0].Score <= results[1].Score {
		t.Fatalf("results not ordered by score: %f then %f", results[0].Score, results[1].Score)
	}
}

func TestIndexTopKClamp(t *testing.T) {
	ctx := context.Background()
	idx := New(&axisEmbedder{axes: []string{"tenancy"}})

	if err := idx.Add(ctx, vector.Match{Content: "tenancy deposit rules", Source: "a.pdf", Page: 1}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	results, err := idx.Search(ctx, "tenancy", 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
}

func TestIndexClearAndCount(t *testing.T) {
	ctx := context.Background()
	idx := New(&axisEmbedder{axes: []string{"tenancy"}})

	idx.Add(ctx, vector.Match{Content: "tenancy deposit rules", Source: "a.pdf", Page: 1})
	if n, _ := idx.Count(ctx); n != 1 {
		t.Fatalf("expected count 1, got %d", n)
	}

	idx.Clear(ctx)
	if n, _ := idx.Count(ctx); n != 0 {
		t.Fatalf("expected count 0 after Clear, got %d", n)
	}
}

func TestIndexRejectsEmptyContent(t *testing.T) {
	idx := New(&axisEmbedder{axes: []string{"tenancy"}})
	if err := idx.Add(context.Background(), vector.Match{Source: "a.pdf"}); err == nil {
		t.Fatal("expected error for empty content")
	}
}

func TestCosineSimilarity(t *testing.T) {
	a := []float32{1.0, 0.0, 0.0}
	b := []float32{1.0, 0.0, 0.0}
	c := []float32{0.0, 1.0, 0.0}

	if sim := vector.CosineSimilarity(a, b); math.Abs(float64(sim)-1.0) > 1e-5 {
		t.Errorf("expected similarity ~1.0 for identical vectors, got %f", sim)
	}
	if sim := vector.CosineSimilarity(a, c); math.Abs(float64(sim)) > 1e-5 {
		t.Errorf("expected similarity ~0.0 for orthogonal vectors, got %f", sim)
	}
}
