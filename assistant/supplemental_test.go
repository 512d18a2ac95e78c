package assistant

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"legalassist/websearch"
)

// funcWeb routes each search call through a caller-supplied function.
type funcWeb struct {
	fn func(query string, opts websearch.Options) ([]websearch.Result, error)
}

func (f *funcWeb) Search(ctx context.Context, query string, opts websearch.Options) ([]websearch.Result, error) {
	return f.fn(query, opts)
}

func newTestAssistant(t *testing.T, web websearch.Client) *Assistant {
	t.Helper()
	a, err := New(Collaborators{
		LLM:   &scriptedLLM{},
		Index: &stubIndex{},
		Web:   web,
	})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	return a
}

func TestSearchGapsCapsAndDeduplicates(t *testing.T) {
	calls := 0
	web := &funcWeb{fn: func(query string, opts websearch.Options) ([]websearch.Result, error) {
		calls++
		return []websearch.Result{
			{URL: fmt.Sprintf("https://example.com/%d-a", calls), Content: "a"},
			{URL: fmt.Sprintf("https://example.com/%d-b", calls), Content: "b"},
		}, nil
	}}
	a := newTestAssistant(t, web)

	current := []WebEvidence{
		{URL: "https://existing.com/one", Content: "kept first"},
		{URL: "https://existing.com/two", Content: "kept second"},
	}
	gaps := []string{"gap 1", "gap 2", "gap 3", "gap 4", "gap 5"}

	out := a.searchGaps(context.Background(), QueryIntent{Jurisdiction: "India"}, gaps, nil, current)

	if len(out) > 8 {
		t.Fatalf("supplemental evidence exceeds cap: %d items", len(out))
	}
	seen := make(map[string]struct{})
	for _, item := range out {
		if _, dup := seen[item.URL]; dup {
			t.Fatalf("duplicate url survived dedup: %s", item.URL)
		}
		seen[item.URL] = struct{}{}
	}
	// Prior evidence keeps priority over newly retrieved items.
	if out[0].URL != "https://existing.com/one" || out[1].URL != "https://existing.com/two" {
		t.Fatalf("existing evidence lost its position: %+v", out[:2])
	}
}

func TestSearchGapsDedupPrefersExistingEvidence(t *testing.T) {
	web := &funcWeb{fn: func(query string, opts websearch.Options) ([]websearch.Result, error) {
		return []websearch.Result{
			{URL: "https://existing.com/one", Content: "refetched"},
			{URL: "https://fresh.com/new", Content: "new"},
		}, nil
	}}
	a := newTestAssistant(t, web)

	current := []WebEvidence{{URL: "https://existing.com/one", Content: "original"}}
	out := a.searchGaps(context.Background(), QueryIntent{}, []string{"gap"}, nil, current)

	if len(out) != 2 {
		t.Fatalf("expected 2 items, got %v", out)
	}
	if out[0].Content != "original" {
		t.Fatalf("first occurrence not kept: %+v", out[0])
	}
}

func TestSearchGapsSkipsBlankGapsAndSurvivesFailures(t *testing.T) {
	var queries []string
	web := &funcWeb{fn: func(query string, opts websearch.Options) ([]websearch.Result, error) {
		queries = append(queries, query)
		if strings.Contains(query, "failing") {
			return nil, fmt.Errorf("upstream timeout")
		}
		return []websearch.Result{{URL: "https://ok.com/" + fmt.Sprint(len(queries)), Content: "x"}}, nil
	}}
	a := newTestAssistant(t, web)

	out := a.searchGaps(context.Background(), QueryIntent{},
		[]string{"", "  ", "failing gap"}, []string{"working gap"}, nil)

	if len(queries) != 2 {
		t.Fatalf("blank gaps must be skipped, got queries %v", queries)
	}
	if len(out) != 1 {
		t.Fatalf("failing gap must not abort remaining gaps, got %v", out)
	}
}

func TestDedupWebEvidenceIdempotent(t *testing.T) {
	evidence := []WebEvidence{
		{URL: "https://a.com", Content: "1"},
		{URL: "https://b.com", Content: "2"},
		{URL: "https://a.com", Content: "3"},
		{URL: "", Content: "no url"},
	}

	once := dedupWebEvidence(evidence)
	twice := dedupWebEvidence(once)

	if len(once) != 2 {
		t.Fatalf("expected 2 unique items, got %v", once)
	}
	if len(twice) != len(once) {
		t.Fatalf("dedup is not idempotent: %d vs %d", len(twice), len(once))
	}
	for i := range once {
		if once[i] != twice[i] {
			t.Fatalf("dedup reordered on second pass: %+v vs %+v", once[i], twice[i])
		}
	}
}
