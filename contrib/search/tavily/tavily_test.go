package tavily

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"legalassist/websearch"
)

func TestSearchSendsDepthAndMaxResults(t *testing.T) {
	var got tavilyRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(tavilyResponse{Results: []tavilyResult{
			{URL: "https://example.com/a", Title: "A", Content: "tenancy law overview", Score: 0.9},
		}})
	}))
	defer srv.Close()

	client := New(&Config{APIKey: "key", BaseURL: srv.URL})
	results, err := client.Search(context.Background(), "eviction notice validity", websearch.Options{
		MaxResults: 2,
		Depth:      websearch.DepthAdvanced,
	})
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}

	if got.Query != "eviction notice validity" {
		t.Fatalf("query: %q", got.Query)
	}
	if got.SearchDepth != "advanced" || got.MaxResults != 2 {
		t.Fatalf("depth/max: %q/%d", got.SearchDepth, got.MaxResults)
	}
	if len(results) != 1 || results[0].URL != "https://example.com/a" {
		t.Fatalf("results: %+v", results)
	}
}

func TestSearchErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"invalid api key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := New(&Config{APIKey: "bad", BaseURL: srv.URL})
	if _, err := client.Search(context.Background(), "q", websearch.Options{}); err == nil {
		t.Fatal("expected error on non-200 status")
	}
}

func TestSearchRequiresAPIKey(t *testing.T) {
	client := New(nil)
	if _, err := client.Search(context.Background(), "q", websearch.Options{}); err == nil {
		t.Fatal("expected missing key error")
	}
}

func TestCleanContentStripsMarkupAndNoise(t *testing.T) {
	in := "<h2>Adverse Possession</h2><p>Occupation must be  continuous.</p><li>hostile claim</li>"
	got := CleanContent(in)
	if strings.Contains(got, "<") {
		t.Fatalf("markup survived: %q", got)
	}
	if !strings.Contains(got, "Adverse Possession") || !strings.Contains(got, "- hostile claim") {
		t.Fatalf("content lost: %q", got)
	}
	if strings.Contains(got, "  ") {
		t.Fatalf("spaces not collapsed: %q", got)
	}

	noisy := "This site uses Cookie banners\nThe statute requires notice"
	cleaned := CleanContent(noisy)
	if strings.Contains(cleaned, "Cookie") || !strings.Contains(cleaned, "statute") {
		t.Fatalf("noise filter: %q", cleaned)
	}
}

func TestCleanContentPlainTextPassthrough(t *testing.T) {
	if got := CleanContent("plain statutory text"); got != "plain statutory text" {
		t.Fatalf("got %q", got)
	}
}
