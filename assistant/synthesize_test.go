package assistant

import (
	"strings"
	"testing"
)

func TestExtractReferencesOrderAndDedup(t *testing.T) {
	docs := []DocumentEvidence{
		{Source: "environment_act.pdf", Page: 12},
		{Source: "civil_code.pdf", Page: 3},
		{Source: "environment_act.pdf", Page: 12}, // duplicate formatted string
		{Source: "environment_act.pdf", Page: 13}, // same source, new page
		{Source: "", Page: 1},                     // no source, skipped
	}
	webs := []WebEvidence{
		{URL: "https://example.gov/noise"},
		{URL: "https://example.gov/noise"}, // duplicate url
		{URL: ""},                          // no url, skipped
		{URL: "https://example.org/nuisance"},
	}

	want := []string{
		"environment_act.pdf (Page 12)",
		"civil_code.pdf (Page 3)",
		"environment_act.pdf (Page 13)",
		"https://example.gov/noise",
		"https://example.org/nuisance",
	}

	got := extractReferences(docs, webs)
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("reference %d: expected %q, got %q", i, want[i], got[i])
		}
	}

	// Deterministic: repeated calls over the same inputs agree exactly.
	again := extractReferences(docs, webs)
	for i := range got {
		if got[i] != again[i] {
			t.Fatalf("reference extraction is not deterministic at %d", i)
		}
	}
}

// byteTokenizer counts one token per byte, making budgets easy to reason about.
type byteTokenizer struct{}

func (byteTokenizer) CountTokens(text string) int { return len(text) }

func TestFitBudgetTrimsToTokenCap(t *testing.T) {
	a := &Assistant{cfg: defaultConfig()}
	a.cfg.tokenizer = byteTokenizer{}
	a.cfg.ContextTokenBudget = 10

	long := strings.Repeat("abcde", 10)
	got := a.fitBudget(long)
	if len(got) != 10 {
		t.Fatalf("expected 10-byte prefix, got %d bytes", len(got))
	}
	if !strings.HasPrefix(long, got) {
		t.Fatalf("trimmed block is not a prefix")
	}

	short := "tiny"
	if a.fitBudget(short) != short {
		t.Fatal("blocks within budget must pass through untouched")
	}
}

func TestFitBudgetDisabledWithoutTokenizer(t *testing.T) {
	a := &Assistant{cfg: defaultConfig()}
	a.cfg.ContextTokenBudget = 1

	block := "this would exceed any budget"
	if a.fitBudget(block) != block {
		t.Fatal("budget must be inert without a tokenizer")
	}
}
