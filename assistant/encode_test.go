package assistant

import "testing"

func TestDecodeIntentFullObject(t *testing.T) {
	raw := `{
		"core_legal_issue": "noise pollution remedies",
		"jurisdiction": "India",
		"legal_domains": ["civil", "environmental"],
		"subqueries": ["what are permissible decibel limits"],
		"time_sensitivity": "none",
		"key_terms": ["nuisance", "injunction"]
	}`

	intent := decodeIntent(raw)
	if intent.CoreLegalIssue != "noise pollution remedies" {
		t.Fatalf("core issue: %q", intent.CoreLegalIssue)
	}
	if intent.Jurisdiction != "India" {
		t.Fatalf("jurisdiction: %q", intent.Jurisdiction)
	}
	if len(intent.LegalDomains) != 2 || len(intent.KeyTerms) != 2 {
		t.Fatalf("lists not decoded: %#v", intent)
	}
}

func TestDecodeIntentDegradesNeverFails(t *testing.T) {
	cases := map[string]string{
		"empty":          "",
		"prose":          "I could not produce JSON for this query.",
		"partial":        `{"core_legal_issue": "tenant eviction"}`,
		"wrong_types":    `{"core_legal_issue": 42, "key_terms": "single term"}`,
		"trailing_prose": `{"core_legal_issue": "x"} Here is my explanation of the fields.`,
	}

	for name, raw := range cases {
		intent := decodeIntent(raw)
		_ = intent // a degraded intent is acceptable, a panic or error is not
		if name == "partial" && intent.CoreLegalIssue != "tenant eviction" {
			t.Fatalf("partial object should keep present fields, got %#v", intent)
		}
		if name == "trailing_prose" && intent.CoreLegalIssue != "x" {
			t.Fatalf("trailing prose should be cut, got %#v", intent)
		}
		if name == "wrong_types" && len(intent.KeyTerms) != 1 {
			t.Fatalf("scalar key_terms should coerce to one-element list, got %#v", intent)
		}
	}
}

func TestDecodeIntentStripsFences(t *testing.T) {
	raw := "```json\n{\"core_legal_issue\": \"contract breach\"}\n```"
	if got := decodeIntent(raw).CoreLegalIssue; got != "contract breach" {
		t.Fatalf("fenced JSON not decoded, got %q", got)
	}
}

func TestDecodeEvaluationClampsScore(t *testing.T) {
	cases := []struct {
		raw  string
		want float64
	}{
		{`{"relevance_score": 8.5}`, 8.5},
		{`{"relevance_score": 42}`, 10},
		{`{"relevance_score": -3}`, 0},
		{`{"relevance_score": "7"}`, 7},
		{`{"relevance_score": "not a number"}`, 0},
		{`{}`, 0},
		{`garbage`, 0},
	}

	for _, tc := range cases {
		if got := decodeEvaluation(tc.raw).RelevanceScore; got != tc.want {
			t.Fatalf("raw %q: expected %v, got %v", tc.raw, tc.want, got)
		}
	}
}

func TestDecodeEvaluationSpacedKeys(t *testing.T) {
	// The model sometimes echoes the prompt's human-readable field names.
	raw := `{"Relevance Score": 6, "Information Gaps": ["statute of limitations"]}`
	eval := decodeEvaluation(raw)
	if eval.RelevanceScore != 6 {
		t.Fatalf("spaced key score not decoded: %v", eval.RelevanceScore)
	}
	if len(eval.InformationGaps) != 1 || eval.InformationGaps[0] != "statute of limitations" {
		t.Fatalf("spaced key gaps not decoded: %#v", eval.InformationGaps)
	}
}

func TestFirstJSONObjectHandlesNestedBracesInStrings(t *testing.T) {
	raw := `{"a": "value with { brace", "b": {"c": 1}} trailing`
	got := firstJSONObject(raw)
	want := `{"a": "value with { brace", "b": {"c": 1}}`
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
