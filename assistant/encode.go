package assistant

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// The model is asked for JSON but frequently wraps it in fences or follows it
// with prose. Decoding here is tolerant by contract: a malformed or partial
// object degrades to empty fields, it never fails the workflow.

func sanitizeJSON(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "```") {
		trimmed = trimmed[3:]
		trimmed = strings.TrimPrefix(trimmed, "json")
		trimmed = strings.TrimPrefix(trimmed, "JSON")
		if idx := strings.Index(trimmed, "```"); idx >= 0 {
			trimmed = trimmed[:idx]
		}
	}
	return firstJSONObject(strings.TrimSpace(trimmed))
}

// firstJSONObject cuts the first balanced {...} out of text that may carry
// trailing explanations after the object.
func firstJSONObject(raw string) string {
	start := strings.Index(raw, "{")
	if start < 0 {
		return raw
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		c := raw[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return raw[start : i+1]
			}
		}
	}
	return raw[start:]
}

func decodeFields(raw string) map[string]any {
	var fields map[string]any
	if err := json.Unmarshal([]byte(sanitizeJSON(raw)), &fields); err != nil {
		return nil
	}
	normalized := make(map[string]any, len(fields))
	for k, v := range fields {
		normalized[normalizeKey(k)] = v
	}
	return normalized
}

// normalizeKey maps the model's field spellings ("Relevance Score",
// "relevance-score") onto the canonical snake_case names.
func normalizeKey(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	key = strings.ReplaceAll(key, " ", "_")
	key = strings.ReplaceAll(key, "-", "_")
	return key
}

// decodeIntent parses decomposition output. Missing or malformed fields leave
// their zero defaults; a degraded intent is acceptable, a missing one is not.
func decodeIntent(raw string) QueryIntent {
	fields := decodeFields(raw)
	return QueryIntent{
		CoreLegalIssue:  asString(fields["core_legal_issue"]),
		Jurisdiction:    asString(fields["jurisdiction"]),
		LegalDomains:    asStringList(fields["legal_domains"]),
		Subqueries:      asStringList(fields["subqueries"]),
		TimeSensitivity: asString(fields["time_sensitivity"]),
		KeyTerms:        asStringList(fields["key_terms"]),
	}
}

// decodeEvaluation parses evaluator output, clamping the relevance score into
// [0,10]. Anything non-numeric scores 0.
func decodeEvaluation(raw string) Evaluation {
	fields := decodeFields(raw)
	return Evaluation{
		RelevanceScore:      clampScore(asFloat(fields["relevance_score"])),
		InformationGaps:     asStringList(fields["information_gaps"]),
		KeyMatchingSections: asStringList(fields["key_matching_sections"]),
		Confidence:          asString(fields["confidence_assessment"]),
		KeyInsights:         asStringList(fields["key_insights"]),
		SourceCredibility:   asString(fields["source_credibility"]),
	}
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 10 {
		return 10
	}
	return v
}

func asString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if s := asString(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", val))
	}
}

func asStringList(v any) []string {
	switch val := v.(type) {
	case nil:
		return nil
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s := asString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		if s := strings.TrimSpace(val); s != "" {
			return []string{s}
		}
		return nil
	default:
		if s := asString(v); s != "" {
			return []string{s}
		}
		return nil
	}
}

func asFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}
