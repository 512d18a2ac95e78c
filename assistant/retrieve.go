package assistant

import (
	"context"
	"fmt"
	"strings"

	"legalassist/websearch"
)

// searchDocuments queries the internal corpus with the core issue plus key
// terms. Rank order from the index is preserved; duplicate (source, page)
// pairs keep their first occurrence.
func (a *Assistant) searchDocuments(ctx context.Context, intent QueryIntent) ([]DocumentEvidence, error) {
	query := strings.TrimSpace(intent.CoreLegalIssue + " " + strings.Join(intent.KeyTerms, " "))

	matches, err := a.index.Search(ctx, query, a.cfg.DocTopK)
	if err != nil {
		return nil, fmt.Errorf("document search: %w", err)
	}

	seen := make(map[string]struct{}, len(matches))
	evidence := make([]DocumentEvidence, 0, len(matches))
	for _, m := range matches {
		item := DocumentEvidence{
			Source:         m.Source,
			Page:           m.Page,
			RelevanceScore: m.Score,
			Content:        m.Content,
		}
		if _, ok := seen[item.Key()]; ok {
			continue
		}
		seen[item.Key()] = struct{}{}
		evidence = append(evidence, item)
	}
	return evidence, nil
}

// searchWeb queries the public web for the core issue scoped to the
// jurisdiction. Web search is best-effort: a collaborator failure degrades to
// empty evidence and the evaluator downstream reports the insufficiency.
func (a *Assistant) searchWeb(ctx context.Context, intent QueryIntent) []WebEvidence {
	query := fmt.Sprintf("%s legal %s", intent.CoreLegalIssue, intent.Jurisdiction)

	results, err := a.web.Search(ctx, query, websearch.Options{
		MaxResults: a.cfg.WebMaxResults,
		Depth:      websearch.DepthAdvanced,
	})
	if err != nil {
		a.logger.Warn("web search failed, continuing with empty evidence", "error", err)
		return nil
	}
	return dedupWebEvidence(toWebEvidence(results))
}

func toWebEvidence(results []websearch.Result) []WebEvidence {
	evidence := make([]WebEvidence, 0, len(results))
	for _, r := range results {
		evidence = append(evidence, WebEvidence{
			URL:     r.URL,
			Title:   r.Title,
			Content: r.Content,
		})
	}
	return evidence
}

// dedupWebEvidence keeps the first occurrence of each URL, dropping items with
// no URL at all. Idempotent.
func dedupWebEvidence(evidence []WebEvidence) []WebEvidence {
	seen := make(map[string]struct{}, len(evidence))
	out := make([]WebEvidence, 0, len(evidence))
	for _, item := range evidence {
		if item.URL == "" {
			continue
		}
		if _, ok := seen[item.URL]; ok {
			continue
		}
		seen[item.URL] = struct{}{}
		out = append(out, item)
	}
	return out
}
