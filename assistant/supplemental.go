package assistant

import (
	"context"
	"fmt"
	"strings"

	"legalassist/websearch"
)

// searchGaps runs one web query per reported information gap, document gaps
// first. A failed gap query is logged and skipped so the remaining gaps still
// run. New results are appended after the existing web evidence, deduplicated
// by URL keeping first occurrence, and truncated to the evidence cap.
func (a *Assistant) searchGaps(ctx context.Context, intent QueryIntent, docGaps, webGaps []string, current []WebEvidence) []WebEvidence {
	gaps := make([]string, 0, len(docGaps)+len(webGaps))
	gaps = append(gaps, docGaps...)
	gaps = append(gaps, webGaps...)

	var added []WebEvidence
	for _, gap := range gaps {
		gap = strings.TrimSpace(gap)
		if gap == "" {
			continue
		}

		query := fmt.Sprintf("%s legal information %s", gap, intent.Jurisdiction)
		results, err := a.web.Search(ctx, query, websearch.Options{
			MaxResults: a.cfg.GapMaxResults,
			Depth:      websearch.DepthAdvanced,
		})
		if err != nil {
			a.logger.Warn("supplemental gap search failed", "gap", gap, "error", err)
			continue
		}
		added = append(added, toWebEvidence(results)...)
	}

	combined := make([]WebEvidence, 0, len(current)+len(added))
	combined = append(combined, current...)
	combined = append(combined, added...)

	unique := dedupWebEvidence(combined)
	if len(unique) > a.cfg.WebEvidenceCap {
		unique = unique[:a.cfg.WebEvidenceCap]
	}
	return unique
}
