package assistant

import (
	"context"
	"fmt"

	"legalassist/message"
)

const decomposeTemplate = `Analyze the following legal query and break it down into its key components:

%s

Return a structured JSON with these fields:
- core_legal_issue: The main legal question or problem
- jurisdiction: Relevant legal jurisdiction(s) if specified or can be inferred
- legal_domains: List of relevant legal areas (e.g., criminal, civil, property)
- subqueries: List of related questions that might need separate investigation
- time_sensitivity: Any urgent aspects of the query
- key_terms: Important legal terms mentioned or implied in the query

Output JSON only, without inline comments.`

// decompose turns canonical content into a QueryIntent. Only a collaborator
// call failure aborts the run; malformed output degrades to empty fields so
// every downstream stage still receives an intent.
func (a *Assistant) decompose(ctx context.Context, content string) (QueryIntent, error) {
	msgs := []*message.Message{
		message.NewMessage(message.RoleSystem, a.cfg.DecomposePrompt),
		message.NewMessage(message.RoleUser, fmt.Sprintf(decomposeTemplate, content)),
	}

	resp, err := a.llm.Generate(ctx, msgs)
	if err != nil {
		return QueryIntent{}, fmt.Errorf("%w: %v", ErrDecomposition, err)
	}
	if resp == nil {
		return QueryIntent{}, fmt.Errorf("%w: empty response", ErrDecomposition)
	}

	intent := decodeIntent(resp.Content)
	if intent.CoreLegalIssue == "" {
		a.logger.Warn("decomposition output missing core legal issue", "raw_length", len(resp.Content))
	}
	return intent, nil
}
