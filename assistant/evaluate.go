package assistant

import (
	"context"
	"encoding/json"
	"fmt"

	"legalassist/message"
)

const docEvalTemplate = `Evaluate these document search results for the legal query:

Query Details: %s

Document Search Results:
%s

Provide a JSON response with these fields:
- relevance_score: (0-10)
- key_matching_sections: List of sections most relevant to the query
- information_gaps: Legal aspects of the query not covered by these documents
- confidence_assessment: Your confidence in the documents answering the query correctly`

const webEvalTemplate = `Evaluate these web search results for the legal query:

Query Details: %s

Web Search Results:
%s

Provide a JSON response with these fields:
- relevance_score: (0-10)
- key_insights: Main legal information found in the results
- source_credibility: Assessment of the credibility of the sources
- information_gaps: Aspects of the query not adequately addressed`

// evaluateDocuments scores the sufficiency of document evidence. The
// collaborator's structured output is parsed defensively; only the call itself
// failing propagates.
func (a *Assistant) evaluateDocuments(ctx context.Context, intent QueryIntent, evidence []DocumentEvidence) (*Evaluation, error) {
	return a.evaluate(ctx, a.cfg.DocEvalPrompt, docEvalTemplate, intent, evidence)
}

// evaluateWeb scores the sufficiency of web evidence.
func (a *Assistant) evaluateWeb(ctx context.Context, intent QueryIntent, evidence []WebEvidence) (*Evaluation, error) {
	return a.evaluate(ctx, a.cfg.WebEvalPrompt, webEvalTemplate, intent, evidence)
}

func (a *Assistant) evaluate(ctx context.Context, systemPrompt, template string, intent QueryIntent, evidence any) (*Evaluation, error) {
	intentJSON, err := json.Marshal(intent)
	if err != nil {
		return nil, fmt.Errorf("marshal query intent: %w", err)
	}
	evidenceJSON, err := json.Marshal(evidence)
	if err != nil {
		return nil, fmt.Errorf("marshal evidence: %w", err)
	}

	msgs := []*message.Message{
		message.NewMessage(message.RoleSystem, systemPrompt),
		message.NewMessage(message.RoleUser, fmt.Sprintf(template, intentJSON, evidenceJSON)),
	}

	resp, err := a.llm.Generate(ctx, msgs)
	if err != nil {
		return nil, fmt.Errorf("evidence evaluation: %w", err)
	}
	if resp == nil {
		return nil, fmt.Errorf("evidence evaluation: empty response")
	}

	eval := decodeEvaluation(resp.Content)
	return &eval, nil
}
