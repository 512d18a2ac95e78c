package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"legalassist/message"
)

const synthesizeTemplate = `Generate a comprehensive legal response based on the following:

Original Query: %s
Query Analysis: %s
Document Search Results:
%s
Web Search Results:
%s
Recent Conversation:
%s

Your response should include:
1. A clear explanation of the legal concepts and principles
2. Applicable laws, regulations, or precedents
3. Practical guidance on how to proceed
4. Any necessary disclaimers about jurisdictional limitations
5. References to sources used

Remember to remain balanced, factual, and helpful while acknowledging legal complexities.`

// synthesize produces the final cited answer from the full evidence context
// and the recent conversation turns.
func (a *Assistant) synthesize(ctx context.Context, input NormalizedInput, intent QueryIntent, docs []DocumentEvidence, webs []WebEvidence, history *message.History) (string, error) {
	intentJSON, err := json.Marshal(intent)
	if err != nil {
		return "", fmt.Errorf("marshal query intent: %w", err)
	}

	docBlock := a.fitBudget(formatDocEvidence(docs))
	webBlock := a.fitBudget(formatWebEvidence(webs))
	conversation := formatTurns(history.Recent(a.cfg.RecentTurns))

	msgs := []*message.Message{
		message.NewMessage(message.RoleSystem, a.cfg.SynthesisPrompt),
		message.NewMessage(message.RoleUser, fmt.Sprintf(synthesizeTemplate,
			input.Content, intentJSON, docBlock, webBlock, conversation)),
	}

	resp, err := a.llm.Generate(ctx, msgs)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSynthesis, err)
	}
	if resp == nil || strings.TrimSpace(resp.Content) == "" {
		return "", fmt.Errorf("%w: empty response", ErrSynthesis)
	}
	return strings.TrimSpace(resp.Content), nil
}

// extractReferences builds the citation list: one formatted entry per distinct
// document item, followed by each distinct web URL. Pure and order-preserving.
func extractReferences(docs []DocumentEvidence, webs []WebEvidence) []string {
	references := make([]string, 0, len(docs)+len(webs))
	seen := make(map[string]struct{}, len(docs)+len(webs))

	for _, doc := range docs {
		if doc.Source == "" {
			continue
		}
		ref := fmt.Sprintf("%s (Page %d)", doc.Source, doc.Page)
		if _, ok := seen[ref]; ok {
			continue
		}
		seen[ref] = struct{}{}
		references = append(references, ref)
	}

	for _, web := range webs {
		if web.URL == "" {
			continue
		}
		if _, ok := seen[web.URL]; ok {
			continue
		}
		seen[web.URL] = struct{}{}
		references = append(references, web.URL)
	}

	return references
}

func formatDocEvidence(docs []DocumentEvidence) string {
	if len(docs) == 0 {
		return "No document evidence was retrieved."
	}
	var b strings.Builder
	for _, doc := range docs {
		fmt.Fprintf(&b, "[%s Page:%d Score:%.2f]\n%s\n---\n", doc.Source, doc.Page, doc.RelevanceScore, doc.Content)
	}
	return b.String()
}

func formatWebEvidence(webs []WebEvidence) string {
	if len(webs) == 0 {
		return "No web evidence was retrieved."
	}
	var b strings.Builder
	for _, web := range webs {
		title := web.Title
		if title == "" {
			title = web.URL
		}
		fmt.Fprintf(&b, "[%s]\n%s\n%s\n---\n", title, web.URL, web.Content)
	}
	return b.String()
}

func formatTurns(turns []*message.Message) string {
	if len(turns) == 0 {
		return "(no prior conversation)"
	}
	var b strings.Builder
	for _, turn := range turns {
		fmt.Fprintf(&b, "%s: %s\n", turn.Role, turn.Content)
	}
	return b.String()
}

// fitBudget trims an evidence block to the configured token budget. Without a
// tokenizer or budget the block passes through untouched.
func (a *Assistant) fitBudget(block string) string {
	if a.cfg.tokenizer == nil || a.cfg.ContextTokenBudget <= 0 {
		return block
	}
	if a.cfg.tokenizer.CountTokens(block) <= a.cfg.ContextTokenBudget {
		return block
	}

	// Binary search the longest prefix within budget, cutting at a rune edge.
	runes := []rune(block)
	lo, hi := 0, len(runes)
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if a.cfg.tokenizer.CountTokens(string(runes[:mid])) <= a.cfg.ContextTokenBudget {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return string(runes[:lo])
}
