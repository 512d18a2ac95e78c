package assistant

import (
	"fmt"

	"legalassist/message"
)

// Kind identifies the shape of raw input handed to a workflow run.
type Kind string

const (
	KindText  Kind = "text"
	KindImage Kind = "image"
	KindPDF   Kind = "pdf"
)

// Query is one workflow invocation: raw input, its kind, an optional free-text
// sub-question accompanying image/pdf input, and an optional conversation seed
// carried over from a previous run.
type Query struct {
	Input     []byte
	Kind      Kind
	TextQuery string
	History   []*message.Message
}

// NormalizedInput is the single canonical content string later stages consume,
// plus metadata about how it was produced. Immutable once created.
type NormalizedInput struct {
	Kind     Kind              `json:"kind"`
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// QueryIntent is the structured decomposition of the user's query. The model's
// output is untrusted partial data, so every field defaults to empty.
type QueryIntent struct {
	CoreLegalIssue  string   `json:"core_legal_issue"`
	Jurisdiction    string   `json:"jurisdiction"`
	LegalDomains    []string `json:"legal_domains,omitempty"`
	Subqueries      []string `json:"subqueries,omitempty"`
	TimeSensitivity string   `json:"time_sensitivity,omitempty"`
	KeyTerms        []string `json:"key_terms,omitempty"`
}

// DocumentEvidence is a scored passage retrieved from the internal corpus.
type DocumentEvidence struct {
	Source         string  `json:"source"`
	Page           int     `json:"page"`
	RelevanceScore float64 `json:"relevance_score"`
	Content        string  `json:"content"`
}

// Key is the identity used for deduplication.
func (d DocumentEvidence) Key() string {
	return fmt.Sprintf("%s#%d", d.Source, d.Page)
}

// WebEvidence is one public web result. URL is the identity; a web evidence
// set never holds two items with the same URL.
type WebEvidence struct {
	URL     string `json:"url"`
	Title   string `json:"title,omitempty"`
	Content string `json:"content"`
}

// Evaluation scores the sufficiency of one retrieval stage. RelevanceScore is
// clamped to [0,10] during decoding; the auxiliary fields differ between the
// document and web variants and stay empty for the other kind.
type Evaluation struct {
	RelevanceScore      float64  `json:"relevance_score"`
	InformationGaps     []string `json:"information_gaps,omitempty"`
	KeyMatchingSections []string `json:"key_matching_sections,omitempty"`
	Confidence          string   `json:"confidence_assessment,omitempty"`
	KeyInsights         []string `json:"key_insights,omitempty"`
	SourceCredibility   string   `json:"source_credibility,omitempty"`
}

// GateDecision is the output of a sufficiency gate.
type GateDecision struct {
	Sufficient           bool
	NeedAdditionalSearch bool
}

// Result is the terminal state of one workflow run.
type Result struct {
	Input           NormalizedInput    `json:"processed_input"`
	Intent          QueryIntent        `json:"query_details"`
	DocumentResults []DocumentEvidence `json:"document_search_results,omitempty"`
	DocumentEval    *Evaluation        `json:"document_search_evaluation,omitempty"`
	WebResults      []WebEvidence      `json:"web_search_results,omitempty"`
	WebEval         *Evaluation        `json:"web_search_evaluation,omitempty"`
	Answer          string             `json:"final_response"`
	References      []string           `json:"references"`
	History         []*message.Message `json:"conversation_history"`
}
