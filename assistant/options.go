package assistant

import (
	"log/slog"

	"legalassist/message"
)

// Tokenizer counts tokens so the synthesis context can be held to a budget.
type Tokenizer interface {
	CountTokens(text string) int
}

// Config controls one assistant's retrieval and generation behaviour. Defaults
// reproduce the production pipeline: top-5 retrieval on both sources, a 7.0
// sufficiency threshold, 2 results per gap query, and at most 8 retained web
// evidence items.
type Config struct {
	Name           string  // Logical name for tracing/logging
	Threshold      float64 // Relevance score at or above which a stage is sufficient
	DocTopK        int     // Passages pulled from the document index
	WebMaxResults  int     // Results requested from the primary web search
	GapMaxResults  int     // Results requested per supplemental gap query
	WebEvidenceCap int     // Upper bound on retained web evidence after supplemental search
	HistoryCap     int     // Conversation turns retained across the run
	RecentTurns    int     // Turns replayed into the synthesis prompt
	GraphMaxVisits int     // Safety guard for graph execution

	DecomposePrompt string // System prompt for query decomposition
	DocEvalPrompt   string // System prompt for document evidence evaluation
	WebEvalPrompt   string // System prompt for web evidence evaluation
	SynthesisPrompt string // System prompt for final response generation

	ContextTokenBudget int // Token cap for the evidence block fed to synthesis (0 disables)

	tokenizer Tokenizer
	logger    *slog.Logger
}

// Option customises the assistant configuration.
type Option func(*Config)

// WithThreshold overrides the sufficiency threshold applied at both gates.
func WithThreshold(threshold float64) Option {
	return func(cfg *Config) {
		if threshold >= 0 && threshold <= 10 {
			cfg.Threshold = threshold
		}
	}
}

// WithDocTopK overrides how many passages the document retriever requests.
func WithDocTopK(k int) Option {
	return func(cfg *Config) {
		if k > 0 {
			cfg.DocTopK = k
		}
	}
}

// WithWebMaxResults overrides how many results the primary web search requests.
func WithWebMaxResults(n int) Option {
	return func(cfg *Config) {
		if n > 0 {
			cfg.WebMaxResults = n
		}
	}
}

// WithGapMaxResults overrides how many results each supplemental gap query requests.
func WithGapMaxResults(n int) Option {
	return func(cfg *Config) {
		if n > 0 {
			cfg.GapMaxResults = n
		}
	}
}

// WithWebEvidenceCap caps how many web evidence items survive supplemental search.
func WithWebEvidenceCap(n int) Option {
	return func(cfg *Config) {
		if n > 0 {
			cfg.WebEvidenceCap = n
		}
	}
}

// WithHistoryCap bounds the conversation history carried across turns.
func WithHistoryCap(n int) Option {
	return func(cfg *Config) {
		if n > 0 {
			cfg.HistoryCap = n
		}
	}
}

// WithDecomposePrompt sets the decomposition system prompt.
func WithDecomposePrompt(prompt string) Option {
	return func(cfg *Config) {
		if prompt != "" {
			cfg.DecomposePrompt = prompt
		}
	}
}

// WithDocEvalPrompt sets the document evidence evaluation system prompt.
func WithDocEvalPrompt(prompt string) Option {
	return func(cfg *Config) {
		if prompt != "" {
			cfg.DocEvalPrompt = prompt
		}
	}
}

// WithWebEvalPrompt sets the web evidence evaluation system prompt.
func WithWebEvalPrompt(prompt string) Option {
	return func(cfg *Config) {
		if prompt != "" {
			cfg.WebEvalPrompt = prompt
		}
	}
}

// WithSynthesisPrompt sets the response-generation system prompt.
func WithSynthesisPrompt(prompt string) Option {
	return func(cfg *Config) {
		if prompt != "" {
			cfg.SynthesisPrompt = prompt
		}
	}
}

// WithTokenBudget caps the evidence context fed to synthesis. Requires a
// tokenizer to take effect.
func WithTokenBudget(budget int) Option {
	return func(cfg *Config) {
		if budget > 0 {
			cfg.ContextTokenBudget = budget
		}
	}
}

// WithTokenizer plugs in the token counter used for the context budget.
func WithTokenizer(t Tokenizer) Option {
	return func(cfg *Config) {
		if t != nil {
			cfg.tokenizer = t
		}
	}
}

// WithLogger overrides the component logger.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *Config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithGraphMaxVisits tweaks the safety guard for graph traversal.
func WithGraphMaxVisits(max int) Option {
	return func(cfg *Config) {
		if max > 0 {
			cfg.GraphMaxVisits = max
		}
	}
}

func defaultConfig() *Config {
	return &Config{
		Name:           "legal-assistant",
		Threshold:      7.0,
		DocTopK:        5,
		WebMaxResults:  5,
		GapMaxResults:  2,
		WebEvidenceCap: 8,
		HistoryCap:     message.DefaultHistoryCap,
		RecentTurns:    5,
		GraphMaxVisits: 10,
		DecomposePrompt: `You are an expert legal AI assistant specializing in understanding complex legal queries.
Your task is to analyze the user's input and break it down into components that will guide a comprehensive legal search and response.
Pay special attention to:
1. Identifying the core legal issue or question
2. Determining relevant jurisdictions
3. Identifying specific legal domains (criminal, civil, corporate, etc.)
4. Extracting potential subqueries that need separate investigation
5. Identifying any time-sensitive elements

Format your analysis as a structured JSON object.`,
		DocEvalPrompt: `You are an expert legal document analyst.
Your task is to evaluate search results from a legal document database and determine if they adequately address the user's query.
Consider:
1. Relevance of the documents to the specific legal question
2. Comprehensiveness of the information provided
3. Accuracy and authority of the sources
4. Whether the information is complete or requires additional context

Assign a relevance score (0-10) and explain your reasoning.`,
		WebEvalPrompt: `You are an expert legal research analyst.
Your task is to evaluate web search results and determine if they adequately address aspects of the user's legal query.
Consider:
1. Credibility of the sources (government sites, law firms, legal journals)
2. Relevance to the specific legal question
3. Currency of the information (especially important for evolving legal topics)
4. Whether the results complement the document search results

Assign a relevance score (0-10) and explain your reasoning.`,
		SynthesisPrompt: `You are a comprehensive legal AI assistant tasked with providing accurate, nuanced, and helpful legal information.
When generating your response:
1. Focus on factual legal information and procedural guidance
2. Clearly distinguish between established law, legal interpretation, and practical advice
3. Include relevant citations and references to legal statutes, cases, or authorities
4. Provide balanced perspectives where legal interpretations differ
5. Clarify any jurisdictional limitations to your advice
6. Include appropriate disclaimers about not providing legal advice

Structure your response in a clear, logical format with headings where appropriate.`,
	}
}

func applyOptions(opts []Option) *Config {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
