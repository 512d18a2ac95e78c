package ingest

import (
	"regexp"
	"strings"
)

var tokenRegex = regexp.MustCompile(`\p{L}[\p{L}\p{M}]*|\p{N}+|[^\s]`)

// Chunker splits extracted page text into overlapping windows so each stored
// passage stays within an embedding-friendly size. It approximates token-aware
// chunking without depending on provider-specific codecs and keeps whitespace
// intact across window boundaries.
type Chunker struct {
	maxTokens     int
	overlapTokens int
}

// ChunkerOption customises the chunker.
type ChunkerOption func(*Chunker)

// WithMaxTokens sets the maximum allowed tokens per chunk (default 256).
func WithMaxTokens(tokens int) ChunkerOption {
	return func(c *Chunker) {
		if tokens > 0 {
			c.maxTokens = tokens
		}
	}
}

// WithOverlapTokens sets how many tokens are shared between consecutive chunks.
func WithOverlapTokens(tokens int) ChunkerOption {
	return func(c *Chunker) {
		if tokens >= 0 {
			c.overlapTokens = tokens
		}
	}
}

// NewChunker creates a token-window chunker.
func NewChunker(opts ...ChunkerOption) *Chunker {
	ch := &Chunker{
		maxTokens:     256,
		overlapTokens: 32,
	}
	for _, opt := range opts {
		opt(ch)
	}
	return ch
}

type segment struct {
	start  int
	end    int
	counts bool
}

// Split divides text into overlapping chunks. Text shorter than one window
// comes back as a single chunk.
func (c *Chunker) Split(text string) []string {
	segments, tokenSegments := buildSegments(text)
	if len(tokenSegments) == 0 {
		return []string{text}
	}

	var chunks []string
	tokenStart := 0
	for tokenStart < len(tokenSegments) {
		tokenEnd := tokenStart + c.maxTokens
		if tokenEnd > len(tokenSegments) {
			tokenEnd = len(tokenSegments)
		}
		startSegment := tokenSegments[tokenStart]
		if startSegment > 0 && !segments[startSegment-1].counts {
			startSegment--
		}
		endSegment := tokenSegments[tokenEnd-1]
		endSegment++
		for endSegment < len(segments) && !segments[endSegment].counts {
			endSegment++
		}

		chunks = append(chunks, extractText(text, segments[startSegment:endSegment]))

		if tokenEnd == len(tokenSegments) {
			break
		}
		tokenStart = tokenEnd - c.overlapTokens
		if tokenStart < 0 {
			tokenStart = 0
		}
	}

	return chunks
}

func buildSegments(text string) ([]segment, []int) {
	var segments []segment
	var tokenSegments []int
	matches := tokenRegex.FindAllStringIndex(text, -1)
	prevEnd := 0
	for _, loc := range matches {
		if loc[0] > prevEnd {
			segments = append(segments, segment{start: prevEnd, end: loc[0], counts: false})
		}
		segments = append(segments, segment{start: loc[0], end: loc[1], counts: true})
		tokenSegments = append(tokenSegments, len(segments)-1)
		prevEnd = loc[1]
	}
	if prevEnd < len(text) {
		segments = append(segments, segment{start: prevEnd, end: len(text), counts: false})
	}
	return segments, tokenSegments
}

func extractText(content string, segments []segment) string {
	var b strings.Builder
	for _, seg := range segments {
		b.WriteString(content[seg.start:seg.end])
	}
	return b.String()
}
