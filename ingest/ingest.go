// Package ingest loads legal source documents into the vector index the
// workflow searches. PDFs are extracted page by page, chunked, and stored
// with their source name and page number so answers can cite them.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"legalassist/extract"
	"legalassist/pkg/logging"
	"legalassist/vector"
)

// Ingestor feeds documents into a vector index.
type Ingestor struct {
	index   vector.Indexer
	chunker *Chunker
	logger  *slog.Logger
}

// New creates an ingestor around an index and a chunker. A nil chunker gets
// the default window settings.
func New(index vector.Indexer, chunker *Chunker) *Ingestor {
	if chunker == nil {
		chunker = NewChunker()
	}
	return &Ingestor{
		index:   index,
		chunker: chunker,
		logger:  logging.WithComponent("ingest"),
	}
}

// Pages chunks and stores already-extracted page texts under one source name.
// Page numbers are 1-based. Blank pages are skipped.
func (ing *Ingestor) Pages(ctx context.Context, source string, pages []string) (int, error) {
	if source == "" {
		return 0, fmt.Errorf("source name cannot be empty")
	}

	var matches []vector.Match
	for i, page := range pages {
		if strings.TrimSpace(page) == "" {
			continue
		}
		for _, chunk := range ing.chunker.Split(page) {
			matches = append(matches, vector.Match{
				Content: chunk,
				Source:  source,
				Page:    i + 1,
			})
		}
	}
	if len(matches) == 0 {
		return 0, nil
	}

	if err := ing.index.Add(ctx, matches...); err != nil {
		return 0, fmt.Errorf("failed to index %s: %w", source, err)
	}
	return len(matches), nil
}

// PDF extracts, chunks and stores one PDF file.
func (ing *Ingestor) PDF(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", path, err)
	}

	pages, err := extract.PDFPages(data)
	if err != nil {
		return 0, fmt.Errorf("failed to extract %s: %w", path, err)
	}

	stored, err := ing.Pages(ctx, filepath.Base(path), pages)
	if err != nil {
		return 0, err
	}
	ing.logger.Info("document ingested", "source", filepath.Base(path), "pages", len(pages), "chunks", stored)
	return stored, nil
}

// Dir ingests every PDF under a directory, non-recursively. Files that fail
// to parse are logged and skipped.
func (ing *Ingestor) Dir(ctx context.Context, dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	total := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			continue
		}
		stored, err := ing.PDF(ctx, filepath.Join(dir, entry.Name()))
		if err != nil {
			ing.logger.Warn("skipping document", "file", entry.Name(), "error", err)
			continue
		}
		total += stored
	}
	return total, nil
}
