// Package extract turns uploaded artifacts (scanned images, PDF files) into
// plain text for the workflow's input normalizer.
package extract

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// OCR is the image text-extraction collaborator.
type OCR interface {
	ExtractText(ctx context.Context, image []byte) (string, error)
}

// PDF is the document page-extraction collaborator. Implementations return one
// string per page, in page order.
type PDF interface {
	ExtractPages(data []byte) ([]string, error)
}

// LocalPDF implements PDF with the in-process parser.
type LocalPDF struct{}

func (LocalPDF) ExtractPages(data []byte) ([]string, error) {
	return PDFPages(data)
}

// PDFPages extracts the text of each page from raw PDF bytes, one string per
// page. The parser is file-based, so the bytes are staged in a temporary file
// that is removed before returning, including on extraction failure.
func PDFPages(data []byte) ([]string, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("pdf data is empty")
	}

	tmp, err := os.CreateTemp("", "legalassist-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp pdf: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp pdf: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("close temp pdf: %w", err)
	}

	f, r, err := pdf.Open(tmp.Name())
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	pages := make([]string, 0, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("extract pdf page %d: %w", i, err)
		}
		pages = append(pages, strings.TrimSpace(text))
	}
	return pages, nil
}
