package assistant

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// normalize converts raw input of any supported kind into the canonical
// content string. Image and PDF inputs go through their extraction
// collaborators; when a free-text sub-question accompanies them the two are
// joined under a fixed template so downstream prompts see both.
func (a *Assistant) normalize(ctx context.Context, q Query) (NormalizedInput, error) {
	switch q.Kind {
	case KindText:
		return NormalizedInput{
			Kind:     KindText,
			Content:  string(q.Input),
			Metadata: map[string]string{},
		}, nil

	case KindImage:
		if a.ocr == nil {
			return NormalizedInput{}, fmt.Errorf("ocr collaborator not configured")
		}
		extracted, err := a.ocr.ExtractText(ctx, q.Input)
		if err != nil {
			return NormalizedInput{}, fmt.Errorf("image text extraction: %w", err)
		}
		return NormalizedInput{
			Kind:    KindImage,
			Content: templateContent("Image", extracted, q.TextQuery),
			Metadata: map[string]string{
				"original_format": "image",
			},
		}, nil

	case KindPDF:
		pages, err := a.pdf.ExtractPages(q.Input)
		if err != nil {
			return NormalizedInput{}, fmt.Errorf("pdf text extraction: %w", err)
		}
		full := strings.Join(pages, "\n")
		return NormalizedInput{
			Kind:    KindPDF,
			Content: templateContent("PDF", full, q.TextQuery),
			Metadata: map[string]string{
				"original_format": "pdf",
				"page_count":      strconv.Itoa(len(pages)),
			},
		}, nil

	default:
		return NormalizedInput{}, fmt.Errorf("%w: %q", ErrUnsupportedInputKind, q.Kind)
	}
}

func templateContent(label, extracted, subQuestion string) string {
	if strings.TrimSpace(subQuestion) == "" {
		return extracted
	}
	return fmt.Sprintf("%s content: %s\n\nUser query: %s", label, extracted, subQuestion)
}
