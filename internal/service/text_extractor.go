package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"doc-manager/internal/domain"

	"github.com/ledongthuc/pdf"
)

// PDFTextExtractor reads the embedded text layer of a PDF.
type PDFTextExtractor struct {
	logger domain.Logger
}

// NewPDFTextExtractor creates a new PDF text extractor
func NewPDFTextExtractor(logger domain.Logger) *PDFTextExtractor {
	return &PDFTextExtractor{logger: logger}
}

// Extract returns the text of every page, pages separated by a blank line.
// Pages that fail to decode are skipped and logged.
func (e *PDFTextExtractor) Extract(ctx context.Context, content []byte) (string, error) {
	pages, err := e.ExtractPages(ctx, content)
	if err != nil {
		return "", err
	}
	return joinPages(pages), nil
}

// ExtractPages returns one entry per page, in page order. Pages without a
// text layer, or that fail to decode, come back as "".
func (e *PDFTextExtractor) ExtractPages(ctx context.Context, content []byte) (pages []string, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// ledongthuc/pdf panics on some malformed cross-reference tables.
	defer func() {
		if rec := recover(); rec != nil {
			pages, err = nil, fmt.Errorf("failed to parse PDF: %v", rec)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}

	numPages := reader.NumPage()
	pages = make([]string, numPages)
	chars := 0
	for pageNum := 1; pageNum <= numPages; pageNum++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			e.logger.Warn("Failed to extract text from page", "page", pageNum, "total", numPages, "error", err)
			continue
		}

		pages[pageNum-1] = strings.TrimSpace(pageText)
		chars += len(pages[pageNum-1])
	}

	e.logger.Debug("PDF text extracted", "pages", numPages, "chars", chars)
	return pages, nil
}

// joinPages keeps the non-empty pages, separated by a blank line.
func joinPages(pages []string) string {
	kept := make([]string, 0, len(pages))
	for _, page := range pages {
		if page = strings.TrimSpace(page); page != "" {
			kept = append(kept, page)
		}
	}
	return sanitizeText(strings.Join(kept, "\n\n"))
}

// sanitizeText drops NUL bytes, stray control characters and surrogates,
// which Postgres refuses to store in text columns.
func sanitizeText(text string) string {
	var result strings.Builder
	result.Grow(len(text))

	for _, r := range text {
		switch {
		case r == '\t' || r == '\n' || r == '\r':
			result.WriteRune(r)
		case r < 0x20:
			// control character
		case r >= 0xD800 && r <= 0xDFFF:
			// surrogate
		default:
			result.WriteRune(r)
		}
	}
	return result.String()
}
