package service

import (
	"context"
	"errors"
	"strings"

	"doc-manager/internal/domain"
)

// ErrOCRUnavailable is returned by NewTesseractRecognizer when the binary was
// built without the ocr tag.
var ErrOCRUnavailable = errors.New("ocr support not compiled in (build with -tags ocr)")

// PageRecognizer turns a rendered PDF page into text. Pages are 1-based.
type PageRecognizer interface {
	RecognizePage(ctx context.Context, content []byte, page int) (string, error)
}

// OCRFallbackExtractor reads the text layer first and runs OCR only on pages
// that came back empty, which is what scanned pages look like.
type OCRFallbackExtractor struct {
	primary *PDFTextExtractor
	ocr     PageRecognizer
	logger  domain.Logger
}

// NewOCRFallbackExtractor chains ocr behind the text-layer extractor.
func NewOCRFallbackExtractor(primary *PDFTextExtractor, ocr PageRecognizer, logger domain.Logger) *OCRFallbackExtractor {
	return &OCRFallbackExtractor{primary: primary, ocr: ocr, logger: logger}
}

// Extract implements domain.TextExtractor.
func (e *OCRFallbackExtractor) Extract(ctx context.Context, content []byte) (string, error) {
	pages, err := e.primary.ExtractPages(ctx, content)
	if err != nil {
		return "", err
	}

	recognized := 0
	for i, text := range pages {
		if strings.TrimSpace(text) != "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return "", err
		}

		ocrText, err := e.ocr.RecognizePage(ctx, content, i+1)
		if err != nil {
			e.logger.Warn("OCR failed for page", "page", i+1, "total", len(pages), "error", err)
			continue
		}
		pages[i] = ocrText
		recognized++
	}

	if recognized > 0 {
		e.logger.Info("OCR recovered text for image-only pages", "pages", recognized, "total", len(pages))
	}
	return joinPages(pages), nil
}
