//go:build ocr

package service

import (
	"context"
	"fmt"

	"github.com/gen2brain/go-fitz"
	"github.com/otiai10/gosseract/v2"
)

const ocrRenderDPI = 300

// TesseractRecognizer renders a page with MuPDF and reads it with tesseract.
type TesseractRecognizer struct {
	lang string
	dpi  float64
}

// NewTesseractRecognizer returns a recognizer for the given tesseract
// language code, e.g. "spa" or "eng".
func NewTesseractRecognizer(lang string) (PageRecognizer, error) {
	if lang == "" {
		lang = "spa"
	}
	return &TesseractRecognizer{lang: lang, dpi: ocrRenderDPI}, nil
}

// RecognizePage implements PageRecognizer.
func (r *TesseractRecognizer) RecognizePage(ctx context.Context, content []byte, page int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	doc, err := fitz.NewFromMemory(content)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF for rendering: %w", err)
	}
	defer doc.Close()

	if page < 1 || page > doc.NumPage() {
		return "", fmt.Errorf("page %d out of range (1-%d)", page, doc.NumPage())
	}

	img, err := doc.ImagePNG(page-1, r.dpi)
	if err != nil {
		return "", fmt.Errorf("failed to render page %d: %w", page, err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(r.lang); err != nil {
		return "", fmt.Errorf("failed to set OCR language %s: %w", r.lang, err)
	}
	if err := client.SetImageFromBytes(img); err != nil {
		return "", fmt.Errorf("failed to load page %d image: %w", page, err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("failed to recognize page %d: %w", page, err)
	}
	return text, nil
}
