//go:build !ocr

package service

// NewTesseractRecognizer needs cgo bindings to tesseract; see ocr_tesseract.go.
func NewTesseractRecognizer(string) (PageRecognizer, error) {
	return nil, ErrOCRUnavailable
}
