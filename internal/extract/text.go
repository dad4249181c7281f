package extract

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/otiai10/gosseract/v2"
)

// maxTextBytes caps the text pulled out of a single document. Statements
// beyond this are truncated rather than rejected.
const maxTextBytes = 100 * 1024

// ExtractText converts the uploaded file at path into raw text. PDFs get
// their embedded text extracted directly; everything else is treated as an
// image and run through OCR. The file is read exactly once and never
// mutated; deleting it is the caller's job.
func ExtractText(path, mimeType string) (string, error) {
	if mimeType == "application/pdf" || strings.HasSuffix(strings.ToLower(path), ".pdf") {
		return extractPDFText(path)
	}
	return extractImageText(path)
}

// extractPDFText pulls embedded text out of a PDF. The pdf library can
// panic on malformed files, so the whole extraction is guarded by recover.
func extractPDFText(path string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = &Error{Code: CodeExtractionFailed, Message: fmt.Sprintf("panic while reading PDF: %v", r)}
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", &Error{Code: CodeExtractionFailed, Message: "open PDF", Cause: err}
	}
	defer f.Close()

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", &Error{Code: CodeExtractionFailed, Message: "extract PDF text", Cause: err}
	}

	raw, err := io.ReadAll(io.LimitReader(plain, maxTextBytes))
	if err != nil {
		return "", &Error{Code: CodeExtractionFailed, Message: "read PDF text", Cause: err}
	}

	text = truncateText(string(raw), maxTextBytes)
	if strings.TrimSpace(text) == "" {
		return "", &Error{Code: CodeExtractionFailed, Message: "PDF contains no extractable text"}
	}
	return text, nil
}

// truncateText caps s at max bytes without splitting a multi-byte rune.
func truncateText(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}

// extractImageText runs Tesseract OCR over the full image.
func extractImageText(path string) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetImage(path); err != nil {
		return "", &Error{Code: CodeExtractionFailed, Message: "load image for OCR", Cause: err}
	}

	text, err := client.Text()
	if err != nil {
		return "", &Error{Code: CodeExtractionFailed, Message: "run OCR", Cause: err}
	}
	if strings.TrimSpace(text) == "" {
		return "", &Error{Code: CodeExtractionFailed, Message: "OCR produced no text"}
	}
	return truncateText(text, maxTextBytes), nil
}
