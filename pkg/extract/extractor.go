// Package extract converts uploaded document bytes into plain text.
package extract

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const (
	mimePDF  = "application/pdf"
	mimeDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

var (
	// ErrEmptyDocument means extraction ran but produced no usable characters.
	ErrEmptyDocument = errors.New("no text could be extracted from the file")

	// ErrPDFProcessing hides parser internals behind a stable message for
	// corrupt or protected files.
	ErrPDFProcessing = errors.New("could not process the PDF file, it might be corrupted or protected")

	// ErrDocxProcessing is the DOCX counterpart of ErrPDFProcessing.
	ErrDocxProcessing = errors.New("could not process the DOCX file, it might be corrupted")
)

// UnsupportedFormatError names the offending file so the message can be
// surfaced to the user as-is.
type UnsupportedFormatError struct {
	Filename string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported file format: %s, please upload a supported document or image", e.Filename)
}

// OCRClient extracts legible text from an image via the AI service.
type OCRClient interface {
	ExtractTextFromImage(ctx context.Context, model string, imageBytes []byte, mimeType string) (string, error)
}

// Extractor dispatches on the declared file kind and returns plain text.
// It holds no state beyond its collaborators; nothing is cached between calls.
type Extractor struct {
	ocr      OCRClient
	ocrModel string
}

func NewExtractor(ocr OCRClient, ocrModel string) *Extractor {
	return &Extractor{ocr: ocr, ocrModel: ocrModel}
}

// Extract converts the uploaded bytes to text. Dispatch precedence: image/*,
// PDF, DOCX, then plain text by suffix or MIME type. Anything else fails with
// an UnsupportedFormatError naming the file.
func (e *Extractor) Extract(ctx context.Context, filename string, mimeType string, content []byte) (string, error) {
	name := strings.ToLower(filename)

	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return e.extractImage(ctx, content, mimeType)
	case mimeType == mimePDF:
		return extractPDF(content)
	case strings.HasSuffix(name, ".docx") || mimeType == mimeDocx:
		return extractDocx(content)
	case strings.HasSuffix(name, ".txt") || strings.HasSuffix(name, ".md") || mimeType == "text/plain":
		return string(content), nil
	default:
		return "", &UnsupportedFormatError{Filename: filename}
	}
}

func (e *Extractor) extractImage(ctx context.Context, content []byte, mimeType string) (string, error) {
	text, err := e.ocr.ExtractTextFromImage(ctx, e.ocrModel, content, mimeType)
	if err != nil {
		return "", fmt.Errorf("image text extraction: %w", err)
	}
	return text, nil
}
