package resume

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFExtractor returns the plain text of a PDF document.
type PDFExtractor struct{}

// Extract returns the text of every page with whitespace runs collapsed.
func (PDFExtractor) Extract(_ context.Context, data []byte) (text string, err error) {
	if len(data) == 0 {
		return "", fmt.Errorf("read pdf: empty document")
	}

	// the parser panics on some malformed inputs
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("read pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}

	return normalizeWhitespace(buf.String()), nil
}

// normalizeWhitespace collapses runs of any Unicode whitespace, NBSP included.
func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
