package resume

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPDFExtractorRejectsInvalidDocuments(t *testing.T) {
	for name, data := range map[string][]byte{
		"empty":     nil,
		"not a pdf": []byte("<html>resume</html>"),
		"truncated": []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog"),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := PDFExtractor{}.Extract(context.Background(), data)
			require.Error(t, err)
		})
	}
}

func TestNormalizeWhitespace(t *testing.T) {
	assert.Equal(t, "Go Engineer Kubernetes", normalizeWhitespace("  Go\n\nEngineer\t\tKubernetes \n"))
	assert.Equal(t, "", normalizeWhitespace(" \n\t "))
	assert.Equal(t, "5 years Go and PostgreSQL", normalizeWhitespace("5\u00a0years\u2003Go and\u00a0\u00a0PostgreSQL"))
}

// onePagePDF builds a minimal single-page document that shows text in Helvetica.
func onePagePDF(t *testing.T, text string) []byte {
	t.Helper()

	content := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%EOF\n", len(objects)+1, xref)

	return buf.Bytes()
}

func TestPDFExtractorReadsText(t *testing.T) {
	text, err := PDFExtractor{}.Extract(context.Background(), onePagePDF(t, "Go Docker   Kubernetes"))
	require.NoError(t, err)
	assert.Equal(t, "Go Docker Kubernetes", text)
}
