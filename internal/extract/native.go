package extract

import (
	"bytes"
	"context"
	"io"

	"github.com/ledongthuc/pdf"
)

// extractNativeText reads the PDF's embedded text layer.
// Library: github.com/ledongthuc/pdf.
func extractNativeText(ctx context.Context, doc Document) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	reader := bytes.NewReader(doc.Bytes)
	pdfReader, err := pdf.NewReader(reader, int64(len(doc.Bytes)))
	if err != nil {
		return "", err
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}
