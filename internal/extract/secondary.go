package extract

import (
	"context"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// extractSecondaryText re-parses the PDF with a different engine, joining the
// text content page by page. Some bureau exports carry a text layer the
// native reader cannot decode but this one can.
// Library: github.com/gen2brain/go-fitz (MuPDF).
func extractSecondaryText(ctx context.Context, doc Document) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fitzDoc, err := fitz.NewFromMemory(doc.Bytes)
	if err != nil {
		return "", err
	}
	defer fitzDoc.Close()

	var builder strings.Builder
	for i := 0; i < fitzDoc.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		pageText, err := fitzDoc.Text(i)
		if err != nil {
			continue
		}
		if pageText != "" {
			builder.WriteString(pageText)
			builder.WriteString("\n")
		}
	}
	return strings.TrimSpace(builder.String()), nil
}
