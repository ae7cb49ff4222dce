package llm

import (
	"context"
	"encoding/json"
	"errors"
)

// Client abstracts LLM providers for report OCR and structured parsing.
type Client interface {
	// ExtractReportText runs multimodal OCR over a scanned or image-based
	// report and returns the raw text. The implementation must attempt
	// complete, non-summarized extraction.
	ExtractReportText(ctx context.Context, input ExtractInput) (string, error)

	// ParseReport turns extracted report text into structured JSON holding
	// the negative tradelines found in it.
	ParseReport(ctx context.Context, input ParseInput) (json.RawMessage, error)
}

// ExtractInput captures the document handed to the OCR strategies.
type ExtractInput struct {
	Data     []byte
	FileName string
	MimeType string
}

// ParseInput captures the text handed to structured parsing.
type ParseInput struct {
	ReportText string
	Bureau     string
}

// ErrUnavailable signals that no LLM provider is configured or reachable.
// Callers choose their own fallback policy rather than receiving a silent
// substitute value.
var ErrUnavailable = errors.New("llm service unavailable")

// PlaceholderClient is a stub implementation until provider wiring is added.
type PlaceholderClient struct{}

// ExtractReportText returns ErrUnavailable.
func (PlaceholderClient) ExtractReportText(ctx context.Context, input ExtractInput) (string, error) {
	_ = ctx
	_ = input
	return "", ErrUnavailable
}

// ParseReport returns ErrUnavailable.
func (PlaceholderClient) ParseReport(ctx context.Context, input ParseInput) (json.RawMessage, error) {
	_ = ctx
	_ = input
	return nil, ErrUnavailable
}
