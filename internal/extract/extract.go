package extract

import (
	"context"
	"fmt"
	"sync"
	"time"

	"creditdispute-backend/internal/llm"
	"creditdispute-backend/internal/shared/metrics"
	"creditdispute-backend/internal/shared/telemetry"
)

const defaultOCRTimeout = 3 * time.Minute

// stage is one step of the fallback chain: a uniform (Document) -> text
// function whose output is validated by the driver before being accepted.
type stage struct {
	name Strategy
	run  func(ctx context.Context, doc Document) (string, error)
}

// Extractor converts raw report documents into best-effort plain text, trying
// successively more expensive strategies. It never fails outright: when every
// stage comes up empty the result is empty text, not an error.
type Extractor struct {
	stages     []stage
	ocrTimeout time.Duration
}

// New builds an Extractor whose OCR stage calls the given LLM client.
// client may be nil, in which case the OCR stage degrades to empty output.
func New(client llm.Client) *Extractor {
	e := &Extractor{ocrTimeout: defaultOCRTimeout}
	e.stages = []stage{
		{name: StrategyNativeText, run: extractNativeText},
		{name: StrategySecondaryText, run: extractSecondaryText},
		{name: StrategyAIOCR, run: ocrStage(client)},
	}
	return e
}

// Extract runs the fallback chain over one document. HTML exports are already
// textual and short-circuit the chain. Stage failures are swallowed: the
// chain exists to survive them, and a lower-quality result beats no result.
func (e *Extractor) Extract(ctx context.Context, doc Document) ExtractedText {
	metrics.IncExtractionStarted()
	start := time.Now()
	defer func() {
		metrics.ObserveExtractionDurationMs(float64(time.Since(start).Microseconds()) / 1000.0)
	}()

	if doc.DeclaredMimeType == MimeHTML {
		return newExtractedText(string(doc.Bytes), StrategyNativeText)
	}

	longest := ""
	for _, st := range e.stages {
		runCtx := ctx
		if st.name == StrategyAIOCR {
			var cancel context.CancelFunc
			runCtx, cancel = context.WithTimeout(ctx, e.ocrTimeout)
			defer cancel()
		}

		out, err := st.run(runCtx, doc)
		if err != nil {
			telemetry.Warn("extract.stage_degraded", map[string]any{
				"strategy": string(st.name),
				"bureau":   doc.SourceLabel,
				"error":    err.Error(),
			})
			out = ""
		}
		if len(out) > len(longest) {
			longest = out
		}
		if IsValidReportText(out) {
			countStage(st.name)
			return newExtractedText(out, st.name)
		}
	}

	// Exhausted. Partial text is still more useful downstream than nothing,
	// so hand back the longest candidate under the final strategy label.
	if longest == "" {
		metrics.IncExtractionEmpty()
		telemetry.Error("extract.exhausted", map[string]any{
			"bureau": doc.SourceLabel,
			"mime":   doc.DeclaredMimeType,
		})
	} else {
		metrics.IncExtractionOCR()
	}
	return newExtractedText(longest, StrategyAIOCR)
}

// ExtractAll extracts several documents in parallel. Documents share no
// state, so the fan-out needs no locking; results align with the input order.
func (e *Extractor) ExtractAll(ctx context.Context, docs []Document) []ExtractedText {
	results := make([]ExtractedText, len(docs))
	var wg sync.WaitGroup
	for i, doc := range docs {
		wg.Add(1)
		go func(i int, doc Document) {
			defer wg.Done()
			results[i] = e.Extract(ctx, doc)
		}(i, doc)
	}
	wg.Wait()
	return results
}

func ocrStage(client llm.Client) func(ctx context.Context, doc Document) (string, error) {
	return func(ctx context.Context, doc Document) (string, error) {
		if client == nil {
			return "", fmt.Errorf("ocr stage: %w", llm.ErrUnavailable)
		}
		fileName := doc.SourceLabel
		if fileName == "" {
			fileName = "report"
		}
		return client.ExtractReportText(ctx, llm.ExtractInput{
			Data:     doc.Bytes,
			FileName: fileName + ".pdf",
			MimeType: doc.DeclaredMimeType,
		})
	}
}

func countStage(name Strategy) {
	switch name {
	case StrategyNativeText:
		metrics.IncExtractionNative()
	case StrategySecondaryText:
		metrics.IncExtractionFallback()
	case StrategyAIOCR:
		metrics.IncExtractionOCR()
	}
}
