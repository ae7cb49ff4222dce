package extract

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func validText(marker string) string {
	return marker + " " + strings.Repeat("account balance creditor ", 20)
}

func stubStage(name Strategy, out string, err error, calls *[]Strategy) stage {
	return stage{
		name: name,
		run: func(ctx context.Context, doc Document) (string, error) {
			*calls = append(*calls, name)
			return out, err
		},
	}
}

func newStubExtractor(stages ...stage) *Extractor {
	return &Extractor{stages: stages, ocrTimeout: time.Second}
}

func TestExtractHTMLShortCircuits(t *testing.T) {
	var calls []Strategy
	e := newStubExtractor(
		stubStage(StrategyNativeText, "", nil, &calls),
		stubStage(StrategySecondaryText, "", nil, &calls),
		stubStage(StrategyAIOCR, "", nil, &calls),
	)

	raw := "<html><body>TransUnion report</body></html>"
	got := e.Extract(context.Background(), Document{
		Bytes:            []byte(raw),
		DeclaredMimeType: MimeHTML,
		SourceLabel:      "transunion",
	})

	if got.Content != raw {
		t.Fatalf("HTML content changed: %q", got.Content)
	}
	if got.StrategyUsed != StrategyNativeText {
		t.Fatalf("strategy = %s, want %s", got.StrategyUsed, StrategyNativeText)
	}
	if got.CharCount != len(raw) {
		t.Fatalf("charCount = %d, want %d", got.CharCount, len(raw))
	}
	if len(calls) != 0 {
		t.Fatalf("expected no stages to run for HTML, got %v", calls)
	}
}

func TestExtractStopsAtFirstValidStage(t *testing.T) {
	var calls []Strategy
	e := newStubExtractor(
		stubStage(StrategyNativeText, validText("native"), nil, &calls),
		stubStage(StrategySecondaryText, validText("secondary"), nil, &calls),
		stubStage(StrategyAIOCR, validText("ocr"), nil, &calls),
	)

	got := e.Extract(context.Background(), Document{DeclaredMimeType: MimePDF})
	if got.StrategyUsed != StrategyNativeText {
		t.Fatalf("strategy = %s, want %s", got.StrategyUsed, StrategyNativeText)
	}
	if len(calls) != 1 {
		t.Fatalf("expected only the native stage to run, got %v", calls)
	}
}

func TestExtractChainOrderNeverSkipped(t *testing.T) {
	var calls []Strategy
	e := newStubExtractor(
		stubStage(StrategyNativeText, "garbage text layer", nil, &calls),
		stubStage(StrategySecondaryText, validText("secondary"), nil, &calls),
		stubStage(StrategyAIOCR, validText("ocr"), nil, &calls),
	)

	got := e.Extract(context.Background(), Document{DeclaredMimeType: MimePDF})
	if got.StrategyUsed != StrategySecondaryText {
		t.Fatalf("strategy = %s, want %s", got.StrategyUsed, StrategySecondaryText)
	}
	want := []Strategy{StrategyNativeText, StrategySecondaryText}
	if len(calls) != len(want) || calls[0] != want[0] || calls[1] != want[1] {
		t.Fatalf("stage order = %v, want %v", calls, want)
	}
	if !strings.HasPrefix(got.Content, "secondary") {
		t.Fatalf("content from wrong stage: %q", got.Content[:20])
	}
}

func TestExtractStageErrorsAreSwallowed(t *testing.T) {
	var calls []Strategy
	e := newStubExtractor(
		stubStage(StrategyNativeText, "", errors.New("broken xref"), &calls),
		stubStage(StrategySecondaryText, "", errors.New("mupdf: cannot open"), &calls),
		stubStage(StrategyAIOCR, validText("ocr"), nil, &calls),
	)

	got := e.Extract(context.Background(), Document{DeclaredMimeType: MimePDF})
	if got.StrategyUsed != StrategyAIOCR {
		t.Fatalf("strategy = %s, want %s", got.StrategyUsed, StrategyAIOCR)
	}
	if len(calls) != 3 {
		t.Fatalf("expected all three stages to run, got %v", calls)
	}
}

func TestExtractExhaustedReturnsLongestPartial(t *testing.T) {
	var calls []Strategy
	e := newStubExtractor(
		stubStage(StrategyNativeText, "tiny", nil, &calls),
		stubStage(StrategySecondaryText, "a slightly longer but still invalid chunk", nil, &calls),
		stubStage(StrategyAIOCR, "", errors.New("rate limited"), &calls),
	)

	got := e.Extract(context.Background(), Document{DeclaredMimeType: MimePDF})
	if got.StrategyUsed != StrategyAIOCR {
		t.Fatalf("strategy = %s, want %s", got.StrategyUsed, StrategyAIOCR)
	}
	if got.Content != "a slightly longer but still invalid chunk" {
		t.Fatalf("expected longest partial, got %q", got.Content)
	}
}

func TestExtractTotalFailureYieldsEmptyText(t *testing.T) {
	var calls []Strategy
	e := newStubExtractor(
		stubStage(StrategyNativeText, "", errors.New("x"), &calls),
		stubStage(StrategySecondaryText, "", errors.New("y"), &calls),
		stubStage(StrategyAIOCR, "", errors.New("z"), &calls),
	)

	got := e.Extract(context.Background(), Document{DeclaredMimeType: MimePDF})
	if got.Content != "" || got.CharCount != 0 {
		t.Fatalf("expected empty result, got %+v", got)
	}
	if got.StrategyUsed != StrategyAIOCR {
		t.Fatalf("strategy = %s, want %s", got.StrategyUsed, StrategyAIOCR)
	}
}

func TestExtractAllPreservesOrder(t *testing.T) {
	e := newStubExtractor(stage{
		name: StrategyNativeText,
		run: func(ctx context.Context, doc Document) (string, error) {
			return validText(doc.SourceLabel), nil
		},
	})

	docs := []Document{
		{DeclaredMimeType: MimePDF, SourceLabel: "transunion"},
		{DeclaredMimeType: MimePDF, SourceLabel: "equifax"},
		{DeclaredMimeType: MimePDF, SourceLabel: "experian"},
	}
	results := e.ExtractAll(context.Background(), docs)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, doc := range docs {
		if !strings.HasPrefix(results[i].Content, doc.SourceLabel) {
			t.Fatalf("result %d does not match document %s", i, doc.SourceLabel)
		}
	}
}
