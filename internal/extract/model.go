package extract

// Strategy identifies which stage of the extraction chain produced the text.
type Strategy string

const (
	// StrategyNativeText is the fast structural PDF text-layer read (also
	// used for HTML exports, which are already textual).
	StrategyNativeText Strategy = "native_text"
	// StrategySecondaryText is the alternate PDF engine, used when the
	// native text layer fails validation.
	StrategySecondaryText Strategy = "secondary_text"
	// StrategyAIOCR is the multimodal-model fallback for scanned reports.
	StrategyAIOCR Strategy = "ai_ocr"
)

const (
	// MimePDF is the declared mime type for PDF bureau exports.
	MimePDF = "application/pdf"
	// MimeHTML is the declared mime type for HTML bureau exports.
	MimeHTML = "text/html"
)

// Document is the immutable input to an extraction: raw bytes plus what the
// uploader declared about them. It lives only for the duration of the call.
type Document struct {
	Bytes            []byte
	DeclaredMimeType string
	SourceLabel      string // which bureau the report came from
}

// ExtractedText is the best-effort plain text pulled out of a Document.
type ExtractedText struct {
	Content      string
	StrategyUsed Strategy
	CharCount    int
}

func newExtractedText(content string, strategy Strategy) ExtractedText {
	return ExtractedText{
		Content:      content,
		StrategyUsed: strategy,
		CharCount:    len(content),
	}
}
