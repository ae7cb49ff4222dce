package reports

import "time"

// Report is one uploaded bureau document and its extraction outcome.
type Report struct {
	ID                 string     `json:"id"`
	UserID             string     `json:"userId"`
	Bureau             string     `json:"bureau"`
	FileName           string     `json:"fileName"`
	MimeType           string     `json:"mimeType"`
	SizeBytes          int64      `json:"sizeBytes"`
	StorageKey         string     `json:"-"`
	ExtractedTextKey   string     `json:"-"`
	ExtractionStrategy string     `json:"extractionStrategy,omitempty"`
	CharCount          int        `json:"charCount"`
	ExtractedAt        *time.Time `json:"extractedAt,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
}
