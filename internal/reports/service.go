package reports

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"creditdispute-backend/internal/accounts"
	"creditdispute-backend/internal/extract"
	"creditdispute-backend/internal/llm"
	"creditdispute-backend/internal/shared/storage/object"
	"creditdispute-backend/internal/shared/telemetry"
)

// Service owns the report pipeline: store the upload, extract its text,
// persist the text next to the original, and parse negative accounts out
// of it. The whole pipeline runs inside the request; there is no queue.
type Service struct {
	Repo     Repo
	Accounts accounts.Repo
	Store    object.ObjectStore
	Extract  *extract.Extractor
	Parser   Parser
	now      func() time.Time
}

// NewService constructs a Service.
func NewService(repo Repo, accountsRepo accounts.Repo, store object.ObjectStore, extractor *extract.Extractor, parser Parser) *Service {
	return &Service{
		Repo:     repo,
		Accounts: accountsRepo,
		Store:    store,
		Extract:  extractor,
		Parser:   parser,
		now:      time.Now,
	}
}

// UploadInput is one bureau document arriving in a request.
type UploadInput struct {
	Bureau   string
	FileName string
	MimeType string
	Data     []byte
}

// UploadResult pairs a stored report with its parsing outcome.
type UploadResult struct {
	Report         Report `json:"report"`
	AccountsParsed int    `json:"accountsParsed"`
	TextExtracted  bool   `json:"textExtracted"`
}

// Upload runs the full pipeline for one document.
func (s *Service) Upload(ctx context.Context, userID string, in UploadInput) (UploadResult, error) {
	results, err := s.UploadAll(ctx, userID, []UploadInput{in})
	if err != nil {
		return UploadResult{}, err
	}
	return results[0], nil
}

// UploadAll runs the pipeline for a batch of documents, typically one per
// bureau. Documents are independent, so extraction fans out in parallel;
// persistence and parsing then run per document.
func (s *Service) UploadAll(ctx context.Context, userID string, inputs []UploadInput) ([]UploadResult, error) {
	if len(inputs) == 0 {
		return nil, ErrInvalidInput
	}

	stored := make([]Report, len(inputs))
	docs := make([]extract.Document, len(inputs))
	for i, in := range inputs {
		bureau, err := normalizeBureau(in.Bureau)
		if err != nil {
			return nil, err
		}
		if len(in.Data) == 0 {
			return nil, ErrInvalidInput
		}

		key, size, mimeType, err := s.Store.Save(ctx, userID, in.FileName, bytes.NewReader(in.Data))
		if err != nil {
			return nil, err
		}
		if in.MimeType != "" {
			mimeType = in.MimeType
		}

		report := Report{
			ID:         uuid.NewString(),
			UserID:     userID,
			Bureau:     bureau,
			FileName:   in.FileName,
			MimeType:   mimeType,
			SizeBytes:  size,
			StorageKey: key,
			CreatedAt:  s.now(),
		}
		if err := s.Repo.Create(ctx, report); err != nil {
			return nil, err
		}
		stored[i] = report
		docs[i] = extract.Document{
			Bytes:            in.Data,
			DeclaredMimeType: mimeType,
			SourceLabel:      in.FileName,
		}
	}

	texts := s.Extract.ExtractAll(ctx, docs)

	results := make([]UploadResult, len(inputs))
	for i, text := range texts {
		result, err := s.finishReport(ctx, stored[i], text)
		if err != nil {
			return nil, err
		}
		results[i] = result
	}
	return results, nil
}

// finishReport persists extraction output and parses accounts out of it.
func (s *Service) finishReport(ctx context.Context, report Report, text extract.ExtractedText) (UploadResult, error) {
	result := UploadResult{Report: report}
	if text.CharCount == 0 {
		// Nothing any stage could read; the row stays without text so the
		// user can be asked for a clearer file.
		return result, nil
	}

	textKey := report.StorageKey + ".txt"
	if _, err := s.Store.SaveWithKey(ctx, textKey, "text/plain; charset=utf-8", strings.NewReader(text.Content)); err != nil {
		return UploadResult{}, err
	}
	if err := s.Repo.SetExtraction(ctx, report.UserID, report.ID, textKey, string(text.StrategyUsed), text.CharCount, s.now()); err != nil {
		return UploadResult{}, err
	}
	result.Report.ExtractedTextKey = textKey
	result.Report.ExtractionStrategy = string(text.StrategyUsed)
	result.Report.CharCount = text.CharCount
	result.TextExtracted = true

	if s.Parser == nil {
		return result, nil
	}
	parsed, err := s.Parser.Parse(ctx, text.Content, report.Bureau)
	if err != nil {
		// Parsing is best-effort on upload; the text is persisted and can
		// be re-parsed once the provider is back.
		if errors.Is(err, llm.ErrUnavailable) {
			telemetry.Warn("reports.parse_unavailable", map[string]any{"report_id": report.ID})
		} else {
			telemetry.Error("reports.parse_failed", map[string]any{"report_id": report.ID, "error": err.Error()})
		}
		return result, nil
	}

	for i := range parsed {
		parsed[i].UserID = report.UserID
		parsed[i].ReportID = report.ID
	}
	if len(parsed) > 0 {
		if err := s.Accounts.CreateBatch(ctx, parsed); err != nil {
			return UploadResult{}, err
		}
	}
	result.AccountsParsed = len(parsed)
	return result, nil
}

// ExtractedText re-reads a report's persisted text from object storage.
func (s *Service) ExtractedText(ctx context.Context, userID, reportID string) (string, error) {
	report, err := s.Repo.GetByID(ctx, userID, reportID)
	if err != nil {
		return "", err
	}
	if report.ExtractedTextKey == "" {
		return "", ErrNoText
	}
	rc, err := s.Store.Open(ctx, report.ExtractedTextKey)
	if err != nil {
		return "", err
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// List returns the user's reports newest-first.
func (s *Service) List(ctx context.Context, userID string) ([]Report, error) {
	return s.Repo.ListByUser(ctx, userID)
}

// Get returns one report.
func (s *Service) Get(ctx context.Context, userID, reportID string) (Report, error) {
	return s.Repo.GetByID(ctx, userID, reportID)
}

func normalizeBureau(bureau string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(bureau)) {
	case accounts.BureauTransUnion:
		return accounts.BureauTransUnion, nil
	case accounts.BureauEquifax:
		return accounts.BureauEquifax, nil
	case accounts.BureauExperian:
		return accounts.BureauExperian, nil
	}
	return "", ErrInvalidInput
}
