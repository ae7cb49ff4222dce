package reports

import (
	"context"
	"time"
)

// Repo defines persistence operations for reports.
type Repo interface {
	Create(ctx context.Context, report Report) error
	GetByID(ctx context.Context, userID, reportID string) (Report, error)
	ListByUser(ctx context.Context, userID string) ([]Report, error)
	SetExtraction(ctx context.Context, userID, reportID, textKey, strategy string, charCount int, at time.Time) error
}
