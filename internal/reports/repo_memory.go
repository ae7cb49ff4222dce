package reports

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo is an in-memory Repo for tests and database-less dev runs.
type MemoryRepo struct {
	mu      sync.RWMutex
	reports map[string][]Report // keyed by user ID, newest last
}

// NewMemoryRepo constructs an empty in-memory repo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{reports: make(map[string][]Report)}
}

func (r *MemoryRepo) Create(ctx context.Context, report Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports[report.UserID] = append(r.reports[report.UserID], report)
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, userID, reportID string) (Report, error) {
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, report := range r.reports[userID] {
		if report.ID == reportID {
			return report, nil
		}
	}
	return Report{}, ErrNotFound
}

func (r *MemoryRepo) ListByUser(ctx context.Context, userID string) ([]Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := append([]Report(nil), r.reports[userID]...)
	// newest first
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func (r *MemoryRepo) SetExtraction(ctx context.Context, userID, reportID, textKey, strategy string, charCount int, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	reports := r.reports[userID]
	for i := range reports {
		if reports[i].ID == reportID {
			reports[i].ExtractedTextKey = textKey
			reports[i].ExtractionStrategy = strategy
			reports[i].CharCount = charCount
			reports[i].ExtractedAt = &at
			return nil
		}
	}
	return ErrNotFound
}

var _ Repo = (*MemoryRepo)(nil)
