package accounts

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory Repo for tests and database-less dev runs.
type MemoryRepo struct {
	mu   sync.RWMutex
	rows map[string][]NegativeAccount // keyed by user ID, insertion order kept
	recs map[string]Recommendation    // keyed by account ID
}

// NewMemoryRepo constructs an empty in-memory repo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		rows: make(map[string][]NegativeAccount),
		recs: make(map[string]Recommendation),
	}
}

func (r *MemoryRepo) CreateBatch(ctx context.Context, rows []NegativeAccount) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range rows {
		r.rows[row.UserID] = append(r.rows[row.UserID], row)
	}
	return nil
}

func (r *MemoryRepo) ListByUser(ctx context.Context, userID string) ([]NegativeAccount, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]NegativeAccount(nil), r.rows[userID]...), nil
}

func (r *MemoryRepo) ListUndisputedByUser(ctx context.Context, userID string) ([]NegativeAccount, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []NegativeAccount
	for _, row := range r.rows[userID] {
		if !row.Disputed {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *MemoryRepo) MarkDisputed(ctx context.Context, userID string, accountIDs []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	wanted := make(map[string]struct{}, len(accountIDs))
	for _, id := range accountIDs {
		wanted[id] = struct{}{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	rows := r.rows[userID]
	for i := range rows {
		if _, ok := wanted[rows[i].ID]; ok {
			rows[i].Disputed = true
		}
	}
	r.rows[userID] = rows
	return nil
}

func (r *MemoryRepo) SaveRecommendations(ctx context.Context, userID string, recs []Recommendation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_ = userID
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range recs {
		r.recs[rec.AccountID] = rec
	}
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
