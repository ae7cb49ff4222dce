package accounts

import "context"

// Repo defines persistence operations for negative accounts.
type Repo interface {
	CreateBatch(ctx context.Context, rows []NegativeAccount) error
	ListByUser(ctx context.Context, userID string) ([]NegativeAccount, error)
	ListUndisputedByUser(ctx context.Context, userID string) ([]NegativeAccount, error)
	MarkDisputed(ctx context.Context, userID string, accountIDs []string) error
	SaveRecommendations(ctx context.Context, userID string, recs []Recommendation) error
}
