package accounts

import (
	"context"
	"time"

	"creditdispute-backend/internal/shared/telemetry"
)

// Scorer ranks merged accounts for dispute potential. It is implemented by
// the scoring package; the indirection keeps this package free of a cycle.
type Scorer interface {
	Recommend(rows []NegativeAccount, n int, now time.Time) ([]Recommendation, int)
}

// Service owns account reads and the recommendation flow.
type Service struct {
	Repo          Repo
	Scorer        Scorer
	ItemsPerRound int
	now           func() time.Time
}

// NewService constructs a Service. itemsPerRound caps how many accounts a
// single round's recommendations select.
func NewService(repo Repo, scorer Scorer, itemsPerRound int) *Service {
	return &Service{Repo: repo, Scorer: scorer, ItemsPerRound: itemsPerRound, now: time.Now}
}

// List returns all of the user's negative accounts.
func (s *Service) List(ctx context.Context, userID string) ([]NegativeAccount, error) {
	return s.Repo.ListByUser(ctx, userID)
}

// RecommendationSet is the output of one recommendation run.
type RecommendationSet struct {
	Selected               []Recommendation `json:"selected"`
	EstimatedScoreIncrease int              `json:"estimatedScoreIncrease"`
}

// Recommend merges the user's undisputed accounts by identity, scores
// them, persists the selection, and returns it.
func (s *Service) Recommend(ctx context.Context, userID string) (RecommendationSet, error) {
	rows, err := s.Repo.ListUndisputedByUser(ctx, userID)
	if err != nil {
		return RecommendationSet{}, err
	}
	if len(rows) == 0 {
		return RecommendationSet{Selected: []Recommendation{}}, nil
	}

	merged := MergeByIdentity(rows)
	selected, estimate := s.Scorer.Recommend(merged, s.ItemsPerRound, s.now())

	if err := s.Repo.SaveRecommendations(ctx, userID, selected); err != nil {
		return RecommendationSet{}, err
	}

	telemetry.Info("accounts.recommended", map[string]any{
		"user_id":  userID,
		"merged":   len(merged),
		"selected": len(selected),
	})
	return RecommendationSet{Selected: selected, EstimatedScoreIncrease: estimate}, nil
}

// MarkDisputed flags the given accounts as taken into a round.
func (s *Service) MarkDisputed(ctx context.Context, userID string, accountIDs []string) error {
	return s.Repo.MarkDisputed(ctx, userID, accountIDs)
}
