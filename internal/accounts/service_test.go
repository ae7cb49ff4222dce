package accounts

import (
	"context"
	"testing"
	"time"
)

type stubScorer struct {
	gotRows []NegativeAccount
	gotN    int
}

func (s *stubScorer) Recommend(rows []NegativeAccount, n int, now time.Time) ([]Recommendation, int) {
	s.gotRows = rows
	s.gotN = n
	recs := make([]Recommendation, 0, n)
	for i, row := range rows {
		if i == n {
			break
		}
		recs = append(recs, Recommendation{AccountID: row.ID, WinProbability: 80})
	}
	return recs, 12
}

func TestRecommendMergesBeforeScoring(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	if err := repo.CreateBatch(ctx, []NegativeAccount{
		{ID: "a1", UserID: "user-1", AccountName: "ABC Collections", AccountNumberMasked: "1234", TransUnion: BureauData{Balance: fptr(500)}},
		{ID: "a2", UserID: "user-1", AccountName: "ABC Collections", AccountNumberMasked: "1234", Equifax: BureauData{Balance: fptr(750)}},
		{ID: "a3", UserID: "user-1", AccountName: "Midland Funding", AccountNumberMasked: "9876", Equifax: BureauData{Balance: fptr(300)}},
	}); err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}

	scorer := &stubScorer{}
	svc := NewService(repo, scorer, 5)

	set, err := svc.Recommend(ctx, "user-1")
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(scorer.gotRows) != 2 {
		t.Fatalf("scorer saw %d rows, want 2 merged", len(scorer.gotRows))
	}
	if scorer.gotN != 5 {
		t.Fatalf("scorer got n=%d, want 5", scorer.gotN)
	}
	if len(set.Selected) != 2 || set.EstimatedScoreIncrease != 12 {
		t.Fatalf("set = %+v", set)
	}
}

func TestRecommendSkipsDisputedAccounts(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	if err := repo.CreateBatch(ctx, []NegativeAccount{
		{ID: "a1", UserID: "user-1", AccountName: "One", AccountNumberMasked: "1111"},
		{ID: "a2", UserID: "user-1", AccountName: "Two", AccountNumberMasked: "2222", Disputed: true},
	}); err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}

	scorer := &stubScorer{}
	svc := NewService(repo, scorer, 5)
	if _, err := svc.Recommend(ctx, "user-1"); err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(scorer.gotRows) != 1 || scorer.gotRows[0].ID != "a1" {
		t.Fatalf("disputed rows must not be rescored: %+v", scorer.gotRows)
	}
}

func TestRecommendEmptyBatchIsNotAnError(t *testing.T) {
	svc := NewService(NewMemoryRepo(), &stubScorer{}, 5)
	set, err := svc.Recommend(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(set.Selected) != 0 || set.EstimatedScoreIncrease != 0 {
		t.Fatalf("set = %+v", set)
	}
}
