package scoring

import (
	"testing"

	"creditdispute-backend/internal/accounts"
)

func scoredFixture(id string, probability, factorCount int) ScoredAccount {
	factors := make([]Factor, factorCount)
	for i := range factors {
		factors[i] = Factor{Description: "f"}
	}
	return ScoredAccount{
		Account:        accounts.NegativeAccount{ID: id},
		WinProbability: probability,
		Factors:        factors,
	}
}

func TestSelectTopNOrdersByProbabilityThenFactors(t *testing.T) {
	scored := []ScoredAccount{
		scoredFixture("low", 40, 1),
		scoredFixture("tie-few", 80, 1),
		scoredFixture("tie-many", 80, 3),
		scoredFixture("high", 95, 2),
	}

	got := SelectTopN(scored, 3)
	want := []string{"high", "tie-many", "tie-few"}
	if len(got) != len(want) {
		t.Fatalf("selected %d items, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].Account.ID != id {
			t.Fatalf("position %d is %s, want %s", i, got[i].Account.ID, id)
		}
	}
}

func TestSelectTopNFullTiesKeepInputOrder(t *testing.T) {
	scored := []ScoredAccount{
		scoredFixture("first", 50, 1),
		scoredFixture("second", 50, 1),
		scoredFixture("third", 50, 1),
	}
	got := SelectTopN(scored, 2)
	if got[0].Account.ID != "first" || got[1].Account.ID != "second" {
		t.Fatalf("tie order changed: %s, %s", got[0].Account.ID, got[1].Account.ID)
	}
}

func TestSelectTopNCapsAtAvailable(t *testing.T) {
	scored := []ScoredAccount{scoredFixture("only", 60, 0)}
	if got := SelectTopN(scored, 5); len(got) != 1 {
		t.Fatalf("selected %d items from a batch of 1", len(got))
	}
	if got := SelectTopN(nil, 5); len(got) != 0 {
		t.Fatalf("selecting from empty batch should return nothing")
	}
}

func TestSelectTopNDoesNotMutateInput(t *testing.T) {
	scored := []ScoredAccount{
		scoredFixture("a", 10, 0),
		scoredFixture("b", 90, 0),
	}
	_ = SelectTopN(scored, 2)
	if scored[0].Account.ID != "a" {
		t.Fatalf("input slice reordered")
	}
}

func TestEstimateScoreIncrease(t *testing.T) {
	selected := []ScoredAccount{
		scoredFixture("a", 80, 0),
		scoredFixture("b", 60, 0),
	}
	// 0.80*15 + 0.60*15 = 21
	if got := EstimateScoreIncrease(selected); got != 21 {
		t.Fatalf("EstimateScoreIncrease = %d, want 21", got)
	}
	if got := EstimateScoreIncrease(nil); got != 0 {
		t.Fatalf("empty selection should estimate 0, got %d", got)
	}
}
