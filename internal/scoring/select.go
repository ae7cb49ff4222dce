package scoring

import (
	"math"
	"sort"
)

// Rank orders scored accounts best-first: win probability descending, ties
// broken by triggered-factor count descending, then by input order. The
// input slice is not modified.
func Rank(scored []ScoredAccount) []ScoredAccount {
	ranked := append([]ScoredAccount(nil), scored...)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].WinProbability != ranked[j].WinProbability {
			return ranked[i].WinProbability > ranked[j].WinProbability
		}
		return len(ranked[i].Factors) > len(ranked[j].Factors)
	})
	return ranked
}

// SelectTopN ranks the batch and returns the first n. Accounts beyond the
// cutoff stay available for a later round.
func SelectTopN(scored []ScoredAccount, n int) []ScoredAccount {
	ranked := Rank(scored)
	if n < 0 {
		n = 0
	}
	if n > len(ranked) {
		n = len(ranked)
	}
	return ranked[:n]
}

// EstimateScoreIncrease projects the credit-score gain if the selected
// items are deleted, weighting a rough 15 points per item by each item's
// win probability.
func EstimateScoreIncrease(selected []ScoredAccount) int {
	const pointsPerItem = 15
	total := 0.0
	for _, item := range selected {
		total += float64(item.WinProbability) / 100 * pointsPerItem
	}
	return int(math.Round(total))
}
