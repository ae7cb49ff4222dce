package scoring

import (
	"time"

	"creditdispute-backend/internal/accounts"
)

// Recommender adapts the scoring pipeline to the accounts service: score
// the merged batch, select the top n, and report the projected gain.
type Recommender struct{}

// Recommend implements accounts.Scorer.
func (Recommender) Recommend(rows []accounts.NegativeAccount, n int, now time.Time) ([]accounts.Recommendation, int) {
	selected := SelectTopN(ScoreAll(rows, now), n)
	recs := make([]accounts.Recommendation, len(selected))
	for i, s := range selected {
		recs[i] = s.Recommendation()
	}
	return recs, EstimateScoreIncrease(selected)
}
