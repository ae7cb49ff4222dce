package scoring

import (
	"time"

	"creditdispute-backend/internal/accounts"
)

const (
	baseProbability = 30
	maxProbability  = 95
)

// Factor is one triggered condition on a scored account. MethodID is 0 for
// soft factors that carry no taxonomy tag.
type Factor struct {
	MethodID    int    `json:"methodId,omitempty"`
	Description string `json:"description"`
}

// ScoredAccount is the scoring output for one merged account.
type ScoredAccount struct {
	Account              accounts.NegativeAccount `json:"account"`
	WinProbability       int                      `json:"winProbability"`
	Factors              []Factor                 `json:"factors"`
	MethodsTriggered     []int                    `json:"methodsTriggered"`
	RecommendationReason string                   `json:"recommendationReason"`
}

// Score evaluates every detection rule against one account and folds the
// resulting adjustments into a clamped win probability. It never fails: a
// field a rule needs that is absent simply leaves that rule untriggered,
// and an account with no bureau data at all scores the base probability.
func Score(account accounts.NegativeAccount, now time.Time) ScoredAccount {
	probability := baseProbability
	var factors []Factor
	var methods []int

	for _, r := range ruleSet {
		for _, adj := range r(account, now) {
			probability += adj.Delta
			if adj.Factor != "" {
				factors = append(factors, Factor{MethodID: adj.MethodID, Description: adj.Factor})
			}
			if adj.MethodID != 0 {
				methods = append(methods, adj.MethodID)
			}
		}
	}

	if probability > maxProbability {
		probability = maxProbability
	}

	return ScoredAccount{
		Account:              account,
		WinProbability:       probability,
		Factors:              factors,
		MethodsTriggered:     methods,
		RecommendationReason: reasonFor(methods, factors),
	}
}

// ScoreAll scores a batch in input order.
func ScoreAll(rows []accounts.NegativeAccount, now time.Time) []ScoredAccount {
	out := make([]ScoredAccount, len(rows))
	for i, row := range rows {
		out[i] = Score(row, now)
	}
	return out
}

// reasonFor picks the one-line summary. Priority: age violation, then any
// cross-bureau conflict, then medical, then the first factor's own text.
func reasonFor(methods []int, factors []Factor) string {
	if len(methods) == 0 {
		return "Standard dispute - no specific violations detected"
	}
	if hasMethod(methods, MethodAgeViolation) {
		return "FCRA violation - account exceeds 7-year reporting limit"
	}
	if hasMethod(methods, MethodBalanceConflict) ||
		hasMethod(methods, MethodDateConflict) ||
		hasMethod(methods, MethodStatusConflict) {
		return "Cross-bureau conflicts detected - strong case for deletion"
	}
	if hasMethod(methods, MethodMedical) {
		return "Medical collection - typically weak documentation"
	}
	if len(factors) > 0 {
		return factors[0].Description
	}
	return "Multiple factors suggest good dispute potential"
}

func hasMethod(methods []int, id int) bool {
	for _, m := range methods {
		if m == id {
			return true
		}
	}
	return false
}

// Recommendation converts the score into its persisted form.
func (s ScoredAccount) Recommendation() accounts.Recommendation {
	factors := make([]string, len(s.Factors))
	for i, f := range s.Factors {
		factors[i] = f.Description
	}
	return accounts.Recommendation{
		AccountID:            s.Account.ID,
		WinProbability:       s.WinProbability,
		RecommendationReason: s.RecommendationReason,
		Factors:              factors,
		MethodsTriggered:     s.MethodsTriggered,
	}
}
