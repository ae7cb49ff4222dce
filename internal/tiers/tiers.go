// Package tiers holds the static subscription-tier reference data the round
// lifecycle gates on. Tiers are configuration, not user state.
package tiers

// UnlimitedRounds marks a tier with no round ceiling.
const UnlimitedRounds = -1

// Tier IDs form a fixed upgrade ladder.
const (
	Starter      = "starter"
	Professional = "professional"
	Complete     = "complete"
)

// Tier describes what one subscription plan includes.
type Tier struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	RoundsIncluded int    `json:"roundsIncluded"` // UnlimitedRounds means no ceiling
}

var ladder = []Tier{
	{ID: Starter, Name: "Starter", RoundsIncluded: 2},
	{ID: Professional, Name: "Professional", RoundsIncluded: 3},
	{ID: Complete, Name: "Complete", RoundsIncluded: UnlimitedRounds},
}

// ByID looks a tier up by its ID. Unknown IDs fall back to the most
// restrictive tier so a bad subscription record never grants extra rounds.
func ByID(id string) Tier {
	for _, t := range ladder {
		if t.ID == id {
			return t
		}
	}
	return ladder[0]
}

// All returns the ladder from most to least restrictive.
func All() []Tier {
	return append([]Tier(nil), ladder...)
}

// Unlimited reports whether the tier has no round ceiling.
func (t Tier) Unlimited() bool {
	return t.RoundsIncluded == UnlimitedRounds
}

// AllowsRound reports whether the tier covers the given round number.
func (t Tier) AllowsRound(roundNumber int) bool {
	return t.Unlimited() || roundNumber <= t.RoundsIncluded
}

// NextTier returns the next rung of the upgrade ladder and false when the
// tier is already the top one.
func NextTier(id string) (Tier, bool) {
	for i, t := range ladder {
		if t.ID == id && i+1 < len(ladder) {
			return ladder[i+1], true
		}
	}
	return Tier{}, false
}
