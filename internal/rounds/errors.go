package rounds

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates the round does not exist or belongs to another user.
var ErrNotFound = errors.New("round not found")

// ErrInvalidTransition indicates a lifecycle call against a round in the
// wrong status. This is a caller defect, not a user-facing condition.
var ErrInvalidTransition = errors.New("invalid round transition")

// LockedError is returned when a new round is requested while the previous
// one is still inside its investigation window.
type LockedError struct {
	DaysRemaining int
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("round locked, unlocks in %d days", e.DaysRemaining)
}

// LimitReachedError is returned when the tier's round ceiling is hit.
// SuggestedTier is empty when no upgrade exists.
type LimitReachedError struct {
	Tier          string
	MaxRounds     int
	SuggestedTier string
}

func (e *LimitReachedError) Error() string {
	return fmt.Sprintf("maximum of %d rounds reached for %s plan", e.MaxRounds, e.Tier)
}
