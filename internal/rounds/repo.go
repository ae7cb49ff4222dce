package rounds

import (
	"context"
	"errors"
	"time"
)

// ErrOpenRoundExists is returned by Create when the user already has a
// non-complete round. The Postgres repo surfaces it off the partial unique
// index, which makes it the guard that wins a concurrent start-round race.
var ErrOpenRoundExists = errors.New("an open round already exists")

// Repo defines persistence for dispute rounds. Every update method guards
// on the round's current status and returns ErrInvalidTransition when the
// round is not in the status the transition requires.
type Repo interface {
	Create(ctx context.Context, round Round) error
	ListByUser(ctx context.Context, userID string) ([]Round, error)
	GetByID(ctx context.Context, userID, roundID string) (Round, error)
	SetLettersGenerated(ctx context.Context, userID, roundID string, itemsDisputed int, at time.Time) error
	SetMailed(ctx context.Context, userID, roundID string, mailedAt, lockedUntil time.Time) error
	SetUnlockedEarly(ctx context.Context, userID, roundID string) error
	Complete(ctx context.Context, userID, roundID string, results Results, at time.Time) error
}
