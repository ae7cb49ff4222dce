package rounds

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory Repo for tests and database-less dev runs.
type MemoryRepo struct {
	mu     sync.RWMutex
	rounds map[string][]Round // keyed by user ID
}

// NewMemoryRepo constructs an empty in-memory repo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{rounds: make(map[string][]Round)}
}

func (r *MemoryRepo) Create(ctx context.Context, round Round) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.rounds[round.UserID] {
		if existing.Status != StatusComplete {
			return ErrOpenRoundExists
		}
	}
	r.rounds[round.UserID] = append(r.rounds[round.UserID], round)
	return nil
}

func (r *MemoryRepo) ListByUser(ctx context.Context, userID string) ([]Round, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := append([]Round(nil), r.rounds[userID]...)
	sort.Slice(out, func(i, j int) bool { return out[i].RoundNumber > out[j].RoundNumber })
	return out, nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, userID, roundID string) (Round, error) {
	if err := ctx.Err(); err != nil {
		return Round{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, round := range r.rounds[userID] {
		if round.ID == roundID {
			return round, nil
		}
	}
	return Round{}, ErrNotFound
}

func (r *MemoryRepo) SetLettersGenerated(ctx context.Context, userID, roundID string, itemsDisputed int, at time.Time) error {
	return r.update(ctx, userID, roundID, StatusActive, func(round *Round) {
		round.Status = StatusLettersGenerated
		round.LettersGeneratedAt = &at
		round.ItemsDisputed = itemsDisputed
	})
}

func (r *MemoryRepo) SetMailed(ctx context.Context, userID, roundID string, mailedAt, lockedUntil time.Time) error {
	return r.update(ctx, userID, roundID, StatusLettersGenerated, func(round *Round) {
		round.Status = StatusMailed
		round.MailedAt = &mailedAt
		round.LockedUntil = &lockedUntil
	})
}

func (r *MemoryRepo) SetUnlockedEarly(ctx context.Context, userID, roundID string) error {
	return r.update(ctx, userID, roundID, StatusMailed, func(round *Round) {
		round.Status = StatusResponsesUploaded
		round.UnlockedEarly = true
	})
}

func (r *MemoryRepo) Complete(ctx context.Context, userID, roundID string, results Results, at time.Time) error {
	err := r.update(ctx, userID, roundID, StatusMailed, func(round *Round) {
		round.Status = StatusComplete
		round.CompletedAt = &at
		round.ItemsDeleted = results.ItemsDeleted
		round.ItemsVerified = results.ItemsVerified
		round.ItemsUpdated = results.ItemsUpdated
		round.ItemsNoResponse = results.ItemsNoResponse
	})
	if err == ErrInvalidTransition {
		// Completing from responses_uploaded is equally valid.
		err = r.update(ctx, userID, roundID, StatusResponsesUploaded, func(round *Round) {
			round.Status = StatusComplete
			round.CompletedAt = &at
			round.ItemsDeleted = results.ItemsDeleted
			round.ItemsVerified = results.ItemsVerified
			round.ItemsUpdated = results.ItemsUpdated
			round.ItemsNoResponse = results.ItemsNoResponse
		})
	}
	return err
}

func (r *MemoryRepo) update(ctx context.Context, userID, roundID, requireStatus string, apply func(*Round)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	rounds := r.rounds[userID]
	for i := range rounds {
		if rounds[i].ID != roundID {
			continue
		}
		if rounds[i].Status != requireStatus {
			return ErrInvalidTransition
		}
		apply(&rounds[i])
		return nil
	}
	return ErrNotFound
}

var _ Repo = (*MemoryRepo)(nil)
