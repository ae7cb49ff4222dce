package rounds

import (
	"context"
	"time"

	"github.com/google/uuid"

	"creditdispute-backend/internal/shared/metrics"
	"creditdispute-backend/internal/shared/telemetry"
	"creditdispute-backend/internal/tiers"
)

// Service drives the round lifecycle. All lock decisions are recomputed
// from persisted timestamps at call time; nothing caches "locked".
type Service struct {
	repo Repo
	now  func() time.Time
}

// NewService constructs a Service on the given repo.
func NewService(repo Repo) *Service {
	return &Service{repo: repo, now: time.Now}
}

// WithClock overrides the time source. Tests use this to sit exactly on
// lock boundaries.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// GetStatus reports where the user stands: current round, lock state, tier
// ceiling, and full round history newest-first.
func (s *Service) GetStatus(ctx context.Context, userID, tierID string) (Status, error) {
	all, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return Status{}, err
	}

	tier := tiers.ByID(tierID)
	now := s.now()

	status := Status{
		MaxRounds:    tier.RoundsIncluded,
		RoundHistory: make([]Info, 0, len(all)),
	}
	for _, round := range all {
		status.RoundHistory = append(status.RoundHistory, Info{
			RoundNumber:       round.RoundNumber,
			Status:            round.Status,
			StartedAt:         round.StartedAt,
			MailedAt:          round.MailedAt,
			CompletedAt:       round.CompletedAt,
			ItemsDisputed:     round.ItemsDisputed,
			ItemsDeleted:      round.ItemsDeleted,
			ItemsVerified:     round.ItemsVerified,
			ResponsesUploaded: round.Status == StatusResponsesUploaded || round.UnlockedEarly,
		})
	}

	if len(all) > 0 {
		current := withDerivedLock(all[0])
		status.CurrentRound = current.RoundNumber
		if current.Locked(now) {
			status.IsLocked = true
			status.LockedUntil = current.LockedUntil
			status.DaysRemaining = current.DaysRemaining(now)
		}
	}
	status.NextRoundNumber = status.CurrentRound + 1
	status.CanStartNextRound = !status.IsLocked && tier.AllowsRound(status.NextRoundNumber)
	return status, nil
}

// StartRound opens the user's next round. It fails with LockedError while
// the previous round's investigation window is running, and with
// LimitReachedError when the tier's ceiling is hit.
func (s *Service) StartRound(ctx context.Context, userID, tierID string) (Round, error) {
	status, err := s.GetStatus(ctx, userID, tierID)
	if err != nil {
		return Round{}, err
	}

	if status.IsLocked {
		metrics.IncRoundLockRejected()
		return Round{}, &LockedError{DaysRemaining: status.DaysRemaining}
	}
	tier := tiers.ByID(tierID)
	if !tier.AllowsRound(status.NextRoundNumber) {
		suggested := ""
		if next, ok := tiers.NextTier(tier.ID); ok {
			suggested = next.ID
		}
		return Round{}, &LimitReachedError{
			Tier:          tier.ID,
			MaxRounds:     tier.RoundsIncluded,
			SuggestedTier: suggested,
		}
	}

	now := s.now()
	round := Round{
		ID:          uuid.NewString(),
		UserID:      userID,
		RoundNumber: status.NextRoundNumber,
		Status:      StatusActive,
		StartedAt:   now,
		CreatedAt:   now,
	}
	if err := s.repo.Create(ctx, round); err != nil {
		return Round{}, err
	}

	metrics.IncRoundStarted()
	telemetry.Info("rounds.started", map[string]any{
		"user_id":      userID,
		"round_id":     round.ID,
		"round_number": round.RoundNumber,
		"tier":         tier.ID,
	})
	return round, nil
}

// MarkLettersGenerated records that letters exist for the round and how
// many items they dispute.
func (s *Service) MarkLettersGenerated(ctx context.Context, userID, roundID string, itemsDisputed int) error {
	return s.repo.SetLettersGenerated(ctx, userID, roundID, itemsDisputed, s.now())
}

// MarkMailed stamps the mailing time and starts the investigation window.
// Returns the instant the round unlocks.
func (s *Service) MarkMailed(ctx context.Context, userID, roundID string) (time.Time, error) {
	mailedAt := s.now()
	lockedUntil := mailedAt.AddDate(0, 0, LockDays)
	if err := s.repo.SetMailed(ctx, userID, roundID, mailedAt, lockedUntil); err != nil {
		return time.Time{}, err
	}
	telemetry.Info("rounds.mailed", map[string]any{
		"user_id":      userID,
		"round_id":     roundID,
		"locked_until": lockedUntil,
	})
	return lockedUntil, nil
}

// UnlockEarly releases the lock when bureau responses arrive before the
// window elapses.
func (s *Service) UnlockEarly(ctx context.Context, userID, roundID string) error {
	return s.repo.SetUnlockedEarly(ctx, userID, roundID)
}

// CompleteRound records the final outcome tallies and closes the round.
func (s *Service) CompleteRound(ctx context.Context, userID, roundID string, results Results) error {
	return s.repo.Complete(ctx, userID, roundID, results, s.now())
}

// GetCountdown returns the display countdown for the user's current lock.
func (s *Service) GetCountdown(ctx context.Context, userID, tierID string) (Countdown, error) {
	status, err := s.GetStatus(ctx, userID, tierID)
	if err != nil {
		return Countdown{}, err
	}
	return CountdownAt(status.LockedUntil, s.now()), nil
}

// withDerivedLock backfills LockedUntil for mailed rounds persisted before
// the deadline column existed.
func withDerivedLock(r Round) Round {
	if r.Status == StatusMailed && r.LockedUntil == nil && r.MailedAt != nil {
		deadline := r.MailedAt.AddDate(0, 0, LockDays)
		r.LockedUntil = &deadline
	}
	return r
}
