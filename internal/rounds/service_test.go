package rounds

import (
	"context"
	"errors"
	"testing"
	"time"

	"creditdispute-backend/internal/tiers"
)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestService() (*Service, *testClock) {
	clock := &testClock{now: time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)}
	svc := NewService(NewMemoryRepo()).WithClock(clock.Now)
	return svc, clock
}

// runRoundToMailed walks a fresh round through letters-generated to mailed
// and returns the round ID and lock deadline.
func runRoundToMailed(t *testing.T, svc *Service, userID, tier string) (string, time.Time) {
	t.Helper()
	ctx := context.Background()
	round, err := svc.StartRound(ctx, userID, tier)
	if err != nil {
		t.Fatalf("StartRound: %v", err)
	}
	if err := svc.MarkLettersGenerated(ctx, userID, round.ID, 5); err != nil {
		t.Fatalf("MarkLettersGenerated: %v", err)
	}
	lockedUntil, err := svc.MarkMailed(ctx, userID, round.ID)
	if err != nil {
		t.Fatalf("MarkMailed: %v", err)
	}
	return round.ID, lockedUntil
}

func TestStartRoundNumbersAreSequential(t *testing.T) {
	svc, clock := newTestService()
	ctx := context.Background()

	roundID, _ := runRoundToMailed(t, svc, "user-1", tiers.Complete)
	clock.Advance(31 * 24 * time.Hour)
	if err := svc.CompleteRound(ctx, "user-1", roundID, Results{ItemsDeleted: 2}); err != nil {
		t.Fatalf("CompleteRound: %v", err)
	}

	second, err := svc.StartRound(ctx, "user-1", tiers.Complete)
	if err != nil {
		t.Fatalf("StartRound: %v", err)
	}
	if second.RoundNumber != 2 {
		t.Fatalf("RoundNumber = %d, want 2", second.RoundNumber)
	}
}

func TestMarkMailedSetsThirtyDayLock(t *testing.T) {
	svc, clock := newTestService()
	_, lockedUntil := runRoundToMailed(t, svc, "user-1", tiers.Starter)

	want := clock.Now().AddDate(0, 0, 30)
	if !lockedUntil.Equal(want) {
		t.Fatalf("lockedUntil = %v, want %v", lockedUntil, want)
	}

	status, err := svc.GetStatus(context.Background(), "user-1", tiers.Starter)
	if err != nil {
		t.Fatalf("GetStatus: %v", err)
	}
	if !status.IsLocked || status.DaysRemaining != 30 {
		t.Fatalf("status = %+v, want locked with 30 days remaining", status)
	}
	if status.CanStartNextRound {
		t.Fatalf("locked user must not be able to start the next round")
	}
}

func TestLockBoundaryIsExactlyThirtyDays(t *testing.T) {
	svc, clock := newTestService()
	runRoundToMailed(t, svc, "user-1", tiers.Starter)
	ctx := context.Background()

	clock.Advance(29 * 24 * time.Hour)
	status, err := svc.GetStatus(ctx, "user-1", tiers.Starter)
	if err != nil {
		t.Fatalf("GetStatus: %v", err)
	}
	if !status.IsLocked || status.DaysRemaining != 1 {
		t.Fatalf("at T+29d: %+v, want locked with 1 day remaining", status)
	}

	clock.Advance(24 * time.Hour)
	status, err = svc.GetStatus(ctx, "user-1", tiers.Starter)
	if err != nil {
		t.Fatalf("GetStatus: %v", err)
	}
	if status.IsLocked {
		t.Fatalf("at T+30d exactly the round must be unlocked")
	}
}

func TestStartRoundWhileLockedReturnsLockedError(t *testing.T) {
	svc, clock := newTestService()
	runRoundToMailed(t, svc, "user-1", tiers.Starter)
	clock.Advance(5 * 24 * time.Hour)

	_, err := svc.StartRound(context.Background(), "user-1", tiers.Starter)
	var locked *LockedError
	if !errors.As(err, &locked) {
		t.Fatalf("expected LockedError, got %v", err)
	}
	if locked.DaysRemaining != 25 {
		t.Fatalf("DaysRemaining = %d, want 25", locked.DaysRemaining)
	}
}

func TestUnlockEarlyReleasesLockImmediately(t *testing.T) {
	svc, clock := newTestService()
	roundID, _ := runRoundToMailed(t, svc, "user-1", tiers.Starter)
	ctx := context.Background()

	clock.Advance(5 * 24 * time.Hour)
	if err := svc.UnlockEarly(ctx, "user-1", roundID); err != nil {
		t.Fatalf("UnlockEarly: %v", err)
	}

	status, err := svc.GetStatus(ctx, "user-1", tiers.Starter)
	if err != nil {
		t.Fatalf("GetStatus: %v", err)
	}
	if status.IsLocked {
		t.Fatalf("unlock early must release the lock immediately")
	}
	if len(status.RoundHistory) != 1 || !status.RoundHistory[0].ResponsesUploaded {
		t.Fatalf("history should mark responses uploaded: %+v", status.RoundHistory)
	}
}

func TestStarterTierCapsAtTwoRounds(t *testing.T) {
	svc, clock := newTestService()
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		roundID, _ := runRoundToMailed(t, svc, "user-1", tiers.Starter)
		clock.Advance(31 * 24 * time.Hour)
		if err := svc.CompleteRound(ctx, "user-1", roundID, Results{}); err != nil {
			t.Fatalf("CompleteRound %d: %v", i+1, err)
		}
	}

	_, err := svc.StartRound(ctx, "user-1", tiers.Starter)
	var limit *LimitReachedError
	if !errors.As(err, &limit) {
		t.Fatalf("expected LimitReachedError, got %v", err)
	}
	if limit.SuggestedTier != tiers.Professional {
		t.Fatalf("SuggestedTier = %q, want professional", limit.SuggestedTier)
	}
}

func TestCompleteTierIsUnlimited(t *testing.T) {
	svc, clock := newTestService()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		roundID, _ := runRoundToMailed(t, svc, "user-1", tiers.Complete)
		clock.Advance(31 * 24 * time.Hour)
		if err := svc.CompleteRound(ctx, "user-1", roundID, Results{}); err != nil {
			t.Fatalf("CompleteRound %d: %v", i+1, err)
		}
	}

	round, err := svc.StartRound(ctx, "user-1", tiers.Complete)
	if err != nil {
		t.Fatalf("round 6 on complete tier should start: %v", err)
	}
	if round.RoundNumber != 6 {
		t.Fatalf("RoundNumber = %d, want 6", round.RoundNumber)
	}
}

func TestMarkMailedRequiresLettersGenerated(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	round, err := svc.StartRound(ctx, "user-1", tiers.Starter)
	if err != nil {
		t.Fatalf("StartRound: %v", err)
	}
	if _, err := svc.MarkMailed(ctx, "user-1", round.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestStartRoundWithOpenActiveRoundFails(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.StartRound(ctx, "user-1", tiers.Complete); err != nil {
		t.Fatalf("StartRound: %v", err)
	}
	if _, err := svc.StartRound(ctx, "user-1", tiers.Complete); !errors.Is(err, ErrOpenRoundExists) {
		t.Fatalf("expected ErrOpenRoundExists, got %v", err)
	}
}

func TestGetCountdownBreaksDownRemainingTime(t *testing.T) {
	svc, clock := newTestService()
	runRoundToMailed(t, svc, "user-1", tiers.Starter)

	clock.Advance(29*24*time.Hour + 12*time.Hour + 30*time.Minute)
	countdown, err := svc.GetCountdown(context.Background(), "user-1", tiers.Starter)
	if err != nil {
		t.Fatalf("GetCountdown: %v", err)
	}
	if countdown.IsUnlocked {
		t.Fatalf("countdown should still be running")
	}
	if countdown.Days != 0 || countdown.Hours != 11 || countdown.Minutes != 30 {
		t.Fatalf("countdown = %+v, want 0d 11h 30m", countdown)
	}
}

func TestDaysRemainingCeils(t *testing.T) {
	svc, clock := newTestService()
	runRoundToMailed(t, svc, "user-1", tiers.Starter)

	clock.Advance(29*24*time.Hour + 1*time.Hour)
	status, err := svc.GetStatus(context.Background(), "user-1", tiers.Starter)
	if err != nil {
		t.Fatalf("GetStatus: %v", err)
	}
	if status.DaysRemaining != 1 {
		t.Fatalf("DaysRemaining = %d, want ceil to 1", status.DaysRemaining)
	}
}
