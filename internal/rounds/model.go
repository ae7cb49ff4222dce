package rounds

import "time"

// Round statuses. A user has at most one non-complete round at a time.
const (
	StatusActive            = "active"
	StatusLettersGenerated  = "letters_generated"
	StatusMailed            = "mailed"
	StatusResponsesUploaded = "responses_uploaded"
	StatusComplete          = "complete"
)

// LockDays is the bureau investigation window a mailed round waits out.
const LockDays = 30

// Round is one dispute cycle. Lock state is never stored; it is recomputed
// from MailedAt, LockedUntil and UnlockedEarly each time it is read.
type Round struct {
	ID                 string     `json:"id"`
	UserID             string     `json:"userId"`
	RoundNumber        int        `json:"roundNumber"`
	Status             string     `json:"status"`
	StartedAt          time.Time  `json:"startedAt"`
	LettersGeneratedAt *time.Time `json:"lettersGeneratedAt,omitempty"`
	MailedAt           *time.Time `json:"mailedAt,omitempty"`
	LockedUntil        *time.Time `json:"lockedUntil,omitempty"`
	CompletedAt        *time.Time `json:"completedAt,omitempty"`
	UnlockedEarly      bool       `json:"unlockedEarly"`
	ItemsDisputed      int        `json:"itemsDisputed"`
	ItemsDeleted       int        `json:"itemsDeleted"`
	ItemsVerified      int        `json:"itemsVerified"`
	ItemsUpdated       int        `json:"itemsUpdated"`
	ItemsNoResponse    int        `json:"itemsNoResponse"`
	CreatedAt          time.Time  `json:"createdAt"`
}

// Locked recomputes the round's lock from timestamps at the given instant.
// A round unlocks exactly at LockedUntil, not one second after.
func (r Round) Locked(now time.Time) bool {
	return r.Status == StatusMailed &&
		!r.UnlockedEarly &&
		r.LockedUntil != nil &&
		now.Before(*r.LockedUntil)
}

// DaysRemaining is the ceiling of the time left on the lock, floored at 0.
func (r Round) DaysRemaining(now time.Time) int {
	if !r.Locked(now) {
		return 0
	}
	remaining := r.LockedUntil.Sub(now)
	days := int(remaining / (24 * time.Hour))
	if remaining%(24*time.Hour) > 0 {
		days++
	}
	return days
}

// Results holds the bureau-response outcome tallies recorded on completion.
type Results struct {
	ItemsDeleted    int `json:"itemsDeleted"`
	ItemsVerified   int `json:"itemsVerified"`
	ItemsUpdated    int `json:"itemsUpdated"`
	ItemsNoResponse int `json:"itemsNoResponse"`
}

// Info is the per-round slice of a status report.
type Info struct {
	RoundNumber       int        `json:"roundNumber"`
	Status            string     `json:"status"`
	StartedAt         time.Time  `json:"startedAt"`
	MailedAt          *time.Time `json:"mailedAt,omitempty"`
	CompletedAt       *time.Time `json:"completedAt,omitempty"`
	ItemsDisputed     int        `json:"itemsDisputed"`
	ItemsDeleted      int        `json:"itemsDeleted"`
	ItemsVerified     int        `json:"itemsVerified"`
	ResponsesUploaded bool       `json:"responsesUploaded"`
}

// Status is the aggregate view the frontend renders: where the user is,
// whether they are locked, and what they have already been through.
type Status struct {
	CurrentRound      int        `json:"currentRound"`
	MaxRounds         int        `json:"maxRounds"`
	IsLocked          bool       `json:"isLocked"`
	LockedUntil       *time.Time `json:"lockedUntil,omitempty"`
	DaysRemaining     int        `json:"daysRemaining"`
	CanStartNextRound bool       `json:"canStartNextRound"`
	RoundHistory      []Info     `json:"roundHistory"`
	NextRoundNumber   int        `json:"nextRoundNumber"`
}

// Countdown breaks the remaining lock time down for display.
type Countdown struct {
	Days       int    `json:"days"`
	Hours      int    `json:"hours"`
	Minutes    int    `json:"minutes"`
	IsUnlocked bool   `json:"isUnlocked"`
	UnlockDate string `json:"unlockDate"`
}

// CountdownAt computes the display countdown for a lock deadline.
func CountdownAt(lockedUntil *time.Time, now time.Time) Countdown {
	if lockedUntil == nil {
		return Countdown{IsUnlocked: true}
	}
	diff := lockedUntil.Sub(now)
	if diff <= 0 {
		return Countdown{IsUnlocked: true, UnlockDate: lockedUntil.Format("2006-01-02")}
	}
	return Countdown{
		Days:       int(diff / (24 * time.Hour)),
		Hours:      int(diff % (24 * time.Hour) / time.Hour),
		Minutes:    int(diff % time.Hour / time.Minute),
		UnlockDate: lockedUntil.Format("2006-01-02"),
	}
}
