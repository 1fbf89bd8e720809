package streak

import (
	"time"

	"github.com/google/uuid"
)

// Streak is the one-row-per-user login streak record. Dates are compared at
// calendar-day precision, never as timestamps.
type Streak struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	UserID        uuid.UUID  `json:"user_id" db:"user_id"`
	StreakCount   int        `json:"streak_count" db:"streak_count"`
	LoginCount    int        `json:"login_count" db:"login_count"`
	LastLoginDate time.Time  `json:"last_login_date" db:"last_login_date"`
	LastBonusDate *time.Time `json:"last_bonus_date" db:"last_bonus_date"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}

// DaysBetween returns the number of calendar days from a to b, ignoring the
// time of day. Negative when b is before a.
func DaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	start := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	end := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start).Hours() / 24)
}

// SameDay reports whether two times fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return DaysBetween(a, b) == 0
}

// Advance applies one check-in at time now to the streak record in place.
// Same calendar day leaves both counters alone. A one-day gap extends the
// streak, a longer gap resets it to 1, and a negative gap (clock skew or a
// backdated row) is treated as same-day rather than erroring.
func (s *Streak) Advance(now time.Time) {
	days := DaysBetween(s.LastLoginDate, now)

	switch {
	case days == 1:
		s.StreakCount++
		s.LoginCount++
	case days > 1:
		s.StreakCount = 1
		s.LoginCount++
	default:
		// days == 0 or negative: counters unchanged
	}

	if days >= 0 {
		s.LastLoginDate = now
	}
}

// BonusDue reports whether the daily check-in XP bonus may be granted at
// time now. The bonus is capped at one per calendar day via LastBonusDate.
func (s *Streak) BonusDue(now time.Time) bool {
	return s.LastBonusDate == nil || !SameDay(*s.LastBonusDate, now)
}
