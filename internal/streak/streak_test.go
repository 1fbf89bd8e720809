package streak

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d, hour int) time.Time {
	return time.Date(y, m, d, hour, 0, 0, 0, time.UTC)
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name string
		a    time.Time
		b    time.Time
		want int
	}{
		{"same instant", date(2026, 3, 10, 12), date(2026, 3, 10, 12), 0},
		{"same day different hours", date(2026, 3, 10, 1), date(2026, 3, 10, 23), 0},
		{"consecutive days near midnight", date(2026, 3, 10, 23), date(2026, 3, 11, 0), 1},
		{"two day gap", date(2026, 3, 10, 12), date(2026, 3, 12, 8), 2},
		{"month boundary", date(2026, 1, 31, 20), date(2026, 2, 1, 4), 1},
		{"year boundary", date(2025, 12, 31, 23), date(2026, 1, 1, 1), 1},
		{"backwards", date(2026, 3, 11, 8), date(2026, 3, 10, 23), -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysBetween(tt.a, tt.b))
		})
	}
}

func TestSameDay(t *testing.T) {
	assert.True(t, SameDay(date(2026, 3, 10, 0), date(2026, 3, 10, 23)))
	assert.False(t, SameDay(date(2026, 3, 10, 23), date(2026, 3, 11, 0)))
}

func TestAdvance_SameDay(t *testing.T) {
	last := date(2026, 3, 10, 8)
	s := &Streak{StreakCount: 4, LoginCount: 20, LastLoginDate: last}

	s.Advance(date(2026, 3, 10, 22))

	assert.Equal(t, 4, s.StreakCount)
	assert.Equal(t, 20, s.LoginCount)
	assert.Equal(t, date(2026, 3, 10, 22), s.LastLoginDate)
}

func TestAdvance_NextDay(t *testing.T) {
	s := &Streak{StreakCount: 4, LoginCount: 20, LastLoginDate: date(2026, 3, 10, 8)}

	now := date(2026, 3, 11, 7)
	s.Advance(now)

	assert.Equal(t, 5, s.StreakCount)
	assert.Equal(t, 21, s.LoginCount)
	assert.Equal(t, now, s.LastLoginDate)
}

func TestAdvance_GapResetsStreak(t *testing.T) {
	s := &Streak{StreakCount: 12, LoginCount: 40, LastLoginDate: date(2026, 3, 10, 8)}

	now := date(2026, 3, 13, 9)
	s.Advance(now)

	assert.Equal(t, 1, s.StreakCount)
	assert.Equal(t, 41, s.LoginCount)
	assert.Equal(t, now, s.LastLoginDate)
}

func TestAdvance_BackdatedClockIsTreatedAsSameDay(t *testing.T) {
	last := date(2026, 3, 11, 8)
	s := &Streak{StreakCount: 4, LoginCount: 20, LastLoginDate: last}

	s.Advance(date(2026, 3, 10, 12))

	assert.Equal(t, 4, s.StreakCount)
	assert.Equal(t, 20, s.LoginCount)
	// Last login date must not move backwards.
	assert.Equal(t, last, s.LastLoginDate)
}

func TestBonusDue(t *testing.T) {
	now := date(2026, 3, 11, 9)

	s := &Streak{}
	assert.True(t, s.BonusDue(now), "no bonus ever granted")

	earlier := date(2026, 3, 11, 1)
	s.LastBonusDate = &earlier
	assert.False(t, s.BonusDue(now), "bonus already granted today")

	yesterday := date(2026, 3, 10, 23)
	s.LastBonusDate = &yesterday
	assert.True(t, s.BonusDue(now), "last bonus was yesterday")
}
