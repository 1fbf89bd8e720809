package services

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckIn_FirstEver(t *testing.T) {
	pool := setupTestDB(t)

	u := createTestUser(t, pool)
	userID := uuid.MustParse(u.ID)
	svc := NewStreakService(pool)

	st, bonus, err := svc.CheckIn(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, 1, st.StreakCount)
	assert.Equal(t, 1, st.LoginCount)
	assert.True(t, bonus, "first check-in of the day grants the bonus")
	require.NotNil(t, st.LastBonusDate)
}

func TestCheckIn_SameDayIsIdempotent(t *testing.T) {
	pool := setupTestDB(t)

	u := createTestUser(t, pool)
	userID := uuid.MustParse(u.ID)
	svc := NewStreakService(pool)
	ctx := context.Background()

	first, bonus, err := svc.CheckIn(ctx, userID)
	require.NoError(t, err)
	require.True(t, bonus)

	second, bonus, err := svc.CheckIn(ctx, userID)
	require.NoError(t, err)

	assert.Equal(t, first.StreakCount, second.StreakCount)
	assert.Equal(t, first.LoginCount, second.LoginCount)
	assert.False(t, bonus, "the daily bonus is capped at one per calendar day")

	var experience int
	err = pool.QueryRow(ctx, `SELECT experience FROM users WHERE id = $1`, userID).Scan(&experience)
	require.NoError(t, err)
	assert.Equal(t, 10, experience, "only the first check-in of the day pays out")
}

func TestCheckIn_ConcurrentSameDay(t *testing.T) {
	pool := setupTestDB(t)

	u := createTestUser(t, pool)
	userID := uuid.MustParse(u.ID)
	svc := NewStreakService(pool)

	const workers = 8
	bonuses := make([]bool, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, bonus, err := svc.CheckIn(context.Background(), userID)
			assert.NoError(t, err)
			bonuses[i] = bonus
		}(i)
	}
	wg.Wait()

	granted := 0
	for _, b := range bonuses {
		if b {
			granted++
		}
	}
	assert.Equal(t, 1, granted, "the row lock must let exactly one check-in pay the bonus")

	st, err := svc.GetStreak(context.Background(), userID)
	require.NoError(t, err)
	require.NotNil(t, st)
	assert.Equal(t, 1, st.StreakCount, "simultaneous check-ins advance the streak once")
	assert.Equal(t, 1, st.LoginCount, "simultaneous check-ins count as one login")

	var experience int
	err = pool.QueryRow(context.Background(), `SELECT experience FROM users WHERE id = $1`, userID).Scan(&experience)
	require.NoError(t, err)
	assert.Equal(t, 10, experience, "the daily bonus is paid exactly once")
}

func TestGetStreak_NeverCheckedIn(t *testing.T) {
	pool := setupTestDB(t)

	u := createTestUser(t, pool)
	userID := uuid.MustParse(u.ID)
	svc := NewStreakService(pool)

	st, err := svc.GetStreak(context.Background(), userID)
	require.NoError(t, err)
	assert.Nil(t, st)
}

func TestGetStreak_AfterCheckIn(t *testing.T) {
	pool := setupTestDB(t)

	u := createTestUser(t, pool)
	userID := uuid.MustParse(u.ID)
	svc := NewStreakService(pool)
	ctx := context.Background()

	_, _, err := svc.CheckIn(ctx, userID)
	require.NoError(t, err)

	st, err := svc.GetStreak(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, st)
	assert.Equal(t, userID, st.UserID)
	assert.Equal(t, 1, st.StreakCount)
}
