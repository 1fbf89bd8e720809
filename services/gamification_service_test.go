package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zenithAPI/internal/gamification"
)

func newGamificationService(pool *pgxpool.Pool) *GamificationService {
	return NewGamificationService(pool, NewStreakService(pool), NewNotificationService(pool))
}

func seedJournals(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID, n int) {
	t.Helper()
	ctx := context.Background()
	for i := 0; i < n; i++ {
		_, err := pool.Exec(ctx, `
			INSERT INTO journals (id, user_id, title, content, created_at, updated_at)
			VALUES ($1, $2, $3, 'entry', NOW(), NOW())
		`, uuid.New(), userID, fmt.Sprintf("entry %d", i))
		require.NoError(t, err)
	}
}

func TestTryAwardBadge_ExactCheckpoint(t *testing.T) {
	pool := setupTestDB(t)
	require.NoError(t, NewBadgeService(pool).EnsureCatalog(context.Background()))

	u := createTestUser(t, pool)
	userID := uuid.MustParse(u.ID)
	svc := newGamificationService(pool)
	ctx := context.Background()

	// 9 entries: short of the first checkpoint.
	seedJournals(t, pool, userID, 9)
	earned, err := svc.TryAwardBadge(ctx, userID, gamification.ActivityJournals)
	require.NoError(t, err)
	assert.Nil(t, earned)

	// The 10th entry lands exactly on a threshold.
	seedJournals(t, pool, userID, 1)
	earned, err = svc.TryAwardBadge(ctx, userID, gamification.ActivityJournals)
	require.NoError(t, err)
	require.NotNil(t, earned)
	assert.Equal(t, "Journaling Journeyman", earned.Title)

	// Same counter again: the badge is already granted, nothing new.
	earned, err = svc.TryAwardBadge(ctx, userID, gamification.ActivityJournals)
	require.NoError(t, err)
	assert.Nil(t, earned)

	// 11 entries: past the threshold, no retroactive grant.
	seedJournals(t, pool, userID, 1)
	earned, err = svc.TryAwardBadge(ctx, userID, gamification.ActivityJournals)
	require.NoError(t, err)
	assert.Nil(t, earned)
}

func TestTryAwardBadge_ConcurrentGrantIsSingle(t *testing.T) {
	pool := setupTestDB(t)
	require.NoError(t, NewBadgeService(pool).EnsureCatalog(context.Background()))

	u := createTestUser(t, pool)
	userID := uuid.MustParse(u.ID)
	svc := newGamificationService(pool)
	seedJournals(t, pool, userID, 10)

	const workers = 8
	results := make([]*gamification.BadgeInfo, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			earned, err := svc.TryAwardBadge(context.Background(), userID, gamification.ActivityJournals)
			assert.NoError(t, err)
			results[i] = earned
		}(i)
	}
	wg.Wait()

	granted := 0
	for _, r := range results {
		if r != nil {
			granted++
		}
	}
	assert.Equal(t, 1, granted, "the unique constraint must allow exactly one grant")

	var count int
	err := pool.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM user_badges WHERE user_id = $1`, userID).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestAwardExperience_Accumulates(t *testing.T) {
	pool := setupTestDB(t)

	u := createTestUser(t, pool)
	userID := uuid.MustParse(u.ID)
	svc := newGamificationService(pool)
	ctx := context.Background()

	total, err := svc.AwardExperience(ctx, userID, 10)
	require.NoError(t, err)
	assert.Equal(t, 10, total)

	total, err = svc.AwardExperience(ctx, userID, 10)
	require.NoError(t, err)
	assert.Equal(t, 20, total)
}

func TestAwardExperience_UnknownUser(t *testing.T) {
	pool := setupTestDB(t)

	svc := newGamificationService(pool)
	_, err := svc.AwardExperience(context.Background(), uuid.New(), 10)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestExperience_CannotGoNegative(t *testing.T) {
	pool := setupTestDB(t)

	u := createTestUser(t, pool)
	userID := uuid.MustParse(u.ID)

	_, err := pool.Exec(context.Background(),
		`UPDATE users SET experience = experience - 1 WHERE id = $1`, userID)
	assert.Error(t, err, "the check constraint rejects negative experience")
}

func TestEvaluate_SkipsUnprovisionedUser(t *testing.T) {
	pool := setupTestDB(t)

	svc := newGamificationService(pool)
	result := svc.Evaluate(context.Background(), "user_does_not_exist",
		gamification.ActivityJournals, gamification.RequestMeta{})

	assert.Equal(t, gamification.OutcomeSkipped, result.Outcome)
	assert.Nil(t, result.EarnedBadge)
}

func TestEvaluate_AppliesJournalXP(t *testing.T) {
	pool := setupTestDB(t)
	require.NoError(t, NewBadgeService(pool).EnsureCatalog(context.Background()))

	u := createTestUser(t, pool)
	userID := uuid.MustParse(u.ID)
	svc := newGamificationService(pool)

	seedJournals(t, pool, userID, 1)
	result := svc.Evaluate(context.Background(), u.ClerkID,
		gamification.ActivityJournals, gamification.RequestMeta{})

	assert.Equal(t, gamification.OutcomeApplied, result.Outcome)
	assert.Nil(t, result.EarnedBadge)
	assert.Equal(t, 10, result.Experience)
}

func TestCountActivity_CompletedOnly(t *testing.T) {
	pool := setupTestDB(t)

	u := createTestUser(t, pool)
	userID := uuid.MustParse(u.ID)
	svc := newGamificationService(pool)
	ctx := context.Background()

	_, err := pool.Exec(ctx, `
		INSERT INTO goals (id, user_id, title, content, completed, created_at, updated_at)
		VALUES ($1, $2, 'done', '', TRUE, NOW(), NOW()),
		       ($3, $2, 'open', '', FALSE, NOW(), NOW())
	`, uuid.New(), userID, uuid.New())
	require.NoError(t, err)

	assert.Equal(t, 1, svc.CountActivity(ctx, userID, gamification.ActivityGoals))
}
