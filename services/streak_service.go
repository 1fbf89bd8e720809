package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"zenithAPI/internal/gamification"
	"zenithAPI/internal/streak"
)

type StreakService struct {
	db *pgxpool.Pool
}

func NewStreakService(db *pgxpool.Pool) *StreakService {
	return &StreakService{db: db}
}

// CheckIn records one authenticated check-in for the user and returns the
// updated streak plus whether the once-per-day XP bonus was granted this
// call. The whole update runs in a single transaction with the streak row
// locked, so two simultaneous check-ins cannot both advance the counters or
// both collect the bonus.
func (s *StreakService) CheckIn(ctx context.Context, userID uuid.UUID) (*streak.Streak, bool, error) {
	now := time.Now()

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("failed to begin check-in transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// First-ever check-in creates the row. It is seeded with zero counters
	// dated yesterday so the Advance below lands on streak 1 / login 1, and
	// ON CONFLICT makes the insert safe against a concurrent first check-in.
	_, err = tx.Exec(ctx, `
		INSERT INTO user_streaks (id, user_id, streak_count, login_count, last_login_date, created_at, updated_at)
		VALUES ($1, $2, 0, 0, $3, NOW(), NOW())
		ON CONFLICT (user_id) DO NOTHING
	`, uuid.New(), userID, now.AddDate(0, 0, -1))
	if err != nil {
		return nil, false, fmt.Errorf("failed to init streak record: %w", err)
	}

	st := &streak.Streak{}
	err = tx.QueryRow(ctx, `
		SELECT id, user_id, streak_count, login_count, last_login_date, last_bonus_date, created_at, updated_at
		FROM user_streaks
		WHERE user_id = $1
		FOR UPDATE
	`, userID).Scan(
		&st.ID,
		&st.UserID,
		&st.StreakCount,
		&st.LoginCount,
		&st.LastLoginDate,
		&st.LastBonusDate,
		&st.CreatedAt,
		&st.UpdatedAt,
	)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load streak record: %w", err)
	}

	st.Advance(now)

	bonusGranted := st.BonusDue(now)
	if bonusGranted {
		bonusDate := now
		st.LastBonusDate = &bonusDate

		// The daily check-in bonus rides in the same transaction as the
		// stamp that caps it, so it can be granted at most once per day.
		result, err := tx.Exec(ctx, `
			UPDATE users SET experience = experience + $2, updated_at = NOW() WHERE id = $1
		`, userID, gamification.XPPerAction)
		if err != nil {
			return nil, false, fmt.Errorf("failed to award check-in bonus: %w", err)
		}
		if result.RowsAffected() == 0 {
			return nil, false, ErrUserNotFound
		}
	}

	_, err = tx.Exec(ctx, `
		UPDATE user_streaks
		SET streak_count = $2, login_count = $3, last_login_date = $4, last_bonus_date = $5, updated_at = NOW()
		WHERE id = $1
	`, st.ID, st.StreakCount, st.LoginCount, st.LastLoginDate, st.LastBonusDate)
	if err != nil {
		return nil, false, fmt.Errorf("failed to persist streak record: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, false, fmt.Errorf("failed to commit check-in: %w", err)
	}

	return st, bonusGranted, nil
}

// GetStreak returns the user's streak record, or nil when the user has
// never checked in.
func (s *StreakService) GetStreak(ctx context.Context, userID uuid.UUID) (*streak.Streak, error) {
	st := &streak.Streak{}
	err := s.db.QueryRow(ctx, `
		SELECT id, user_id, streak_count, login_count, last_login_date, last_bonus_date, created_at, updated_at
		FROM user_streaks
		WHERE user_id = $1
	`, userID).Scan(
		&st.ID,
		&st.UserID,
		&st.StreakCount,
		&st.LoginCount,
		&st.LastLoginDate,
		&st.LastBonusDate,
		&st.CreatedAt,
		&st.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get streak: %w", err)
	}
	return st, nil
}
