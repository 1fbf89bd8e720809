package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"zenithAPI/internal/badge"
	"zenithAPI/internal/gamification"
)

// GamificationService is the engine behind the trigger middleware: it reads
// activity counters, decides badge eligibility, applies experience deltas
// and drives the login-streak tracker. Every failure inside it is isolated
// from the primary request.
type GamificationService struct {
	db       *pgxpool.Pool
	streaks  *StreakService
	notifier *NotificationService
}

func NewGamificationService(db *pgxpool.Pool, streaks *StreakService, notifier *NotificationService) *GamificationService {
	return &GamificationService{db: db, streaks: streaks, notifier: notifier}
}

// Evaluate runs the full gamification pass for one trigger request. It
// never returns an error: failures are logged, reported through the
// Outcome, and must not disturb the primary response.
func (s *GamificationService) Evaluate(ctx context.Context, clerkID string, activity gamification.ActivityType, meta gamification.RequestMeta) gamification.Result {
	var userID uuid.UUID
	err := s.db.QueryRow(ctx, `SELECT id FROM users WHERE clerk_id = $1`, clerkID).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Authenticated token without a provisioned row. Nothing to award.
			log.Printf("Gamification: no user row for clerk ID %s, skipping", clerkID)
			return gamification.Result{Outcome: gamification.OutcomeSkipped}
		}
		log.Printf("Gamification: failed to resolve user %s: %v", clerkID, err)
		return gamification.Result{Outcome: gamification.OutcomeFailed}
	}

	if activity == gamification.ActivityLoginStreak {
		return s.evaluateCheckIn(ctx, userID)
	}

	result := gamification.Result{Outcome: gamification.OutcomeApplied}

	earned, err := s.TryAwardBadge(ctx, userID, activity)
	if err != nil {
		log.Printf("Gamification: badge award failed for user %s (%s): %v", userID, activity, err)
		result.Outcome = gamification.OutcomeFailed
	} else {
		result.EarnedBadge = earned
	}

	if xp := gamification.XPFor(activity, meta); xp > 0 {
		total, err := s.AwardExperience(ctx, userID, xp)
		if err != nil {
			log.Printf("Gamification: XP award failed for user %s: %v", userID, err)
			result.Outcome = gamification.OutcomeFailed
		} else {
			result.Experience = total
			result.XPDelta = xp
		}
	} else {
		result.Experience = s.currentExperience(ctx, userID)
	}

	s.pushBadgeAlert(ctx, userID, result.EarnedBadge)
	return result
}

// evaluateCheckIn handles the auth-check trigger: streak tracking first,
// then streak badges, falling through to login-count badges.
func (s *GamificationService) evaluateCheckIn(ctx context.Context, userID uuid.UUID) gamification.Result {
	result := gamification.Result{Outcome: gamification.OutcomeApplied}

	_, bonusGranted, err := s.streaks.CheckIn(ctx, userID)
	if err != nil {
		log.Printf("Gamification: check-in failed for user %s: %v", userID, err)
		return gamification.Result{Outcome: gamification.OutcomeFailed}
	}
	if bonusGranted {
		result.XPDelta = gamification.XPPerAction
	}

	earned, err := s.TryAwardBadge(ctx, userID, gamification.ActivityLoginStreak)
	if err != nil {
		log.Printf("Gamification: streak badge award failed for user %s: %v", userID, err)
		result.Outcome = gamification.OutcomeFailed
	}
	if earned == nil && err == nil {
		earned, err = s.TryAwardBadge(ctx, userID, gamification.ActivityLoginCount)
		if err != nil {
			log.Printf("Gamification: login-count badge award failed for user %s: %v", userID, err)
			result.Outcome = gamification.OutcomeFailed
		}
	}
	result.EarnedBadge = earned
	result.Experience = s.currentExperience(ctx, userID)

	s.pushBadgeAlert(ctx, userID, result.EarnedBadge)
	return result
}

// CountActivity returns the user's current cumulative count or duration for
// one activity category. A failed or empty read yields 0: the engine must
// never block the primary action over a counter.
func (s *GamificationService) CountActivity(ctx context.Context, userID uuid.UUID, activity gamification.ActivityType) int {
	var query string
	switch activity {
	case gamification.ActivityGoals:
		query = `SELECT COUNT(*) FROM goals WHERE user_id = $1 AND completed = TRUE`
	case gamification.ActivityTodos:
		query = `SELECT COUNT(*) FROM todos WHERE user_id = $1 AND completed = TRUE`
	case gamification.ActivityJournals:
		query = `SELECT COUNT(*) FROM journals WHERE user_id = $1`
	case gamification.ActivityMeditations:
		query = `SELECT COALESCE(SUM(total_duration), 0) FROM meditations WHERE user_id = $1`
	case gamification.ActivityPomodoro:
		query = `SELECT COALESCE(SUM(total_duration), 0) FROM pomodoro_timers WHERE user_id = $1`
	case gamification.ActivityLoginStreak:
		query = `SELECT streak_count FROM user_streaks WHERE user_id = $1`
	case gamification.ActivityLoginCount:
		query = `SELECT login_count FROM user_streaks WHERE user_id = $1`
	default:
		log.Printf("Gamification: unknown activity type %q", activity)
		return 0
	}

	var count int
	if err := s.db.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			log.Printf("Gamification: counter read failed for %s/%s: %v", userID, activity, err)
		}
		return 0
	}
	return count
}

// FindCandidates returns the catalog entries matching the activity and the
// exact counter value, in catalog order. An empty result is the common case.
func (s *GamificationService) FindCandidates(ctx context.Context, activity gamification.ActivityType, value int) ([]*badge.Badge, error) {
	query := `
	SELECT id, title, description, image_url, activity_type, required_count_or_duration, created_at
	FROM badges
	WHERE activity_type = $1 AND required_count_or_duration = $2
	ORDER BY created_at
	`

	rows, err := s.db.Query(ctx, query, activity, value)
	if err != nil {
		return nil, fmt.Errorf("failed to look up badge candidates: %w", err)
	}
	defer rows.Close()

	var candidates []*badge.Badge
	for rows.Next() {
		b := &badge.Badge{}
		if err := rows.Scan(
			&b.ID,
			&b.Title,
			&b.Description,
			&b.ImageURL,
			&b.ActivityType,
			&b.RequiredCountOrDuration,
			&b.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan badge candidate: %w", err)
		}
		candidates = append(candidates, b)
	}

	return candidates, nil
}

// TryAwardBadge grants at most one badge for the user's current counter
// value. Calling it twice with an unchanged counter grants nothing the
// second time. The unique constraint on user_badges is the authoritative
// duplicate guard; the existence check before the insert is only a
// fast path.
func (s *GamificationService) TryAwardBadge(ctx context.Context, userID uuid.UUID, activity gamification.ActivityType) (*gamification.BadgeInfo, error) {
	value := s.CountActivity(ctx, userID, activity)
	if !gamification.IsCheckpoint(activity, value) {
		return nil, nil
	}

	candidates, err := s.FindCandidates(ctx, activity, value)
	if err != nil {
		return nil, err
	}

	for _, c := range candidates {
		var exists bool
		err := s.db.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM user_badges WHERE user_id = $1 AND badge_id = $2)`,
			userID, c.ID,
		).Scan(&exists)
		if err != nil {
			return nil, fmt.Errorf("failed to check existing grant: %w", err)
		}
		if exists {
			continue
		}

		// A concurrent request may have granted this badge between the check
		// and the insert; rows affected 0 means we lost that race, which is
		// the normal "already granted" path, not an error.
		result, err := s.db.Exec(ctx,
			`INSERT INTO user_badges (user_id, badge_id, assigned_at) VALUES ($1, $2, NOW())
			 ON CONFLICT (user_id, badge_id) DO NOTHING`,
			userID, c.ID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to insert badge grant: %w", err)
		}
		if result.RowsAffected() == 0 {
			continue
		}

		return &gamification.BadgeInfo{
			Title:       c.Title,
			Description: c.Description,
			ImageURL:    c.ImageURL,
		}, nil
	}

	return nil, nil
}

// AwardExperience applies the XP delta as a single database-side increment
// and returns the new cumulative total. Experience never decreases.
func (s *GamificationService) AwardExperience(ctx context.Context, userID uuid.UUID, xp int) (int, error) {
	var total int
	err := s.db.QueryRow(ctx,
		`UPDATE users SET experience = experience + $2, updated_at = NOW() WHERE id = $1 RETURNING experience`,
		userID, xp,
	).Scan(&total)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrUserNotFound
		}
		return 0, fmt.Errorf("failed to award experience: %w", err)
	}
	return total, nil
}

func (s *GamificationService) currentExperience(ctx context.Context, userID uuid.UUID) int {
	var total int
	if err := s.db.QueryRow(ctx, `SELECT experience FROM users WHERE id = $1`, userID).Scan(&total); err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			log.Printf("Gamification: failed to read experience for %s: %v", userID, err)
		}
		return 0
	}
	return total
}

// pushBadgeAlert sends a best-effort FCM notification about a fresh grant.
func (s *GamificationService) pushBadgeAlert(ctx context.Context, userID uuid.UUID, earned *gamification.BadgeInfo) {
	if earned == nil || s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyBadgeEarned(ctx, userID, earned); err != nil {
		log.Printf("Gamification: badge notification failed for user %s: %v", userID, err)
	}
}
