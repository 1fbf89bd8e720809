package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"zenithAPI/internal/badge"
	"zenithAPI/internal/gamification"
)

var ErrBadgeNotFound = errors.New("badge not found")

type BadgeService struct {
	db *pgxpool.Pool
}

func NewBadgeService(db *pgxpool.Pool) *BadgeService {
	return &BadgeService{db: db}
}

// EnsureCatalog seeds the badge catalog. Badge IDs are fixed so the insert
// is idempotent across restarts; existing rows are never touched because the
// catalog is immutable after creation.
func (s *BadgeService) EnsureCatalog(ctx context.Context) error {
	query := `
	INSERT INTO badges (id, title, description, image_url, activity_type, required_count_or_duration, created_at)
	VALUES ($1, $2, $3, NULL, $4, $5, NOW())
	ON CONFLICT (id) DO NOTHING
	`

	for _, b := range catalogSeed {
		if _, err := s.db.Exec(ctx, query, b.ID, b.Title, b.Description, b.ActivityType, b.RequiredCountOrDuration); err != nil {
			return fmt.Errorf("failed to seed badge %q: %w", b.Title, err)
		}
	}

	return nil
}

// GetBadgesWithStatus returns the full catalog annotated with whether the
// given user has earned each badge.
func (s *BadgeService) GetBadgesWithStatus(ctx context.Context, clerkID string) ([]*badge.BadgeWithStatus, error) {
	query := `
	SELECT b.id, b.title, b.description, b.image_url, b.activity_type, b.required_count_or_duration, b.created_at,
		ub.assigned_at IS NOT NULL AS earned,
		ub.assigned_at
	FROM badges b
	LEFT JOIN user_badges ub
		ON b.id = ub.badge_id
		AND ub.user_id = (SELECT id FROM users WHERE clerk_id = $1)
	ORDER BY b.activity_type, b.required_count_or_duration
	`

	rows, err := s.db.Query(ctx, query, clerkID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch badges: %w", err)
	}
	defer rows.Close()

	var badges []*badge.BadgeWithStatus
	for rows.Next() {
		b := &badge.BadgeWithStatus{}
		if err := rows.Scan(
			&b.ID,
			&b.Title,
			&b.Description,
			&b.ImageURL,
			&b.ActivityType,
			&b.RequiredCountOrDuration,
			&b.CreatedAt,
			&b.Earned,
			&b.AssignedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan badge: %w", err)
		}
		badges = append(badges, b)
	}

	return badges, nil
}

// GetUserBadges returns only the badges the user has earned, newest first.
func (s *BadgeService) GetUserBadges(ctx context.Context, clerkID string) ([]*badge.BadgeWithStatus, error) {
	query := `
	SELECT b.id, b.title, b.description, b.image_url, b.activity_type, b.required_count_or_duration, b.created_at,
		ub.assigned_at
	FROM badges b
	JOIN user_badges ub ON b.id = ub.badge_id
	JOIN users u ON u.id = ub.user_id
	WHERE u.clerk_id = $1
	ORDER BY ub.assigned_at DESC
	`

	rows, err := s.db.Query(ctx, query, clerkID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user badges: %w", err)
	}
	defer rows.Close()

	var badges []*badge.BadgeWithStatus
	for rows.Next() {
		b := &badge.BadgeWithStatus{Earned: true}
		if err := rows.Scan(
			&b.ID,
			&b.Title,
			&b.Description,
			&b.ImageURL,
			&b.ActivityType,
			&b.RequiredCountOrDuration,
			&b.CreatedAt,
			&b.AssignedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan user badge: %w", err)
		}
		badges = append(badges, b)
	}

	return badges, nil
}

func (s *BadgeService) GetBadgeByID(ctx context.Context, id uuid.UUID) (*badge.Badge, error) {
	query := `
	SELECT id, title, description, image_url, activity_type, required_count_or_duration, created_at
	FROM badges
	WHERE id = $1
	`

	b := &badge.Badge{}
	err := s.db.QueryRow(ctx, query, id).Scan(
		&b.ID,
		&b.Title,
		&b.Description,
		&b.ImageURL,
		&b.ActivityType,
		&b.RequiredCountOrDuration,
		&b.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBadgeNotFound
		}
		return nil, fmt.Errorf("failed to get badge: %w", err)
	}

	return b, nil
}

type seedBadge struct {
	ID                      uuid.UUID
	Title                   string
	Description             string
	ActivityType            gamification.ActivityType
	RequiredCountOrDuration int
}

func seedEntry(id, title, description string, activity gamification.ActivityType, required int) seedBadge {
	return seedBadge{
		ID:                      uuid.MustParse(id),
		Title:                   title,
		Description:             description,
		ActivityType:            activity,
		RequiredCountOrDuration: required,
	}
}

// catalogSeed is the fixed badge catalog: five checkpoints for each of the
// seven activity types.
var catalogSeed = []seedBadge{
	seedEntry("cf6a30c1-0337-41f3-8b25-bc10a31f9877", "Meditation Maverick", "You've dedicated 30 minutes to meditation, opening the door to inner peace and clarity.", gamification.ActivityMeditations, 1800),
	seedEntry("9b4e0c60-d02c-4454-adaa-07d2f8dcaede", "Meditation Mastermind", "With 60 minutes of meditation, you're unlocking the secrets of a calm and balanced mind.", gamification.ActivityMeditations, 3600),
	seedEntry("5aefb4c9-6660-4582-8b49-4f59629b5019", "Meditation Mentor", "By meditating for 120 minutes, you've become a guiding light for others seeking tranquility.", gamification.ActivityMeditations, 7200),
	seedEntry("dc0df82e-8e49-4c85-a51e-64df0ab60a4e", "Meditation Maestro", "Your 180 minutes of meditation have honed your ability to focus and remain present.", gamification.ActivityMeditations, 10800),
	seedEntry("3aba7bdc-f125-4233-b676-70ebb9e017ff", "Meditation Mogul", "With 240 minutes spent in meditation, you've reached an extraordinary level of mental clarity.", gamification.ActivityMeditations, 14400),

	seedEntry("48429bfb-9e13-4337-8fbf-4cb46e66bc73", "Pomodoro Prodigy", "You've completed 30 minutes of focused work using the Pomodoro technique.", gamification.ActivityPomodoro, 1800),
	seedEntry("f61ca0a6-e4c6-4d97-9fbb-84ebf808fc2c", "Pomodoro Pro", "With 60 minutes of Pomodoro-powered work, your productivity is soaring.", gamification.ActivityPomodoro, 3600),
	seedEntry("1f3a0435-0245-4583-a300-a00555ea14ff", "Pomodoro Pioneer", "By dedicating 120 minutes to the Pomodoro technique, you've proven that focus pays off.", gamification.ActivityPomodoro, 7200),
	seedEntry("7cb4b171-5f81-4d57-a633-07fa6e17b086", "Pomodoro Paragon", "180 minutes of deep work. Your discipline is becoming a habit.", gamification.ActivityPomodoro, 10800),
	seedEntry("0c9f1dd6-3b4f-4f0e-8a6f-9d8f1b2ee3aa", "Pomodoro Phenom", "240 minutes of focused sessions. Distraction doesn't stand a chance.", gamification.ActivityPomodoro, 14400),

	seedEntry("a2c55c7e-9df1-4f53-9a3a-77f0f34c2d10", "Streak Starter", "Seven days in a row. A week of showing up for yourself.", gamification.ActivityLoginStreak, 7),
	seedEntry("be37f551-60f9-41b4-8e77-3a2f95a1c4b2", "Fortnight Fanatic", "Fourteen consecutive days. Consistency is becoming who you are.", gamification.ActivityLoginStreak, 14),
	seedEntry("c5d3dd51-2f3e-4e79-9b41-5b4f7f4f7f31", "Three-week Thriver", "Twenty-one days straight. They say that's how habits are made.", gamification.ActivityLoginStreak, 21),
	seedEntry("d7e8f0a2-14b6-4c58-8f02-6c5d8e9a0b13", "Month-long Master", "Twenty-eight consecutive days of check-ins. A full cycle of dedication.", gamification.ActivityLoginStreak, 28),
	seedEntry("e9f0a1b3-26c7-4d69-9013-7d6e9f0b1c24", "Streak Superstar", "Thirty-five days without missing one. Remarkable.", gamification.ActivityLoginStreak, 35),

	seedEntry("f1a2b3c4-38d8-4e70-a124-8e7f0a1c2d35", "Login Novice", "Ten check-ins logged. The journey has begun.", gamification.ActivityLoginCount, 10),
	seedEntry("a3b4c5d6-4ae9-4f81-b235-9f80b1d2e346", "Login Enthusiast", "Twenty-five check-ins. You keep coming back, and it shows.", gamification.ActivityLoginCount, 25),
	seedEntry("b5c6d7e8-5cf0-4092-c346-a091c2e3f457", "Login Expert", "Fifty check-ins. Commitment looks good on you.", gamification.ActivityLoginCount, 50),
	seedEntry("c7d8e9f0-6e01-41a3-d457-b1a2d3f40568", "Login Master", "Seventy-five check-ins and counting.", gamification.ActivityLoginCount, 75),
	seedEntry("d9e0f1a2-7f12-42b4-e568-c2b3e4056879", "Login Legend", "One hundred check-ins. You're part of the furniture now.", gamification.ActivityLoginCount, 100),

	seedEntry("e1f2a3b4-8023-43c5-f679-d3c4f516798a", "Goal Getter", "Ten goals completed. Dreams with deadlines, done.", gamification.ActivityGoals, 10),
	seedEntry("f3a4b5c6-9134-44d6-a78a-e4d50627809b", "Goal Guru", "Twenty-five goals completed. You set them, you smash them.", gamification.ActivityGoals, 25),
	seedEntry("a5b6c7d8-a245-45e7-b89b-f5e6173891ac", "Goal Gladiator", "Fifty goals completed. Nothing left standing in the arena.", gamification.ActivityGoals, 50),
	seedEntry("b7c8d9e0-b356-46f8-c9ac-06f72849a2bd", "Goal Grandmaster", "Seventy-five goals completed. A strategist at work.", gamification.ActivityGoals, 75),
	seedEntry("c9d0e1f2-c467-4709-dabd-170839512cce", "Goal God", "One hundred goals completed. Olympus called.", gamification.ActivityGoals, 100),

	seedEntry("d1e2f3a4-d578-481a-ebce-28194a623ddf", "Todo Tackler", "Ten todos ticked off. The list fears you.", gamification.ActivityTodos, 10),
	seedEntry("e3f4a5b6-e689-492b-fcdf-392a5b734ee0", "Todo Titan", "Twenty-five todos done. Unstoppable momentum.", gamification.ActivityTodos, 25),
	seedEntry("f5a6b7c8-f79a-4a3c-0de0-4a3b6c845ff1", "Todo Terminator", "Fifty todos completed. Hasta la vista, backlog.", gamification.ActivityTodos, 50),
	seedEntry("a7b8c9d0-08ab-4b4d-1ef1-5b4c7d956002", "Todo Trailblazer", "Seventy-five todos done. You set the pace.", gamification.ActivityTodos, 75),
	seedEntry("b9c0d1e2-19bc-4c5e-2f02-6c5d8ea67113", "Todo Tornado", "One hundred todos completed. A force of nature.", gamification.ActivityTodos, 100),

	seedEntry("c1d2e3f4-2acd-4d6f-3013-7d6e9fb78224", "Journaling Journeyman", "Ten journal entries written. The story is taking shape.", gamification.ActivityJournals, 10),
	seedEntry("d3e4f5a6-3bde-4e70-4124-8e7f0ac89335", "Journaling Jedi", "Twenty-five entries. Strong with reflection, you are.", gamification.ActivityJournals, 25),
	seedEntry("e5f6a7b8-4cef-4f81-5235-9f80b1d9a446", "Journaling Genius", "Fifty entries. Your inner life, well documented.", gamification.ActivityJournals, 50),
	seedEntry("f7a8b9c0-5d00-4092-6346-a091c2eab557", "Journaling Juggernaut", "Seventy-five entries. Nothing slows your pen.", gamification.ActivityJournals, 75),
	seedEntry("a9b0c1d2-6e11-41a3-7457-b1a2d3fbc668", "Journaling Jumbo", "One hundred journal entries. A library of you.", gamification.ActivityJournals, 100),
}
