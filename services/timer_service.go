package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"zenithAPI/internal/tracker"
)

// TimerService backs both meditation and pomodoro running totals. Each user
// has at most one row per table; logging a session increments that total
// in place rather than inserting session rows.
type TimerService struct {
	db    *pgxpool.Pool
	table string
}

func NewMeditationService(db *pgxpool.Pool) *TimerService {
	return &TimerService{db: db, table: "meditations"}
}

func NewPomodoroService(db *pgxpool.Pool) *TimerService {
	return &TimerService{db: db, table: "pomodoro_timers"}
}

func (s *TimerService) GetTotal(ctx context.Context, clerkID string) (*tracker.TimerTotal, error) {
	var userID uuid.UUID
	err := s.db.QueryRow(ctx, `SELECT id FROM users WHERE clerk_id = $1`, clerkID).Scan(&userID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	query := fmt.Sprintf(`
	SELECT id, user_id, total_duration, created_at, updated_at
	FROM %s
	WHERE user_id = $1
	`, s.table)

	t := &tracker.TimerTotal{}
	err = s.db.QueryRow(ctx, query, userID).Scan(&t.ID, &t.UserID, &t.TotalDuration, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &tracker.TimerTotal{UserID: userID}, nil
		}
		return nil, fmt.Errorf("failed to get total duration: %w", err)
	}

	return t, nil
}

// LogSession adds one session's duration to the running total, creating the
// row on first use. The upsert keeps the increment atomic under concurrent
// sessions.
func (s *TimerService) LogSession(ctx context.Context, clerkID string, req *tracker.LogSessionRequest) (*tracker.TimerTotal, error) {
	if req.DurationInSeconds <= 0 {
		return nil, fmt.Errorf("durationInSeconds must be positive")
	}

	var userID uuid.UUID
	err := s.db.QueryRow(ctx, `SELECT id FROM users WHERE clerk_id = $1`, clerkID).Scan(&userID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	query := fmt.Sprintf(`
	INSERT INTO %s (id, user_id, total_duration, created_at, updated_at)
	VALUES ($1, $2, $3, NOW(), NOW())
	ON CONFLICT (user_id)
	DO UPDATE SET total_duration = %s.total_duration + $3, updated_at = NOW()
	RETURNING id, user_id, total_duration, created_at, updated_at
	`, s.table, s.table)

	t := &tracker.TimerTotal{}
	err = s.db.QueryRow(ctx, query, uuid.New(), userID, req.DurationInSeconds).Scan(
		&t.ID,
		&t.UserID,
		&t.TotalDuration,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to log session: %w", err)
	}

	return t, nil
}
