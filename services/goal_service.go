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

type GoalService struct {
	db *pgxpool.Pool
}

func NewGoalService(db *pgxpool.Pool) *GoalService {
	return &GoalService{db: db}
}

func (s *GoalService) CreateGoal(ctx context.Context, clerkID string, req *tracker.CreateGoalRequest) (*tracker.Goal, error) {
	var userID uuid.UUID
	err := s.db.QueryRow(ctx, `SELECT id FROM users WHERE clerk_id = $1`, clerkID).Scan(&userID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	query := `
	INSERT INTO goals (id, user_id, title, content, completed, deadline, created_at, updated_at)
	VALUES ($1, $2, $3, $4, FALSE, $5, NOW(), NOW())
	RETURNING id, user_id, title, content, completed, deadline, created_at, updated_at
	`

	g := &tracker.Goal{}
	err = s.db.QueryRow(ctx, query, uuid.New(), userID, req.Title, req.Content, req.Deadline).Scan(
		&g.ID,
		&g.UserID,
		&g.Title,
		&g.Content,
		&g.Completed,
		&g.Deadline,
		&g.CreatedAt,
		&g.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	return g, nil
}

func (s *GoalService) GetGoals(ctx context.Context, clerkID string) ([]*tracker.Goal, error) {
	var userID uuid.UUID
	err := s.db.QueryRow(ctx, `SELECT id FROM users WHERE clerk_id = $1`, clerkID).Scan(&userID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	query := `
	SELECT id, user_id, title, content, completed, deadline, created_at, updated_at
	FROM goals
	WHERE user_id = $1
	ORDER BY created_at DESC
	`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch goals: %w", err)
	}
	defer rows.Close()

	var goals []*tracker.Goal
	for rows.Next() {
		g := &tracker.Goal{}
		if err := rows.Scan(&g.ID, &g.UserID, &g.Title, &g.Content, &g.Completed, &g.Deadline, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		goals = append(goals, g)
	}

	return goals, nil
}

// UpdateGoal replaces the goal's fields, including the completion flag the
// gamification counter keys on. Ownership is enforced in the WHERE clause.
func (s *GoalService) UpdateGoal(ctx context.Context, clerkID string, goalID uuid.UUID, req *tracker.UpdateGoalRequest) (*tracker.Goal, error) {
	var userID uuid.UUID
	err := s.db.QueryRow(ctx, `SELECT id FROM users WHERE clerk_id = $1`, clerkID).Scan(&userID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	query := `
	UPDATE goals
	SET title = $3, content = $4, completed = $5, deadline = $6, updated_at = NOW()
	WHERE id = $1 AND user_id = $2
	RETURNING id, user_id, title, content, completed, deadline, created_at, updated_at
	`

	g := &tracker.Goal{}
	err = s.db.QueryRow(ctx, query, goalID, userID, req.Title, req.Content, req.Completed, req.Deadline).Scan(
		&g.ID,
		&g.UserID,
		&g.Title,
		&g.Content,
		&g.Completed,
		&g.Deadline,
		&g.CreatedAt,
		&g.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("goal not found")
		}
		return nil, fmt.Errorf("failed to update goal: %w", err)
	}

	return g, nil
}

func (s *GoalService) DeleteGoal(ctx context.Context, clerkID string, goalID uuid.UUID) error {
	var userID uuid.UUID
	err := s.db.QueryRow(ctx, `SELECT id FROM users WHERE clerk_id = $1`, clerkID).Scan(&userID)
	if err != nil {
		return fmt.Errorf("user not found: %w", err)
	}

	result, err := s.db.Exec(ctx, `DELETE FROM goals WHERE id = $1 AND user_id = $2`, goalID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("goal not found")
	}

	return nil
}
