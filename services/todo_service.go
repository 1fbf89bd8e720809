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

type TodoService struct {
	db *pgxpool.Pool
}

func NewTodoService(db *pgxpool.Pool) *TodoService {
	return &TodoService{db: db}
}

func (s *TodoService) CreateTodo(ctx context.Context, clerkID string, req *tracker.CreateTodoRequest) (*tracker.Todo, error) {
	var userID uuid.UUID
	err := s.db.QueryRow(ctx, `SELECT id FROM users WHERE clerk_id = $1`, clerkID).Scan(&userID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	query := `
	INSERT INTO todos (id, user_id, title, completed, planned_date, created_at, updated_at)
	VALUES ($1, $2, $3, FALSE, $4, NOW(), NOW())
	RETURNING id, user_id, title, completed, planned_date, created_at, updated_at
	`

	t := &tracker.Todo{}
	err = s.db.QueryRow(ctx, query, uuid.New(), userID, req.Title, req.PlannedDate).Scan(
		&t.ID,
		&t.UserID,
		&t.Title,
		&t.Completed,
		&t.PlannedDate,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create todo: %w", err)
	}

	return t, nil
}

func (s *TodoService) GetTodos(ctx context.Context, clerkID string) ([]*tracker.Todo, error) {
	var userID uuid.UUID
	err := s.db.QueryRow(ctx, `SELECT id FROM users WHERE clerk_id = $1`, clerkID).Scan(&userID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	query := `
	SELECT id, user_id, title, completed, planned_date, created_at, updated_at
	FROM todos
	WHERE user_id = $1
	ORDER BY created_at DESC
	`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch todos: %w", err)
	}
	defer rows.Close()

	var todos []*tracker.Todo
	for rows.Next() {
		t := &tracker.Todo{}
		if err := rows.Scan(&t.ID, &t.UserID, &t.Title, &t.Completed, &t.PlannedDate, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan todo: %w", err)
		}
		todos = append(todos, t)
	}

	return todos, nil
}

// PatchTodo applies a partial update; nil fields are left untouched.
func (s *TodoService) PatchTodo(ctx context.Context, clerkID string, todoID uuid.UUID, req *tracker.UpdateTodoRequest) (*tracker.Todo, error) {
	var userID uuid.UUID
	err := s.db.QueryRow(ctx, `SELECT id FROM users WHERE clerk_id = $1`, clerkID).Scan(&userID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	query := `
	UPDATE todos
	SET title = COALESCE($3, title), completed = COALESCE($4, completed), updated_at = NOW()
	WHERE id = $1 AND user_id = $2
	RETURNING id, user_id, title, completed, planned_date, created_at, updated_at
	`

	t := &tracker.Todo{}
	err = s.db.QueryRow(ctx, query, todoID, userID, req.Title, req.Completed).Scan(
		&t.ID,
		&t.UserID,
		&t.Title,
		&t.Completed,
		&t.PlannedDate,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("todo not found")
		}
		return nil, fmt.Errorf("failed to update todo: %w", err)
	}

	return t, nil
}

func (s *TodoService) DeleteTodo(ctx context.Context, clerkID string, todoID uuid.UUID) error {
	var userID uuid.UUID
	err := s.db.QueryRow(ctx, `SELECT id FROM users WHERE clerk_id = $1`, clerkID).Scan(&userID)
	if err != nil {
		return fmt.Errorf("user not found: %w", err)
	}

	result, err := s.db.Exec(ctx, `DELETE FROM todos WHERE id = $1 AND user_id = $2`, todoID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("todo not found")
	}

	return nil
}
