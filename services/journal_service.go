package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"zenithAPI/internal/tracker"
)

type JournalService struct {
	db *pgxpool.Pool
}

func NewJournalService(db *pgxpool.Pool) *JournalService {
	return &JournalService{db: db}
}

func (s *JournalService) CreateJournal(ctx context.Context, clerkID string, req *tracker.CreateJournalRequest) (*tracker.Journal, error) {
	var userID uuid.UUID
	err := s.db.QueryRow(ctx, `SELECT id FROM users WHERE clerk_id = $1`, clerkID).Scan(&userID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	query := `
	INSERT INTO journals (id, user_id, title, content, mood, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
	RETURNING id, user_id, title, content, mood, created_at, updated_at
	`

	j := &tracker.Journal{}
	err = s.db.QueryRow(ctx, query, uuid.New(), userID, req.Title, req.Content, req.Mood).Scan(
		&j.ID,
		&j.UserID,
		&j.Title,
		&j.Content,
		&j.Mood,
		&j.CreatedAt,
		&j.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create journal: %w", err)
	}

	return j, nil
}

func (s *JournalService) GetJournals(ctx context.Context, clerkID string) ([]*tracker.Journal, error) {
	var userID uuid.UUID
	err := s.db.QueryRow(ctx, `SELECT id FROM users WHERE clerk_id = $1`, clerkID).Scan(&userID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	query := `
	SELECT id, user_id, title, content, mood, created_at, updated_at
	FROM journals
	WHERE user_id = $1
	ORDER BY created_at DESC
	`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch journals: %w", err)
	}
	defer rows.Close()

	var journals []*tracker.Journal
	for rows.Next() {
		j := &tracker.Journal{}
		if err := rows.Scan(&j.ID, &j.UserID, &j.Title, &j.Content, &j.Mood, &j.CreatedAt, &j.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan journal: %w", err)
		}
		journals = append(journals, j)
	}

	return journals, nil
}

func (s *JournalService) DeleteJournal(ctx context.Context, clerkID string, journalID uuid.UUID) error {
	var userID uuid.UUID
	err := s.db.QueryRow(ctx, `SELECT id FROM users WHERE clerk_id = $1`, clerkID).Scan(&userID)
	if err != nil {
		return fmt.Errorf("user not found: %w", err)
	}

	result, err := s.db.Exec(ctx, `DELETE FROM journals WHERE id = $1 AND user_id = $2`, journalID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete journal: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("journal not found")
	}

	return nil
}
