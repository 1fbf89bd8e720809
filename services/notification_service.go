package services

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"zenithAPI/internal/gamification"
	"zenithAPI/internal/notification"
)

// PushProvider abstracts the FCM client so the service can run (and be
// tested) without Firebase credentials.
type PushProvider interface {
	SendPush(ctx context.Context, tokens []notification.DeviceToken, title, body string, data map[string]string) error
}

type NotificationService struct {
	db       *pgxpool.Pool
	provider PushProvider
}

func NewNotificationService(db *pgxpool.Pool) *NotificationService {
	return &NotificationService{db: db}
}

// SetPushProvider injects the FCM client once it is initialized.
func (s *NotificationService) SetPushProvider(p PushProvider) {
	s.provider = p
}

func (s *NotificationService) RegisterDevice(ctx context.Context, userID uuid.UUID, req *notification.RegisterDeviceRequest) error {
	query := `
	INSERT INTO device_tokens (id, user_id, token, platform, registered_at)
	VALUES ($1, $2, $3, $4, NOW())
	ON CONFLICT (user_id, token) DO UPDATE SET platform = $4, registered_at = NOW()
	`

	_, err := s.db.Exec(ctx, query, uuid.New(), userID, req.Token, req.Platform)
	if err != nil {
		return fmt.Errorf("failed to register device: %w", err)
	}
	return nil
}

func (s *NotificationService) GetDeviceTokens(ctx context.Context, userID uuid.UUID) ([]notification.DeviceToken, error) {
	query := `
	SELECT id, user_id, token, platform, registered_at
	FROM device_tokens
	WHERE user_id = $1
	`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch device tokens: %w", err)
	}
	defer rows.Close()

	var tokens []notification.DeviceToken
	for rows.Next() {
		var t notification.DeviceToken
		if err := rows.Scan(&t.ID, &t.UserID, &t.Token, &t.Platform, &t.RegisteredAt); err != nil {
			return nil, fmt.Errorf("failed to scan device token: %w", err)
		}
		tokens = append(tokens, t)
	}

	return tokens, nil
}

// NotifyBadgeEarned pushes a congratulation for a fresh badge grant. Without
// a provider or registered devices it is a no-op.
func (s *NotificationService) NotifyBadgeEarned(ctx context.Context, userID uuid.UUID, earned *gamification.BadgeInfo) error {
	if s.provider == nil {
		return nil
	}

	tokens, err := s.GetDeviceTokens(ctx, userID)
	if err != nil {
		return err
	}
	if len(tokens) == 0 {
		return nil
	}

	log.Printf("Notification: pushing badge %q to %d device(s) of user %s", earned.Title, len(tokens), userID)

	return s.provider.SendPush(ctx, tokens,
		"Badge earned!",
		fmt.Sprintf("You just earned %s", earned.Title),
		map[string]string{"type": "badge_earned", "badge_title": earned.Title},
	)
}
