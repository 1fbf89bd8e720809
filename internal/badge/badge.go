package badge

import (
	"time"

	"github.com/google/uuid"

	"zenithAPI/internal/gamification"
)

// Badge is an immutable catalog entry. Rows are written once at seed time
// and never mutated by normal operation.
type Badge struct {
	ID                      uuid.UUID                 `json:"id" db:"id"`
	Title                   string                    `json:"title" db:"title"`
	Description             string                    `json:"description" db:"description"`
	ImageURL                *string                   `json:"imageUrl" db:"image_url"`
	ActivityType            gamification.ActivityType `json:"activityType" db:"activity_type"`
	RequiredCountOrDuration int                       `json:"requiredCountOrDuration" db:"required_count_or_duration"`
	CreatedAt               time.Time                 `json:"createdAt" db:"created_at"`
}

// UserBadge records that a user earned a badge. At most one row exists per
// (user, badge); the unique constraint in the table is the guard.
type UserBadge struct {
	UserID     uuid.UUID `json:"userId" db:"user_id"`
	BadgeID    uuid.UUID `json:"badgeId" db:"badge_id"`
	AssignedAt time.Time `json:"assignedAt" db:"assigned_at"`
}

// BadgeWithStatus is the catalog view for a specific user.
type BadgeWithStatus struct {
	Badge
	Earned     bool       `json:"earned"`
	AssignedAt *time.Time `json:"assignedAt,omitempty"`
}
