package services

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"zenithAPI/internal/user"
)

// setupTestDB connects to the database named by TEST_DATABASE_URL (falling
// back to DATABASE_URL) and skips the test when neither is set, so the suite
// stays runnable without infrastructure.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	_ = godotenv.Load("../.env")

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping database test")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("Failed to ping test database: %v", err)
	}

	t.Cleanup(func() {
		cleanupTestData(t, pool)
		pool.Close()
	})

	return pool
}

func cleanupTestData(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	_, err := pool.Exec(context.Background(), "DELETE FROM users WHERE email LIKE 'test%@example.com'")
	if err != nil {
		t.Logf("Warning: failed to cleanup test data: %v", err)
	}
}

// createTestUser provisions one user row with a unique Clerk ID.
func createTestUser(t *testing.T, pool *pgxpool.Pool) *user.User {
	t.Helper()

	svc := NewUserService(pool)
	clerkID := "user_test_" + uuid.New().String()

	u, err := svc.CreateUser(context.Background(), &user.CreateUserRequest{
		ClerkID:   clerkID,
		Email:     "test" + time.Now().Format("150405.000000") + "@example.com",
		Username:  "testuser",
		FirstName: "Test",
		LastName:  "User",
		ImageURL:  "https://example.com/image.jpg",
	})
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return u
}
