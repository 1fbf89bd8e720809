package gamification

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchTrigger(t *testing.T) {
	tests := []struct {
		name    string
		method  string
		path    string
		want    ActivityType
		matched bool
	}{
		{"goal update", "PUT", "/api/v1/goals/7b1e9c2a-0000-0000-0000-000000000000", ActivityGoals, true},
		{"todo patch", "PATCH", "/api/v1/todos/7b1e9c2a-0000-0000-0000-000000000000", ActivityTodos, true},
		{"journal create", "POST", "/api/v1/journals", ActivityJournals, true},
		{"meditation session", "POST", "/api/v1/meditations", ActivityMeditations, true},
		{"pomodoro session", "POST", "/api/v1/pomodoro-timers", ActivityPomodoro, true},
		{"auth check", "GET", "/api/v1/auth/auth-check", ActivityLoginStreak, true},
		{"goal create is not a trigger", "POST", "/api/v1/goals", "", false},
		{"goal delete is not a trigger", "DELETE", "/api/v1/goals/7b1e9c2a", "", false},
		{"todo update with wrong verb", "PUT", "/api/v1/todos/7b1e9c2a", "", false},
		{"journal list", "GET", "/api/v1/journals", "", false},
		{"profile read", "GET", "/api/v1/user", "", false},
		{"unprefixed path", "POST", "/journals", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := MatchTrigger(tt.method, tt.path)
			assert.Equal(t, tt.matched, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestXPFor(t *testing.T) {
	tests := []struct {
		name     string
		activity ActivityType
		meta     RequestMeta
		want     int
	}{
		{"journal always earns", ActivityJournals, RequestMeta{}, 10},
		{"completed goal earns", ActivityGoals, RequestMeta{Completed: true}, 10},
		{"incomplete goal earns nothing", ActivityGoals, RequestMeta{Completed: false}, 0},
		{"completed todo earns", ActivityTodos, RequestMeta{Completed: true}, 10},
		{"unchecked todo earns nothing", ActivityTodos, RequestMeta{}, 0},
		{"meditation at threshold earns", ActivityMeditations, RequestMeta{DurationInSeconds: 1800}, 10},
		{"meditation below threshold earns nothing", ActivityMeditations, RequestMeta{DurationInSeconds: 1799}, 0},
		{"long pomodoro earns", ActivityPomodoro, RequestMeta{DurationInSeconds: 5400}, 10},
		{"short pomodoro earns nothing", ActivityPomodoro, RequestMeta{DurationInSeconds: 60}, 0},
		{"login streak handled elsewhere", ActivityLoginStreak, RequestMeta{}, 0},
		{"login count handled elsewhere", ActivityLoginCount, RequestMeta{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, XPFor(tt.activity, tt.meta))
		})
	}
}

func TestIsCheckpoint_ExactMatchOnly(t *testing.T) {
	// Thresholds are point checks. Passing over a threshold without landing
	// on it must not match.
	assert.False(t, IsCheckpoint(ActivityGoals, 24))
	assert.True(t, IsCheckpoint(ActivityGoals, 25))
	assert.False(t, IsCheckpoint(ActivityGoals, 26))

	assert.True(t, IsCheckpoint(ActivityGoals, 10))
	assert.True(t, IsCheckpoint(ActivityGoals, 100))
	assert.False(t, IsCheckpoint(ActivityGoals, 0))
	assert.False(t, IsCheckpoint(ActivityGoals, 101))
}

func TestIsCheckpoint_DurationThresholds(t *testing.T) {
	for _, v := range []int{1800, 3600, 7200, 10800, 14400} {
		assert.True(t, IsCheckpoint(ActivityMeditations, v), "duration %d", v)
		assert.True(t, IsCheckpoint(ActivityPomodoro, v), "duration %d", v)
	}
	assert.False(t, IsCheckpoint(ActivityMeditations, 1799))
	assert.False(t, IsCheckpoint(ActivityMeditations, 1801))
	assert.False(t, IsCheckpoint(ActivityPomodoro, 3599))
}

func TestIsCheckpoint_StreakThresholds(t *testing.T) {
	for _, v := range []int{7, 14, 21, 28, 35} {
		assert.True(t, IsCheckpoint(ActivityLoginStreak, v), "streak %d", v)
	}
	assert.False(t, IsCheckpoint(ActivityLoginStreak, 6))
	assert.False(t, IsCheckpoint(ActivityLoginStreak, 36))

	assert.True(t, IsCheckpoint(ActivityLoginCount, 50))
	assert.False(t, IsCheckpoint(ActivityLoginCount, 7))
}

func TestIsCheckpoint_UnknownActivity(t *testing.T) {
	assert.False(t, IsCheckpoint(ActivityType("unknown"), 10))
}
