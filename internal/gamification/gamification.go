package gamification

import "strings"

// ActivityType is the closed set of categories that badges and counters are
// scoped to. Adding a trigger route without wiring its type here is a bug,
// so routes map to types through the Triggers table below and nowhere else.
type ActivityType string

const (
	ActivityGoals       ActivityType = "goals"
	ActivityTodos       ActivityType = "todos"
	ActivityJournals    ActivityType = "journals"
	ActivityMeditations ActivityType = "meditations"
	ActivityPomodoro    ActivityType = "pomodoro-timers"
	ActivityLoginStreak ActivityType = "login-streak"
	ActivityLoginCount  ActivityType = "login-count"
)

// Trigger is one (method, path prefix) pair that the orchestrator reacts to.
type Trigger struct {
	Method     string
	PathPrefix string
	Type       ActivityType
}

// Triggers is the fixed table of write routes that feed the gamification
// engine. auth-check maps to login-streak; the awarder falls through to
// login-count when no streak badge matches.
var Triggers = []Trigger{
	{Method: "PUT", PathPrefix: "/api/v1/goals/", Type: ActivityGoals},
	{Method: "PATCH", PathPrefix: "/api/v1/todos/", Type: ActivityTodos},
	{Method: "POST", PathPrefix: "/api/v1/journals", Type: ActivityJournals},
	{Method: "POST", PathPrefix: "/api/v1/meditations", Type: ActivityMeditations},
	{Method: "POST", PathPrefix: "/api/v1/pomodoro-timers", Type: ActivityPomodoro},
	{Method: "GET", PathPrefix: "/api/v1/auth/auth-check", Type: ActivityLoginStreak},
}

// MatchTrigger returns the activity type for a request, or false when the
// request is not a gamification trigger and must pass through untouched.
func MatchTrigger(method, path string) (ActivityType, bool) {
	for _, t := range Triggers {
		if method == t.Method && strings.HasPrefix(path, t.PathPrefix) {
			return t.Type, true
		}
	}
	return "", false
}

// RequestMeta carries the few request-body fields the XP rules look at.
// The middleware extracts them up front so the engine never touches the
// raw request.
type RequestMeta struct {
	Completed         bool
	DurationInSeconds int
}

const (
	// XPPerAction is the flat reward for every qualifying trigger.
	XPPerAction = 10
	// MinSessionSeconds is the shortest timer session that earns XP.
	MinSessionSeconds = 1800
)

// XPFor returns the experience delta for one trigger request. Only one rule
// ever fires per request; the daily check-in bonus is handled separately by
// the streak tracker because it is capped per calendar day.
func XPFor(activity ActivityType, meta RequestMeta) int {
	switch activity {
	case ActivityJournals:
		return XPPerAction
	case ActivityGoals, ActivityTodos:
		if meta.Completed {
			return XPPerAction
		}
	case ActivityMeditations, ActivityPomodoro:
		if meta.DurationInSeconds >= MinSessionSeconds {
			return XPPerAction
		}
	}
	return 0
}

var checkpoints = map[ActivityType][]int{
	ActivityGoals:       {10, 25, 50, 75, 100},
	ActivityTodos:       {10, 25, 50, 75, 100},
	ActivityJournals:    {10, 25, 50, 75, 100},
	ActivityMeditations: {1800, 3600, 7200, 10800, 14400},
	ActivityPomodoro:    {1800, 3600, 7200, 10800, 14400},
	ActivityLoginStreak: {7, 14, 21, 28, 35},
	ActivityLoginCount:  {10, 25, 50, 75, 100},
}

// IsCheckpoint reports whether value sits exactly on a badge threshold for
// the given activity. Thresholds are point checks, not bands: 24 and 26
// never match the 25 badge.
func IsCheckpoint(activity ActivityType, value int) bool {
	for _, c := range checkpoints[activity] {
		if value == c {
			return true
		}
	}
	return false
}

// Outcome tells the caller what the engine actually did for a request, so
// fault isolation is observable instead of swallowed.
type Outcome string

const (
	// OutcomeApplied means counters were read and any due badge/XP was applied.
	OutcomeApplied Outcome = "applied"
	// OutcomeSkipped means the request was not evaluated (no trigger match or
	// no authenticated user). Not an error.
	OutcomeSkipped Outcome = "skipped"
	// OutcomeFailed means evaluation started but a storage call failed. The
	// primary request is unaffected.
	OutcomeFailed Outcome = "failed"
)

// Result is the value the orchestrator hands back to the response layer.
// EarnedBadge is nil when nothing was granted this request; the response
// must never fabricate one.
type Result struct {
	Outcome     Outcome    `json:"-"`
	EarnedBadge *BadgeInfo `json:"earnedBadge,omitempty"`
	Experience  int        `json:"experience"`
	// XPDelta is the amount granted by this request, for metrics only.
	XPDelta int `json:"-"`
}

// BadgeInfo is the display projection of a granted badge.
type BadgeInfo struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	ImageURL    *string `json:"imageUrl"`
}
