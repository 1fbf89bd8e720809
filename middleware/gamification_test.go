package middleware

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zenithAPI/internal/gamification"
)

// stubEvaluator records the call it received and returns a canned result.
type stubEvaluator struct {
	called   bool
	clerkID  string
	activity gamification.ActivityType
	meta     gamification.RequestMeta
	result   gamification.Result
}

func (s *stubEvaluator) Evaluate(ctx context.Context, clerkID string, activity gamification.ActivityType, meta gamification.RequestMeta) gamification.Result {
	s.called = true
	s.clerkID = clerkID
	s.activity = activity
	s.meta = meta
	return s.result
}

func jsonHandler(status int, body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Drain the body the way a real handler decoding JSON would.
		io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	})
}

func authedRequest(method, path, body string) *http.Request {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, path, nil)
	} else {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	ctx := context.WithValue(r.Context(), ClerkIDKey, "user_test123")
	return r.WithContext(ctx)
}

func TestGamificationMiddleware_PassThroughOnNonTrigger(t *testing.T) {
	engine := &stubEvaluator{}
	handler := GamificationMiddleware(engine)(jsonHandler(http.StatusOK, `{"items":[]}`))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, authedRequest(http.MethodGet, "/api/v1/goals", ""))

	assert.False(t, engine.called)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"items":[]}`, rr.Body.String())
}

func TestGamificationMiddleware_MergesBadgeAndExperience(t *testing.T) {
	imageURL := "https://example.com/badge.png"
	engine := &stubEvaluator{result: gamification.Result{
		Outcome: gamification.OutcomeApplied,
		EarnedBadge: &gamification.BadgeInfo{
			Title:       "Journaling Genius",
			Description: "Write 10 journal entries",
			ImageURL:    &imageURL,
		},
		Experience: 120,
	}}
	handler := GamificationMiddleware(engine)(jsonHandler(http.StatusCreated, `{"id":"abc","title":"Day one"}`))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, authedRequest(http.MethodPost, "/api/v1/journals", `{"title":"Day one","content":"..."}`))

	require.True(t, engine.called)
	assert.Equal(t, "user_test123", engine.clerkID)
	assert.Equal(t, gamification.ActivityJournals, engine.activity)
	assert.Equal(t, http.StatusCreated, rr.Code)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &payload))
	assert.Equal(t, "abc", payload["id"])
	assert.Equal(t, "Day one", payload["title"])
	assert.Equal(t, float64(120), payload["experience"])

	badge, ok := payload["earnedBadge"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Journaling Genius", badge["title"])
}

func TestGamificationMiddleware_MergesExperienceWithoutBadge(t *testing.T) {
	engine := &stubEvaluator{result: gamification.Result{
		Outcome:    gamification.OutcomeApplied,
		Experience: 40,
	}}
	handler := GamificationMiddleware(engine)(jsonHandler(http.StatusOK, `{"id":"abc"}`))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, authedRequest(http.MethodPut, "/api/v1/goals/abc", `{"completed":true}`))

	var payload map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &payload))
	assert.Equal(t, float64(40), payload["experience"])
	_, hasBadge := payload["earnedBadge"]
	assert.False(t, hasBadge, "no badge key when nothing was granted")
}

func TestGamificationMiddleware_ExtractsMetaAndRestoresBody(t *testing.T) {
	engine := &stubEvaluator{result: gamification.Result{Outcome: gamification.OutcomeApplied}}

	var handlerSawBody string
	handler := GamificationMiddleware(engine)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		handlerSawBody = string(raw)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{}`))
	}))

	body := `{"completed":true,"durationInSeconds":3600}`
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, authedRequest(http.MethodPost, "/api/v1/meditations", body))

	assert.Equal(t, body, handlerSawBody, "primary handler must see the full body")
	assert.True(t, engine.meta.Completed)
	assert.Equal(t, 3600, engine.meta.DurationInSeconds)
}

func TestGamificationMiddleware_SkipsWhenUnauthenticated(t *testing.T) {
	engine := &stubEvaluator{}
	handler := GamificationMiddleware(engine)(jsonHandler(http.StatusOK, `{"id":"abc"}`))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/journals", strings.NewReader(`{}`)))

	assert.False(t, engine.called)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"id":"abc"}`, rr.Body.String())
}

func TestGamificationMiddleware_SkipsOnHandlerError(t *testing.T) {
	engine := &stubEvaluator{}
	handler := GamificationMiddleware(engine)(jsonHandler(http.StatusBadRequest, `{"error":"title is required"}`))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, authedRequest(http.MethodPost, "/api/v1/journals", `{}`))

	assert.False(t, engine.called, "failed requests are never evaluated")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"error":"title is required"}`, rr.Body.String())
}

func TestGamificationMiddleware_LeavesBodyAloneOnSkipAndFailure(t *testing.T) {
	for _, outcome := range []gamification.Outcome{gamification.OutcomeSkipped, gamification.OutcomeFailed} {
		engine := &stubEvaluator{result: gamification.Result{Outcome: outcome}}
		handler := GamificationMiddleware(engine)(jsonHandler(http.StatusOK, `{"id":"abc"}`))

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, authedRequest(http.MethodPost, "/api/v1/journals", `{}`))

		assert.True(t, engine.called)
		assert.JSONEq(t, `{"id":"abc"}`, rr.Body.String(), "outcome %s", outcome)
	}
}

func TestGamificationMiddleware_NonObjectBodyUntouched(t *testing.T) {
	engine := &stubEvaluator{result: gamification.Result{
		Outcome:    gamification.OutcomeApplied,
		Experience: 50,
	}}
	handler := GamificationMiddleware(engine)(jsonHandler(http.StatusOK, `[{"id":"abc"}]`))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, authedRequest(http.MethodPost, "/api/v1/journals", `{}`))

	assert.JSONEq(t, `[{"id":"abc"}]`, rr.Body.String(), "arrays cannot carry merged fields")
}

func TestMergeResult_EmptyBody(t *testing.T) {
	merged := mergeResult(nil, gamification.Result{
		Outcome:    gamification.OutcomeApplied,
		Experience: 10,
	})

	var payload map[string]any
	require.NoError(t, json.Unmarshal(merged, &payload))
	assert.Equal(t, float64(10), payload["experience"])
}
