package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"

	"zenithAPI/internal/gamification"
)

// Evaluator is implemented by services.GamificationService. The middleware
// depends on this interface so tests can drive it with a stub engine.
type Evaluator interface {
	Evaluate(ctx context.Context, clerkID string, activity gamification.ActivityType, meta gamification.RequestMeta) gamification.Result
}

// GamificationMiddleware intercepts the fixed set of trigger routes and
// merges the engine's result into the outgoing JSON body. Everything it
// does is best-effort: any failure leaves the primary response untouched.
func GamificationMiddleware(engine Evaluator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			activity, ok := gamification.MatchTrigger(r.Method, r.URL.Path)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			// Gamification authenticates independently; a missing identity
			// skips the engine but never blocks the primary handler.
			clerkID, authed := GetClerkID(r.Context())

			meta := extractMeta(r)

			capture := &captureWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(capture, r)

			if !authed || capture.status < 200 || capture.status >= 300 {
				recordGamificationOutcome(activity, gamification.OutcomeSkipped)
				capture.flush(capture.body.Bytes())
				return
			}

			result := engine.Evaluate(r.Context(), clerkID, activity, meta)
			recordGamificationOutcome(activity, result.Outcome)
			if result.EarnedBadge != nil {
				recordBadgeAwarded(activity)
			}
			if result.XPDelta > 0 {
				recordXPAwarded(activity, result.XPDelta)
			}

			capture.flush(mergeResult(capture.body.Bytes(), result))
		})
	}
}

// extractMeta pulls the request-body fields the XP rules need, then
// restores the body for the primary handler.
func extractMeta(r *http.Request) gamification.RequestMeta {
	var meta gamification.RequestMeta
	if r.Body == nil {
		return meta
	}

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return meta
	}
	r.Body = io.NopCloser(bytes.NewReader(raw))

	var fields struct {
		Completed         bool `json:"completed"`
		DurationInSeconds int  `json:"durationInSeconds"`
	}
	if err := json.Unmarshal(raw, &fields); err == nil {
		meta.Completed = fields.Completed
		meta.DurationInSeconds = fields.DurationInSeconds
	}

	return meta
}

// mergeResult attaches earnedBadge and experience to the primary JSON
// object. Non-object bodies are returned as-is: a response we cannot merge
// into is a response we must not corrupt.
func mergeResult(body []byte, result gamification.Result) []byte {
	if result.Outcome != gamification.OutcomeApplied {
		return body
	}

	payload := make(map[string]any)
	if len(body) > 0 {
		if err := json.Unmarshal(body, &payload); err != nil {
			log.Printf("Gamification: response body is not a JSON object, leaving untouched")
			return body
		}
	}

	if result.EarnedBadge != nil {
		payload["earnedBadge"] = result.EarnedBadge
	}
	payload["experience"] = result.Experience

	merged, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Gamification: failed to marshal merged response: %v", err)
		return body
	}
	return merged
}

// captureWriter buffers the handler's response so the middleware can merge
// into it before anything reaches the wire.
type captureWriter struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	return cw.body.Write(b)
}

func (cw *captureWriter) flush(body []byte) {
	cw.ResponseWriter.Header().Del("Content-Length")
	cw.ResponseWriter.WriteHeader(cw.status)
	if len(body) > 0 {
		if _, err := cw.ResponseWriter.Write(body); err != nil {
			log.Printf("Gamification: failed to write response: %v", err)
		}
	}
}
