package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// A cold app launch replays auth-check plus the goal/todo/journal list
	// screens in one burst, so the bucket is sized to cover a full sync
	// while the refill keeps sustained traffic modest.
	refillPerSecond = 8
	burstSize       = 40

	clientTTL = 5 * time.Minute
)

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

var (
	clients   = make(map[string]*client)
	clientsMu sync.Mutex
)

// RateLimitMiddleware throttles per client IP. Probe endpoints are exempt so
// uptime checks and metric scrapes never consume a user's budget.
func RateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isProbePath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		if !limiterFor(clientIP(r)).Allow() {
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func isProbePath(path string) bool {
	return path == "/health" || path == "/metrics" || strings.HasPrefix(path, "/debug/pprof/")
}

// clientIP picks the original client address when the service sits behind a
// proxy; X-Forwarded-For may carry a chain and the first hop is the caller.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	ip, _, _ := net.SplitHostPort(r.RemoteAddr)
	return ip
}

func limiterFor(ip string) *rate.Limiter {
	clientsMu.Lock()
	defer clientsMu.Unlock()

	c, ok := clients[ip]
	if !ok {
		c = &client{limiter: rate.NewLimiter(refillPerSecond, burstSize)}
		clients[ip] = c
	}
	c.lastSeen = time.Now()
	return c.limiter
}

// CleanupVisitors drops limiters for clients idle past the TTL. Run once
// from main as a goroutine.
func CleanupVisitors() {
	for {
		time.Sleep(time.Minute)
		clientsMu.Lock()
		for ip, c := range clients {
			if time.Since(c.lastSeen) > clientTTL {
				delete(clients, ip)
			}
		}
		clientsMu.Unlock()
	}
}
