// ABOUTME: Rate limiting middleware with fixed-window counters
// ABOUTME: Limits requests per client IP, with a tighter budget for uploads

package middleware

import (
	"encoding/json"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// counter tracks requests within a fixed time window.
type counter struct {
	count     int
	expiresAt time.Time
}

// RateLimiter enforces a maximum number of requests per time window.
// Each key gets an independent counter.
type RateLimiter struct {
	mu         sync.Mutex
	windows    map[string]*counter
	limit      int
	window     time.Duration
	newWindows int
	sweepEvery int
}

// NewRateLimiter creates a rate limiter that allows limit requests per window.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		windows:    make(map[string]*counter),
		limit:      limit,
		window:     window,
		sweepEvery: 100,
	}
}

// Allow reports whether a request for key fits in its window. When it does
// not, it also returns the time left until the window resets.
func (rl *RateLimiter) Allow(key string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	c, exists := rl.windows[key]

	// The boundary instant opens a new window
	if !exists || !now.Before(c.expiresAt) {
		rl.windows[key] = &counter{count: 1, expiresAt: now.Add(rl.window)}

		rl.newWindows++
		if rl.newWindows >= rl.sweepEvery {
			rl.sweep(now)
			rl.newWindows = 0
		}
		return true, 0
	}

	if c.count < rl.limit {
		c.count++
		return true, 0
	}
	return false, c.expiresAt.Sub(now)
}

// Len returns the number of tracked keys.
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.windows)
}

// sweep removes expired windows. Caller holds rl.mu.
func (rl *RateLimiter) sweep(now time.Time) {
	for k, c := range rl.windows {
		if !now.Before(c.expiresAt) {
			delete(rl.windows, k)
		}
	}
}

// ClientIP keys a request by the leftmost valid X-Forwarded-For address, or
// by RemoteAddr without its port. X-Forwarded-For is only trustworthy
// behind a proxy that sets it.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		ip := strings.TrimSpace(first)
		if ip != "" && net.ParseIP(ip) != nil {
			return "ip:" + ip
		}
	}

	host := r.RemoteAddr
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return "ip:" + host
}

// RateLimit returns middleware enforcing limiter per keyFunc(r). A nil
// limiter disables it; an empty key passes through.
func RateLimit(limiter *RateLimiter, keyFunc func(*http.Request) string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil || keyFunc == nil {
				next(w, r)
				return
			}

			key := keyFunc(r)
			if key == "" {
				next(w, r)
				return
			}

			allowed, retryAfter := limiter.Allow(key)
			if allowed {
				next(w, r)
				return
			}

			retrySeconds := int(math.Ceil(retryAfter.Seconds()))
			slog.Warn("Rate limit exceeded", "key", key, "path", sanitizePath(r.URL.Path), "retry_after", retrySeconds)

			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", strconv.Itoa(retrySeconds))
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(struct {
				Error      string `json:"error"`
				Code       int    `json:"code"`
				RetryAfter int    `json:"retry_after"`
			}{
				Error:      "Rate limit exceeded",
				Code:       http.StatusTooManyRequests,
				RetryAfter: retrySeconds,
			})
		}
	}
}
