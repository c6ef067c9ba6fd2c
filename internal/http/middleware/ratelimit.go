package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// RateLimiter is a fixed-window counter per key.
type RateLimiter struct {
	mu      sync.Mutex
	window  time.Duration
	limit   int
	now     func() time.Time
	windows map[string]window
}

type window struct {
	count   int
	expires time.Time
}

func NewRateLimiter(limit int, per time.Duration) *RateLimiter {
	if limit <= 0 {
		limit = 1
	}
	if per <= 0 {
		per = time.Minute
	}
	return &RateLimiter{
		window:  per,
		limit:   limit,
		now:     time.Now,
		windows: make(map[string]window),
	}
}

// Allow records one hit for key. A nil limiter allows everything.
func (rl *RateLimiter) Allow(key string) bool {
	if rl == nil {
		return true
	}
	now := rl.now()
	rl.mu.Lock()
	defer rl.mu.Unlock()

	w := rl.windows[key]
	if !now.Before(w.expires) {
		w = window{expires: now.Add(rl.window)}
	}
	if w.count >= rl.limit {
		rl.windows[key] = w
		return false
	}
	w.count++
	rl.windows[key] = w

	if len(rl.windows) > rl.limit*50 {
		rl.sweep(now)
	}
	return true
}

func (rl *RateLimiter) sweep(now time.Time) {
	for k, w := range rl.windows {
		if !now.Before(w.expires) {
			delete(rl.windows, k)
		}
	}
}

// ClientIP identifies the caller. Forwarding headers are only honored when
// trustProxy is set, i.e. when the server sits behind a proxy that sets them.
func ClientIP(r *http.Request, trustProxy bool) string {
	if r == nil {
		return ""
	}
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			ip, _, _ := strings.Cut(xff, ",")
			if ip = strings.TrimSpace(ip); ip != "" {
				return ip
			}
		}
		if xrip := strings.TrimSpace(r.Header.Get("X-Real-IP")); xrip != "" {
			return xrip
		}
	}
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil {
		return host
	}
	return r.RemoteAddr
}
