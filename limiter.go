package rudimedia

import (
	"sync"
	"time"
)

// loginLimiter caps login attempts per client IP using fixed counting
// windows. Buckets whose window has elapsed are reset on the next attempt
// and swept out whenever the map grows large.
type loginLimiter struct {
	mu      sync.Mutex
	buckets map[string]bucket
	max     int
	window  time.Duration
}

type bucket struct {
	count int
	start time.Time
}

func newLoginLimiter(max int, window time.Duration) *loginLimiter {
	return &loginLimiter{
		buckets: make(map[string]bucket),
		max:     max,
		window:  window,
	}
}

// Allow reports whether the given IP may attempt another login right now.
func (l *loginLimiter) Allow(ip string) bool {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.buckets) > 1024 {
		l.sweep(now)
	}

	b, ok := l.buckets[ip]
	if !ok || now.Sub(b.start) >= l.window {
		l.buckets[ip] = bucket{count: 1, start: now}
		return true
	}
	if b.count >= l.max {
		return false
	}
	b.count++
	l.buckets[ip] = b
	return true
}

func (l *loginLimiter) sweep(now time.Time) {
	for ip, b := range l.buckets {
		if now.Sub(b.start) >= l.window {
			delete(l.buckets, ip)
		}
	}
}
