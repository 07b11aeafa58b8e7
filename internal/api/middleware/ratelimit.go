package middleware

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

const (
	sweepInterval = time.Minute
	idleEviction  = 3 * time.Minute
)

// bucket is a per-client token bucket. Tokens refill continuously at the
// limiter's rate, capped at burst.
type bucket struct {
	tokens  float64
	updated time.Time
}

func (b *bucket) refill(rate, burst float64, now time.Time) {
	b.tokens += now.Sub(b.updated).Seconds() * rate
	if b.tokens > burst {
		b.tokens = burst
	}
	b.updated = now
}

// RateLimiter throttles requests per client address. Buckets for addresses
// idle longer than idleEviction are swept in the background.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	rate    float64
	burst   float64
}

func NewRateLimiter(rps float64, burst int) *RateLimiter {
	rl := &RateLimiter{
		buckets: make(map[string]*bucket),
		rate:    rps,
		burst:   float64(burst),
	}
	go rl.sweep()
	return rl
}

// allow consumes one token for addr, reporting whether the request may
// proceed.
func (rl *RateLimiter) allow(addr string) bool {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.buckets[addr]
	if !ok {
		b = &bucket{tokens: rl.burst, updated: now}
		rl.buckets[addr] = b
	}
	b.refill(rl.rate, rl.burst, now)
	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// RealIP runs before this, so RemoteAddr holds the client address.
		if !rl.allow(r.RemoteAddr) {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(map[string]string{"error": "rate limit exceeded"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) sweep() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for range ticker.C {
		rl.mu.Lock()
		for addr, b := range rl.buckets {
			if time.Since(b.updated) > idleEviction {
				delete(rl.buckets, addr)
			}
		}
		rl.mu.Unlock()
	}
}
