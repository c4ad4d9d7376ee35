package http

import (
	"math"
	"sync"
	"time"
)

// sweepEvery bounds how often Take scans for idle clients.
const sweepEvery = 5 * time.Minute

type bucket struct {
	tokens float64
	seen   time.Time
}

// RateLimiter is a per-client token bucket that refills continuously:
// capacity requests per window, regained one token every window/capacity.
type RateLimiter struct {
	mu        sync.Mutex
	capacity  float64
	perToken  time.Duration
	buckets   map[string]*bucket
	lastSweep time.Time
	now       func() time.Time
}

func NewRateLimiter(capacity int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		capacity: float64(capacity),
		perToken: window / time.Duration(capacity),
		buckets:  make(map[string]*bucket),
		now:      time.Now,
	}
}

// Take spends one of key's tokens. When none is left it returns false and
// how long the client has to wait for the next one.
func (r *RateLimiter) Take(key string) (bool, time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.sweep(now)

	b, ok := r.buckets[key]
	if !ok {
		b = &bucket{tokens: r.capacity, seen: now}
		r.buckets[key] = b
	}
	b.tokens = r.refilled(b, now)
	b.seen = now

	if b.tokens < 1 {
		missing := 1 - b.tokens
		return false, time.Duration(math.Ceil(missing * float64(r.perToken)))
	}
	b.tokens--
	return true, 0
}

func (r *RateLimiter) refilled(b *bucket, now time.Time) float64 {
	elapsed := now.Sub(b.seen)
	if elapsed <= 0 {
		return b.tokens
	}
	return min(r.capacity, b.tokens+float64(elapsed)/float64(r.perToken))
}

// sweep forgets clients whose bucket has refilled to capacity; they are
// indistinguishable from a client seen for the first time.
func (r *RateLimiter) sweep(now time.Time) {
	if now.Sub(r.lastSweep) < sweepEvery {
		return
	}
	r.lastSweep = now
	for key, b := range r.buckets {
		if r.refilled(b, now) >= r.capacity {
			delete(r.buckets, key)
		}
	}
}
