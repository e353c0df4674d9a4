// Package ratelimit provides a keyed token bucket used to cap the rate of
// quote processing per asset.
package ratelimit

import (
	"sync"
	"time"
)

type state struct {
	remaining float64
	updatedAt time.Time
}

// Limiter tracks one token bucket per key. Buckets are created on first
// use with a full allowance.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*state
}

func New() *Limiter {
	return &Limiter{buckets: make(map[string]*state)}
}

// Allow consumes one token from the bucket for key, refilling it at
// refillPerSec up to capacity first. It reports whether a token was
// available.
func (l *Limiter) Allow(key string, capacity, refillPerSec float64) bool {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		b = &state{remaining: capacity, updatedAt: now}
		l.buckets[key] = b
	} else if elapsed := now.Sub(b.updatedAt).Seconds(); elapsed > 0 {
		b.remaining += elapsed * refillPerSec
		if b.remaining > capacity {
			b.remaining = capacity
		}
		b.updatedAt = now
	}

	if b.remaining < 1 {
		return false
	}
	b.remaining--
	return true
}

// Forget drops the bucket for key, releasing its state.
func (l *Limiter) Forget(key string) {
	l.mu.Lock()
	delete(l.buckets, key)
	l.mu.Unlock()
}
