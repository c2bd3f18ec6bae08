// Package ratelimit provides a per-key token bucket used to throttle
// API clients.
package ratelimit

import (
	"sync"
	"time"
)

const (
	cleanupInterval = 5 * time.Minute
	bucketIdleTTL   = time.Hour
)

// Limiter grants or denies one unit of work per key.
type Limiter interface {
	Allow(key string) bool
}

// TokenBucket tracks an independent bucket per key. Each bucket holds
// up to burst tokens and refills one token per interval. Idle buckets
// are dropped in the background.
type TokenBucket struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	burst   int
	refill  time.Duration
	done    chan struct{}
}

type bucket struct {
	tokens     int
	lastRefill time.Time
}

// NewTokenBucket creates a limiter allowing burst requests immediately
// and one more per refill interval afterwards.
func NewTokenBucket(burst int, refill time.Duration) *TokenBucket {
	tb := &TokenBucket{
		buckets: make(map[string]*bucket),
		burst:   burst,
		refill:  refill,
		done:    make(chan struct{}),
	}
	go tb.cleanupLoop()
	return tb
}

// PerMinute creates a limiter admitting rpm requests per minute per key.
func PerMinute(rpm int) *TokenBucket {
	return NewTokenBucket(rpm, time.Minute/time.Duration(rpm))
}

// Allow consumes one token for key, reporting whether the request may
// proceed.
func (tb *TokenBucket) Allow(key string) bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := time.Now()
	b, ok := tb.buckets[key]
	if !ok {
		b = &bucket{tokens: tb.burst, lastRefill: now}
		tb.buckets[key] = b
	}

	if refilled := int(now.Sub(b.lastRefill) / tb.refill); refilled > 0 {
		b.tokens += refilled
		if b.tokens > tb.burst {
			b.tokens = tb.burst
		}
		b.lastRefill = now
	}

	if b.tokens == 0 {
		return false
	}
	b.tokens--
	return true
}

// Close stops the background cleanup goroutine.
func (tb *TokenBucket) Close() {
	close(tb.done)
}

func (tb *TokenBucket) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-tb.done:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-bucketIdleTTL)
			tb.mu.Lock()
			for key, b := range tb.buckets {
				if b.lastRefill.Before(cutoff) {
					delete(tb.buckets, key)
				}
			}
			tb.mu.Unlock()
		}
	}
}
