// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package audit

import (
	"sync"

	"golang.org/x/time/rate"
)

// Limiter admits or flags batch requests per caller. The limiter is
// advisory: a denied admission produces a warning on the batch result, it
// never rejects the work.
type Limiter interface {
	Allow(caller string) bool
}

// TokenBucket keeps one token bucket per caller identity. Buckets are
// created on first use and refill at a fixed per-minute rate.
type TokenBucket struct {
	mu      sync.Mutex
	buckets map[string]*rate.Limiter
	limit   rate.Limit
	burst   int
}

// NewTokenBucket builds a per-caller limiter admitting perMinute requests
// with the given burst. A non-positive perMinute disables limiting.
func NewTokenBucket(perMinute, burst int) *TokenBucket {
	if perMinute <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}
	return &TokenBucket{
		buckets: make(map[string]*rate.Limiter),
		limit:   rate.Limit(float64(perMinute) / 60.0),
		burst:   burst,
	}
}

// Allow reports whether caller has budget for one more batch request. A nil
// TokenBucket admits everything.
func (tb *TokenBucket) Allow(caller string) bool {
	if tb == nil {
		return true
	}
	tb.mu.Lock()
	b, ok := tb.buckets[caller]
	if !ok {
		b = rate.NewLimiter(tb.limit, tb.burst)
		tb.buckets[caller] = b
	}
	tb.mu.Unlock()
	return b.Allow()
}
