// Package ratelimit provides the token bucket that bounds all calls to the
// movie metadata API. Callers are never rejected; Acquire blocks until a
// token is available. No fairness between waiters is guaranteed, only the
// aggregate rate bound.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

type Bucket struct {
	mu       sync.Mutex
	capacity float64
	rate     float64 // tokens per millisecond
	tokens   float64
	last     time.Time
}

// NewBucket builds a bucket that refills at ratePerMs tokens per millisecond
// up to capacity. The bucket starts empty, so the sustained bound also holds
// for the very first window after startup.
func NewBucket(capacity int, ratePerMs float64) *Bucket {
	return &Bucket{
		capacity: float64(capacity),
		rate:     ratePerMs,
		last:     time.Now(),
	}
}

// Acquire blocks until a token is available or ctx is done.
func (b *Bucket) Acquire(ctx context.Context) error {
	for {
		b.mu.Lock()
		b.refill(time.Now())
		if b.tokens >= 1 {
			b.tokens--
			b.mu.Unlock()
			return nil
		}
		wait := time.Duration((1-b.tokens)/b.rate) * time.Millisecond
		b.mu.Unlock()

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// refill must be called with the lock held.
func (b *Bucket) refill(now time.Time) {
	elapsed := now.Sub(b.last)
	if elapsed <= 0 {
		return
	}
	b.tokens += b.rate * float64(elapsed) / float64(time.Millisecond)
	if b.tokens > b.capacity {
		b.tokens = b.capacity
	}
	b.last = now
}
