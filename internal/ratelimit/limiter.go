// Package ratelimit implements the per-recipient send allowance: a token
// bucket with a fixed number of points per rolling window, a punitive block
// after exhaustion and an explicit operator reset.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter decides whether a message may be sent to a recipient.
type Limiter interface {
	// Allow consumes one point for the recipient. It reports false while
	// the recipient is exhausted or blocked.
	Allow(recipient string) bool

	// Reset clears the recipient's state, lifting any active block.
	Reset(recipient string)
}

// Clock abstracts time for tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// bucketEntry tracks one recipient's remaining points and block state.
type bucketEntry struct {
	mu           sync.Mutex
	remaining    int
	windowStart  time.Time
	blockedUntil time.Time
	lastAccess   time.Time
}

// TokenBucket is an in-memory per-recipient token bucket. State is ephemeral
// and rebuildable; losing it on restart only makes the limiter briefly more
// permissive.
type TokenBucket struct {
	entries sync.Map // map[string]*bucketEntry
	points  int
	window  time.Duration
	clock   Clock
}

// Option configures a TokenBucket.
type Option func(*TokenBucket)

// WithClock injects a clock, used by tests to control time.
func WithClock(clock Clock) Option {
	return func(b *TokenBucket) {
		b.clock = clock
	}
}

// NewTokenBucket creates a token bucket granting points per rolling window.
// Exhausting the allowance blocks the recipient for twice the window.
func NewTokenBucket(points int, window time.Duration, opts ...Option) *TokenBucket {
	bucket := &TokenBucket{
		points: points,
		window: window,
		clock:  systemClock{},
	}
	for _, opt := range opts {
		opt(bucket)
	}
	return bucket
}

// Allow consumes one point for the recipient.
func (b *TokenBucket) Allow(recipient string) bool {
	entry := b.getEntry(recipient)
	now := b.clock.Now()

	entry.mu.Lock()
	defer entry.mu.Unlock()

	entry.lastAccess = now

	if now.Before(entry.blockedUntil) {
		return false
	}

	// A full window since the first consumption replenishes all points.
	if now.Sub(entry.windowStart) >= b.window {
		entry.remaining = b.points
		entry.windowStart = now
		entry.blockedUntil = time.Time{}
	}

	if entry.remaining <= 0 {
		// Exhaustion costs double: the recipient is blocked for two
		// windows from the start of the current one.
		entry.blockedUntil = entry.windowStart.Add(2 * b.window)
		return false
	}

	entry.remaining--
	return true
}

// Reset clears the recipient's state, lifting any active block.
func (b *TokenBucket) Reset(recipient string) {
	b.entries.Delete(recipient)
}

// StartCleanup periodically drops entries idle for longer than twice the
// window, bounding memory. It returns when ctx is done.
func (b *TokenBucket) StartCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			b.cleanupStale()
		}
	}
}

func (b *TokenBucket) cleanupStale() {
	cutoff := b.clock.Now().Add(-2 * b.window)
	b.entries.Range(func(key, value any) bool {
		entry := value.(*bucketEntry)
		entry.mu.Lock()
		stale := entry.lastAccess.Before(cutoff) && b.clock.Now().After(entry.blockedUntil)
		entry.mu.Unlock()
		if stale {
			b.entries.Delete(key)
		}
		return true
	})
}

func (b *TokenBucket) getEntry(recipient string) *bucketEntry {
	if val, ok := b.entries.Load(recipient); ok {
		return val.(*bucketEntry)
	}

	entry := &bucketEntry{
		remaining:   b.points,
		windowStart: b.clock.Now(),
	}
	actual, _ := b.entries.LoadOrStore(recipient, entry)
	return actual.(*bucketEntry)
}
