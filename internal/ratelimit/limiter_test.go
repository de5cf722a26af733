package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

// TestMain verifies that no cleanup goroutine outlives its context.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestTokenBucket_StartCleanup_StopsOnContextCancel(t *testing.T) {
	bucket := NewTokenBucket(5, 24*time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		bucket.StartCleanup(ctx, time.Millisecond)
	}()

	assert.True(t, bucket.Allow("+5511999998888"))
	cancel()
	<-done
}

// fakeClock is a controllable clock for tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

const recipient = "+5511999998888"

func TestTokenBucket_Allow(t *testing.T) {
	t.Run("SixthSendDenied", func(t *testing.T) {
		clock := newFakeClock()
		bucket := NewTokenBucket(5, 24*time.Hour, WithClock(clock))

		for i := 0; i < 5; i++ {
			assert.True(t, bucket.Allow(recipient), "send %d should be allowed", i+1)
		}
		assert.False(t, bucket.Allow(recipient), "sixth send should be denied")
	})

	t.Run("IndependentRecipients", func(t *testing.T) {
		clock := newFakeClock()
		bucket := NewTokenBucket(1, 24*time.Hour, WithClock(clock))

		assert.True(t, bucket.Allow("+5511111111111"))
		assert.True(t, bucket.Allow("+5522222222222"))
		assert.False(t, bucket.Allow("+5511111111111"))
	})

	t.Run("ReplenishesAfterDoubleWindow", func(t *testing.T) {
		clock := newFakeClock()
		bucket := NewTokenBucket(5, 24*time.Hour, WithClock(clock))

		for i := 0; i < 5; i++ {
			bucket.Allow(recipient)
		}
		assert.False(t, bucket.Allow(recipient))

		// One window is not enough once the punitive block is active.
		clock.Advance(24 * time.Hour)
		assert.False(t, bucket.Allow(recipient))

		clock.Advance(24*time.Hour + time.Minute)
		assert.True(t, bucket.Allow(recipient))
	})

	t.Run("WindowReplenishWithoutExhaustion", func(t *testing.T) {
		clock := newFakeClock()
		bucket := NewTokenBucket(5, 24*time.Hour, WithClock(clock))

		for i := 0; i < 5; i++ {
			bucket.Allow(recipient)
		}

		// No denial happened, so a single window is enough.
		clock.Advance(24*time.Hour + time.Minute)
		assert.True(t, bucket.Allow(recipient))
	})
}

func TestTokenBucket_Reset(t *testing.T) {
	clock := newFakeClock()
	bucket := NewTokenBucket(1, 24*time.Hour, WithClock(clock))

	assert.True(t, bucket.Allow(recipient))
	assert.False(t, bucket.Allow(recipient))

	bucket.Reset(recipient)
	assert.True(t, bucket.Allow(recipient))
}

func TestTokenBucket_ConcurrentAllow(t *testing.T) {
	clock := newFakeClock()
	bucket := NewTokenBucket(50, 24*time.Hour, WithClock(clock))

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if bucket.Allow(recipient) {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, allowed)
}
