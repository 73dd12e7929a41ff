package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakeClock drives the limiter's notion of time from the test
type fakeClock struct {
	current time.Time
}

func (c *fakeClock) now() time.Time {
	return c.current
}

func (c *fakeClock) advance(d time.Duration) {
	c.current = c.current.Add(d)
}

func newTestLimiter(window time.Duration) (*RateLimiter, *fakeClock) {
	clock := &fakeClock{current: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	limiter := NewRateLimiter(window)
	limiter.now = clock.now
	return limiter, clock
}

func TestRateLimiter_AllowsUpToLimit(t *testing.T) {
	limiter, _ := newTestLimiter(60 * time.Second)

	for i := 0; i < 10; i++ {
		assert.True(t, limiter.Allow(RateClassTransfer, 1, 10), "attempt %d should be allowed", i+1)
	}
	assert.False(t, limiter.Allow(RateClassTransfer, 1, 10), "11th attempt should be denied")
}

func TestRateLimiter_DeniedAttemptsAreNotRecorded(t *testing.T) {
	limiter, clock := newTestLimiter(60 * time.Second)

	for i := 0; i < 5; i++ {
		limiter.Allow(RateClassPurchase, 1, 5)
	}

	// Hammering a denied limiter must not extend the window
	for i := 0; i < 20; i++ {
		assert.False(t, limiter.Allow(RateClassPurchase, 1, 5))
	}

	clock.advance(61 * time.Second)
	assert.True(t, limiter.Allow(RateClassPurchase, 1, 5))
}

func TestRateLimiter_WindowSlides(t *testing.T) {
	limiter, clock := newTestLimiter(60 * time.Second)

	// Three attempts at t=0, two more at t=30
	for i := 0; i < 3; i++ {
		assert.True(t, limiter.Allow(RateClassTransfer, 1, 5))
	}
	clock.advance(30 * time.Second)
	for i := 0; i < 2; i++ {
		assert.True(t, limiter.Allow(RateClassTransfer, 1, 5))
	}
	assert.False(t, limiter.Allow(RateClassTransfer, 1, 5))

	// At t=61 the first three have aged out, leaving room for three more
	clock.advance(31 * time.Second)
	assert.Equal(t, 3, limiter.Remaining(RateClassTransfer, 1, 5))
	assert.True(t, limiter.Allow(RateClassTransfer, 1, 5))
}

func TestRateLimiter_PerUserAndPerClass(t *testing.T) {
	limiter, _ := newTestLimiter(60 * time.Second)

	for i := 0; i < 10; i++ {
		limiter.Allow(RateClassTransfer, 1, 10)
	}
	assert.False(t, limiter.Allow(RateClassTransfer, 1, 10))

	// A different user is unaffected
	assert.True(t, limiter.Allow(RateClassTransfer, 2, 10))

	// The same user's purchase window is separate
	assert.True(t, limiter.Allow(RateClassPurchase, 1, 5))
}

func TestRateLimiter_EvictsEmptyWindows(t *testing.T) {
	limiter, clock := newTestLimiter(60 * time.Second)

	for userID := int64(1); userID <= 50; userID++ {
		limiter.Allow(RateClassTransfer, userID, 10)
	}
	assert.Len(t, limiter.history, 50)

	clock.advance(2 * time.Minute)

	// Touching each key after its entries expire removes it
	for userID := int64(1); userID <= 50; userID++ {
		limiter.Remaining(RateClassTransfer, userID, 10)
	}
	assert.Empty(t, limiter.history)
}

func TestFraudGuard(t *testing.T) {
	guard := NewFraudGuard(1_000_000)

	assert.False(t, guard.IsAnomalous(999_999))
	assert.False(t, guard.IsAnomalous(1_000_000))
	assert.True(t, guard.IsAnomalous(1_000_001))
}
