package service

import (
	"sync"
	"time"
)

// Rate limit classes. Each class has its own per-user window.
const (
	RateClassTransfer = "transfer"
	RateClassPurchase = "purchase"
)

type rateKey struct {
	class  string
	userID int64
}

// RateLimiter enforces per-user sliding-window limits on economic operations.
// Windows live in memory and are pruned lazily; a key whose window empties is
// evicted, so the map is bounded by the set of users active within the last
// window.
type RateLimiter struct {
	mu      sync.Mutex
	window  time.Duration
	history map[rateKey][]time.Time

	// now is swapped out in tests
	now func() time.Time
}

// NewRateLimiter creates a rate limiter with the given sliding window
func NewRateLimiter(window time.Duration) *RateLimiter {
	return &RateLimiter{
		window:  window,
		history: make(map[rateKey][]time.Time),
		now:     time.Now,
	}
}

// Allow reports whether the user may perform another operation of the given
// class under the limit. The attempt is recorded only when permitted, so
// denied calls do not extend the window.
func (l *RateLimiter) Allow(class string, userID int64, limit int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	key := rateKey{class: class, userID: userID}
	recent := l.prune(key, now)

	if len(recent) >= limit {
		return false
	}

	l.history[key] = append(recent, now)
	return true
}

// Remaining returns how many operations of the given class the user has left
// in the current window
func (l *RateLimiter) Remaining(class string, userID int64, limit int) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	recent := l.prune(rateKey{class: class, userID: userID}, l.now())
	if len(recent) >= limit {
		return 0
	}
	return limit - len(recent)
}

// prune drops timestamps that have aged out of the window and evicts the key
// entirely when nothing remains. Caller must hold the lock.
func (l *RateLimiter) prune(key rateKey, now time.Time) []time.Time {
	cutoff := now.Add(-l.window)
	recent := l.history[key]

	i := 0
	for i < len(recent) && !recent[i].After(cutoff) {
		i++
	}
	recent = recent[i:]

	if len(recent) == 0 {
		delete(l.history, key)
		return nil
	}

	l.history[key] = recent
	return recent
}

// FraudGuard flags individually anomalous amounts. Flagging is advisory: the
// operation proceeds, but gets a warning-severity audit entry.
type FraudGuard struct {
	threshold int64
}

// NewFraudGuard creates a fraud guard with the given flag threshold
func NewFraudGuard(threshold int64) *FraudGuard {
	return &FraudGuard{threshold: threshold}
}

// IsAnomalous reports whether a single transfer of amount should be flagged
func (g *FraudGuard) IsAnomalous(amount int64) bool {
	return amount > g.threshold
}
