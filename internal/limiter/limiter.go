package limiter

import (
	"sync"
	"time"
)

// CooldownLimiter is an in-process dedup gate keyed by arbitrary strings.
// Allow performs an atomic check-and-set so two concurrent callers for the
// same key cannot both pass inside the cooldown window.
//
// Separate concerns (per-contact sharing vs subject-wide live sharing) use
// separate limiter instances so their keys never collide.
type CooldownLimiter struct {
	mu       sync.Mutex
	lastSeen map[string]time.Time
	maxAge   time.Duration
	now      func() time.Time // overridable in tests
}

// NewCooldownLimiter creates a limiter whose entries are evicted once they
// are older than maxAge. Eviction runs opportunistically on each Allow call
// rather than on a timer.
func NewCooldownLimiter(maxAge time.Duration) *CooldownLimiter {
	return &CooldownLimiter{
		lastSeen: make(map[string]time.Time),
		maxAge:   maxAge,
		now:      time.Now,
	}
}

// Allow reports whether the cooldown for key has elapsed. When it has, the
// current time is recorded before returning so subsequent callers inside
// the window are blocked. A key never seen before is always allowed.
func (l *CooldownLimiter) Allow(key string, cooldown time.Duration) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	if last, ok := l.lastSeen[key]; ok && now.Sub(last) < cooldown {
		return false
	}
	l.lastSeen[key] = now
	return true
}

// Len returns the number of tracked keys
func (l *CooldownLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.lastSeen)
}

// sweep evicts entries older than maxAge. Callers must hold l.mu.
func (l *CooldownLimiter) sweep(now time.Time) {
	for key, ts := range l.lastSeen {
		if now.Sub(ts) > l.maxAge {
			delete(l.lastSeen, key)
		}
	}
}
