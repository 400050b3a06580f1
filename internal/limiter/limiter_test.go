package limiter

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestLimiter(maxAge time.Duration) (*CooldownLimiter, *time.Time) {
	l := NewCooldownLimiter(maxAge)
	now := time.Now()
	l.now = func() time.Time { return now }
	return l, &now
}

func TestAllowFirstKey(t *testing.T) {
	l, _ := newTestLimiter(10 * time.Minute)

	assert.True(t, l.Allow("user1_contact1", 30*time.Second))
}

func TestBlockWithinCooldown(t *testing.T) {
	l, now := newTestLimiter(10 * time.Minute)

	assert.True(t, l.Allow("user1_contact1", 30*time.Second))
	assert.False(t, l.Allow("user1_contact1", 30*time.Second))

	*now = now.Add(29 * time.Second)
	assert.False(t, l.Allow("user1_contact1", 30*time.Second))

	*now = now.Add(1 * time.Second)
	assert.True(t, l.Allow("user1_contact1", 30*time.Second))
}

func TestIndependentKeys(t *testing.T) {
	l, _ := newTestLimiter(10 * time.Minute)

	assert.True(t, l.Allow("user1_contact1", 30*time.Second))
	assert.True(t, l.Allow("user1_contact2", 30*time.Second))
	assert.True(t, l.Allow("user2_contact1", 30*time.Second))
}

func TestSeparateInstancesDoNotCollide(t *testing.T) {
	share, _ := newTestLimiter(10 * time.Minute)
	live, _ := newTestLimiter(10 * time.Minute)

	assert.True(t, share.Allow("user1", 30*time.Second))
	// Same key on the other instance is unaffected
	assert.True(t, live.Allow("user1", 180*time.Second))
	assert.False(t, share.Allow("user1", 30*time.Second))
	assert.False(t, live.Allow("user1", 180*time.Second))
}

func TestConcurrentAllowAdmitsExactlyOne(t *testing.T) {
	l := NewCooldownLimiter(10 * time.Minute)

	const callers = 50
	var wg sync.WaitGroup
	var mu sync.Mutex
	passed := 0

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.Allow("user1_contact1", 30*time.Second) {
				mu.Lock()
				passed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, passed)
}

func TestSweepEvictsStaleEntries(t *testing.T) {
	l, now := newTestLimiter(10 * time.Minute)

	assert.True(t, l.Allow("stale", 30*time.Second))
	assert.Equal(t, 1, l.Len())

	// Past the GC horizon the entry is evicted and the key admits again
	*now = now.Add(601 * time.Second)
	assert.True(t, l.Allow("other", 30*time.Second))
	assert.Equal(t, 1, l.Len())
	assert.True(t, l.Allow("stale", 30*time.Second))
}
