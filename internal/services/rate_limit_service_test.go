package services

import (
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakeClock is a manually advanced clock for limiter tests
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestLimiter() (*SlidingWindowRateLimiter, *fakeClock) {
	clock := newFakeClock()
	limiter := NewSlidingWindowRateLimiter(slog.Default())
	limiter.now = clock.Now
	return limiter, clock
}

func TestCheckAndRecord_AdmitsUpToMax(t *testing.T) {
	limiter, clock := newTestLimiter()

	for i := 0; i < 5; i++ {
		assert.True(t, limiter.CheckAndRecord("contact:1.2.3.4", 15*time.Minute, 5), "request %d", i+1)
		clock.Advance(time.Second)
	}

	assert.False(t, limiter.CheckAndRecord("contact:1.2.3.4", 15*time.Minute, 5), "6th request should be rejected")
}

func TestCheckAndRecord_RejectionIsNotRecorded(t *testing.T) {
	limiter, clock := newTestLimiter()

	for i := 0; i < 5; i++ {
		limiter.CheckAndRecord("k", time.Minute, 5)
	}
	// Hammering while limited must not extend the block
	for i := 0; i < 10; i++ {
		assert.False(t, limiter.CheckAndRecord("k", time.Minute, 5))
	}

	clock.Advance(time.Minute)
	assert.True(t, limiter.CheckAndRecord("k", time.Minute, 5))
}

func TestCheckAndRecord_WindowSlides(t *testing.T) {
	limiter, clock := newTestLimiter()
	window := 15 * time.Minute

	// First request at t0, the rest at t0+10m
	assert.True(t, limiter.CheckAndRecord("k", window, 5))
	clock.Advance(10 * time.Minute)
	for i := 0; i < 4; i++ {
		assert.True(t, limiter.CheckAndRecord("k", window, 5))
	}
	assert.False(t, limiter.CheckAndRecord("k", window, 5))

	// At t0+15m only the first request has left the window
	clock.Advance(5 * time.Minute)
	assert.True(t, limiter.CheckAndRecord("k", window, 5))
	assert.False(t, limiter.CheckAndRecord("k", window, 5))
}

func TestCheckAndRecord_IdentifiersAreIndependent(t *testing.T) {
	limiter, _ := newTestLimiter()

	for i := 0; i < 5; i++ {
		limiter.CheckAndRecord("contact:1.1.1.1", time.Minute, 5)
	}

	assert.False(t, limiter.CheckAndRecord("contact:1.1.1.1", time.Minute, 5))
	assert.True(t, limiter.CheckAndRecord("contact:2.2.2.2", time.Minute, 5))
	assert.True(t, limiter.CheckAndRecord("pricing:1.1.1.1", time.Minute, 5))
}

func TestCheckAndRecord_DefaultsForInvalidParameters(t *testing.T) {
	limiter, _ := newTestLimiter()

	for i := 0; i < DefaultRateLimitMax; i++ {
		assert.True(t, limiter.CheckAndRecord("k", 0, 0))
	}
	assert.False(t, limiter.CheckAndRecord("k", 0, 0))
}

func TestCheckAndRecord_ClockStepBackKeepsOrder(t *testing.T) {
	limiter, clock := newTestLimiter()

	assert.True(t, limiter.CheckAndRecord("k", time.Hour, 5))
	clock.Advance(-time.Minute)
	assert.True(t, limiter.CheckAndRecord("k", time.Hour, 5))

	stamps := limiter.windows["k"]
	assert.Len(t, stamps, 2)
	assert.False(t, stamps[1].Before(stamps[0]))
}

func TestSweep_DropsStaleIdentifiers(t *testing.T) {
	limiter, clock := newTestLimiter()

	limiter.CheckAndRecord("old", 15*time.Minute, 5)
	clock.Advance(50 * time.Minute)
	limiter.CheckAndRecord("recent", 15*time.Minute, 5)
	clock.Advance(20 * time.Minute)

	removed := limiter.Sweep(time.Hour)

	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, limiter.Len())
	_, stillTracked := limiter.windows["recent"]
	assert.True(t, stillTracked)
}

func TestSweep_PrunesButKeepsActiveIdentifier(t *testing.T) {
	limiter, clock := newTestLimiter()

	limiter.CheckAndRecord("k", 2*time.Hour, 10)
	clock.Advance(90 * time.Minute)
	limiter.CheckAndRecord("k", 2*time.Hour, 10)

	assert.Equal(t, 0, limiter.Sweep(time.Hour))
	assert.Len(t, limiter.windows["k"], 1)
}

func TestCheckAndRecord_ConcurrentCallersRespectBudget(t *testing.T) {
	limiter := NewSlidingWindowRateLimiter(slog.Default())

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		admitted int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if limiter.CheckAndRecord("shared", time.Minute, 5) {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, admitted)
}

func TestDefaultRateLimitPolicy(t *testing.T) {
	policy := DefaultRateLimitPolicy()
	assert.Equal(t, 15*time.Minute, policy.Window)
	assert.Equal(t, 5, policy.MaxRequests)
}
