package services

import (
	"log/slog"
	"sync"
	"time"
)

// Default sliding-window parameters shared by the form endpoints
const (
	DefaultRateLimitWindow    = 15 * time.Minute
	DefaultRateLimitMax       = 5
	DefaultRateLimitRetention = time.Hour
)

// RateLimiter admits or rejects a request for an identifier and records
// admitted requests
type RateLimiter interface {
	CheckAndRecord(identifier string, window time.Duration, maxRequests int) bool
}

// RateLimitPolicy is the window and request budget for one endpoint
type RateLimitPolicy struct {
	Window      time.Duration
	MaxRequests int
}

// DefaultRateLimitPolicy returns the 5 requests per 15 minutes policy
func DefaultRateLimitPolicy() RateLimitPolicy {
	return RateLimitPolicy{
		Window:      DefaultRateLimitWindow,
		MaxRequests: DefaultRateLimitMax,
	}
}

// SlidingWindowRateLimiter keeps a log of request timestamps per identifier
// in process memory. State is lost on restart and is not shared between
// instances.
type SlidingWindowRateLimiter struct {
	mu      sync.Mutex
	windows map[string][]time.Time
	now     func() time.Time
	logger  *slog.Logger
}

// NewSlidingWindowRateLimiter creates a new in-memory rate limiter
func NewSlidingWindowRateLimiter(logger *slog.Logger) *SlidingWindowRateLimiter {
	return &SlidingWindowRateLimiter{
		windows: make(map[string][]time.Time),
		now:     time.Now,
		logger:  logger,
	}
}

// CheckAndRecord prunes timestamps at or before now-window, rejects without
// recording when maxRequests remain, and otherwise records now and admits.
// The prune, check and append happen under one lock.
func (l *SlidingWindowRateLimiter) CheckAndRecord(identifier string, window time.Duration, maxRequests int) bool {
	if window <= 0 {
		window = DefaultRateLimitWindow
	}
	if maxRequests <= 0 {
		maxRequests = DefaultRateLimitMax
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	recent := prune(l.windows[identifier], now.Add(-window))

	if len(recent) >= maxRequests {
		l.windows[identifier] = recent
		l.logger.Warn("rate limit exceeded",
			slog.String("identifier", identifier),
			slog.Int("requests_in_window", len(recent)),
			slog.Duration("window", window))
		return false
	}

	// Keep each log non-decreasing even if the wall clock steps back
	if n := len(recent); n > 0 && now.Before(recent[n-1]) {
		now = recent[n-1]
	}

	l.windows[identifier] = append(recent, now)
	return true
}

// Sweep drops timestamps older than retention from every identifier and
// forgets identifiers left empty. It returns the number of identifiers removed.
func (l *SlidingWindowRateLimiter) Sweep(retention time.Duration) int {
	if retention <= 0 {
		retention = DefaultRateLimitRetention
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-retention)
	removed := 0
	for identifier, stamps := range l.windows {
		recent := prune(stamps, cutoff)
		if len(recent) == 0 {
			delete(l.windows, identifier)
			removed++
			continue
		}
		l.windows[identifier] = recent
	}
	return removed
}

// Len returns the number of tracked identifiers
func (l *SlidingWindowRateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.windows)
}

// prune returns the suffix of stamps strictly newer than cutoff. Stamps are
// appended in order, so the first newer stamp marks the suffix start.
func prune(stamps []time.Time, cutoff time.Time) []time.Time {
	for i, ts := range stamps {
		if ts.After(cutoff) {
			if i == 0 {
				return stamps
			}
			// Copy so the dropped prefix can be collected
			return append([]time.Time(nil), stamps[i:]...)
		}
	}
	return nil
}
